package handlers

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront/internal/cart"
	"github.com/example/storefront/internal/checkout"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/payments"
	"github.com/example/storefront/internal/repository"
	"github.com/example/storefront/internal/services"
)

// PaymentHandler drives post-payment reconciliation.
type PaymentHandler struct {
	reconciler *payments.Reconciler
	users      *repository.UserRepository
	mailer     *services.Mailer
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(reconciler *payments.Reconciler, users *repository.UserRepository, mailer *services.Mailer) *PaymentHandler {
	return &PaymentHandler{reconciler: reconciler, users: users, mailer: mailer}
}

type verifyPaystackRequest struct {
	ProviderResponse map[string]any            `json:"provider_response"`
	Cart             json.RawMessage           `json:"cart"`
	ShippingAddress  checkout.ShippingDetails  `json:"shipping_address"`
	BillingAddress   *checkout.ShippingDetails `json:"billing_address"`
	Payment          checkout.PaymentSelection `json:"payment"`
	IdempotencyKey   string                    `json:"idempotency_key"`
}

// VerifyPaystack re-verifies a provider callback server-side and, on
// success, persists the paid order built from the submitted cart snapshot
// and checkout addresses. Verification always completes before the order
// write is attempted.
func (h *PaymentHandler) VerifyPaystack(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req verifyPaystackRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.IdempotencyKey == "" {
		return fiber.NewError(fiber.StatusBadRequest, "idempotency_key is required")
	}

	basket := cart.New(nil)
	basket.Restore(req.Cart)
	if basket.IsEmpty() {
		return fiber.NewError(fiber.StatusBadRequest, "cart is empty")
	}

	session, errs := completedSession(req.ShippingAddress, req.BillingAddress, req.Payment)
	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "errors": errs})
	}

	attempt := payments.Attempt{
		Cart:           basket,
		Session:        session,
		UserID:         &userID,
		IdempotencyKey: req.IdempotencyKey,
	}

	order, err := h.reconciler.HandlePaymentSuccess(c.Context(), req.ProviderResponse, attempt)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrReferenceMissing):
			return fiber.NewError(fiber.StatusBadRequest, "no transaction reference in provider response")
		case errors.Is(err, payments.ErrNotConfigured):
			return fiber.NewError(fiber.StatusServiceUnavailable, "payment provider unavailable, contact support")
		case errors.Is(err, payments.ErrVerificationFailed):
			return fiber.NewError(fiber.StatusPaymentRequired, "payment could not be confirmed, no order was created")
		case errors.Is(err, payments.ErrOrderRecordingFailed):
			// money has moved without an order; this message must not be
			// confused with a declined payment
			return fiber.NewError(fiber.StatusInternalServerError,
				"payment succeeded but the order could not be recorded, contact support with your payment reference")
		}
		return err
	}

	if user, uerr := h.users.FindByID(c.Context(), userID); uerr == nil {
		if merr := h.mailer.SendOrderConfirmation(user.Email, order.OrderNumber, order.TotalAmount.StringFixed(2)+" "+order.Currency); merr != nil {
			log.Printf("[Payment] confirmation mail for %s failed: %v", order.OrderNumber, merr)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":                order.ID,
			"order_number":      order.OrderNumber,
			"payment_status":    order.PaymentStatus,
			"payment_reference": order.PaymentReference,
			"total_amount":      order.TotalAmount,
			"currency":          order.Currency,
		},
	})
}

// completedSession replays the wizard over the submitted form data so the
// same validation gates the server-side flow.
func completedSession(shipping checkout.ShippingDetails, billing *checkout.ShippingDetails, payment checkout.PaymentSelection) (*checkout.Session, checkout.FieldErrors) {
	session := checkout.NewSession()
	session.SetShipping(shipping)
	if billing != nil {
		session.DecoupleBilling(*billing)
	}
	if errs := session.Advance(); len(errs) > 0 {
		return nil, errs
	}

	session.SetPayment(payment)
	if errs := session.Advance(); len(errs) > 0 {
		return nil, errs
	}

	return session, nil
}
