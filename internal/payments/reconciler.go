package payments

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/storefront/internal/cart"
	"github.com/example/storefront/internal/checkout"
	"github.com/example/storefront/internal/models"
)

// OrderWriter persists a verified, paid order.
type OrderWriter interface {
	CreatePaidOrder(ctx context.Context, order *models.Order) (*models.Order, error)
}

// TransactionRecorder logs provider verification outcomes.
type TransactionRecorder interface {
	RecordTransaction(ctx context.Context, txn *models.PaymentTransaction) error
}

// Attempt is the client state a reconciliation works from: the cart at
// call time, the completed checkout session, and the idempotency key minted
// for this checkout attempt.
type Attempt struct {
	Cart           *cart.Cart
	Session        *checkout.Session
	UserID         *uuid.UUID
	IdempotencyKey string
}

// Reconciler matches a confirmed payment to exactly one persisted order.
// Verification is always awaited before the order write is attempted; a
// paid order never exists without a verified reference.
type Reconciler struct {
	verifier Verifier
	orders   OrderWriter
	txns     TransactionRecorder
	pricing  cart.PricingConfig
	currency string
}

// NewReconciler wires the reconciler's collaborators. txns may be nil when
// no transaction log is kept.
func NewReconciler(verifier Verifier, orders OrderWriter, txns TransactionRecorder, pricing cart.PricingConfig, currency string) *Reconciler {
	return &Reconciler{
		verifier: verifier,
		orders:   orders,
		txns:     txns,
		pricing:  pricing,
		currency: currency,
	}
}

// HandlePaymentSuccess runs the post-payment flow: extract the reference,
// verify it with the provider, then persist an order built from the cart
// snapshot and session addresses. The order's monetary fields are the
// totals computed from the cart at call time.
func (r *Reconciler) HandlePaymentSuccess(ctx context.Context, providerResponse map[string]any, attempt Attempt) (*models.Order, error) {
	reference, ok := ExtractReference(providerResponse)
	if !ok {
		return nil, ErrReferenceMissing
	}

	result, err := r.verifier.Verify(ctx, reference)
	if err != nil {
		// a missing provider configuration is not a declined payment
		if errors.Is(err, ErrNotConfigured) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}
	if !result.Success() {
		return nil, fmt.Errorf("%w: provider reported status %q", ErrVerificationFailed, result.Status)
	}

	totals := attempt.Cart.Totals(r.pricing)
	if result.Amount != totals.TotalMinor() {
		return nil, fmt.Errorf("%w: charged amount %d does not match cart total %d",
			ErrVerificationFailed, result.Amount, totals.TotalMinor())
	}

	order := r.buildOrder(reference, result, totals, attempt)

	created, err := r.orders.CreatePaidOrder(ctx, order)
	if err != nil {
		log.Printf("[Reconciler] order write failed after verified payment %s: %v", reference, err)
		return nil, fmt.Errorf("%w: %v", ErrOrderRecordingFailed, err)
	}

	if r.txns != nil {
		txn := &models.PaymentTransaction{
			Reference:     result.Reference,
			Status:        result.Status,
			Amount:        result.Amount,
			Currency:      result.Currency,
			Channel:       result.Channel,
			CustomerEmail: result.CustomerEmail,
			PaidAt:        result.PaidAt,
			OrderID:       &created.ID,
			RawResponse:   result.Raw,
		}
		if err := r.txns.RecordTransaction(ctx, txn); err != nil {
			log.Printf("[Reconciler] transaction log write failed for %s: %v", reference, err)
		}
	}

	return created, nil
}

// HandlePaymentCancel acknowledges a shopper-abandoned payment attempt.
// No server action is taken; the cart and session are left untouched so
// the shopper can retry.
func (r *Reconciler) HandlePaymentCancel(attempt Attempt) {
	log.Printf("[Reconciler] payment attempt %s cancelled by shopper", attempt.IdempotencyKey)
}

func (r *Reconciler) buildOrder(reference string, result *VerifyResult, totals cart.Totals, attempt Attempt) *models.Order {
	shipping := attempt.Session.Shipping()
	billing := attempt.Session.Billing()
	payment := attempt.Session.Payment()

	paidAt := result.PaidAt
	if paidAt == nil {
		now := time.Now()
		paidAt = &now
	}

	order := &models.Order{
		IdempotencyKey:   attempt.IdempotencyKey,
		UserID:           attempt.UserID,
		ShippingAddress:  toAddress(shipping),
		BillingAddress:   toAddress(billing),
		PaymentMethod:    payment.Channel,
		PaymentStatus:    models.PaymentPaid,
		OrderStatus:      models.OrderPending,
		Subtotal:         totals.Subtotal,
		Tax:              totals.Tax,
		ShippingCost:     totals.Shipping,
		Discount:         totals.Discount,
		TotalAmount:      totals.Total,
		Currency:         r.currency,
		PaymentReference: reference,
		PaidAt:           paidAt,
	}

	for _, line := range attempt.Cart.Lines() {
		productID := line.ProductID
		order.Items = append(order.Items, models.OrderItem{
			ProductID: &productID,
			Title:     line.Title,
			Color:     line.Variant.Color,
			Size:      line.Variant.Size,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2),
		})
	}

	return order
}

func toAddress(d checkout.ShippingDetails) models.Address {
	return models.Address{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		Phone:     d.Phone,
		Street:    d.Street,
		City:      d.City,
		Region:    d.Region,
	}
}
