package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/storefront/internal/cart"
	"github.com/example/storefront/internal/checkout"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/payments"
	"github.com/example/storefront/internal/repository"
	"github.com/example/storefront/internal/utils"
)

// OrderHandler manages order endpoints.
type OrderHandler struct {
	orders   *repository.OrderRepository
	verifier payments.Verifier
	cfg      *config.Config
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(orders *repository.OrderRepository, verifier payments.Verifier, cfg *config.Config) *OrderHandler {
	return &OrderHandler{orders: orders, verifier: verifier, cfg: cfg}
}

func pricingFromConfig(cfg *config.Config) cart.PricingConfig {
	return cart.PricingConfig{
		TaxRate:               cfg.TaxRate,
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		FlatShippingCost:      cfg.FlatShippingCost,
	}
}

type orderLineRequest struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

type createOrderRequest struct {
	IdempotencyKey  string                    `json:"idempotency_key"`
	Items           []orderLineRequest        `json:"items"`
	ShippingAddress checkout.ShippingDetails  `json:"shipping_address"`
	BillingAddress  *checkout.ShippingDetails `json:"billing_address"`
	PaymentMethod   string                    `json:"payment_method"`
	Discount        string                    `json:"discount"`
}

// CreateOrder places a pending order. Monetary fields are recomputed
// server-side from the submitted lines; the client's own arithmetic is
// never trusted. A repeated idempotency key returns the original order.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.IdempotencyKey == "" {
		return fiber.NewError(fiber.StatusBadRequest, "idempotency_key is required")
	}
	if len(req.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "order has no items")
	}
	if errs := checkout.ValidateShipping(req.ShippingAddress); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "errors": errs})
	}

	basket, err := basketFromLines(req.Items, req.Discount)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	totals := basket.Totals(pricingFromConfig(h.cfg))

	billing := req.ShippingAddress
	if req.BillingAddress != nil {
		billing = *req.BillingAddress
	}

	order := &models.Order{
		IdempotencyKey:  req.IdempotencyKey,
		UserID:          &userID,
		ShippingAddress: addressFromDetails(req.ShippingAddress),
		BillingAddress:  addressFromDetails(billing),
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   models.PaymentPending,
		OrderStatus:     models.OrderPending,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		ShippingCost:    totals.Shipping,
		Discount:        totals.Discount,
		TotalAmount:     totals.Total,
		Currency:        h.cfg.Currency,
	}

	for _, line := range basket.Lines() {
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

	created, err := h.orders.Create(c.Context(), order)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":           created.ID,
			"order_number": created.OrderNumber,
			"order_status": created.OrderStatus,
			"total_amount": created.TotalAmount,
			"currency":     created.Currency,
		},
	})
}

func basketFromLines(items []orderLineRequest, discount string) (*cart.Cart, error) {
	basket := cart.New(nil)

	for _, item := range items {
		price, err := decimal.NewFromString(item.UnitPrice)
		if err != nil || price.IsNegative() {
			return nil, errors.New("unit_price must be a non-negative decimal")
		}

		line := cart.Line{
			Title:     item.Title,
			UnitPrice: price,
			Variant:   cart.Variant{Color: item.Color, Size: item.Size},
		}
		if item.ProductID != "" {
			id, err := uuid.Parse(item.ProductID)
			if err != nil {
				return nil, errors.New("invalid product_id")
			}
			line.ProductID = id
		}

		basket.AddItem(line, item.Quantity)
	}

	if discount != "" {
		d, err := decimal.NewFromString(discount)
		if err != nil {
			return nil, errors.New("discount must be a decimal")
		}
		basket.ApplyDiscount(d)
	}

	return basket, nil
}

func addressFromDetails(d checkout.ShippingDetails) models.Address {
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

// MyOrders returns the authenticated user's orders.
func (h *OrderHandler) MyOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	filter := repository.OrderFilter{
		UserID:      &userID,
		OrderStatus: c.Query("status"),
	}

	orders, total, err := h.orders.FindAll(c.Context(), filter, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// ListOrders returns all orders for admins, paginated and filterable.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	filter := repository.OrderFilter{
		OrderStatus:   c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
	}
	if v := c.Query("user_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filter.UserID = &id
		}
	}

	orders, total, err := h.orders.FindAll(c.Context(), filter, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder returns a single order; customers may only see their own.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	order, err := h.orders.FindByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if !middleware.IsAdmin(c) && (order.UserID == nil || *order.UserID != userID) {
		return fiber.NewError(fiber.StatusNotFound, "order not found")
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

type updateOrderRequest struct {
	OrderStatus string `json:"order_status"`
}

// UpdateOrder transitions an order's status (admin).
func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.orders.UpdateStatus(c.Context(), id, req.OrderStatus)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		case errors.Is(err, repository.ErrInvalidTransition):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// DeleteOrder removes an order permanently (admin).
func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.orders.Delete(c.Context(), id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "order deleted"})
}

// Pay records a verified payment against an existing pending order. The
// reference from the provider response is re-verified server-side before
// the order is marked paid.
func (h *OrderHandler) Pay(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var providerResponse map[string]any
	if err := c.BodyParser(&providerResponse); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.orders.FindByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if order.PaymentStatus == models.PaymentPaid {
		return c.JSON(fiber.Map{"success": true, "data": order})
	}

	reference, ok := payments.ExtractReference(providerResponse)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, payments.ErrReferenceMissing.Error())
	}

	result, err := h.verifier.Verify(c.Context(), reference)
	if err != nil {
		if errors.Is(err, payments.ErrNotConfigured) {
			return fiber.NewError(fiber.StatusServiceUnavailable, "payment provider unavailable, contact support")
		}
		return fiber.NewError(fiber.StatusPaymentRequired, payments.ErrVerificationFailed.Error())
	}
	if !result.Success() {
		return fiber.NewError(fiber.StatusPaymentRequired, payments.ErrVerificationFailed.Error())
	}

	expected := order.TotalAmount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if result.Amount != expected {
		return fiber.NewError(fiber.StatusPaymentRequired, "charged amount does not match order total")
	}

	paidAt := order.CreatedAt
	if result.PaidAt != nil {
		paidAt = *result.PaidAt
	}
	if err := h.orders.MarkPaid(c.Context(), order.ID, reference, paidAt); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, payments.ErrOrderRecordingFailed.Error())
	}

	order.PaymentStatus = models.PaymentPaid
	order.PaymentReference = reference

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// Deliver marks an order as delivered (admin).
func (h *OrderHandler) Deliver(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	order, err := h.orders.UpdateStatus(c.Context(), id, models.OrderDelivered)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		case errors.Is(err, repository.ErrInvalidTransition):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}
