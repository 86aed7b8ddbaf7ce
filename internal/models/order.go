package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment statuses.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Order statuses. Delivered and cancelled are terminal.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Address is a postal address captured at checkout time.
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Street    string `json:"street"`
	City      string `json:"city"`
	Region    string `json:"region"`
}

type Order struct {
	BaseModel
	OrderNumber    string     `gorm:"uniqueIndex" json:"order_number"`
	IdempotencyKey string     `gorm:"uniqueIndex" json:"idempotency_key"`
	UserID         *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User           *User      `json:"user,omitempty"`

	ShippingAddress Address `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	BillingAddress  Address `gorm:"embedded;embeddedPrefix:billing_" json:"billing_address"`

	PaymentMethod string `json:"payment_method"`
	PaymentStatus string `gorm:"default:pending" json:"payment_status"`
	OrderStatus   string `gorm:"default:pending" json:"order_status"`

	Subtotal     decimal.Decimal `gorm:"type:numeric(12,2)" json:"subtotal"`
	Tax          decimal.Decimal `gorm:"type:numeric(12,2)" json:"tax"`
	ShippingCost decimal.Decimal `gorm:"type:numeric(12,2)" json:"shipping_cost"`
	Discount     decimal.Decimal `gorm:"type:numeric(12,2)" json:"discount"`
	TotalAmount  decimal.Decimal `gorm:"type:numeric(12,2)" json:"total_amount"`
	Currency     string          `json:"currency"`

	PaymentReference string     `json:"payment_reference"`
	PaidAt           *time.Time `json:"paid_at"`
	DeliveredAt      *time.Time `json:"delivered_at"`

	Items []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID       `gorm:"type:uuid;index" json:"order_id"`
	ProductID *uuid.UUID      `gorm:"type:uuid" json:"product_id"`
	Title     string          `json:"title"`
	Color     string          `json:"color"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2)" json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"type:numeric(12,2)" json:"line_total"`
}

// IsTerminal reports whether the order status admits no further transitions.
func (o *Order) IsTerminal() bool {
	return o.OrderStatus == OrderDelivered || o.OrderStatus == OrderCancelled
}

// ValidOrderTransition reports whether an order may move from one status
// to another: pending → processing → delivered, with cancellation allowed
// from any non-terminal status.
func ValidOrderTransition(from, to string) bool {
	switch from {
	case OrderPending:
		return to == OrderProcessing || to == OrderCancelled
	case OrderProcessing:
		return to == OrderDelivered || to == OrderCancelled
	default:
		return false
	}
}
