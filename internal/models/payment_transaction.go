package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentTransaction records the outcome of a Paystack verification call.
// One row per verified reference; the unique index doubles as the guard
// against reconciling the same payment twice.
type PaymentTransaction struct {
	BaseModel
	Reference     string     `gorm:"uniqueIndex" json:"reference"`
	Status        string     `json:"status"`
	Amount        int64      `json:"amount"`
	Currency      string     `json:"currency"`
	Channel       string     `json:"channel"`
	CustomerEmail string     `json:"customer_email"`
	PaidAt        *time.Time `json:"paid_at"`
	OrderID       *uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	RawResponse   []byte     `gorm:"type:jsonb" json:"raw_response"`
}
