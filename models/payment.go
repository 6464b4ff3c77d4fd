package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	MethodCash  PaymentMethod = "cash"
	MethodCard  PaymentMethod = "card"
	MethodOther PaymentMethod = "other"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentFailed    PaymentStatus = "failed"
)

// Payment rows accumulate against an order; refunds are negative-amount rows
// linked back to the original through RefundOf. Rows are never updated in
// place (audit trail survives order edits).
type Payment struct {
	ID      uint `json:"id" gorm:"primaryKey"`
	OrderID uint `json:"order_id" gorm:"not null;uniqueIndex:idx_payment_order_idem,priority:1"`
	// Amount is signed: negative means refund.
	Amount decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	Method PaymentMethod   `json:"method" gorm:"not null"`
	Status PaymentStatus   `json:"status" gorm:"not null;default:'pending'"`
	// IdempotencyKey is required for card charges; unique per order (the
	// composite index with OrderID) so a replayed request cannot double-charge.
	// NULL for cash rows, which the index ignores.
	IdempotencyKey *string   `json:"idempotency_key,omitempty" gorm:"uniqueIndex:idx_payment_order_idem,priority:2"`
	ExternalRef    string    `json:"external_ref,omitempty"` // processor charge/refund reference
	Receipt        string    `json:"receipt,omitempty"`      // processor receipt id, replayed verbatim
	RefundOf       *uint     `json:"refund_of,omitempty" gorm:"index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
