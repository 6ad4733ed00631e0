package entity

import "time"

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Payment is the idempotency ledger entry for a verified payment.
// Rows are append-only: once written for a PaymentID they are never mutated.
type Payment struct {
	PaymentID string
	OrderID   string
	Provider  string

	Amount int64
	PlanID string
	Status string

	CreatedAt time.Time
}
