package entity

import "time"

const (
	WebhookLogStatusProcessed = "processed"
	WebhookLogStatusDuplicate = "duplicate"
	WebhookLogStatusRejected  = "rejected"
)

type WebhookLog struct {
	ID uint64

	Provider    string
	PaymentID   *string
	Signature   string
	PayloadJSON string
	Status      string
	Error       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
