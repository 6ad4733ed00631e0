package entity

import "time"

const (
	SubscriptionStatusActive = "active"
)

// Subscription is derived 1:1 from a verified, completed payment. The
// SubscriptionID is generated locally and is independent of provider ids.
type Subscription struct {
	SubscriptionID string

	PlanID string
	Amount int64
	Status string

	PaymentID string

	CreatedAt time.Time
}
