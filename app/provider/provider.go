package provider

import "context"

type OrderInput struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// Order echoes the amount and currency handed to CreateOrder; adapters must
// not alter them.
type Order struct {
	OrderID  string
	Amount   int64
	Currency string
}

type WebhookEvent struct {
	PaymentID string
	OrderID   string
	Amount    int64
	PlanID    string
	Status    string
}

type Provider interface {
	Name() string

	// Key returns the public-safe identifier only (key id or merchant id),
	// never secret material.
	Key() string

	CreateOrder(ctx context.Context, input *OrderInput) (*Order, error)

	// VerifyPayment reports whether signature matches the provider's payment
	// signature scheme for the given ids. It never panics; malformed input
	// collapses to false. The comparison is constant-time with respect to the
	// signature bytes.
	VerifyPayment(orderID, paymentID, signature string) bool

	VerifyAndParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}
