package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
)

const razorpayName = "razorpay"

type RazorpayConfig struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	HTTPTimeout   time.Duration
}

// razorpayOrderClient is the slice of the razorpay-go SDK used for order
// creation, kept behind an interface so tests can stub the upstream call.
type razorpayOrderClient interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type RazorpayProvider struct {
	cfg    RazorpayConfig
	orders razorpayOrderClient
}

func NewRazorpayProvider(cfg RazorpayConfig) (*RazorpayProvider, error) {
	cfg.KeyID = strings.TrimSpace(cfg.KeyID)
	cfg.KeySecret = strings.TrimSpace(cfg.KeySecret)
	cfg.WebhookSecret = strings.TrimSpace(cfg.WebhookSecret)
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil, errors.New("razorpay key id and key secret are required")
	}

	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	cfg.HTTPTimeout = timeout

	client := razorpay.NewClient(cfg.KeyID, cfg.KeySecret)
	client.SetTimeout(int16(timeout / time.Second))

	return &RazorpayProvider{
		cfg:    cfg,
		orders: client.Order,
	}, nil
}

func (p *RazorpayProvider) Name() string {
	return razorpayName
}

func (p *RazorpayProvider) Key() string {
	return p.cfg.KeyID
}

func (p *RazorpayProvider) CreateOrder(ctx context.Context, input *OrderInput) (*Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	receipt := strings.TrimSpace(input.Receipt)
	if receipt == "" {
		receipt = fmt.Sprintf("rcpt_%d", time.Now().UnixNano())
	}

	data := map[string]interface{}{
		"amount":   input.Amount,
		"currency": input.Currency,
		"receipt":  receipt,
	}
	if len(input.Notes) > 0 {
		notes := make(map[string]interface{}, len(input.Notes))
		for k, v := range input.Notes {
			notes[k] = v
		}
		data["notes"] = notes
	}

	body, err := p.orders.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order creation failed: %w", err)
	}

	orderID, _ := body["id"].(string)
	if strings.TrimSpace(orderID) == "" {
		return nil, errors.New("razorpay order creation failed: order id missing from response")
	}

	order := &Order{
		OrderID:  orderID,
		Amount:   input.Amount,
		Currency: input.Currency,
	}
	if amount, ok := parseAmount(body["amount"]); ok && amount != input.Amount {
		return nil, fmt.Errorf("razorpay order creation failed: upstream amount %d does not match requested %d", amount, input.Amount)
	}
	return order, nil
}

func (p *RazorpayProvider) VerifyPayment(orderID, paymentID, signature string) bool {
	return verifyHexSignature(p.cfg.KeySecret, []byte(orderID+"|"+paymentID), signature)
}

func (p *RazorpayProvider) VerifyAndParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return nil, fmt.Errorf("%w: x-razorpay-signature header is missing", ErrInvalidSignature)
	}
	// Without a configured webhook secret there is nothing to verify
	// against; accepting would mean trusting HMACs over an empty key.
	if p.cfg.WebhookSecret == "" {
		return nil, fmt.Errorf("%w: webhook secret is not configured", ErrInvalidSignature)
	}
	if !verifyHexSignature(p.cfg.WebhookSecret, payload, signature) {
		return nil, ErrInvalidSignature
	}

	var event struct {
		Event   string `json:"event"`
		Payload struct {
			Payment struct {
				Entity struct {
					ID      string          `json:"id"`
					OrderID string          `json:"order_id"`
					Amount  int64           `json:"amount"`
					Notes   json.RawMessage `json:"notes"`
				} `json:"entity"`
			} `json:"payment"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: payload is not valid json", ErrMissingWebhookFields)
	}

	entity := event.Payload.Payment.Entity
	paymentID := strings.TrimSpace(entity.ID)
	orderID := strings.TrimSpace(entity.OrderID)
	if paymentID == "" || orderID == "" {
		return nil, fmt.Errorf("%w: payment id and order id are required", ErrMissingWebhookFields)
	}

	return &WebhookEvent{
		PaymentID: paymentID,
		OrderID:   orderID,
		Amount:    entity.Amount,
		PlanID:    noteValue(entity.Notes, "planId"),
		Status:    razorpayEventStatus(event.Event),
	}, nil
}

func razorpayEventStatus(event string) string {
	switch strings.TrimSpace(event) {
	case "payment.captured", "order.paid":
		return "completed"
	case "payment.failed":
		return "failed"
	default:
		return "pending"
	}
}

// noteValue tolerates the two shapes Razorpay uses for empty notes: an object
// or an empty array.
func noteValue(raw json.RawMessage, key string) string {
	if len(raw) == 0 {
		return ""
	}
	var notes map[string]string
	if json.Unmarshal(raw, &notes) != nil {
		return ""
	}
	return strings.TrimSpace(notes[key])
}

func parseAmount(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case float64:
		return int64(t), true
	case int64:
		return t, true
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
