package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	pinelabsName           = "pinelabs"
	pinelabsDefaultBaseURL = "https://api.pluralonline.com"
)

type PineLabsConfig struct {
	MerchantID string
	AccessCode string
	SecretKey  string
	APIBaseURL string
}

type PineLabsProvider struct {
	cfg PineLabsConfig
}

func NewPineLabsProvider(cfg PineLabsConfig) (*PineLabsProvider, error) {
	cfg.MerchantID = strings.TrimSpace(cfg.MerchantID)
	cfg.AccessCode = strings.TrimSpace(cfg.AccessCode)
	cfg.SecretKey = strings.TrimSpace(cfg.SecretKey)
	if cfg.MerchantID == "" || cfg.AccessCode == "" || cfg.SecretKey == "" {
		return nil, errors.New("pinelabs merchant id, access code and secret key are required")
	}

	baseURL := strings.TrimSpace(cfg.APIBaseURL)
	if baseURL == "" {
		baseURL = pinelabsDefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("pinelabs api base url %q is not a valid url: %w", baseURL, err)
	}
	// url.Parse canonicalizes the scheme to lowercase, so HTTPS:// passes and
	// every non-https scheme (or a missing one) fails here.
	if parsed.Scheme != "https" {
		return nil, fmt.Errorf("pinelabs api base url %q must use the https scheme, got %q", baseURL, parsed.Scheme)
	}
	cfg.APIBaseURL = baseURL

	return &PineLabsProvider{cfg: cfg}, nil
}

func (p *PineLabsProvider) Name() string {
	return pinelabsName
}

func (p *PineLabsProvider) Key() string {
	return p.cfg.MerchantID
}

// CreateOrder synthesizes the order locally. The hosted-checkout order API is
// not wired yet; the order id shape matches what the checkout flow expects so
// a real upstream call can replace this without contract changes.
func (p *PineLabsProvider) CreateOrder(ctx context.Context, input *OrderInput) (*Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return &Order{
		OrderID:  fmt.Sprintf("plord_%d_%s", time.Now().UnixNano(), suffix),
		Amount:   input.Amount,
		Currency: input.Currency,
	}, nil
}

func (p *PineLabsProvider) VerifyPayment(orderID, paymentID, signature string) bool {
	message := orderID + "|" + paymentID + "|" + p.cfg.MerchantID
	return verifyHexSignature(p.cfg.SecretKey, []byte(message), signature)
}

func (p *PineLabsProvider) VerifyAndParseWebhook(payload []byte, _ string) (*WebhookEvent, error) {
	var body struct {
		OrderID    string `json:"order_id"`
		PaymentID  string `json:"payment_id"`
		MerchantID string `json:"merchant_id"`
		Amount     int64  `json:"amount"`
		Status     string `json:"status"`
		PlanID     string `json:"plan_id"`
		Signature  string `json:"signature"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("%w: payload is not valid json", ErrMissingWebhookFields)
	}

	orderID := strings.TrimSpace(body.OrderID)
	paymentID := strings.TrimSpace(body.PaymentID)
	// Field presence is checked before any signature work so the caller can
	// answer bad-request instead of unauthorized.
	if orderID == "" || paymentID == "" {
		return nil, fmt.Errorf("%w: order_id and payment_id are required", ErrMissingWebhookFields)
	}

	signature := strings.TrimSpace(body.Signature)
	if signature == "" {
		return nil, fmt.Errorf("%w: signature field is missing", ErrInvalidSignature)
	}
	if !p.VerifyPayment(orderID, paymentID, signature) {
		return nil, ErrInvalidSignature
	}

	return &WebhookEvent{
		PaymentID: paymentID,
		OrderID:   orderID,
		Amount:    body.Amount,
		PlanID:    strings.TrimSpace(body.PlanID),
		Status:    pinelabsStatus(body.Status),
	}, nil
}

func pinelabsStatus(status string) string {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "SUCCESS", "CAPTURED", "TXN_SUCCESS":
		return "completed"
	case "FAILED", "FAILURE", "TXN_FAILURE":
		return "failed"
	default:
		return "pending"
	}
}
