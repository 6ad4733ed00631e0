package types

import (
	"errors"
	"io"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	ErrorCodePaymentInitFailed = "PAYMENT_INIT_FAILED"
	ErrorCodeInvalidSignature  = "INVALID_SIGNATURE"
	ErrorCodeMissingFields     = "MISSING_FIELDS"
	ErrorCodeInvalidRequest    = "INVALID_REQUEST"
	ErrorCodeInternal          = "INTERNAL_ERROR"
)

const RazorpaySignatureHeader = "x-razorpay-signature"

type InitiatePaymentRequest struct {
	PlanId       string `json:"planId"`
	Amount       int64  `json:"amount"`
	BillingCycle string `json:"billingCycle"`
	Provider     string `json:"provider,omitempty"`
}

func NewInitiatePaymentRequestFromContext(ctx echo.Context) (*InitiatePaymentRequest, error) {
	var body InitiatePaymentRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.PlanId = strings.TrimSpace(body.PlanId)
	body.BillingCycle = strings.ToLower(strings.TrimSpace(body.BillingCycle))
	body.Provider = strings.ToLower(strings.TrimSpace(body.Provider))
	return &body, nil
}

func (r *InitiatePaymentRequest) Validate() error {
	if strings.TrimSpace(r.GetPlanId()) == "" {
		return errors.New("planId is required")
	}
	if r.GetAmount() <= 0 {
		return errors.New("amount must be > 0")
	}
	return nil
}

func (r *InitiatePaymentRequest) GetPlanId() string {
	if r == nil {
		return ""
	}
	return r.PlanId
}

func (r *InitiatePaymentRequest) GetAmount() int64 {
	if r == nil {
		return 0
	}
	return r.Amount
}

func (r *InitiatePaymentRequest) GetBillingCycle() string {
	if r == nil {
		return ""
	}
	return r.BillingCycle
}

func (r *InitiatePaymentRequest) GetProvider() string {
	if r == nil {
		return ""
	}
	return r.Provider
}

type VerifyPaymentRequest struct {
	OrderId   string `json:"orderId"`
	PaymentId string `json:"paymentId"`
	Signature string `json:"signature"`
	Provider  string `json:"provider,omitempty"`
	PlanId    string `json:"planId"`
	Amount    int64  `json:"amount"`
}

func NewVerifyPaymentRequestFromContext(ctx echo.Context) (*VerifyPaymentRequest, error) {
	var body VerifyPaymentRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.OrderId = strings.TrimSpace(body.OrderId)
	body.PaymentId = strings.TrimSpace(body.PaymentId)
	body.Signature = strings.TrimSpace(body.Signature)
	body.Provider = strings.ToLower(strings.TrimSpace(body.Provider))
	body.PlanId = strings.TrimSpace(body.PlanId)
	return &body, nil
}

func (r *VerifyPaymentRequest) Validate() error {
	if strings.TrimSpace(r.GetOrderId()) == "" {
		return errors.New("orderId is required")
	}
	if strings.TrimSpace(r.GetPaymentId()) == "" {
		return errors.New("paymentId is required")
	}
	// A blank signature is handled by verification, so a caller cannot
	// tell "missing" apart from "wrong".
	return nil
}

func (r *VerifyPaymentRequest) GetOrderId() string {
	if r == nil {
		return ""
	}
	return r.OrderId
}

func (r *VerifyPaymentRequest) GetPaymentId() string {
	if r == nil {
		return ""
	}
	return r.PaymentId
}

func (r *VerifyPaymentRequest) GetSignature() string {
	if r == nil {
		return ""
	}
	return r.Signature
}

func (r *VerifyPaymentRequest) GetProvider() string {
	if r == nil {
		return ""
	}
	return r.Provider
}

func (r *VerifyPaymentRequest) GetPlanId() string {
	if r == nil {
		return ""
	}
	return r.PlanId
}

func (r *VerifyPaymentRequest) GetAmount() int64 {
	if r == nil {
		return 0
	}
	return r.Amount
}

// WebhookRequest carries the untouched request body; signature verification
// runs over these exact bytes.
type WebhookRequest struct {
	Provider  string
	Payload   []byte
	Signature string
}

func NewWebhookRequestFromContext(ctx echo.Context) (*WebhookRequest, error) {
	payload, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return nil, err
	}
	return &WebhookRequest{
		Provider:  strings.ToLower(strings.TrimSpace(ctx.Param("provider"))),
		Payload:   payload,
		Signature: strings.TrimSpace(ctx.Request().Header.Get(RazorpaySignatureHeader)),
	}, nil
}

func (r *WebhookRequest) Validate() error {
	if strings.TrimSpace(r.Provider) == "" {
		return errors.New("provider is required")
	}
	if len(r.Payload) == 0 {
		return errors.New("payload is required")
	}
	return nil
}

type InitiateData struct {
	OrderId     string `json:"orderId"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Provider    string `json:"provider"`
	ProviderKey string `json:"providerKey"`
}

type InitiateResponse struct {
	Success bool         `json:"success"`
	Data    InitiateData `json:"data"`
}

type VerifyResponse struct {
	Success        bool   `json:"success"`
	SubscriptionId string `json:"subscriptionId"`
	Amount         int64  `json:"amount"`
	PlanId         string `json:"planId"`
}

type WebhookAckResponse struct {
	Success bool `json:"success"`
}

type ErrorBody struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
