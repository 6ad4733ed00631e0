package types

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newJSONContext(t *testing.T, method, target, body string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestInitiatePaymentRequestBindingAndValidation(t *testing.T) {
	ctx := newJSONContext(t, "POST", "/payment/initiate", `{"planId":" basic ","amount":99900,"billingCycle":"Monthly","provider":"Razorpay"}`)

	req, err := NewInitiatePaymentRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected request, got error: %v", err)
	}
	if req.PlanId != "basic" || req.BillingCycle != "monthly" || req.Provider != "razorpay" {
		t.Fatalf("unexpected normalized request: %+v", req)
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	invalid := &InitiatePaymentRequest{PlanId: "basic", Amount: 0}
	if err := invalid.Validate(); err == nil {
		t.Fatal("expected error for non-positive amount")
	}
	invalid = &InitiatePaymentRequest{Amount: 100}
	if err := invalid.Validate(); err == nil {
		t.Fatal("expected error for missing planId")
	}
}

func TestVerifyPaymentRequestValidation(t *testing.T) {
	ctx := newJSONContext(t, "POST", "/payment/verify", `{"orderId":"order_1","paymentId":"pay_1","signature":"abc","planId":"basic","amount":100}`)

	req, err := NewVerifyPaymentRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected request, got error: %v", err)
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	missing := &VerifyPaymentRequest{OrderId: "order_1", Signature: "abc"}
	if err := missing.Validate(); err == nil {
		t.Fatal("expected error for missing paymentId")
	}

	// A missing signature is not a validation error; it falls through to
	// verification and fails there like any wrong signature.
	blankSig := &VerifyPaymentRequest{OrderId: "order_1", PaymentId: "pay_1"}
	if err := blankSig.Validate(); err != nil {
		t.Fatalf("expected blank signature to pass validation, got %v", err)
	}
}

func TestWebhookRequestKeepsRawBodyBytes(t *testing.T) {
	body := "{\n \"event\": \"payment.captured\" \n}"
	e := echo.New()
	req := httptest.NewRequest("POST", "/payment/webhook/razorpay", strings.NewReader(body))
	req.Header.Set(RazorpaySignatureHeader, " sig-value ")
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("provider")
	ctx.SetParamValues("razorpay")

	webhook, err := NewWebhookRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected request, got error: %v", err)
	}
	// Signature verification runs over these bytes; they must be untouched.
	if string(webhook.Payload) != body {
		t.Fatalf("payload bytes were altered: %q", string(webhook.Payload))
	}
	if webhook.Signature != "sig-value" {
		t.Fatalf("unexpected signature: %q", webhook.Signature)
	}
	if webhook.Provider != "razorpay" {
		t.Fatalf("unexpected provider: %q", webhook.Provider)
	}
	if err := webhook.Validate(); err != nil {
		t.Fatalf("expected valid webhook request, got %v", err)
	}

	empty := &WebhookRequest{Provider: "razorpay"}
	if err := empty.Validate(); err == nil {
		t.Fatal("expected error for empty payload")
	}
}
