package provider

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

func signHex(secret string, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

type fakeOrderClient struct {
	createFn func(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
	lastData map[string]interface{}
}

func (f *fakeOrderClient) Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error) {
	f.lastData = data
	if f.createFn != nil {
		return f.createFn(data, extraHeaders)
	}
	return map[string]interface{}{"id": "order_test_1", "amount": data["amount"], "currency": data["currency"]}, nil
}

func newTestRazorpayProvider(t *testing.T) (*RazorpayProvider, *fakeOrderClient) {
	t.Helper()
	p, err := NewRazorpayProvider(RazorpayConfig{
		KeyID:         "rzp_test_key",
		KeySecret:     "rzp_test_secret",
		WebhookSecret: "whsec_test",
	})
	if err != nil {
		t.Fatalf("expected provider, got error: %v", err)
	}
	fake := &fakeOrderClient{}
	p.orders = fake
	return p, fake
}

func TestNewRazorpayProviderRequiresCredentials(t *testing.T) {
	if _, err := NewRazorpayProvider(RazorpayConfig{KeySecret: "secret"}); err == nil {
		t.Fatal("expected error for missing key id")
	}
	if _, err := NewRazorpayProvider(RazorpayConfig{KeyID: "key"}); err == nil {
		t.Fatal("expected error for missing key secret")
	}
	if _, err := NewRazorpayProvider(RazorpayConfig{KeyID: "  ", KeySecret: "secret"}); err == nil {
		t.Fatal("expected error for blank key id")
	}
}

func TestRazorpayKeyExposesOnlyKeyID(t *testing.T) {
	p, _ := newTestRazorpayProvider(t)
	if p.Key() != "rzp_test_key" {
		t.Fatalf("unexpected key: %s", p.Key())
	}
	if strings.Contains(p.Key(), "secret") {
		t.Fatal("key must not leak secret material")
	}
}

func TestRazorpayVerifyPayment(t *testing.T) {
	p, _ := newTestRazorpayProvider(t)

	sig := signHex("rzp_test_secret", "order_1|pay_1")
	if !p.VerifyPayment("order_1", "pay_1", sig) {
		t.Fatal("expected valid signature to verify")
	}
	// Swapped ids change the signed message.
	if p.VerifyPayment("pay_1", "order_1", sig) {
		t.Fatal("expected swapped ids to fail verification")
	}
	if p.VerifyPayment("order_1", "pay_1", signHex("wrong", "order_1|pay_1")) {
		t.Fatal("expected wrong secret to fail verification")
	}
}

func TestRazorpayVerifyPaymentNeverPanicsOnMalformedInput(t *testing.T) {
	p, _ := newTestRazorpayProvider(t)

	for _, sig := range []string{"", "zz-not-hex", "deadbeef", strings.Repeat("a", 63), strings.Repeat("a", 129), "  "} {
		if p.VerifyPayment("order_1", "pay_1", sig) {
			t.Fatalf("expected malformed signature %q to fail", sig)
		}
	}
}

func TestRazorpayCreateOrderForwardsInput(t *testing.T) {
	p, fake := newTestRazorpayProvider(t)

	order, err := p.CreateOrder(context.Background(), &OrderInput{
		Amount:   99900,
		Currency: "INR",
		Notes:    map[string]string{"planId": "basic"},
	})
	if err != nil {
		t.Fatalf("expected order, got error: %v", err)
	}
	if order.OrderID != "order_test_1" {
		t.Fatalf("unexpected order id: %s", order.OrderID)
	}
	if order.Amount != 99900 || order.Currency != "INR" {
		t.Fatalf("order must echo the input amount/currency: %+v", order)
	}
	if fake.lastData["amount"] != int64(99900) || fake.lastData["currency"] != "INR" {
		t.Fatalf("unexpected upstream payload: %+v", fake.lastData)
	}
	if _, ok := fake.lastData["receipt"].(string); !ok {
		t.Fatal("expected a generated receipt")
	}
	notes, ok := fake.lastData["notes"].(map[string]interface{})
	if !ok || notes["planId"] != "basic" {
		t.Fatalf("unexpected notes payload: %+v", fake.lastData["notes"])
	}
}

func TestRazorpayCreateOrderKeepsExplicitReceipt(t *testing.T) {
	p, fake := newTestRazorpayProvider(t)

	if _, err := p.CreateOrder(context.Background(), &OrderInput{Amount: 100, Currency: "INR", Receipt: "rcpt_custom"}); err != nil {
		t.Fatalf("expected order, got error: %v", err)
	}
	if fake.lastData["receipt"] != "rcpt_custom" {
		t.Fatalf("unexpected receipt: %v", fake.lastData["receipt"])
	}
}

func TestRazorpayCreateOrderWrapsUpstreamFailure(t *testing.T) {
	p, fake := newTestRazorpayProvider(t)
	fake.createFn = func(map[string]interface{}, map[string]string) (map[string]interface{}, error) {
		return nil, errors.New("upstream down")
	}

	_, err := p.CreateOrder(context.Background(), &OrderInput{Amount: 100, Currency: "INR"})
	if err == nil || !strings.Contains(err.Error(), "razorpay order creation failed") {
		t.Fatalf("expected wrapped upstream error, got %v", err)
	}
}

func TestRazorpayCreateOrderRejectsAmountMismatch(t *testing.T) {
	p, fake := newTestRazorpayProvider(t)
	fake.createFn = func(map[string]interface{}, map[string]string) (map[string]interface{}, error) {
		return map[string]interface{}{"id": "order_test_1", "amount": float64(99900)}, nil
	}

	_, err := p.CreateOrder(context.Background(), &OrderInput{Amount: 100, Currency: "INR"})
	if err == nil || !strings.Contains(err.Error(), "does not match requested") {
		t.Fatalf("expected amount mismatch error, got %v", err)
	}
}

func TestRazorpayCreateOrderRejectsMissingOrderID(t *testing.T) {
	p, fake := newTestRazorpayProvider(t)
	fake.createFn = func(map[string]interface{}, map[string]string) (map[string]interface{}, error) {
		return map[string]interface{}{"amount": float64(100)}, nil
	}

	if _, err := p.CreateOrder(context.Background(), &OrderInput{Amount: 100, Currency: "INR"}); err == nil {
		t.Fatal("expected error for missing order id")
	}
}

func TestRazorpayVerifyAndParseWebhook(t *testing.T) {
	p, _ := newTestRazorpayProvider(t)
	payload := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_1","amount":99900,"notes":{"planId":"basic"}}}}}`)

	event, err := p.VerifyAndParseWebhook(payload, signHex("whsec_test", string(payload)))
	if err != nil {
		t.Fatalf("expected event, got error: %v", err)
	}
	if event.PaymentID != "pay_1" || event.OrderID != "order_1" {
		t.Fatalf("unexpected event ids: %+v", event)
	}
	if event.Amount != 99900 || event.PlanID != "basic" {
		t.Fatalf("unexpected event fields: %+v", event)
	}
	if event.Status != "completed" {
		t.Fatalf("unexpected event status: %s", event.Status)
	}
}

func TestRazorpayVerifyAndParseWebhookMissingSignature(t *testing.T) {
	p, _ := newTestRazorpayProvider(t)

	_, err := p.VerifyAndParseWebhook([]byte(`{}`), "")
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestRazorpayVerifyAndParseWebhookBadSignature(t *testing.T) {
	p, _ := newTestRazorpayProvider(t)
	payload := []byte(`{"event":"payment.captured"}`)

	_, err := p.VerifyAndParseWebhook(payload, signHex("wrong-secret", string(payload)))
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
	if !strings.Contains(err.Error(), "verification failed") {
		t.Fatalf("expected verification failed message, got %q", err.Error())
	}
}

func TestRazorpayVerifyAndParseWebhookBlankSecret(t *testing.T) {
	p, err := NewRazorpayProvider(RazorpayConfig{KeyID: "rzp_test_key", KeySecret: "rzp_test_secret"})
	if err != nil {
		t.Fatalf("expected provider, got error: %v", err)
	}
	payload := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_1"}}}}`)

	// An HMAC computed over the empty key must not pass when no webhook
	// secret is configured.
	_, err = p.VerifyAndParseWebhook(payload, signHex("", string(payload)))
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestRazorpayVerifyAndParseWebhookMissingIDs(t *testing.T) {
	p, _ := newTestRazorpayProvider(t)
	payload := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"","order_id":""}}}}`)

	_, err := p.VerifyAndParseWebhook(payload, signHex("whsec_test", string(payload)))
	if !errors.Is(err, ErrMissingWebhookFields) {
		t.Fatalf("expected ErrMissingWebhookFields, got %v", err)
	}
}

func TestRazorpayWebhookToleratesArrayNotes(t *testing.T) {
	p, _ := newTestRazorpayProvider(t)
	payload := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_2","order_id":"order_2","amount":500,"notes":[]}}}}`)

	event, err := p.VerifyAndParseWebhook(payload, signHex("whsec_test", string(payload)))
	if err != nil {
		t.Fatalf("expected event, got error: %v", err)
	}
	if event.PlanID != "" || event.Status != "failed" {
		t.Fatalf("unexpected event: %+v", event)
	}
}
