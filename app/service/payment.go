package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vibast-solutions/ms-go-subscriptions/app/entity"
	"github.com/vibast-solutions/ms-go-subscriptions/app/provider"
	"github.com/vibast-solutions/ms-go-subscriptions/config"
)

type initiatePaymentRequest interface {
	GetPlanId() string
	GetAmount() int64
	GetBillingCycle() string
	GetProvider() string
}

type verifyPaymentRequest interface {
	GetOrderId() string
	GetPaymentId() string
	GetSignature() string
	GetProvider() string
	GetPlanId() string
	GetAmount() int64
}

type paymentRepository interface {
	InsertIfAbsent(ctx context.Context, payment *entity.Payment) (bool, *entity.Payment, error)
	FindByPaymentID(ctx context.Context, paymentID string) (*entity.Payment, error)
}

type subscriptionRepository interface {
	Create(ctx context.Context, subscription *entity.Subscription) error
	FindByPaymentID(ctx context.Context, paymentID string) (*entity.Subscription, error)
}

type webhookLogRepository interface {
	Create(ctx context.Context, log *entity.WebhookLog) error
}

type InitiateResult struct {
	OrderID     string
	Amount      int64
	Currency    string
	Provider    string
	ProviderKey string
}

type PaymentService struct {
	paymentRepo      paymentRepository
	subscriptionRepo subscriptionRepository
	webhookLogRepo   webhookLogRepository
	providerReg      *provider.Registry
	paymentsCfg      config.PaymentsConfig
}

func NewPaymentService(
	paymentRepo paymentRepository,
	subscriptionRepo subscriptionRepository,
	webhookLogRepo webhookLogRepository,
	providerReg *provider.Registry,
	paymentsCfg config.PaymentsConfig,
) *PaymentService {
	return &PaymentService{
		paymentRepo:      paymentRepo,
		subscriptionRepo: subscriptionRepo,
		webhookLogRepo:   webhookLogRepo,
		providerReg:      providerReg,
		paymentsCfg:      paymentsCfg,
	}
}

func (s *PaymentService) Initiate(ctx context.Context, req initiatePaymentRequest) (*InitiateResult, error) {
	planID := strings.TrimSpace(req.GetPlanId())
	if planID == "" || req.GetAmount() <= 0 {
		return nil, ErrInvalidRequest
	}

	providerName := s.resolveProviderName(req.GetProvider())
	if providerName == "" {
		return nil, fmt.Errorf("%w: no payment provider configured", ErrPaymentInitFailed)
	}
	providerClient, err := s.providerReg.Get(providerName)
	if err != nil {
		return nil, fmt.Errorf("%w: provider %q is not supported", ErrPaymentInitFailed, providerName)
	}

	order, err := providerClient.CreateOrder(ctx, &provider.OrderInput{
		Amount:   req.GetAmount(),
		Currency: s.paymentsCfg.DefaultCurrency,
		Notes: map[string]string{
			"planId":       planID,
			"billingCycle": strings.TrimSpace(req.GetBillingCycle()),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentInitFailed, err)
	}

	return &InitiateResult{
		OrderID:     order.OrderID,
		Amount:      order.Amount,
		Currency:    order.Currency,
		Provider:    providerClient.Name(),
		ProviderKey: providerClient.Key(),
	}, nil
}

func (s *PaymentService) Verify(ctx context.Context, req verifyPaymentRequest) (*entity.Subscription, error) {
	orderID := strings.TrimSpace(req.GetOrderId())
	paymentID := strings.TrimSpace(req.GetPaymentId())
	if orderID == "" || paymentID == "" {
		return nil, ErrInvalidRequest
	}

	providerClient, err := s.providerReg.Get(s.resolveProviderName(req.GetProvider()))
	if err != nil {
		return nil, ErrProviderUnsupported
	}

	if !providerClient.VerifyPayment(orderID, paymentID, req.GetSignature()) {
		return nil, ErrSignatureInvalid
	}

	subscription, _, err := s.recordVerifiedPayment(ctx, providerClient.Name(), &provider.WebhookEvent{
		PaymentID: paymentID,
		OrderID:   orderID,
		Amount:    req.GetAmount(),
		PlanID:    strings.TrimSpace(req.GetPlanId()),
		Status:    entity.PaymentStatusCompleted,
	})
	if err != nil {
		return nil, err
	}
	if subscription == nil {
		return nil, ErrPaymentNotCompleted
	}
	return subscription, nil
}

// HandleWebhook authenticates one provider callback and applies it to the
// ledger. Both first-time and duplicate accepted deliveries return nil so the
// sender sees an idempotent acknowledgement on retry.
func (s *PaymentService) HandleWebhook(ctx context.Context, providerName string, payload []byte, signature string) error {
	providerClient, err := s.providerReg.Get(providerName)
	if err != nil {
		return ErrProviderUnsupported
	}

	event, err := providerClient.VerifyAndParseWebhook(payload, signature)
	if err != nil {
		s.logWebhook(ctx, providerClient.Name(), nil, payload, signature, entity.WebhookLogStatusRejected, err)
		switch {
		case errors.Is(err, provider.ErrMissingWebhookFields):
			return ErrMissingWebhookFields
		case errors.Is(err, provider.ErrInvalidSignature):
			return ErrSignatureInvalid
		default:
			return err
		}
	}

	_, created, err := s.recordVerifiedPayment(ctx, providerClient.Name(), event)
	if err != nil {
		return err
	}

	logStatus := entity.WebhookLogStatusProcessed
	if !created {
		logStatus = entity.WebhookLogStatusDuplicate
	}
	s.logWebhook(ctx, providerClient.Name(), &event.PaymentID, payload, signature, logStatus, nil)

	return nil
}

// recordVerifiedPayment is the single path from a verified payment to the
// ledger. Exactly one caller per payment id observes a creation; everyone
// else gets the already-recorded outcome without further side effects.
func (s *PaymentService) recordVerifiedPayment(ctx context.Context, providerName string, event *provider.WebhookEvent) (*entity.Subscription, bool, error) {
	now := time.Now().UTC()
	payment := &entity.Payment{
		PaymentID: event.PaymentID,
		OrderID:   event.OrderID,
		Provider:  providerName,
		Amount:    event.Amount,
		PlanID:    event.PlanID,
		Status:    normalizePaymentStatus(event.Status),
		CreatedAt: now,
	}

	created, record, err := s.paymentRepo.InsertIfAbsent(ctx, payment)
	if err != nil {
		return nil, false, err
	}

	if !created {
		existing, err := s.subscriptionRepo.FindByPaymentID(ctx, record.PaymentID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	if record.Status != entity.PaymentStatusCompleted {
		return nil, true, nil
	}

	subscription := &entity.Subscription{
		SubscriptionID: uuid.NewString(),
		PlanID:         record.PlanID,
		Amount:         record.Amount,
		Status:         entity.SubscriptionStatusActive,
		PaymentID:      record.PaymentID,
		CreatedAt:      now,
	}
	if err := s.subscriptionRepo.Create(ctx, subscription); err != nil {
		return nil, true, err
	}
	return subscription, true, nil
}

func (s *PaymentService) resolveProviderName(requested string) string {
	if name := strings.ToLower(strings.TrimSpace(requested)); name != "" {
		return name
	}
	return strings.ToLower(strings.TrimSpace(s.paymentsCfg.ActiveProvider))
}

// logWebhook is best-effort: the ledger decides the webhook outcome, the log
// only records it.
func (s *PaymentService) logWebhook(ctx context.Context, providerName string, paymentID *string, payload []byte, signature string, status string, cause error) {
	now := time.Now().UTC()
	log := &entity.WebhookLog{
		Provider:    providerName,
		PaymentID:   paymentID,
		Signature:   strings.TrimSpace(signature),
		PayloadJSON: compactPayload(payload),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if cause != nil {
		message := truncate(cause.Error(), 1024)
		log.Error = &message
	}
	_ = s.webhookLogRepo.Create(ctx, log)
}

func normalizePaymentStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case entity.PaymentStatusCompleted:
		return entity.PaymentStatusCompleted
	case entity.PaymentStatusFailed:
		return entity.PaymentStatusFailed
	default:
		return entity.PaymentStatusPending
	}
}

func compactPayload(payload []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, payload); err != nil {
		return string(payload)
	}
	return buf.String()
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max]
}
