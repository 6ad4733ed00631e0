package repository

import (
	"context"
	"sync"

	"github.com/vibast-solutions/ms-go-subscriptions/app/entity"
)

// MemoryPaymentRepository implements the ledger contract on a mutex-guarded
// map. It backs tests and local runs without MySQL; the insert-if-absent
// semantics are identical to the unique-key variant.
type MemoryPaymentRepository struct {
	mu    sync.Mutex
	items map[string]*entity.Payment
}

func NewMemoryPaymentRepository() *MemoryPaymentRepository {
	return &MemoryPaymentRepository{items: map[string]*entity.Payment{}}
}

func (r *MemoryPaymentRepository) InsertIfAbsent(_ context.Context, payment *entity.Payment) (bool, *entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.items[payment.PaymentID]; ok {
		copied := *existing
		return false, &copied, nil
	}

	copied := *payment
	r.items[payment.PaymentID] = &copied
	return true, payment, nil
}

func (r *MemoryPaymentRepository) FindByPaymentID(_ context.Context, paymentID string) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[paymentID]
	if !ok {
		return nil, nil
	}
	copied := *existing
	return &copied, nil
}

type MemorySubscriptionRepository struct {
	mu    sync.Mutex
	items []*entity.Subscription
}

func NewMemorySubscriptionRepository() *MemorySubscriptionRepository {
	return &MemorySubscriptionRepository{}
}

func (r *MemorySubscriptionRepository) Create(_ context.Context, subscription *entity.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *subscription
	r.items = append(r.items, &copied)
	return nil
}

func (r *MemorySubscriptionRepository) FindByPaymentID(_ context.Context, paymentID string) (*entity.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range r.items {
		if item.PaymentID == paymentID {
			copied := *item
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *MemorySubscriptionRepository) All() []*entity.Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]*entity.Subscription, 0, len(r.items))
	for _, item := range r.items {
		copied := *item
		items = append(items, &copied)
	}
	return items
}

type MemoryWebhookLogRepository struct {
	mu    sync.Mutex
	items []*entity.WebhookLog
}

func NewMemoryWebhookLogRepository() *MemoryWebhookLogRepository {
	return &MemoryWebhookLogRepository{}
}

func (r *MemoryWebhookLogRepository) Create(_ context.Context, log *entity.WebhookLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *log
	copied.ID = uint64(len(r.items) + 1)
	r.items = append(r.items, &copied)
	log.ID = copied.ID
	return nil
}

func (r *MemoryWebhookLogRepository) All() []*entity.WebhookLog {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]*entity.WebhookLog, 0, len(r.items))
	for _, item := range r.items {
		copied := *item
		items = append(items, &copied)
	}
	return items
}
