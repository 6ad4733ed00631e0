package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vibast-solutions/ms-go-subscriptions/app/entity"
)

type SubscriptionRepository struct {
	db DBTX
}

func NewSubscriptionRepository(db DBTX) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, subscription *entity.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			subscription_id, plan_id, amount, status, payment_id, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		subscription.SubscriptionID,
		subscription.PlanID,
		subscription.Amount,
		subscription.Status,
		subscription.PaymentID,
		subscription.CreatedAt,
	)
	return err
}

func (r *SubscriptionRepository) FindByPaymentID(ctx context.Context, paymentID string) (*entity.Subscription, error) {
	query := `
		SELECT subscription_id, plan_id, amount, status, payment_id, created_at
		FROM subscriptions
		WHERE payment_id = ?
	`

	var item entity.Subscription
	err := r.db.QueryRowContext(ctx, query, paymentID).Scan(
		&item.SubscriptionID,
		&item.PlanID,
		&item.Amount,
		&item.Status,
		&item.PaymentID,
		&item.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}
