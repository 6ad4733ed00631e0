package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vibast-solutions/ms-go-subscriptions/app/entity"
)

var ErrPaymentNotFound = errors.New("payment not found")

// PaymentRepository is the durable idempotency ledger. payment_id is the
// primary key, so concurrent duplicate inserts serialize on the unique-key
// constraint and exactly one caller wins.
type PaymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// InsertIfAbsent atomically records the payment unless a row with the same
// payment id already exists. On a duplicate it returns created=false and the
// existing row unmodified.
func (r *PaymentRepository) InsertIfAbsent(ctx context.Context, payment *entity.Payment) (bool, *entity.Payment, error) {
	query := `
		INSERT INTO payments (
			payment_id, order_id, provider, amount, plan_id, status, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.PaymentID,
		payment.OrderID,
		payment.Provider,
		payment.Amount,
		payment.PlanID,
		payment.Status,
		payment.CreatedAt,
	)
	if err == nil {
		return true, payment, nil
	}
	if !isDuplicateEntryError(err) {
		return false, nil, err
	}

	existing, err := r.FindByPaymentID(ctx, payment.PaymentID)
	if err != nil {
		return false, nil, err
	}
	if existing == nil {
		return false, nil, ErrPaymentNotFound
	}
	return false, existing, nil
}

func (r *PaymentRepository) FindByPaymentID(ctx context.Context, paymentID string) (*entity.Payment, error) {
	query := `
		SELECT payment_id, order_id, provider, amount, plan_id, status, created_at
		FROM payments
		WHERE payment_id = ?
	`

	var item entity.Payment
	err := r.db.QueryRowContext(ctx, query, paymentID).Scan(
		&item.PaymentID,
		&item.OrderID,
		&item.Provider,
		&item.Amount,
		&item.PlanID,
		&item.Status,
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
