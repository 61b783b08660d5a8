package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/domain"
	"github.com/jackc/pgx/v5"
)

const refundColumns = `
	id, payment_order_id, merchant_refund_id, amount, reason, status,
	gateway_refund_id, gateway_response, created_at, updated_at, completed_at`

type RefundRepository struct {
	db *DB
}

func NewRefundRepository(db *DB) *RefundRepository {
	return &RefundRepository{db: db}
}

func (r *RefundRepository) Create(ctx context.Context, tx pgx.Tx, refund *domain.Refund) error {
	query := `
		INSERT INTO payment_refunds (` + refundColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := executor(r.db.Pool, tx).Exec(ctx, query,
		refund.ID, refund.PaymentOrderID, refund.MerchantRefundID, refund.Amount, refund.Reason, string(refund.Status),
		refund.GatewayRefundID, nullableJSON(refund.GatewayResponse), refund.CreatedAt, refund.UpdatedAt, refund.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create refund: %w", err)
	}
	return nil
}

func (r *RefundRepository) Update(ctx context.Context, tx pgx.Tx, refund *domain.Refund) error {
	updated, err := r.update(ctx, tx, refund, "")
	if err != nil {
		return err
	}
	if !updated {
		return domain.ErrRefundNotFound
	}
	return nil
}

// UpdateIfProcessing writes the refund only while the stored row is still
// PROCESSING. It reports false when another writer already settled it.
func (r *RefundRepository) UpdateIfProcessing(ctx context.Context, tx pgx.Tx, refund *domain.Refund) (bool, error) {
	return r.update(ctx, tx, refund, " AND status = 'PROCESSING'")
}

func (r *RefundRepository) update(ctx context.Context, tx pgx.Tx, refund *domain.Refund, guard string) (bool, error) {
	query := `
		UPDATE payment_refunds
		SET status = $1, gateway_refund_id = $2, gateway_response = $3, updated_at = $4, completed_at = $5
		WHERE id = $6` + guard

	refund.UpdatedAt = domain.NormalizeTimestamp(time.Now())
	tag, err := executor(r.db.Pool, tx).Exec(ctx, query,
		string(refund.Status), refund.GatewayRefundID, nullableJSON(refund.GatewayResponse),
		refund.UpdatedAt, refund.CompletedAt, refund.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update refund: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RefundRepository) FindByMerchantRefundID(ctx context.Context, merchantRefundID string) (*domain.Refund, error) {
	query := `SELECT ` + refundColumns + ` FROM payment_refunds WHERE merchant_refund_id = $1`
	return scanRefund(r.db.Pool.QueryRow(ctx, query, merchantRefundID))
}

func (r *RefundRepository) FindByMerchantRefundIDForUpdate(ctx context.Context, tx pgx.Tx, merchantRefundID string) (*domain.Refund, error) {
	query := `SELECT ` + refundColumns + ` FROM payment_refunds WHERE merchant_refund_id = $1 FOR UPDATE`
	return scanRefund(executor(r.db.Pool, tx).QueryRow(ctx, query, merchantRefundID))
}

// SumActiveByOrder totals every refund on the order that has not failed.
func (r *RefundRepository) SumActiveByOrder(ctx context.Context, tx pgx.Tx, paymentOrderID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payment_refunds
		WHERE payment_order_id = $1 AND status <> 'FAILED'
	`
	var total int64
	if err := executor(r.db.Pool, tx).QueryRow(ctx, query, paymentOrderID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum refunds: %w", err)
	}
	return total, nil
}

func (r *RefundRepository) ListByOrder(ctx context.Context, paymentOrderID string) ([]*domain.Refund, error) {
	query := `SELECT ` + refundColumns + ` FROM payment_refunds WHERE payment_order_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.Pool.Query(ctx, query, paymentOrderID)
	if err != nil {
		return nil, fmt.Errorf("query refunds: %w", err)
	}
	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Refund, error) {
		m, err := scanRefundModel(row)
		return toDomainRefund(m), err
	})
	if err != nil {
		return nil, fmt.Errorf("scan refunds: %w", err)
	}
	return results, nil
}

func scanRefundModel(row pgx.Row) (RefundModel, error) {
	var m RefundModel
	err := row.Scan(
		&m.ID, &m.PaymentOrderID, &m.MerchantRefundID, &m.Amount, &m.Reason, &m.Status,
		&m.GatewayRefundID, &m.GatewayResponse, &m.CreatedAt, &m.UpdatedAt, &m.CompletedAt,
	)
	return m, err
}

func scanRefund(row pgx.Row) (*domain.Refund, error) {
	m, err := scanRefundModel(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRefundNotFound
		}
		return nil, fmt.Errorf("failed to scan refund: %w", err)
	}
	return toDomainRefund(m), nil
}
