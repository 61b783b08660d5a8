package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/domain"
	"github.com/jackc/pgx/v5"
)

const orderColumns = `
	id, merchant_order_id, user_id, cart_id, amount, currency, payment_method, description,
	status, metadata, checkout_url, gateway_order_id, gateway_transaction_id, gateway_response,
	timeout_minutes, max_retry_attempts, retry_count, retried_at, needs_review, review_reason,
	created_at, updated_at, expires_at, completed_at`

// terminalStatusGuard keeps SUCCESS, FAILED and CANCELLED rows immutable at the SQL level.
const terminalStatusGuard = `status NOT IN ('SUCCESS', 'FAILED', 'CANCELLED')`

type PaymentOrderRepository struct {
	db *DB
}

func NewPaymentOrderRepository(db *DB) *PaymentOrderRepository {
	return &PaymentOrderRepository{db: db}
}

func (r *PaymentOrderRepository) Create(ctx context.Context, tx pgx.Tx, order *domain.PaymentOrder) error {
	query := `
		INSERT INTO payment_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
		        $19, $20, $21, $22, $23, $24)
	`

	m, err := toOrderModel(order)
	if err != nil {
		return err
	}

	_, err = executor(r.db.Pool, tx).Exec(ctx, query,
		m.ID, m.MerchantOrderID, m.UserID, m.CartID, m.Amount, m.Currency, m.PaymentMethod, m.Description,
		m.Status, m.Metadata, m.CheckoutURL, m.GatewayOrderID, m.GatewayTransactionID, m.GatewayResponse,
		m.TimeoutMinutes, m.MaxRetryAttempts, m.RetryCount, m.RetriedAt, m.NeedsReview, m.ReviewReason,
		m.CreatedAt, m.UpdatedAt, m.ExpiresAt, m.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment order: %w", err)
	}
	return nil
}

func (r *PaymentOrderRepository) FindByID(ctx context.Context, id string) (*domain.PaymentOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM payment_orders WHERE id = $1`
	return scanOrder(r.db.Pool.QueryRow(ctx, query, id), id)
}

func (r *PaymentOrderRepository) FindByMerchantOrderID(ctx context.Context, merchantOrderID string) (*domain.PaymentOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM payment_orders WHERE merchant_order_id = $1`
	return scanOrder(r.db.Pool.QueryRow(ctx, query, merchantOrderID), merchantOrderID)
}

// FindByMerchantOrderIDForUpdate locks the row until tx ends.
func (r *PaymentOrderRepository) FindByMerchantOrderIDForUpdate(ctx context.Context, tx pgx.Tx, merchantOrderID string) (*domain.PaymentOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM payment_orders WHERE merchant_order_id = $1 FOR UPDATE`
	return scanOrder(executor(r.db.Pool, tx).QueryRow(ctx, query, merchantOrderID), merchantOrderID)
}

// FindLatestByUser returns the user's most recent order of any status.
func (r *PaymentOrderRepository) FindLatestByUser(ctx context.Context, userID string) (*domain.PaymentOrder, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM payment_orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanOrder(r.db.Pool.QueryRow(ctx, query, userID), "latest for user "+userID)
}

// FindLatestSince returns the newest order created at or after since, across all users.
func (r *PaymentOrderRepository) FindLatestSince(ctx context.Context, since time.Time) (*domain.PaymentOrder, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM payment_orders
		WHERE created_at >= $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanOrder(r.db.Pool.QueryRow(ctx, query, since), "latest since "+since.Format(time.RFC3339))
}

// FindLatestByCart returns the newest order for a cart, optionally restricted to statuses.
func (r *PaymentOrderRepository) FindLatestByCart(ctx context.Context, cartID string, statuses ...domain.OrderStatus) (*domain.PaymentOrder, error) {
	var filter []string
	for _, s := range statuses {
		filter = append(filter, string(s))
	}

	query := `
		SELECT ` + orderColumns + `
		FROM payment_orders
		WHERE cart_id = $1
		  AND ($2::text[] IS NULL OR status = ANY($2))
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanOrder(r.db.Pool.QueryRow(ctx, query, cartID, filter), "latest for cart "+cartID)
}

// FindStaleInitiated lists INITIATED orders created before cutoff that still
// have retry budget. Orders never checked come first, then the longest
// unchecked, so orders the gateway never resolves cannot hog the batch.
func (r *PaymentOrderRepository) FindStaleInitiated(ctx context.Context, cutoff time.Time, limit int) ([]*domain.PaymentOrder, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM payment_orders
		WHERE status = 'INITIATED'
		  AND created_at < $1
		  AND retry_count <= max_retry_attempts
		ORDER BY last_checked_at ASC NULLS FIRST, created_at ASC
		LIMIT $2
	`
	rows, err := r.db.Pool.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("query stale initiated orders: %w", err)
	}
	return collectOrders(rows)
}

// MarkChecked records when the sweep last asked the gateway about the order.
func (r *PaymentOrderRepository) MarkChecked(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE payment_orders SET last_checked_at = $2 WHERE id = $1`
	if _, err := r.db.Pool.Exec(ctx, query, id, domain.NormalizeTimestamp(at)); err != nil {
		return fmt.Errorf("mark payment order checked: %w", err)
	}
	return nil
}

// CountStaleOverRetryLimit counts the INITIATED orders the sweep leaves alone.
func (r *PaymentOrderRepository) CountStaleOverRetryLimit(ctx context.Context, cutoff time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM payment_orders
		WHERE status = 'INITIATED'
		  AND created_at < $1
		  AND retry_count > max_retry_attempts
	`
	var count int
	if err := r.db.Pool.QueryRow(ctx, query, cutoff).Scan(&count); err != nil {
		return 0, fmt.Errorf("count orders over retry limit: %w", err)
	}
	return count, nil
}

// FindExpiredPending lists PENDING orders whose checkout window closed before now.
func (r *PaymentOrderRepository) FindExpiredPending(ctx context.Context, now time.Time, limit int) ([]*domain.PaymentOrder, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM payment_orders
		WHERE status = 'PENDING'
		  AND COALESCE(expires_at, created_at + make_interval(mins => timeout_minutes)) <= $1
		ORDER BY created_at ASC
		LIMIT $2
	`
	rows, err := r.db.Pool.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("query expired pending orders: %w", err)
	}
	return collectOrders(rows)
}

func (r *PaymentOrderRepository) Update(ctx context.Context, tx pgx.Tx, order *domain.PaymentOrder) error {
	updated, err := r.update(ctx, tx, order, "")
	if err != nil {
		return err
	}
	if !updated {
		return domain.NewOrderNotFoundError(order.MerchantOrderID)
	}
	return nil
}

// UpdateIfNotTerminal writes the order only while the stored row is not
// terminal. It reports false when another writer already finalized it.
func (r *PaymentOrderRepository) UpdateIfNotTerminal(ctx context.Context, tx pgx.Tx, order *domain.PaymentOrder) (bool, error) {
	return r.update(ctx, tx, order, " AND "+terminalStatusGuard)
}

// FlagForReview sets the review flag on any order, terminal ones included.
// Status and gateway fields are left alone.
func (r *PaymentOrderRepository) FlagForReview(ctx context.Context, tx pgx.Tx, id, reason string) error {
	query := `
		UPDATE payment_orders
		SET needs_review = TRUE, review_reason = $2, updated_at = $3
		WHERE id = $1
	`
	tag, err := executor(r.db.Pool, tx).Exec(ctx, query, id, reason, domain.NormalizeTimestamp(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to flag payment order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewOrderNotFoundError(id)
	}
	return nil
}

func (r *PaymentOrderRepository) update(ctx context.Context, tx pgx.Tx, order *domain.PaymentOrder, guard string) (bool, error) {
	query := `
		UPDATE payment_orders
		SET status = $1, metadata = $2, checkout_url = $3, gateway_order_id = $4,
		    gateway_transaction_id = $5, gateway_response = $6, retry_count = $7, retried_at = $8,
		    needs_review = $9, review_reason = $10, updated_at = $11, expires_at = $12, completed_at = $13
		WHERE id = $14` + guard

	order.UpdatedAt = domain.NormalizeTimestamp(time.Now())
	m, err := toOrderModel(order)
	if err != nil {
		return false, err
	}

	tag, err := executor(r.db.Pool, tx).Exec(ctx, query,
		m.Status, m.Metadata, m.CheckoutURL, m.GatewayOrderID,
		m.GatewayTransactionID, m.GatewayResponse, m.RetryCount, m.RetriedAt,
		m.NeedsReview, m.ReviewReason, m.UpdatedAt, m.ExpiresAt, m.CompletedAt,
		m.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update payment order: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func collectOrders(rows pgx.Rows) ([]*domain.PaymentOrder, error) {
	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.PaymentOrder, error) {
		m, err := scanOrderModel(row)
		if err != nil {
			return nil, err
		}
		return toDomainOrder(m)
	})
	if err != nil {
		return nil, fmt.Errorf("error occurred while scanning payment orders: %w", err)
	}
	return results, nil
}

func scanOrderModel(row pgx.Row) (PaymentOrderModel, error) {
	var m PaymentOrderModel
	err := row.Scan(
		&m.ID, &m.MerchantOrderID, &m.UserID, &m.CartID, &m.Amount, &m.Currency, &m.PaymentMethod, &m.Description,
		&m.Status, &m.Metadata, &m.CheckoutURL, &m.GatewayOrderID, &m.GatewayTransactionID, &m.GatewayResponse,
		&m.TimeoutMinutes, &m.MaxRetryAttempts, &m.RetryCount, &m.RetriedAt, &m.NeedsReview, &m.ReviewReason,
		&m.CreatedAt, &m.UpdatedAt, &m.ExpiresAt, &m.CompletedAt,
	)
	return m, err
}

// scanOrder converts a single row into a domain order.
// Returns an ORDER_NOT_FOUND error naming lookup if the row doesn't exist.
func scanOrder(row pgx.Row, lookup string) (*domain.PaymentOrder, error) {
	m, err := scanOrderModel(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewOrderNotFoundError(lookup)
		}
		return nil, fmt.Errorf("failed to scan payment order: %w", err)
	}
	return toDomainOrder(m)
}
