package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/domain"
	"github.com/jackc/pgx/v5"
)

const cartColumns = `
	id, cart_id, user_id, service_type, service_name, selected_date, selected_time,
	status, total_price, created_at, updated_at`

type CartRepository struct {
	db *DB
}

func NewCartRepository(db *DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) Create(ctx context.Context, tx pgx.Tx, cart *domain.Cart) error {
	query := `
		INSERT INTO carts (` + cartColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := executor(r.db.Pool, tx).Exec(ctx, query,
		cart.ID, cart.CartID, cart.UserID, string(cart.ServiceType), cart.ServiceName, cart.SelectedDate, cart.SelectedTime,
		string(cart.Status), cart.TotalPrice, cart.CreatedAt, cart.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

func (r *CartRepository) FindByCartID(ctx context.Context, cartID string) (*domain.Cart, error) {
	query := `SELECT ` + cartColumns + ` FROM carts WHERE cart_id = $1`
	return scanCart(r.db.Pool.QueryRow(ctx, query, cartID), cartID)
}

// FindByCartIDForUpdate locks the cart so concurrent materializations serialize on it.
func (r *CartRepository) FindByCartIDForUpdate(ctx context.Context, tx pgx.Tx, cartID string) (*domain.Cart, error) {
	query := `SELECT ` + cartColumns + ` FROM carts WHERE cart_id = $1 FOR UPDATE`
	return scanCart(executor(r.db.Pool, tx).QueryRow(ctx, query, cartID), cartID)
}

func (r *CartRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, cartID string, status domain.CartStatus) error {
	query := `UPDATE carts SET status = $1, updated_at = $2 WHERE cart_id = $3`
	tag, err := executor(r.db.Pool, tx).Exec(ctx, query, string(status), time.Now().UTC(), cartID)
	if err != nil {
		return fmt.Errorf("failed to update cart status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewCartNotFoundError(cartID)
	}
	return nil
}

// PruneConverted deletes the user's CONVERTED carts beyond the keep most recent.
func (r *CartRepository) PruneConverted(ctx context.Context, userID string, keep int) (int64, error) {
	query := `
		DELETE FROM carts
		WHERE id IN (
			SELECT id FROM carts
			WHERE user_id = $1 AND status = 'CONVERTED'
			ORDER BY updated_at DESC, created_at DESC
			OFFSET $2
		)
	`
	tag, err := r.db.Pool.Exec(ctx, query, userID, keep)
	if err != nil {
		return 0, fmt.Errorf("prune converted carts: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanCart(row pgx.Row, cartID string) (*domain.Cart, error) {
	var (
		c           domain.Cart
		serviceType string
		status      string
	)
	err := row.Scan(
		&c.ID, &c.CartID, &c.UserID, &serviceType, &c.ServiceName, &c.SelectedDate, &c.SelectedTime,
		&status, &c.TotalPrice, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewCartNotFoundError(cartID)
		}
		return nil, fmt.Errorf("failed to scan cart: %w", err)
	}
	c.ServiceType = domain.ServiceType(serviceType)
	c.Status = domain.CartStatus(status)
	return &c, nil
}
