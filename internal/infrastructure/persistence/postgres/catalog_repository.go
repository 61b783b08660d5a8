package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/DanielPopoola/okpuja-payments/internal/domain"
	"github.com/jackc/pgx/v5"
)

// CatalogRepository reads the users, addresses and astrology services that
// bookings reference. Those records are owned elsewhere; the Create methods
// exist for seeding.
type CatalogRepository struct {
	db *DB
}

func NewCatalogRepository(db *DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) FindUser(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT id, email, name, phone, is_staff FROM users WHERE id = $1`

	var u domain.User
	err := r.db.Pool.QueryRow(ctx, query, userID).Scan(&u.ID, &u.Email, &u.Name, &u.Phone, &u.IsStaff)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewUserNotFoundError(userID)
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// FindBookingAddress picks the user's default address, else their oldest one.
// It returns nil without error when the user has none.
func (r *CatalogRepository) FindBookingAddress(ctx context.Context, tx pgx.Tx, userID string) (*domain.Address, error) {
	query := `
		SELECT id, user_id, address_line1, city, state, postal_code, is_default
		FROM addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at ASC
		LIMIT 1
	`
	var a domain.Address
	err := executor(r.db.Pool, tx).QueryRow(ctx, query, userID).Scan(
		&a.ID, &a.UserID, &a.AddressLine1, &a.City, &a.State, &a.PostalCode, &a.IsDefault,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan address: %w", err)
	}
	return &a, nil
}

// FindAstrologyService returns inactive services too; callers taking new
// bookings check IsActive themselves.
func (r *CatalogRepository) FindAstrologyService(ctx context.Context, serviceID string) (*domain.AstrologyService, error) {
	query := `SELECT id, title, price, is_active FROM astrology_services WHERE id = $1`

	var s domain.AstrologyService
	err := r.db.Pool.QueryRow(ctx, query, serviceID).Scan(&s.ID, &s.Title, &s.Price, &s.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewServiceNotFoundError(serviceID)
		}
		return nil, fmt.Errorf("failed to scan astrology service: %w", err)
	}
	return &s, nil
}

func (r *CatalogRepository) CreateUser(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (id, email, name, phone, is_staff) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.Pool.Exec(ctx, query, u.ID, u.Email, u.Name, u.Phone, u.IsStaff); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *CatalogRepository) CreateAddress(ctx context.Context, a *domain.Address) error {
	query := `
		INSERT INTO addresses (id, user_id, address_line1, city, state, postal_code, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Pool.Exec(ctx, query, a.ID, a.UserID, a.AddressLine1, a.City, a.State, a.PostalCode, a.IsDefault)
	if err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}
	return nil
}

func (r *CatalogRepository) CreateAstrologyService(ctx context.Context, s *domain.AstrologyService) error {
	query := `INSERT INTO astrology_services (id, title, price, is_active) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.Pool.Exec(ctx, query, s.ID, s.Title, s.Price, s.IsActive); err != nil {
		return fmt.Errorf("failed to create astrology service: %w", err)
	}
	return nil
}
