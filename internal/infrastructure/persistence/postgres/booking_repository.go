package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DanielPopoola/okpuja-payments/internal/domain"
	"github.com/jackc/pgx/v5"
)

const bookingColumns = `
	id, book_id, user_id, cart_id, payment_order_id, merchant_order_id,
	selected_date, selected_time, address_id, status, created_at`

const astrologyBookingColumns = `
	id, astro_book_id, payment_order_id, merchant_order_id, user_id, service_id, language,
	preferred_date, preferred_time, birth_place, birth_date, birth_time, gender, questions,
	contact_email, contact_phone, status, payment_info, created_at`

type BookingRepository struct {
	db *DB
}

func NewBookingRepository(db *DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts the booking. A collision on cart_id or payment_order_id means
// another trigger already materialized it and yields MATERIALIZATION_CONFLICT.
func (r *BookingRepository) Create(ctx context.Context, tx pgx.Tx, b *domain.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := executor(r.db.Pool, tx).Exec(ctx, query,
		b.ID, b.BookID, b.UserID, b.CartID, b.PaymentOrderID, b.MerchantOrderID,
		b.SelectedDate, pgTime(b.SelectedTime), b.AddressID, string(b.Status), b.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return &domain.DomainError{
				Code:    domain.ErrCodeMaterializationConflict,
				Message: fmt.Sprintf("booking for cart %s already exists", b.CartID),
				Err:     err,
			}
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// FindByCartID runs on tx when given so a caller holding locks sees its own writes.
func (r *BookingRepository) FindByCartID(ctx context.Context, tx pgx.Tx, cartID string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE cart_id = $1`
	return scanBooking(executor(r.db.Pool, tx).QueryRow(ctx, query, cartID))
}

func (r *BookingRepository) FindByPaymentOrderID(ctx context.Context, paymentOrderID string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE payment_order_id = $1`
	return scanBooking(r.db.Pool.QueryRow(ctx, query, paymentOrderID))
}

func (r *BookingRepository) CreateAstrology(ctx context.Context, tx pgx.Tx, b *domain.AstrologyBooking) error {
	query := `
		INSERT INTO astrology_bookings (` + astrologyBookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	paymentInfo, err := json.Marshal(b.Payment)
	if err != nil {
		return fmt.Errorf("encode payment info: %w", err)
	}

	_, err = executor(r.db.Pool, tx).Exec(ctx, query,
		b.ID, b.AstroBookID, b.PaymentOrderID, b.MerchantOrderID, b.UserID, b.ServiceID, b.Language,
		b.PreferredDate, pgTime(b.PreferredTime), b.BirthPlace, b.BirthDate, pgTime(b.BirthTime), string(b.Gender), b.Questions,
		b.ContactEmail, b.ContactPhone, string(b.Status), paymentInfo, b.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return &domain.DomainError{
				Code:    domain.ErrCodeMaterializationConflict,
				Message: fmt.Sprintf("astrology booking for order %s already exists", b.MerchantOrderID),
				Err:     err,
			}
		}
		return fmt.Errorf("failed to create astrology booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) FindAstrologyByPaymentOrderID(ctx context.Context, paymentOrderID string) (*domain.AstrologyBooking, error) {
	query := `SELECT ` + astrologyBookingColumns + ` FROM astrology_bookings WHERE payment_order_id = $1`

	var m AstrologyBookingModel
	err := r.db.Pool.QueryRow(ctx, query, paymentOrderID).Scan(
		&m.ID, &m.AstroBookID, &m.PaymentOrderID, &m.MerchantOrderID, &m.UserID, &m.ServiceID, &m.Language,
		&m.PreferredDate, &m.PreferredTime, &m.BirthPlace, &m.BirthDate, &m.BirthTime, &m.Gender, &m.Questions,
		&m.ContactEmail, &m.ContactPhone, &m.Status, &m.PaymentInfo, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to scan astrology booking: %w", err)
	}
	return toDomainAstrologyBooking(m)
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var m BookingModel
	err := row.Scan(
		&m.ID, &m.BookID, &m.UserID, &m.CartID, &m.PaymentOrderID, &m.MerchantOrderID,
		&m.SelectedDate, &m.SelectedTime, &m.AddressID, &m.Status, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to scan booking: %w", err)
	}
	return toDomainBooking(m), nil
}
