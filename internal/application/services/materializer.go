package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/application"
	"github.com/DanielPopoola/okpuja-payments/internal/config"
	"github.com/DanielPopoola/okpuja-payments/internal/domain"
	"github.com/DanielPopoola/okpuja-payments/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/okpuja-payments/internal/metrics"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	BookingKindCart      = "cart"
	BookingKindAstrology = "astrology"
)

// MaterializedBooking carries whichever booking the order produced. Created is
// false when an earlier trigger had already made it.
type MaterializedBooking struct {
	Kind             string
	Booking          *domain.Booking
	AstrologyBooking *domain.AstrologyBooking
	Created          bool
}

// Reference is the public booking code shown to the customer.
func (m *MaterializedBooking) Reference() string {
	switch {
	case m == nil:
		return ""
	case m.Booking != nil:
		return m.Booking.BookID
	case m.AstrologyBooking != nil:
		return m.AstrologyBooking.AstroBookID
	}
	return ""
}

// BookingMaterializer turns a paid order into exactly one booking. It is safe
// to call any number of times, concurrently, for the same order: the unique
// keys on bookings decide the winner and losers return the winner's row.
// Notifications are sent only by the call that created the booking.
type BookingMaterializer struct {
	cartRepo    *postgres.CartRepository
	bookingRepo *postgres.BookingRepository
	catalogRepo *postgres.CatalogRepository
	notifier    application.Notifier
	db          *postgres.DB
	cfg         config.BookingConfig
	defaultSlot domain.TimeOfDay
	now         func() time.Time
	logger      *slog.Logger
}

func NewBookingMaterializer(
	cartRepo *postgres.CartRepository,
	bookingRepo *postgres.BookingRepository,
	catalogRepo *postgres.CatalogRepository,
	notifier application.Notifier,
	db *postgres.DB,
	cfg config.BookingConfig,
	logger *slog.Logger,
	opts ...Option,
) *BookingMaterializer {
	o := applyOptions(opts)
	slot, err := domain.ParseClockTime(cfg.DefaultSlotTime)
	if err != nil {
		slot = domain.DefaultSlotTime
	}
	return &BookingMaterializer{
		cartRepo:    cartRepo,
		bookingRepo: bookingRepo,
		catalogRepo: catalogRepo,
		notifier:    notifier,
		db:          db,
		cfg:         cfg,
		defaultSlot: slot,
		now:         o.now,
		logger:      logger,
	}
}

// Materialize returns nil without error for orders that carry no booking
// target. Failures are logged with the order context before being returned.
func (m *BookingMaterializer) Materialize(ctx context.Context, order *domain.PaymentOrder) (*MaterializedBooking, error) {
	if order.Status != domain.StatusSuccess {
		return nil, application.NewInvalidStateError("only successful payments can be materialized")
	}

	var (
		result *MaterializedBooking
		err    error
		kind   string
	)
	switch {
	case order.IsAstrology():
		kind = BookingKindAstrology
		result, err = m.materializeAstrology(ctx, order)
	case order.BookingCartID() != "":
		kind = BookingKindCart
		result, err = m.materializeCart(ctx, order)
	default:
		m.logger.Debug("payment order has no booking target", orderAttrs(order))
		return nil, nil
	}

	if errors.Is(err, domain.ErrBookingMismatch) {
		metrics.RecordMaterialization(kind, "review")
		m.logger.Warn("paid order does not match its booking target", orderAttrs(order), "reason", err.Error())
		return nil, err
	}
	if err != nil {
		metrics.RecordMaterialization(kind, "error")
		m.logger.Error("booking materialization failed",
			orderAttrs(order),
			"metadata", order.Metadata,
			"error", err,
		)
		return nil, err
	}

	outcome := "existing"
	if result.Created {
		outcome = "created"
	}
	metrics.RecordMaterialization(kind, outcome)
	return result, nil
}

func (m *BookingMaterializer) materializeCart(ctx context.Context, order *domain.PaymentOrder) (*MaterializedBooking, error) {
	cartID := order.BookingCartID()

	// The cart may have been pruned since, so look for the order's own booking first.
	if existing, err := m.bookingRepo.FindByPaymentOrderID(ctx, order.ID); err == nil {
		return &MaterializedBooking{Kind: BookingKindCart, Booking: existing}, nil
	} else if !errors.Is(err, domain.ErrBookingNotFound) {
		return nil, err
	}

	var (
		cart    *domain.Cart
		address *domain.Address
		booking *domain.Booking
		created bool
	)

	err := m.db.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		cart, err = m.cartRepo.FindByCartIDForUpdate(ctx, tx, cartID)
		if err != nil {
			return err
		}

		existing, err := m.bookingRepo.FindByCartID(ctx, tx, cartID)
		if err == nil {
			if existing.PaymentOrderID != order.ID {
				return domain.NewBookingMismatchError(fmt.Sprintf("cart %s is already booked by order %s", cartID, existing.MerchantOrderID))
			}
			booking = existing
			return nil
		}
		if !errors.Is(err, domain.ErrBookingNotFound) {
			return err
		}

		if cart.UserID != order.UserID {
			return domain.NewBookingMismatchError(fmt.Sprintf("cart %s belongs to another user", cartID))
		}
		if order.Amount < cart.TotalPrice {
			return domain.NewBookingMismatchError(fmt.Sprintf("order amount %d is below cart total %d", order.Amount, cart.TotalPrice))
		}

		slot, ok := domain.ParseSlotTime(cart.SelectedTime, m.defaultSlot)
		if !ok {
			m.logger.Warn("unrecognized cart time, using default slot",
				"cart_id", cartID,
				"selected_time", cart.SelectedTime,
				"default", m.defaultSlot.String(),
			)
		}

		address, err = m.catalogRepo.FindBookingAddress(ctx, tx, cart.UserID)
		if err != nil {
			return err
		}

		b := &domain.Booking{
			ID:              uuid.NewString(),
			BookID:          domain.NewBookingCode(),
			UserID:          cart.UserID,
			CartID:          cartID,
			PaymentOrderID:  order.ID,
			MerchantOrderID: order.MerchantOrderID,
			SelectedDate:    cart.SelectedDate,
			SelectedTime:    slot,
			Status:          domain.BookingConfirmed,
			CreatedAt:       domain.NormalizeTimestamp(m.now()),
		}
		if address != nil {
			b.AddressID = &address.ID
		}

		if err := m.bookingRepo.Create(ctx, tx, b); err != nil {
			return err
		}
		if err := m.cartRepo.UpdateStatus(ctx, tx, cartID, domain.CartConverted); err != nil {
			return err
		}
		booking = b
		created = true
		return nil
	})
	if errors.Is(err, domain.ErrMaterializationConflict) {
		winner, findErr := m.bookingRepo.FindByCartID(ctx, nil, cartID)
		if findErr != nil {
			return nil, findErr
		}
		if winner.PaymentOrderID != order.ID {
			return nil, domain.NewBookingMismatchError(fmt.Sprintf("cart %s is already booked by order %s", cartID, winner.MerchantOrderID))
		}
		m.logger.Info("booking already materialized by another trigger", "cart_id", cartID, "booking_id", winner.BookID)
		return &MaterializedBooking{Kind: BookingKindCart, Booking: winner}, nil
	}
	if err != nil {
		return nil, err
	}

	result := &MaterializedBooking{Kind: BookingKindCart, Booking: booking, Created: created}
	if !created {
		return result, nil
	}

	m.logger.Info("booking created",
		"booking_id", booking.BookID,
		"cart_id", cartID,
		"merchant_order_id", order.MerchantOrderID,
	)

	if pruned, err := m.cartRepo.PruneConverted(ctx, cart.UserID, m.cfg.KeepConvertedCarts); err != nil {
		m.logger.Warn("failed to prune converted carts", "user_id", cart.UserID, "error", err)
	} else if pruned > 0 {
		m.logger.Debug("pruned converted carts", "user_id", cart.UserID, "count", pruned)
	}

	m.sendBookingConfirmation(ctx, order, cart, booking, address)
	return result, nil
}

func (m *BookingMaterializer) sendBookingConfirmation(ctx context.Context, order *domain.PaymentOrder, cart *domain.Cart, booking *domain.Booking, address *domain.Address) {
	user, err := m.catalogRepo.FindUser(ctx, booking.UserID)
	if err != nil {
		m.logger.Error("cannot send booking confirmation without user", "booking_id", booking.BookID, "error", err)
		return
	}

	err = m.notifier.BookingConfirmed(ctx, application.BookingNotification{
		BookID:          booking.BookID,
		UserID:          user.ID,
		Email:           user.Email,
		Name:            user.Name,
		ServiceName:     cart.ServiceName,
		SelectedDate:    booking.SelectedDate.Format(time.DateOnly),
		SelectedTime:    booking.SelectedTime.String(),
		MerchantOrderID: order.MerchantOrderID,
		Amount:          order.Amount,
		AmountRupees:    domain.Paisa(order.Amount).Rupees().StringFixed(2),
		Address:         address,
	})
	if err != nil {
		m.logger.Error("failed to enqueue booking confirmation", "booking_id", booking.BookID, "error", err)
	}
}

func (m *BookingMaterializer) materializeAstrology(ctx context.Context, order *domain.PaymentOrder) (*MaterializedBooking, error) {
	req, err := domain.AstrologyRequestFromMetadata(order.Metadata)
	if err != nil {
		return nil, err
	}

	existing, err := m.bookingRepo.FindAstrologyByPaymentOrderID(ctx, order.ID)
	if err == nil {
		return &MaterializedBooking{Kind: BookingKindAstrology, AstrologyBooking: existing}, nil
	}
	if !errors.Is(err, domain.ErrBookingNotFound) {
		return nil, err
	}

	service, err := m.catalogRepo.FindAstrologyService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	user, err := m.catalogRepo.FindUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	booking, err := domain.BuildAstrologyBooking(uuid.NewString(), req, order, m.now())
	if err != nil {
		return nil, err
	}

	if err := m.bookingRepo.CreateAstrology(ctx, nil, booking); err != nil {
		if !errors.Is(err, domain.ErrMaterializationConflict) {
			return nil, err
		}
		winner, findErr := m.bookingRepo.FindAstrologyByPaymentOrderID(ctx, order.ID)
		if findErr != nil {
			return nil, findErr
		}
		m.logger.Info("astrology booking already materialized by another trigger",
			"merchant_order_id", order.MerchantOrderID,
			"booking_id", winner.AstroBookID,
		)
		return &MaterializedBooking{Kind: BookingKindAstrology, AstrologyBooking: winner}, nil
	}

	m.logger.Info("astrology booking created",
		"booking_id", booking.AstroBookID,
		"merchant_order_id", order.MerchantOrderID,
		"service_id", service.ID,
	)

	n := application.AstrologyNotification{
		AstroBookID:     booking.AstroBookID,
		ServiceTitle:    service.Title,
		CustomerName:    user.Name,
		ContactEmail:    booking.ContactEmail,
		ContactPhone:    booking.ContactPhone,
		Language:        booking.Language,
		PreferredDate:   booking.PreferredDate.Format(time.DateOnly),
		PreferredTime:   booking.PreferredTime.String(),
		MerchantOrderID: order.MerchantOrderID,
		Amount:          order.Amount,
		AmountRupees:    domain.Paisa(order.Amount).Rupees().StringFixed(2),
	}
	if err := m.notifier.AstrologyBookingConfirmed(ctx, n); err != nil {
		m.logger.Error("failed to enqueue astrology confirmation", "booking_id", booking.AstroBookID, "error", err)
	}
	n.AdminEmail = m.cfg.AdminEmail
	if err := m.notifier.AstrologyAdminAlert(ctx, n); err != nil {
		m.logger.Error("failed to enqueue astrology admin alert", "booking_id", booking.AstroBookID, "error", err)
	}

	return &MaterializedBooking{Kind: BookingKindAstrology, AstrologyBooking: booking, Created: true}, nil
}
