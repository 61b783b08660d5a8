package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/DanielPopoola/okpuja-payments/internal/application"
	"github.com/DanielPopoola/okpuja-payments/internal/domain"
	"github.com/DanielPopoola/okpuja-payments/internal/infrastructure/persistence/postgres"
	"github.com/jackc/pgx/v5"
)

// CheckoutService turns carts and astrology booking forms into payment orders.
type CheckoutService struct {
	payments    *PaymentService
	orderRepo   *postgres.PaymentOrderRepository
	cartRepo    *postgres.CartRepository
	catalogRepo *postgres.CatalogRepository
	db          *postgres.DB
	logger      *slog.Logger
}

func NewCheckoutService(
	payments *PaymentService,
	orderRepo *postgres.PaymentOrderRepository,
	cartRepo *postgres.CartRepository,
	catalogRepo *postgres.CatalogRepository,
	db *postgres.DB,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		payments:    payments,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		catalogRepo: catalogRepo,
		db:          db,
		logger:      logger,
	}
}

// CheckoutCart creates an order for an ACTIVE cart owned by the caller. A
// live checkout session for the same cart is handed back instead of a new one.
// The cart row stays locked until the new order has its checkout session, so
// concurrent checkouts of one cart share a single order.
func (s *CheckoutService) CheckoutCart(ctx context.Context, cmd CartCheckoutCommand) (*CheckoutOutcome, error) {
	var outcome *CheckoutOutcome
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		cart, err := s.cartRepo.FindByCartIDForUpdate(ctx, tx, cmd.CartID)
		if err != nil {
			return err
		}
		outcome, err = s.checkoutLockedCart(ctx, cart, cmd)
		return err
	})
	if err != nil {
		return nil, wrapRepoError(err)
	}
	return outcome, nil
}

func (s *CheckoutService) checkoutLockedCart(ctx context.Context, cart *domain.Cart, cmd CartCheckoutCommand) (*CheckoutOutcome, error) {
	if cart.UserID != cmd.UserID {
		return nil, domain.NewCartNotFoundError(cmd.CartID)
	}
	if cart.Status != domain.CartActive {
		return nil, domain.NewCartNotPayableError(cmd.CartID, "cart is "+string(cart.Status))
	}
	if cart.TotalPrice <= 0 {
		return nil, domain.NewCartNotPayableError(cmd.CartID, "cart total is zero")
	}

	if _, err := s.orderRepo.FindLatestByCart(ctx, cmd.CartID, domain.StatusSuccess); err == nil {
		return nil, domain.NewCartNotPayableError(cmd.CartID, "cart has already been paid for")
	} else if !errors.Is(err, domain.ErrOrderNotFound) {
		return nil, application.NewInternalError(err)
	}

	live, err := s.orderRepo.FindLatestByCart(ctx, cmd.CartID, domain.StatusInitiated)
	switch {
	case err == nil && live.CheckoutURL != nil && !s.payments.IsPaymentExpired(live):
		s.logger.Info("reusing live checkout session", orderAttrs(live))
		return &CheckoutOutcome{
			Order:            live,
			Success:          true,
			PaymentURL:       *live.CheckoutURL,
			ExpiresAt:        live.Deadline(),
			RemainingSeconds: int64(s.payments.RemainingTime(live).Seconds()),
		}, nil
	case err != nil && !errors.Is(err, domain.ErrOrderNotFound):
		return nil, application.NewInternalError(err)
	}

	cartID := cart.CartID
	return s.payments.CreatePaymentOrder(ctx, CreateOrderCommand{
		UserID:      cmd.UserID,
		Amount:      cart.TotalPrice,
		Description: "Booking for " + cart.ServiceName,
		CartID:      &cartID,
		Kind:        domain.OrderKindCart,
		Metadata:    domain.Metadata{domain.MetaCartID: cartID},
		RedirectURL: cmd.RedirectURL,
	})
}

// CheckoutAstrology validates the booking form up front so that
// materialization after payment only has to re-read well-formed metadata.
func (s *CheckoutService) CheckoutAstrology(ctx context.Context, cmd AstrologyCheckoutCommand) (*CheckoutOutcome, error) {
	req := cmd.Request
	req.UserID = cmd.UserID
	if err := req.Validate(); err != nil {
		return nil, application.NewInvalidInputError(err)
	}
	if err := validateAstrologySchedule(&req); err != nil {
		return nil, application.NewInvalidInputError(err)
	}

	service, err := s.catalogRepo.FindAstrologyService(ctx, req.ServiceID)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	if !service.IsActive {
		return nil, domain.NewServiceNotFoundError(req.ServiceID)
	}

	return s.payments.CreatePaymentOrder(ctx, CreateOrderCommand{
		UserID:      cmd.UserID,
		Amount:      service.Price,
		Description: "Astrology booking: " + service.Title,
		Kind:        domain.OrderKindAstrology,
		Metadata:    req.Metadata(),
		RedirectURL: cmd.RedirectURL,
	})
}

func validateAstrologySchedule(req *domain.AstrologyBookingRequest) error {
	for field, value := range map[string]string{
		"preferred_date": req.PreferredDate,
		"birth_date":     req.BirthDate,
	} {
		if _, err := domain.ParseISODate(value); err != nil {
			return domain.NewInvalidBookingDataError(field, err)
		}
	}
	for field, value := range map[string]string{
		"preferred_time": req.PreferredTime,
		"birth_time":     req.BirthTime,
	} {
		if _, err := domain.ParseClockTime(value); err != nil {
			return domain.NewInvalidBookingDataError(field, err)
		}
	}
	return nil
}
