package services

import (
	"context"
	"errors"
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/application"
	"github.com/DanielPopoola/okpuja-payments/internal/domain"
	"github.com/DanielPopoola/okpuja-payments/internal/infrastructure/persistence/postgres"
)

// PaymentStatusView is what the polling endpoints render.
type PaymentStatusView struct {
	Order            *domain.PaymentOrder
	RemainingSeconds int64
	CanRetry         bool
	PaymentURL       string
	BookingReference string
	Refunds          []*domain.Refund
	GatewayReachable bool
}

type CartStatusView struct {
	CartID        string
	CartStatus    domain.CartStatus
	Payment       *PaymentStatusView
	BookingExists bool
}

// QueryService serves the polling endpoints. Each read reconciles first so a
// user who never hit the redirect still gets a booking.
type QueryService struct {
	orderRepo   *postgres.PaymentOrderRepository
	cartRepo    *postgres.CartRepository
	bookingRepo *postgres.BookingRepository
	payments    *PaymentService
	refunds     *RefundService
	reconciler  *Reconciler
}

func NewQueryService(
	orderRepo *postgres.PaymentOrderRepository,
	cartRepo *postgres.CartRepository,
	bookingRepo *postgres.BookingRepository,
	payments *PaymentService,
	refunds *RefundService,
	reconciler *Reconciler,
) *QueryService {
	return &QueryService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		bookingRepo: bookingRepo,
		payments:    payments,
		refunds:     refunds,
		reconciler:  reconciler,
	}
}

// PaymentStatus reconciles the order and reports its status. Orders owned by
// someone else look unknown unless the caller is staff.
func (s *QueryService) PaymentStatus(ctx context.Context, merchantOrderID, userID string, isStaff bool) (*PaymentStatusView, error) {
	order, err := s.orderRepo.FindByMerchantOrderID(ctx, merchantOrderID)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	if !isStaff && order.UserID != userID {
		return nil, domain.NewOrderNotFoundError(merchantOrderID)
	}
	return s.reconcileView(ctx, order, TriggerPoll)
}

// CartPaymentStatus reports on the newest order placed for a cart.
func (s *QueryService) CartPaymentStatus(ctx context.Context, cartID, userID string) (*CartStatusView, error) {
	order, err := s.orderRepo.FindLatestByCart(ctx, cartID)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	if order.UserID != userID {
		return nil, domain.NewCartNotFoundError(cartID)
	}

	payment, err := s.reconcileView(ctx, order, TriggerCartStatus)
	if err != nil {
		return nil, err
	}

	view := &CartStatusView{CartID: cartID, Payment: payment}
	if cart, err := s.cartRepo.FindByCartID(ctx, cartID); err == nil {
		view.CartStatus = cart.Status
	} else if !errors.Is(err, domain.ErrCartNotFound) {
		return nil, application.NewInternalError(err)
	}

	if payment.BookingReference != "" {
		view.BookingExists = true
	} else if _, err := s.bookingRepo.FindByCartID(ctx, nil, cartID); err == nil {
		view.BookingExists = true
	} else if !errors.Is(err, domain.ErrBookingNotFound) {
		return nil, application.NewInternalError(err)
	}
	return view, nil
}

func (s *QueryService) reconcileView(ctx context.Context, order *domain.PaymentOrder, trigger string) (*PaymentStatusView, error) {
	result, err := s.reconciler.ReconcilePayment(ctx, order.MerchantOrderID, trigger)
	if err != nil {
		return nil, err
	}
	order = result.Order

	view := &PaymentStatusView{
		Order:            order,
		RemainingSeconds: int64(s.payments.RemainingTime(order) / time.Second),
		CanRetry:         retryCheck(order, s.payments.now()) == nil,
		BookingReference: result.Booking.Reference(),
		GatewayReachable: result.GatewayErr == nil,
	}
	if order.Status == domain.StatusInitiated && order.CheckoutURL != nil && !s.payments.IsPaymentExpired(order) {
		view.PaymentURL = *order.CheckoutURL
	}
	if order.Status == domain.StatusSuccess {
		refunds, err := s.refunds.ListRefunds(ctx, order)
		if err != nil {
			return nil, err
		}
		view.Refunds = refunds
	}
	return view, nil
}
