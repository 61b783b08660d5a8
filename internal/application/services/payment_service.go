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

// PaymentService owns the payment order lifecycle. Every status write goes
// through it.
type PaymentService struct {
	orderRepo   *postgres.PaymentOrderRepository
	gateway     application.GatewayClient
	db          *postgres.DB
	policy      config.PaymentConfig
	redirectURL string
	now         func() time.Time
	logger      *slog.Logger
}

func NewPaymentService(
	orderRepo *postgres.PaymentOrderRepository,
	gateway application.GatewayClient,
	db *postgres.DB,
	policy config.PaymentConfig,
	redirectURL string,
	logger *slog.Logger,
	opts ...Option,
) *PaymentService {
	o := applyOptions(opts)
	return &PaymentService{
		orderRepo:   orderRepo,
		gateway:     gateway,
		db:          db,
		policy:      policy,
		redirectURL: redirectURL,
		now:         o.now,
		logger:      logger,
	}
}

// CreatePaymentOrder persists a PENDING order and asks the gateway for a
// checkout URL. A gateway failure marks the order FAILED and is reported
// through the outcome, not as an error.
func (s *PaymentService) CreatePaymentOrder(ctx context.Context, cmd CreateOrderCommand) (*CheckoutOutcome, error) {
	order, err := domain.NewPaymentOrder(uuid.NewString(), domain.NewOrderParams{
		MerchantOrderID: domain.NewMerchantOrderID(s.policy.OrderPrefix, cmd.Kind),
		UserID:          cmd.UserID,
		CartID:          cmd.CartID,
		Amount:          cmd.Amount,
		Description:     cmd.Description,
		Metadata:        cmd.Metadata,
		Policy: domain.Policy{
			TimeoutMinutes:   s.policy.TimeoutMinutes,
			MaxRetryAttempts: s.policy.MaxRetryAttempts,
		},
	}, s.now())
	if err != nil {
		return nil, application.NewInvalidInputError(err)
	}

	if err := s.orderRepo.Create(ctx, nil, order); err != nil {
		return nil, application.NewInternalError(err)
	}

	s.logger.Info("payment order created", orderAttrs(order), "amount", order.Amount)
	return s.requestCheckout(ctx, order, cmd.RedirectURL)
}

// CheckPaymentStatus asks the gateway about a non-terminal order and applies
// the answer. Terminal orders are returned without a gateway call. Only an
// unknown order or a storage failure is an error.
func (s *PaymentService) CheckPaymentStatus(ctx context.Context, merchantOrderID, trigger string) (*StatusCheck, error) {
	order, err := s.orderRepo.FindByMerchantOrderID(ctx, merchantOrderID)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	if order.IsTerminal() {
		return &StatusCheck{Order: order}, nil
	}

	status, err := s.gateway.CheckStatus(ctx, merchantOrderID)
	if err != nil {
		s.logger.Warn("gateway status check failed, keeping local status",
			orderAttrs(order),
			"trigger", trigger,
			"error", err,
		)
		return &StatusCheck{Order: order, GatewayErr: err}, nil
	}

	return s.ApplyGatewayStatus(ctx, merchantOrderID, status, trigger)
}

// ApplyGatewayStatus is the single read-modify-write path for gateway
// verdicts. The order row is locked, and a terminal status is never replaced.
func (s *PaymentService) ApplyGatewayStatus(ctx context.Context, merchantOrderID string, status *application.GatewayStatus, trigger string) (*StatusCheck, error) {
	result := &StatusCheck{}
	now := s.now()

	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		order, err := s.orderRepo.FindByMerchantOrderIDForUpdate(ctx, tx, merchantOrderID)
		if err != nil {
			return err
		}
		result.Order = order
		if order.IsTerminal() {
			return nil
		}

		switch status.State {
		case application.GatewayCompleted:
			paidAt := now
			if !status.CompletedAt.IsZero() {
				paidAt = status.CompletedAt
			}
			late := order.IsExpired(paidAt)
			if err := order.Complete(status.TransactionID, paidAt, status.Raw); err != nil {
				return err
			}
			if late && !s.policy.HonorsLateSuccess() {
				order.FlagForReview("payment completed after the checkout window expired")
			}
			if status.Amount > 0 && status.Amount != order.Amount {
				order.FlagForReview(fmt.Sprintf("gateway amount %d does not match order amount %d", status.Amount, order.Amount))
			}
		case application.GatewayFailed:
			if err := order.Fail(status.Raw); err != nil {
				return err
			}
		default:
			return nil
		}

		updated, err := s.orderRepo.UpdateIfNotTerminal(ctx, tx, order)
		if err != nil {
			return err
		}
		result.Changed = updated
		return nil
	})
	if err != nil {
		return nil, wrapRepoError(err)
	}

	if result.Changed {
		metrics.RecordTransition(trigger, string(result.Order.Status))
		s.logger.Info("payment status updated",
			orderAttrs(result.Order),
			"trigger", trigger,
			"needs_review", result.Order.NeedsReview,
		)
	}
	return result, nil
}

// FlagForReview holds a paid order for manual reconciliation.
func (s *PaymentService) FlagForReview(ctx context.Context, order *domain.PaymentOrder, reason string) error {
	if err := s.orderRepo.FlagForReview(ctx, nil, order.ID, reason); err != nil {
		return application.NewInternalError(err)
	}
	order.FlagForReview(reason)
	s.logger.Warn("payment order flagged for review", orderAttrs(order), "reason", reason)
	return nil
}

func (s *PaymentService) IsPaymentExpired(order *domain.PaymentOrder) bool {
	return order.IsExpired(s.now())
}

func (s *PaymentService) CanRetry(order *domain.PaymentOrder) bool {
	return order.CanRetry(s.now())
}

func (s *PaymentService) RemainingTime(order *domain.PaymentOrder) time.Duration {
	return order.RemainingTime(s.now())
}

// RetryPayment re-issues a checkout session under the same merchant order id.
// An ineligible order is reported with Success=false and the gateway is not called.
func (s *PaymentService) RetryPayment(ctx context.Context, cmd RetryCommand) (*CheckoutOutcome, error) {
	order, err := s.orderRepo.FindByMerchantOrderID(ctx, cmd.MerchantOrderID)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	if !cmd.IsStaff && order.UserID != cmd.UserID {
		return nil, domain.NewOrderNotFoundError(cmd.MerchantOrderID)
	}

	if outcome := s.retryIneligible(order, retryCheck(order, s.now())); outcome != nil {
		return outcome, nil
	}

	var ineligible error
	err = s.db.WithTx(ctx, func(tx pgx.Tx) error {
		locked, err := s.orderRepo.FindByMerchantOrderIDForUpdate(ctx, tx, cmd.MerchantOrderID)
		if err != nil {
			return err
		}
		order = locked
		if err := order.PrepareRetry(s.now()); err != nil {
			ineligible = err
			return nil
		}
		updated, err := s.orderRepo.UpdateIfNotTerminal(ctx, tx, order)
		if err != nil {
			return err
		}
		if !updated {
			ineligible = domain.NewInvalidTransitionError(order.Status, domain.StatusPending)
		}
		return nil
	})
	if err != nil {
		return nil, wrapRepoError(err)
	}
	if outcome := s.retryIneligible(order, ineligible); outcome != nil {
		return outcome, nil
	}

	s.logger.Info("payment retry started",
		orderAttrs(order),
		"retry_count", order.RetryCount,
		"max_retry_attempts", order.MaxRetryAttempts,
	)
	return s.requestCheckout(ctx, order, cmd.RedirectURL)
}

// retryCheck mirrors PrepareRetry without mutating the order.
func retryCheck(order *domain.PaymentOrder, now time.Time) error {
	switch {
	case order.Status != domain.StatusPending && order.Status != domain.StatusInitiated:
		return domain.NewInvalidTransitionError(order.Status, domain.StatusPending)
	case order.IsExpired(now):
		return domain.NewOrderExpiredError(order.MerchantOrderID)
	case order.RetryCount >= order.MaxRetryAttempts:
		return domain.NewRetryLimitExceededError(order.MerchantOrderID, order.RetryCount)
	}
	return nil
}

func (s *PaymentService) retryIneligible(order *domain.PaymentOrder, err error) *CheckoutOutcome {
	if err == nil {
		return nil
	}
	var domErr *domain.DomainError
	code := domain.ErrCodeInvalidTransition
	if errors.As(err, &domErr) {
		code = domErr.Code
	}
	s.logger.Info("payment retry refused", orderAttrs(order), "reason", code)
	return &CheckoutOutcome{
		Order:            order,
		Success:          false,
		ExpiresAt:        order.Deadline(),
		RemainingSeconds: int64(order.RemainingTime(s.now()).Seconds()),
		Code:             code,
		Reason:           err.Error(),
	}
}

// CleanupExpired marks PENDING orders past their deadline EXPIRED.
func (s *PaymentService) CleanupExpired(ctx context.Context, limit int) (int, error) {
	now := s.now()
	candidates, err := s.orderRepo.FindExpiredPending(ctx, now, limit)
	if err != nil {
		return 0, application.NewInternalError(err)
	}

	expired := 0
	for _, candidate := range candidates {
		err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
			order, err := s.orderRepo.FindByMerchantOrderIDForUpdate(ctx, tx, candidate.MerchantOrderID)
			if err != nil {
				return err
			}
			if order.Status != domain.StatusPending {
				return nil
			}
			if err := order.MarkExpired(now); err != nil {
				return err
			}
			updated, err := s.orderRepo.UpdateIfNotTerminal(ctx, tx, order)
			if updated {
				expired++
			}
			return err
		})
		if err != nil {
			s.logger.Error("failed to expire payment order", orderAttrs(candidate), "error", err)
			continue
		}
	}

	if expired > 0 {
		metrics.RecordTransition("cleanup", string(domain.StatusExpired))
		s.logger.Info("expired stale payment orders", "count", expired)
	}
	return expired, nil
}

func (s *PaymentService) requestCheckout(ctx context.Context, order *domain.PaymentOrder, redirectURL string) (*CheckoutOutcome, error) {
	if redirectURL == "" {
		redirectURL = s.redirectURL
	}
	now := s.now()

	res, err := s.gateway.CreatePaymentURL(ctx, application.CheckoutRequest{
		MerchantOrderID: order.MerchantOrderID,
		Amount:          order.Amount,
		RedirectURL:     redirectURL,
		Timeout:         order.RemainingTime(now),
		Message:         order.Description,
		UDF: map[string]string{
			"booking_type": order.Metadata.BookingType(),
			"cart_id":      order.BookingCartID(),
		},
	})
	if err != nil || !res.Success {
		return s.failCheckout(ctx, order, res, err)
	}

	if err := order.Initiate(res.PaymentURL, res.GatewayOrderID, res.Raw); err != nil {
		return nil, application.NewInternalError(err)
	}
	updated, err := s.orderRepo.UpdateIfNotTerminal(ctx, nil, order)
	if err != nil {
		return nil, application.NewInternalError(err)
	}
	if !updated {
		return s.finalizedMeanwhile(ctx, order)
	}

	s.logger.Info("checkout session issued", orderAttrs(order))
	return &CheckoutOutcome{
		Order:            order,
		Success:          true,
		PaymentURL:       res.PaymentURL,
		ExpiresAt:        order.Deadline(),
		RemainingSeconds: int64(order.RemainingTime(now).Seconds()),
	}, nil
}

func (s *PaymentService) failCheckout(ctx context.Context, order *domain.PaymentOrder, res *application.CheckoutResult, gwErr error) (*CheckoutOutcome, error) {
	attrs := []any{orderAttrs(order)}
	if gwErr != nil {
		attrs = append(attrs, "error", gwErr)
	}
	if res != nil {
		attrs = append(attrs, "status_code", res.StatusCode, "gateway_code", res.ErrorCode, "gateway_message", res.Message)
	}
	s.logger.Error("checkout session request failed", attrs...)

	var raw []byte
	if res != nil {
		raw = res.Raw
	}
	if err := order.Fail(raw); err != nil {
		return nil, application.NewInternalError(err)
	}
	updated, err := s.orderRepo.UpdateIfNotTerminal(ctx, nil, order)
	if err != nil {
		return nil, application.NewInternalError(err)
	}
	if !updated {
		return s.finalizedMeanwhile(ctx, order)
	}
	metrics.RecordTransition("checkout", string(order.Status))

	return &CheckoutOutcome{
		Order:  order,
		Code:   OutcomeGatewayRejected,
		Reason: application.NewPaymentNotInitiatedError(gwErr).Message,
	}, nil
}

// finalizedMeanwhile handles a concurrent trigger having finalized the order
// while the gateway was being called.
func (s *PaymentService) finalizedMeanwhile(ctx context.Context, order *domain.PaymentOrder) (*CheckoutOutcome, error) {
	current, err := s.orderRepo.FindByMerchantOrderID(ctx, order.MerchantOrderID)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	return &CheckoutOutcome{
		Order:     current,
		ExpiresAt: current.Deadline(),
		Code:      OutcomeOrderFinalized,
		Reason:    fmt.Sprintf("payment order is already %s", current.Status),
	}, nil
}
