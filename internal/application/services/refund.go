package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/application"
	"github.com/DanielPopoola/okpuja-payments/internal/domain"
	"github.com/DanielPopoola/okpuja-payments/internal/infrastructure/persistence/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RefundService struct {
	orderRepo  *postgres.PaymentOrderRepository
	refundRepo *postgres.RefundRepository
	gateway    application.GatewayClient
	db         *postgres.DB
	now        func() time.Time
	logger     *slog.Logger
}

func NewRefundService(
	orderRepo *postgres.PaymentOrderRepository,
	refundRepo *postgres.RefundRepository,
	gateway application.GatewayClient,
	db *postgres.DB,
	logger *slog.Logger,
	opts ...Option,
) *RefundService {
	o := applyOptions(opts)
	return &RefundService{
		orderRepo:  orderRepo,
		refundRepo: refundRepo,
		gateway:    gateway,
		db:         db,
		now:        o.now,
		logger:     logger,
	}
}

// CreateRefund records the refund as PROCESSING before the gateway is called,
// then stores the gateway's verdict. A transport failure leaves it PROCESSING
// for RefundStatus or the refund webhook to settle.
func (s *RefundService) CreateRefund(ctx context.Context, cmd RefundCommand) (*RefundOutcome, error) {
	var (
		order  *domain.PaymentOrder
		refund *domain.Refund
	)
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		order, err = s.orderRepo.FindByMerchantOrderIDForUpdate(ctx, tx, cmd.MerchantOrderID)
		if err != nil {
			return err
		}
		if !cmd.IsStaff && order.UserID != cmd.UserID {
			return domain.NewOrderNotFoundError(cmd.MerchantOrderID)
		}

		refunded, err := s.refundRepo.SumActiveByOrder(ctx, tx, order.ID)
		if err != nil {
			return err
		}
		amount := cmd.Amount
		if amount == 0 {
			amount = order.Amount - refunded
		}

		refund, err = domain.NewRefund(uuid.NewString(), order, amount, refunded, cmd.Reason, s.now())
		if err != nil {
			return err
		}
		return s.refundRepo.Create(ctx, tx, refund)
	})
	if err != nil {
		return nil, wrapRepoError(err)
	}

	s.logger.Info("refund requested",
		"merchant_order_id", order.MerchantOrderID,
		"merchant_refund_id", refund.MerchantRefundID,
		"amount", refund.Amount,
	)

	res, err := s.gateway.CreateRefund(ctx, application.GatewayRefundRequest{
		MerchantRefundID:        refund.MerchantRefundID,
		OriginalMerchantOrderID: order.MerchantOrderID,
		Amount:                  refund.Amount,
	})
	if err != nil {
		s.logger.Error("refund request failed, left processing",
			"merchant_refund_id", refund.MerchantRefundID,
			"error", err,
		)
		return &RefundOutcome{Refund: refund, Reason: "refund submitted but not yet confirmed by the gateway"}, nil
	}

	outcome := &RefundOutcome{Refund: refund, Success: res.Success, Reason: res.Message}
	switch {
	case !res.Success || res.State == application.GatewayFailed:
		outcome.Success = false
		if err := refund.Fail(res.Raw); err != nil {
			return nil, application.NewInternalError(err)
		}
	case res.State == application.GatewayCompleted:
		if err := refund.Succeed(res.GatewayRefundID, s.now(), res.Raw); err != nil {
			return nil, application.NewInternalError(err)
		}
	default:
		if res.GatewayRefundID != "" {
			refund.GatewayRefundID = &res.GatewayRefundID
		}
		refund.GatewayResponse = res.Raw
	}
	updated, err := s.refundRepo.UpdateIfProcessing(ctx, nil, refund)
	if err != nil {
		return nil, application.NewInternalError(err)
	}
	if !updated {
		return s.settledMeanwhile(ctx, refund)
	}
	return outcome, nil
}

// settledMeanwhile handles the refund webhook having settled the refund
// while the gateway call was in flight. The stored verdict wins.
func (s *RefundService) settledMeanwhile(ctx context.Context, refund *domain.Refund) (*RefundOutcome, error) {
	current, err := s.refundRepo.FindByMerchantRefundID(ctx, refund.MerchantRefundID)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	s.logger.Info("refund settled by another trigger during the gateway call",
		"merchant_refund_id", current.MerchantRefundID,
		"status", current.Status,
	)
	return &RefundOutcome{
		Refund:  current,
		Success: current.Status != domain.RefundFailed,
		Reason:  fmt.Sprintf("refund is already %s", current.Status),
	}, nil
}

// RefundStatus settles a PROCESSING refund from the gateway when possible.
// Refunds on another user's order look unknown unless the caller is staff.
func (s *RefundService) RefundStatus(ctx context.Context, merchantRefundID, userID string, isStaff bool) (*domain.Refund, error) {
	refund, err := s.refundRepo.FindByMerchantRefundID(ctx, merchantRefundID)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	if !isStaff {
		order, err := s.orderRepo.FindByID(ctx, refund.PaymentOrderID)
		if err != nil {
			return nil, wrapRepoError(err)
		}
		if order.UserID != userID {
			return nil, domain.ErrRefundNotFound
		}
	}
	if refund.IsTerminal() {
		return refund, nil
	}

	status, err := s.gateway.CheckRefundStatus(ctx, merchantRefundID)
	if err != nil {
		s.logger.Warn("refund status check failed", "merchant_refund_id", merchantRefundID, "error", err)
		return refund, nil
	}
	return s.ApplyRefundStatus(ctx, status)
}

// ApplyRefundStatus moves a PROCESSING refund to SUCCESS or FAILED. Settled
// refunds are left alone.
func (s *RefundService) ApplyRefundStatus(ctx context.Context, status *application.GatewayRefundStatus) (*domain.Refund, error) {
	var refund *domain.Refund
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		refund, err = s.refundRepo.FindByMerchantRefundIDForUpdate(ctx, tx, status.MerchantRefundID)
		if err != nil {
			return err
		}
		if refund.IsTerminal() {
			return nil
		}

		switch status.State {
		case application.GatewayCompleted:
			err = refund.Succeed(status.GatewayRefundID, s.now(), status.Raw)
		case application.GatewayFailed:
			err = refund.Fail(status.Raw)
		default:
			return nil
		}
		if err != nil {
			return err
		}
		return s.refundRepo.Update(ctx, tx, refund)
	})
	if err != nil {
		return nil, wrapRepoError(err)
	}
	return refund, nil
}

func (s *RefundService) ListRefunds(ctx context.Context, order *domain.PaymentOrder) ([]*domain.Refund, error) {
	refunds, err := s.refundRepo.ListByOrder(ctx, order.ID)
	if err != nil {
		return nil, application.NewInternalError(err)
	}
	return refunds, nil
}
