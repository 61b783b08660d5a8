package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/application"
	"github.com/DanielPopoola/okpuja-payments/internal/application/services"
	"github.com/DanielPopoola/okpuja-payments/internal/config"
	"github.com/DanielPopoola/okpuja-payments/internal/domain"
	"github.com/DanielPopoola/okpuja-payments/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/okpuja-payments/internal/metrics"
)

// SweepResult counts what one sweep did with the orders it picked up.
type SweepResult struct {
	Checked      int `json:"checked"`
	Completed    int `json:"completed"`
	Failed       int `json:"failed"`
	StillPending int `json:"still_pending"`
	Skipped      int `json:"skipped"`
	Errors       int `json:"errors"`
}

// SweepWorker is the safety net for payments whose webhook and redirect both
// went missing. It polls the gateway for INITIATED orders past the grace
// period and reconciles them like any other trigger would. Each check is
// stamped on the order so the batch rotates through orders that never
// resolve. Checks are spaced by a random delay and back off while the
// gateway answers 429.
type SweepWorker struct {
	orderRepo  *postgres.PaymentOrderRepository
	reconciler *services.Reconciler
	cfg        config.WorkerConfig
	now        func() time.Time
	logger     *slog.Logger
}

func NewSweepWorker(
	orderRepo *postgres.PaymentOrderRepository,
	reconciler *services.Reconciler,
	cfg config.WorkerConfig,
	logger *slog.Logger,
) *SweepWorker {
	return &SweepWorker{
		orderRepo:  orderRepo,
		reconciler: reconciler,
		cfg:        cfg,
		now:        time.Now,
		logger:     logger,
	}
}

func (w *SweepWorker) Start(ctx context.Context) {
	w.logger.Info("sweep worker started",
		"interval", w.cfg.Interval,
		"batch_size", w.cfg.BatchSize,
		"grace_period", w.cfg.GracePeriod,
	)
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("sweep worker stopping")
			return
		case <-ticker.C:
			if _, err := w.RunOnce(ctx); err != nil {
				w.logger.Error("sweep failed", "error", err)
			}
		}
	}
}

// RunOnce checks one batch of stale orders, least recently checked first.
func (w *SweepWorker) RunOnce(ctx context.Context) (*SweepResult, error) {
	cutoff := w.now().Add(-w.cfg.GracePeriod)
	result := &SweepResult{}

	orders, err := w.orderRepo.FindStaleInitiated(ctx, cutoff, w.cfg.BatchSize)
	if err != nil {
		return nil, application.NewInternalError(err)
	}
	skipped, err := w.orderRepo.CountStaleOverRetryLimit(ctx, cutoff)
	if err != nil {
		return nil, application.NewInternalError(err)
	}
	result.Skipped = skipped

	for i, order := range orders {
		if i > 0 {
			if err := sleep(ctx, randomDelay(w.cfg.MinDelay, w.cfg.MaxDelay)); err != nil {
				return result, err
			}
		}

		outcome := w.check(ctx, order.MerchantOrderID)
		metrics.RecordSweepCheck(outcome)
		if err := w.orderRepo.MarkChecked(ctx, order.ID, w.now()); err != nil {
			w.logger.Warn("failed to record sweep check", "merchant_order_id", order.MerchantOrderID, "error", err)
		}
		result.Checked++
		switch outcome {
		case "completed":
			result.Completed++
		case "failed":
			result.Failed++
		case "pending":
			result.StillPending++
		default:
			result.Errors++
		}
	}

	if result.Checked > 0 || result.Skipped > 0 {
		w.logger.Info("sweep finished",
			"checked", result.Checked,
			"completed", result.Completed,
			"failed", result.Failed,
			"still_pending", result.StillPending,
			"skipped", result.Skipped,
			"errors", result.Errors,
		)
	}
	return result, nil
}

// check reconciles one order, retrying with exponential backoff while the
// gateway answers 429.
func (w *SweepWorker) check(ctx context.Context, merchantOrderID string) string {
	for attempt := 0; ; attempt++ {
		res, err := w.reconciler.ReconcilePayment(ctx, merchantOrderID, services.TriggerSweep)
		if err != nil {
			w.logger.Error("sweep reconcile failed", "merchant_order_id", merchantOrderID, "error", err)
			return "error"
		}

		if res.GatewayErr == nil {
			switch res.Order.Status {
			case domain.StatusSuccess:
				return "completed"
			case domain.StatusFailed, domain.StatusCancelled:
				return "failed"
			default:
				return "pending"
			}
		}

		gwErr, ok := application.IsGatewayError(res.GatewayErr)
		if !ok || !gwErr.IsRateLimited() || attempt+1 >= w.cfg.MaxAttempts {
			w.logger.Warn("sweep could not reach gateway",
				"merchant_order_id", merchantOrderID,
				"attempts", attempt+1,
				"error", res.GatewayErr,
			)
			return "error"
		}

		wait := backoff(w.cfg.BackoffBase, attempt)
		w.logger.Info("gateway rate limited sweep, backing off",
			"merchant_order_id", merchantOrderID,
			"attempt", attempt+1,
			"wait", wait,
		)
		if err := sleep(ctx, wait); err != nil {
			return "error"
		}
	}
}
