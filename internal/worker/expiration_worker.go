package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/application/services"
)

const expiryBatchSize = 100

// ExpirationWorker closes the checkout window on PENDING orders nobody
// returned to.
type ExpirationWorker struct {
	payments *services.PaymentService
	interval time.Duration
	logger   *slog.Logger
}

func NewExpirationWorker(
	payments *services.PaymentService,
	interval time.Duration,
	logger *slog.Logger,
) *ExpirationWorker {
	return &ExpirationWorker{
		payments: payments,
		interval: interval,
		logger:   logger,
	}
}

func (w *ExpirationWorker) Start(ctx context.Context) {
	w.logger.Info("expiration worker started", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.run(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("expiration worker stopping")
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *ExpirationWorker) run(ctx context.Context) {
	if _, err := w.RunOnce(ctx); err != nil {
		w.logger.Error("expiration processing failed", "error", err)
	}
}

// RunOnce expires overdue orders in batches until none are left.
func (w *ExpirationWorker) RunOnce(ctx context.Context) (int, error) {
	total := 0
	for {
		n, err := w.payments.CleanupExpired(ctx, expiryBatchSize)
		total += n
		if err != nil || n < expiryBatchSize || ctx.Err() != nil {
			return total, err
		}
	}
}
