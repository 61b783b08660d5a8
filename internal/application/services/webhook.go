package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/domain"
	"github.com/DanielPopoola/okpuja-payments/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/okpuja-payments/internal/infrastructure/phonepe"
	"github.com/google/uuid"
)

// WebhookOutcome reports what an event did. Duplicate is true when the order
// or refund had already reached the state the event describes.
type WebhookOutcome struct {
	Event     string
	Duplicate bool
	Ignored   bool
	Result    *ReconcileResult
	Refund    *domain.Refund
}

type WebhookService struct {
	eventRepo  *postgres.WebhookEventRepository
	reconciler *Reconciler
	refunds    *RefundService
	now        func() time.Time
	logger     *slog.Logger
}

func NewWebhookService(
	eventRepo *postgres.WebhookEventRepository,
	reconciler *Reconciler,
	refunds *RefundService,
	logger *slog.Logger,
	opts ...Option,
) *WebhookService {
	o := applyOptions(opts)
	return &WebhookService{
		eventRepo:  eventRepo,
		reconciler: reconciler,
		refunds:    refunds,
		now:        o.now,
		logger:     logger,
	}
}

// Process applies an authenticated, parsed event. Every event is written to
// the audit table first; a failure to audit does not block processing.
func (s *WebhookService) Process(ctx context.Context, event *phonepe.WebhookEvent) (*WebhookOutcome, error) {
	record := &postgres.WebhookEvent{
		ID:         uuid.NewString(),
		EventType:  event.Event,
		Payload:    event.Raw,
		ReceivedAt: domain.NormalizeTimestamp(s.now()),
	}
	if id := event.Payload.MerchantOrderID; id != "" {
		record.MerchantOrderID = &id
	} else if id := event.Payload.OriginalMerchantOrderID; id != "" {
		record.MerchantOrderID = &id
	}
	if id := event.Payload.MerchantRefundID; id != "" {
		record.MerchantRefundID = &id
	}

	recorded := true
	if err := s.eventRepo.Record(ctx, record); err != nil {
		recorded = false
		s.logger.Error("failed to record webhook event", "event", event.Event, "error", err)
	}

	outcome, err := s.dispatch(ctx, event)

	if recorded {
		if markErr := s.eventRepo.MarkProcessed(ctx, record.ID, err); markErr != nil {
			s.logger.Error("failed to mark webhook event", "event_id", record.ID, "error", markErr)
		}
	}
	return outcome, err
}

func (s *WebhookService) dispatch(ctx context.Context, event *phonepe.WebhookEvent) (*WebhookOutcome, error) {
	outcome := &WebhookOutcome{Event: event.Event}

	switch {
	case event.IsOrderEvent():
		result, err := s.reconciler.ReconcileWithStatus(ctx, event.OrderStatus(), TriggerWebhook)
		if err != nil {
			s.logger.Error("webhook reconciliation failed",
				"merchant_order_id", event.Payload.MerchantOrderID,
				"event", event.Event,
				"error", err,
			)
			return nil, err
		}
		outcome.Result = result
		outcome.Duplicate = !result.Changed && result.Order.IsTerminal()
		if result.MaterializeErr != nil {
			s.logger.Warn("booking deferred to a later trigger",
				"merchant_order_id", result.Order.MerchantOrderID,
				"error", result.MaterializeErr,
			)
		}

	case event.IsRefundEvent():
		refund, err := s.refunds.ApplyRefundStatus(ctx, event.RefundStatus())
		if err != nil {
			s.logger.Error("webhook refund update failed",
				"merchant_refund_id", event.Payload.MerchantRefundID,
				"event", event.Event,
				"error", err,
			)
			return nil, err
		}
		outcome.Refund = refund

	default:
		s.logger.Info("ignoring unsupported webhook event", "event", event.Event)
		outcome.Ignored = true
	}

	s.logger.Info("webhook processed",
		"event", event.Event,
		"merchant_order_id", event.Payload.MerchantOrderID,
		"duplicate", outcome.Duplicate,
	)
	return outcome, nil
}
