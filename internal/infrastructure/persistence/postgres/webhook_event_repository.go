package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// WebhookEvent is the audit row written for every inbound provider callback.
type WebhookEvent struct {
	ID               string
	EventType        string
	MerchantOrderID  *string
	MerchantRefundID *string
	Payload          json.RawMessage
	Processed        bool
	ProcessingError  *string
	ReceivedAt       time.Time
	ProcessedAt      *time.Time
}

type WebhookEventRepository struct {
	db *DB
}

func NewWebhookEventRepository(db *DB) *WebhookEventRepository {
	return &WebhookEventRepository{db: db}
}

func (r *WebhookEventRepository) Record(ctx context.Context, e *WebhookEvent) error {
	query := `
		INSERT INTO webhook_events (id, event_type, merchant_order_id, merchant_refund_id, payload, received_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	var payload []byte
	if json.Valid(e.Payload) {
		payload = e.Payload
	}
	_, err := r.db.Pool.Exec(ctx, query, e.ID, e.EventType, e.MerchantOrderID, e.MerchantRefundID, payload, e.ReceivedAt)
	if err != nil {
		return fmt.Errorf("failed to record webhook event: %w", err)
	}
	return nil
}

// MarkProcessed closes the audit row. A non-nil processingErr is stored and
// the event stays unprocessed.
func (r *WebhookEventRepository) MarkProcessed(ctx context.Context, id string, processingErr error) error {
	query := `
		UPDATE webhook_events
		SET processed = $1, processing_error = $2, processed_at = $3
		WHERE id = $4
	`
	var msg *string
	if processingErr != nil {
		s := processingErr.Error()
		msg = &s
	}
	_, err := r.db.Pool.Exec(ctx, query, processingErr == nil, msg, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark webhook event: %w", err)
	}
	return nil
}

// CountForOrder returns how many callbacks arrived for an order and how many were processed.
func (r *WebhookEventRepository) CountForOrder(ctx context.Context, merchantOrderID string) (total, processed int, err error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE processed)
		FROM webhook_events
		WHERE merchant_order_id = $1
	`
	if err := r.db.Pool.QueryRow(ctx, query, merchantOrderID).Scan(&total, &processed); err != nil {
		return 0, 0, fmt.Errorf("count webhook events: %w", err)
	}
	return total, processed, nil
}
