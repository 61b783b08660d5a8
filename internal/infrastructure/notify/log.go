package notify

import (
	"context"
	"log/slog"

	"github.com/DanielPopoola/okpuja-payments/internal/application"
)

// LogNotifier writes notifications to the log instead of a topic. Used when no
// Kafka brokers are configured, e.g. in local development.
type LogNotifier struct {
	logger *slog.Logger
}

var _ application.Notifier = (*LogNotifier)(nil)

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) BookingConfirmed(ctx context.Context, b application.BookingNotification) error {
	n.logger.InfoContext(ctx, "notification not published, no broker configured",
		"event_type", EventBookingConfirmed,
		"recipient", b.Email,
		"book_id", b.BookID,
		"merchant_order_id", b.MerchantOrderID,
	)
	return nil
}

func (n *LogNotifier) AstrologyBookingConfirmed(ctx context.Context, a application.AstrologyNotification) error {
	n.logAstrology(ctx, EventAstrologyBookingConfirmed, a.ContactEmail, a)
	return nil
}

func (n *LogNotifier) AstrologyAdminAlert(ctx context.Context, a application.AstrologyNotification) error {
	n.logAstrology(ctx, EventAstrologyAdminAlert, a.AdminEmail, a)
	return nil
}

func (n *LogNotifier) logAstrology(ctx context.Context, event, recipient string, a application.AstrologyNotification) {
	n.logger.InfoContext(ctx, "notification not published, no broker configured",
		"event_type", event,
		"recipient", recipient,
		"astro_book_id", a.AstroBookID,
		"merchant_order_id", a.MerchantOrderID,
	)
}
