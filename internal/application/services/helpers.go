package services

import (
	"errors"
	"log/slog"
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/application"
	"github.com/DanielPopoola/okpuja-payments/internal/domain"
)

// Triggers name the path that caused a reconciliation. They label metrics and logs.
const (
	TriggerWebhook    = "webhook"
	TriggerRedirect   = "redirect"
	TriggerPoll       = "poll"
	TriggerCartStatus = "cart_status"
	TriggerSweep      = "sweep"
)

type options struct {
	now func() time.Time
}

// Option customizes a service. Tests use it to pin the clock.
type Option func(*options)

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func applyOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// wrapRepoError passes domain and service errors through and hides anything
// else behind an internal error.
func wrapRepoError(err error) error {
	if err == nil {
		return nil
	}
	var domErr *domain.DomainError
	if errors.As(err, &domErr) {
		return err
	}
	if _, ok := application.IsServiceError(err); ok {
		return err
	}
	return application.NewInternalError(err)
}

func orderAttrs(o *domain.PaymentOrder) slog.Attr {
	return slog.Group("order",
		"merchant_order_id", o.MerchantOrderID,
		"status", o.Status,
		"user_id", o.UserID,
		"cart_id", o.BookingCartID(),
	)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
