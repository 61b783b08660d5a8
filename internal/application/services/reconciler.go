package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/DanielPopoola/okpuja-payments/internal/application"
	"github.com/DanielPopoola/okpuja-payments/internal/domain"
)

// ReconcileResult is what every trigger gets back. Booking is nil when the
// order is not paid, is held for review, or materialization failed; in the
// last case MaterializeErr says why and a later trigger will try again.
type ReconcileResult struct {
	Order          *domain.PaymentOrder
	Changed        bool
	Booking        *MaterializedBooking
	GatewayErr     error
	MaterializeErr error
}

// Reconciler is the one path webhook, redirect, polling and the sweep use to
// bring an order up to date and materialize its booking.
type Reconciler struct {
	payments     *PaymentService
	materializer *BookingMaterializer
	logger       *slog.Logger
}

func NewReconciler(payments *PaymentService, materializer *BookingMaterializer, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		payments:     payments,
		materializer: materializer,
		logger:       logger,
	}
}

// ReconcilePayment asks the gateway for the order's status.
func (r *Reconciler) ReconcilePayment(ctx context.Context, merchantOrderID, trigger string) (*ReconcileResult, error) {
	check, err := r.payments.CheckPaymentStatus(ctx, merchantOrderID, trigger)
	if err != nil {
		return nil, err
	}
	return r.finish(ctx, check, trigger), nil
}

// ReconcileWithStatus applies a status the gateway pushed to us.
func (r *Reconciler) ReconcileWithStatus(ctx context.Context, status *application.GatewayStatus, trigger string) (*ReconcileResult, error) {
	check, err := r.payments.ApplyGatewayStatus(ctx, status.MerchantOrderID, status, trigger)
	if err != nil {
		return nil, err
	}
	return r.finish(ctx, check, trigger), nil
}

func (r *Reconciler) finish(ctx context.Context, check *StatusCheck, trigger string) *ReconcileResult {
	result := &ReconcileResult{
		Order:      check.Order,
		Changed:    check.Changed,
		GatewayErr: check.GatewayErr,
	}
	if check.Order.Status != domain.StatusSuccess {
		return result
	}
	if check.Order.NeedsReview {
		r.logger.Warn("paid order held for manual review, booking not created",
			orderAttrs(check.Order),
			"trigger", trigger,
			"reason", derefString(check.Order.ReviewReason),
		)
		return result
	}

	result.Booking, result.MaterializeErr = r.materializer.Materialize(ctx, check.Order)
	if errors.Is(result.MaterializeErr, domain.ErrBookingMismatch) {
		if err := r.payments.FlagForReview(ctx, check.Order, result.MaterializeErr.Error()); err != nil {
			r.logger.Error("failed to flag order for review", orderAttrs(check.Order), "error", err)
			return result
		}
		result.MaterializeErr = nil
	}
	return result
}
