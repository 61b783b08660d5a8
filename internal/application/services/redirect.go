package services

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/config"
	"github.com/DanielPopoola/okpuja-payments/internal/domain"
	"github.com/DanielPopoola/okpuja-payments/internal/infrastructure/persistence/postgres"
)

// orderIDParams are the query parameters the gateway has been seen to put the
// merchant order id in, most specific first.
var orderIDParams = []string{
	"merchantOrderId",
	"merchant_order_id",
	"merchantTransactionId",
	"orderId",
	"order_id",
	"transactionId",
}

var transactionIDParams = []string{"transactionId", "transaction_id", "paymentId"}

// RedirectRequest is what the browser brought back from the gateway. UserID
// is empty for anonymous requests.
type RedirectRequest struct {
	Query  url.Values
	UserID string
}

// RedirectResolver finds the order a gateway redirect belongs to, reconciles
// it and picks the frontend page to send the browser to. It never fails: any
// problem ends on the generic success page, where the frontend polls for the
// authoritative status.
type RedirectResolver struct {
	orderRepo  *postgres.PaymentOrderRepository
	reconciler *Reconciler
	cfg        config.RedirectConfig
	matcher    *domain.MerchantOrderIDMatcher
	now        func() time.Time
	logger     *slog.Logger
}

func NewRedirectResolver(
	orderRepo *postgres.PaymentOrderRepository,
	reconciler *Reconciler,
	cfg config.RedirectConfig,
	orderPrefix string,
	logger *slog.Logger,
	opts ...Option,
) *RedirectResolver {
	o := applyOptions(opts)
	return &RedirectResolver{
		orderRepo:  orderRepo,
		reconciler: reconciler,
		cfg:        cfg,
		matcher:    domain.NewMerchantOrderIDMatcher(orderPrefix),
		now:        o.now,
		logger:     logger,
	}
}

// GenericURL is the success page without any order context.
func (r *RedirectResolver) GenericURL() string {
	return withQuery(r.cfg.SuccessURL, "status", "completed")
}

func (r *RedirectResolver) Resolve(ctx context.Context, req RedirectRequest) string {
	order, source := r.findOrder(ctx, req)
	if order == nil {
		r.logger.Warn("redirect without a resolvable order", "params", req.Query.Encode())
		return r.GenericURL()
	}
	r.logger.Info("redirect resolved order", "merchant_order_id", order.MerchantOrderID, "source", source)

	result, err := r.reconciler.ReconcilePayment(ctx, order.MerchantOrderID, TriggerRedirect)
	if err != nil {
		r.logger.Error("redirect reconciliation failed", "merchant_order_id", order.MerchantOrderID, "error", err)
		return withQuery(r.cfg.SuccessURL, "order_id", order.MerchantOrderID, "status", "unknown")
	}

	return r.destination(result, firstParam(req.Query, transactionIDParams))
}

// findOrder walks the fallback chain: explicit parameter, any parameter
// holding something shaped like an order id, the caller's latest order, and
// finally the latest order placed by anyone within the recent window.
func (r *RedirectResolver) findOrder(ctx context.Context, req RedirectRequest) (*domain.PaymentOrder, string) {
	for _, key := range orderIDParams {
		if id := strings.TrimSpace(req.Query.Get(key)); id != "" {
			if order := r.lookup(ctx, id); order != nil {
				return order, "param:" + key
			}
		}
	}

	keys := make([]string, 0, len(req.Query))
	for key := range req.Query {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		for _, value := range req.Query[key] {
			if id, ok := r.matcher.Find(strings.ToUpper(value)); ok {
				if order := r.lookup(ctx, id); order != nil {
					return order, "pattern:" + key
				}
			}
		}
	}

	if req.UserID != "" {
		order, err := r.orderRepo.FindLatestByUser(ctx, req.UserID)
		if err == nil {
			return order, "user"
		}
		r.logNotFound("latest user order", err)
	}

	since := r.now().Add(-r.cfg.RecentOrderWindow)
	order, err := r.orderRepo.FindLatestSince(ctx, since)
	if err == nil {
		return order, "recent"
	}
	r.logNotFound("recent order", err)
	return nil, ""
}

func (r *RedirectResolver) lookup(ctx context.Context, merchantOrderID string) *domain.PaymentOrder {
	order, err := r.orderRepo.FindByMerchantOrderID(ctx, merchantOrderID)
	if err != nil {
		r.logNotFound("order "+merchantOrderID, err)
		return nil
	}
	return order
}

func (r *RedirectResolver) logNotFound(what string, err error) {
	if errors.Is(err, domain.ErrOrderNotFound) {
		return
	}
	r.logger.Error("redirect lookup failed", "lookup", what, "error", err)
}

func (r *RedirectResolver) destination(result *ReconcileResult, transactionID string) string {
	order := result.Order
	if transactionID == "" && order.GatewayTransactionID != nil {
		transactionID = *order.GatewayTransactionID
	}
	bookingRef := result.Booking.Reference()

	if order.IsAstrology() {
		base := strings.TrimRight(order.Metadata.String(domain.MetaFrontendRedirectURL), "/")
		if base == "" {
			base = strings.TrimRight(r.cfg.AstrologyBaseURL, "/")
		}
		switch order.Status {
		case domain.StatusSuccess:
			if bookingRef != "" {
				return withQuery(base+"/astro-booking-success", "astro_book_id", bookingRef)
			}
			return withQuery(base+"/astro-booking-success", "merchant_order_id", order.MerchantOrderID)
		case domain.StatusFailed, domain.StatusCancelled, domain.StatusExpired:
			return withQuery(base+"/astro-booking-failed",
				"merchant_order_id", order.MerchantOrderID,
				"reason", strings.ToLower(string(order.Status)))
		}
		return withQuery(strings.TrimRight(r.cfg.FrontendBaseURL, "/")+"/payment/pending", "order_id", order.MerchantOrderID)
	}

	switch order.Status {
	case domain.StatusSuccess:
		if bookingRef != "" {
			return withQuery(r.cfg.SuccessURL,
				"book_id", bookingRef,
				"order_id", order.MerchantOrderID,
				"transaction_id", transactionID)
		}
		return withQuery(r.cfg.SuccessURL,
			"order_id", order.MerchantOrderID,
			"transaction_id", transactionID,
			"status", "no_booking")
	case domain.StatusFailed, domain.StatusCancelled, domain.StatusExpired:
		return withQuery(r.cfg.FailureURL,
			"order_id", order.MerchantOrderID,
			"transaction_id", transactionID,
			"reason", strings.ToLower(string(order.Status)))
	}
	return withQuery(strings.TrimRight(r.cfg.FrontendBaseURL, "/")+"/payment/pending",
		"order_id", order.MerchantOrderID,
		"transaction_id", transactionID)
}

func firstParam(q url.Values, keys []string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			return v
		}
	}
	return ""
}

// withQuery appends key/value pairs to base, keeping any query it already has.
func withQuery(base string, kv ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	for i := 0; i+1 < len(kv); i += 2 {
		q.Set(kv[i], kv[i+1])
	}
	u.RawQuery = q.Encode()
	return u.String()
}
