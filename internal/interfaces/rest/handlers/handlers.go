// Package handlers exposes the payment services over HTTP.
//
//	@title			OKPUJA Payments API
//	@version		1.0
//	@description	PhonePe checkout, reconciliation and booking confirmation.
//	@BasePath		/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/okpuja-payments/internal/application"
	"github.com/DanielPopoola/okpuja-payments/internal/application/services"
	"github.com/DanielPopoola/okpuja-payments/internal/config"
	"github.com/DanielPopoola/okpuja-payments/internal/interfaces/rest"
	"github.com/DanielPopoola/okpuja-payments/internal/interfaces/rest/middleware"
	"github.com/DanielPopoola/okpuja-payments/internal/worker"
	"github.com/oapi-codegen/runtime"
)

// Services groups what the handlers call into.
type Services struct {
	Payments  *services.PaymentService
	Checkout  *services.CheckoutService
	Query     *services.QueryService
	Refunds   *services.RefundService
	Webhooks  *services.WebhookService
	Redirects *services.RedirectResolver
	Sweep     *worker.SweepWorker
	Expiry    *worker.ExpirationWorker
}

type Handlers struct {
	svc     Services
	webhook config.WebhookConfig
	logger  *slog.Logger
}

func NewHandlers(svc Services, webhook config.WebhookConfig, logger *slog.Logger) *Handlers {
	return &Handlers{
		svc:     svc,
		webhook: webhook,
		logger:  logger,
	}
}

// Register mounts every route on mux.
func (h *Handlers) Register(mux *http.ServeMux, auth *middleware.Authenticator) {
	user := func(f http.HandlerFunc) http.Handler { return auth.Required(f) }

	mux.Handle("POST /payments/{$}", user(h.CreatePayment))
	mux.Handle("POST /payments/cart/{$}", user(h.CheckoutCart))
	mux.Handle("POST /payments/astrology/{$}", user(h.CheckoutAstrology))
	mux.Handle("GET /payments/status/{merchant_order_id}/{$}", user(h.PaymentStatus))
	mux.Handle("POST /payments/retry/{merchant_order_id}/{$}", user(h.RetryPayment))
	mux.Handle("GET /payments/cart/{cart_id}/status/{$}", user(h.CartPaymentStatus))
	mux.Handle("POST /payments/refund/{merchant_order_id}/{$}", user(h.CreateRefund))
	mux.Handle("GET /payments/refunds/{merchant_refund_id}/status/{$}", user(h.RefundStatus))

	mux.HandleFunc("POST /payments/webhook/phonepe/{$}", h.PhonePeWebhook)
	mux.Handle("GET /payments/redirect/{$}", auth.Optional(http.HandlerFunc(h.PaymentRedirect)))
	mux.Handle("POST /payments/redirect/{$}", auth.Optional(http.HandlerFunc(h.PaymentRedirect)))

	mux.Handle("POST /admin/payments/sweep/{$}", auth.Staff(http.HandlerFunc(h.RunSweep)))
	mux.Handle("POST /admin/payments/cleanup/{$}", auth.Staff(http.HandlerFunc(h.CleanupExpired)))

	mux.HandleFunc("GET /health", h.Health)
}

// principal is set by the auth middleware on every route that reads it.
func principal(r *http.Request) middleware.Principal {
	p, _ := middleware.PrincipalFrom(r.Context())
	return p
}

// pathParam binds a simple-style path segment the way generated servers do.
func pathParam(r *http.Request, name string) (string, error) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, r.PathValue(name), &value,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		return "", application.NewInvalidInputError(err)
	}
	if value == "" {
		return "", application.NewInvalidInputError(errors.New(name + " is required"))
	}
	return value, nil
}

// writeCheckout renders a checkout or retry outcome. Expected failures carry
// the order so the client can show the remaining window.
func (h *Handlers) writeCheckout(w http.ResponseWriter, outcome *services.CheckoutOutcome, err error, okStatus int) {
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	if !outcome.Success {
		rest.WriteFailure(w, outcomeStatus(outcome.Code), outcome.Code, outcome.Reason, rest.ToAPICheckout(outcome))
		return
	}
	rest.WriteSuccess(w, okStatus, rest.ToAPICheckout(outcome))
}

func outcomeStatus(code string) int {
	switch code {
	case services.OutcomeGatewayRejected:
		return http.StatusBadGateway
	case services.OutcomeOrderFinalized:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// Health godoc
//
//	@Summary	Liveness probe
//	@Tags		ops
//	@Produce	json
//	@Success	200	{object}	rest.SuccessResponse
//	@Router		/health [get]
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	rest.WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
