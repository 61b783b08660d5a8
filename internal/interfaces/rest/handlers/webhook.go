package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/DanielPopoola/okpuja-payments/internal/domain"
	"github.com/DanielPopoola/okpuja-payments/internal/infrastructure/phonepe"
	"github.com/DanielPopoola/okpuja-payments/internal/interfaces/rest"
)

const maxWebhookBytes = 1 << 20

// PhonePeWebhook godoc
//
//	@Summary		PhonePe server-to-server callback
//	@Description	Authorization must be hex(sha256("username:password")). Redeliveries are acknowledged with 200.
//	@Tags			webhooks
//	@Accept			json
//	@Produce		json
//	@Param			Authorization	header		string	true	"SHA-256 of the configured credentials"
//	@Success		200				{object}	map[string]any
//	@Failure		400				{object}	map[string]any
//	@Failure		401				{object}	map[string]any
//	@Failure		404				{object}	map[string]any
//	@Router			/payments/webhook/phonepe/ [post]
func (h *Handlers) PhonePeWebhook(w http.ResponseWriter, r *http.Request) {
	if !phonepe.VerifyWebhookAuthorization(r.Header.Get("Authorization"), h.webhook.Username, h.webhook.Password) {
		h.logger.Warn("webhook rejected: bad authorization", "remote_addr", r.RemoteAddr)
		rest.WriteMessage(w, http.StatusUnauthorized, false, "unauthorized")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		rest.WriteMessage(w, http.StatusBadRequest, false, "could not read body")
		return
	}
	event, err := phonepe.ParseWebhook(body)
	if err != nil {
		h.logger.Warn("webhook rejected: unparseable body", "error", err)
		rest.WriteMessage(w, http.StatusBadRequest, false, err.Error())
		return
	}

	outcome, err := h.svc.Webhooks.Process(r.Context(), event)
	switch {
	case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrRefundNotFound):
		rest.WriteMessage(w, http.StatusNotFound, false, err.Error())
		return
	case err != nil:
		h.logger.Error("webhook processing failed", "event", event.Event, "error", err)
		rest.WriteMessage(w, http.StatusInternalServerError, false, "processing failed")
		return
	}

	message := "processed"
	switch {
	case outcome.Ignored:
		message = "ignored"
	case outcome.Duplicate:
		message = "already processed"
	}
	rest.WriteMessage(w, http.StatusOK, true, message)
}
