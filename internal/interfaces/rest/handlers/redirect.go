package handlers

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/DanielPopoola/okpuja-payments/internal/application/services"
)

// PaymentRedirect godoc
//
//	@Summary		Browser return from the PhonePe checkout page
//	@Description	Always answers 302. The destination depends on the reconciled payment state.
//	@Tags			payments
//	@Param			merchantOrderId	query	string	false	"Merchant order id, under any of the names PhonePe uses"
//	@Success		302
//	@Router			/payments/redirect/ [get]
//	@Router			/payments/redirect/ [post]
func (h *Handlers) PaymentRedirect(w http.ResponseWriter, r *http.Request) {
	generic := h.svc.Redirects.GenericURL()
	target := generic
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("redirect handler panicked",
				"panic", fmt.Sprint(rec),
				"stack", string(debug.Stack()),
			)
			target = generic
		}
		http.Redirect(w, r, target, http.StatusFound)
	}()

	if err := r.ParseForm(); err != nil {
		h.logger.Warn("redirect with unreadable form", "error", err)
	}
	target = h.svc.Redirects.Resolve(r.Context(), services.RedirectRequest{
		Query:  r.Form,
		UserID: principal(r).UserID,
	})
}
