package handlers

import (
	"net/http"

	"github.com/DanielPopoola/okpuja-payments/internal/interfaces/rest"
)

// RunSweep godoc
//
//	@Summary	Run one stale payment sweep now
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	rest.SuccessResponse{data=worker.SweepResult}
//	@Failure	403	{object}	rest.ErrorResponse
//	@Router		/admin/payments/sweep/ [post]
func (h *Handlers) RunSweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Sweep.RunOnce(r.Context())
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteSuccess(w, http.StatusOK, result)
}

// CleanupExpired godoc
//
//	@Summary	Expire PENDING orders past their checkout window
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	rest.SuccessResponse
//	@Failure	403	{object}	rest.ErrorResponse
//	@Router		/admin/payments/cleanup/ [post]
func (h *Handlers) CleanupExpired(w http.ResponseWriter, r *http.Request) {
	expired, err := h.svc.Expiry.RunOnce(r.Context())
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteSuccess(w, http.StatusOK, map[string]int{"expired_count": expired})
}
