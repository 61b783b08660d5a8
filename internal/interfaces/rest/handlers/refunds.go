package handlers

import (
	"net/http"

	"github.com/DanielPopoola/okpuja-payments/internal/application/services"
	"github.com/DanielPopoola/okpuja-payments/internal/domain"
	"github.com/DanielPopoola/okpuja-payments/internal/interfaces/rest"
)

const errCodeRefundRejected = "REFUND_REJECTED"

// CreateRefund godoc
//
//	@Summary		Refund a paid order
//	@Description	Amount 0 refunds the remaining balance. 202 means the gateway has not settled it yet.
//	@Tags			refunds
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			merchant_order_id	path		string				true	"Merchant order id"
//	@Param			request				body		rest.RefundRequest	false	"Refund"
//	@Success		201					{object}	rest.SuccessResponse{data=rest.Refund}
//	@Success		202					{object}	rest.SuccessResponse{data=rest.Refund}
//	@Failure		400					{object}	rest.ErrorResponse
//	@Failure		404					{object}	rest.ErrorResponse
//	@Failure		502					{object}	rest.ErrorResponse
//	@Router			/payments/refund/{merchant_order_id}/ [post]
func (h *Handlers) CreateRefund(w http.ResponseWriter, r *http.Request) {
	merchantOrderID, err := pathParam(r, "merchant_order_id")
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	var req rest.RefundRequest
	if !rest.DecodeJSON(w, r, &req) {
		return
	}

	p := principal(r)
	outcome, err := h.svc.Refunds.CreateRefund(r.Context(), services.RefundCommand{
		MerchantOrderID: merchantOrderID,
		UserID:          p.UserID,
		IsStaff:         p.IsStaff,
		Amount:          req.Amount,
		Reason:          req.Reason,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	refund := rest.ToAPIRefund(outcome.Refund)
	switch {
	case outcome.Refund.Status == domain.RefundFailed:
		rest.WriteFailure(w, http.StatusBadGateway, errCodeRefundRejected, outcome.Reason, refund)
	case outcome.Refund.Status == domain.RefundProcessing:
		rest.WriteSuccess(w, http.StatusAccepted, refund)
	default:
		rest.WriteSuccess(w, http.StatusCreated, refund)
	}
}

// RefundStatus godoc
//
//	@Summary	Refund status
//	@Tags		refunds
//	@Produce	json
//	@Security	BearerAuth
//	@Param		merchant_refund_id	path		string	true	"Merchant refund id"
//	@Success	200					{object}	rest.SuccessResponse{data=rest.Refund}
//	@Failure	404					{object}	rest.ErrorResponse
//	@Router		/payments/refunds/{merchant_refund_id}/status/ [get]
func (h *Handlers) RefundStatus(w http.ResponseWriter, r *http.Request) {
	merchantRefundID, err := pathParam(r, "merchant_refund_id")
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	p := principal(r)
	refund, err := h.svc.Refunds.RefundStatus(r.Context(), merchantRefundID, p.UserID, p.IsStaff)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteSuccess(w, http.StatusOK, rest.ToAPIRefund(refund))
}
