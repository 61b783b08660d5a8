package handlers

import (
	"net/http"

	"github.com/DanielPopoola/okpuja-payments/internal/application/services"
	"github.com/DanielPopoola/okpuja-payments/internal/interfaces/rest"
)

// CreatePayment godoc
//
//	@Summary	Create a payment order and get a checkout URL
//	@Tags		payments
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		rest.CreatePaymentRequest	true	"Order"
//	@Success	201		{object}	rest.SuccessResponse{data=rest.Checkout}
//	@Failure	400		{object}	rest.ErrorResponse
//	@Failure	502		{object}	rest.ErrorResponse
//	@Router		/payments/ [post]
func (h *Handlers) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req rest.CreatePaymentRequest
	if !rest.DecodeJSON(w, r, &req) {
		return
	}

	outcome, err := h.svc.Payments.CreatePaymentOrder(r.Context(), services.CreateOrderCommand{
		UserID:      principal(r).UserID,
		Amount:      req.Amount,
		Description: req.Description,
		RedirectURL: req.RedirectURL,
	})
	h.writeCheckout(w, outcome, err, http.StatusCreated)
}

// CheckoutCart godoc
//
//	@Summary		Pay for a cart
//	@Description	Reuses the cart's live checkout session when there is one.
//	@Tags			payments
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		rest.CartCheckoutRequest	true	"Cart"
//	@Success		201		{object}	rest.SuccessResponse{data=rest.Checkout}
//	@Failure		400		{object}	rest.ErrorResponse
//	@Failure		404		{object}	rest.ErrorResponse
//	@Failure		502		{object}	rest.ErrorResponse
//	@Router			/payments/cart/ [post]
func (h *Handlers) CheckoutCart(w http.ResponseWriter, r *http.Request) {
	var req rest.CartCheckoutRequest
	if !rest.DecodeJSON(w, r, &req) {
		return
	}

	outcome, err := h.svc.Checkout.CheckoutCart(r.Context(), services.CartCheckoutCommand{
		UserID:      principal(r).UserID,
		CartID:      req.CartID,
		RedirectURL: req.RedirectURL,
	})
	h.writeCheckout(w, outcome, err, http.StatusCreated)
}

// CheckoutAstrology godoc
//
//	@Summary	Pay for an astrology consultation
//	@Tags		payments
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		rest.AstrologyCheckoutRequest	true	"Booking form"
//	@Success	201		{object}	rest.SuccessResponse{data=rest.Checkout}
//	@Failure	400		{object}	rest.ErrorResponse
//	@Failure	404		{object}	rest.ErrorResponse
//	@Failure	502		{object}	rest.ErrorResponse
//	@Router		/payments/astrology/ [post]
func (h *Handlers) CheckoutAstrology(w http.ResponseWriter, r *http.Request) {
	var req rest.AstrologyCheckoutRequest
	if !rest.DecodeJSON(w, r, &req) {
		return
	}

	userID := principal(r).UserID
	outcome, err := h.svc.Checkout.CheckoutAstrology(r.Context(), services.AstrologyCheckoutCommand{
		UserID:      userID,
		Request:     req.ToDomain(userID),
		RedirectURL: req.RedirectURL,
	})
	h.writeCheckout(w, outcome, err, http.StatusCreated)
}

// PaymentStatus godoc
//
//	@Summary		Current payment status
//	@Description	Asks the gateway first, so a paid order gets its booking even if the redirect never arrived.
//	@Tags			payments
//	@Produce		json
//	@Security		BearerAuth
//	@Param			merchant_order_id	path		string	true	"Merchant order id"
//	@Success		200					{object}	rest.SuccessResponse{data=rest.Payment}
//	@Failure		404					{object}	rest.ErrorResponse
//	@Router			/payments/status/{merchant_order_id}/ [get]
func (h *Handlers) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	merchantOrderID, err := pathParam(r, "merchant_order_id")
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	p := principal(r)
	view, err := h.svc.Query.PaymentStatus(r.Context(), merchantOrderID, p.UserID, p.IsStaff)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteSuccess(w, http.StatusOK, rest.ToAPIPayment(view))
}

// RetryPayment godoc
//
//	@Summary	Start a new checkout session for an unpaid order
//	@Tags		payments
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		merchant_order_id	path		string				true	"Merchant order id"
//	@Param		request				body		rest.RetryRequest	false	"Options"
//	@Success	200					{object}	rest.SuccessResponse{data=rest.Checkout}
//	@Failure	400					{object}	rest.ErrorResponse
//	@Failure	404					{object}	rest.ErrorResponse
//	@Failure	409					{object}	rest.ErrorResponse
//	@Router		/payments/retry/{merchant_order_id}/ [post]
func (h *Handlers) RetryPayment(w http.ResponseWriter, r *http.Request) {
	merchantOrderID, err := pathParam(r, "merchant_order_id")
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	var req rest.RetryRequest
	if !rest.DecodeJSON(w, r, &req) {
		return
	}

	p := principal(r)
	outcome, err := h.svc.Payments.RetryPayment(r.Context(), services.RetryCommand{
		MerchantOrderID: merchantOrderID,
		UserID:          p.UserID,
		IsStaff:         p.IsStaff,
		RedirectURL:     req.RedirectURL,
	})
	h.writeCheckout(w, outcome, err, http.StatusOK)
}

// CartPaymentStatus godoc
//
//	@Summary	Payment and booking status for a cart
//	@Tags		payments
//	@Produce	json
//	@Security	BearerAuth
//	@Param		cart_id	path		string	true	"Cart id"
//	@Success	200		{object}	rest.SuccessResponse{data=rest.CartStatus}
//	@Failure	404		{object}	rest.ErrorResponse
//	@Router		/payments/cart/{cart_id}/status/ [get]
func (h *Handlers) CartPaymentStatus(w http.ResponseWriter, r *http.Request) {
	cartID, err := pathParam(r, "cart_id")
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	view, err := h.svc.Query.CartPaymentStatus(r.Context(), cartID, principal(r).UserID)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteSuccess(w, http.StatusOK, rest.ToAPICartStatus(view))
}
