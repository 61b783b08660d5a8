package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/application/services"
	"github.com/DanielPopoola/okpuja-payments/internal/domain"
	"github.com/go-playground/validator"
)

const maxBodyBytes = 1 << 20

type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, SuccessResponse{Success: true, Data: data})
}

// WriteMessage writes the bare {success, message} body the webhook endpoint answers with.
func WriteMessage(w http.ResponseWriter, status int, success bool, message string) {
	writeJSON(w, status, struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}{success, message})
}

var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	return v
}

// DecodeJSON reads and validates a request body. On failure it has already
// written a 400 and returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		WriteValidationError(w, fmt.Sprintf("invalid request body: %v", err), nil)
		return false
	}

	if err := requestValidator.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			WriteValidationError(w, err.Error(), nil)
			return false
		}
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
		WriteValidationError(w, "request validation failed", details)
		return false
	}
	return true
}

type CreatePaymentRequest struct {
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Description string `json:"description" validate:"max=255"`
	RedirectURL string `json:"redirect_url" validate:"omitempty,url"`
}

type CartCheckoutRequest struct {
	CartID      string `json:"cart_id" validate:"required"`
	RedirectURL string `json:"redirect_url" validate:"omitempty,url"`
}

type AstrologyCheckoutRequest struct {
	ServiceID           string `json:"service_id" validate:"required"`
	Language            string `json:"language" validate:"required"`
	PreferredDate       string `json:"preferred_date" validate:"required"`
	PreferredTime       string `json:"preferred_time" validate:"required"`
	BirthPlace          string `json:"birth_place"`
	BirthDate           string `json:"birth_date" validate:"required"`
	BirthTime           string `json:"birth_time" validate:"required"`
	Gender              string `json:"gender" validate:"required"`
	Questions           string `json:"questions"`
	ContactEmail        string `json:"contact_email" validate:"required,email"`
	ContactPhone        string `json:"contact_phone" validate:"required"`
	FrontendRedirectURL string `json:"frontend_redirect_url" validate:"omitempty,url"`
	RedirectURL         string `json:"redirect_url" validate:"omitempty,url"`
}

func (r AstrologyCheckoutRequest) ToDomain(userID string) domain.AstrologyBookingRequest {
	return domain.AstrologyBookingRequest{
		ServiceID:           r.ServiceID,
		UserID:              userID,
		Language:            r.Language,
		PreferredDate:       r.PreferredDate,
		PreferredTime:       r.PreferredTime,
		BirthPlace:          r.BirthPlace,
		BirthDate:           r.BirthDate,
		BirthTime:           r.BirthTime,
		Gender:              r.Gender,
		Questions:           r.Questions,
		ContactEmail:        r.ContactEmail,
		ContactPhone:        r.ContactPhone,
		FrontendRedirectURL: r.FrontendRedirectURL,
	}
}

type RetryRequest struct {
	RedirectURL string `json:"redirect_url" validate:"omitempty,url"`
}

// RefundRequest amount is in paisa; zero refunds whatever has not been refunded yet.
type RefundRequest struct {
	Amount int64  `json:"amount" validate:"gte=0"`
	Reason string `json:"reason" validate:"max=255"`
}

type Payment struct {
	MerchantOrderID  string     `json:"merchant_order_id"`
	Status           string     `json:"status"`
	Amount           int64      `json:"amount"`
	AmountInRupees   string     `json:"amount_in_rupees"`
	Currency         string     `json:"currency"`
	Description      string     `json:"description,omitempty"`
	CartID           string     `json:"cart_id,omitempty"`
	PaymentURL       string     `json:"payment_url,omitempty"`
	RemainingSeconds int64      `json:"remaining_seconds"`
	CanRetry         bool       `json:"can_retry"`
	RetryCount       int        `json:"retry_count"`
	MaxRetryAttempts int        `json:"max_retry_attempts"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	NeedsReview      bool       `json:"needs_review,omitempty"`
	BookingReference string     `json:"booking_reference,omitempty"`
	Refunds          []Refund   `json:"refunds,omitempty"`
}

type Checkout struct {
	MerchantOrderID  string    `json:"merchant_order_id"`
	Status           string    `json:"status"`
	Amount           int64     `json:"amount"`
	AmountInRupees   string    `json:"amount_in_rupees"`
	PaymentURL       string    `json:"payment_url,omitempty"`
	ExpiresAt        time.Time `json:"expires_at"`
	RemainingSeconds int64     `json:"remaining_seconds"`
	RetryCount       int       `json:"retry_count"`
	MaxRetryAttempts int       `json:"max_retry_attempts"`
}

type Refund struct {
	MerchantRefundID string     `json:"merchant_refund_id"`
	Status           string     `json:"status"`
	Amount           int64      `json:"amount"`
	AmountInRupees   string     `json:"amount_in_rupees"`
	Reason           string     `json:"reason,omitempty"`
	GatewayRefundID  string     `json:"gateway_refund_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

type CartStatus struct {
	CartID        string   `json:"cart_id"`
	CartStatus    string   `json:"cart_status,omitempty"`
	BookingExists bool     `json:"booking_exists"`
	Payment       *Payment `json:"payment"`
}

func rupees(paisa int64) string {
	return domain.Paisa(paisa).Rupees().StringFixed(2)
}

func ToAPIPayment(view *services.PaymentStatusView) *Payment {
	o := view.Order
	p := &Payment{
		MerchantOrderID:  o.MerchantOrderID,
		Status:           string(o.Status),
		Amount:           o.Amount,
		AmountInRupees:   rupees(o.Amount),
		Currency:         o.Currency,
		Description:      o.Description,
		PaymentURL:       view.PaymentURL,
		RemainingSeconds: view.RemainingSeconds,
		CanRetry:         view.CanRetry,
		RetryCount:       o.RetryCount,
		MaxRetryAttempts: o.MaxRetryAttempts,
		ExpiresAt:        o.ExpiresAt,
		CompletedAt:      o.CompletedAt,
		CreatedAt:        o.CreatedAt,
		NeedsReview:      o.NeedsReview,
		BookingReference: view.BookingReference,
	}
	if o.CartID != nil {
		p.CartID = *o.CartID
	}
	for _, r := range view.Refunds {
		p.Refunds = append(p.Refunds, ToAPIRefund(r))
	}
	return p
}

func ToAPICheckout(outcome *services.CheckoutOutcome) *Checkout {
	o := outcome.Order
	return &Checkout{
		MerchantOrderID:  o.MerchantOrderID,
		Status:           string(o.Status),
		Amount:           o.Amount,
		AmountInRupees:   rupees(o.Amount),
		PaymentURL:       outcome.PaymentURL,
		ExpiresAt:        outcome.ExpiresAt,
		RemainingSeconds: outcome.RemainingSeconds,
		RetryCount:       o.RetryCount,
		MaxRetryAttempts: o.MaxRetryAttempts,
	}
}

func ToAPIRefund(r *domain.Refund) Refund {
	out := Refund{
		MerchantRefundID: r.MerchantRefundID,
		Status:           string(r.Status),
		Amount:           r.Amount,
		AmountInRupees:   rupees(r.Amount),
		Reason:           r.Reason,
		CreatedAt:        r.CreatedAt,
		CompletedAt:      r.CompletedAt,
	}
	if r.GatewayRefundID != nil {
		out.GatewayRefundID = *r.GatewayRefundID
	}
	return out
}

func ToAPICartStatus(view *services.CartStatusView) *CartStatus {
	return &CartStatus{
		CartID:        view.CartID,
		CartStatus:    string(view.CartStatus),
		BookingExists: view.BookingExists,
		Payment:       ToAPIPayment(view.Payment),
	}
}
