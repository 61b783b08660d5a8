// Package domain holds the payment order lifecycle and the bookings it materializes into.
package domain

import (
	"encoding/json"
	"slices"
	"time"
)

// OrderStatus represents the current state of a payment order in its lifecycle
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusInitiated OrderStatus = "INITIATED"
	StatusSuccess   OrderStatus = "SUCCESS"
	StatusFailed    OrderStatus = "FAILED"
	StatusCancelled OrderStatus = "CANCELLED"
	StatusExpired   OrderStatus = "EXPIRED"
)

// TerminalStatuses are never overwritten once stored.
var TerminalStatuses = []OrderStatus{StatusSuccess, StatusFailed, StatusCancelled}

const (
	CurrencyINR          = "INR"
	PaymentMethodPhonePe = "PHONEPE"
)

// Policy is the checkout timeout and retry budget stamped on an order at creation.
type Policy struct {
	TimeoutMinutes   int
	MaxRetryAttempts int
}

func (p Policy) Timeout() time.Duration {
	return time.Duration(p.TimeoutMinutes) * time.Minute
}

type PaymentOrder struct {
	ID              string
	MerchantOrderID string
	UserID          string
	CartID          *string
	Amount          int64
	Currency        string
	PaymentMethod   string
	Description     string
	Status          OrderStatus
	Metadata        Metadata

	CheckoutURL          *string
	GatewayOrderID       *string
	GatewayTransactionID *string
	GatewayResponse      json.RawMessage

	TimeoutMinutes   int
	MaxRetryAttempts int
	RetryCount       int
	RetriedAt        []time.Time

	NeedsReview  bool
	ReviewReason *string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	ExpiresAt   *time.Time
	CompletedAt *time.Time
}

type NewOrderParams struct {
	MerchantOrderID string
	UserID          string
	CartID          *string
	Amount          int64
	Description     string
	Metadata        Metadata
	Policy          Policy
}

func NewPaymentOrder(id string, params NewOrderParams, now time.Time) (*PaymentOrder, error) {
	if id == "" {
		return nil, NewMissingRequiredFieldError("id")
	}
	if params.MerchantOrderID == "" {
		return nil, NewMissingRequiredFieldError("merchant_order_id")
	}
	if params.UserID == "" {
		return nil, NewMissingRequiredFieldError("user_id")
	}
	if params.Amount <= 0 {
		return nil, NewInvalidAmountError(params.Amount)
	}

	metadata := params.Metadata
	if metadata == nil {
		metadata = Metadata{}
	}

	now = NormalizeTimestamp(now)
	expiresAt := now.Add(params.Policy.Timeout())

	return &PaymentOrder{
		ID:               id,
		MerchantOrderID:  params.MerchantOrderID,
		UserID:           params.UserID,
		CartID:           params.CartID,
		Amount:           params.Amount,
		Currency:         CurrencyINR,
		PaymentMethod:    PaymentMethodPhonePe,
		Description:      params.Description,
		Status:           StatusPending,
		Metadata:         metadata,
		TimeoutMinutes:   params.Policy.TimeoutMinutes,
		MaxRetryAttempts: params.Policy.MaxRetryAttempts,
		CreatedAt:        now,
		UpdatedAt:        now,
		ExpiresAt:        &expiresAt,
	}, nil
}

// Initiate records the checkout session handed out by the gateway.
func (o *PaymentOrder) Initiate(checkoutURL, gatewayOrderID string, raw json.RawMessage) error {
	if err := o.transition(StatusInitiated); err != nil {
		return err
	}
	o.CheckoutURL = &checkoutURL
	if gatewayOrderID != "" {
		o.GatewayOrderID = &gatewayOrderID
	}
	o.GatewayResponse = raw
	return nil
}

// Complete marks the order paid.
func (o *PaymentOrder) Complete(transactionID string, completedAt time.Time, raw json.RawMessage) error {
	if err := o.transition(StatusSuccess); err != nil {
		return err
	}
	if transactionID != "" {
		o.GatewayTransactionID = &transactionID
	}
	completedAt = NormalizeTimestamp(completedAt)
	o.CompletedAt = &completedAt
	if raw != nil {
		o.GatewayResponse = raw
	}
	return nil
}

// Fail stores the failure payload alongside the FAILED status.
func (o *PaymentOrder) Fail(raw json.RawMessage) error {
	if err := o.transition(StatusFailed); err != nil {
		return err
	}
	if raw != nil {
		o.GatewayResponse = raw
	}
	return nil
}

func (o *PaymentOrder) Cancel() error {
	return o.transition(StatusCancelled)
}

// MarkExpired flags a PENDING order whose checkout window has closed.
func (o *PaymentOrder) MarkExpired(now time.Time) error {
	if !o.IsExpired(now) {
		return NewInvalidTransitionError(o.Status, StatusExpired)
	}
	if err := o.transition(StatusExpired); err != nil {
		return err
	}
	o.Metadata = o.Metadata.With("expired_at", NormalizeTimestamp(now).Format(time.RFC3339))
	return nil
}

// PrepareRetry moves the order back to PENDING with a fresh checkout window.
// The checkout URL is cleared until the gateway issues a new one.
func (o *PaymentOrder) PrepareRetry(now time.Time) error {
	if o.Status != StatusPending && o.Status != StatusInitiated {
		return NewInvalidTransitionError(o.Status, StatusPending)
	}
	if o.IsExpired(now) {
		return NewOrderExpiredError(o.MerchantOrderID)
	}
	if o.RetryCount >= o.MaxRetryAttempts {
		return NewRetryLimitExceededError(o.MerchantOrderID, o.RetryCount)
	}

	now = NormalizeTimestamp(now)
	expiresAt := now.Add(o.timeout())

	o.Status = StatusPending
	o.RetryCount++
	o.RetriedAt = append(o.RetriedAt, now)
	o.ExpiresAt = &expiresAt
	o.CheckoutURL = nil
	return nil
}

// FlagForReview marks the order for manual reconciliation without touching its status.
func (o *PaymentOrder) FlagForReview(reason string) {
	o.NeedsReview = true
	o.ReviewReason = &reason
}

// Deadline is the instant the checkout window closes.
func (o *PaymentOrder) Deadline() time.Time {
	if o.ExpiresAt != nil {
		return NormalizeTimestamp(*o.ExpiresAt)
	}
	return NormalizeTimestamp(o.CreatedAt).Add(o.timeout())
}

// IsExpired is true once now has reached the deadline.
func (o *PaymentOrder) IsExpired(now time.Time) bool {
	return !NormalizeTimestamp(now).Before(o.Deadline())
}

func (o *PaymentOrder) CanRetry(now time.Time) bool {
	return !o.IsExpired(now) && o.RetryCount < o.MaxRetryAttempts
}

// RemainingTime never goes below zero.
func (o *PaymentOrder) RemainingTime(now time.Time) time.Duration {
	remaining := o.Deadline().Sub(NormalizeTimestamp(now))
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (o *PaymentOrder) IsTerminal() bool {
	return slices.Contains(TerminalStatuses, o.Status)
}

func (o *PaymentOrder) IsAstrology() bool {
	return o.Metadata.BookingType() == BookingTypeAstrology
}

// BookingCartID prefers the linked cart column and falls back to metadata.
func (o *PaymentOrder) BookingCartID() string {
	if o.CartID != nil && *o.CartID != "" {
		return *o.CartID
	}
	return o.Metadata.String(MetaCartID)
}

func (o *PaymentOrder) timeout() time.Duration {
	return Policy{TimeoutMinutes: o.TimeoutMinutes}.Timeout()
}

func (o *PaymentOrder) transition(target OrderStatus) error {
	if err := o.canTransitionTo(target); err != nil {
		return err
	}
	o.Status = target
	return nil
}

func (o *PaymentOrder) canTransitionTo(target OrderStatus) error {
	switch o.Status {
	case StatusPending:
		return o.allow(target, StatusInitiated, StatusSuccess, StatusFailed, StatusExpired, StatusCancelled)
	case StatusInitiated:
		return o.allow(target, StatusSuccess, StatusFailed, StatusPending, StatusCancelled)
	case StatusExpired:
		return o.allow(target, StatusSuccess, StatusFailed, StatusCancelled)
	}
	return NewInvalidTransitionError(o.Status, target)
}

func (o *PaymentOrder) allow(target OrderStatus, allowed ...OrderStatus) error {
	if slices.Contains(allowed, target) {
		return nil
	}
	return NewInvalidTransitionError(o.Status, target)
}
