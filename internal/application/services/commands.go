package services

import (
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/domain"
)

type CreateOrderCommand struct {
	UserID      string
	Amount      int64
	Description string
	CartID      *string
	Kind        string
	Metadata    domain.Metadata
	RedirectURL string
}

type CartCheckoutCommand struct {
	UserID      string
	CartID      string
	RedirectURL string
}

type AstrologyCheckoutCommand struct {
	UserID      string
	Request     domain.AstrologyBookingRequest
	RedirectURL string
}

type RetryCommand struct {
	MerchantOrderID string
	UserID          string
	IsStaff         bool
	RedirectURL     string
}

// RefundCommand refunds Amount paisa. A zero Amount refunds the remaining balance.
type RefundCommand struct {
	MerchantOrderID string
	UserID          string
	IsStaff         bool
	Amount          int64
	Reason          string
}

// CheckoutOutcome is returned for checkout creation and retry. Expected
// failures, such as a rejected gateway request or an exhausted retry budget,
// come back with Success=false and a Code instead of an error.
type CheckoutOutcome struct {
	Order            *domain.PaymentOrder
	Success          bool
	PaymentURL       string
	ExpiresAt        time.Time
	RemainingSeconds int64
	Code             string
	Reason           string
}

// StatusCheck is the result of comparing a stored order with the gateway.
// GatewayErr is set when the gateway could not be asked; the order is then unchanged.
type StatusCheck struct {
	Order      *domain.PaymentOrder
	Changed    bool
	GatewayErr error
}

type RefundOutcome struct {
	Refund  *domain.Refund
	Success bool
	Reason  string
}

// Outcome codes for CheckoutOutcome.
const (
	OutcomeGatewayRejected = "GATEWAY_REJECTED"
	OutcomeOrderFinalized  = "ORDER_FINALIZED"
)
