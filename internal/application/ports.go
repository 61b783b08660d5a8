package application

import (
	"context"
	"encoding/json"
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/domain"
)

// GatewayClient is the port for the external payment gateway. Implementations
// never retry; retry policy belongs to the callers.
type GatewayClient interface {
	CreatePaymentURL(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)
	CheckStatus(ctx context.Context, merchantOrderID string) (*GatewayStatus, error)
	CreateRefund(ctx context.Context, req GatewayRefundRequest) (*GatewayRefundResult, error)
	CheckRefundStatus(ctx context.Context, merchantRefundID string) (*GatewayRefundStatus, error)
}

// Notifier enqueues customer and staff emails. Delivery happens out of process.
type Notifier interface {
	BookingConfirmed(ctx context.Context, n BookingNotification) error
	AstrologyBookingConfirmed(ctx context.Context, n AstrologyNotification) error
	AstrologyAdminAlert(ctx context.Context, n AstrologyNotification) error
}

// GatewayState is the provider's order state normalized to three values.
type GatewayState string

const (
	GatewayCompleted GatewayState = "COMPLETED"
	GatewayFailed    GatewayState = "FAILED"
	GatewayPending   GatewayState = "PENDING"
)

// NormalizeGatewayState maps any unknown provider state to PENDING so it never
// changes local status.
func NormalizeGatewayState(raw string) GatewayState {
	switch GatewayState(raw) {
	case GatewayCompleted:
		return GatewayCompleted
	case GatewayFailed:
		return GatewayFailed
	default:
		return GatewayPending
	}
}

type CheckoutRequest struct {
	MerchantOrderID string
	Amount          int64
	RedirectURL     string
	Timeout         time.Duration
	Message         string
	UDF             map[string]string
}

// CheckoutResult reports a non-2xx response as Success=false instead of an error.
type CheckoutResult struct {
	Success        bool
	PaymentURL     string
	GatewayOrderID string
	StatusCode     int
	ErrorCode      string
	Message        string
	Raw            json.RawMessage
}

type GatewayStatus struct {
	MerchantOrderID string
	GatewayOrderID  string
	State           GatewayState
	TransactionID   string
	Amount          int64
	CompletedAt     time.Time
	Raw             json.RawMessage
}

type GatewayRefundRequest struct {
	MerchantRefundID        string
	OriginalMerchantOrderID string
	Amount                  int64
}

type GatewayRefundResult struct {
	Success         bool
	GatewayRefundID string
	State           GatewayState
	StatusCode      int
	Message         string
	Raw             json.RawMessage
}

type GatewayRefundStatus struct {
	MerchantRefundID string
	GatewayRefundID  string
	State            GatewayState
	Amount           int64
	Raw              json.RawMessage
}

type BookingNotification struct {
	BookID          string          `json:"book_id"`
	UserID          string          `json:"user_id"`
	Email           string          `json:"email"`
	Name            string          `json:"name"`
	ServiceName     string          `json:"service_name"`
	SelectedDate    string          `json:"selected_date"`
	SelectedTime    string          `json:"selected_time"`
	MerchantOrderID string          `json:"merchant_order_id"`
	Amount          int64           `json:"amount"`
	AmountRupees    string          `json:"amount_rupees"`
	Address         *domain.Address `json:"address,omitempty"`
}

type AstrologyNotification struct {
	AstroBookID     string `json:"astro_book_id"`
	ServiceTitle    string `json:"service_title"`
	CustomerName    string `json:"customer_name"`
	ContactEmail    string `json:"contact_email"`
	ContactPhone    string `json:"contact_phone"`
	AdminEmail      string `json:"admin_email,omitempty"`
	Language        string `json:"language"`
	PreferredDate   string `json:"preferred_date"`
	PreferredTime   string `json:"preferred_time"`
	MerchantOrderID string `json:"merchant_order_id"`
	Amount          int64  `json:"amount"`
	AmountRupees    string `json:"amount_rupees"`
}
