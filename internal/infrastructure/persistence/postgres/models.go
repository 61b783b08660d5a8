package postgres

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// PaymentOrderModel mirrors a payment_orders row.
type PaymentOrderModel struct {
	ID                   string
	MerchantOrderID      string
	UserID               string
	CartID               *string
	Amount               int64
	Currency             string
	PaymentMethod        string
	Description          string
	Status               string
	Metadata             []byte
	CheckoutURL          *string
	GatewayOrderID       *string
	GatewayTransactionID *string
	GatewayResponse      []byte
	TimeoutMinutes       int
	MaxRetryAttempts     int
	RetryCount           int
	RetriedAt            []time.Time
	NeedsReview          bool
	ReviewReason         *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
	ExpiresAt            *time.Time
	CompletedAt          *time.Time
}

type RefundModel struct {
	ID               string
	PaymentOrderID   string
	MerchantRefundID string
	Amount           int64
	Reason           string
	Status           string
	GatewayRefundID  *string
	GatewayResponse  []byte
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CompletedAt      *time.Time
}

type BookingModel struct {
	ID              string
	BookID          string
	UserID          string
	CartID          string
	PaymentOrderID  string
	MerchantOrderID string
	SelectedDate    time.Time
	SelectedTime    pgtype.Time
	AddressID       *string
	Status          string
	CreatedAt       time.Time
}

type AstrologyBookingModel struct {
	ID              string
	AstroBookID     string
	PaymentOrderID  string
	MerchantOrderID string
	UserID          string
	ServiceID       string
	Language        string
	PreferredDate   time.Time
	PreferredTime   pgtype.Time
	BirthPlace      string
	BirthDate       time.Time
	BirthTime       pgtype.Time
	Gender          string
	Questions       string
	ContactEmail    string
	ContactPhone    string
	Status          string
	PaymentInfo     []byte
	CreatedAt       time.Time
}
