package domain

import "time"

type CartStatus string

const (
	CartActive    CartStatus = "ACTIVE"
	CartInactive  CartStatus = "INACTIVE"
	CartConverted CartStatus = "CONVERTED"
	CartAbandoned CartStatus = "ABANDONED"
)

type ServiceType string

const (
	ServicePuja      ServiceType = "PUJA"
	ServiceAstrology ServiceType = "ASTROLOGY"
)

type Cart struct {
	ID           string
	CartID       string
	UserID       string
	ServiceType  ServiceType
	ServiceName  string
	SelectedDate time.Time
	SelectedTime string
	Status       CartStatus
	TotalPrice   int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingRejected  BookingStatus = "REJECTED"
	BookingFailed    BookingStatus = "FAILED"
	BookingCompleted BookingStatus = "COMPLETED"
)

// Booking is a puja booking materialized from a paid cart.
type Booking struct {
	ID              string
	BookID          string
	UserID          string
	CartID          string
	PaymentOrderID  string
	MerchantOrderID string
	SelectedDate    time.Time
	SelectedTime    TimeOfDay
	AddressID       *string
	Status          BookingStatus
	CreatedAt       time.Time
}

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// PaymentAudit is the snapshot of the payment embedded in an astrology booking.
type PaymentAudit struct {
	MerchantOrderID      string     `json:"merchant_order_id"`
	Amount               int64      `json:"amount"`
	GatewayTransactionID string     `json:"gateway_transaction_id,omitempty"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
}

type AstrologyBooking struct {
	ID              string
	AstroBookID     string
	PaymentOrderID  string
	MerchantOrderID string
	UserID          string
	ServiceID       string
	Language        string
	PreferredDate   time.Time
	PreferredTime   TimeOfDay
	BirthPlace      string
	BirthDate       time.Time
	BirthTime       TimeOfDay
	Gender          Gender
	Questions       string
	ContactEmail    string
	ContactPhone    string
	Status          BookingStatus
	Payment         PaymentAudit
	CreatedAt       time.Time
}

type User struct {
	ID      string
	Email   string
	Name    string
	Phone   string
	IsStaff bool
}

type Address struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	AddressLine1 string `json:"address_line1"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	IsDefault    bool   `json:"is_default"`
}

type AstrologyService struct {
	ID       string
	Title    string
	Price    int64
	IsActive bool
}
