package testhelpers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/domain"
	"github.com/DanielPopoola/okpuja-payments/internal/infrastructure/persistence/postgres"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// CreateUser inserts a customer with a unique email.
func CreateUser(t *testing.T, ctx context.Context, db *postgres.DB) *domain.User {
	id := "user-" + uuid.NewString()[:8]
	user := &domain.User{
		ID:    id,
		Email: id + "@example.com",
		Name:  "Asha Verma",
		Phone: "9876543210",
	}
	require.NoError(t, postgres.NewCatalogRepository(db).CreateUser(ctx, user))
	return user
}

func CreateAddress(t *testing.T, ctx context.Context, db *postgres.DB, userID string, isDefault bool) *domain.Address {
	address := &domain.Address{
		ID:           "addr-" + uuid.NewString()[:8],
		UserID:       userID,
		AddressLine1: "12 Temple Road",
		City:         "Bhubaneswar",
		State:        "Odisha",
		PostalCode:   "751001",
		IsDefault:    isDefault,
	}
	require.NoError(t, postgres.NewCatalogRepository(db).CreateAddress(ctx, address))
	return address
}

// CreateCart inserts an ACTIVE puja cart for the user.
func CreateCart(t *testing.T, ctx context.Context, db *postgres.DB, userID, cartID, selectedTime string, totalPrice int64) *domain.Cart {
	now := time.Now().UTC()
	cart := &domain.Cart{
		ID:           uuid.NewString(),
		CartID:       cartID,
		UserID:       userID,
		ServiceType:  domain.ServicePuja,
		ServiceName:  "Satyanarayan Puja",
		SelectedDate: time.Date(2030, time.March, 14, 0, 0, 0, 0, time.UTC),
		SelectedTime: selectedTime,
		Status:       domain.CartActive,
		TotalPrice:   totalPrice,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, postgres.NewCartRepository(db).Create(ctx, nil, cart))
	return cart
}

func CreateAstrologyService(t *testing.T, ctx context.Context, db *postgres.DB, price int64) *domain.AstrologyService {
	service := &domain.AstrologyService{
		ID:       "astro-" + uuid.NewString()[:8],
		Title:    "Kundli Reading",
		Price:    price,
		IsActive: true,
	}
	require.NoError(t, postgres.NewCatalogRepository(db).CreateAstrologyService(ctx, service))
	return service
}

// OrderOption tweaks an order before it is stored.
type OrderOption func(*domain.PaymentOrder)

func WithStatus(status domain.OrderStatus) OrderOption {
	return func(o *domain.PaymentOrder) {
		o.Status = status
		if status == domain.StatusInitiated {
			url := "https://mercury-uat.phonepe.com/transact/" + o.MerchantOrderID
			o.CheckoutURL = &url
		}
	}
}

func WithCart(cartID string) OrderOption {
	return func(o *domain.PaymentOrder) {
		o.CartID = &cartID
		o.Metadata = o.Metadata.With(domain.MetaCartID, cartID)
	}
}

func WithMetadata(m domain.Metadata) OrderOption {
	return func(o *domain.PaymentOrder) {
		o.Metadata = m
	}
}

func WithRetryCount(n int) OrderOption {
	return func(o *domain.PaymentOrder) {
		o.RetryCount = n
	}
}

// CreatedAt backdates the order and moves its deadline with it.
func CreatedAt(at time.Time) OrderOption {
	return func(o *domain.PaymentOrder) {
		o.CreatedAt = at.UTC()
		o.UpdatedAt = at.UTC()
		expires := at.UTC().Add(time.Duration(o.TimeoutMinutes) * time.Minute)
		o.ExpiresAt = &expires
	}
}

// CreateOrder stores a PENDING order with the default 5 minute, 3 retry policy.
func CreateOrder(t *testing.T, ctx context.Context, db *postgres.DB, userID string, amount int64, opts ...OrderOption) *domain.PaymentOrder {
	order, err := domain.NewPaymentOrder(uuid.NewString(), domain.NewOrderParams{
		MerchantOrderID: domain.NewMerchantOrderID("OKPUJA", domain.OrderKindCart),
		UserID:          userID,
		Amount:          amount,
		Description:     "test order",
		Policy:          domain.Policy{TimeoutMinutes: 5, MaxRetryAttempts: 3},
	}, time.Now())
	require.NoError(t, err)

	for _, opt := range opts {
		opt(order)
	}
	require.NoError(t, postgres.NewPaymentOrderRepository(db).Create(ctx, nil, order))
	return order
}

// AstrologyRequest returns a complete booking form for the service and user.
func AstrologyRequest(serviceID, userID string) domain.AstrologyBookingRequest {
	return domain.AstrologyBookingRequest{
		ServiceID:           serviceID,
		UserID:              userID,
		Language:            "Hindi",
		PreferredDate:       "2030-03-14",
		PreferredTime:       "10:30",
		BirthPlace:          "Puri",
		BirthDate:           "1990-06-01",
		BirthTime:           "04:15:00",
		Gender:              "female",
		Questions:           "Career",
		ContactEmail:        "asha@example.com",
		ContactPhone:        "9876543210",
		FrontendRedirectURL: "https://astro.okpuja.com/",
	}
}

// GatewayPayload builds the raw body the gateway would send for an order.
func GatewayPayload(t *testing.T, merchantOrderID, state string, amount int64) json.RawMessage {
	raw, err := json.Marshal(map[string]any{
		"merchantOrderId": merchantOrderID,
		"state":           state,
		"amount":          amount,
	})
	require.NoError(t, err)
	return raw
}
