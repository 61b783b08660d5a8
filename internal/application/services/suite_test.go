package services_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/application"
	"github.com/DanielPopoola/okpuja-payments/internal/application/services"
	"github.com/DanielPopoola/okpuja-payments/internal/application/services/testhelpers"
	"github.com/DanielPopoola/okpuja-payments/internal/config"
	"github.com/DanielPopoola/okpuja-payments/internal/domain"
	"github.com/DanielPopoola/okpuja-payments/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/okpuja-payments/internal/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var (
	testPaymentConfig = config.PaymentConfig{
		TimeoutMinutes:    5,
		MaxRetryAttempts:  3,
		LateSuccessPolicy: config.LateSuccessFlag,
		OrderPrefix:       "OKPUJA",
	}
	testBookingConfig = config.BookingConfig{
		DefaultSlotTime:    "10:00",
		KeepConvertedCarts: 3,
		AdminEmail:         "admin@okpuja.com",
	}
	testRedirectConfig = config.RedirectConfig{
		SuccessURL:        "https://www.okpuja.com/confirmbooking",
		FailureURL:        "https://www.okpuja.com/payment/failed",
		FrontendBaseURL:   "https://www.okpuja.com",
		AstrologyBaseURL:  "https://www.okpuja.com",
		RecentOrderWindow: 10 * time.Minute,
	}
)

const testRedirectURL = "https://api.okpuja.com/payments/redirect/"

// serviceSuite wires every service against a real Postgres and mocked
// gateway and notifier. Concrete suites embed it.
type serviceSuite struct {
	suite.Suite
	testDB *testhelpers.TestDatabase

	orderRepo   *postgres.PaymentOrderRepository
	refundRepo  *postgres.RefundRepository
	cartRepo    *postgres.CartRepository
	bookingRepo *postgres.BookingRepository
	catalogRepo *postgres.CatalogRepository
	eventRepo   *postgres.WebhookEventRepository

	gateway  *mocks.MockGatewayClient
	notifier *mocks.MockNotifier

	// offset shifts the services' clock relative to the wall clock.
	offset time.Duration

	payments     *services.PaymentService
	materializer *services.BookingMaterializer
	reconciler   *services.Reconciler
	refunds      *services.RefundService
	checkout     *services.CheckoutService
	query        *services.QueryService
	redirects    *services.RedirectResolver
	webhooks     *services.WebhookService
}

func (s *serviceSuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDatabase(s.T())
	db := s.testDB.DB
	s.orderRepo = postgres.NewPaymentOrderRepository(db)
	s.refundRepo = postgres.NewRefundRepository(db)
	s.cartRepo = postgres.NewCartRepository(db)
	s.bookingRepo = postgres.NewBookingRepository(db)
	s.catalogRepo = postgres.NewCatalogRepository(db)
	s.eventRepo = postgres.NewWebhookEventRepository(db)
}

func (s *serviceSuite) TearDownSuite() {
	s.testDB.Cleanup(s.T())
}

func (s *serviceSuite) SetupTest() {
	s.testDB.CleanTables(s.T())
	s.offset = 0
	s.gateway = mocks.NewMockGatewayClient(s.T())
	s.notifier = mocks.NewMockNotifier(s.T())
	s.wire(testPaymentConfig)
}

// wire rebuilds the service graph, e.g. after changing the payment policy.
func (s *serviceSuite) wire(policy config.PaymentConfig) {
	db := s.testDB.DB
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := services.WithClock(func() time.Time { return time.Now().Add(s.offset) })

	s.payments = services.NewPaymentService(s.orderRepo, s.gateway, db, policy, testRedirectURL, logger, clock)
	s.materializer = services.NewBookingMaterializer(s.cartRepo, s.bookingRepo, s.catalogRepo, s.notifier, db, testBookingConfig, logger, clock)
	s.reconciler = services.NewReconciler(s.payments, s.materializer, logger)
	s.refunds = services.NewRefundService(s.orderRepo, s.refundRepo, s.gateway, db, logger, clock)
	s.checkout = services.NewCheckoutService(s.payments, s.orderRepo, s.cartRepo, s.catalogRepo, db, logger)
	s.query = services.NewQueryService(s.orderRepo, s.cartRepo, s.bookingRepo, s.payments, s.refunds, s.reconciler)
	s.redirects = services.NewRedirectResolver(s.orderRepo, s.reconciler, testRedirectConfig, policy.OrderPrefix, logger, clock)
	s.webhooks = services.NewWebhookService(s.eventRepo, s.reconciler, s.refunds, logger, clock)
}

func (s *serviceSuite) ctx() context.Context {
	return context.Background()
}

// expectCheckout makes the gateway hand out a checkout URL for any order.
func (s *serviceSuite) expectCheckout() *mocks.MockGatewayClient_CreatePaymentURL_Call {
	return s.gateway.EXPECT().
		CreatePaymentURL(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, req application.CheckoutRequest) (*application.CheckoutResult, error) {
			return &application.CheckoutResult{
				Success:        true,
				PaymentURL:     "https://mercury-uat.phonepe.com/transact/" + req.MerchantOrderID,
				GatewayOrderID: "OMO" + req.MerchantOrderID,
				StatusCode:     200,
				Raw:            []byte(`{"state":"PENDING"}`),
			}, nil
		})
}

func (s *serviceSuite) expectGatewayState(order *domain.PaymentOrder, state application.GatewayState) *mocks.MockGatewayClient_CheckStatus_Call {
	return s.gateway.EXPECT().
		CheckStatus(mock.Anything, order.MerchantOrderID).
		Return(gatewayStatus(order, state), nil)
}

func gatewayStatus(order *domain.PaymentOrder, state application.GatewayState) *application.GatewayStatus {
	return &application.GatewayStatus{
		MerchantOrderID: order.MerchantOrderID,
		GatewayOrderID:  "OMO" + order.MerchantOrderID,
		State:           state,
		TransactionID:   "T" + order.MerchantOrderID,
		Amount:          order.Amount,
		Raw:             []byte(`{"state":"` + string(state) + `"}`),
	}
}

func (s *serviceSuite) reload(order *domain.PaymentOrder) *domain.PaymentOrder {
	fresh, err := s.orderRepo.FindByMerchantOrderID(s.ctx(), order.MerchantOrderID)
	s.Require().NoError(err)
	return fresh
}

func (s *serviceSuite) countRows(query string, args ...any) int {
	var n int
	s.Require().NoError(s.testDB.DB.Pool.QueryRow(s.ctx(), query, args...).Scan(&n))
	return n
}
