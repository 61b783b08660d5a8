package services_test

import (
	"net/url"
	"testing"

	"github.com/DanielPopoola/okpuja-payments/internal/application"
	"github.com/DanielPopoola/okpuja-payments/internal/application/services"
	"github.com/DanielPopoola/okpuja-payments/internal/application/services/testhelpers"
	"github.com/DanielPopoola/okpuja-payments/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RedirectResolverTestSuite struct {
	serviceSuite
}

func TestRedirectResolverSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("needs a Postgres container")
	}
	suite.Run(t, new(RedirectResolverTestSuite))
}

func (s *RedirectResolverTestSuite) resolve(query url.Values, userID string) *url.URL {
	raw := s.redirects.Resolve(s.ctx(), services.RedirectRequest{Query: query, UserID: userID})
	u, err := url.Parse(raw)
	s.Require().NoError(err)
	return u
}

func (s *RedirectResolverTestSuite) cartOrder(userID, cartID string) *domain.PaymentOrder {
	testhelpers.CreateCart(s.T(), s.ctx(), s.testDB.DB, userID, cartID, "10:30 AM", 50000)
	return testhelpers.CreateOrder(s.T(), s.ctx(), s.testDB.DB, userID, 50000,
		testhelpers.WithCart(cartID),
		testhelpers.WithStatus(domain.StatusInitiated),
	)
}

func (s *RedirectResolverTestSuite) Test_ExplicitParam_PaidCartGoesToConfirmation() {
	t := s.T()
	user := testhelpers.CreateUser(t, s.ctx(), s.testDB.DB)
	order := s.cartOrder(user.ID, "C1")
	s.expectGatewayState(order, application.GatewayCompleted).Once()
	s.notifier.EXPECT().BookingConfirmed(mock.Anything, mock.Anything).Return(nil).Once()

	dest := s.resolve(url.Values{"merchantOrderId": {order.MerchantOrderID}}, "")

	assert.Equal(t, "https://www.okpuja.com/confirmbooking", dest.Scheme+"://"+dest.Host+dest.Path)
	q := dest.Query()
	assert.Regexp(t, `^BK-`, q.Get("book_id"))
	assert.Equal(t, order.MerchantOrderID, q.Get("order_id"))
	assert.Equal(t, "T"+order.MerchantOrderID, q.Get("transaction_id"))

	booking, err := s.bookingRepo.FindByCartID(s.ctx(), nil, "C1")
	require.NoError(t, err)
	assert.Equal(t, booking.BookID, q.Get("book_id"))
}

func (s *RedirectResolverTestSuite) Test_NoParam_FallsBackToCallersLatestOrder() {
	t := s.T()
	user := testhelpers.CreateUser(t, s.ctx(), s.testDB.DB)
	other := testhelpers.CreateUser(t, s.ctx(), s.testDB.DB)
	order := s.cartOrder(user.ID, "C1")
	s.cartOrder(other.ID, "C2")
	s.expectGatewayState(order, application.GatewayCompleted).Once()
	s.notifier.EXPECT().BookingConfirmed(mock.Anything, mock.Anything).Return(nil).Once()

	dest := s.resolve(url.Values{}, user.ID)

	assert.Equal(t, order.MerchantOrderID, dest.Query().Get("order_id"))
	assert.NotEmpty(t, dest.Query().Get("book_id"))
}

func (s *RedirectResolverTestSuite) Test_OrderIDInsideUnexpectedParam() {
	t := s.T()
	user := testhelpers.CreateUser(t, s.ctx(), s.testDB.DB)
	order := s.cartOrder(user.ID, "C1")
	s.expectGatewayState(order, application.GatewayPending).Once()

	dest := s.resolve(url.Values{"data": {"txn:" + order.MerchantOrderID + "|ok"}}, "")

	assert.Equal(t, "/payment/pending", dest.Path)
	assert.Equal(t, order.MerchantOrderID, dest.Query().Get("order_id"))
}

func (s *RedirectResolverTestSuite) Test_NothingToGoOn_GenericSuccessPage() {
	dest := s.resolve(url.Values{"foo": {"bar"}}, "")

	assert.Equal(s.T(), "https://www.okpuja.com/confirmbooking?status=completed", dest.String())
}

func (s *RedirectResolverTestSuite) Test_FailedPayment_GoesToFailurePage() {
	t := s.T()
	user := testhelpers.CreateUser(t, s.ctx(), s.testDB.DB)
	order := s.cartOrder(user.ID, "C1")
	s.expectGatewayState(order, application.GatewayFailed).Once()

	dest := s.resolve(url.Values{"orderId": {order.MerchantOrderID}, "transactionId": {"TX9"}}, "")

	assert.Equal(t, "/payment/failed", dest.Path)
	assert.Equal(t, "failed", dest.Query().Get("reason"))
	assert.Equal(t, "TX9", dest.Query().Get("transaction_id"))
	assert.Zero(t, s.countRows(`SELECT COUNT(*) FROM bookings`))
}

func (s *RedirectResolverTestSuite) Test_ExpiredOrder_CountsAsFailure() {
	t := s.T()
	user := testhelpers.CreateUser(t, s.ctx(), s.testDB.DB)
	order := testhelpers.CreateOrder(t, s.ctx(), s.testDB.DB, user.ID, 50000, testhelpers.WithStatus(domain.StatusExpired))
	s.expectGatewayState(order, application.GatewayPending).Once()

	dest := s.resolve(url.Values{"order_id": {order.MerchantOrderID}}, "")

	assert.Equal(t, "/payment/failed", dest.Path)
	assert.Equal(t, "expired", dest.Query().Get("reason"))
}

func (s *RedirectResolverTestSuite) Test_PendingPayment_GoesToPendingPage() {
	t := s.T()
	user := testhelpers.CreateUser(t, s.ctx(), s.testDB.DB)
	order := s.cartOrder(user.ID, "C1")
	s.expectGatewayState(order, application.GatewayPending).Once()

	dest := s.resolve(url.Values{"merchant_order_id": {order.MerchantOrderID}}, "")

	assert.Equal(t, "https://www.okpuja.com/payment/pending", dest.Scheme+"://"+dest.Host+dest.Path)
	assert.Equal(t, domain.StatusInitiated, s.reload(order).Status)
}

func (s *RedirectResolverTestSuite) Test_PaidAstrology_GoesToAstrologySuccessPage() {
	t := s.T()
	ctx := s.ctx()
	user := testhelpers.CreateUser(t, ctx, s.testDB.DB)
	service := testhelpers.CreateAstrologyService(t, ctx, s.testDB.DB, 110000)
	req := testhelpers.AstrologyRequest(service.ID, user.ID)
	order := testhelpers.CreateOrder(t, ctx, s.testDB.DB, user.ID, 110000,
		testhelpers.WithMetadata(req.Metadata()),
		testhelpers.WithStatus(domain.StatusInitiated),
	)
	s.expectGatewayState(order, application.GatewayCompleted).Once()
	s.notifier.EXPECT().AstrologyBookingConfirmed(mock.Anything, mock.Anything).Return(nil).Once()
	s.notifier.EXPECT().AstrologyAdminAlert(mock.Anything, mock.Anything).Return(nil).Once()

	dest := s.resolve(url.Values{"merchantOrderId": {order.MerchantOrderID}}, "")

	assert.Equal(t, "https://astro.okpuja.com/astro-booking-success", dest.Scheme+"://"+dest.Host+dest.Path)
	booking, err := s.bookingRepo.FindAstrologyByPaymentOrderID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.AstroBookID, dest.Query().Get("astro_book_id"))
}

func (s *RedirectResolverTestSuite) Test_FailedAstrology_UsesConfiguredBase() {
	t := s.T()
	ctx := s.ctx()
	user := testhelpers.CreateUser(t, ctx, s.testDB.DB)
	service := testhelpers.CreateAstrologyService(t, ctx, s.testDB.DB, 110000)
	req := testhelpers.AstrologyRequest(service.ID, user.ID)
	req.FrontendRedirectURL = ""
	order := testhelpers.CreateOrder(t, ctx, s.testDB.DB, user.ID, 110000,
		testhelpers.WithMetadata(req.Metadata()),
		testhelpers.WithStatus(domain.StatusInitiated),
	)
	s.expectGatewayState(order, application.GatewayFailed).Once()

	dest := s.resolve(url.Values{"merchantOrderId": {order.MerchantOrderID}}, "")

	assert.Equal(t, "https://www.okpuja.com/astro-booking-failed", dest.Scheme+"://"+dest.Host+dest.Path)
	assert.Equal(t, order.MerchantOrderID, dest.Query().Get("merchant_order_id"))
	assert.Equal(t, "failed", dest.Query().Get("reason"))
}
