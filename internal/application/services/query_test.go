package services_test

import (
	"testing"

	"github.com/DanielPopoola/okpuja-payments/internal/application"
	"github.com/DanielPopoola/okpuja-payments/internal/application/services/testhelpers"
	"github.com/DanielPopoola/okpuja-payments/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type QueryServiceTestSuite struct {
	serviceSuite
}

func TestQueryServiceSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("needs a Postgres container")
	}
	suite.Run(t, new(QueryServiceTestSuite))
}

func (s *QueryServiceTestSuite) Test_PaymentStatus_PollingMaterializesBooking() {
	t := s.T()
	ctx := s.ctx()
	user := testhelpers.CreateUser(t, ctx, s.testDB.DB)
	testhelpers.CreateCart(t, ctx, s.testDB.DB, user.ID, "C1", "10:30 AM", 50000)
	order := testhelpers.CreateOrder(t, ctx, s.testDB.DB, user.ID, 50000,
		testhelpers.WithCart("C1"),
		testhelpers.WithStatus(domain.StatusInitiated),
	)
	s.expectGatewayState(order, application.GatewayCompleted).Once()
	s.notifier.EXPECT().BookingConfirmed(mock.Anything, mock.Anything).Return(nil).Once()

	view, err := s.query.PaymentStatus(ctx, order.MerchantOrderID, user.ID, false)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, view.Order.Status)
	assert.Regexp(t, `^BK-`, view.BookingReference)
	assert.False(t, view.CanRetry)
	assert.Empty(t, view.PaymentURL)
	assert.True(t, view.GatewayReachable)
	assert.Empty(t, view.Refunds)
}

func (s *QueryServiceTestSuite) Test_PaymentStatus_PendingOrderShowsCheckoutURL() {
	t := s.T()
	ctx := s.ctx()
	user := testhelpers.CreateUser(t, ctx, s.testDB.DB)
	order := testhelpers.CreateOrder(t, ctx, s.testDB.DB, user.ID, 50000, testhelpers.WithStatus(domain.StatusInitiated))
	s.expectGatewayState(order, application.GatewayPending).Once()

	view, err := s.query.PaymentStatus(ctx, order.MerchantOrderID, user.ID, false)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusInitiated, view.Order.Status)
	assert.Equal(t, *order.CheckoutURL, view.PaymentURL)
	assert.True(t, view.CanRetry)
	assert.InDelta(t, 300, view.RemainingSeconds, 5)
}

func (s *QueryServiceTestSuite) Test_PaymentStatus_GatewayDownStillAnswers() {
	t := s.T()
	ctx := s.ctx()
	user := testhelpers.CreateUser(t, ctx, s.testDB.DB)
	order := testhelpers.CreateOrder(t, ctx, s.testDB.DB, user.ID, 50000, testhelpers.WithStatus(domain.StatusInitiated))
	s.gateway.EXPECT().
		CheckStatus(mock.Anything, order.MerchantOrderID).
		Return(nil, &application.GatewayError{Code: "INTERNAL_SERVER_ERROR", StatusCode: 503}).
		Once()

	view, err := s.query.PaymentStatus(ctx, order.MerchantOrderID, user.ID, false)

	require.NoError(t, err)
	assert.False(t, view.GatewayReachable)
	assert.Equal(t, domain.StatusInitiated, view.Order.Status)
}

func (s *QueryServiceTestSuite) Test_PaymentStatus_Ownership() {
	t := s.T()
	ctx := s.ctx()
	owner := testhelpers.CreateUser(t, ctx, s.testDB.DB)
	stranger := testhelpers.CreateUser(t, ctx, s.testDB.DB)
	order := testhelpers.CreateOrder(t, ctx, s.testDB.DB, owner.ID, 50000, testhelpers.WithStatus(domain.StatusFailed))

	_, err := s.query.PaymentStatus(ctx, order.MerchantOrderID, stranger.ID, false)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	view, err := s.query.PaymentStatus(ctx, order.MerchantOrderID, stranger.ID, true)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, view.Order.Status)
}

func (s *QueryServiceTestSuite) Test_CartPaymentStatus() {
	t := s.T()
	ctx := s.ctx()
	user := testhelpers.CreateUser(t, ctx, s.testDB.DB)
	testhelpers.CreateCart(t, ctx, s.testDB.DB, user.ID, "C1", "10:30 AM", 50000)
	order := testhelpers.CreateOrder(t, ctx, s.testDB.DB, user.ID, 50000,
		testhelpers.WithCart("C1"),
		testhelpers.WithStatus(domain.StatusInitiated),
	)
	s.expectGatewayState(order, application.GatewayCompleted).Once()
	s.notifier.EXPECT().BookingConfirmed(mock.Anything, mock.Anything).Return(nil).Once()

	view, err := s.query.CartPaymentStatus(ctx, "C1", user.ID)

	require.NoError(t, err)
	assert.Equal(t, "C1", view.CartID)
	assert.Equal(t, domain.CartConverted, view.CartStatus)
	assert.True(t, view.BookingExists)
	assert.Equal(t, domain.StatusSuccess, view.Payment.Order.Status)

	_, err = s.query.CartPaymentStatus(ctx, "C1", "someone-else")
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
}

func (s *QueryServiceTestSuite) Test_CartPaymentStatus_NoOrderYet() {
	t := s.T()
	user := testhelpers.CreateUser(t, s.ctx(), s.testDB.DB)

	_, err := s.query.CartPaymentStatus(s.ctx(), "C404", user.ID)

	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
