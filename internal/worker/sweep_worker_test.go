package worker_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/application"
	"github.com/DanielPopoola/okpuja-payments/internal/application/services"
	"github.com/DanielPopoola/okpuja-payments/internal/application/services/testhelpers"
	"github.com/DanielPopoola/okpuja-payments/internal/config"
	"github.com/DanielPopoola/okpuja-payments/internal/domain"
	"github.com/DanielPopoola/okpuja-payments/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/okpuja-payments/internal/mocks"
	"github.com/DanielPopoola/okpuja-payments/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testWorkerConfig = config.WorkerConfig{
	Interval:       time.Minute,
	BatchSize:      3,
	GracePeriod:    2 * time.Minute,
	BackoffBase:    time.Millisecond,
	MaxAttempts:    3,
	ExpiryInterval: time.Minute,
}

type workerEnv struct {
	db        *postgres.DB
	orderRepo *postgres.PaymentOrderRepository
	gateway   *mocks.MockGatewayClient
	notifier  *mocks.MockNotifier
	payments  *services.PaymentService
	sweep     *worker.SweepWorker
}

func setupWorkerEnv(t *testing.T, testDB *testhelpers.TestDatabase) *workerEnv {
	t.Helper()
	testDB.CleanTables(t)

	db := testDB.DB
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	orderRepo := postgres.NewPaymentOrderRepository(db)
	gateway := mocks.NewMockGatewayClient(t)
	notifier := mocks.NewMockNotifier(t)

	payments := services.NewPaymentService(orderRepo, gateway, db, config.PaymentConfig{
		TimeoutMinutes:    5,
		MaxRetryAttempts:  3,
		LateSuccessPolicy: config.LateSuccessHonor,
		OrderPrefix:       "OKPUJA",
	}, "https://api.okpuja.com/payments/redirect/", logger)
	materializer := services.NewBookingMaterializer(
		postgres.NewCartRepository(db),
		postgres.NewBookingRepository(db),
		postgres.NewCatalogRepository(db),
		notifier,
		db,
		config.BookingConfig{DefaultSlotTime: "10:00", KeepConvertedCarts: 3, AdminEmail: "admin@okpuja.com"},
		logger,
	)
	reconciler := services.NewReconciler(payments, materializer, logger)

	return &workerEnv{
		db:        db,
		orderRepo: orderRepo,
		gateway:   gateway,
		notifier:  notifier,
		payments:  payments,
		sweep:     worker.NewSweepWorker(orderRepo, reconciler, testWorkerConfig, logger),
	}
}

func staleOrder(t *testing.T, env *workerEnv, userID string, age time.Duration, opts ...testhelpers.OrderOption) *domain.PaymentOrder {
	t.Helper()
	opts = append([]testhelpers.OrderOption{
		testhelpers.WithStatus(domain.StatusInitiated),
		testhelpers.CreatedAt(time.Now().Add(-age)),
	}, opts...)
	return testhelpers.CreateOrder(t, context.Background(), env.db, userID, 50000, opts...)
}

func gatewayState(order *domain.PaymentOrder, state application.GatewayState) *application.GatewayStatus {
	return &application.GatewayStatus{
		MerchantOrderID: order.MerchantOrderID,
		State:           state,
		TransactionID:   "T" + order.MerchantOrderID,
		Amount:          order.Amount,
		Raw:             []byte(`{"state":"` + string(state) + `"}`),
	}
}

func TestSweepWorker(t *testing.T) {
	if testing.Short() {
		t.Skip("needs a Postgres container")
	}
	testDB := testhelpers.SetupTestDatabase(t)
	defer testDB.Cleanup(t)

	t.Run("reconciles stale orders and books paid carts", func(t *testing.T) {
		env := setupWorkerEnv(t, testDB)
		ctx := context.Background()
		user := testhelpers.CreateUser(t, ctx, env.db)
		testhelpers.CreateCart(t, ctx, env.db, user.ID, "C1", "10:30 AM", 50000)

		paid := staleOrder(t, env, user.ID, 10*time.Minute, testhelpers.WithCart("C1"))
		declined := staleOrder(t, env, user.ID, 9*time.Minute)
		waiting := staleOrder(t, env, user.ID, 8*time.Minute)
		fresh := staleOrder(t, env, user.ID, 30*time.Second)

		env.gateway.EXPECT().CheckStatus(mock.Anything, paid.MerchantOrderID).Return(gatewayState(paid, application.GatewayCompleted), nil).Once()
		env.gateway.EXPECT().CheckStatus(mock.Anything, declined.MerchantOrderID).Return(gatewayState(declined, application.GatewayFailed), nil).Once()
		env.gateway.EXPECT().CheckStatus(mock.Anything, waiting.MerchantOrderID).Return(gatewayState(waiting, application.GatewayPending), nil).Once()
		env.notifier.EXPECT().BookingConfirmed(mock.Anything, mock.Anything).Return(nil).Once()

		result, err := env.sweep.RunOnce(ctx)

		require.NoError(t, err)
		assert.Equal(t, worker.SweepResult{Checked: 3, Completed: 1, Failed: 1, StillPending: 1}, *result)
		env.gateway.AssertNotCalled(t, "CheckStatus", mock.Anything, fresh.MerchantOrderID)

		var bookings int
		require.NoError(t, env.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE cart_id = 'C1'`).Scan(&bookings))
		assert.Equal(t, 1, bookings)
	})

	t.Run("honors the batch size oldest first", func(t *testing.T) {
		env := setupWorkerEnv(t, testDB)
		ctx := context.Background()
		user := testhelpers.CreateUser(t, ctx, env.db)

		var orders []*domain.PaymentOrder
		for i := range 4 {
			orders = append(orders, staleOrder(t, env, user.ID, time.Duration(20-i)*time.Minute))
		}
		for _, o := range orders[:3] {
			env.gateway.EXPECT().CheckStatus(mock.Anything, o.MerchantOrderID).Return(gatewayState(o, application.GatewayPending), nil).Once()
		}

		result, err := env.sweep.RunOnce(ctx)

		require.NoError(t, err)
		assert.Equal(t, 3, result.Checked)
		assert.Equal(t, 3, result.StillPending)
		env.gateway.AssertNotCalled(t, "CheckStatus", mock.Anything, orders[3].MerchantOrderID)
	})

	t.Run("orders that never resolve do not starve newer ones", func(t *testing.T) {
		env := setupWorkerEnv(t, testDB)
		ctx := context.Background()
		user := testhelpers.CreateUser(t, ctx, env.db)

		var orders []*domain.PaymentOrder
		for i := range 4 {
			orders = append(orders, staleOrder(t, env, user.ID, time.Duration(20-i)*time.Minute))
		}
		for i, times := range []int{2, 2, 1, 1} {
			o := orders[i]
			env.gateway.EXPECT().CheckStatus(mock.Anything, o.MerchantOrderID).Return(gatewayState(o, application.GatewayPending), nil).Times(times)
		}

		first, err := env.sweep.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, first.StillPending)

		second, err := env.sweep.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, second.StillPending)
	})

	t.Run("backs off on rate limiting", func(t *testing.T) {
		env := setupWorkerEnv(t, testDB)
		ctx := context.Background()
		user := testhelpers.CreateUser(t, ctx, env.db)
		order := staleOrder(t, env, user.ID, 10*time.Minute)
		limited := &application.GatewayError{Code: "TOO_MANY_REQUESTS", StatusCode: 429}

		env.gateway.EXPECT().CheckStatus(mock.Anything, order.MerchantOrderID).Return(nil, limited).Twice()
		env.gateway.EXPECT().CheckStatus(mock.Anything, order.MerchantOrderID).Return(gatewayState(order, application.GatewayFailed), nil).Once()

		result, err := env.sweep.RunOnce(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)
		assert.Zero(t, result.Errors)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		env := setupWorkerEnv(t, testDB)
		ctx := context.Background()
		user := testhelpers.CreateUser(t, ctx, env.db)
		order := staleOrder(t, env, user.ID, 10*time.Minute)
		limited := &application.GatewayError{Code: "TOO_MANY_REQUESTS", StatusCode: 429}

		env.gateway.EXPECT().CheckStatus(mock.Anything, order.MerchantOrderID).Return(nil, limited).Times(3)

		result, err := env.sweep.RunOnce(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Errors)

		stored, err := env.orderRepo.FindByMerchantOrderID(ctx, order.MerchantOrderID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInitiated, stored.Status)
	})

	t.Run("other gateway errors are not retried", func(t *testing.T) {
		env := setupWorkerEnv(t, testDB)
		ctx := context.Background()
		user := testhelpers.CreateUser(t, ctx, env.db)
		order := staleOrder(t, env, user.ID, 10*time.Minute)

		env.gateway.EXPECT().
			CheckStatus(mock.Anything, order.MerchantOrderID).
			Return(nil, &application.GatewayError{Code: "INTERNAL_SERVER_ERROR", StatusCode: 503}).
			Once()

		result, err := env.sweep.RunOnce(ctx)

		require.NoError(t, err)
		assert.Equal(t, worker.SweepResult{Checked: 1, Errors: 1}, *result)
	})

	t.Run("orders past the retry budget are only counted", func(t *testing.T) {
		env := setupWorkerEnv(t, testDB)
		ctx := context.Background()
		user := testhelpers.CreateUser(t, ctx, env.db)
		staleOrder(t, env, user.ID, 10*time.Minute, testhelpers.WithRetryCount(4))

		result, err := env.sweep.RunOnce(ctx)

		require.NoError(t, err)
		assert.Equal(t, worker.SweepResult{Skipped: 1}, *result)
	})
}
