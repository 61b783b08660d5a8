package worker_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/application/services/testhelpers"
	"github.com/DanielPopoola/okpuja-payments/internal/domain"
	"github.com/DanielPopoola/okpuja-payments/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpirationWorker_ExpiresOverduePendingOrders(t *testing.T) {
	if testing.Short() {
		t.Skip("needs a Postgres container")
	}
	ctx := context.Background()
	testDB := testhelpers.SetupTestDatabase(t)
	defer testDB.Cleanup(t)

	env := setupWorkerEnv(t, testDB)
	user := testhelpers.CreateUser(t, ctx, env.db)

	overdue := testhelpers.CreateOrder(t, ctx, env.db, user.ID, 50000, testhelpers.CreatedAt(time.Now().Add(-time.Hour)))
	current := testhelpers.CreateOrder(t, ctx, env.db, user.ID, 50000)
	started := testhelpers.CreateOrder(t, ctx, env.db, user.ID, 50000,
		testhelpers.WithStatus(domain.StatusInitiated),
		testhelpers.CreatedAt(time.Now().Add(-time.Hour)),
	)

	w := worker.NewExpirationWorker(env.payments, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	expired, err := w.RunOnce(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	for order, want := range map[*domain.PaymentOrder]domain.OrderStatus{
		overdue: domain.StatusExpired,
		current: domain.StatusPending,
		started: domain.StatusInitiated,
	} {
		stored, err := env.orderRepo.FindByMerchantOrderID(ctx, order.MerchantOrderID)
		require.NoError(t, err)
		assert.Equal(t, want, stored.Status, order.MerchantOrderID)
	}

	again, err := w.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, again)
}
