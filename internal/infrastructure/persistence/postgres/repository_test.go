package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/application/services/testhelpers"
	"github.com/DanielPopoola/okpuja-payments/internal/domain"
	"github.com/DanielPopoola/okpuja-payments/internal/infrastructure/persistence/postgres"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositories(t *testing.T) {
	if testing.Short() {
		t.Skip("needs a Postgres container")
	}
	testDB := testhelpers.SetupTestDatabase(t)
	defer testDB.Cleanup(t)

	db := testDB.DB
	orders := postgres.NewPaymentOrderRepository(db)
	ctx := context.Background()

	t.Run("unknown order", func(t *testing.T) {
		_, err := orders.FindByMerchantOrderID(ctx, "OKPUJA_CART_NOPE")
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	})

	t.Run("terminal rows are never overwritten", func(t *testing.T) {
		testDB.CleanTables(t)
		user := testhelpers.CreateUser(t, ctx, db)
		created := testhelpers.CreateOrder(t, ctx, db, user.ID, 50000, testhelpers.WithStatus(domain.StatusInitiated))

		first, err := orders.FindByMerchantOrderID(ctx, created.MerchantOrderID)
		require.NoError(t, err)
		stale, err := orders.FindByMerchantOrderID(ctx, created.MerchantOrderID)
		require.NoError(t, err)

		require.NoError(t, first.Fail([]byte(`{"state":"FAILED"}`)))
		updated, err := orders.UpdateIfNotTerminal(ctx, nil, first)
		require.NoError(t, err)
		assert.True(t, updated)

		require.NoError(t, stale.Complete("T1", time.Now(), []byte(`{"state":"COMPLETED"}`)))
		updated, err = orders.UpdateIfNotTerminal(ctx, nil, stale)
		require.NoError(t, err)
		assert.False(t, updated)

		stored, err := orders.FindByMerchantOrderID(ctx, created.MerchantOrderID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusFailed, stored.Status)
		assert.Nil(t, stored.GatewayTransactionID)
	})

	t.Run("stale initiated orders for the sweep", func(t *testing.T) {
		testDB.CleanTables(t)
		user := testhelpers.CreateUser(t, ctx, db)
		now := time.Now()
		initiated := testhelpers.WithStatus(domain.StatusInitiated)

		older := testhelpers.CreateOrder(t, ctx, db, user.ID, 100, initiated, testhelpers.CreatedAt(now.Add(-20*time.Minute)))
		newer := testhelpers.CreateOrder(t, ctx, db, user.ID, 100, initiated, testhelpers.CreatedAt(now.Add(-10*time.Minute)))
		testhelpers.CreateOrder(t, ctx, db, user.ID, 100, initiated, testhelpers.CreatedAt(now.Add(-15*time.Minute)), testhelpers.WithRetryCount(4))
		testhelpers.CreateOrder(t, ctx, db, user.ID, 100, initiated, testhelpers.CreatedAt(now.Add(-30*time.Second)))
		testhelpers.CreateOrder(t, ctx, db, user.ID, 100, testhelpers.CreatedAt(now.Add(-20*time.Minute)))

		cutoff := now.Add(-2 * time.Minute)
		found, err := orders.FindStaleInitiated(ctx, cutoff, 10)
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, older.MerchantOrderID, found[0].MerchantOrderID)
		assert.Equal(t, newer.MerchantOrderID, found[1].MerchantOrderID)

		limited, err := orders.FindStaleInitiated(ctx, cutoff, 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)

		require.NoError(t, orders.MarkChecked(ctx, older.ID, now))
		rotated, err := orders.FindStaleInitiated(ctx, cutoff, 10)
		require.NoError(t, err)
		require.Len(t, rotated, 2)
		assert.Equal(t, newer.MerchantOrderID, rotated[0].MerchantOrderID)
		assert.Equal(t, older.MerchantOrderID, rotated[1].MerchantOrderID)

		over, err := orders.CountStaleOverRetryLimit(ctx, cutoff)
		require.NoError(t, err)
		assert.Equal(t, 1, over)
	})

	t.Run("expired pending orders", func(t *testing.T) {
		testDB.CleanTables(t)
		user := testhelpers.CreateUser(t, ctx, db)
		now := time.Now()

		overdue := testhelpers.CreateOrder(t, ctx, db, user.ID, 100, testhelpers.CreatedAt(now.Add(-6*time.Minute)))
		testhelpers.CreateOrder(t, ctx, db, user.ID, 100, testhelpers.CreatedAt(now.Add(-time.Minute)))
		testhelpers.CreateOrder(t, ctx, db, user.ID, 100,
			testhelpers.WithStatus(domain.StatusInitiated), testhelpers.CreatedAt(now.Add(-6*time.Minute)))

		found, err := orders.FindExpiredPending(ctx, now, 10)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, overdue.MerchantOrderID, found[0].MerchantOrderID)
	})

	t.Run("one booking per cart", func(t *testing.T) {
		testDB.CleanTables(t)
		bookings := postgres.NewBookingRepository(db)
		user := testhelpers.CreateUser(t, ctx, db)
		testhelpers.CreateCart(t, ctx, db, user.ID, "CART-1", "10:30 AM", 50000)
		first := testhelpers.CreateOrder(t, ctx, db, user.ID, 50000, testhelpers.WithCart("CART-1"))
		second := testhelpers.CreateOrder(t, ctx, db, user.ID, 50000, testhelpers.WithCart("CART-1"))

		slot, err := domain.ParseClockTime("10:30")
		require.NoError(t, err)
		booking := func(order *domain.PaymentOrder) *domain.Booking {
			return &domain.Booking{
				ID:              uuid.NewString(),
				BookID:          domain.NewBookingCode(),
				UserID:          user.ID,
				CartID:          "CART-1",
				PaymentOrderID:  order.ID,
				MerchantOrderID: order.MerchantOrderID,
				SelectedDate:    time.Date(2030, 3, 14, 0, 0, 0, 0, time.UTC),
				SelectedTime:    slot,
				Status:          domain.BookingConfirmed,
				CreatedAt:       time.Now().UTC(),
			}
		}

		require.NoError(t, bookings.Create(ctx, nil, booking(first)))
		err = bookings.Create(ctx, nil, booking(second))
		assert.ErrorIs(t, err, domain.ErrMaterializationConflict)

		stored, err := bookings.FindByCartID(ctx, nil, "CART-1")
		require.NoError(t, err)
		assert.Equal(t, first.ID, stored.PaymentOrderID)
	})

	t.Run("failed refunds do not count against the balance", func(t *testing.T) {
		testDB.CleanTables(t)
		refunds := postgres.NewRefundRepository(db)
		user := testhelpers.CreateUser(t, ctx, db)
		order := testhelpers.CreateOrder(t, ctx, db, user.ID, 50000, testhelpers.WithStatus(domain.StatusSuccess))

		accepted, err := domain.NewRefund(uuid.NewString(), order, 10000, 0, "partial", time.Now())
		require.NoError(t, err)
		require.NoError(t, refunds.Create(ctx, nil, accepted))

		rejected, err := domain.NewRefund(uuid.NewString(), order, 20000, 10000, "partial", time.Now())
		require.NoError(t, err)
		require.NoError(t, refunds.Create(ctx, nil, rejected))
		require.NoError(t, rejected.Fail([]byte(`{"state":"FAILED"}`)))
		require.NoError(t, refunds.Update(ctx, nil, rejected))

		total, err := refunds.SumActiveByOrder(ctx, nil, order.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(10000), total)

		listed, err := refunds.ListByOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Len(t, listed, 2)
	})

	t.Run("settled refunds are not overwritten", func(t *testing.T) {
		testDB.CleanTables(t)
		refunds := postgres.NewRefundRepository(db)
		user := testhelpers.CreateUser(t, ctx, db)
		order := testhelpers.CreateOrder(t, ctx, db, user.ID, 50000, testhelpers.WithStatus(domain.StatusSuccess))

		refund, err := domain.NewRefund(uuid.NewString(), order, 10000, 0, "", time.Now())
		require.NoError(t, err)
		require.NoError(t, refunds.Create(ctx, nil, refund))
		stale := *refund

		require.NoError(t, refund.Succeed("OMR1", time.Now(), nil))
		updated, err := refunds.UpdateIfProcessing(ctx, nil, refund)
		require.NoError(t, err)
		assert.True(t, updated)

		updated, err = refunds.UpdateIfProcessing(ctx, nil, &stale)
		require.NoError(t, err)
		assert.False(t, updated)

		stored, err := refunds.FindByMerchantRefundID(ctx, refund.MerchantRefundID)
		require.NoError(t, err)
		assert.Equal(t, domain.RefundSuccess, stored.Status)
	})

	t.Run("terminal orders can still be flagged for review", func(t *testing.T) {
		testDB.CleanTables(t)
		user := testhelpers.CreateUser(t, ctx, db)
		order := testhelpers.CreateOrder(t, ctx, db, user.ID, 50000, testhelpers.WithStatus(domain.StatusSuccess))

		require.NoError(t, orders.FlagForReview(ctx, nil, order.ID, "cart belongs to another user"))

		stored, err := orders.FindByMerchantOrderID(ctx, order.MerchantOrderID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusSuccess, stored.Status)
		assert.True(t, stored.NeedsReview)
		require.NotNil(t, stored.ReviewReason)
		assert.Equal(t, "cart belongs to another user", *stored.ReviewReason)

		assert.ErrorIs(t, orders.FlagForReview(ctx, nil, "missing", "x"), domain.ErrOrderNotFound)
	})
}
