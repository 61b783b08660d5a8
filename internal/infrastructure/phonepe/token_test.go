package phonepe_test

import (
	"context"
	"testing"
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/infrastructure/phonepe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestMemoryTokenStore(t *testing.T) {
	ctx := context.Background()
	store := phonepe.NewMemoryTokenStore()

	_, ok, err := store.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	tok := phonepe.Token{AccessToken: "abc", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Set(ctx, tok))

	got, ok, err := store.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", got.AccessToken)

	require.NoError(t, store.Invalidate(ctx))
	_, ok, _ = store.Get(ctx)
	assert.False(t, ok)
}

func TestToken_ValidAt(t *testing.T) {
	expires := time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
	tok := phonepe.Token{AccessToken: "abc", ExpiresAt: expires}

	assert.True(t, tok.ValidAt(expires.Add(-time.Second)))
	assert.False(t, tok.ValidAt(expires))
	assert.False(t, phonepe.Token{ExpiresAt: expires}.ValidAt(expires.Add(-time.Hour)))
}

func TestRedisTokenStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	rdb, err := phonepe.InitRedis(host+":"+port.Port(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	store := phonepe.NewRedisTokenStore(rdb, "client")
	other := phonepe.NewRedisTokenStore(rdb, "client")

	_, ok, err := store.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	tok := phonepe.Token{AccessToken: "shared", ExpiresAt: time.Now().Add(time.Minute).UTC()}
	require.NoError(t, store.Set(ctx, tok))

	got, ok, err := other.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "shared", got.AccessToken)
	assert.WithinDuration(t, tok.ExpiresAt, got.ExpiresAt, time.Second)

	ttl, err := rdb.TTL(ctx, "phonepe:token:client").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, other.Invalidate(ctx))
	_, ok, err = store.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
