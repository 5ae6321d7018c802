package redis

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/cfg"
	"github.com/DRSN-tech/inventory-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/clients"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*IdempotencyRepo, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	redisCfg := &cfg.RedisCfg{Addr: mr.Addr(), IdempotencyTTL: time.Hour, Timeout: time.Second, DialTimeout: time.Second}
	client := clients.NewRedisClient(redisCfg)
	t.Cleanup(func() { _ = client.Close() })

	return NewIdempotencyRepo(client, converter.NewIdempotentResponseConverterImpl(), redisCfg, logger.NewNopLogger()), mr
}

func TestIdempotencyRepo_Miss(t *testing.T) {
	repo, _ := newTestRepo(t)

	resp, err := repo.Get(context.Background(), "unknown")

	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestIdempotencyRepo_SaveAndGet(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	locked, err := repo.Lock(ctx, "k1")
	require.NoError(t, err)
	require.True(t, locked)

	want := &usecase.IdempotentResponse{StatusCode: 201, ContentType: "application/json", Body: []byte(`{"success":true}`)}
	require.NoError(t, repo.Save(ctx, "k1", want))

	got, err := repo.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	assert.False(t, mr.Exists("idempotency:lock:k1"))
	assert.Equal(t, time.Hour, mr.TTL("idempotency:response:k1"))

	mr.FastForward(2 * time.Hour)
	got, err = repo.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIdempotencyRepo_LockIsExclusive(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.Lock(ctx, "k2")
	require.NoError(t, err)
	second, err := repo.Lock(ctx, "k2")
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)

	require.NoError(t, repo.Unlock(ctx, "k2"))
	third, err := repo.Lock(ctx, "k2")
	require.NoError(t, err)
	assert.True(t, third)
}

func TestIdempotencyRepo_CorruptedValue(t *testing.T) {
	repo, mr := newTestRepo(t)
	require.NoError(t, mr.Set("idempotency:response:k3", "not-json"))

	got, err := repo.Get(context.Background(), "k3")

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists("idempotency:response:k3"))
}
