package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/skillswap-api/internal/core/domain"
)

func newTestLimiter(t *testing.T, window time.Duration) (*LoginLimiter, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginLimiter(client, window), srv
}

func TestLoginLimiter_CountsAndResets(t *testing.T) {
	limiter, _ := newTestLimiter(t, time.Minute)
	ctx := context.Background()

	n, err := limiter.Failures(ctx, domain.KindUser, "alice")
	require.NoError(t, err)
	assert.Zero(t, n)

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.RecordFailure(ctx, domain.KindUser, "alice"))
	}

	n, err = limiter.Failures(ctx, domain.KindUser, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.NoError(t, limiter.Reset(ctx, domain.KindUser, "alice"))
	n, err = limiter.Failures(ctx, domain.KindUser, "alice")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLoginLimiter_KindsAreSeparate(t *testing.T) {
	limiter, _ := newTestLimiter(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, limiter.RecordFailure(ctx, domain.KindAdmin, "alice"))

	n, err := limiter.Failures(ctx, domain.KindUser, "alice")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = limiter.Failures(ctx, domain.KindAdmin, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestLoginLimiter_UsernamesAreCaseSensitive(t *testing.T) {
	limiter, _ := newTestLimiter(t, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.RecordFailure(ctx, domain.KindUser, "Alice"))
	}

	n, err := limiter.Failures(ctx, domain.KindUser, "alice")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = limiter.Failures(ctx, domain.KindUser, "Alice")
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	require.NoError(t, limiter.Reset(ctx, domain.KindUser, "alice"))
	n, err = limiter.Failures(ctx, domain.KindUser, "Alice")
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestLoginLimiter_WindowExpires(t *testing.T) {
	limiter, srv := newTestLimiter(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, limiter.RecordFailure(ctx, domain.KindUser, "alice"))
	require.NoError(t, limiter.RecordFailure(ctx, domain.KindUser, "alice"))
	assert.Equal(t, time.Minute, srv.TTL("login_failures:user:alice"))

	srv.FastForward(time.Minute + time.Second)

	n, err := limiter.Failures(ctx, domain.KindUser, "alice")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLoginLimiter_Unavailable(t *testing.T) {
	limiter, srv := newTestLimiter(t, time.Minute)
	srv.Close()

	_, err := limiter.Failures(context.Background(), domain.KindUser, "alice")
	assert.Error(t, err)
	assert.Error(t, limiter.RecordFailure(context.Background(), domain.KindUser, "alice"))
}
