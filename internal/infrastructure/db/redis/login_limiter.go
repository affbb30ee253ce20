package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/skillswap/skillswap-api/internal/core/domain"
)

const defaultFailureWindow = 15 * time.Minute

// LoginLimiter counts failed logins per principal in a fixed window.
// Key format: login_failures:<kind>:<username>
type LoginLimiter struct {
	client *redis.Client
	window time.Duration
}

// NewLoginLimiter wraps client. The counter of a principal expires window
// after its first recorded failure.
func NewLoginLimiter(client *redis.Client, window time.Duration) *LoginLimiter {
	if window <= 0 {
		window = defaultFailureWindow
	}
	return &LoginLimiter{client: client, window: window}
}

// Failures returns the failures recorded in the current window.
func (l *LoginLimiter) Failures(ctx context.Context, kind domain.Kind, username string) (int64, error) {
	n, err := l.client.Get(ctx, l.key(kind, username)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("login failures: %w", err)
	}
	return n, nil
}

// RecordFailure increments the counter and starts the window on the first hit.
func (l *LoginLimiter) RecordFailure(ctx context.Context, kind domain.Kind, username string) error {
	key := l.key(kind, username)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record login failure: %w", err)
	}

	// a key without expiry would block the principal forever
	if incr.Val() == 1 || ttl.Val() < 0 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("record login failure: %w", err)
		}
	}
	return nil
}

func (l *LoginLimiter) Reset(ctx context.Context, kind domain.Kind, username string) error {
	if err := l.client.Del(ctx, l.key(kind, username)).Err(); err != nil {
		return fmt.Errorf("reset login failures: %w", err)
	}
	return nil
}

// key keeps the username's case: usernames are case-sensitive in both stores.
func (l *LoginLimiter) key(kind domain.Kind, username string) string {
	return fmt.Sprintf("login_failures:%s:%s", kind, username)
}
