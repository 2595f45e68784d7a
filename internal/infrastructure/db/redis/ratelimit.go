package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// counterCommands is the slice of the Redis API the limiter needs.
type counterCommands interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	ExpireNX(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RateLimiter throttles sensitive auth endpoints with a fixed-window
// counter in Redis. Key format: ratelimit:<scope>:<client>
type RateLimiter struct {
	client counterCommands
	limit  int64
	window time.Duration
}

// NewRateLimiter allows up to limit calls per client per window.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{client: client, limit: int64(limit), window: window}
}

// Allow reports whether this client may make another call in the
// current window. ExpireNX runs on every call, not only the first: a
// counter left without a TTL by an interrupted earlier call would
// otherwise throttle that client forever, and NX keeps later calls
// from extending an already-armed window.
func (l *RateLimiter) Allow(ctx context.Context, scope, client string) (bool, error) {
	key := l.key(scope, client)

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("ratelimit incr: %w", err)
	}
	if err := l.client.ExpireNX(ctx, key, l.window).Err(); err != nil {
		return false, fmt.Errorf("ratelimit expire: %w", err)
	}
	return n <= l.limit, nil
}

func (l *RateLimiter) key(scope, client string) string {
	return fmt.Sprintf("ratelimit:%s:%s", scope, client)
}
