package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SlidingWindowLimiter counts requests per key in a Redis sorted set, so every
// replica of the service shares the same budget.
type SlidingWindowLimiter struct {
	client redis.Cmdable
	limit  int
	window time.Duration
	prefix string
	clock  Clock
}

// NewSlidingWindowLimiter allows limit requests per window for each key.
func NewSlidingWindowLimiter(client redis.Cmdable, limit int, window time.Duration) *SlidingWindowLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Second
	}
	return &SlidingWindowLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: "delivery:ratelimit:",
		clock:  RealClock{},
	}
}

// Allow records the request and reports whether the key is still within its window budget.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := l.clock.Now().UnixNano()
	windowStart := now - l.window.Nanoseconds()
	rkey := l.prefix + key

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, rkey, "0", strconv.FormatInt(windowStart, 10))
	// member must be unique even when two requests share a nanosecond
	pipe.ZAdd(ctx, rkey, redis.Z{Score: float64(now), Member: uuid.NewString()})
	count := pipe.ZCard(ctx, rkey)
	pipe.Expire(ctx, rkey, 2*l.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limiter pipeline for %q: %w", key, err)
	}
	return count.Val() <= int64(l.limit), nil
}
