package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestSlidingWindowLimiter_UnreachableRedisReturnsError(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer func() { _ = client.Close() }()

	l := NewSlidingWindowLimiter(client, 1, time.Second)
	ok, err := l.Allow(context.Background(), "k")
	require.Error(t, err)
	require.False(t, ok)
}

func TestNewSlidingWindowLimiter_Defaults(t *testing.T) {
	t.Parallel()

	l := NewSlidingWindowLimiter(nil, 0, 0)
	require.Equal(t, 1, l.limit)
	require.Equal(t, time.Second, l.window)
}
