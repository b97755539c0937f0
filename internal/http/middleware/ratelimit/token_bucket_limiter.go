package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Config tunes TokenBucketLimiter.
type Config struct {
	Rate       float64       // tokens refilled per second
	Burst      int           // bucket capacity
	TTL        time.Duration // idle buckets older than this are dropped; 0 keeps them
	MaxBuckets int           // 0 means unbounded
}

// TokenBucketLimiter keeps one bucket per user in process memory.
// Budgets are not shared between replicas; SlidingWindowLimiter covers that case.
type TokenBucketLimiter struct {
	cfg   Config
	clock Clock

	mu        sync.Mutex
	buckets   map[string]*bucket
	nextSweep time.Time
}

type bucket struct {
	tokens float64
	seen   time.Time
}

// NewTokenBucketLimiter normalises cfg and returns an empty limiter.
func NewTokenBucketLimiter(clock Clock, cfg Config) *TokenBucketLimiter {
	if clock == nil {
		clock = RealClock{}
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.MaxBuckets < 0 {
		cfg.MaxBuckets = 0
	}
	return &TokenBucketLimiter{
		cfg:     cfg,
		clock:   clock,
		buckets: make(map[string]*bucket),
	}
}

// Allow spends one token from key's bucket. A full table rejects unknown keys
// once idle buckets have been evicted.
func (l *TokenBucketLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now, false)

	b, ok := l.buckets[key]
	if !ok {
		if l.full() {
			l.sweep(now, true)
			if l.full() {
				return false, nil
			}
		}
		b = &bucket{tokens: float64(l.cfg.Burst), seen: now}
		l.buckets[key] = b
	}
	return b.spend(now, l.cfg.Rate, float64(l.cfg.Burst)), nil
}

// Len returns the number of tracked users.
func (l *TokenBucketLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *TokenBucketLimiter) full() bool {
	return l.cfg.MaxBuckets > 0 && len(l.buckets) >= l.cfg.MaxBuckets
}

// sweep drops buckets idle longer than TTL. Unless forced it runs at most
// once per max(TTL/2, 1m). Callers hold l.mu.
func (l *TokenBucketLimiter) sweep(now time.Time, force bool) {
	if l.cfg.TTL <= 0 {
		return
	}
	if !force && now.Before(l.nextSweep) {
		return
	}
	interval := max(l.cfg.TTL/2, time.Minute)
	l.nextSweep = now.Add(interval)

	for k, b := range l.buckets {
		if now.Sub(b.seen) > l.cfg.TTL {
			delete(l.buckets, k)
		}
	}
}

func (b *bucket) spend(now time.Time, rate, burst float64) bool {
	if elapsed := now.Sub(b.seen); elapsed > 0 {
		b.tokens = min(burst, b.tokens+elapsed.Seconds()*rate)
		b.seen = now
	}
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}
