package reasoner

import (
	"context"
	"time"

	"casesearch/pkg/cache"
)

const circuitCacheKey = "reasoner:circuit:v1"

type circuitState struct {
	Failures  int   `json:"failures"`
	OpenUntil int64 `json:"open_until"`
}

// CircuitBreaker implements spec.md §5's "CAS-style via shared cache" single
// process-wide entry: a monotonic failure count and an openUntil timestamp.
// Every orchestrator replica reads/writes the same cache key, so the breaker
// trips consistently across the process fleet, not just in one instance.
type CircuitBreaker struct {
	c         cache.Cache
	threshold int
	cooldown  time.Duration
}

func NewCircuitBreaker(c cache.Cache, threshold int, cooldown time.Duration) *CircuitBreaker {
	return &CircuitBreaker{c: c, threshold: threshold, cooldown: cooldown}
}

// Open reports whether the breaker is currently open (now < openUntil).
func (b *CircuitBreaker) Open(ctx context.Context) bool {
	var st circuitState
	if err := b.c.GetJSON(ctx, circuitCacheKey, &st); err != nil {
		return false
	}
	return time.Now().UnixMilli() < st.OpenUntil
}

// RecordSuccess resets the failure counter.
func (b *CircuitBreaker) RecordSuccess(ctx context.Context) {
	_ = b.c.SetJSON(ctx, circuitCacheKey, circuitState{}, time.Hour)
}

// RecordFailure increments the failure counter and, once it reaches
// threshold, opens the breaker until now+cooldown.
func (b *CircuitBreaker) RecordFailure(ctx context.Context) {
	var st circuitState
	_ = b.c.GetJSON(ctx, circuitCacheKey, &st)
	st.Failures++
	if st.Failures >= b.threshold {
		st.OpenUntil = time.Now().Add(b.cooldown).UnixMilli()
	}
	_ = b.c.SetJSON(ctx, circuitCacheKey, st, time.Hour)
}

// RateBucket is the global rate-limit bucket (window W, limit L) from
// spec.md §4.2 step 6, backed by Cache.Increment.
type RateBucket struct {
	c      cache.Cache
	key    string
	window time.Duration
	limit  int
}

func NewRateBucket(c cache.Cache, key string, window time.Duration, limit int) *RateBucket {
	return &RateBucket{c: c, key: key, window: window, limit: limit}
}

// Allow increments the bucket and reports whether the caller is still under
// the configured limit for this window.
func (r *RateBucket) Allow(ctx context.Context) (bool, error) {
	n, err := r.c.Increment(ctx, r.key, r.window)
	if err != nil {
		return false, err
	}
	return n <= int64(r.limit), nil
}
