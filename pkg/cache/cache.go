// Package cache implements the SharedCache capability (spec.md §6): a small
// getJson/setJson/increment/acquireLock/releaseLock surface behind one
// interface, with three backends (memory, redis, sqlite) selected at startup
// by configuration. Every consumer in the pipeline (reasoner circuit breaker,
// global rate bucket, stale-fallback recall) only ever sees the interface.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned by GetJSON when the key is absent or expired.
var ErrNotFound = errors.New("cache: key not found")

// Cache is the redesign of the original "implicit global caches" (spec.md §9):
// a small capability interface every backend implements identically.
type Cache interface {
	// GetJSON decodes the value stored at key into dst. Returns ErrNotFound if
	// the key is missing or its TTL has elapsed.
	GetJSON(ctx context.Context, key string, dst interface{}) error
	// SetJSON stores value at key, JSON-encoded, expiring after ttl.
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Increment atomically increments key's counter, initializing it with a
	// fresh TTL on first use, and returns the post-increment value. Monotonic
	// within the window — the building block for the global rate bucket and
	// the reasoner circuit breaker's failure counter.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// AcquireLock attempts to take an exclusive, owner-tagged lock at key,
	// expiring automatically after ttl if never released. Returns false if
	// already held by a different owner.
	AcquireLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	// ReleaseLock releases the lock at key only if still held by owner.
	ReleaseLock(ctx context.Context, key, owner string) error
	// Close releases any resources (connections, background goroutines) held
	// by the backend.
	Close() error
}

func marshalValue(value interface{}) ([]byte, error) {
	return json.Marshal(value)
}

func unmarshalValue(data []byte, dst interface{}) error {
	return json.Unmarshal(data, dst)
}
