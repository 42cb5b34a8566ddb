package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGetJSON(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	type payload struct {
		Name string `json:"name"`
	}
	require.NoError(t, c.SetJSON(ctx, "k1", payload{Name: "alpha"}, time.Minute))

	var got payload
	require.NoError(t, c.GetJSON(ctx, "k1", &got))
	assert.Equal(t, "alpha", got.Name)
}

func TestMemoryCache_GetJSON_NotFound(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()

	var got map[string]string
	err := c.GetJSON(context.Background(), "missing", &got)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k1", "v", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var got string
	err := c.GetJSON(ctx, "k1", &got)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCache_Increment(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	n1, err := c.Increment(ctx, "counter", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n1)

	n2, err := c.Increment(ctx, "counter", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n2)
}

func TestMemoryCache_Lock(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	ok, err := c.AcquireLock(ctx, "lock1", "owner-a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.AcquireLock(ctx, "lock1", "owner-b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "a different owner must not acquire a held lock")

	require.NoError(t, c.ReleaseLock(ctx, "lock1", "owner-a"))

	ok, err = c.AcquireLock(ctx, "lock1", "owner-b", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "lock must be acquirable once released")
}

func TestMemoryCache_ReleaseLock_WrongOwnerNoop(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	ok, err := c.AcquireLock(ctx, "lock1", "owner-a", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, c.ReleaseLock(ctx, "lock1", "owner-b"))

	ok, err = c.AcquireLock(ctx, "lock1", "owner-c", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "a release from a non-owner must not free the lock")
}
