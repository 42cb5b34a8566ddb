package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache backs SharedCache with a Redis instance, giving increment and
// acquireLock atomic cross-replica semantics: INCR+EXPIRE for counters, SET
// NX PX for locks, release guarded by a Lua compare-and-delete so a caller can
// never release a lock it doesn't hold.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache wraps an already-configured *redis.Client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) GetJSON(ctx context.Context, key string, dst interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return unmarshalValue(data, dst)
}

func (c *RedisCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := marshalValue(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Increment relies on Redis's atomic INCR; EXPIRE is only applied the first
// time the key is created (result == 1) so a window boundary is never reset
// by a mid-window increment.
func (c *RedisCache) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 && ttl > 0 {
		c.client.Expire(ctx, key, ttl)
	}
	return n, nil
}

func (c *RedisCache) AcquireLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	ok, err := c.client.SetNX(ctx, lockKey(key), owner, ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// releaseLockScript deletes the lock only if the stored owner still matches,
// so a caller can never release a lock another owner has since taken.
const releaseLockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end`

func (c *RedisCache) ReleaseLock(ctx context.Context, key, owner string) error {
	return redis.NewScript(releaseLockScript).Run(ctx, c.client, []string{lockKey(key)}, owner).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func lockKey(key string) string {
	return "lock:" + key
}
