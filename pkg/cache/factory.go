package cache

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Backend selects which SharedCache implementation New builds.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendRedis  Backend = "redis"
	BackendSQLite Backend = "sqlite"
)

// Options configures whichever backend is selected; fields irrelevant to the
// chosen backend are ignored.
type Options struct {
	Backend       Backend
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SQLitePath    string
	SweepInterval time.Duration
}

// New builds the configured SharedCache backend.
func New(opts Options) (Cache, error) {
	switch opts.Backend {
	case BackendMemory, "":
		return NewMemoryCache(opts.SweepInterval), nil
	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		return NewRedisCache(client), nil
	case BackendSQLite:
		return NewSQLiteCache(opts.SQLitePath)
	default:
		return nil, fmt.Errorf("cache: unknown backend %q", opts.Backend)
	}
}
