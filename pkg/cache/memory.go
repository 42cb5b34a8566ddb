package cache

import (
	"context"
	"hash/fnv"
	"sync"
	"time"
)

const memoryShardCount = 32

// memoryEntry is one stored value plus its absolute expiry.
type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

type memoryLock struct {
	owner     string
	expiresAt time.Time
}

// memoryShard is one of memoryShardCount independently-locked partitions, the
// same sharded-mutex shape the teacher uses for its in-process queue state.
type memoryShard struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	locks   map[string]memoryLock
}

// MemoryCache is the default SharedCache backend: always available, used by
// tests and single-process deployments. A background goroutine sweeps expired
// entries so the map never grows unbounded under a long-lived process.
type MemoryCache struct {
	shards   [memoryShardCount]*memoryShard
	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewMemoryCache starts a MemoryCache with a sweeper running every sweepEvery.
func NewMemoryCache(sweepEvery time.Duration) *MemoryCache {
	c := &MemoryCache{stopCh: make(chan struct{})}
	for i := range c.shards {
		c.shards[i] = &memoryShard{
			entries: make(map[string]memoryEntry),
			locks:   make(map[string]memoryLock),
		}
	}
	if sweepEvery <= 0 {
		sweepEvery = time.Minute
	}
	go c.sweepLoop(sweepEvery)
	return c
}

func (c *MemoryCache) shardFor(key string) *memoryShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return c.shards[h.Sum32()%memoryShardCount]
}

func (c *MemoryCache) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			for _, s := range c.shards {
				s.mu.Lock()
				for k, e := range s.entries {
					if e.expired(now) {
						delete(s.entries, k)
					}
				}
				for k, l := range s.locks {
					if now.After(l.expiresAt) {
						delete(s.locks, k)
					}
				}
				s.mu.Unlock()
			}
		case <-c.stopCh:
			return
		}
	}
}

func (c *MemoryCache) GetJSON(_ context.Context, key string, dst interface{}) error {
	s := c.shardFor(key)
	s.mu.Lock()
	e, ok := s.entries[key]
	if ok && e.expired(time.Now()) {
		delete(s.entries, key)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	return unmarshalValue(e.data, dst)
}

func (c *MemoryCache) SetJSON(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := marshalValue(value)
	if err != nil {
		return err
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	s := c.shardFor(key)
	s.mu.Lock()
	s.entries[key] = memoryEntry{data: data, expiresAt: expiresAt}
	s.mu.Unlock()
	return nil
}

func (c *MemoryCache) Increment(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	e, ok := s.entries[key]
	if !ok || e.expired(now) {
		e = memoryEntry{expiresAt: now.Add(ttl)}
		data, _ := marshalValue(int64(0))
		e.data = data
	}
	var current int64
	_ = unmarshalValue(e.data, &current)
	current++
	data, err := marshalValue(current)
	if err != nil {
		return 0, err
	}
	e.data = data
	s.entries[key] = e
	return current, nil
}

func (c *MemoryCache) AcquireLock(_ context.Context, key, owner string, ttl time.Duration) (bool, error) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if l, ok := s.locks[key]; ok && now.Before(l.expiresAt) && l.owner != owner {
		return false, nil
	}
	s.locks[key] = memoryLock{owner: owner, expiresAt: now.Add(ttl)}
	return true, nil
}

func (c *MemoryCache) ReleaseLock(_ context.Context, key, owner string) error {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.locks[key]; ok && l.owner == owner {
		delete(s.locks, key)
	}
	return nil
}

func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stopCh) })
	return nil
}
