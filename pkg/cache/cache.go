// pkg/cache/cache.go
package cache

import (
	"context"
	"sync"
	"time"
)

type item struct {
	value      string
	expiration int64
}

// Cache is an in-process TTL cache implementing the same Client
// interface as the Redis client. It backs unit tests and acts as the
// fallback when an external cache is unavailable.
type Cache struct {
	items map[string]item
	mu    sync.RWMutex
}

func NewCache() *Cache {
	c := &Cache{
		items: make(map[string]item),
	}
	go c.startGC()
	return c
}

func (c *Cache) Set(ctx context.Context, key, value string, duration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiration := time.Now().Add(duration).UnixNano()
	c.items[key] = item{
		value:      value,
		expiration: expiration,
	}
	return nil
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, found := c.items[key]
	if !found {
		return "", false, nil
	}

	if time.Now().UnixNano() > it.expiration {
		return "", false, nil
	}

	return it.value, true, nil
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.items, key)
	}
	return nil
}

func (c *Cache) Ping(ctx context.Context) error { return nil }

func (c *Cache) Close() error { return nil }

func (c *Cache) IsEnabled() bool { return true }

func (c *Cache) startGC() {
	ticker := time.NewTicker(time.Minute)
	for {
		<-ticker.C
		c.mu.Lock()
		for k, v := range c.items {
			if time.Now().UnixNano() > v.expiration {
				delete(c.items, k)
			}
		}
		c.mu.Unlock()
	}
}
