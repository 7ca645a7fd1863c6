package cache

import (
	"sync"
	"time"
)

type item struct {
	payload   []byte
	expiresAt int64 // unix nanos, 0 means no expiry
}

func (it item) expired(now int64) bool {
	return it.expiresAt != 0 && now > it.expiresAt
}

// TTLCache is the in-process fallback used when Redis is disabled.
// Expired items are dropped lazily on read and swept opportunistically
// on writes, so no background goroutine is needed.
type TTLCache struct {
	mu     sync.RWMutex
	items  map[string]item
	writes int
}

func NewTTLCache() *TTLCache {
	return &TTLCache{items: make(map[string]item)}
}

func (c *TTLCache) Get(key string) ([]byte, bool) {
	now := time.Now().UnixNano()

	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if it.expired(now) {
		c.mu.Lock()
		if cur, still := c.items[key]; still && cur.expired(now) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return it.payload, true
}

func (c *TTLCache) Set(key string, value []byte, ttl time.Duration) {
	var exp int64
	if ttl > 0 {
		exp = time.Now().Add(ttl).UnixNano()
	}

	c.mu.Lock()
	c.items[key] = item{payload: value, expiresAt: exp}
	c.writes++
	if c.writes >= 256 {
		c.writes = 0
		c.sweep(time.Now().UnixNano())
	}
	c.mu.Unlock()
}

// sweep removes every expired item. Caller holds the write lock.
func (c *TTLCache) sweep(now int64) {
	for key, it := range c.items {
		if it.expired(now) {
			delete(c.items, key)
		}
	}
}

func (c *TTLCache) GetBytes(key string) ([]byte, bool, error) {
	b, ok := c.Get(key)
	return b, ok, nil
}

func (c *TTLCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	c.Set(key, value, ttl)
	return nil
}
