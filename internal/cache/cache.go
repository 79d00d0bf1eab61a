package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

type CacheItem[V any] struct {
	Value     V
	ExpiresAt time.Time
}

// Cache is an in-memory TTL cache. The serve mode keeps feed snapshots and
// generated summaries in it.
type Cache[V any] struct {
	mu    sync.RWMutex
	items map[string]CacheItem[V]
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

func New[V any]() *Cache[V] {
	c := &Cache[V]{
		items: make(map[string]CacheItem[V]),
		now:   time.Now,
		stop:  make(chan struct{}),
	}

	// Cleanup expired items every hour
	go c.cleanupLoop(time.Hour)

	return c
}

func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = CacheItem[V]{
		Value:     value,
		ExpiresAt: c.now().Add(ttl),
	}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	var zero V
	if !exists {
		return zero, false
	}

	if c.now().After(item.ExpiresAt) {
		c.expire(key)
		return zero, false
	}

	return item.Value, true
}

// expire drops key if it is still expired; a Set that landed after the read
// lock was released keeps its fresh value.
func (c *Cache[V]) expire(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cur, ok := c.items[key]; ok && c.now().After(cur.ExpiresAt) {
		delete(c.items, key)
	}
}

func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the cleanup goroutine.
func (c *Cache[V]) Close() {
	c.once.Do(func() { close(c.stop) })
}

// GenerateKey hashes the parts into a stable key; parts are case-folded.
func GenerateKey(parts ...string) string {
	h := sha256.New()
	h.Write([]byte(strings.ToLower(strings.Join(parts, "\x00"))))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache[V]) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

func (c *Cache[V]) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, item := range c.items {
		if now.After(item.ExpiresAt) {
			delete(c.items, key)
		}
	}
}
