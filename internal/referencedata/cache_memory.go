package referencedata

import (
	"context"
	"sync"
	"time"

	"intake/pkg/platform/sentinel"
)

// InMemoryCache keeps one snapshot with TTL expiration.
type InMemoryCache struct {
	mu       sync.RWMutex
	snap     *Snapshot
	storedAt time.Time
	ttl      time.Duration
	now      func() time.Time
}

func NewInMemoryCache(ttl time.Duration) *InMemoryCache {
	return &InMemoryCache{ttl: ttl, now: time.Now}
}

// Load returns sentinel.ErrNotFound when empty or expired.
func (c *InMemoryCache) Load(_ context.Context) (Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil || c.now().Sub(c.storedAt) >= c.ttl {
		return Snapshot{}, sentinel.ErrNotFound
	}
	return *c.snap, nil
}

func (c *InMemoryCache) Store(_ context.Context, snap Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = &snap
	c.storedAt = c.now()
	return nil
}
