package store

import (
	"sync"
	"time"

	"sadapurne/internal/producer/models"
	id "sadapurne/pkg/domain"
)

type cacheEntry struct {
	producer  *models.Producer
	expiresAt time.Time
}

// lastKnownCache holds the most recent producers read from or written to the
// backing store. Entries expire after ttl; the list snapshot expires with them.
type lastKnownCache struct {
	mu      sync.RWMutex
	entries map[id.Aadhar]*cacheEntry
	list    []*models.Producer
	listExp time.Time
	ttl     time.Duration
	now     func() time.Time
}

func newLastKnownCache(ttl time.Duration) *lastKnownCache {
	return &lastKnownCache{
		entries: make(map[id.Aadhar]*cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *lastKnownCache) Get(aadhar id.Aadhar) (*models.Producer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[aadhar]
	if !ok || c.now().After(entry.expiresAt) {
		return nil, false
	}
	return clone(entry.producer), true
}

func (c *lastKnownCache) Set(p *models.Producer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[p.Aadhar] = &cacheEntry{producer: clone(p), expiresAt: c.now().Add(c.ttl)}
	// A write makes the list snapshot stale.
	c.list = nil
	c.cleanupExpiredLocked(10)
}

func (c *lastKnownCache) GetList() ([]*models.Producer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.list == nil || c.now().After(c.listExp) {
		return nil, false
	}
	out := make([]*models.Producer, len(c.list))
	for i, p := range c.list {
		out[i] = clone(p)
	}
	return out, true
}

func (c *lastKnownCache) SetList(ps []*models.Producer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	snapshot := make([]*models.Producer, len(ps))
	for i, p := range ps {
		snapshot[i] = clone(p)
		c.entries[p.Aadhar] = &cacheEntry{producer: clone(p), expiresAt: now.Add(c.ttl)}
	}
	c.list = snapshot
	c.listExp = now.Add(c.ttl)
}

// cleanupExpiredLocked removes up to max expired entries. Caller holds the lock.
func (c *lastKnownCache) cleanupExpiredLocked(max int) {
	now := c.now()
	cleaned := 0
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			cleaned++
			if cleaned >= max {
				break
			}
		}
	}
}
