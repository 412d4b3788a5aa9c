// Package cache memoizes successful price lookups for a TTL.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"nftfavorites/pkg/price"
)

// entry stores a cached message with its expiry.
type entry struct {
	expiresAt time.Time
	message   string
}

// Lookup caches successful results of L per normalized id for TTL.
// Failures are never cached. Concurrent misses for one id share a single call to L.
type Lookup struct {
	L        price.Lookup
	TTL      time.Duration
	MaxItems int

	// Now defaults to time.Now.
	Now func() time.Time

	mu    sync.RWMutex
	items map[string]entry
	group singleflight.Group
}

func (c *Lookup) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// GetPrice returns the cached message for itemID when fresh, otherwise asks L.
func (c *Lookup) GetPrice(ctx context.Context, itemID string) (string, error) {
	if c.TTL <= 0 {
		return c.L.GetPrice(ctx, itemID)
	}

	key := price.Normalize(itemID)
	if msg, ok := c.fresh(key, c.now()); ok {
		return msg, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A call that finished while we waited may have filled the entry.
		if msg, ok := c.fresh(key, c.now()); ok {
			return msg, nil
		}
		msg, err := c.L.GetPrice(ctx, itemID)
		if err != nil {
			return "", err
		}
		now := c.now()
		c.mu.Lock()
		if c.items == nil {
			c.items = make(map[string]entry)
		}
		c.items[key] = entry{expiresAt: now.Add(c.TTL), message: msg}
		c.evict(now)
		c.mu.Unlock()
		return msg, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Lookup) fresh(key string, now time.Time) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.items[key]
	if !ok || !now.Before(e.expiresAt) {
		return "", false
	}
	return e.message, true
}

// evict drops expired entries, then arbitrary ones, until under MaxItems.
// Caller holds c.mu.
func (c *Lookup) evict(now time.Time) {
	if c.MaxItems <= 0 || len(c.items) <= c.MaxItems {
		return
	}
	for k, v := range c.items {
		if !now.Before(v.expiresAt) {
			delete(c.items, k)
		}
	}
	for k := range c.items {
		if len(c.items) <= c.MaxItems {
			break
		}
		delete(c.items, k)
	}
}

// Len returns the number of cached entries, fresh or not.
func (c *Lookup) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
