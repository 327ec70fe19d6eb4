package cache

import (
	"context"
	"time"
)

// LayeredCache checks a fast local tier before the shared tier and promotes
// shared hits into the local tier.
type LayeredCache struct {
	local  Cache
	shared Cache
}

// NewLayeredCache composes a local and a shared cache tier.
func NewLayeredCache(local, shared Cache) *LayeredCache {
	return &LayeredCache{local: local, shared: shared}
}

// Get retrieves a value, checking the local tier first.
func (c *LayeredCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if val, found := c.local.Get(ctx, key); found {
		return val, true
	}
	if val, found := c.shared.Get(ctx, key); found {
		c.local.Set(ctx, key, val, 0) // default TTL
		return val, true
	}
	return nil, false
}

// Set stores a value in both tiers.
func (c *LayeredCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.local.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return c.shared.Set(ctx, key, value, ttl)
}

// Delete removes a value from both tiers.
func (c *LayeredCache) Delete(ctx context.Context, key string) error {
	c.local.Delete(ctx, key)
	return c.shared.Delete(ctx, key)
}

// Clear removes all values from both tiers.
func (c *LayeredCache) Clear(ctx context.Context) error {
	c.local.Clear(ctx)
	return c.shared.Clear(ctx)
}
