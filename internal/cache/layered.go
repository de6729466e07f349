package cache

import "time"

// Layered composes a fast tier over a slow tier (memory over disk). Hits in
// the slow tier are promoted.
type Layered struct {
	fast Cache
	slow Cache
}

// NewLayered creates a layered cache from explicit tiers
func NewLayered(fast, slow Cache) *Layered {
	return &Layered{fast: fast, slow: slow}
}

// Get checks the fast tier first, then the slow tier
func (c *Layered) Get(key string) ([]byte, bool) {
	if val, found := c.fast.Get(key); found {
		return val, true
	}
	if val, found := c.slow.Get(key); found {
		_ = c.fast.Set(key, val, 0)
		return val, true
	}
	return nil, false
}

// Set stores in both tiers
func (c *Layered) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.fast.Set(key, value, ttl); err != nil {
		return err
	}
	return c.slow.Set(key, value, ttl)
}

// Delete removes from both tiers
func (c *Layered) Delete(key string) error {
	_ = c.fast.Delete(key)
	return c.slow.Delete(key)
}

// Clear empties both tiers
func (c *Layered) Clear() error {
	_ = c.fast.Clear()
	return c.slow.Clear()
}
