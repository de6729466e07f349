package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is the in-process cache tier
type Memory struct {
	store *gocache.Cache
}

// NewMemory creates an in-memory cache with the given default TTL
func NewMemory(defaultTTL time.Duration) *Memory {
	return &Memory{store: gocache.New(defaultTTL, 10*time.Minute)}
}

// Get retrieves a cached response
func (m *Memory) Get(key string) ([]byte, bool) {
	if val, found := m.store.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores a response; ttl 0 uses the default
func (m *Memory) Set(key string, value []byte, ttl time.Duration) error {
	m.store.Set(key, value, ttl)
	return nil
}

// Delete removes one entry
func (m *Memory) Delete(key string) error {
	m.store.Delete(key)
	return nil
}

// Clear removes all entries
func (m *Memory) Clear() error {
	m.store.Flush()
	return nil
}
