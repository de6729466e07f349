// Package cache stores scoring-gateway responses for replay. Caching lives
// at the collaborator boundary; the assessment core itself touches no
// shared resource.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the response cache contract
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from a canonical request payload
func Key(payload []byte) string {
	hash := sha256.Sum256(payload)
	return "credlens:v1:" + hex.EncodeToString(hash[:])
}
