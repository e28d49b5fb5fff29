package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching identification results
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// StatsReporter is implemented by caches that count lookups
type StatsReporter interface {
	Stats() (hits, misses int64)
}

// Key derives a cache key from a namespace (provider name, target code) and
// the text being identified
func Key(namespace, text string) string {
	hash := sha256.Sum256([]byte(namespace + "\x00" + text))
	return "gncorpora:v1:" + hex.EncodeToString(hash[:])
}
