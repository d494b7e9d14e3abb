package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache stores fetched artifacts that are expensive to re-download:
// source listings (PyPI simple index, category pages) and the common
// English word list used by keyword extraction.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
}

// Key derives a stable cache key from an arbitrary resource locator.
func Key(locator string) string {
	sum := sha256.Sum256([]byte(locator))
	return "anchorbench:v1:" + hex.EncodeToString(sum[:])
}

// Memory is an in-process cache layer.
type Memory struct {
	cache *gocache.Cache
}

// NewMemory creates a memory cache with the given default TTL.
func NewMemory(defaultTTL time.Duration) *Memory {
	return &Memory{cache: gocache.New(defaultTTL, 10*time.Minute)}
}

// Get retrieves a value from the cache.
func (m *Memory) Get(key string) ([]byte, bool) {
	if val, found := m.cache.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores a value with the given TTL (0 uses the default).
func (m *Memory) Set(key string, value []byte, ttl time.Duration) error {
	m.cache.Set(key, value, ttl)
	return nil
}

// Delete removes a value from the cache.
func (m *Memory) Delete(key string) error {
	m.cache.Delete(key)
	return nil
}
