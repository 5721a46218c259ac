package ports

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value cache.
// Errors are advisory: callers fall back to the primary store.
type Cache interface {
	// Get returns the raw bytes for key; ok is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value for key with ttl (<= 0 means no expiry).
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key; absence is not an error.
	Delete(ctx context.Context, key string) error
}
