package ports

import (
	"context"
	"time"
)

// RateLimitRepository provides atomic fixed-window counters keyed by an arbitrary string.
// Implementations must be safe for concurrent use.
type RateLimitRepository interface {
	// IncrementWindow increments the counter for key in the current window and ensures it
	// expires after ttl. Returns the updated count and the window start time.
	IncrementWindow(ctx context.Context, key string, window time.Duration, keyPrefix string, ttl time.Duration) (count int, windowStart time.Time, err error)
}

// RateLimiterService throttles requests per client key (usually the remote IP).
type RateLimiterService interface {
	// Allow consumes one unit for key.
	// remaining is the number of further requests allowed in the current window (>=0);
	// reset is when the window ends.
	Allow(ctx context.Context, key string) (allowed bool, remaining int, limit int, reset time.Time, err error)
}
