package ports

import (
	"context"
	"time"
)

// CachePort is a small key-value cache with TTLs, used for hot counters
// like unread-notification counts. Implementations are optional; callers
// must behave correctly with a nil port.
type CachePort interface {
	// GetInt64 returns (value, true) on a hit, (0, false) on a miss.
	GetInt64(ctx context.Context, key string) (int64, bool, error)
	SetInt64(ctx context.Context, key string, value int64, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
