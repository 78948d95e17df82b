package ports

import (
	"context"
	"time"
)

// Cache is the short-TTL response cache used by the dashboard read paths and
// the list-view controller. Implementations: Redis, or the in-memory
// fallback when Redis is unavailable.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}
