// Package cache provides a TTL cache used in front of the read API.
// Redis backs it when REDIS_URL is set; otherwise an in-process map is
// used so single-instance deployments need no extra service.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache is a byte-oriented TTL cache. Expiry is the only invalidation
// mechanism; writers never purge entries. Close releases the backing
// store's resources.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}
