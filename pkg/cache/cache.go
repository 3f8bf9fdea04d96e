// Package cache stores rendered artifacts keyed by the options that produced
// them.
//
// Only renders with an explicit seed are deterministic, so only those are
// worth caching. Three backends are provided: [NullCache] (the default, which
// never stores anything), [FileCache] for the CLI, and [RedisCache] for
// servers sharing a cache.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long a rendered image stays cached.
const TTLArtifact = 24 * time.Hour

// Cache is a byte store with optional per-entry expiry.
//
// Get reports a miss with (nil, false, nil); an error means the backend
// itself failed. A ttl of zero means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
