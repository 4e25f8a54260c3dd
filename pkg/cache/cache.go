// Package cache provides pluggable byte caches for registry responses.
//
// Backends: [FileCache] for local CLI use, [RedisCache] and [MongoCache]
// for shared deployments, and [NullCache] to disable caching. All
// backends store opaque byte payloads under string keys with a TTL.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache stores byte payloads under string keys with optional expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves the payload for key. The second result is false on a
	// miss (including expired entries).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes the entry for key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases any backend resources.
	Close() error
}

// Config selects and configures a cache backend.
type Config struct {
	Backend  string // "file", "redis", "mongo", or "none"
	Dir      string // FileCache directory
	RedisURL string // redis connection URL, e.g. "redis://localhost:6379/0"
	MongoURL string // mongodb connection URI
	MongoDB  string // mongo database name (default "reqsmith")
}

// Open creates the backend named by cfg.Backend.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileCache(cfg.Dir)
	case "redis":
		return NewRedisCache(ctx, cfg.RedisURL)
	case "mongo":
		return NewMongoCache(ctx, cfg.MongoURL, cfg.MongoDB)
	case "none":
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q (available: file, redis, mongo, none)", cfg.Backend)
	}
}
