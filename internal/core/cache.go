package core

import (
	"context"
	"time"
)

// Cache[T] is a key-value cache shared by report requests. Implementations
// live in internal/cache (memory and Redis).
type Cache[T any] interface {
	// Get returns cache.ErrCacheMiss if the key is absent or expired.
	Get(ctx context.Context, key string) (T, error)
	Set(ctx context.Context, key string, value T, ttl time.Duration) error

	// MGet returns only the keys that were found.
	MGet(ctx context.Context, keys []string) (map[string]T, error)
	MSet(ctx context.Context, values map[string]T, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
	Close() error
	Health(ctx context.Context) error

	// GetWithFetch calls fetchFunc on a miss and stores its result.
	GetWithFetch(
		ctx context.Context,
		key string,
		ttl time.Duration,
		fetchFunc func(ctx context.Context, key string) (T, error),
	) (T, error)
}
