package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jimmy-wims/course-log/internal/core"
)

type cacheItem[T any] struct {
	value     T
	expiresAt time.Time
}

func (i cacheItem[T]) live(now time.Time) bool {
	return now.Before(i.expiresAt)
}

// Compile-time interface check.
var _ core.Cache[struct{}] = (*MemoryCache[struct{}])(nil)

// DefaultMaxEntries bounds a MemoryCache created without an explicit limit.
const DefaultMaxEntries = 10000

// MemoryCache is a process-local cache with lazy expiry. When the entry
// limit is reached, expired entries are swept before the new one is stored;
// if none expired the write is dropped.
type MemoryCache[T any] struct {
	mu         sync.RWMutex
	items      map[string]cacheItem[T]
	maxEntries int
}

// NewMemoryCache creates a memory cache holding at most DefaultMaxEntries.
func NewMemoryCache[T any]() *MemoryCache[T] {
	return NewMemoryCacheWithLimit[T](DefaultMaxEntries)
}

// NewMemoryCacheWithLimit creates a memory cache holding at most maxEntries
// (unbounded when maxEntries <= 0).
func NewMemoryCacheWithLimit[T any](maxEntries int) *MemoryCache[T] {
	return &MemoryCache[T]{
		items:      make(map[string]cacheItem[T]),
		maxEntries: maxEntries,
	}
}

func (m *MemoryCache[T]) Get(ctx context.Context, key string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[key]
	if !ok || !item.live(time.Now()) {
		var zero T
		return zero, ErrCacheMiss
	}
	return item.value, nil
}

func (m *MemoryCache[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store(key, value, time.Now().Add(ttl))
	return nil
}

func (m *MemoryCache[T]) MGet(ctx context.Context, keys []string) (map[string]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now()
	result := make(map[string]T, len(keys))
	for _, key := range keys {
		if item, ok := m.items[key]; ok && item.live(now) {
			result[key] = item.value
		}
	}
	return result, nil
}

func (m *MemoryCache[T]) MSet(ctx context.Context, values map[string]T, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	expiresAt := time.Now().Add(ttl)
	for key, value := range values {
		m.store(key, value, expiresAt)
	}
	return nil
}

// store must be called with the write lock held.
func (m *MemoryCache[T]) store(key string, value T, expiresAt time.Time) {
	if _, exists := m.items[key]; !exists && m.maxEntries > 0 && len(m.items) >= m.maxEntries {
		m.sweep(time.Now())
		if len(m.items) >= m.maxEntries {
			return
		}
	}
	m.items[key] = cacheItem[T]{value: value, expiresAt: expiresAt}
}

func (m *MemoryCache[T]) sweep(now time.Time) {
	for key, item := range m.items {
		if !item.live(now) {
			delete(m.items, key)
		}
	}
}

// Len returns the number of stored entries, expired ones included.
func (m *MemoryCache[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func (m *MemoryCache[T]) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}

// Close drops every entry.
func (m *MemoryCache[T]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = make(map[string]cacheItem[T])
	return nil
}

func (m *MemoryCache[T]) Health(ctx context.Context) error {
	return nil
}

func (m *MemoryCache[T]) GetWithFetch(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fetchFunc func(ctx context.Context, key string) (T, error),
) (T, error) {
	return getWithFetch(ctx, m, key, ttl, fetchFunc)
}

// getWithFetch is the cache-aside helper shared by implementations without
// stampede protection.
func getWithFetch[T any](
	ctx context.Context,
	c core.Cache[T],
	key string,
	ttl time.Duration,
	fetchFunc func(ctx context.Context, key string) (T, error),
) (T, error) {
	if value, err := c.Get(ctx, key); err == nil {
		return value, nil
	}
	value, err := fetchFunc(ctx, key)
	if err != nil {
		var zero T
		return zero, err
	}
	_ = c.Set(ctx, key, value, ttl)
	return value, nil
}
