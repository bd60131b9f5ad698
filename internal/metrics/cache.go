package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/jimmy-wims/course-log/internal/core"
)

// CacheWrapper provides a read-through cache for the log store gauges so
// that several instances do not all count the table on every tick.
type CacheWrapper struct {
	store core.MetricsStore
	cache core.Cache[int64]
}

// NewCacheWrapper creates a new cache wrapper for metrics.
func NewCacheWrapper(store core.MetricsStore, cache core.Cache[int64]) *CacheWrapper {
	return &CacheWrapper{
		store: store,
		cache: cache,
	}
}

// GetLogEventsCount returns the total number of stored events.
func (m *CacheWrapper) GetLogEventsCount(ctx context.Context, ttl time.Duration) (int64, error) {
	return m.cache.GetWithFetch(ctx, "events:total", ttl,
		func(ctx context.Context, _ string) (int64, error) {
			return m.store.CountLogEvents(ctx)
		},
	)
}

// GetLogEventsSinceCount returns the number of events created at or after
// since (unix seconds). The cache key includes since, so a new day starts a
// new entry.
func (m *CacheWrapper) GetLogEventsSinceCount(
	ctx context.Context,
	since int64,
	ttl time.Duration,
) (int64, error) {
	return m.cache.GetWithFetch(ctx, "events:since:"+strconv.FormatInt(since, 10), ttl,
		func(ctx context.Context, _ string) (int64, error) {
			return m.store.CountLogEventsSince(ctx, since)
		},
	)
}

// Refresh updates the stored-events gauges of r. Errors are counted, not
// returned, so a failing store never stops the updater.
func (m *CacheWrapper) Refresh(ctx context.Context, r Recorder, ttl time.Duration, now time.Time) {
	if total, err := m.GetLogEventsCount(ctx, ttl); err != nil {
		r.RecordDatabaseQueryError("count_log_events")
	} else {
		r.SetLogEventsCount(total)
	}

	midnight := now.UTC().Truncate(24 * time.Hour).Unix()
	if today, err := m.GetLogEventsSinceCount(ctx, midnight, ttl); err != nil {
		r.RecordDatabaseQueryError("count_log_events_today")
	} else {
		r.SetLogEventsTodayCount(today)
	}
}
