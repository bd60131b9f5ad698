package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jimmy-wims/course-log/internal/cache"
	"github.com/jimmy-wims/course-log/internal/mocks"
)

func TestCacheWrapper_GetLogEventsCount_CacheHit(t *testing.T) {
	ctx := context.Background()
	memCache := cache.NewMemoryCache[int64]()
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockMetricsStore(ctrl)
	// No expectations: a store call fails the test

	wrapper := NewCacheWrapper(mockStore, memCache)
	require.NoError(t, memCache.Set(ctx, "events:total", 42, time.Minute))

	count, err := wrapper.GetLogEventsCount(ctx, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
}

func TestCacheWrapper_GetLogEventsCount_CacheMiss(t *testing.T) {
	ctx := context.Background()
	memCache := cache.NewMemoryCache[int64]()
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockMetricsStore(ctrl)
	mockStore.EXPECT().CountLogEvents(gomock.Any()).Return(int64(100), nil).Times(1)

	wrapper := NewCacheWrapper(mockStore, memCache)

	count, err := wrapper.GetLogEventsCount(ctx, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(100), count)

	// second call is served from the cache
	count, err = wrapper.GetLogEventsCount(ctx, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(100), count)
}

func TestCacheWrapper_GetLogEventsSinceCount_DBError(t *testing.T) {
	ctx := context.Background()
	memCache := cache.NewMemoryCache[int64]()
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockMetricsStore(ctrl)
	mockStore.EXPECT().
		CountLogEventsSince(gomock.Any(), int64(1700000000)).
		Return(int64(0), errors.New("db down"))

	wrapper := NewCacheWrapper(mockStore, memCache)

	_, err := wrapper.GetLogEventsSinceCount(ctx, 1700000000, time.Minute)
	require.Error(t, err)

	_, err = memCache.Get(ctx, "events:since:1700000000")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestCacheWrapper_Refresh(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockMetricsStore(ctrl)

	now := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	midnight := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC).Unix()
	mockStore.EXPECT().CountLogEvents(gomock.Any()).Return(int64(500), nil)
	mockStore.EXPECT().CountLogEventsSince(gomock.Any(), midnight).Return(int64(0), errors.New("timeout"))

	m := Init(true).(*Metrics)
	before := testutil.ToFloat64(m.DatabaseQueryErrorsTotal.WithLabelValues("count_log_events_today"))

	wrapper := NewCacheWrapper(mockStore, cache.NewMemoryCache[int64]())
	wrapper.Refresh(ctx, m, time.Minute, now)

	assert.Equal(t, float64(500), testutil.ToFloat64(m.LogEventsStored))
	assert.Equal(t, before+1,
		testutil.ToFloat64(m.DatabaseQueryErrorsTotal.WithLabelValues("count_log_events_today")))
}
