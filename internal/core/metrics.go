package core

import (
	"context"
	"time"
)

// Recorder defines the interface for recording application metrics.
// Implementations include Metrics (Prometheus-based) and NoopMetrics (no-op).
type Recorder interface {
	// Report pipeline
	RecordReportRendered(rows int, duration time.Duration)
	RecordReportExported(format string, rows int, duration time.Duration)
	RecordPermissionDenied()
	RecordFieldFallback(field string)

	// Gateways and caches
	RecordGatewayError(operation string)
	RecordCacheLookup(cacheName string, hit bool)

	// Event logger
	RecordEventsLogged(count int, success bool)

	// Gauge setters (periodic updates)
	SetLogEventsCount(count int64)
	SetLogEventsTodayCount(count int64)

	// Database Operations
	RecordDatabaseQueryError(operation string)
}

// MetricsStore defines the DB operations needed by the metrics CacheWrapper.
type MetricsStore interface {
	CountLogEvents(ctx context.Context) (int64, error)
	CountLogEventsSince(ctx context.Context, since int64) (int64, error)
}
