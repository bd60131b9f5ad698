package metrics

import "time"

// NoopMetrics is a no-operation implementation of Recorder, used when
// METRICS_ENABLED is false.
type NoopMetrics struct{}

// Ensure NoopMetrics implements Recorder interface at compile time
var _ Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordReportRendered(rows int, duration time.Duration)                {}
func (n *NoopMetrics) RecordReportExported(format string, rows int, duration time.Duration) {}
func (n *NoopMetrics) RecordPermissionDenied()                                              {}
func (n *NoopMetrics) RecordFieldFallback(field string)                                     {}

func (n *NoopMetrics) RecordGatewayError(operation string)          {}
func (n *NoopMetrics) RecordCacheLookup(cacheName string, hit bool) {}
func (n *NoopMetrics) RecordEventsLogged(count int, success bool)   {}

func (n *NoopMetrics) SetLogEventsCount(count int64)      {}
func (n *NoopMetrics) SetLogEventsTodayCount(count int64) {}

func (n *NoopMetrics) RecordDatabaseQueryError(operation string) {}
