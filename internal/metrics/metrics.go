package metrics

import (
	"sync"
	"time"

	"github.com/jimmy-wims/course-log/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is the metrics interface used across the application.
type Recorder = core.Recorder

// Ensure Metrics implements Recorder interface at compile time
var _ Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Report Metrics
	ReportsRenderedTotal  prometheus.Counter
	ReportRenderDuration  prometheus.Histogram
	ReportRowsPerPage     prometheus.Histogram
	ReportsExportedTotal  *prometheus.CounterVec
	ReportExportDuration  *prometheus.HistogramVec
	ReportExportRows      *prometheus.HistogramVec
	PermissionDeniedTotal prometheus.Counter
	FieldFallbackTotal    *prometheus.CounterVec
	GatewayErrorsTotal    *prometheus.CounterVec
	CacheLookupsTotal     *prometheus.CounterVec
	ViewEventsLoggedTotal *prometheus.CounterVec
	LogEventsStored       prometheus.Gauge
	LogEventsStoredToday  prometheus.Gauge

	// HTTP Request Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Database Query Metrics
	DatabaseQueryErrorsTotal *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init initializes metrics based on enabled flag
// If enabled=true, returns Prometheus-based Metrics
// If enabled=false, returns NoopMetrics (zero overhead)
// Uses sync.Once to ensure Prometheus metrics are only registered once
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

// initMetrics creates and registers all Prometheus metrics
func initMetrics() *Metrics {
	rowBuckets := []float64{0, 1, 5, 15, 50, 100, 500, 1000, 5000, 20000}

	return &Metrics{
		ReportsRenderedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "course_log_reports_rendered_total",
				Help: "Total number of interactive report pages rendered",
			},
		),
		ReportRenderDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "course_log_report_render_duration_seconds",
				Help:    "Time taken to query and enrich one report page",
				Buckets: prometheus.DefBuckets,
			},
		),
		ReportRowsPerPage: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "course_log_report_page_rows",
				Help:    "Number of rows on rendered report pages",
				Buckets: rowBuckets,
			},
		),
		ReportsExportedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "course_log_reports_exported_total",
				Help: "Total number of report exports",
			},
			[]string{"format"}, // csv, excel, json, html
		),
		ReportExportDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "course_log_report_export_duration_seconds",
				Help:    "Time taken to stream a report export",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"format"},
		),
		ReportExportRows: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "course_log_report_export_rows",
				Help:    "Number of rows written by report exports",
				Buckets: rowBuckets,
			},
			[]string{"format"},
		),
		PermissionDeniedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "course_log_permission_denied_total",
				Help: "Total number of report requests rejected for missing capability",
			},
		),
		FieldFallbackTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "course_log_field_fallback_total",
				Help: "Total number of row fields rendered with a placeholder",
			},
			[]string{"field"}, // fullnameuser, context, group
		),
		GatewayErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "course_log_gateway_errors_total",
				Help: "Total number of failed log reader or directory calls",
			},
			[]string{"operation"},
		),
		CacheLookupsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "course_log_cache_lookups_total",
				Help: "Total number of cache lookups",
			},
			[]string{"cache", "result"}, // hit, miss
		),
		ViewEventsLoggedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "course_log_view_events_logged_total",
				Help: "Total number of report viewed/exported events written",
			},
			[]string{"result"},
		),
		LogEventsStored: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "course_log_events_stored",
				Help: "Current number of events in the standard log store",
			},
		),
		LogEventsStoredToday: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "course_log_events_stored_today",
				Help: "Number of events stored since midnight UTC",
			},
		),

		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being processed",
			},
		),

		DatabaseQueryErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "database_query_errors_total",
				Help: "Total number of database query errors during metric collection",
			},
			[]string{"operation"},
		),
	}
}

// RecordReportRendered records one rendered report page
func (m *Metrics) RecordReportRendered(rows int, duration time.Duration) {
	m.ReportsRenderedTotal.Inc()
	m.ReportRenderDuration.Observe(duration.Seconds())
	m.ReportRowsPerPage.Observe(float64(rows))
}

// RecordReportExported records one completed export
func (m *Metrics) RecordReportExported(format string, rows int, duration time.Duration) {
	m.ReportsExportedTotal.WithLabelValues(format).Inc()
	m.ReportExportDuration.WithLabelValues(format).Observe(duration.Seconds())
	m.ReportExportRows.WithLabelValues(format).Observe(float64(rows))
}

// RecordPermissionDenied records a request rejected by the capability check
func (m *Metrics) RecordPermissionDenied() {
	m.PermissionDeniedTotal.Inc()
}

// RecordFieldFallback records a field rendered with a placeholder
func (m *Metrics) RecordFieldFallback(field string) {
	m.FieldFallbackTotal.WithLabelValues(field).Inc()
}

// RecordGatewayError records a failed call to the log store or directory
func (m *Metrics) RecordGatewayError(operation string) {
	m.GatewayErrorsTotal.WithLabelValues(operation).Inc()
}

// RecordCacheLookup records a cache hit or miss
func (m *Metrics) RecordCacheLookup(cacheName string, hit bool) {
	result := "hit"
	if !hit {
		result = "miss"
	}
	m.CacheLookupsTotal.WithLabelValues(cacheName, result).Inc()
}

// RecordEventsLogged records a flushed batch of the report's own events
func (m *Metrics) RecordEventsLogged(count int, success bool) {
	result := resultSuccess
	if !success {
		result = resultError
	}
	m.ViewEventsLoggedTotal.WithLabelValues(result).Add(float64(count))
}

// SetLogEventsCount sets the stored event count (for periodic updates)
func (m *Metrics) SetLogEventsCount(count int64) {
	m.LogEventsStored.Set(float64(count))
}

// SetLogEventsTodayCount sets today's stored event count (for periodic updates)
func (m *Metrics) SetLogEventsTodayCount(count int64) {
	m.LogEventsStoredToday.Set(float64(count))
}

// RecordDatabaseQueryError records a database query error during metric collection
func (m *Metrics) RecordDatabaseQueryError(operation string) {
	m.DatabaseQueryErrorsTotal.WithLabelValues(operation).Inc()
}
