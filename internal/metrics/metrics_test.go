package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	m := Init(true)
	require.NotNil(t, m)

	metrics, ok := m.(*Metrics)
	require.True(t, ok, "Init(true) should return *Metrics")
	assert.NotNil(t, metrics.ReportsRenderedTotal)
	assert.NotNil(t, metrics.ReportsExportedTotal)
	assert.NotNil(t, metrics.HTTPRequestsTotal)

	assert.Same(t, metrics, Init(true), "Init should register metrics once")
}

func TestInitNoop(t *testing.T) {
	m := Init(false)
	_, ok := m.(*NoopMetrics)
	assert.True(t, ok, "Init(false) should return *NoopMetrics")

	// must not panic
	m.RecordReportRendered(15, time.Millisecond)
	m.RecordReportExported("csv", 40, time.Second)
	m.RecordPermissionDenied()
	m.RecordFieldFallback("context")
	m.RecordGatewayError("fetch")
	m.RecordCacheLookup("usernames", true)
	m.RecordEventsLogged(3, true)
	m.SetLogEventsCount(10)
	m.SetLogEventsTodayCount(1)
	m.RecordDatabaseQueryError("count")
}

func TestRecordReportMetrics(t *testing.T) {
	m := Init(true).(*Metrics)

	before := testutil.ToFloat64(m.ReportsExportedTotal.WithLabelValues("excel"))
	m.RecordReportExported("excel", 40, 2*time.Second)
	assert.Equal(t, before+1, testutil.ToFloat64(m.ReportsExportedTotal.WithLabelValues("excel")))

	before = testutil.ToFloat64(m.PermissionDeniedTotal)
	m.RecordPermissionDenied()
	assert.Equal(t, before+1, testutil.ToFloat64(m.PermissionDeniedTotal))

	before = testutil.ToFloat64(m.CacheLookupsTotal.WithLabelValues("usernames", "miss"))
	m.RecordCacheLookup("usernames", false)
	assert.Equal(t, before+1, testutil.ToFloat64(m.CacheLookupsTotal.WithLabelValues("usernames", "miss")))

	before = testutil.ToFloat64(m.ViewEventsLoggedTotal.WithLabelValues("success"))
	m.RecordEventsLogged(5, true)
	assert.Equal(t, before+5, testutil.ToFloat64(m.ViewEventsLoggedTotal.WithLabelValues("success")))

	m.SetLogEventsCount(1234)
	assert.Equal(t, float64(1234), testutil.ToFloat64(m.LogEventsStored))
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := Init(true).(*Metrics)

	r := gin.New()
	r.Use(HTTPMetricsMiddleware(m))
	r.GET("/course/report/log", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	before := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/course/report/log", "200"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/course/report/log?id=2", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, before+1,
		testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/course/report/log", "200")))
}

func TestHTTPMetricsMiddleware_SkipsHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := Init(true).(*Metrics)

	r := gin.New()
	r.Use(HTTPMetricsMiddleware(m))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Zero(t, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/health", "200")))
}

func TestHTTPMetricsMiddleware_Noop(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(HTTPMetricsMiddleware(NewNoopMetrics()))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, "pong", w.Body.String())
}

func TestRoutePattern(t *testing.T) {
	assert.Equal(t, "unknown", routePattern(""))
	assert.Equal(t, "/api/courses/:id/log", routePattern("/api/courses/:id/log"))
}
