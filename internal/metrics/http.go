package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	resultSuccess = "success"
	resultError   = "error"
)

// unrecordedPaths are scraped or polled often and would drown the report
// routes in the request metrics.
var unrecordedPaths = map[string]bool{
	"/metrics": true,
	"/health":  true,
}

// HTTPMetricsMiddleware records request count, latency and in-flight
// requests per route. It is a no-op unless m is the Prometheus recorder.
func HTTPMetricsMiddleware(m Recorder) gin.HandlerFunc {
	prom, ok := m.(*Metrics)
	if !ok {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if unrecordedPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		prom.HTTPRequestsInFlight.Inc()
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)
		prom.HTTPRequestsInFlight.Dec()

		route := routePattern(c.FullPath())
		prom.HTTPRequestsTotal.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Inc()
		prom.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route).
			Observe(elapsed.Seconds())
	}
}

// routePattern keeps label cardinality bounded: unmatched routes share one label.
func routePattern(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	return fullPath
}
