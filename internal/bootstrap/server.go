package bootstrap

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/jimmy-wims/course-log/internal/config"
	"github.com/jimmy-wims/course-log/internal/core"
	"github.com/jimmy-wims/course-log/internal/metrics"
	"github.com/jimmy-wims/course-log/internal/services"
	"github.com/jimmy-wims/course-log/internal/store"

	"github.com/appleboy/graceful"
	"github.com/redis/go-redis/v9"
)

// createHTTPServer creates the HTTP server instance. WriteTimeout is long
// enough for large CSV and spreadsheet downloads.
func createHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}
}

// addServerRunningJob adds the HTTP server running job
func addServerRunningJob(m *graceful.Manager, srv *http.Server) {
	m.AddRunningJob(func(ctx context.Context) error {
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()
		<-ctx.Done()
		return nil
	})
}

// addServerShutdownJob adds HTTP server shutdown handler
func addServerShutdownJob(m *graceful.Manager, srv *http.Server, timeout time.Duration) {
	m.AddShutdownJob(func() error {
		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
			return err
		}

		log.Println("Server exited")
		return nil
	})
}

// addRedisClientShutdownJob adds Redis client shutdown handler
func addRedisClientShutdownJob(m *graceful.Manager, redisClient *redis.Client) {
	if redisClient == nil {
		return
	}

	m.AddShutdownJob(func() error {
		log.Println("Closing Redis connection...")
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
			return err
		}
		log.Println("Redis connection closed")
		return nil
	})
}

// addEventLoggerShutdownJob flushes buffered report events on shutdown
func addEventLoggerShutdownJob(
	m *graceful.Manager,
	events *services.EventLogger,
	timeout time.Duration,
) {
	m.AddShutdownJob(func() error {
		log.Println("Flushing report events...")
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := events.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down event logger: %v", err)
			return err
		}
		return nil
	})
}

// addMetricsGaugeUpdateJob adds periodic metrics gauge update job
func addMetricsGaugeUpdateJob(
	m *graceful.Manager,
	cfg *config.Config,
	db *store.Store,
	prometheusMetrics core.Recorder,
	metricsCache core.Cache[int64],
) {
	if !cfg.MetricsEnabled || !cfg.MetricsGaugeUpdateEnabled || metricsCache == nil {
		return
	}

	m.AddRunningJob(func(ctx context.Context) error {
		ticker := time.NewTicker(cfg.MetricsGaugeUpdateInterval)
		defer ticker.Stop()

		cacheWrapper := metrics.NewCacheWrapper(db, metricsCache)
		recorder := newErrorLoggingRecorder(prometheusMetrics)

		// Update immediately on startup
		cacheWrapper.Refresh(ctx, recorder, cfg.MetricsGaugeUpdateInterval, time.Now())

		for {
			select {
			case <-ticker.C:
				cacheWrapper.Refresh(ctx, recorder, cfg.MetricsGaugeUpdateInterval, time.Now())
			case <-ctx.Done():
				return nil
			}
		}
	})
}

// addCacheCleanupJob adds cache cleanup on shutdown
func addCacheCleanupJob(m *graceful.Manager, closers []namedCloser) {
	if len(closers) == 0 {
		return
	}

	m.AddShutdownJob(func() error {
		for _, c := range closers {
			if err := c.close(); err != nil {
				log.Printf("Error closing %s cache: %v", c.name, err)
			} else {
				log.Printf("%s cache closed", c.name)
			}
		}
		return nil
	})
}

// addDatabaseCloseJob closes the store once the server has stopped
func addDatabaseCloseJob(m *graceful.Manager, db *store.Store) {
	m.AddShutdownJob(func() error {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
			return err
		}
		return nil
	})
}

// errorLogger handles rate-limited error logging
type errorLogger struct {
	mu              sync.Mutex
	lastErrorTimes  map[string]time.Time
	rateLimitWindow time.Duration
}

// newErrorLogger creates a new error logger with rate limiting
func newErrorLogger() *errorLogger {
	return &errorLogger{
		lastErrorTimes:  make(map[string]time.Time),
		rateLimitWindow: 5 * time.Minute, // Log at most once per 5 minutes per operation
	}
}

// logIfNeeded logs an error only if rate limit allows. It reports whether
// the line was written.
func (e *errorLogger) logIfNeeded(operation string, now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	lastTime, exists := e.lastErrorTimes[operation]
	if exists && now.Sub(lastTime) < e.rateLimitWindow {
		return false
	}
	log.Printf("Database query failed for %s (further errors will be suppressed for %v)",
		operation, e.rateLimitWindow)
	e.lastErrorTimes[operation] = now
	return true
}

// errorLoggingRecorder logs gauge query failures, at most once per window
// and operation, before counting them.
type errorLoggingRecorder struct {
	core.Recorder
	errors *errorLogger
}

func newErrorLoggingRecorder(r core.Recorder) *errorLoggingRecorder {
	return &errorLoggingRecorder{Recorder: r, errors: newErrorLogger()}
}

func (r *errorLoggingRecorder) RecordDatabaseQueryError(operation string) {
	r.errors.logIfNeeded(operation, time.Now())
	r.Recorder.RecordDatabaseQueryError(operation)
}
