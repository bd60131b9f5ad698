package bootstrap

import (
	"context"
	"net/http"

	"github.com/jimmy-wims/course-log/internal/config"
	"github.com/jimmy-wims/course-log/internal/core"
	"github.com/jimmy-wims/course-log/internal/lang"
	"github.com/jimmy-wims/course-log/internal/services"
	"github.com/jimmy-wims/course-log/internal/store"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config

	// Core infrastructure
	DB                   *store.Store
	MetricsRecorder      core.Recorder
	MetricsCache         core.Cache[int64]
	NameCache            core.Cache[string]
	ComponentCache       core.Cache[[]string]
	cacheClosers         []namedCloser
	RateLimitRedisClient *redis.Client

	// Business layer
	Bundle        *lang.Bundle
	EventLogger   *services.EventLogger
	ReportService *services.ReportService

	// HTTP
	HandlerSet handlerSet
	Router     *gin.Engine
	Server     *http.Server
}

// namedCloser closes a cache on shutdown.
type namedCloser struct {
	name  string
	close func() error
}

// Run initializes and starts the application
func Run(cfg *config.Config) error {
	app := &Application{Config: cfg}

	// Phase 1: Validate configuration
	if err := validateAllConfiguration(cfg); err != nil {
		return err
	}

	ctx := context.Background()

	// Phase 2: Initialize infrastructure
	if err := app.initializeInfrastructure(ctx); err != nil {
		return err
	}

	// Phase 3: Initialize business layer
	if err := app.initializeBusinessLayer(); err != nil {
		return err
	}

	// Phase 4: Initialize HTTP layer
	if err := app.initializeHTTPLayer(); err != nil {
		return err
	}

	// Phase 5: Start server with graceful shutdown
	app.startWithGracefulShutdown()

	return nil
}

// initializeInfrastructure sets up database, metrics, caches, and Redis
func (app *Application) initializeInfrastructure(ctx context.Context) error {
	var err error

	// Database
	app.DB, err = initializeDatabase(ctx, app.Config)
	if err != nil {
		return err
	}

	// Metrics
	app.MetricsRecorder = initializeMetrics(app.Config)
	if app.Config.MetricsEnabled && app.Config.MetricsGaugeUpdateEnabled {
		app.MetricsCache, err = initializeCache[int64](ctx, app.Config, "metrics")
		if err != nil {
			return err
		}
		app.addCacheCloser("metrics", app.MetricsCache)
	}

	// Shared caches of the report
	app.NameCache, err = initializeCache[string](ctx, app.Config, "names")
	if err != nil {
		return err
	}
	app.addCacheCloser("names", app.NameCache)

	app.ComponentCache, err = initializeCache[[]string](ctx, app.Config, "components")
	if err != nil {
		return err
	}
	app.addCacheCloser("components", app.ComponentCache)

	// Redis (for rate limiting)
	app.RateLimitRedisClient, err = initializeRateLimitRedisClient(ctx, app.Config)
	if err != nil {
		return err
	}

	return nil
}

func (app *Application) addCacheCloser(name string, c interface{ Close() error }) {
	app.cacheClosers = append(app.cacheClosers, namedCloser{name: name, close: c.Close})
}

// initializeBusinessLayer sets up services
func (app *Application) initializeBusinessLayer() error {
	var err error

	app.Bundle, err = lang.Load(app.Config.ReportDefaultLang)
	if err != nil {
		return err
	}

	// View events are written next to the logs they describe
	app.EventLogger = services.NewEventLogger(
		app.DB,
		app.Config.EnableViewLogging,
		app.Config.ViewLogBufferSize,
		app.MetricsRecorder,
	)

	app.ReportService, err = initializeReportService(
		app.Config,
		app.DB,
		app.NameCache,
		app.ComponentCache,
		app.Bundle,
		app.EventLogger,
		app.MetricsRecorder,
	)
	return err
}

// initializeHTTPLayer sets up handlers, router, and server
func (app *Application) initializeHTTPLayer() error {
	app.HandlerSet = initializeHandlers(app.Config, app.ReportService)

	var err error
	app.Router, err = setupRouter(
		app.Config,
		app.DB,
		app.HandlerSet,
		app.MetricsRecorder,
		app.Bundle,
		app.RateLimitRedisClient,
	)
	if err != nil {
		return err
	}

	app.Server = createHTTPServer(app.Config, app.Router)
	return nil
}

// startWithGracefulShutdown starts the server and handles graceful shutdown
func (app *Application) startWithGracefulShutdown() {
	m := graceful.NewManager()

	// Add jobs
	addServerRunningJob(m, app.Server)
	addServerShutdownJob(m, app.Server, app.Config.ServerShutdownTimeout)
	addRedisClientShutdownJob(m, app.RateLimitRedisClient)
	addEventLoggerShutdownJob(m, app.EventLogger, app.Config.ViewLogShutdownTimeout)
	addMetricsGaugeUpdateJob(m, app.Config, app.DB, app.MetricsRecorder, app.MetricsCache)
	addCacheCleanupJob(m, app.cacheClosers)
	addDatabaseCloseJob(m, app.DB)

	// Wait for graceful shutdown
	<-m.Done()
}
