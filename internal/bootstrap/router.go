package bootstrap

import (
	"log"
	"net/http"

	"github.com/jimmy-wims/course-log/internal/config"
	"github.com/jimmy-wims/course-log/internal/core"
	"github.com/jimmy-wims/course-log/internal/lang"
	"github.com/jimmy-wims/course-log/internal/metrics"
	"github.com/jimmy-wims/course-log/internal/middleware"
	"github.com/jimmy-wims/course-log/internal/services"
	"github.com/jimmy-wims/course-log/internal/store"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const sessionCookieName = "course_log_session"

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(
	cfg *config.Config,
	db *store.Store,
	h handlerSet,
	prometheusMetrics core.Recorder,
	bundle *lang.Bundle,
	rateLimitRedisClient *redis.Client,
) (*gin.Engine, error) {
	// Setup Gin mode
	setupGinMode(cfg)
	r := gin.New()

	// Setup middleware
	r.Use(metrics.HTTPMetricsMiddleware(prometheusMetrics))
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.RequestContext())

	// Setup session middleware
	setupSessionMiddleware(r, cfg)
	r.Use(middleware.Authenticate(h.auth))

	// Health check endpoint
	r.GET("/health", createHealthCheckHandler(db))

	// Setup metrics endpoint
	setupMetricsEndpoint(r, cfg)

	// Setup rate limiting
	exportLimiter, err := setupExportRateLimit(cfg, bundle, rateLimitRedisClient)
	if err != nil {
		return nil, err
	}

	// Setup all routes
	setupAllRoutes(r, cfg, h, exportLimiter)

	// Log server startup info
	logServerStartup(cfg)

	return r, nil
}

// setupSessionMiddleware configures session handling middleware
func setupSessionMiddleware(r *gin.Engine, cfg *config.Config) {
	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionCookieName, sessionStore))
}

// setupMetricsEndpoint configures the Prometheus metrics endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config) {
	switch {
	case !cfg.MetricsEnabled:
		log.Printf("Prometheus metrics disabled")
	case cfg.MetricsToken != "":
		log.Printf("Prometheus metrics enabled at /metrics with Bearer token authentication")
		r.GET(
			"/metrics",
			middleware.MetricsAuthMiddleware(cfg.MetricsToken),
			gin.WrapH(promhttp.Handler()),
		)
	default:
		log.Printf("Prometheus metrics enabled at /metrics (no authentication)")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// setupAllRoutes configures all application routes
func setupAllRoutes(
	r *gin.Engine,
	cfg *config.Config,
	h handlerSet,
	exportLimiter gin.HandlerFunc,
) {
	// Public routes
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, cfg.LoginURL)
	})

	// Swagger documentation (development only)
	if !cfg.IsProduction {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		log.Printf("Swagger UI enabled at: %s/swagger/index.html", cfg.BaseURL)
	}

	// Session routes
	r.GET("/session/handoff", h.session.Handoff)
	r.GET("/logout", h.session.Logout)

	// Report page, downloads are limited per viewer
	course := r.Group("/course")
	course.Use(middleware.RequireAuth(h.auth))
	{
		course.GET("/report/log", exportLimiter, h.report.ShowReport)
	}

	// JSON API
	api := r.Group("/api/courses/:id")
	api.Use(middleware.RequireAuth(h.auth))
	{
		api.GET("/log", h.report.ListLogs)
		api.GET("/log/options", h.report.GetOptions)
		api.GET("/navigation", h.report.GetNavigation)
	}
}

// createHealthCheckHandler creates health check endpoint handler
// healthCheck godoc
//
//	@Summary		Health check
//	@Description	Check server and database health status
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	object{status=string,database=string}	"Service is healthy"
//	@Failure		503	{object}	object{status=string,database=string}	"Service is unhealthy"
//	@Router			/health [get]
func createHealthCheckHandler(db *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch err := db.Health(); err {
		case nil:
			c.JSON(http.StatusOK, gin.H{
				"status":   "healthy",
				"database": "connected",
			})
		default:
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "disconnected",
			})
		}
	}
}

// setupGinMode sets Gin mode based on environment configuration
func setupGinMode(cfg *config.Config) {
	mode := ginModeMap[cfg.IsProduction]
	gin.SetMode(mode)
	log.Printf("Gin mode: %s", ginModeLogMessage[cfg.IsProduction])
}

var ginModeMap = map[bool]string{
	true:  gin.ReleaseMode,
	false: gin.DebugMode,
}

var ginModeLogMessage = map[bool]string{
	true:  "Release (production)",
	false: "Debug (development)",
}

// logServerStartup logs server startup information
func logServerStartup(cfg *config.Config) {
	log.Printf("Report time zone: %s, default language: %s", cfg.ReportTimezone, cfg.ReportDefaultLang)
	log.Printf("Course log report starting on %s", cfg.ServerAddr)
	log.Printf("Report URL: %s%s", cfg.BaseURL, services.ReportURL(1))
	log.Printf("  (Tip: open /session/handoff?token=... with a viewer token from the host platform)")
}
