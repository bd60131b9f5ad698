package bootstrap

import (
	"fmt"
	"log"

	"github.com/jimmy-wims/course-log/internal/config"
	"github.com/jimmy-wims/course-log/internal/lang"
	"github.com/jimmy-wims/course-log/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// setupExportRateLimit returns the limiter of report downloads, or a no-op
// middleware when rate limiting is disabled. Page views are never limited.
func setupExportRateLimit(
	cfg *config.Config,
	bundle *lang.Bundle,
	redisClient *redis.Client,
) (gin.HandlerFunc, error) {
	if !cfg.EnableRateLimit {
		return func(c *gin.Context) { c.Next() }, nil
	}

	storeType := middleware.RateLimitStoreType(cfg.RateLimitStore)
	if storeType == middleware.RateLimitStoreRedis {
		log.Printf("Export rate limiting enabled (store: redis, %d/min per viewer)", cfg.ExportRateLimit)
	} else {
		log.Printf("Export rate limiting enabled (store: memory, %d/min per viewer, single instance only)",
			cfg.ExportRateLimit)
	}

	limiter, err := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerMinute: cfg.ExportRateLimit,
		StoreType:         storeType,
		RedisClient:       redisClient,
		CleanupInterval:   cfg.RateLimitCleanupInterval,
		Prefix:            "course-log:ratelimit:export",
		Only:              middleware.IsDownload,
		Bundle:            bundle,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create export rate limiter: %w", err)
	}
	return limiter, nil
}
