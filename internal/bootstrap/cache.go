package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/jimmy-wims/course-log/internal/cache"
	"github.com/jimmy-wims/course-log/internal/config"
	"github.com/jimmy-wims/course-log/internal/core"
	"github.com/jimmy-wims/course-log/internal/metrics"
)

const cacheKeyPrefix = "course-log:"

// initializeMetrics initializes Prometheus metrics
func initializeMetrics(cfg *config.Config) core.Recorder {
	prometheusMetrics := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		log.Println("Prometheus metrics initialized")
	} else {
		log.Println("Metrics disabled (using noop implementation)")
	}
	return prometheusMetrics
}

// initializeCache creates the cache named name on the configured backend.
// Redis keys are prefixed with "course-log:<name>:".
func initializeCache[T any](
	ctx context.Context,
	cfg *config.Config,
	name string,
) (core.Cache[T], error) {
	switch cfg.CacheType {
	case config.CacheTypeRedis:
		// Create timeout context for cache initialization
		ctx, cancel := context.WithTimeout(ctx, cfg.CacheInitTimeout)
		defer cancel()

		c, err := cache.NewRueidisCache[T](ctx, cache.RueidisOptions{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cacheKeyPrefix + name + ":",
			ClientTTL: cfg.CacheClientTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis %s cache: %w", name, err)
		}
		log.Printf(
			"%s cache: redis (addr=%s, db=%d, client_ttl=%s)",
			name,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.CacheClientTTL,
		)
		return c, nil

	default: // memory
		log.Printf("%s cache: memory (single instance only)", name)
		return cache.NewMemoryCache[T](), nil
	}
}
