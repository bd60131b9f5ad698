package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/jimmy-wims/course-log/internal/config"

	"github.com/redis/go-redis/v9"
)

// initializeRateLimitRedisClient connects the go-redis client shared by the
// export limiters of all instances. It returns nil unless rate limiting is
// enabled with the redis store. ulule/limiter takes go-redis types, so this
// client is separate from the rueidis caches.
func initializeRateLimitRedisClient(
	ctx context.Context,
	cfg *config.Config,
) (*redis.Client, error) {
	if !cfg.EnableRateLimit || cfg.RateLimitStore != config.RateLimitStoreRedis {
		return nil, nil //nolint:nilnil // no shared limiter store configured
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: cfg.RedisConnTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.RedisConnTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr, err)
	}

	log.Printf("Export rate limit store: redis (addr=%s, db=%d)", cfg.RedisAddr, cfg.RedisDB)
	return client, nil
}
