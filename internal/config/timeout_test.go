package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestDefaultTimeoutValues verifies that timeout configurations have sensible defaults
func TestDefaultTimeoutValues(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 30*time.Second, cfg.DBInitTimeout, "DB init timeout should be 30s")
	assert.Equal(t, 5*time.Second, cfg.RedisConnTimeout, "Redis connection timeout should be 5s")
	assert.Equal(t, 5*time.Second, cfg.CacheInitTimeout, "Cache init timeout should be 5s")
	assert.Equal(t, 10*time.Second, cfg.PermissionAPITimeout, "Permission API timeout should be 10s")
	assert.Equal(t, 5*time.Second, cfg.ServerShutdownTimeout, "Server shutdown timeout should be 5s")
	assert.Equal(t, 10*time.Second, cfg.ViewLogShutdownTimeout, "View log shutdown timeout should be 10s")
}

// TestTimeoutConfigurationFromEnv verifies that timeout values can be configured via environment
func TestTimeoutConfigurationFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envKey   string
		envValue string
		getter   func(*Config) time.Duration
		expected time.Duration
	}{
		{
			name:     "DB_INIT_TIMEOUT",
			envKey:   "DB_INIT_TIMEOUT",
			envValue: "60s",
			getter:   func(c *Config) time.Duration { return c.DBInitTimeout },
			expected: 60 * time.Second,
		},
		{
			name:     "REDIS_CONN_TIMEOUT",
			envKey:   "REDIS_CONN_TIMEOUT",
			envValue: "10s",
			getter:   func(c *Config) time.Duration { return c.RedisConnTimeout },
			expected: 10 * time.Second,
		},
		{
			name:     "PERMISSION_API_RETRY_DELAY",
			envKey:   "PERMISSION_API_RETRY_DELAY",
			envValue: "250ms",
			getter:   func(c *Config) time.Duration { return c.PermissionAPIRetryDelay },
			expected: 250 * time.Millisecond,
		},
		{
			name:     "CACHE_TTL",
			envKey:   "CACHE_TTL",
			envValue: "1h",
			getter:   func(c *Config) time.Duration { return c.CacheTTL },
			expected: time.Hour,
		},
		{
			name:     "invalid duration keeps default",
			envKey:   "SERVER_SHUTDOWN_TIMEOUT",
			envValue: "soon",
			getter:   func(c *Config) time.Duration { return c.ServerShutdownTimeout },
			expected: 5 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envKey, tt.envValue)
			cfg := Load()
			assert.Equal(t, tt.expected, tt.getter(cfg))
		})
	}
}
