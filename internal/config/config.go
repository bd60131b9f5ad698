package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Permission mode constants
const (
	PermissionModeLocal   = "local"
	PermissionModeHTTPAPI = "http_api"
)

// Cache type constants
const (
	CacheTypeMemory = "memory"
	CacheTypeRedis  = "redis"
)

// Rate limit store constants
const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

type Config struct {
	// Server settings
	ServerAddr   string
	BaseURL      string
	HostBaseURL  string // host platform, prefix of context and event links
	IsProduction bool

	// Session settings
	SessionSecret string
	SessionMaxAge int // seconds
	JWTSecret     string
	LoginURL      string // host platform login page for anonymous visitors

	// Database
	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseDSN    string // Database connection string (DSN or path)
	DBInitTimeout  time.Duration

	// Report
	LogReaders        []string // enabled log readers, first is the default
	ReportPageSize    int
	ReportTimezone    string
	ReportDefaultLang string
	ToursComponent    string // excluded from the report
	ExportGzip        bool

	// Permission checks
	PermissionMode             string // "local" or "http_api"
	PermissionAPIURL           string
	PermissionAPITimeout       time.Duration
	PermissionAPIInsecure      bool
	PermissionAPIAuthMode      string // "none", "simple" or "hmac"
	PermissionAPIAuthSecret    string
	PermissionAPIAuthHeader    string // header name for simple mode (default: "X-API-Secret")
	PermissionAPIMaxRetries    int
	PermissionAPIRetryDelay    time.Duration
	PermissionAPIMaxRetryDelay time.Duration

	// Cache (user names, component options)
	CacheType        string // "memory" or "redis"
	CacheTTL         time.Duration
	CacheClientTTL   time.Duration // redis client-side cache, 0 disables
	CacheInitTimeout time.Duration
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisConnTimeout time.Duration

	// Rate limiting
	EnableRateLimit          bool
	RateLimitStore           string // "memory" or "redis"
	ExportRateLimit          int    // exports per minute per user
	RateLimitCleanupInterval time.Duration

	// Metrics
	MetricsEnabled             bool
	MetricsToken               string
	MetricsGaugeUpdateEnabled  bool
	MetricsGaugeUpdateInterval time.Duration

	// Report view events
	EnableViewLogging      bool
	ViewLogBufferSize      int
	ViewLogShutdownTimeout time.Duration

	ServerShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	// Determine database driver and DSN
	driver := getEnv("DATABASE_DRIVER", "sqlite")
	var dsn string
	if driver == "sqlite" {
		dsn = getEnv("DATABASE_DSN", getEnv("DATABASE_PATH", "course-log.db"))
	} else {
		dsn = getEnv("DATABASE_DSN", "")
	}

	return &Config{
		ServerAddr:   getEnv("SERVER_ADDR", ":8080"),
		BaseURL:      getEnv("BASE_URL", "http://localhost:8080"),
		HostBaseURL:  getEnv("HOST_BASE_URL", ""),
		IsProduction: getEnvBool("IS_PRODUCTION", false),

		SessionSecret: getEnv("SESSION_SECRET", "session-secret-change-in-production"),
		SessionMaxAge: getEnvInt("SESSION_MAX_AGE", 86400),
		JWTSecret:     getEnv("JWT_SECRET", "your-256-bit-secret-change-in-production"),
		LoginURL:      getEnv("LOGIN_URL", "/login"),

		DatabaseDriver: driver,
		DatabaseDSN:    dsn,
		DBInitTimeout:  getEnvDuration("DB_INIT_TIMEOUT", 30*time.Second),

		LogReaders:        getEnvSlice("LOG_READERS", []string{"logstore_standard"}),
		ReportPageSize:    getEnvInt("REPORT_PAGE_SIZE", 15),
		ReportTimezone:    getEnv("REPORT_TIMEZONE", "UTC"),
		ReportDefaultLang: getEnv("REPORT_DEFAULT_LANG", "en"),
		ToursComponent:    getEnv("TOURS_COMPONENT", "tool_usertours"),
		ExportGzip:        getEnvBool("EXPORT_GZIP", true),

		PermissionMode:             getEnv("PERMISSION_MODE", PermissionModeLocal),
		PermissionAPIURL:           getEnv("PERMISSION_API_URL", ""),
		PermissionAPITimeout:       getEnvDuration("PERMISSION_API_TIMEOUT", 10*time.Second),
		PermissionAPIInsecure:      getEnvBool("PERMISSION_API_INSECURE_SKIP_VERIFY", false),
		PermissionAPIAuthMode:      getEnv("PERMISSION_API_AUTH_MODE", "none"),
		PermissionAPIAuthSecret:    getEnv("PERMISSION_API_AUTH_SECRET", ""),
		PermissionAPIAuthHeader:    getEnv("PERMISSION_API_AUTH_HEADER", "X-API-Secret"),
		PermissionAPIMaxRetries:    getEnvInt("PERMISSION_API_MAX_RETRIES", 3),
		PermissionAPIRetryDelay:    getEnvDuration("PERMISSION_API_RETRY_DELAY", 1*time.Second),
		PermissionAPIMaxRetryDelay: getEnvDuration("PERMISSION_API_MAX_RETRY_DELAY", 10*time.Second),

		CacheType:        getEnv("CACHE_TYPE", CacheTypeMemory),
		CacheTTL:         getEnvDuration("CACHE_TTL", 5*time.Minute),
		CacheClientTTL:   getEnvDuration("CACHE_CLIENT_TTL", 30*time.Second),
		CacheInitTimeout: getEnvDuration("CACHE_INIT_TIMEOUT", 5*time.Second),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		RedisConnTimeout: getEnvDuration("REDIS_CONN_TIMEOUT", 5*time.Second),

		EnableRateLimit:          getEnvBool("ENABLE_RATE_LIMIT", true),
		RateLimitStore:           getEnv("RATE_LIMIT_STORE", RateLimitStoreMemory),
		ExportRateLimit:          getEnvInt("EXPORT_RATE_LIMIT", 10),
		RateLimitCleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),

		MetricsEnabled:             getEnvBool("METRICS_ENABLED", false),
		MetricsToken:               getEnv("METRICS_TOKEN", ""),
		MetricsGaugeUpdateEnabled:  getEnvBool("METRICS_GAUGE_UPDATE_ENABLED", true),
		MetricsGaugeUpdateInterval: getEnvDuration("METRICS_GAUGE_UPDATE_INTERVAL", 5*time.Minute),

		EnableViewLogging:      getEnvBool("ENABLE_VIEW_LOGGING", true),
		ViewLogBufferSize:      getEnvInt("VIEW_LOG_BUFFER_SIZE", 1000),
		ViewLogShutdownTimeout: getEnvDuration("VIEW_LOG_SHUTDOWN_TIMEOUT", 10*time.Second),

		ServerShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
	}
}

// Location returns the report time zone, UTC when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.ReportTimezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.ReportTimezone)
}

// Validate checks enumerated values and the settings they require.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.DatabaseDriver) {
	case "sqlite", "sqlite3", "postgres", "postgresql", "pgsql":
	default:
		errs = append(errs, fmt.Errorf("invalid DATABASE_DRIVER: %s (must be: sqlite, postgres)", c.DatabaseDriver))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("DATABASE_DSN is required"))
	}

	switch c.PermissionMode {
	case PermissionModeLocal:
	case PermissionModeHTTPAPI:
		if c.PermissionAPIURL == "" {
			errs = append(errs, errors.New("PERMISSION_API_URL is required when PERMISSION_MODE=http_api"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid PERMISSION_MODE: %s (must be: local, http_api)", c.PermissionMode))
	}

	switch c.PermissionAPIAuthMode {
	case "none", "simple", "hmac":
	default:
		errs = append(errs, fmt.Errorf(
			"invalid PERMISSION_API_AUTH_MODE: %s (must be: none, simple, hmac)", c.PermissionAPIAuthMode))
	}

	switch c.CacheType {
	case CacheTypeMemory, CacheTypeRedis:
	default:
		errs = append(errs, fmt.Errorf("invalid CACHE_TYPE: %s (must be: memory, redis)", c.CacheType))
	}

	if c.EnableRateLimit {
		switch c.RateLimitStore {
		case RateLimitStoreMemory, RateLimitStoreRedis:
		default:
			errs = append(errs, fmt.Errorf(
				"invalid RATE_LIMIT_STORE: %s (must be: memory, redis)", c.RateLimitStore))
		}
		if c.ExportRateLimit <= 0 {
			errs = append(errs, errors.New("EXPORT_RATE_LIMIT must be positive"))
		}
	}

	if len(c.LogReaders) == 0 {
		errs = append(errs, errors.New("LOG_READERS must name at least one reader"))
	}
	if c.ReportPageSize <= 0 {
		errs = append(errs, errors.New("REPORT_PAGE_SIZE must be positive"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("invalid REPORT_TIMEZONE: %w", err))
	}
	if c.IsProduction && c.MetricsEnabled && c.MetricsToken == "" {
		errs = append(errs, errors.New("METRICS_TOKEN is required when METRICS_ENABLED=true in production"))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		if parts := splitAndTrim(value, ","); len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}

func splitAndTrim(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
