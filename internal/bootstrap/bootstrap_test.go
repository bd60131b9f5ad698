package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/jimmy-wims/course-log/internal/config"
	"github.com/jimmy-wims/course-log/internal/metrics"
	"github.com/jimmy-wims/course-log/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		ServerAddr:               ":8080",
		BaseURL:                  "http://localhost:8080",
		SessionSecret:            "test-session-secret",
		SessionMaxAge:            3600,
		JWTSecret:                "test-jwt-secret",
		LoginURL:                 "/login",
		DatabaseDriver:           "sqlite",
		DatabaseDSN:              ":memory:",
		DBInitTimeout:            5 * time.Second,
		LogReaders:               []string{store.StandardReaderName},
		ReportPageSize:           15,
		ReportTimezone:           "UTC",
		ReportDefaultLang:        "en",
		PermissionMode:           config.PermissionModeLocal,
		PermissionAPIAuthMode:    "none",
		CacheType:                config.CacheTypeMemory,
		CacheTTL:                 time.Minute,
		CacheInitTimeout:         time.Second,
		EnableRateLimit:          true,
		RateLimitStore:           config.RateLimitStoreMemory,
		ExportRateLimit:          1,
		RateLimitCleanupInterval: time.Minute,
		ViewLogBufferSize:        10,
	}
}

func TestValidateAllConfiguration(t *testing.T) {
	require.NoError(t, validateAllConfiguration(testConfig()))

	tests := map[string]struct {
		readers []string
		want    string
	}{
		"Unknown":   {[]string{"logstore_legacy"}, "unknown log reader"},
		"Duplicate": {[]string{store.StandardReaderName, store.StandardReaderName}, "listed twice"},
		"Empty":     {nil, "LOG_READERS"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			cfg.LogReaders = tt.readers
			err := validateAllConfiguration(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestInitializeMetrics(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		cfg := &config.Config{MetricsEnabled: enabled}
		m := initializeMetrics(cfg)
		require.NotNil(t, m)
	}
}

func TestInitializeCacheMemory(t *testing.T) {
	ctx := context.Background()
	c, err := initializeCache[[]string](ctx, testConfig(), "components")
	require.NoError(t, err)
	require.NotNil(t, c)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "k", []string{"core"}, time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []string{"core"}, got)
}

func TestInitializeCacheRedisUnreachable(t *testing.T) {
	cfg := testConfig()
	cfg.CacheType = config.CacheTypeRedis
	cfg.RedisAddr = "127.0.0.1:1"
	cfg.CacheInitTimeout = 500 * time.Millisecond

	_, err := initializeCache[string](context.Background(), cfg, "names")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "names cache")
}

func TestInitializeRateLimitRedisClientSkipped(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig()
	client, err := initializeRateLimitRedisClient(ctx, cfg)
	require.NoError(t, err)
	assert.Nil(t, client)

	cfg.EnableRateLimit = false
	cfg.RateLimitStore = config.RateLimitStoreRedis
	client, err = initializeRateLimitRedisClient(ctx, cfg)
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestSetupExportRateLimitDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.EnableRateLimit = false
	limiter, err := setupExportRateLimit(cfg, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, limiter)

	// Verify noop middleware doesn't panic
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	assert.NotPanics(t, func() { limiter(c) })
}

func TestSetupExportRateLimitRedisWithoutClient(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitStore = config.RateLimitStoreRedis
	_, err := setupExportRateLimit(cfg, nil, nil)
	require.Error(t, err)
}

func TestInitializePermissionChecker(t *testing.T) {
	cfg := testConfig()
	checker, err := initializePermissionChecker(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "local", checker.Name())

	cfg.PermissionMode = config.PermissionModeHTTPAPI
	cfg.PermissionAPIURL = "http://lms.example.com/api/capability"
	cfg.PermissionAPITimeout = time.Second
	checker, err = initializePermissionChecker(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "http_api", checker.Name())
}

func TestCreateHTTPServer(t *testing.T) {
	srv := createHTTPServer(
		&config.Config{ServerAddr: ":8080"},
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
	)
	require.NotNil(t, srv)
	assert.Equal(t, ":8080", srv.Addr)
	assert.Greater(t, srv.WriteTimeout, srv.ReadTimeout)
}

func TestGinModeMap(t *testing.T) {
	assert.Equal(t, gin.ReleaseMode, ginModeMap[true])
	assert.Equal(t, gin.DebugMode, ginModeMap[false])
}

func TestErrorLogger(t *testing.T) {
	el := newErrorLogger()
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)

	assert.True(t, el.logIfNeeded("count_log_events", now))
	assert.False(t, el.logIfNeeded("count_log_events", now.Add(time.Minute)))
	assert.True(t, el.logIfNeeded("count_log_events_today", now.Add(time.Minute)))
	assert.True(t, el.logIfNeeded("count_log_events", now.Add(6*time.Minute)))
}

type countingRecorder struct {
	metrics.NoopMetrics
	queryErrors []string
}

func (r *countingRecorder) RecordDatabaseQueryError(operation string) {
	r.queryErrors = append(r.queryErrors, operation)
}

func TestErrorLoggingRecorderForwards(t *testing.T) {
	inner := &countingRecorder{}
	r := newErrorLoggingRecorder(inner)

	r.RecordDatabaseQueryError("count_log_events")
	r.RecordDatabaseQueryError("count_log_events")
	assert.Equal(t, []string{"count_log_events", "count_log_events"}, inner.queryErrors)
}

func viewerToken(t *testing.T, secret string, userID int64) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

// newTestApplication runs every phase but the server start.
func newTestApplication(t *testing.T) (*Application, *store.Demo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	app := &Application{Config: testConfig()}
	require.NoError(t, validateAllConfiguration(app.Config))
	require.NoError(t, app.initializeInfrastructure(ctx))
	t.Cleanup(func() {
		for _, c := range app.cacheClosers {
			_ = c.close()
		}
		_ = app.DB.Close()
	})

	demo, err := app.DB.SeedDemo(ctx, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.NoError(t, app.initializeBusinessLayer())
	t.Cleanup(func() { _ = app.EventLogger.Shutdown(ctx) })
	require.NoError(t, app.initializeHTTPLayer())
	require.NotNil(t, app.Server)
	return app, demo
}

func TestApplicationRoutes(t *testing.T) {
	app, demo := newTestApplication(t)
	token := viewerToken(t, app.Config.JWTSecret, demo.TeacherID)
	reportURL := "/course/report/log?id=" + strconv.FormatInt(demo.CourseID, 10)

	get := func(target, bearer string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		w := httptest.NewRecorder()
		app.Router.ServeHTTP(w, req)
		return w
	}

	t.Run("Health", func(t *testing.T) {
		w := get("/health", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "healthy")
	})

	t.Run("MetricsDisabled", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get("/metrics", "").Code)
	})

	t.Run("RootRedirectsToLogin", func(t *testing.T) {
		w := get("/", "")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})

	t.Run("AnonymousReport", func(t *testing.T) {
		w := get(reportURL, "")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Contains(t, w.Header().Get("Location"), "/login")
	})

	t.Run("AnonymousAPI", func(t *testing.T) {
		w := get("/api/courses/2/log", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("RequestID", func(t *testing.T) {
		w := get("/health", "")
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("Report", func(t *testing.T) {
		w := get(reportURL, token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "CS101")
	})

	t.Run("API", func(t *testing.T) {
		w := get("/api/courses/2/log", token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"shortname":"CS101"`)
	})

	t.Run("Navigation", func(t *testing.T) {
		w := get("/api/courses/2/navigation", token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), reportURL)
	})
}

func TestApplicationDownloadRateLimit(t *testing.T) {
	app, demo := newTestApplication(t)
	token := viewerToken(t, app.Config.JWTSecret, demo.TeacherID)
	target := "/course/report/log?id=2&download=csv"

	download := func() int {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		app.Router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, download())
	assert.Equal(t, http.StatusTooManyRequests, download())

	// page views are not limited
	req := httptest.NewRequest(http.MethodGet, "/course/report/log?id=2", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
