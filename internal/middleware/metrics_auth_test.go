package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

const testToken = "test-secret-token-123"

func TestMetricsAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		token      string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"NoTokenConfigured", "", "", http.StatusOK, "metrics"},
		{"ValidToken", testToken, "Bearer " + testToken, http.StatusOK, "metrics"},
		{"InvalidToken", testToken, "Bearer wrong", http.StatusUnauthorized, "Invalid token"},
		{"MissingHeader", testToken, "", http.StatusUnauthorized, "Bearer token required"},
		{"BasicScheme", testToken, "Basic dXNlcjpwYXNz", http.StatusUnauthorized, "Bearer token required"},
		{"EmptyBearer", testToken, "Bearer ", http.StatusUnauthorized, "Invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(MetricsAuthMiddleware(tt.token))
			r.GET("/metrics", func(c *gin.Context) {
				c.String(http.StatusOK, "metrics")
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, `Bearer realm="Metrics"`, w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
