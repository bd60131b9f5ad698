package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimmy-wims/course-log/internal/util"
)

const testJWTSecret = "test-jwt-secret"

var testAuthConfig = AuthConfig{
	JWTSecret: testJWTSecret,
	LoginURL:  "/login",
	BaseURL:   "http://localhost:8080",
}

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func viewerClaims(sub string, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
}

// setupTestRouter serves /whoami behind Authenticate and RequireAuth, and
// /login-as/:id which stores the viewer in the session.
func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("test_session", store))
	r.Use(Authenticate(testAuthConfig))

	r.GET("/login-as/:id", func(c *gin.Context) {
		id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
		session := sessions.Default(c)
		session.Set(SessionUserID, id)
		_ = session.Save()
		c.Status(http.StatusNoContent)
	})

	protected := r.Group("/", RequireAuth(testAuthConfig))
	whoami := func(c *gin.Context) {
		c.String(http.StatusOK, strconv.FormatInt(util.GetUserIDFromContext(c.Request.Context()), 10))
	}
	protected.GET("/whoami", whoami)
	protected.GET("/api/whoami", whoami)
	return r
}

func TestParseViewerToken(t *testing.T) {
	tests := []struct {
		name    string
		token   func(t *testing.T) string
		secret  string
		wantID  int64
		wantErr bool
	}{
		{
			name: "Valid",
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodHS256, []byte(testJWTSecret), viewerClaims("42", time.Minute))
			},
			secret: testJWTSecret,
			wantID: 42,
		},
		{
			name: "WrongSecret",
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodHS256, []byte("other"), viewerClaims("42", time.Minute))
			},
			secret:  testJWTSecret,
			wantErr: true,
		},
		{
			name: "Expired",
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodHS256, []byte(testJWTSecret), viewerClaims("42", -time.Minute))
			},
			secret:  testJWTSecret,
			wantErr: true,
		},
		{
			name: "NoExpiry",
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodHS256, []byte(testJWTSecret), jwt.RegisteredClaims{Subject: "42"})
			},
			secret:  testJWTSecret,
			wantErr: true,
		},
		{
			name: "OtherAlgorithm",
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodHS512, []byte(testJWTSecret), viewerClaims("42", time.Minute))
			},
			secret:  testJWTSecret,
			wantErr: true,
		},
		{
			name: "SubjectNotNumeric",
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodHS256, []byte(testJWTSecret), viewerClaims("ann", time.Minute))
			},
			secret:  testJWTSecret,
			wantErr: true,
		},
		{
			name:    "Garbage",
			token:   func(*testing.T) string { return "not-a-token" },
			secret:  testJWTSecret,
			wantErr: true,
		},
		{
			name: "Disabled",
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodHS256, []byte(testJWTSecret), viewerClaims("42", time.Minute))
			},
			secret:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseViewerToken(tt.token(t), tt.secret)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestRequireAuth_BearerToken(t *testing.T) {
	r := setupTestRouter()
	token := signToken(t, jwt.SigningMethodHS256, []byte(testJWTSecret), viewerClaims("7", time.Minute))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "7", w.Body.String())
}

func TestAuthenticate_InvalidBearerToken(t *testing.T) {
	r := setupTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")
	assert.Contains(t, w.Body.String(), "invalid_token")
}

func TestRequireAuth_Session(t *testing.T) {
	r := setupTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login-as/9", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "9", w.Body.String())
}

func TestRequireAuth_APIUnauthorized(t *testing.T) {
	r := setupTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/whoami", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "unauthorized", body["error"])
}

func TestRequireAuth_RedirectURLEncoded(t *testing.T) {
	r := setupTestRouter()

	requestPath := "/whoami?id=2&group=7&date=2024-03-05&download=csv"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, requestPath, nil))

	assert.Equal(t, http.StatusFound, w.Code)
	parsedURL, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/login", parsedURL.Path)
	assert.Equal(t, requestPath, parsedURL.Query().Get("redirect"))
}

func TestIsAPIRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		path   string
		accept string
		want   bool
	}{
		{"/api/courses/2/log", "", true},
		{"/course/report/log", "text/html,application/xhtml+xml", false},
		{"/course/report/log", "application/json", true},
		{"/course/report/log", "", false},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, tt.path, nil)
		if tt.accept != "" {
			c.Request.Header.Set("Accept", tt.accept)
		}
		assert.Equal(t, tt.want, IsAPIRequest(c), "%s %s", tt.path, tt.accept)
	}
}

func TestRequestLang(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		target         string
		acceptLanguage string
		want           string
	}{
		{"/?lang=fr", "en-US", "fr"},
		{"/", "fr-CA,fr;q=0.9,en;q=0.8", "fr-CA"},
		{"/", "de;q=0.7", "de"},
		{"/", "", ""},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, tt.target, nil)
		if tt.acceptLanguage != "" {
			c.Request.Header.Set("Accept-Language", tt.acceptLanguage)
		}
		assert.Equal(t, tt.want, RequestLang(c))
	}
}
