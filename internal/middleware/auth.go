package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jimmy-wims/course-log/internal/util"
)

const (
	SessionUserID = "user_id"
)

// ErrInvalidToken is returned for a bearer token that is not a valid
// viewer token of the host platform.
var ErrInvalidToken = errors.New("invalid viewer token")

// AuthConfig configures viewer authentication.
type AuthConfig struct {
	// JWTSecret verifies HS256 bearer tokens issued by the host platform.
	// An empty secret disables bearer authentication.
	JWTSecret string
	LoginURL  string
	BaseURL   string
}

// ParseViewerToken verifies a host-issued token and returns the viewer id
// carried in its subject. The token must be HS256 and carry an expiry.
func ParseViewerToken(tokenString, secret string) (int64, error) {
	if secret == "" {
		return 0, fmt.Errorf("%w: bearer tokens are disabled", ErrInvalidToken)
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return 0, ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: subject %q is not a user id", ErrInvalidToken, claims.Subject)
	}
	return id, nil
}

// Authenticate resolves the viewer from a bearer token or the session and
// stores it in the request context. Anonymous requests pass through.
func Authenticate(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := viewerID(c, cfg)
		if err != nil {
			c.Header("WWW-Authenticate", `Bearer realm="course-log"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":             "invalid_token",
				"error_description": err.Error(),
			})
			return
		}
		if userID > 0 {
			c.Set(SessionUserID, userID)
			c.Request = c.Request.WithContext(util.SetUserIDContext(c.Request.Context(), userID))
		}
		c.Next()
	}
}

func viewerID(c *gin.Context, cfg AuthConfig) (int64, error) {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return ParseViewerToken(strings.TrimPrefix(header, "Bearer "), cfg.JWTSecret)
	}

	switch v := sessions.Default(c).Get(SessionUserID).(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, nil
		}
		return id, nil
	}
	return 0, nil
}

// RequireAuth is a middleware that requires a viewer. It must run after
// Authenticate. API requests get a 401; pages redirect to the host login.
func RequireAuth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if util.GetUserIDFromContext(c) > 0 {
			c.Next()
			return
		}

		if IsAPIRequest(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":             "unauthorized",
				"error_description": "Login required",
			})
			return
		}

		loginURL := cfg.LoginURL
		if loginURL == "" {
			loginURL = "/login"
		}
		c.Redirect(http.StatusFound, util.LoginRedirect(loginURL, c.Request.URL.RequestURI(), cfg.BaseURL))
		c.Abort()
	}
}

// IsAPIRequest reports whether the client expects JSON rather than a page.
func IsAPIRequest(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return true
	}
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

// RequestLang returns the language asked for by the lang query parameter,
// then by the first Accept-Language tag.
func RequestLang(c *gin.Context) string {
	if l := c.Query("lang"); l != "" {
		return l
	}
	accept := c.GetHeader("Accept-Language")
	if accept == "" {
		return ""
	}
	first, _, _ := strings.Cut(accept, ",")
	tag, _, _ := strings.Cut(first, ";")
	return strings.TrimSpace(tag)
}
