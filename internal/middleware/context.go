package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jimmy-wims/course-log/internal/util"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLength = 64

// RequestContext stores the client IP and a request id in the request
// context. A well-formed incoming X-Request-ID is kept, otherwise a new one
// is generated.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)

		// Gin's ClientIP() handles X-Forwarded-For and other headers
		ctx := util.SetIPContext(c.Request.Context(), c.ClientIP())
		ctx = util.SetRequestIDContext(ctx, id)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
