package util

import (
	"context"

	"github.com/gin-gonic/gin"
)

type contextKey string

const (
	ipKey        contextKey = "client_ip"
	userIDKey    contextKey = "user_id"
	requestIDKey contextKey = "request_id"
)

// SetIPContext stores the client IP address in the context
func SetIPContext(ctx context.Context, ip string) context.Context {
	if ip == "" {
		return ctx
	}
	return context.WithValue(ctx, ipKey, ip)
}

// GetIPFromContext extracts the client IP address from the context
func GetIPFromContext(ctx context.Context) string {
	// Try to extract from Gin context first
	if ginCtx, ok := ctx.(*gin.Context); ok {
		return ginCtx.ClientIP()
	}

	if ip, ok := ctx.Value(ipKey).(string); ok {
		return ip
	}
	return ""
}

// SetUserIDContext stores the authenticated viewer in the context
func SetUserIDContext(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromContext returns the authenticated viewer, or 0
func GetUserIDFromContext(ctx context.Context) int64 {
	if ginCtx, ok := ctx.(*gin.Context); ok {
		if id, ok := ginCtx.Get(string(userIDKey)); ok {
			if userID, ok := id.(int64); ok {
				return userID
			}
		}
		if ginCtx.Request == nil {
			return 0
		}
		ctx = ginCtx.Request.Context()
	}
	if userID, ok := ctx.Value(userIDKey).(int64); ok {
		return userID
	}
	return 0
}

// SetRequestIDContext stores the request id in the context
func SetRequestIDContext(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestIDFromContext returns the request id, or ""
func GetRequestIDFromContext(ctx context.Context) string {
	if ginCtx, ok := ctx.(*gin.Context); ok {
		if ginCtx.Request == nil {
			return ""
		}
		ctx = ginCtx.Request.Context()
	}
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
