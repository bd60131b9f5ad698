package util

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSetIPContext(t *testing.T) {
	tests := []struct {
		name     string
		ip       string
		expected string
	}{
		{name: "Valid IP", ip: "192.168.1.1", expected: "192.168.1.1"},
		{name: "Empty IP", ip: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := SetIPContext(context.Background(), tt.ip)
			assert.Equal(t, tt.expected, GetIPFromContext(ctx))
		})
	}
}

func TestGetIPFromGinContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Request.RemoteAddr = "10.0.0.7:4321"

	assert.Equal(t, "10.0.0.7", GetIPFromContext(c))
}

func TestUserIDContext(t *testing.T) {
	assert.Zero(t, GetUserIDFromContext(context.Background()))

	ctx := SetUserIDContext(context.Background(), 42)
	assert.Equal(t, int64(42), GetUserIDFromContext(ctx))

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Set("user_id", int64(7))
	assert.Equal(t, int64(7), GetUserIDFromContext(c))
}

func TestRequestIDContext(t *testing.T) {
	assert.Empty(t, GetRequestIDFromContext(context.Background()))
	assert.Empty(t, GetRequestIDFromContext(SetRequestIDContext(context.Background(), "")))

	ctx := SetRequestIDContext(context.Background(), "req-1")
	assert.Equal(t, "req-1", GetRequestIDFromContext(ctx))
}
