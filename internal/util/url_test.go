package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRedirectSafe(t *testing.T) {
	const base = "https://logs.example.com"
	tests := []struct {
		url  string
		safe bool
	}{
		{"", true},
		{"/course/report/log?id=2", true},
		{"//evil.com", false},
		{"/\\evil.com", false},
		{"https://logs.example.com/course/report/log", true},
		{"https://evil.com/", false},
		{"javascript:alert(1)", false},
		{"/ok\r\nSet-Cookie: x", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.safe, IsRedirectSafe(tt.url, base), tt.url)
	}
}

func TestLoginRedirect(t *testing.T) {
	const base = "https://logs.example.com"
	assert.Equal(t, "/login?redirect=%2Fcourse%2Freport%2Flog%3Fid%3D2",
		LoginRedirect("/login", "/course/report/log?id=2", base))
	assert.Equal(t, "/login", LoginRedirect("/login", "https://evil.com/", base))
	assert.Equal(t, "https://lms.example.com/login?next=1&redirect=%2Fx",
		LoginRedirect("https://lms.example.com/login?next=1", "/x", base))
}
