package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jimmy-wims/course-log/internal/core"

	retry "github.com/appleboy/go-httpretry"
)

// HTTPAPIPermissionChecker asks the host platform whether a user holds the
// view capability. Transient failures are retried by the retry client.
type HTTPAPIPermissionChecker struct {
	url         string
	retryClient *retry.Client
}

// NewHTTPAPIPermissionChecker creates a new HTTP API permission checker
func NewHTTPAPIPermissionChecker(url string, retryClient *retry.Client) *HTTPAPIPermissionChecker {
	return &HTTPAPIPermissionChecker{
		url:         url,
		retryClient: retryClient,
	}
}

// CanViewAllLogs verifies the view capability against the external HTTP API
func (p *HTTPAPIPermissionChecker) CanViewAllLogs(
	ctx context.Context,
	userID, courseID int64,
) (bool, error) {
	jsonData, err := json.Marshal(APICapabilityRequest{
		UserID:     userID,
		CourseID:   courseID,
		Capability: core.ViewCapability,
	})
	if err != nil {
		return false, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Authentication headers are automatically added by the HTTP client
	resp, err := p.retryClient.Post(
		ctx,
		p.url,
		retry.WithBody("application/json", bytes.NewBuffer(jsonData)),
	)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrCapabilityAPIConnection, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("%w: failed to read response", ErrCapabilityAPIInvalidResp)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiResp APICapabilityResponse
		if err := json.Unmarshal(body, &apiResp); err == nil && apiResp.Message != "" {
			return false, fmt.Errorf(
				"%w: HTTP %d - %s",
				ErrCapabilityAPIRejected,
				resp.StatusCode,
				apiResp.Message,
			)
		}
		// Limit body preview to 200 characters to avoid overwhelming logs
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		return false, fmt.Errorf(
			"%w: HTTP %d - %s",
			statusError(resp.StatusCode),
			resp.StatusCode,
			bodyPreview,
		)
	}

	var apiResp APICapabilityResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return false, fmt.Errorf("%w: %v", ErrCapabilityAPIInvalidResp, err)
	}
	return apiResp.Allowed, nil
}

func statusError(code int) error {
	if code == http.StatusUnauthorized || code == http.StatusForbidden {
		return ErrCapabilityAPIRejected
	}
	return ErrCapabilityAPIInvalidResp
}

// Name returns provider name for logging
func (p *HTTPAPIPermissionChecker) Name() string {
	return "http_api"
}
