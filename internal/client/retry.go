package client

import (
	"fmt"
	"time"

	httpclient "github.com/appleboy/go-httpclient"
	retry "github.com/appleboy/go-httpretry"
)

// RetryOptions configures a service-to-service client.
type RetryOptions struct {
	AuthMode           string // "none", "simple" or "hmac"
	AuthSecret         string
	AuthHeader         string
	Timeout            time.Duration
	InsecureSkipVerify bool
	MaxRetries         int
	RetryDelay         time.Duration
	MaxRetryDelay      time.Duration
}

// CreateRetryClient creates an HTTP client with retry support and authentication.
// This is used for calls to the host platform.
func CreateRetryClient(opts RetryOptions) (*retry.Client, error) {
	authHeader := opts.AuthHeader
	if authHeader == "" {
		authHeader = "X-API-Secret"
	}

	// Create HTTP client with automatic authentication
	client, err := httpclient.NewAuthClient(
		opts.AuthMode,
		opts.AuthSecret,
		httpclient.WithTimeout(opts.Timeout),
		httpclient.WithHeaderName(authHeader),
		httpclient.WithInsecureSkipVerify(opts.InsecureSkipVerify),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth client: %w", err)
	}

	// Wrap with retry client
	retryClient, err := retry.NewRealtimeClient(
		retry.WithHTTPClient(client),
		retry.WithMaxRetries(opts.MaxRetries),
		retry.WithInitialRetryDelay(opts.RetryDelay),
		retry.WithMaxRetryDelay(opts.MaxRetryDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create retry client: %w", err)
	}

	return retryClient, nil
}
