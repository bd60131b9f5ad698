package auth

import "errors"

var (
	// HTTP API errors
	ErrCapabilityAPIConnection  = errors.New("failed to connect to capability API")
	ErrCapabilityAPIRejected    = errors.New("capability API rejected the request")
	ErrCapabilityAPIInvalidResp = errors.New("invalid response from capability API")
)
