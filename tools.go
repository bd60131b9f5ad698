//go:build tools

// Pinned code generators: swag writes api/docs.go, mockgen the
// internal/mocks package.
package main

import (
	_ "github.com/swaggo/swag/cmd/swag"
	_ "go.uber.org/mock/mockgen"
)
