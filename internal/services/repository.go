// Package services provides repository interfaces and SQL implementations
// for per-session state. This layer bridges the raw store with the HTTP API,
// providing a clean abstraction over persistence operations.
package services

import "errors"

// Sentinel errors returned by repositories.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)
