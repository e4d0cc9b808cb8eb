package usecase

import "errors"

// Sentinel errors shared by every service. The HTTP layer maps them onto
// status codes, so services wrap them with %w and add detail text.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
