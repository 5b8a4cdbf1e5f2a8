package session

import "errors"

// Session errors.
var (
	// ErrNotConfigured is returned when a session is requested
	// but no store was configured.
	ErrNotConfigured = errors.New("session: not configured")

	// ErrNotFound is returned when a session or value does not exist.
	ErrNotFound = errors.New("session: not found")

	// ErrExpired is returned when a stored session has expired.
	ErrExpired = errors.New("session: expired")

	// ErrTypeMismatch is returned by Value when the stored type differs.
	ErrTypeMismatch = errors.New("session: type mismatch")
)
