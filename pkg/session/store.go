package session

import (
	"context"
	"time"
)

// Store persists sessions between requests.
type Store interface {
	// Get loads a session by ID. Returns ErrNotFound if it does not exist
	// and ErrExpired if it outlived its expiry.
	Get(ctx context.Context, id string) (*Session, error)

	// Save writes the session. ttl bounds how long the store keeps it.
	Save(ctx context.Context, s *Session, ttl time.Duration) error

	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error
}
