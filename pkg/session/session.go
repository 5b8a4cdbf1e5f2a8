package session

import (
	"errors"
	"maps"
	"time"

	"github.com/google/uuid"
)

// Session is the per-visitor key/value bag.
type Session struct {
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at"`
	Values    map[string]any `json:"values"`
	ID        string         `json:"id"`

	dirty     bool
	isNew     bool
	destroyed bool
}

// New creates an unsaved session with a fresh random ID. It stays clean
// until a value is written, so untouched visitors are never persisted.
// A zero ttl never expires.
func New(ttl time.Duration) *Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		Values:    make(map[string]any),
		CreatedAt: now,
		isNew:     true,
	}
	if ttl > 0 {
		s.ExpiresAt = now.Add(ttl)
	}
	return s
}

// Get returns the value under key.
func (s *Session) Get(key string) (any, bool) {
	if s.Values == nil {
		return nil, false
	}
	v, ok := s.Values[key]
	return v, ok
}

// Pull returns the value under key and removes it, for one-shot flash values.
func (s *Session) Pull(key string) (any, bool) {
	v, ok := s.Get(key)
	if ok {
		s.Delete(key)
	}
	return v, ok
}

// Set stores val under key.
func (s *Session) Set(key string, val any) {
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	s.Values[key] = val
	s.dirty = true
}

// Has reports whether key holds a value.
func (s *Session) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Delete removes key. The session only becomes dirty if the key existed.
func (s *Session) Delete(key string) {
	if _, ok := s.Values[key]; ok {
		delete(s.Values, key)
		s.dirty = true
	}
}

// Destroy clears every value and marks the session for removal from its store.
func (s *Session) Destroy() {
	clear(s.Values)
	s.destroyed = true
	s.dirty = true
}

// Data returns a copy of all values.
func (s *Session) Data() map[string]any {
	if s.Values == nil {
		return map[string]any{}
	}
	return maps.Clone(s.Values)
}

func (s *Session) IsDirty() bool     { return s.dirty }
func (s *Session) ClearDirty()       { s.dirty = false }
func (s *Session) IsNew() bool       { return s.isNew }
func (s *Session) ClearNew()         { s.isNew = false }
func (s *Session) IsDestroyed() bool { return s.destroyed }

// IsExpired reports whether the session outlived ExpiresAt.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Value is a typed helper to retrieve session values.
func Value[T any](s *Session, key string) (T, error) {
	var zero T
	if s == nil {
		return zero, ErrNotFound
	}

	val, ok := s.Get(key)
	if !ok {
		return zero, ErrNotFound
	}

	typed, ok := val.(T)
	if !ok {
		return zero, errors.Join(ErrTypeMismatch, errors.New(key))
	}
	return typed, nil
}

// ValueOr returns the typed value under key or def.
func ValueOr[T any](s *Session, key string, def T) T {
	v, err := Value[T](s, key)
	if err != nil {
		return def
	}
	return v
}
