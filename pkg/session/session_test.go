package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSession_New(t *testing.T) {
	sess := New(time.Hour)

	if sess.ID == "" {
		t.Error("ID is empty")
	}
	if !sess.IsNew() {
		t.Error("IsNew() = false, want true")
	}
	if sess.IsDirty() {
		t.Error("IsDirty() = true for untouched session")
	}
	if sess.IsExpired() {
		t.Error("IsExpired() = true for fresh session")
	}
	if other := New(time.Hour); other.ID == sess.ID {
		t.Error("two sessions share an ID")
	}
}

func TestSession_Values(t *testing.T) {
	sess := New(time.Hour)
	sess.ClearDirty()

	sess.Set("user", "alice")
	if !sess.IsDirty() {
		t.Error("Set should mark session as dirty")
	}
	if !sess.Has("user") {
		t.Error("Has(user) = false after Set")
	}
	if v, ok := sess.Get("user"); !ok || v != "alice" {
		t.Errorf("Get(user) = %v, %v; want alice, true", v, ok)
	}

	sess.ClearDirty()
	sess.Delete("missing")
	if sess.IsDirty() {
		t.Error("deleting a missing key should not mark session dirty")
	}

	sess.Delete("user")
	if sess.Has("user") || !sess.IsDirty() {
		t.Error("Delete(user) did not remove the value")
	}
}

func TestSession_Pull(t *testing.T) {
	sess := New(time.Hour)
	sess.Set("flash", "saved")

	v, ok := sess.Pull("flash")
	if !ok || v != "saved" {
		t.Errorf("Pull(flash) = %v, %v; want saved, true", v, ok)
	}
	if sess.Has("flash") {
		t.Error("Pull should remove the value")
	}
	if _, ok := sess.Pull("flash"); ok {
		t.Error("second Pull should report missing")
	}
}

func TestSession_DestroyAndData(t *testing.T) {
	sess := New(time.Hour)
	sess.Set("a", 1)
	sess.Set("b", 2)

	data := sess.Data()
	data["c"] = 3
	if sess.Has("c") {
		t.Error("Data must return a copy")
	}

	sess.Destroy()
	if !sess.IsDestroyed() {
		t.Error("IsDestroyed() = false after Destroy")
	}
	if len(sess.Data()) != 0 {
		t.Errorf("Data() has %d values after Destroy, want 0", len(sess.Data()))
	}
}

func TestValue(t *testing.T) {
	sess := New(time.Hour)
	sess.Set("count", 3)

	n, err := Value[int](sess, "count")
	if err != nil || n != 3 {
		t.Errorf("Value[int] = %d, %v; want 3, nil", n, err)
	}
	if _, err := Value[string](sess, "count"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Value[string] err = %v, want ErrTypeMismatch", err)
	}
	if _, err := Value[int](sess, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Value missing err = %v, want ErrNotFound", err)
	}
	if got := ValueOr(sess, "missing", "def"); got != "def" {
		t.Errorf("ValueOr = %q, want def", got)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get missing err = %v, want ErrNotFound", err)
	}

	sess := New(time.Hour)
	sess.Set("k", "v")
	if err := store.Save(ctx, sess, time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v, _ := loaded.Get("k"); v != "v" {
		t.Errorf("loaded value = %v, want v", v)
	}
	if loaded.IsNew() || loaded.IsDirty() {
		t.Error("loaded session should be neither new nor dirty")
	}

	loaded.Set("k", "changed")
	again, _ := store.Get(ctx, sess.ID)
	if v, _ := again.Get("k"); v != "v" {
		t.Error("mutating a loaded session leaked into the store")
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d after Delete, want 0", store.Len())
	}
}

func TestMemoryStore_Expired(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess := New(time.Hour)
	sess.ExpiresAt = time.Now().Add(-time.Minute)
	if err := store.Save(ctx, sess, 0); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, ErrExpired) {
		t.Errorf("Get expired err = %v, want ErrExpired", err)
	}
}
