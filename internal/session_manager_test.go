package internal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/myth21/viewcontroller/pkg/session"
)

type failingStore struct {
	session.Store
}

func (failingStore) Get(context.Context, string) (*session.Session, error) {
	return nil, errors.New("store down")
}

func TestSessionManager_Load(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	sm := NewSessionManager(store)

	t.Run("no cookie", func(t *testing.T) {
		sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !sess.IsNew() {
			t.Error("IsNew() = false, want true")
		}
	})

	t.Run("unknown cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: defaultSessionCookieName, Value: "gone"})
		sess, err := sm.Load(ctx, r)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if sess.ID == "gone" {
			t.Error("Load() reused an unknown session id")
		}
	})

	t.Run("stored", func(t *testing.T) {
		stored := session.New(sm.ttl())
		stored.Set("user", "ann")
		if err := store.Save(ctx, stored, sm.ttl()); err != nil {
			t.Fatal(err)
		}

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: defaultSessionCookieName, Value: stored.ID})
		sess, err := sm.Load(ctx, r)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if v, _ := sess.Get("user"); v != "ann" {
			t.Errorf("user = %v, want ann", v)
		}
	})

	t.Run("store error", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: defaultSessionCookieName, Value: "x"})
		if _, err := NewSessionManager(failingStore{}).Load(ctx, r); err == nil {
			t.Error("Load() error = nil, want store error")
		}
	})
}

func TestSessionManager_Save(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	sm := NewSessionManager(store, WithSessionCookieName("sid"), WithSessionSecure(true))

	sess := session.New(sm.ttl())

	w := httptest.NewRecorder()
	if err := sm.Save(ctx, w, sess); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if store.Len() != 0 {
		t.Error("clean session was stored")
	}

	sess.Set("k", "v")
	if err := sm.Save(ctx, w, sess); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "sid" || cookies[0].Value != sess.ID || !cookies[0].Secure {
		t.Fatalf("cookies = %+v", cookies)
	}
	if store.Len() != 1 || sess.IsDirty() || sess.IsNew() {
		t.Error("session not persisted")
	}

	sess.Destroy()
	w = httptest.NewRecorder()
	if err := sm.Save(ctx, w, sess); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if store.Len() != 0 {
		t.Error("destroyed session still stored")
	}
	cookies = w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("cookie not expired: %+v", cookies)
	}
}
