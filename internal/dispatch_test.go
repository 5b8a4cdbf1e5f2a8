package internal_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/myth21/viewcontroller/internal"
)

func TestParseArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want map[string]string
	}{
		{"mixed", []string{"invalid", "key=value", "wrong="}, map[string]string{"key": "value", "wrong": ""}},
		{"empty key", []string{"=value"}, map[string]string{}},
		{"two equals", []string{"a=b=c"}, map[string]string{}},
		{"last wins", []string{"a=1", "a=2"}, map[string]string{"a": "2"}},
		{"none", nil, map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, internal.ParseArgs(tt.args))
		})
	}
}

func TestResolveNamespace(t *testing.T) {
	t.Parallel()

	api := internal.NamespaceInput{
		Default:        `\app\controller\`,
		APIRoot:        `\app\api\`,
		APIControllers: `\controller\`,
		IsAPI:          true,
		Entity:         "project",
		Version:        "v1",
	}

	tests := []struct {
		name     string
		override string
		in       internal.NamespaceInput
		want     string
	}{
		{"default", "", internal.NamespaceInput{Default: `\admin\console\`}, `\admin\console\`},
		{"default ignores api roots", "", internal.NamespaceInput{Default: `\app\controller\`, APIRoot: `\app\api\`}, `\app\controller\`},
		{"api", "", api, `\app\api\project\v1\controller\`},
		{"override", `\app\api\`, api, `\app\api\`},
		{"api without version", "", internal.NamespaceInput{APIRoot: `\app\api\`, APIControllers: `\controller\`, IsAPI: true, Entity: "project"}, `\app\api\project\\controller\`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, internal.ResolveNamespace(tt.override, tt.in))
		})
	}

	require.True(t, internal.IsRequestToAPI(map[string]string{"api": "project", "version": ""}))
	require.False(t, internal.IsRequestToAPI(map[string]string{"api": "project"}))
	require.False(t, internal.IsRequestToAPI(nil))
}

func TestThrowableChain(t *testing.T) {
	t.Parallel()

	var chain internal.ThrowableChain

	_, err := chain.First()
	require.ErrorIs(t, err, internal.ErrEmptyThrowableChain)
	_, err = chain.Last()
	require.ErrorIs(t, err, internal.ErrEmptyThrowableChain)

	e1, e2, e3 := errors.New("e1"), fmt.Errorf("e2"), &internal.DispatchError{Message: "e3", Code: 404}
	chain.Add(e1, "a")
	chain.Add(nil, "ignored")
	chain.Add(e2, "b")
	chain.Add(e3, "c")

	require.Equal(t, 3, chain.Len())
	first, err := chain.First()
	require.NoError(t, err)
	require.Equal(t, e1, first.Err)
	require.Equal(t, "a", first.Origin)

	last, err := chain.Last()
	require.NoError(t, err)
	require.Equal(t, e3, last.Err)
	require.Equal(t, "*internal.DispatchError", last.Kind)
	require.Equal(t, "e3", last.Message)
	require.Len(t, chain.All(), 3)
}

func TestQueryURL(t *testing.T) {
	t.Parallel()

	require.Equal(t, "?controller=Index&action=index", internal.QueryURL("Index", "index", nil))
	require.Equal(t,
		"?controller=Post&action=view&id=5&q=a+b",
		internal.QueryURL("Post", "view", map[string]string{"q": "a b", "id": "5", "action": "x"}),
	)
}

func TestStatusCode(t *testing.T) {
	t.Parallel()

	require.Equal(t, http.StatusInternalServerError, internal.StatusCode(errors.New("x")))
	de := &internal.DispatchError{Err: internal.ErrRouteNotFound, Message: "route not found", Target: "GET /", Code: http.StatusNotFound}
	wrapped := fmt.Errorf("outer: %w", de)
	require.Equal(t, http.StatusNotFound, internal.StatusCode(wrapped))
	require.ErrorIs(t, wrapped, internal.ErrRouteNotFound)
	require.Equal(t, de, internal.AsDispatchError(wrapped))
	require.Equal(t, "Not Found", de.StatusText())
	require.Nil(t, internal.AsDispatchError(errors.New("x")))

	pe := &internal.PanicError{Value: errors.New("inner")}
	require.EqualError(t, pe, "panic: inner")
	require.Error(t, errors.Unwrap(pe))
}

func TestResponseHeader(t *testing.T) {
	t.Parallel()

	t.Run("send once", func(t *testing.T) {
		t.Parallel()
		h := internal.NewResponseHeader()
		h.Add("X-Trace: 1").Add("X-Trace: 2").Set("Content-Type", "text/plain").SetStatusCode(http.StatusTeapot)
		h.Set("content-type", "text/html")
		require.Equal(t, []string{"X-Trace: 1", "X-Trace: 2", "content-type: text/html"}, h.Headers())
		require.Equal(t, "HTTP/1.1 418 I'm a teapot", h.StatusLine(""))

		rec := httptest.NewRecorder()
		h.Send(rec)
		h.SetStatusCode(http.StatusOK)
		h.Send(rec)
		require.True(t, h.Sent())
		require.Equal(t, http.StatusTeapot, rec.Code)
		require.Equal(t, []string{"1", "2"}, rec.Header().Values("X-Trace"))
		require.Equal(t, "text/html", rec.Header().Get("Content-Type"))
	})

	t.Run("redirect", func(t *testing.T) {
		t.Parallel()
		h := internal.NewResponseHeader()
		require.False(t, h.IsRedirect())
		h.Redirect("/login", 0)
		require.True(t, h.IsRedirect())
		require.Equal(t, http.StatusMovedPermanently, h.StatusCode())
		require.Equal(t, []string{"Location: /login"}, h.Headers())
	})

	t.Run("custom message", func(t *testing.T) {
		t.Parallel()
		h := internal.NewResponseHeader().SetStatusCode(404).SetStatusMessage("Gone Fishing")
		require.Equal(t, "HTTP/2 404 Gone Fishing", h.StatusLine("HTTP/2"))
	})

	t.Run("writer already written", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		rw := internal.NewResponseWriter(rec)
		rw.WriteHeader(http.StatusAccepted)

		h := internal.NewResponseHeader().SetStatusCode(http.StatusTeapot)
		h.Send(rw)
		require.False(t, h.Sent())
		require.Equal(t, http.StatusAccepted, rec.Code)
	})
}
