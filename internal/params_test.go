package internal_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/myth21/viewcontroller/internal"
)

func TestParams(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		p := internal.NewParams(nil)
		require.False(t, p.Bool(internal.KeyCleanURL))
		require.Equal(t, `\app\controller\`, p.String(internal.KeyWebControllerNamespace))
		require.Equal(t, `\admin\console\`, p.String(internal.KeyConsoleControllerNamespace))
		require.Equal(t, "Index", p.String(internal.KeyDefaultControllerName))
		require.Equal(t, "index", p.String(internal.KeyDefaultActionName))
		require.Equal(t, "Exception", p.String(internal.KeyExceptionControllerName))
		require.Equal(t, "handle", p.String(internal.KeyExceptionActionName))
		require.Empty(t, p.Routes())
		require.False(t, p.Has(internal.KeyLogger))
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()
		p := internal.NewParams(nil)
		require.Equal(t, internal.NotSet, p.Get("nope"))
		require.Empty(t, p.String("nope"))
		_, ok := p.Lookup("nope")
		require.False(t, ok)
	})

	t.Run("overrides merge nested maps", func(t *testing.T) {
		t.Parallel()
		base := internal.NewParams(map[string]any{
			"db": map[string]any{"dsn": "app.db", "driver": "sqlite3"},
		})
		p := internal.NewParams(map[string]any{
			"db":                              base.Get("db"),
			internal.KeyDefaultControllerName: "Home",
		})
		require.Equal(t, "Home", p.String(internal.KeyDefaultControllerName))
		require.Equal(t, "index", p.String(internal.KeyDefaultActionName))
		require.Equal(t, map[string]any{"dsn": "app.db", "driver": "sqlite3"}, p.Get("db"))

		all := p.All()
		all[internal.KeyDefaultControllerName] = "Changed"
		require.Equal(t, "Home", p.String(internal.KeyDefaultControllerName))
	})

	t.Run("bool coercion", func(t *testing.T) {
		t.Parallel()
		for _, v := range []any{true, "1", "true", "on", 1} {
			require.True(t, internal.NewParams(map[string]any{internal.KeyCleanURL: v}).Bool(internal.KeyCleanURL), v)
		}
		for _, v := range []any{false, "0", "", 0, nil} {
			require.False(t, internal.NewParams(map[string]any{internal.KeyCleanURL: v}).Bool(internal.KeyCleanURL), v)
		}
	})
}

func TestLoadParams(t *testing.T) {
	t.Parallel()

	doc := `
isCleanUrlApply: true
defaultControllerName: Home
routes:
  - urlPattern: /post/{id:[0-9]+}
    method: GET|POST
    name: post
    defaults:
      controller: Post
      action: view
`
	raw, err := internal.LoadParams(strings.NewReader(doc))
	require.NoError(t, err)

	p := internal.NewParams(raw)
	require.True(t, p.Bool(internal.KeyCleanURL))
	require.Equal(t, "Home", p.String(internal.KeyDefaultControllerName))

	routes := p.Routes()
	require.Len(t, routes, 1)
	require.Equal(t, "/post/{id:[0-9]+}", routes[0].Pattern)
	require.Equal(t, "GET|POST", routes[0].Method)
	require.Equal(t, "Post", routes[0].Defaults["controller"])

	_, err = internal.LoadParams(strings.NewReader("routes: [oops"))
	require.ErrorIs(t, err, internal.ErrInvalidParams)

	_, err = internal.LoadParamsFile("does-not-exist.yaml")
	require.ErrorIs(t, err, internal.ErrInvalidParams)
}
