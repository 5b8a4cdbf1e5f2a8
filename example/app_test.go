package example_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/myth21/viewcontroller"
	"github.com/myth21/viewcontroller/example"
	"github.com/myth21/viewcontroller/pkg/db"
	"github.com/myth21/viewcontroller/pkg/record"
	"github.com/myth21/viewcontroller/pkg/session"
)

type fixture struct {
	app     *viewcontroller.App
	records *record.Registry
	out     *bytes.Buffer
	cookies []*http.Cookie
}

// newFixture migrates a fresh in-memory database through the console.
// goose keeps global state, so these tests do not run in parallel.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.Connect(context.Background(), db.Config{Driver: "sqlite3", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	f := &fixture{records: record.NewRegistry(conn), out: &bytes.Buffer{}}
	f.app, err = example.New(f.records,
		viewcontroller.WithOutput(f.out),
		viewcontroller.WithSession(session.NewMemoryStore()),
	)
	require.NoError(t, err)

	require.Equal(t, "database at version 1\n", f.console(t, "controller=Migrate", "action=up"))
	return f
}

func (f *fixture) console(t *testing.T, args ...string) string {
	t.Helper()
	f.out.Reset()
	require.NoError(t, f.app.RunConsole(context.Background(), args))
	return f.out.String()
}

func (f *fixture) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range f.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	f.app.Handler().ServeHTTP(rec, req)
	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		f.cookies = cookies
	}
	return rec
}

func TestConsole_Projects(t *testing.T) {
	f := newFixture(t)

	require.Equal(t, "created project 1\n", f.console(t, "controller=Project", "action=add", "name=Alpha"))
	require.Equal(t, "created project 2\n", f.console(t, "controller=Project", "action=add", "name=Beta", "description=Second"))
	require.Equal(t, "created task 1 in project 1\n", f.console(t, "controller=Project", "action=task", "id=1", "title=Docs"))

	require.Equal(t, "1\tAlpha\n2\tBeta\n2 projects\n", f.console(t, "controller=Project", "action=list"))

	t.Run("missing name is handled by the exception controller", func(t *testing.T) {
		require.Equal(t, "error (400): name is required\n", f.console(t, "controller=Project", "action=add"))
	})

	t.Run("unknown project", func(t *testing.T) {
		require.Equal(t, "error (404): project not found: 9\n",
			f.console(t, "controller=Project", "action=task", "id=9", "title=x"))
	})

	t.Run("remove cascades to tasks", func(t *testing.T) {
		require.Equal(t, "removed 1 projects\n", f.console(t, "controller=Project", "action=remove", "ids=1"))
		require.Equal(t, "nothing to remove\n", f.console(t, "controller=Project", "action=remove"))

		tasks := record.MustFor[example.Task](f.records)
		n, err := tasks.Count(context.Background(), record.ListParams{})
		require.NoError(t, err)
		require.Zero(t, n)
	})
}

func TestWeb_ProjectLifecycle(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "0 projects tracked.")
	require.Contains(t, rec.Body.String(), "<title>Home | Projects</title>")

	rec = f.do(t, http.MethodPost, "/projects", url.Values{"project_name": {"Alpha"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/projects/1", rec.Header().Get("Location"))
	require.Empty(t, rec.Body.String())
	require.NotEmpty(t, f.cookies)

	rec = f.do(t, http.MethodGet, "/projects/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "<h1>Alpha</h1>")
	require.Contains(t, rec.Body.String(), "Project created")

	// The flash message is shown once.
	rec = f.do(t, http.MethodGet, "/projects/1", nil)
	require.NotContains(t, rec.Body.String(), "Project created")

	rec = f.do(t, http.MethodGet, "/projects", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `<a href="/projects/1">Alpha</a>`)
	require.Contains(t, rec.Body.String(), "Project name")

	rec = f.do(t, http.MethodPost, "/projects/1/delete", url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/projects", rec.Header().Get("Location"))

	rec = f.do(t, http.MethodGet, "/projects", nil)
	require.Contains(t, rec.Body.String(), "No projects yet.")
	require.Contains(t, rec.Body.String(), "Project deleted")
}

func TestWeb_Errors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		method  string
		target  string
		form    url.Values
		code    int
		message string
	}{
		{"unknown project", http.MethodGet, "/projects/42", nil, http.StatusNotFound, "project not found: 42"},
		{"unknown route", http.MethodGet, "/nowhere", nil, http.StatusNotFound, "route not found"},
		{"empty name", http.MethodPost, "/projects", url.Values{"project_name": {"  "}}, http.StatusBadRequest, "project name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, tt.method, tt.target, tt.form)
			require.Equal(t, tt.code, rec.Code)
			require.Contains(t, rec.Body.String(), http.StatusText(tt.code))
			require.Contains(t, rec.Body.String(), tt.message)
		})
	}
}

func TestAPI_Projects(t *testing.T) {
	f := newFixture(t)
	f.console(t, "controller=Project", "action=add", "name=Alpha", "description=First")

	rec := f.do(t, http.MethodGet, "/api/project/v1/projects", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"projects":[{"id":1,"name":"Alpha","description":"First"}]}`, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/project/v1/projects/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"id":1,"name":"Alpha","description":"First"}`, rec.Body.String())

	t.Run("not found", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/project/v1/projects/7", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "Not Found", body["error"])
		require.Equal(t, "project not found: 7", body["detail"])
	})

	t.Run("unknown version", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/project/v2/projects", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	})
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, viewcontroller.LivenessPath, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestWeb_DescriptionMarkdown(t *testing.T) {
	f := newFixture(t)
	f.console(t, "controller=Project", "action=add", "name=Alpha", "description=Ship **soon** <script>x()</script>")

	rec := f.do(t, http.MethodGet, "/projects/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "<strong>soon</strong>")
	require.NotContains(t, rec.Body.String(), "<script>")
}
