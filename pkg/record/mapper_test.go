package record_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/myth21/viewcontroller/pkg/record"
)

type project struct {
	ID   int64  `db:"id"`
	Name string `db:"project_name"`
	Note *string
	Rank int `db:"-"`
}

func (project) Schema() record.Schema {
	return record.Schema{
		Attributes: record.Attrs(
			"project_name", "Project name",
			"note", "Note",
		),
	}
}

type tag struct {
	Code  string `db:"code"`
	Title string `db:"title"`
}

func (tag) Schema() record.Schema {
	return record.Schema{
		Table:      "tags",
		PrimaryKey: "code",
		Attributes: record.Attrs("title", "Title"),
		ManualKey:  true,
	}
}

type bare struct {
	ID int64 `db:"id"`
}

func (bare) Schema() record.Schema { return record.Schema{Table: "project"} }

type floatKeyed struct {
	ID   float64 `db:"id"`
	Name string  `db:"project_name"`
}

func (floatKeyed) Schema() record.Schema {
	return record.Schema{Table: "project", Attributes: record.Attrs("project_name", "Project name")}
}

type anyKeyed struct {
	ID   any    `db:"id"`
	Name string `db:"project_name"`
}

func (anyKeyed) Schema() record.Schema {
	return record.Schema{Table: "project", Attributes: record.Attrs("project_name", "Project name")}
}

type hooked struct {
	ID   int64  `db:"id"`
	Name string `db:"project_name"`

	calls *[]string
}

func (hooked) Schema() record.Schema {
	return record.Schema{Table: "project", Attributes: record.Attrs("project_name", "Project name")}
}

func (h *hooked) BeforeInsert(ctx context.Context, conn *record.Conn) error {
	*h.calls = append(*h.calls, "insert")
	return conn.ForeignKeys(ctx, true)
}

func (h *hooked) BeforeUpdate(context.Context, *record.Conn) error {
	*h.calls = append(*h.calls, "update")
	return nil
}

func (h *hooked) BeforeDelete(context.Context, *record.Conn) error {
	*h.calls = append(*h.calls, "delete")
	return nil
}

func newRegistry(t *testing.T) *record.Registry {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		CREATE TABLE project (id INTEGER PRIMARY KEY AUTOINCREMENT, project_name TEXT NOT NULL, note TEXT);
		CREATE TABLE tags (code TEXT PRIMARY KEY, title TEXT NOT NULL);
	`)
	require.NoError(t, err)

	return record.NewRegistry(record.NewConn(db, record.SQLite))
}

func insertProjects(t *testing.T, m *record.Mapper[project], names ...string) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		p := m.New()
		p.Name = name
		ok, err := m.Insert(context.Background(), p)
		require.NoError(t, err)
		require.True(t, ok)
		ids = append(ids, p.ID)
	}
	return ids
}

func TestFor(t *testing.T) {
	t.Parallel()

	reg := record.NewRegistry(nil)

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		m, err := record.For[project](reg)
		require.NoError(t, err)
		require.Equal(t, "project", m.Table())
		require.Equal(t, "id", m.PrimaryKeyName())
		require.Equal(t, "Project name", m.Label("project_name"))
		require.Empty(t, m.Label("id"))
		require.Len(t, m.Attributes(), 2)
	})

	t.Run("not a record", func(t *testing.T) {
		t.Parallel()
		_, err := record.For[struct{ ID int }](reg)
		require.ErrorIs(t, err, record.ErrNotARecord)
	})

	t.Run("no connection", func(t *testing.T) {
		t.Parallel()
		m := record.MustFor[project](reg)
		_, err := m.Primary(context.Background(), 1)
		require.ErrorIs(t, err, record.ErrNoConnection)
	})
}

func TestMapper_Lifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := record.MustFor[project](newRegistry(t))

	p := m.New()
	require.True(t, m.IsNew(p))
	require.Nil(t, m.PrimaryKey(p))

	p.Name = "a project name"
	ok, err := m.Insert(ctx, p)
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, m.IsNew(p))
	require.Equal(t, int64(1), p.ID)
	require.Equal(t, int64(1), m.PrimaryKey(p))

	loaded, err := m.Primary(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, "a project name", loaded.Name)
	require.Nil(t, loaded.Note)

	missing, err := m.Primary(ctx, 42)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestMapper_UpdateAndSave(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := record.MustFor[project](newRegistry(t))

	p := m.New()
	p.Name = "draft"
	ok, err := m.Save(ctx, p)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1), p.ID)

	note := "reviewed"
	p.Name = "final"
	p.Note = &note
	ok, err = m.Save(ctx, p)
	require.NoError(t, err)
	require.True(t, ok)

	n, err := m.Count(ctx, record.ListParams{})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	loaded, err := m.Primary(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "final", loaded.Name)
	require.NotNil(t, loaded.Note)
	require.Equal(t, "reviewed", *loaded.Note)

	ok, err = m.UpdateFields(ctx, p, map[string]any{"project_name": "renamed"}, true)
	require.NoError(t, err)
	require.True(t, ok)

	loaded, err = m.Primary(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "renamed", loaded.Name)
	require.Equal(t, "reviewed", *loaded.Note)

	_, err = m.UpdateFields(ctx, p, map[string]any{"name = 1; --": "x"}, true)
	require.ErrorIs(t, err, record.ErrInvalidFieldName)
}

func TestMapper_List(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := record.MustFor[project](newRegistry(t))
	ids := insertProjects(t, m, "alpha", "beta", "gamma")

	list, err := m.List(ctx, record.ListParams{})
	require.NoError(t, err)
	require.Equal(t, 3, list.Len())
	require.Equal(t, []string{"1", "2", "3"}, list.Keys())
	for i, id := range ids {
		rec, ok := list.Get(id)
		require.True(t, ok)
		require.Equal(t, []string{"alpha", "beta", "gamma"}[i], rec.Name)
	}

	list, err = m.List(ctx, record.ListParams{Order: "id DESC", Limit: "2", Offset: "1"})
	require.NoError(t, err)
	require.Equal(t, []string{"2", "1"}, list.Keys())

	one, err := m.One(ctx, record.ListParams{Where: "project_name = ?", Args: []any{"gamma"}})
	require.NoError(t, err)
	require.NotNil(t, one)
	require.Equal(t, ids[2], one.ID)

	none, err := m.One(ctx, record.ListParams{Where: "project_name = ?", Args: []any{"delta"}})
	require.NoError(t, err)
	require.Nil(t, none)

	n, err := m.Count(ctx, record.ListParams{Where: "project_name <> ?", Args: []any{"alpha"}})
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestMapper_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := record.MustFor[project](newRegistry(t))
	ids := insertProjects(t, m, "a", "b", "c", "d")

	p, err := m.Primary(ctx, ids[0])
	require.NoError(t, err)
	ok, err := m.Delete(ctx, p)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = m.DeleteAll(ctx, []any{ids[1], ids[2]})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = m.DeleteAllWhereField(ctx, "project_name", []any{"d"})
	require.NoError(t, err)
	require.True(t, ok)

	n, err := m.Count(ctx, record.ListParams{})
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestMapper_DeleteWithoutStatement(t *testing.T) {
	t.Parallel()

	// Without a connection any issued statement would fail with ErrNoConnection.
	ctx := context.Background()
	m := record.MustFor[project](record.NewRegistry(nil))

	ok, err := m.DeleteAll(ctx, nil)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = m.DeleteAllWhereField(ctx, "project_name", []any{})
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = m.DeleteAllWhereField(ctx, "bad name; DROP", []any{1})
	require.ErrorIs(t, err, record.ErrInvalidFieldName)
	require.NotErrorIs(t, err, record.ErrNoConnection)
	require.False(t, ok)

	_, err = m.DeleteAll(ctx, []any{1})
	require.ErrorIs(t, err, record.ErrNoConnection)
}

func TestMapper_InsertKeyCoercion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reg := newRegistry(t)

	t.Run("float field", func(t *testing.T) {
		m := record.MustFor[floatKeyed](reg)
		rec := &floatKeyed{Name: "f"}
		require.True(t, m.IsNew(rec))

		ok, err := m.Insert(ctx, rec)
		require.NoError(t, err)
		require.True(t, ok)
		require.IsType(t, float64(0), rec.ID)
		require.Equal(t, float64(1), rec.ID)
		require.Equal(t, float64(1), m.PrimaryKey(rec))
		require.False(t, m.IsNew(rec))
	})

	t.Run("untyped field", func(t *testing.T) {
		m := record.MustFor[anyKeyed](reg)
		rec := &anyKeyed{Name: "a"}
		require.True(t, m.IsNew(rec))

		ok, err := m.Insert(ctx, rec)
		require.NoError(t, err)
		require.True(t, ok)
		require.IsType(t, "", rec.ID)
		require.Equal(t, "2", rec.ID)
		require.Equal(t, "2", m.PrimaryKey(rec))
		require.False(t, m.IsNew(rec))
	})
}

func TestMapper_ManualKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := record.MustFor[tag](newRegistry(t))

	tg := &tag{Code: "go", Title: "Go"}
	require.False(t, m.IsNew(tg))

	ok, err := m.Insert(ctx, tg)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "go", tg.Code)

	loaded, err := m.Primary(ctx, "go")
	require.NoError(t, err)
	require.Equal(t, "Go", loaded.Title)
}

func TestMapper_NoAttributes(t *testing.T) {
	t.Parallel()

	m := record.MustFor[bare](newRegistry(t))
	_, err := m.Insert(context.Background(), m.New())
	require.ErrorIs(t, err, record.ErrNoAttributesDeclared)
}

func TestMapper_Hooks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := record.MustFor[hooked](newRegistry(t))

	var calls []string
	h := &hooked{Name: "x", calls: &calls}

	_, err := m.Insert(ctx, h)
	require.NoError(t, err)
	_, err = m.Update(ctx, h)
	require.NoError(t, err)
	_, err = m.UpdateFields(ctx, h, map[string]any{"project_name": "y"}, false)
	require.NoError(t, err)
	_, err = m.Delete(ctx, h)
	require.NoError(t, err)

	require.Equal(t, []string{"insert", "update", "delete"}, calls)
}

func TestConn_Fetch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reg := newRegistry(t)
	insertProjects(t, record.MustFor[project](reg), "alpha", "beta")

	conn, err := reg.Connection()
	require.NoError(t, err)

	rows, err := conn.FetchAll(ctx, "SELECT id, project_name FROM project ORDER BY id")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, int64(2), rows[1]["id"])

	row, err := conn.Fetch(ctx, "SELECT id FROM project WHERE project_name = ?", "nope")
	require.NoError(t, err)
	require.Nil(t, row)
}

func TestDialectFor(t *testing.T) {
	t.Parallel()

	d, err := record.DialectFor("sqlite3")
	require.NoError(t, err)
	require.Equal(t, record.SQLite, d)

	d, err = record.DialectFor("pgx")
	require.NoError(t, err)
	require.Equal(t, record.Postgres, d)
	require.True(t, d.Returning())
	require.Equal(t, "$2", d.Placeholder("x", 2))
	require.Empty(t, d.ForeignKeys(true))

	_, err = record.DialectFor("oracle")
	require.ErrorIs(t, err, record.ErrUnknownDriver)
}
