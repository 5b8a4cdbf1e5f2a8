package record

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// Dialect is what the mapper needs to know about a database driver.
type Dialect interface {
	// Name is the driver name passed to sql.Open.
	Name() string

	// Quote quotes an identifier.
	Quote(ident string) string

	// Placeholder returns the placeholder of the n-th (1-based) bound value named name.
	Placeholder(name string, n int) string

	// Arg wraps a bound value the way Placeholder expects it.
	Arg(name string, v any) any

	// Returning reports whether inserted keys are read with INSERT ... RETURNING
	// instead of the driver's last insert id.
	Returning() bool

	// ForeignKeys returns the statement toggling foreign key enforcement
	// for the session, or "" if the database has no such switch.
	ForeignKeys(on bool) string
}

// SQLite uses named :param placeholders and the last insert id.
var SQLite Dialect = sqliteDialect{}

// Postgres uses $n placeholders and INSERT ... RETURNING.
var Postgres Dialect = postgresDialect{}

// DialectFor returns the dialect registered for a database/sql driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "sqlite3", "sqlite":
		return SQLite, nil
	case "pgx", "postgres", "postgresql":
		return Postgres, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}

func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string                          { return "sqlite3" }
func (sqliteDialect) Quote(ident string) string             { return quoteIdent(ident) }
func (sqliteDialect) Placeholder(name string, _ int) string { return ":" + name }
func (sqliteDialect) Arg(name string, v any) any            { return sql.Named(name, v) }
func (sqliteDialect) Returning() bool                       { return false }

func (sqliteDialect) ForeignKeys(on bool) string {
	if on {
		return "PRAGMA foreign_keys = ON"
	}
	return "PRAGMA foreign_keys = OFF"
}

type postgresDialect struct{}

func (postgresDialect) Name() string                       { return "pgx" }
func (postgresDialect) Quote(ident string) string          { return quoteIdent(ident) }
func (postgresDialect) Placeholder(_ string, n int) string { return "$" + strconv.Itoa(n) }
func (postgresDialect) Arg(_ string, v any) any            { return v }
func (postgresDialect) Returning() bool                    { return true }

// Postgres enforces foreign keys unconditionally.
func (postgresDialect) ForeignKeys(bool) string { return "" }

// statement collects bound arguments while SQL text is assembled.
type statement struct {
	d    Dialect
	args []any
}

func (s *statement) bind(name string, v any) string {
	s.args = append(s.args, s.d.Arg(name, v))
	return s.d.Placeholder(name, len(s.args))
}
