package record

import (
	"context"
	"database/sql"
	"sync"
)

// Conn is a database handle with its dialect. Statements issued through a
// Conn are serialized, so a single logical connection can be shared by
// every record type.
type Conn struct {
	db      *sql.DB
	dialect Dialect
	mu      sync.Mutex
}

// NewConn pairs db with its dialect.
func NewConn(db *sql.DB, d Dialect) *Conn {
	return &Conn{db: db, dialect: d}
}

func (c *Conn) DB() *sql.DB      { return c.db }
func (c *Conn) Dialect() Dialect { return c.dialect }
func (c *Conn) Close() error     { return c.db.Close() }

// Exec runs a statement that returns no rows.
func (c *Conn) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.ExecContext(ctx, query, args...)
}

// FetchAll runs a raw query and returns every row as a column map.
func (c *Conn) FetchAll(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRows(rows)
}

// Fetch runs a raw query and returns the first row, or nil if there is none.
func (c *Conn) Fetch(ctx context.Context, query string, args ...any) (map[string]any, error) {
	rows, err := c.FetchAll(ctx, query, args...)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

// ForeignKeys switches foreign key enforcement where the dialect supports it.
func (c *Conn) ForeignKeys(ctx context.Context, on bool) error {
	stmt := c.dialect.ForeignKeys(on)
	if stmt == "" {
		return nil
	}
	_, err := c.Exec(ctx, stmt)
	return err
}

func (c *Conn) queryRow(ctx context.Context, query string, args []any, dest ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.QueryRowContext(ctx, query, args...).Scan(dest...)
}

func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			row[col] = vals[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
