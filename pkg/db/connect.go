package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/myth21/viewcontroller/pkg/record"
)

// Connect opens the configured database and returns it as a record connection.
// Opening is retried with a linear backoff until the database answers a ping.
//
// Records share one logical connection, so the pool is capped at a single
// open connection. For SQLite this also keeps in-memory databases intact.
func Connect(ctx context.Context, cfg Config) (*record.Conn, error) {
	dialect, err := record.DialectFor(cfg.Driver)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	if cfg.DSN == "" {
		return nil, errors.Join(ErrInvalidConfig, ErrEmptyDSN)
	}

	attempts := max(cfg.RetryAttempts, 1)
	var lastErr error
	for i := range attempts {
		db, err := open(ctx, dialect.Name(), cfg)
		if err == nil {
			return record.NewConn(db, dialect), nil
		}
		lastErr = err

		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrUnreachable, ctx.Err())
		case <-time.After(time.Duration(i+1) * cfg.RetryInterval):
		}
	}

	return nil, errors.Join(ErrUnreachable, lastErr)
}

func open(ctx context.Context, driver string, cfg Config) (*sql.DB, error) {
	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if cfg.MaxConnLifetime > 0 {
		db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Healthcheck returns a function that pings the database.
func Healthcheck(conn *record.Conn) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := conn.DB().PingContext(ctx); err != nil {
			return errors.Join(ErrUnhealthy, err)
		}
		return nil
	}
}
