package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/myth21/viewcontroller/pkg/record"
)

// Migrate applies every pending goose migration found at the root of migrations.
func Migrate(ctx context.Context, conn *record.Conn, migrations fs.FS, migrationTable string, log *slog.Logger) error {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(&gooseLoggerAdapter{log})
	if migrationTable != "" {
		goose.SetTableName(migrationTable)
	}

	if err := goose.SetDialect(gooseDialect(conn.Dialect())); err != nil {
		return errors.Join(ErrMigrationDialect, err)
	}

	if err := goose.UpContext(ctx, conn.DB(), "."); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}

	return nil
}

// Version returns the current migration version.
func Version(ctx context.Context, conn *record.Conn, migrationTable string) (int64, error) {
	if migrationTable != "" {
		goose.SetTableName(migrationTable)
	}
	if err := goose.SetDialect(gooseDialect(conn.Dialect())); err != nil {
		return 0, errors.Join(ErrMigrationDialect, err)
	}
	return goose.GetDBVersionContext(ctx, conn.DB())
}

func gooseDialect(d record.Dialect) string {
	if d == record.Postgres {
		return "postgres"
	}
	return "sqlite3"
}

type gooseLoggerAdapter struct {
	log *slog.Logger
}

func (g *gooseLoggerAdapter) Printf(format string, args ...any) {
	g.log.Info(fmt.Sprintf(format, args...))
}

func (g *gooseLoggerAdapter) Fatalf(format string, args ...any) {
	// goose returns the error as well; never exit from here.
	g.log.Error(fmt.Sprintf(format, args...))
}
