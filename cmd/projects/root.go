package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/myth21/viewcontroller"
	"github.com/myth21/viewcontroller/example"
	"github.com/myth21/viewcontroller/pkg/db"
	"github.com/myth21/viewcontroller/pkg/logger"
	"github.com/myth21/viewcontroller/pkg/record"
)

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	db     db.Config
	log    logger.Config
	sentry logger.SentryConfig
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Project tracker built on viewcontroller",
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.db.Driver, "driver", envOr("DB_DRIVER", "sqlite3"), "database driver (sqlite3|pgx)")
	f.StringVar(&opts.db.DSN, "dsn", envOr("DB_DSN", "projects.db"), "database DSN")
	f.StringVar(&opts.log.Format, "log-format", envOr("LOG_FORMAT", "text"), "log format (json|text)")
	f.StringVar(&opts.log.Level, "log-level", envOr("LOG_LEVEL", "info"), "log level")
	f.StringVar(&opts.sentry.DSN, "sentry-dsn", os.Getenv("SENTRY_DSN"), "Sentry DSN; warnings and errors are forwarded when set")
	f.StringVar(&opts.sentry.Environment, "sentry-env", envOr("SENTRY_ENVIRONMENT", "production"), "Sentry environment")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newConsoleCommand(opts))
	return cmd
}

func (o *rootOptions) logger() *slog.Logger {
	return logger.NewWithSentry(o.sentry, o.log, os.Stderr, logger.RunIDExtractor())
}

// open connects to the database and builds the application on top of it.
func (o *rootOptions) open(ctx context.Context, log *slog.Logger, extra ...viewcontroller.Option) (*viewcontroller.App, *record.Conn, error) {
	conn, err := db.Connect(ctx, o.db)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	opts := append([]viewcontroller.Option{
		viewcontroller.WithCustomLogger(log),
		viewcontroller.WithHealthCheck("db", db.Healthcheck(conn)),
	}, extra...)
	app, err := example.New(record.NewRegistry(conn), opts...)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return app, conn, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
