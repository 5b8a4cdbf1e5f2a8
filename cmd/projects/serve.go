package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/myth21/viewcontroller"
	"github.com/myth21/viewcontroller/example"
	"github.com/myth21/viewcontroller/pkg/db"
	"github.com/myth21/viewcontroller/pkg/redis"
	"github.com/myth21/viewcontroller/pkg/session"
)

type serveOptions struct {
	*rootOptions
	addr     string
	redisURL string
	migrate  bool
	secure   bool
}

func newServeCommand(root *rootOptions) *cobra.Command {
	opts := &serveOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server with the web pages, the JSON API and health endpoints.

Sessions are kept in Redis when --redis-url is set, in memory otherwise.

Example:
  projects serve --addr :8080 --migrate
  projects serve --driver pgx --dsn postgres://localhost/projects --redis-url redis://localhost:6379/0`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", envOr("HTTP_ADDR", ":8080"), "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis-url", os.Getenv("REDIS_URL"), "Redis URL for the session store")
	cmd.Flags().BoolVar(&opts.migrate, "migrate", false, "apply migrations before serving")
	cmd.Flags().BoolVar(&opts.secure, "secure-cookie", false, "mark the session cookie Secure")
	return cmd
}

func serve(cmd *cobra.Command, opts *serveOptions) error {
	ctx := cmd.Context()
	log := opts.logger()

	var (
		store session.Store = session.NewMemoryStore()
		extra []viewcontroller.Option
		hooks []viewcontroller.RunOption
	)
	if opts.redisURL != "" {
		client, err := redis.Open(ctx, redis.Config{
			URL:           opts.redisURL,
			RetryAttempts: 3,
			RetryInterval: 2 * time.Second,
		})
		if err != nil {
			return err
		}
		store = session.NewRedisStore(client, "projects:session:")
		extra = append(extra, viewcontroller.WithHealthCheck("redis", redis.Healthcheck(client)))
		hooks = append(hooks, viewcontroller.ShutdownHook(redis.Shutdown(client)))
	}
	extra = append(extra, viewcontroller.WithSession(store, viewcontroller.WithSessionSecure(opts.secure)))

	app, conn, err := opts.open(ctx, log, extra...)
	if err != nil {
		return err
	}

	if opts.migrate {
		if err := db.Migrate(ctx, conn, example.Migrations(conn.Dialect()), "", log); err != nil {
			_ = conn.Close()
			return err
		}
	}

	log.Info("starting server",
		slog.String("addr", opts.addr),
		slog.String("driver", opts.db.Driver),
		slog.Bool("redis_sessions", opts.redisURL != ""),
	)

	hooks = append(hooks,
		viewcontroller.Logger(log),
		viewcontroller.WithContext(ctx),
		viewcontroller.ShutdownHook(db.Shutdown(conn)),
	)
	return app.Serve(opts.addr, hooks...)
}
