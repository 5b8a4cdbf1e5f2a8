package db

import "time"

// Config holds database connection parameters.
// Fields carry env tags for apps that load configuration from the environment.
type Config struct {
	// Driver is a database/sql driver name: "sqlite3" or "pgx".
	Driver string `env:"DATABASE_DRIVER" envDefault:"sqlite3"`

	// DSN is the driver specific data source, a file path for SQLite or
	// a postgres:// URL for PostgreSQL.
	DSN string `env:"DATABASE_DSN,required"`

	MigrationsTable string `env:"DATABASE_MIGRATIONS_TABLE" envDefault:"schema_migrations"`

	// Retry configuration for transient failures during startup.
	RetryAttempts int           `env:"DATABASE_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"DATABASE_RETRY_INTERVAL" envDefault:"5s"`

	// MaxConnLifetime bounds how long a PostgreSQL connection is reused.
	MaxConnLifetime time.Duration `env:"DATABASE_MAX_CONN_LIFETIME" envDefault:"30m"`
}
