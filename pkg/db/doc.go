// Package db opens the database used by record mappers and applies schema
// migrations.
//
// Two drivers are linked in: SQLite through [github.com/mattn/go-sqlite3]
// and PostgreSQL through [github.com/jackc/pgx/v5/stdlib]. Migrations run
// with [github.com/pressly/goose/v3] from any [io/fs.FS], usually an embed.FS.
//
// # Configuration
//
//	DATABASE_DRIVER            - sqlite3 or pgx (default: sqlite3)
//	DATABASE_DSN               - file path or postgres:// URL (required)
//	DATABASE_MIGRATIONS_TABLE  - migrations table name (default: schema_migrations)
//	DATABASE_RETRY_ATTEMPTS    - connection attempts (default: 3)
//	DATABASE_RETRY_INTERVAL    - base retry interval (default: 5s)
//	DATABASE_MAX_CONN_LIFETIME - connection lifetime (default: 30m)
//
// # Usage
//
//	conn, err := db.Connect(ctx, db.Config{Driver: "sqlite3", DSN: "app.db"})
//	if err != nil {
//		return err
//	}
//	if err := db.Migrate(ctx, conn, migrations, "schema_migrations", log); err != nil {
//		return err
//	}
//
//	app := viewcontroller.New(
//		viewcontroller.WithRecords(record.NewRegistry(conn)),
//	)
//
// Close the connection on shutdown with [Shutdown].
package db
