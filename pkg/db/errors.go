package db

import "errors"

var (
	ErrInvalidConfig = errors.New("db: invalid configuration")
	ErrEmptyDSN      = errors.New("db: empty data source name")
	ErrUnreachable   = errors.New("db: database unreachable")
	ErrUnhealthy     = errors.New("db: healthcheck failed")

	ErrMigrationDialect = errors.New("db: no migration dialect for driver")
	ErrMigrationFailed  = errors.New("db: migration failed")
)
