package db

import (
	"context"

	"github.com/myth21/viewcontroller/pkg/record"
)

// Shutdown returns a function that closes the connection.
// Use with viewcontroller.ShutdownHook().
func Shutdown(conn *record.Conn) func(ctx context.Context) error {
	return func(context.Context) error {
		return conn.Close()
	}
}
