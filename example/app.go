// Package example is a small project tracker built on viewcontroller. It
// serves HTML pages, a versioned JSON API and console commands from one
// controller registry.
package example

import (
	"bytes"
	"embed"
	"io/fs"

	"github.com/myth21/viewcontroller"
	"github.com/myth21/viewcontroller/pkg/record"
)

// Controller namespaces used by the default params.
const (
	WebNamespace     = `\app\controller\`
	ConsoleNamespace = `\admin\console\`
	APINamespace     = `\app\api\`
	APIv1Namespace   = `\app\api\project\v1\controller\`
)

var (
	//go:embed params.yaml
	paramsYAML []byte

	//go:embed views
	viewsFS embed.FS

	//go:embed migrations
	migrationsFS embed.FS
)

// Params returns the application params with the route table.
func Params() (map[string]any, error) {
	return viewcontroller.LoadParams(bytes.NewReader(paramsYAML))
}

// Views returns the HTML templates.
func Views() fs.FS {
	sub, _ := fs.Sub(viewsFS, "views")
	return sub
}

// Migrations returns the goose migrations written for dialect d.
func Migrations(d record.Dialect) fs.FS {
	dir := "migrations/sqlite"
	if d == record.Postgres {
		dir = "migrations/postgres"
	}
	sub, _ := fs.Sub(migrationsFS, dir)
	return sub
}

// Controllers registers every controller of the example.
func Controllers() *viewcontroller.Registry {
	reg := viewcontroller.NewRegistry()

	viewcontroller.Register(reg, WebNamespace+"IndexController", newIndexController)
	viewcontroller.Register(reg, WebNamespace+"ProjectController", newProjectController)
	viewcontroller.Register(reg, WebNamespace+"ExceptionController", newExceptionController)

	viewcontroller.Register(reg, APIv1Namespace+"ProjectController", newAPIProjectController)
	viewcontroller.Register(reg, APINamespace+"ExceptionController", newAPIExceptionController)

	viewcontroller.Register(reg, ConsoleNamespace+"MigrateController", newMigrateController)
	viewcontroller.Register(reg, ConsoleNamespace+"ProjectController", newConsoleProjectController)
	viewcontroller.Register(reg, ConsoleNamespace+"ExceptionController", newConsoleExceptionController)

	return reg
}

// New builds the application over records. Extra options are applied last.
func New(records *record.Registry, opts ...viewcontroller.Option) (*viewcontroller.App, error) {
	params, err := Params()
	if err != nil {
		return nil, err
	}

	base := []viewcontroller.Option{
		viewcontroller.WithParams(params),
		viewcontroller.WithControllers(Controllers()),
		viewcontroller.WithRecords(records),
		viewcontroller.WithViews(Views()),
	}
	return viewcontroller.New(append(base, opts...)...), nil
}
