package internal

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/myth21/viewcontroller/pkg/logger"
	"github.com/myth21/viewcontroller/pkg/record"
	"github.com/myth21/viewcontroller/pkg/view"
)

// Default server timeouts.
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
	defaultAddr              = ":8080"
)

// App holds the configuration shared by every run: params, controllers,
// sessions, records and views. Each run gets its own Engine.
// App is immutable after creation.
type App struct {
	params      *Params
	controllers *Registry
	logger      *slog.Logger
	records     *record.Registry
	sessions    *SessionManager
	views       fs.FS
	viewOpts    []view.Option
	output      io.Writer
	checks      map[string]CheckFunc

	routerOnce sync.Once
	routes     *Router
	routesErr  error
}

// New creates an application with the given options.
//
// Example:
//
//	controllers := viewcontroller.NewRegistry()
//	viewcontroller.Register(controllers, `\app\controller\IndexController`, NewIndexController)
//
//	app := viewcontroller.New(
//	    viewcontroller.WithParams(map[string]any{"isCleanUrlApply": true}),
//	    viewcontroller.WithControllers(controllers),
//	)
func New(opts ...Option) *App {
	a := &App{
		params:      NewParams(nil),
		controllers: NewRegistry(),
		logger:      logger.NewNope(),
		output:      os.Stdout,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.sessions != nil {
		a.sessions.setLogger(a.logger)
	}
	return a
}

func (a *App) Params() *Params           { return a.params }
func (a *App) Controllers() *Registry    { return a.controllers }
func (a *App) Logger() *slog.Logger      { return a.logger }
func (a *App) Records() *record.Registry { return a.records }

// Router returns the route table mapped from params. It is built once.
func (a *App) Router() (*Router, error) {
	return a.router()
}

func (a *App) router() (*Router, error) {
	a.routerOnce.Do(func() {
		a.routes, a.routesErr = NewRouter(a.params.Routes())
	})
	return a.routes, a.routesErr
}

// ServeHTTP dispatches one web request.
// Failures the exception controller could not handle are answered with 500.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	entry := NewWebEntry(w, r, a.sessions, a.logger)
	if err := NewEngine(a, entry).Run(r.Context()); err != nil {
		a.logger.ErrorContext(r.Context(), "unrecovered dispatch failure",
			slog.String("method", r.Method),
			slog.String("uri", r.RequestURI),
			slog.String("error", err.Error()),
		)
		if !entry.Writer().Written() {
			http.Error(entry.Writer(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}

// RunConsole dispatches one console invocation with key=value args.
// Output goes to the writer set by WithOutput (stdout by default).
func (a *App) RunConsole(ctx context.Context, args []string) error {
	return NewEngine(a, NewConsoleEntry(args, a.output)).Run(ctx)
}

// Serve starts an HTTP server for Handler and blocks until shutdown.
//
// Example:
//
//	err := app.Serve(":8080", viewcontroller.ShutdownHook(db.Shutdown(conn)))
func (a *App) Serve(addr string, opts ...RunOption) error {
	return a.ServeHandler(a.Handler(), addr, opts...)
}

// ServeHandler is Serve with a custom root handler, typically a mux that
// mounts the app next to other endpoints. An empty addr means ":8080".
func (a *App) ServeHandler(h http.Handler, addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if cfg.logger == nil {
		cfg.logger = a.logger
	}
	if addr == "" {
		addr = defaultAddr
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return serve(ln, h, cfg)
}
