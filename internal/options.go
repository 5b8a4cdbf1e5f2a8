package internal

import (
	"io"
	"io/fs"
	"log/slog"

	"github.com/myth21/viewcontroller/pkg/logger"
	"github.com/myth21/viewcontroller/pkg/record"
	"github.com/myth21/viewcontroller/pkg/session"
	"github.com/myth21/viewcontroller/pkg/view"
)

// Option configures the application.
type Option func(*App)

// WithParams merges overrides over the default params.
func WithParams(overrides map[string]any) Option {
	return func(a *App) {
		a.params = NewParams(overrides)
	}
}

// WithParamStore sets a prebuilt params store.
func WithParamStore(p *Params) Option {
	return func(a *App) {
		if p != nil {
			a.params = p
		}
	}
}

// WithControllers sets the controller registry.
func WithControllers(r *Registry) Option {
	return func(a *App) {
		if r != nil {
			a.controllers = r
		}
	}
}

// WithLogger configures JSON logging to stdout tagged with component.
//
// Example:
//
//	viewcontroller.New(
//	    viewcontroller.WithLogger("shop", logger.RunIDExtractor()),
//	)
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(extractors...).With("component", component)
	}
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithRecords makes a database connection registry available to controllers.
func WithRecords(r *record.Registry) Option {
	return func(a *App) {
		a.records = r
	}
}

// WithSession enables cookie-bound sessions persisted in store.
//
// Example:
//
//	viewcontroller.New(
//	    viewcontroller.WithSession(session.NewMemoryStore(),
//	        viewcontroller.WithSessionCookieName("sid"),
//	    ),
//	)
func WithSession(store session.Store, opts ...SessionOption) Option {
	return func(a *App) {
		if store != nil {
			a.sessions = NewSessionManager(store, opts...)
		}
	}
}

// WithViews sets the template file system used by Host.View.
// Templates are parsed once; pass view.WithCache(nil) to reread them on every render.
func WithViews(fsys fs.FS, opts ...view.Option) Option {
	return func(a *App) {
		a.views = fsys
		a.viewOpts = append([]view.Option{view.WithCache(view.NewCache())}, opts...)
	}
}

// WithOutput sets where console runs print their result.
func WithOutput(w io.Writer) Option {
	return func(a *App) {
		if w != nil {
			a.output = w
		}
	}
}

// WithHealthCheck adds a named readiness check served under ReadinessPath.
func WithHealthCheck(name string, check CheckFunc) Option {
	return func(a *App) {
		if check == nil {
			return
		}
		if a.checks == nil {
			a.checks = make(map[string]CheckFunc)
		}
		a.checks[name] = check
	}
}
