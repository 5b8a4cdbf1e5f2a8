package internal

import (
	"context"
	"io"
	"log/slog"

	"github.com/myth21/viewcontroller/pkg/record"
	"github.com/myth21/viewcontroller/pkg/session"
	"github.com/myth21/viewcontroller/pkg/view"
)

// Host is what a controller sees of the engine that built it.
type Host interface {
	// Context is the context of the current run.
	Context() context.Context

	// Kind tells whether the run came from the web or the console.
	Kind() Kind

	Params() *Params
	Request() *Request

	// Session is the visitor session. Console runs get a transient one.
	Session() *session.Session

	// Response is the header sink of a web run, nil on the console.
	Response() *ResponseHeader

	Throwables() *ThrowableChain
	Logger() *slog.Logger

	// Records is the database connection registry, nil if none was configured.
	Records() *record.Registry

	// Output buffers text printed by the action. It is emitted before the
	// action's return value and discarded if the action fails.
	Output() io.Writer

	// View returns a renderer bound to the configured templates.
	View() *view.View

	// Descriptor is the controller and action being run.
	Descriptor() Descriptor

	// URL builds a query-string URL addressing controller and action.
	URL(controller, action string, params map[string]string) string

	// RouteURL builds the path of a named route.
	RouteURL(name string, params map[string]string) (string, error)
}

type host struct {
	ctx context.Context
	e   *Engine
}

func (h host) Context() context.Context    { return h.ctx }
func (h host) Kind() Kind                  { return h.e.entry.Kind() }
func (h host) Params() *Params             { return h.e.app.params }
func (h host) Request() *Request           { return h.e.request }
func (h host) Session() *session.Session   { return h.e.entry.Session() }
func (h host) Response() *ResponseHeader   { return h.e.entry.Response() }
func (h host) Throwables() *ThrowableChain { return &h.e.throwables }
func (h host) Logger() *slog.Logger        { return h.e.logger }
func (h host) Records() *record.Registry   { return h.e.app.records }
func (h host) Output() io.Writer           { return &h.e.output }
func (h host) Descriptor() Descriptor      { return h.e.descriptor }

func (h host) URL(controller, action string, params map[string]string) string {
	return QueryURL(controller, action, params)
}

func (h host) RouteURL(name string, params map[string]string) (string, error) {
	router, err := h.e.app.router()
	if err != nil {
		return "", err
	}
	return router.URL(name, params)
}

func (h host) View() *view.View {
	opts := append([]view.Option{view.WithRouteFunc(h.RouteURL)}, h.e.app.viewOpts...)
	return view.New(h.e.app.views, opts...)
}
