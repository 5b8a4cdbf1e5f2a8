package viewcontroller

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"github.com/myth21/viewcontroller/internal"
	"github.com/myth21/viewcontroller/pkg/logger"
	"github.com/myth21/viewcontroller/pkg/record"
	"github.com/myth21/viewcontroller/pkg/session"
	"github.com/myth21/viewcontroller/pkg/view"
)

// Type aliases - public API
type (
	// App holds params, controllers, sessions, records and views shared by every run.
	App = internal.App

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// Params is the immutable application settings store.
	Params = internal.Params

	// Request is the parsed input of one run.
	Request = internal.Request

	// Route is one entry of the route table.
	Route = internal.Route

	// RouteParams are the placeholder values of a route match.
	RouteParams = internal.RouteParams

	// RouteHandler turns a route match into request parameters.
	RouteHandler = internal.RouteHandler

	// Router matches request lines against the route table.
	Router = internal.Router

	// Registry resolves controller class names to factories.
	Registry = internal.Registry

	// Host is what a controller sees of the engine that built it.
	Host = internal.Host

	// Initializer is implemented by controllers that need setup after construction.
	Initializer = internal.Initializer

	// Descriptor identifies the controller and action of a run.
	Descriptor = internal.Descriptor

	// Engine drives one request through the dispatch lifecycle.
	Engine = internal.Engine

	// EntryPoint adapts one kind of inbound request to the engine.
	EntryPoint = internal.EntryPoint

	// Outcome is the result of Engine.Dispatch.
	Outcome = internal.Outcome

	// State is a step of the dispatch lifecycle.
	State = internal.State

	// Kind names the entry point of a run.
	Kind = internal.Kind

	// LoggerFunc is the callable stored under the callableLogger param.
	LoggerFunc = internal.LoggerFunc

	// ThrowableChain is the ordered log of errors seen during one run.
	ThrowableChain = internal.ThrowableChain

	// Throwable is one entry of a ThrowableChain.
	Throwable = internal.Throwable

	// ResponseHeader accumulates headers and status of a web response.
	ResponseHeader = internal.ResponseHeader

	// ResponseWriter wraps http.ResponseWriter with write hooks.
	ResponseWriter = internal.ResponseWriter

	// DispatchError is a failure carrying an HTTP-equivalent status code.
	DispatchError = internal.DispatchError

	// PanicError is a recovered action panic.
	PanicError = internal.PanicError

	// SessionOption configures the session cookie.
	SessionOption = internal.SessionOption

	// CheckFunc probes one dependency for the readiness endpoint.
	CheckFunc = internal.CheckFunc

	// ContextExtractor extracts a slog attribute from context.
	ContextExtractor = logger.ContextExtractor

	// Session is a visitor session.
	Session = session.Session

	// SessionStore persists sessions.
	SessionStore = session.Store
)

// Lifecycle states.
const (
	StateInit                        = internal.StateInit
	StateParamsDefined               = internal.StateParamsDefined
	StateRouted                      = internal.StateRouted
	StateNamespaceResolved           = internal.StateNamespaceResolved
	StateControllerResolved          = internal.StateControllerResolved
	StateActionVerified              = internal.StateActionVerified
	StateInvoked                     = internal.StateInvoked
	StateErrorCaught                 = internal.StateErrorCaught
	StateExceptionNamespaceResolved  = internal.StateExceptionNamespaceResolved
	StateExceptionControllerResolved = internal.StateExceptionControllerResolved
	StateExceptionActionVerified     = internal.StateExceptionActionVerified
	StateExceptionInvoked            = internal.StateExceptionInvoked
	StateOutput                      = internal.StateOutput
)

const (
	KindWeb     = internal.KindWeb
	KindConsole = internal.KindConsole
)

// Param keys.
const (
	KeyCleanURL                   = internal.KeyCleanURL
	KeyWebControllerNamespace     = internal.KeyWebControllerNamespace
	KeyConsoleControllerNamespace = internal.KeyConsoleControllerNamespace
	KeyDefaultControllerName      = internal.KeyDefaultControllerName
	KeyDefaultActionName          = internal.KeyDefaultActionName
	KeyExceptionControllerName    = internal.KeyExceptionControllerName
	KeyExceptionActionName        = internal.KeyExceptionActionName
	KeyAPINamespace               = internal.KeyAPINamespace
	KeyAPIControllerNamespace     = internal.KeyAPIControllerNamespace
	KeyAPIExceptionNamespace      = internal.KeyAPIExceptionNamespace
	KeyRoutes                     = internal.KeyRoutes
	KeyLogger                     = internal.KeyLogger
)

// Health endpoint paths.
const (
	LivenessPath  = internal.LivenessPath
	ReadinessPath = internal.ReadinessPath
)

// Errors
var (
	ErrRouteNotFound       = internal.ErrRouteNotFound
	ErrActionNotFound      = internal.ErrActionNotFound
	ErrLoggerNotCallable   = internal.ErrLoggerNotCallable
	ErrEmptyThrowableChain = internal.ErrEmptyThrowableChain
	ErrRecoveryFailed      = internal.ErrRecoveryFailed
	ErrInvalidRoute        = internal.ErrInvalidRoute
	ErrUnknownRoute        = internal.ErrUnknownRoute
	ErrMissingRouteParam   = internal.ErrMissingRouteParam
	ErrInvalidAction       = internal.ErrInvalidAction
	ErrInvalidParams       = internal.ErrInvalidParams
	ErrEngineReused        = internal.ErrEngineReused
)

// Constructors

// New creates an application with the given options.
//
// Example:
//
//	controllers := viewcontroller.NewRegistry()
//	viewcontroller.Register(controllers, `\app\controller\IndexController`, NewIndexController)
//
//	params, err := viewcontroller.LoadParamsFile("config/params.yaml")
//	if err != nil {
//	    return err
//	}
//
//	app := viewcontroller.New(
//	    viewcontroller.WithParams(params),
//	    viewcontroller.WithControllers(controllers),
//	)
//
//	err := app.Serve(":8080")
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// NewRegistry creates an empty controller registry.
func NewRegistry() *Registry {
	return internal.NewRegistry()
}

// Register binds a fully qualified controller class name, such as
// `\app\controller\IndexController`, to a factory. Exported methods of T
// taking no arguments become actions; action "index" calls method Index.
func Register[T any](r *Registry, className string, factory func(Host) T) {
	internal.Register(r, className, factory)
}

// NewEngine creates a single-use engine for entry.
func NewEngine(app *App, entry EntryPoint) *Engine {
	return internal.NewEngine(app, entry)
}

// NewConsoleEntry creates the command-line entry point.
func NewConsoleEntry(args []string, w io.Writer) *internal.ConsoleEntry {
	return internal.NewConsoleEntry(args, w)
}

// NewParams merges overrides over DefaultParams.
func NewParams(overrides map[string]any) *Params {
	return internal.NewParams(overrides)
}

// DefaultParams returns the built-in parameter values.
func DefaultParams() map[string]any {
	return internal.DefaultParams()
}

// LoadParams decodes a YAML params document.
func LoadParams(r io.Reader) (map[string]any, error) {
	return internal.LoadParams(r)
}

// LoadParamsFile reads a YAML params document from disk.
func LoadParamsFile(path string) (map[string]any, error) {
	return internal.LoadParamsFile(path)
}

// NewRouter maps a route table onto a path matcher.
func NewRouter(routes []Route) (*Router, error) {
	return internal.NewRouter(routes)
}

// NewResponseHeader creates an empty header sink with status 200.
func NewResponseHeader() *ResponseHeader {
	return internal.NewResponseHeader()
}

// App options

// WithParams merges overrides over the default params.
func WithParams(overrides map[string]any) Option {
	return internal.WithParams(overrides)
}

// WithParamStore sets a prebuilt params store.
func WithParamStore(p *Params) Option {
	return internal.WithParamStore(p)
}

// WithControllers sets the controller registry.
func WithControllers(r *Registry) Option {
	return internal.WithControllers(r)
}

// WithLogger creates a JSON logger tagged with component.
// Extractors pull values from context, e.g. logger.RunIDExtractor().
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithRecords makes a database connection registry available to controllers.
func WithRecords(r *record.Registry) Option {
	return internal.WithRecords(r)
}

// WithSession enables cookie-bound sessions persisted in store.
func WithSession(store SessionStore, opts ...SessionOption) Option {
	return internal.WithSession(store, opts...)
}

// WithViews sets the template file system used by Host.View.
// Templates are parsed once; pass view.WithCache(nil) to reread them on every render.
func WithViews(fsys fs.FS, opts ...view.Option) Option {
	return internal.WithViews(fsys, opts...)
}

// WithOutput sets where console runs print their result.
func WithOutput(w io.Writer) Option {
	return internal.WithOutput(w)
}

// WithHealthCheck adds a named readiness check.
//
// Example:
//
//	viewcontroller.WithHealthCheck("db", db.Healthcheck(conn))
func WithHealthCheck(name string, check CheckFunc) Option {
	return internal.WithHealthCheck(name, check)
}

// Session options

// WithSessionCookieName sets the session cookie name. Default: "__sid".
func WithSessionCookieName(name string) SessionOption {
	return internal.WithSessionCookieName(name)
}

// WithSessionMaxAge sets the session lifetime in seconds. Default: 30 days.
func WithSessionMaxAge(seconds int) SessionOption {
	return internal.WithSessionMaxAge(seconds)
}

// WithSessionDomain sets the cookie domain.
func WithSessionDomain(domain string) SessionOption {
	return internal.WithSessionDomain(domain)
}

// WithSessionPath sets the cookie path. Default: "/".
func WithSessionPath(path string) SessionOption {
	return internal.WithSessionPath(path)
}

// WithSessionSecure sets the cookie Secure flag.
func WithSessionSecure(secure bool) SessionOption {
	return internal.WithSessionSecure(secure)
}

// Run options

// Logger sets the server logger. Defaults to the app logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout bounds graceful shutdown. Default: 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// ShutdownHook registers a cleanup function run after the server stops.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the base context of the server.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Helpers

// ParseArgs turns key=value process arguments into a map.
func ParseArgs(args []string) map[string]string {
	return internal.ParseArgs(args)
}

// QueryURL builds a query-string URL addressing controller and action.
func QueryURL(controller, action string, params map[string]string) string {
	return internal.QueryURL(controller, action, params)
}

// StatusCode returns the HTTP-equivalent code carried by err, or 500.
func StatusCode(err error) int {
	return internal.StatusCode(err)
}

// FormatOutput renders an action value as text.
func FormatOutput(v any) string {
	return internal.FormatOutput(v)
}
