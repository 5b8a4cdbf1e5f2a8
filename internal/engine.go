package internal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"runtime"

	"github.com/google/uuid"

	"github.com/myth21/viewcontroller/pkg/logger"
	"github.com/myth21/viewcontroller/pkg/session"
)

// State is a step of the dispatch lifecycle.
type State int

const (
	StateInit State = iota
	StateParamsDefined
	StateRouted
	StateNamespaceResolved
	StateControllerResolved
	StateActionVerified
	StateInvoked
	StateErrorCaught
	StateExceptionNamespaceResolved
	StateExceptionControllerResolved
	StateExceptionActionVerified
	StateExceptionInvoked
	StateOutput
)

var stateNames = [...]string{
	StateInit:                        "init",
	StateParamsDefined:               "params_defined",
	StateRouted:                      "routed",
	StateNamespaceResolved:           "namespace_resolved",
	StateControllerResolved:          "controller_resolved",
	StateActionVerified:              "action_verified",
	StateInvoked:                     "invoked",
	StateErrorCaught:                 "error_caught",
	StateExceptionNamespaceResolved:  "exception_namespace_resolved",
	StateExceptionControllerResolved: "exception_controller_resolved",
	StateExceptionActionVerified:     "exception_action_verified",
	StateExceptionInvoked:            "exception_invoked",
	StateOutput:                      "output",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Kind names the entry point a run came from.
type Kind string

const (
	KindWeb     Kind = "web"
	KindConsole Kind = "console"
)

// LoggerFunc is the callable notified of every failure before recovery.
type LoggerFunc func(error)

// EntryPoint adapts one kind of inbound request to the dispatch lifecycle.
type EntryPoint interface {
	Kind() Kind

	// DefineRequestParams fills req from the raw input.
	DefineRequestParams(ctx context.Context, req *Request) error

	// ControllerNamespace is the namespace used when no API applies.
	ControllerNamespace(p *Params) string

	// RunController prepares per-action state and calls invoke.
	RunController(ctx context.Context, invoke func() (any, error)) (any, error)

	// Out emits buffered action output followed by the action value.
	Out(ctx context.Context, value any, buffered []byte) error

	// Reset drops any pending output state after a failure.
	Reset()

	Session() *session.Session
	Response() *ResponseHeader
}

// Outcome is the result of Dispatch.
type Outcome struct {
	// Value is what the action (or exception action) returned.
	Value any

	// Failure is the error recovered from, nil on the normal path.
	Failure error

	// State is the last state reached.
	State State

	Descriptor Descriptor
}

// Recovered reports whether the value came from the exception controller.
func (o Outcome) Recovered() bool {
	return o.Failure != nil
}

const panicStackSize = 4096

var ErrEngineReused = errors.New("viewcontroller: engine already dispatched")

// Engine drives one request from raw input to an output value.
// It is single-use: build a new one for every run.
type Engine struct {
	app        *App
	entry      EntryPoint
	logger     *slog.Logger
	request    *Request
	controller any
	runID      string
	namespace  string
	descriptor Descriptor
	throwables ThrowableChain
	output     bytes.Buffer
	state      State
	started    bool
	recovering bool
}

// NewEngine creates an engine running entry against app's configuration.
func NewEngine(app *App, entry EntryPoint) *Engine {
	runID := uuid.NewString()
	return &Engine{
		app:     app,
		entry:   entry,
		request: NewRequest(),
		runID:   runID,
		logger: app.logger.With(
			slog.String("entry", string(entry.Kind())),
		),
	}
}

func (e *Engine) State() State                { return e.state }
func (e *Engine) Request() *Request           { return e.request }
func (e *Engine) Namespace() string           { return e.namespace }
func (e *Engine) Descriptor() Descriptor      { return e.descriptor }
func (e *Engine) Throwables() *ThrowableChain { return &e.throwables }
func (e *Engine) Controller() any             { return e.controller }
func (e *Engine) RunID() string               { return e.runID }

// Run dispatches and hands the result to the entry point's output.
func (e *Engine) Run(ctx context.Context) error {
	ctx = logger.WithRunID(ctx, e.runID)

	out, err := e.Dispatch(ctx)
	if err != nil {
		return err
	}

	e.transition(ctx, StateOutput)
	return e.entry.Out(ctx, out.Value, e.output.Bytes())
}

// Dispatch runs the lifecycle up to, not including, output.
// One failure is recovered through the exception controller; a failure
// while recovering is returned as an error wrapping ErrRecoveryFailed.
func (e *Engine) Dispatch(ctx context.Context) (Outcome, error) {
	if e.started {
		return Outcome{State: e.state}, ErrEngineReused
	}
	e.started = true
	ctx = logger.WithRunID(ctx, e.runID)

	value, err := e.guard(func() (any, error) { return e.runNormal(ctx) })
	if err == nil {
		e.logger.InfoContext(ctx, "dispatched",
			slog.String("controller", e.descriptor.ClassName()),
			slog.String("action", e.descriptor.Action),
		)
		return Outcome{Value: value, State: e.state, Descriptor: e.descriptor}, nil
	}

	return e.recover(ctx, err)
}

func (e *Engine) runNormal(ctx context.Context) (any, error) {
	if err := e.entry.DefineRequestParams(ctx, e.request); err != nil {
		return nil, err
	}
	e.transition(ctx, StateParamsDefined)

	if e.entry.Kind() == KindWeb && e.app.params.Bool(KeyCleanURL) {
		if err := e.route(ctx); err != nil {
			return nil, err
		}
		e.transition(ctx, StateRouted)
	}

	e.defineControllerNamespace("")
	e.transition(ctx, StateNamespaceResolved)

	e.descriptor = NewDescriptor(e.namespace, e.ControllerName(), e.ActionName())
	e.transition(ctx, StateControllerResolved)

	if err := e.checkActionAvailableToRun(); err != nil {
		return nil, err
	}
	e.transition(ctx, StateActionVerified)

	value, err := e.runController(ctx)
	if err != nil {
		return nil, err
	}
	e.transition(ctx, StateInvoked)
	return value, nil
}

func (e *Engine) recover(ctx context.Context, cause error) (Outcome, error) {
	failed := Outcome{Failure: cause, State: e.state, Descriptor: e.descriptor}
	if e.recovering {
		return failed, fmt.Errorf("%w: %w", ErrRecoveryFailed, cause)
	}
	e.recovering = true
	e.transition(ctx, StateErrorCaught)

	e.output.Reset()
	e.entry.Reset()

	e.logger.ErrorContext(ctx, "dispatch failed",
		slog.String("origin", e.origin()),
		slog.String("state", failed.State.String()),
		slog.String("error", cause.Error()),
	)
	if err := e.notify(cause); err != nil {
		return failed, err
	}
	e.throwables.Add(cause, e.origin())

	value, err := e.guard(func() (any, error) { return e.runException(ctx) })
	if err != nil {
		failed.State = e.state
		return failed, fmt.Errorf("%w: %w", ErrRecoveryFailed, err)
	}

	return Outcome{Value: value, Failure: cause, State: e.state, Descriptor: e.descriptor}, nil
}

func (e *Engine) runException(ctx context.Context) (any, error) {
	override := ""
	if e.IsRequestToAPI() {
		override = e.app.params.String(KeyAPIExceptionNamespace)
	}
	e.defineControllerNamespace(override)
	e.transition(ctx, StateExceptionNamespaceResolved)

	e.descriptor = NewDescriptor(
		e.namespace,
		e.app.params.String(KeyExceptionControllerName),
		e.app.params.String(KeyExceptionActionName),
	)
	e.transition(ctx, StateExceptionControllerResolved)

	if err := e.checkActionAvailableToRun(); err != nil {
		return nil, err
	}
	e.transition(ctx, StateExceptionActionVerified)

	value, err := e.runController(ctx)
	if err != nil {
		return nil, err
	}
	e.transition(ctx, StateExceptionInvoked)
	return value, nil
}

// guard converts a panic in fn into a *PanicError.
func (e *Engine) guard(fn func() (any, error)) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, panicStackSize)
			stack = stack[:runtime.Stack(stack, false)]
			value, err = nil, &PanicError{Value: r, Stack: stack}
		}
	}()
	return fn()
}

func (e *Engine) route(ctx context.Context) error {
	router, err := e.app.router()
	if err != nil {
		return err
	}

	match, ok := router.Match(ctx, e.request.Method, e.request.Path)
	if !ok {
		return newRouteNotFound(e.request.Method, e.request.Path)
	}
	e.request.foldRoute(match.Resolve())
	return nil
}

// IsRequestToAPI reports whether the matched route names an API and its version.
func (e *Engine) IsRequestToAPI() bool {
	return IsRequestToAPI(e.request.Route)
}

func (e *Engine) defineControllerNamespace(override string) {
	p := e.app.params
	e.namespace = ResolveNamespace(override, NamespaceInput{
		Default:        e.entry.ControllerNamespace(p),
		APIRoot:        p.String(KeyAPINamespace),
		APIControllers: p.String(KeyAPIControllerNamespace),
		IsAPI:          e.IsRequestToAPI(),
		Entity:         e.request.Route[APIKey],
		Version:        e.request.Get[APIVersionKey],
	})
}

// ControllerName is the requested controller or the configured default.
func (e *Engine) ControllerName() string {
	if name, ok := e.request.Get[ControllerKey]; ok {
		return name
	}
	return e.app.params.String(KeyDefaultControllerName)
}

// ActionName is the requested action or the configured default.
func (e *Engine) ActionName() string {
	if name, ok := e.request.Get[ActionKey]; ok {
		return name
	}
	return e.app.params.String(KeyDefaultActionName)
}

func (e *Engine) checkActionAvailableToRun() error {
	if !e.app.controllers.HasAction(e.descriptor.ClassName(), e.descriptor.Action) {
		return newActionNotFound(e.descriptor)
	}
	return nil
}

func (e *Engine) runController(ctx context.Context) (any, error) {
	return e.entry.RunController(ctx, func() (any, error) {
		ctrl, err := e.app.controllers.create(e.descriptor.ClassName(), host{ctx: ctx, e: e})
		if err != nil {
			return nil, err
		}
		if init, ok := ctrl.(Initializer); ok {
			if err := init.Init(); err != nil {
				return nil, err
			}
		}
		e.controller = ctrl
		return invokeAction(ctrl, e.descriptor.Action)
	})
}

// notify hands err to the configured logger callable.
func (e *Engine) notify(err error) error {
	v, ok := e.app.params.Lookup(KeyLogger)
	if !ok || v == nil {
		return nil
	}
	switch fn := v.(type) {
	case func(error):
		fn(err)
	case LoggerFunc:
		fn(err)
	default:
		// Named func types with the same signature.
		rv := reflect.ValueOf(v)
		lt := reflect.TypeFor[LoggerFunc]()
		if rv.Kind() != reflect.Func || !rv.Type().ConvertibleTo(lt) {
			return fmt.Errorf("%w: %T", ErrLoggerNotCallable, v)
		}
		rv.Convert(lt).Interface().(LoggerFunc)(err)
	}
	return nil
}

func (e *Engine) origin() string {
	if e.descriptor.ShortName != "" {
		return e.descriptor.String()
	}
	if e.request.URI == "" {
		return string(e.entry.Kind())
	}
	return e.request.Method + " " + e.request.URI
}

func (e *Engine) transition(ctx context.Context, s State) {
	e.state = s
	e.logger.DebugContext(ctx, "dispatch state", slog.String("state", s.String()))
}
