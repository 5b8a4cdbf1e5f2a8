package internal

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrRouteNotFound       = errors.New("viewcontroller: route not found")
	ErrActionNotFound      = errors.New("viewcontroller: action not found")
	ErrLoggerNotCallable   = errors.New("viewcontroller: configured logger is not callable")
	ErrEmptyThrowableChain = errors.New("viewcontroller: throwable chain is empty")
	ErrRecoveryFailed      = errors.New("viewcontroller: exception controller failed")
	ErrInvalidRoute        = errors.New("viewcontroller: invalid route")
	ErrUnknownRoute        = errors.New("viewcontroller: unknown route name")
	ErrMissingRouteParam   = errors.New("viewcontroller: missing route parameter")
	ErrInvalidAction       = errors.New("viewcontroller: invalid action signature")
)

// DispatchError is a failure that maps to an HTTP-equivalent status code.
// It wraps one of the package sentinels so errors.Is keeps working.
type DispatchError struct {
	// Err is the sentinel describing the failure kind.
	Err error

	// Message is the human readable description.
	Message string

	// Target is what could not be resolved (path, class::action).
	Target string

	// Code is the HTTP-equivalent status code.
	Code int
}

func (e *DispatchError) Error() string {
	if e.Target == "" {
		return e.Message
	}
	return e.Message + ": " + e.Target
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

func (e *DispatchError) StatusCode() int {
	return e.Code
}

func (e *DispatchError) StatusText() string {
	return http.StatusText(e.Code)
}

func newRouteNotFound(method, path string) *DispatchError {
	return &DispatchError{
		Err:     ErrRouteNotFound,
		Message: "route not found",
		Target:  method + " " + path,
		Code:    http.StatusNotFound,
	}
}

func newActionNotFound(d Descriptor) *DispatchError {
	return &DispatchError{
		Err:     ErrActionNotFound,
		Message: "action not found",
		Target:  d.String(),
		Code:    http.StatusNotFound,
	}
}

// PanicError is returned when an action panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// StatusCode returns the HTTP-equivalent code carried by err, or 500.
func StatusCode(err error) int {
	var coded interface{ StatusCode() int }
	if errors.As(err, &coded) {
		return coded.StatusCode()
	}
	return http.StatusInternalServerError
}

// AsDispatchError extracts the DispatchError from an error chain if present.
func AsDispatchError(err error) *DispatchError {
	var de *DispatchError
	if errors.As(err, &de) {
		return de
	}
	return nil
}
