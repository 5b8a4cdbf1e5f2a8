package internal

import (
	"fmt"
	"slices"
	"time"
)

// Throwable is one error recorded during a run.
type Throwable struct {
	Err     error
	Kind    string
	Message string
	Origin  string
	At      time.Time
}

// ThrowableChain is the append-only log of errors seen during one run.
type ThrowableChain struct {
	items []Throwable
}

// Add records err. Origin names where it happened, e.g. a class::action pair.
func (c *ThrowableChain) Add(err error, origin string) {
	if err == nil {
		return
	}
	c.items = append(c.items, Throwable{
		Err:     err,
		Kind:    fmt.Sprintf("%T", err),
		Message: err.Error(),
		Origin:  origin,
		At:      time.Now(),
	})
}

// First returns the earliest error or ErrEmptyThrowableChain.
func (c *ThrowableChain) First() (Throwable, error) {
	if len(c.items) == 0 {
		return Throwable{}, ErrEmptyThrowableChain
	}
	return c.items[0], nil
}

// Last returns the latest error or ErrEmptyThrowableChain.
func (c *ThrowableChain) Last() (Throwable, error) {
	if len(c.items) == 0 {
		return Throwable{}, ErrEmptyThrowableChain
	}
	return c.items[len(c.items)-1], nil
}

func (c *ThrowableChain) All() []Throwable {
	return slices.Clone(c.items)
}

func (c *ThrowableChain) Len() int {
	return len(c.items)
}
