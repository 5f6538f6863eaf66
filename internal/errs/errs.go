// Package errs defines the coarse, context-carrying error kind used across
// synq. Every error that crosses a component boundary is wrapped here so
// callers can switch on Kind without caring which layer produced it.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is a coarse error classification, preserved across wrappings.
type Kind string

const (
	Read         Kind = "read"
	Write        Kind = "write"
	Parse        Kind = "parse"
	Invalid      Kind = "invalid"
	Network      Kind = "network"
	Timeout      Kind = "timeout"
	Exec         Kind = "exec"
	Cancelled    Kind = "cancelled"
	NotFound     Kind = "not_found"
	Conflict     Kind = "conflict"
	Unauthorized Kind = "unauthorized"
	Database     Kind = "database"
)

// Error is synq's structured error type: a kind, a human message, an
// optional wrapped source error (carrying a backtrace via pkg/errors), and a
// string context map for structured logging.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
	Ctx  map[string]string
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error of the given kind with no wrapped source.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap attaches a kind and message to err, capturing a backtrace if err does
// not already carry one.
func Wrap(err error, kind Kind, msg string) *Error {
	if err == nil {
		return nil
	}
	if _, ok := err.(stackTracer); !ok {
		err = errors.WithStack(err)
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// WithCtx returns e with key/value added to its context map. e is mutated
// and returned for chaining.
func (e *Error) WithCtx(key, value string) *Error {
	if e.Ctx == nil {
		e.Ctx = make(map[string]string, 2)
	}
	e.Ctx[key] = value
	return e
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, or "" otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Backtrace returns the formatted stack trace carried by err, if any.
func Backtrace(err error) string {
	var st stackTracer
	if errors.As(err, &st) {
		return fmt.Sprintf("%+v", st.StackTrace())
	}
	return ""
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}
