// Package apperr defines the error taxonomy shared across Traits' services
// and handlers. The sentinel-error-plus-wrapped-struct idiom follows the
// error-handling style used throughout the retrieval pack (validation and
// business-rule errors as distinct types, wrapped with %w so errors.Is/As
// keep working through service boundaries).
package apperr

import (
	"errors"
	"fmt"
)

// Code classifies an error the way spec.md's error taxonomy does.
type Code string

const (
	// InvalidArgument means the caller supplied a request that fails an
	// invariant or validation rule; never worth retrying unmodified.
	InvalidArgument Code = "invalid_argument"
	// NotFound means a referenced entity (station, train, schedule, trip,
	// ticket, reservation, user) does not exist.
	NotFound Code = "not_found"
	// Conflict means a transaction lost a detected serialization race and
	// was retried once before still failing; plain business-rule failures
	// like capacity exhaustion are InvalidArgument, not Conflict.
	Conflict Code = "conflict"
	// Internal means something failed that the caller cannot reasonably
	// act on (DB connectivity, graph store unavailable, etc).
	Internal Code = "internal"
)

// Error is a structured application error: a code for callers to branch on,
// the operation that failed, and the underlying cause.
type Error struct {
	Code Code
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an *Error with no wrapped cause.
func New(code Code, op, msg string) *Error {
	return &Error{Code: code, Op: op, Err: errors.New(msg)}
}

// Wrap attaches a code and operation name to an existing error.
func Wrap(code Code, op string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Op: op, Err: err}
}

// Invalid is a convenience constructor for the common InvalidArgument case.
func Invalid(op, format string, args ...any) *Error {
	return New(InvalidArgument, op, fmt.Sprintf(format, args...))
}

// NotFoundf is a convenience constructor for the common NotFound case.
func NotFoundf(op, format string, args ...any) *Error {
	return New(NotFound, op, fmt.Sprintf(format, args...))
}

// Conflictf is a convenience constructor for the common Conflict case.
func Conflictf(op, format string, args ...any) *Error {
	return New(Conflict, op, fmt.Sprintf(format, args...))
}

// CodeOf returns the Code carried by err, or Internal if err is not (or does
// not wrap) an *Error.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return Internal
}
