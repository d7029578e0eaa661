// Package errors provides the error taxonomy shared by the spurdeck controllers,
// the API client and the command layer.
//
// # Error Types
//
// Base errors (sentinel errors):
//   - ErrNetwork - a call to the workflow service failed
//   - ErrParse - an import file or response body could not be decoded
//   - ErrPrecondition - an operation was invoked without what it needs (run id, file)
//   - ErrCanceled - the user declined a confirmation
//   - ErrInvalid - an argument failed validation
//   - ErrNotFound - resource not found
//   - ErrDisposed - the owning controller was closed while the operation was in flight
//
// Wrapped error types (add context):
//   - WorkflowError{Op, Err, ID} - workflow list operations
//   - RunError{Op, Err, RunID} - paused run operations (resume, cancel)
//   - ConfigError{Path, Err} - configuration errors
//
// # Usage
//
//	// Use structured error types
//	return &errors.WorkflowError{Op: "duplicate", Err: errors.ErrNetwork, ID: id}
//
//	// Check error classes
//	if errors.IsCanceled(err) {
//	    return nil
//	}
package errors

import (
	"errors"
	"fmt"
)

// Base error types (sentinel errors).
var (
	// ErrNetwork indicates a workflow service call failed.
	ErrNetwork = baseError("network failure")

	// ErrParse indicates input could not be decoded into the expected shape.
	ErrParse = baseError("parse failure")

	// ErrPrecondition indicates an operation was missing a required input.
	ErrPrecondition = baseError("precondition failed")

	// ErrCanceled indicates the user declined a confirmation.
	ErrCanceled = baseError("canceled")

	// ErrInvalid indicates validation failed.
	ErrInvalid = baseError("invalid")

	// ErrNotFound indicates a resource was not found.
	ErrNotFound = baseError("not found")

	// ErrDisposed indicates the controller was closed.
	ErrDisposed = baseError("disposed")
)

// baseError is a string that implements error.
type baseError string

func (e baseError) Error() string { return string(e) }

// WorkflowError represents an error that occurred during a workflow list operation.
type WorkflowError struct {
	// Op is the operation being performed (e.g., "load", "create", "delete").
	Op string
	// Err is the underlying error.
	Err error
	// ID is the workflow identifier (optional).
	ID string
}

func (e *WorkflowError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("workflow %s %q: %s", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("workflow %s: %s", e.Op, e.Err)
}

func (e *WorkflowError) Unwrap() error { return e.Err }

// RunError represents an error that occurred while acting on a paused run.
type RunError struct {
	// Op is the operation being performed (e.g., "approve", "resume", "cancel").
	Op string
	// Err is the underlying error.
	Err error
	// RunID is the run identifier (optional).
	RunID string
}

func (e *RunError) Error() string {
	if e.RunID != "" {
		return fmt.Sprintf("run %s %q: %s", e.Op, e.RunID, e.Err)
	}
	return fmt.Sprintf("run %s: %s", e.Op, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// ConfigError represents an error related to configuration.
type ConfigError struct {
	// Path is the configuration file path (optional).
	Path string
	// Err is the underlying error.
	Err error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config %s: %s", e.Path, e.Err)
	}
	return fmt.Sprintf("config: %s", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Wrap adds context to an error by wrapping it with an operation name.
// The returned error implements Unwrap() allowing errors.Is and errors.As
// to work with the wrapped error.
func Wrap(err error, op string) error {
	return &wrappedError{op: op, err: err}
}

// Mark attaches a sentinel class to err while keeping err's message and chain.
// errors.Is(Mark(err, ErrNetwork), ErrNetwork) and errors.Is(Mark(err, ErrNetwork), err)
// both report true.
func Mark(err error, class error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, class) {
		return err
	}
	return &markedError{err: err, class: class}
}

// wrappedError is an error with an operation context.
type wrappedError struct {
	op  string
	err error
}

func (e *wrappedError) Error() string { return fmt.Sprintf("%s: %s", e.op, e.err) }
func (e *wrappedError) Unwrap() error { return e.err }

type markedError struct {
	err   error
	class error
}

func (e *markedError) Error() string   { return e.err.Error() }
func (e *markedError) Unwrap() []error { return []error{e.err, e.class} }

// IsNetwork reports whether err is or wraps ErrNetwork.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// IsParse reports whether err is or wraps ErrParse.
func IsParse(err error) bool {
	return errors.Is(err, ErrParse)
}

// IsPrecondition reports whether err is or wraps ErrPrecondition.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrPrecondition)
}

// IsCanceled reports whether err is or wraps ErrCanceled.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// IsInvalid reports whether err is or wraps ErrInvalid.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDisposed reports whether err is or wraps ErrDisposed.
func IsDisposed(err error) bool {
	return errors.Is(err, ErrDisposed)
}

// AsWorkflowError reports whether err can be typed as a *WorkflowError.
func AsWorkflowError(err error) (*WorkflowError, bool) {
	var we *WorkflowError
	if errors.As(err, &we) {
		return we, true
	}
	return nil, false
}

// AsRunError reports whether err can be typed as a *RunError.
func AsRunError(err error) (*RunError, bool) {
	var re *RunError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// AsConfigError reports whether err can be typed as a *ConfigError.
func AsConfigError(err error) (*ConfigError, bool) {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
