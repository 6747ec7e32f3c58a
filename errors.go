package runcap

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for session operations.
var (
	// ErrStopped indicates the session was ended by Stop rather than
	// by the child exiting on its own.
	ErrStopped = errors.New("runcap: session stopped")
)

// LaunchError indicates the child process could not be created.
// It is fatal and surfaces synchronously from Start, before any event.
type LaunchError struct {
	Err error
}

func (e *LaunchError) Error() string {
	return "runcap: launch: " + e.Err.Error()
}

func (e *LaunchError) Unwrap() error { return e.Err }

// ParseError indicates a caller-supplied response parser failed.
// It surfaces only through the aggregation result, never through the
// event stream.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "runcap: parse: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// TimeoutError indicates a blocking wait elapsed before the session
// terminated. The process was forcibly killed as a side effect; the
// handle remains available for inspection. The asynchronous session may
// still drain and terminate afterwards, unobserved by the timed-out
// caller.
type TimeoutError struct {
	Handle  Handle
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("runcap: timed out after %s waiting for process to terminate", e.Timeout)
}

// IsTimeout reports whether err's chain contains a *TimeoutError.
// Convenience wrapper around errors.As.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
