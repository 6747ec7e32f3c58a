package runcap

import "context"

// Session is an active capture session handle.
//
// Events flow through the Events channel in arrival order; the
// consumer's goroutine is the delivery context. The channel is closed
// immediately after the single Terminated event.
//
// Session is an interface to enable wrapping with logging or metrics
// middleware, and so aggregation helpers can run against test doubles.
type Session interface {
	// Events returns the channel of session events. Cross-stream chunk
	// order reflects true arrival interleaving; per-stream order is
	// exact. The final event is always Terminated, after which the
	// channel is closed.
	Events() <-chan Event

	// Handle returns the underlying process handle.
	Handle() Handle

	// Policy returns the routing policy the session runs with.
	Policy() Policy

	// Wait blocks until the session terminates naturally.
	// Returns nil on clean exit, or an error describing the failure.
	Wait() error

	// Stop terminates the child gracefully: interrupt first, then a
	// forced kill after a grace period. Blocks until the session has
	// terminated. Safe to call multiple times.
	Stop(ctx context.Context) error

	// Kill forcibly terminates the child without a grace period.
	// The session still drains and delivers Terminated afterwards.
	Kill() error

	// Err returns the terminal error after the Events channel closes,
	// or nil while the session is still live.
	Err() error
}
