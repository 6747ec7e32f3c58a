package runcap

import "time"

// RunOptions holds resolved per-run configuration.
// Entry points call ResolveOptions to collapse functional options into
// this struct.
type RunOptions struct {
	// Policy routes each stream to capture and/or passthrough.
	Policy Policy

	// Timeout bounds blocking entry points. Zero or negative means
	// wait forever. Asynchronous entry points ignore it.
	Timeout time.Duration
}

// Option configures a single run or session start.
type Option func(*RunOptions)

// ResolveOptions applies functional options over the defaults
// (capture both streams, no passthrough, no timeout). Nil options are
// skipped; the last writer wins.
func ResolveOptions(opts ...Option) RunOptions {
	ro := RunOptions{Policy: CaptureAll}
	for _, opt := range opts {
		if opt != nil {
			opt(&ro)
		}
	}
	return ro
}

// WithPolicy sets the routing policy for this run.
func WithPolicy(p Policy) Option {
	return func(o *RunOptions) {
		o.Policy = p
	}
}

// WithTimeout bounds blocking entry points. On expiry the child is
// forcibly killed and a *TimeoutError is returned.
func WithTimeout(d time.Duration) Option {
	return func(o *RunOptions) {
		o.Timeout = d
	}
}
