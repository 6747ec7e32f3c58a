//go:build !windows

package proc

import (
	"io"
	"log/slog"
	"time"

	"github.com/runcap/runcap"
)

// Default engine configuration values.
const (
	defaultEventBuffer = 64
	defaultReadBuffer  = 32 << 10 // 32 KiB per read
	defaultGracePeriod = 5 * time.Second
)

// EngineOptions holds resolved construction-time configuration for an
// engine. Use NewEngine with EngineOption functions to customize.
type EngineOptions struct {
	// Sink receives passthrough output from every session.
	Sink *runcap.Sink

	// Logger receives structured session lifecycle logs.
	Logger *slog.Logger

	// Launcher creates child processes.
	Launcher runcap.Launcher

	// EventBuffer is the channel buffer size for session events.
	EventBuffer int

	// ReadBuffer is the per-read buffer size in bytes for each stream.
	ReadBuffer int

	// GracePeriod is the duration Stop waits after the interrupt
	// signal before forcing a kill.
	GracePeriod time.Duration
}

// EngineOption configures an Engine at construction time.
type EngineOption func(*EngineOptions)

// WithSink redirects passthrough output for all of the engine's
// sessions. Pass the same Sink to several engines to serialize their
// output on one lock.
func WithSink(sink *runcap.Sink) EngineOption {
	return func(o *EngineOptions) {
		if sink != nil {
			o.Sink = sink
		}
	}
}

// WithLogger sets the structured logger for session lifecycle events.
// The default discards everything.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *EngineOptions) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithLauncher substitutes the process-creation collaborator.
// The default is [OSLauncher].
func WithLauncher(l runcap.Launcher) EngineOption {
	return func(o *EngineOptions) {
		if l != nil {
			o.Launcher = l
		}
	}
}

// WithEventBuffer sets the channel buffer size for session events.
// Values <= 0 are ignored.
func WithEventBuffer(size int) EngineOption {
	return func(o *EngineOptions) {
		if size > 0 {
			o.EventBuffer = size
		}
	}
}

// WithReadBuffer sets the per-read buffer size in bytes.
// Values <= 0 are ignored.
func WithReadBuffer(size int) EngineOption {
	return func(o *EngineOptions) {
		if size > 0 {
			o.ReadBuffer = size
		}
	}
}

// WithGracePeriod sets the duration Stop waits between the interrupt
// signal and the forced kill. Values <= 0 are ignored.
func WithGracePeriod(d time.Duration) EngineOption {
	return func(o *EngineOptions) {
		if d > 0 {
			o.GracePeriod = d
		}
	}
}

func resolveEngineOptions(opts ...EngineOption) EngineOptions {
	o := EngineOptions{
		EventBuffer: defaultEventBuffer,
		ReadBuffer:  defaultReadBuffer,
		GracePeriod: defaultGracePeriod,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.Sink == nil {
		o.Sink = runcap.Stdio()
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Launcher == nil {
		o.Launcher = OSLauncher{}
	}
	return o
}
