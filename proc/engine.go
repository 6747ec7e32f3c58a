//go:build !windows

package proc

import (
	"context"
	"fmt"

	"github.com/runcap/runcap"
)

// Engine launches capture sessions. It holds the resources sessions
// share: the passthrough sink, the logger, and the launcher.
type Engine struct {
	opts EngineOptions
}

// NewEngine creates an engine. Use EngineOption functions to redirect
// the sink, attach a logger, or substitute the launcher.
func NewEngine(opts ...EngineOption) *Engine {
	return &Engine{opts: resolveEngineOptions(opts...)}
}

// Start launches cmd and returns a live session streaming its output.
//
// The session begins producing events immediately; callers must drain
// Events (directly or through [runcap.Collect]) until it closes. A
// failure to create the process returns a *runcap.LaunchError before
// any event fires. The context parameter is reserved for launch-time
// cancellation; the running child's lifetime is controlled via
// [Session.Stop], [Session.Kill], or a blocking timeout.
func (e *Engine) Start(ctx context.Context, cmd runcap.Command, opts ...runcap.Option) (*Session, error) {
	ro := runcap.ResolveOptions(opts...)

	// Deep-copy the command to prevent aliasing.
	cmd = cmd.Clone()

	if len(cmd.Args) == 0 {
		return nil, fmt.Errorf("proc: command has empty argv")
	}
	if err := runcap.ValidateEnv(cmd.Env); err != nil {
		return nil, fmt.Errorf("proc: %w", err)
	}

	// Pipe a stream only when the policy routes it somewhere; excluded
	// streams go to the null device, which drains them for free.
	stdio := runcap.StdioSpec{
		Stdout: ro.Policy.Touches(runcap.Stdout),
		Stderr: ro.Policy.Touches(runcap.Stderr),
	}

	handle, err := e.opts.Launcher.Launch(ctx, cmd, stdio)
	if err != nil {
		return nil, &runcap.LaunchError{Err: err}
	}

	sess := newSession(handle, ro.Policy, e.opts)
	e.opts.Logger.Info("session started",
		"session", sess.ID(),
		"pid", handle.PID(),
		"argv0", cmd.Args[0],
		"policy_capture", ro.Policy.Capture.String(),
		"policy_passthrough", ro.Policy.Passthrough.String(),
	)
	return sess, nil
}

// Run launches cmd, blocks until it terminates, and returns the typed
// response synthesized by parser. WithTimeout bounds the wait; on
// expiry the child is killed and a *runcap.TimeoutError is returned.
//
// Run is a free function rather than a method so the response type can
// be generic.
func Run[T any](ctx context.Context, e *Engine, cmd runcap.Command, parser runcap.Parser[T], opts ...runcap.Option) (*runcap.Response[T], error) {
	ro := runcap.ResolveOptions(opts...)
	sess, err := e.Start(ctx, cmd, opts...)
	if err != nil {
		return nil, err
	}
	return runcap.Await(sess, runcap.Collect(sess, parser), ro.Timeout)
}

// RunText launches cmd, blocks until it terminates, and returns its
// captured output decoded as UTF-8 text along with the exit code.
func (e *Engine) RunText(ctx context.Context, cmd runcap.Command, opts ...runcap.Option) (string, int, error) {
	resp, err := Run(ctx, e, cmd, runcap.TextParser, opts...)
	if err != nil {
		return "", -1, err
	}
	return resp.Value, resp.ExitCode, nil
}

// RunRaw launches cmd, blocks until it terminates, and returns its
// captured output as raw bytes along with the exit code.
func (e *Engine) RunRaw(ctx context.Context, cmd runcap.Command, opts ...runcap.Option) ([]byte, int, error) {
	resp, err := Run(ctx, e, cmd, runcap.RawParser, opts...)
	if err != nil {
		return nil, -1, err
	}
	return resp.Value, resp.ExitCode, nil
}

// RunExit launches cmd with output discarded, blocks until it
// terminates, and returns the exit code. Pass WithPolicy to route
// output anyway (for example passthrough-only).
func (e *Engine) RunExit(ctx context.Context, cmd runcap.Command, opts ...runcap.Option) (int, error) {
	opts = append([]runcap.Option{runcap.WithPolicy(runcap.Silent)}, opts...)
	ro := runcap.ResolveOptions(opts...)
	sess, err := e.Start(ctx, cmd, opts...)
	if err != nil {
		return -1, err
	}
	return runcap.WaitExit(sess, ro.Timeout)
}
