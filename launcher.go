package runcap

//go:generate mockgen -source=launcher.go -destination=mocks/mock_launcher.go -package=mocks

import (
	"context"
	"io"
	"os"
)

// Command describes what to launch.
//
// Command is a value type — it carries configuration but no runtime
// state. The zero value of every field except Args is usable: nil Env
// inherits the parent environment unchanged, empty Dir inherits the
// parent working directory, nil Stdin reads from the null device.
type Command struct {
	// Args is the argv of the child; Args[0] is the program.
	Args []string `json:"args"`

	// Env holds environment overrides merged over the parent
	// environment. A value overrides any inherited variable of the
	// same name.
	Env map[string]string `json:"env,omitempty"`

	// Dir is the working directory for the child.
	Dir string `json:"dir,omitempty"`

	// Stdin is the child's standard input source.
	Stdin io.Reader `json:"-"`
}

// Clone returns a deep copy of c, cloning the Args slice and Env map.
// The Stdin reader is shared.
func (c Command) Clone() Command {
	out := c
	if c.Args != nil {
		out.Args = append([]string(nil), c.Args...)
	}
	if c.Env != nil {
		out.Env = make(map[string]string, len(c.Env))
		for k, v := range c.Env {
			out.Env[k] = v
		}
	}
	return out
}

// StdioSpec tells a Launcher how to wire the child's output streams:
// a pipe readable through the handle, or the null device.
type StdioSpec struct {
	// Stdout requests a readable pipe for the child's stdout.
	Stdout bool

	// Stderr requests a readable pipe for the child's stderr.
	Stderr bool
}

// Launcher creates child processes. It is the session's only
// collaborator for process creation and is called exactly once per
// session.
//
// Launcher is an interface so engines can run against fakes and mocks;
// proc.OSLauncher is the production implementation.
type Launcher interface {
	// Launch starts the child described by cmd with its output streams
	// wired per stdio. A failure to create the process is returned
	// directly; the caller wraps it as a LaunchError.
	Launch(ctx context.Context, cmd Command, stdio StdioSpec) (Handle, error)
}

// Handle is an opaque reference to a spawned child process.
//
// The output pipes are owned exclusively by the session that launched
// the child until its Terminated event; callers must not read or close
// them.
type Handle interface {
	// Command returns the command the child was launched with.
	Command() Command

	// PID returns the operating-system process id.
	PID() int

	// Running reports whether the child has not yet been reaped.
	Running() bool

	// ExitCode returns the child's exit code. It is valid only after
	// Wait has returned; before that it returns -1. Negative values
	// after exit indicate death by signal.
	ExitCode() int

	// Wait blocks until the child exits and reaps it. Safe to call
	// from multiple goroutines; every call returns the same result.
	// A non-zero exit code is not an error — only a genuine failure
	// to wait is. Wait must not be called before both output pipes
	// are drained.
	Wait() error

	// Signal sends sig to the child. Returns nil if the child has
	// already exited.
	Signal(sig os.Signal) error

	// Kill forcibly terminates the child. Returns nil if the child
	// has already exited.
	Kill() error

	// Stdout returns the read end of the child's stdout pipe, or nil
	// when stdout was not piped.
	Stdout() io.ReadCloser

	// Stderr returns the read end of the child's stderr pipe, or nil
	// when stderr was not piped.
	Stderr() io.ReadCloser
}
