package capturetest

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/runcap/runcap"
)

// ScriptStream describes what one output stream plays back.
type ScriptStream struct {
	// Segments are written in order, each as one pipe write, so a
	// well-behaved reader observes them as distinct chunks.
	Segments [][]byte

	// Delay is slept before each segment.
	Delay time.Duration

	// Err, when non-nil, ends the stream with a read error after the
	// segments instead of a clean EOF.
	Err error
}

// Script describes a scripted child process.
type Script struct {
	Stdout ScriptStream
	Stderr ScriptStream

	// ExitCode is the exit code reported after both streams finish.
	ExitCode int

	// ExitDelay is slept between the streams finishing and the
	// process "exiting". Lets tests hold a session in Draining.
	ExitDelay time.Duration

	// IgnoreInterrupt makes Signal a no-op, forcing graceful stops to
	// escalate to Kill.
	IgnoreInterrupt bool
}

// ScriptLauncher is a runcap.Launcher playing back a Script.
//
// The zero value launches an empty script (no output, exit 0). Each
// Launch starts an independent playback; launched commands are
// recorded for assertions.
type ScriptLauncher struct {
	Script Script

	// Err, when non-nil, makes Launch fail.
	Err error

	mu       sync.Mutex
	launched []runcap.Command
}

var _ runcap.Launcher = (*ScriptLauncher)(nil)

// Launch starts playback of the script through real pipes.
func (l *ScriptLauncher) Launch(_ context.Context, cmd runcap.Command, stdio runcap.StdioSpec) (runcap.Handle, error) {
	if l.Err != nil {
		return nil, l.Err
	}
	if len(cmd.Args) == 0 {
		return nil, errors.New("empty argv")
	}
	l.mu.Lock()
	l.launched = append(l.launched, cmd.Clone())
	l.mu.Unlock()

	h := &ScriptHandle{
		command:  cmd.Clone(),
		script:   l.Script,
		killed:   make(chan struct{}),
		waitDone: make(chan struct{}),
		exitCode: -1,
	}
	h.startStream(l.Script.Stdout, stdio.Stdout, &h.stdout)
	h.startStream(l.Script.Stderr, stdio.Stderr, &h.stderr)
	return h, nil
}

// Launched returns the commands launched so far.
func (l *ScriptLauncher) Launched() []runcap.Command {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]runcap.Command, len(l.launched))
	copy(out, l.launched)
	return out
}

// ScriptHandle is the runcap.Handle for a scripted process.
type ScriptHandle struct {
	command runcap.Command
	script  Script

	stdout io.ReadCloser
	stderr io.ReadCloser

	writers sync.WaitGroup

	killOnce sync.Once
	killed   chan struct{}
	closers  []io.Closer

	waitOnce sync.Once
	waitDone chan struct{}
	exitCode int
}

var _ runcap.Handle = (*ScriptHandle)(nil)

// startStream wires one stream: a real pipe fed by a playback
// goroutine when piped, nil when the stream goes to the null sink.
func (h *ScriptHandle) startStream(ss ScriptStream, piped bool, dst *io.ReadCloser) {
	if !piped {
		return
	}
	pr, pw := io.Pipe()
	*dst = pr
	h.closers = append(h.closers, pw)
	h.writers.Add(1)
	go func() {
		defer h.writers.Done()
		for _, seg := range ss.Segments {
			if ss.Delay > 0 {
				select {
				case <-time.After(ss.Delay):
				case <-h.killed:
					pw.CloseWithError(nil)
					return
				}
			}
			if _, err := pw.Write(seg); err != nil {
				return
			}
		}
		pw.CloseWithError(ss.Err)
	}()
}

func (h *ScriptHandle) Command() runcap.Command { return h.command.Clone() }

// PID returns a fixed fake pid.
func (h *ScriptHandle) PID() int { return 4242 }

func (h *ScriptHandle) Running() bool {
	select {
	case <-h.waitDone:
		return false
	default:
		return true
	}
}

func (h *ScriptHandle) ExitCode() int {
	select {
	case <-h.waitDone:
		return h.exitCode
	default:
		return -1
	}
}

func (h *ScriptHandle) Wait() error {
	h.waitOnce.Do(func() {
		writersDone := make(chan struct{})
		go func() {
			h.writers.Wait()
			close(writersDone)
		}()
		select {
		case <-writersDone:
			if h.script.ExitDelay > 0 {
				select {
				case <-time.After(h.script.ExitDelay):
				case <-h.killed:
				}
			}
			select {
			case <-h.killed:
				h.exitCode = -1
			default:
				h.exitCode = h.script.ExitCode
			}
		case <-h.killed:
			h.exitCode = -1
			<-writersDone // kill closes the pipes, so writers finish
		}
		close(h.waitDone)
	})
	<-h.waitDone
	return nil
}

// Signal emulates delivery of a termination signal: unless the script
// ignores interrupts, it behaves like Kill. Returns nil after exit.
func (h *ScriptHandle) Signal(_ os.Signal) error {
	if h.script.IgnoreInterrupt {
		return nil
	}
	return h.Kill()
}

// Kill ends playback: the pipe write ends are closed so readers see
// EOF, and the exit code becomes -1.
func (h *ScriptHandle) Kill() error {
	h.killOnce.Do(func() {
		close(h.killed)
		for _, c := range h.closers {
			_ = c.Close()
		}
	})
	return nil
}

func (h *ScriptHandle) Stdout() io.ReadCloser { return h.stdout }
func (h *ScriptHandle) Stderr() io.ReadCloser { return h.stderr }
