//go:build !windows

package proc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/runcap/runcap"
)

// OSLauncher is the production [runcap.Launcher], creating children via
// os/exec. The zero value is ready to use.
type OSLauncher struct{}

var _ runcap.Launcher = OSLauncher{}

// Launch starts the child described by cmd. Unpiped output streams are
// wired to the null device by os/exec, which drains them without any
// reader. The context is accepted for interface symmetry; launched
// children outlive it by design.
func (OSLauncher) Launch(_ context.Context, cmd runcap.Command, stdio runcap.StdioSpec) (runcap.Handle, error) {
	if len(cmd.Args) == 0 {
		return nil, errors.New("empty argv")
	}

	c := exec.Command(cmd.Args[0], cmd.Args[1:]...)
	c.Dir = cmd.Dir
	c.Stdin = cmd.Stdin
	if cmd.Env != nil {
		c.Env = runcap.MergeEnv(os.Environ(), cmd.Env)
	}

	h := &osHandle{cmd: c, command: cmd, waitDone: make(chan struct{})}

	var err error
	if stdio.Stdout {
		if h.stdout, err = c.StdoutPipe(); err != nil {
			return nil, fmt.Errorf("stdout pipe: %w", err)
		}
	}
	if stdio.Stderr {
		if h.stderr, err = c.StderrPipe(); err != nil {
			return nil, fmt.Errorf("stderr pipe: %w", err)
		}
	}

	if err := c.Start(); err != nil {
		return nil, err
	}
	return h, nil
}

// osHandle implements runcap.Handle over an exec.Cmd.
type osHandle struct {
	cmd     *exec.Cmd
	command runcap.Command
	stdout  io.ReadCloser
	stderr  io.ReadCloser

	waitOnce sync.Once
	waitDone chan struct{} // closed once the child is reaped
	waitErr  error
}

var _ runcap.Handle = (*osHandle)(nil)

func (h *osHandle) Command() runcap.Command { return h.command.Clone() }

func (h *osHandle) PID() int {
	if h.cmd.Process == nil {
		return 0
	}
	return h.cmd.Process.Pid
}

func (h *osHandle) Running() bool {
	select {
	case <-h.waitDone:
		return false
	default:
		return true
	}
}

func (h *osHandle) ExitCode() int {
	select {
	case <-h.waitDone:
		if ps := h.cmd.ProcessState; ps != nil {
			return ps.ExitCode()
		}
		return -1
	default:
		return -1
	}
}

// Wait reaps the child exactly once; every caller observes the same
// result. A non-zero exit status is not an error — it is data, exposed
// through ExitCode.
func (h *osHandle) Wait() error {
	h.waitOnce.Do(func() {
		err := h.cmd.Wait()
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			err = nil
		}
		h.waitErr = err
		close(h.waitDone)
	})
	<-h.waitDone
	return h.waitErr
}

func (h *osHandle) Signal(sig os.Signal) error {
	return signalProcess(h.cmd.Process, sig)
}

func (h *osHandle) Kill() error {
	return signalProcess(h.cmd.Process, os.Kill)
}

func (h *osHandle) Stdout() io.ReadCloser { return h.stdout }
func (h *osHandle) Stderr() io.ReadCloser { return h.stderr }

// signalProcess sends sig to a process, returning nil if the process
// has already exited (os.ErrProcessDone).
func signalProcess(proc *os.Process, sig os.Signal) error {
	if proc == nil {
		return nil
	}
	err := proc.Signal(sig)
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}
