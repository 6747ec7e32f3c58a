package capturetest

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/runcap/runcap"
)

// RunLauncherTests runs the behavioral compliance suite for a
// [runcap.Launcher] implementation. The factory is called once per
// subtest and returns a fresh launcher plus a command that, when
// launched by it, quickly exits with code zero.
func RunLauncherTests(t *testing.T, factory func() (runcap.Launcher, runcap.Command)) {
	t.Helper()

	t.Run("EmptyArgvRejected", func(t *testing.T) {
		l, _ := factory()
		if _, err := l.Launch(context.Background(), runcap.Command{}, runcap.StdioSpec{}); err == nil {
			t.Error("Launch with empty argv should return an error")
		}
	})

	t.Run("PipesFollowSpec", func(t *testing.T) {
		l, cmd := factory()
		h, err := l.Launch(context.Background(), cmd, runcap.StdioSpec{Stdout: true, Stderr: true})
		if err != nil {
			t.Fatalf("Launch: %v", err)
		}
		if h.Stdout() == nil {
			t.Error("Stdout() must be non-nil when piped")
		}
		if h.Stderr() == nil {
			t.Error("Stderr() must be non-nil when piped")
		}
		drainPipes(h)
		if err := h.Wait(); err != nil {
			t.Errorf("Wait: %v", err)
		}
	})

	t.Run("NullSinkNoPipes", func(t *testing.T) {
		l, cmd := factory()
		h, err := l.Launch(context.Background(), cmd, runcap.StdioSpec{})
		if err != nil {
			t.Fatalf("Launch: %v", err)
		}
		if h.Stdout() != nil {
			t.Error("Stdout() must be nil when not piped")
		}
		if h.Stderr() != nil {
			t.Error("Stderr() must be nil when not piped")
		}
		if err := h.Wait(); err != nil {
			t.Errorf("Wait: %v", err)
		}
	})

	t.Run("ExitCodeBeforeWaitIsNegative", func(t *testing.T) {
		l, cmd := factory()
		h, err := l.Launch(context.Background(), cmd, runcap.StdioSpec{})
		if err != nil {
			t.Fatalf("Launch: %v", err)
		}
		if code := h.ExitCode(); code >= 0 {
			t.Errorf("ExitCode before Wait = %d, want negative", code)
		}
		_ = h.Wait()
	})

	t.Run("WaitIdempotent", func(t *testing.T) {
		l, cmd := factory()
		h, err := l.Launch(context.Background(), cmd, runcap.StdioSpec{})
		if err != nil {
			t.Fatalf("Launch: %v", err)
		}
		first := h.Wait()
		second := h.Wait()
		if first != second {
			t.Errorf("Wait results differ: %v vs %v", first, second)
		}
		if code := h.ExitCode(); code != 0 {
			t.Errorf("ExitCode = %d, want 0", code)
		}
	})

	t.Run("RunningLifecycle", func(t *testing.T) {
		l, cmd := factory()
		h, err := l.Launch(context.Background(), cmd, runcap.StdioSpec{})
		if err != nil {
			t.Fatalf("Launch: %v", err)
		}
		_ = h.Wait()
		if h.Running() {
			t.Error("Running() must be false after Wait")
		}
	})

	t.Run("KillAfterExitReturnsNil", func(t *testing.T) {
		l, cmd := factory()
		h, err := l.Launch(context.Background(), cmd, runcap.StdioSpec{})
		if err != nil {
			t.Fatalf("Launch: %v", err)
		}
		_ = h.Wait()
		if err := h.Kill(); err != nil {
			t.Errorf("Kill after exit = %v, want nil", err)
		}
	})
}

// drainPipes reads both pipes to completion, as sessions do before
// reaping.
func drainPipes(h runcap.Handle) {
	var wg sync.WaitGroup
	for _, pipe := range []io.ReadCloser{h.Stdout(), h.Stderr()} {
		if pipe == nil {
			continue
		}
		wg.Add(1)
		go func(r io.Reader) {
			defer wg.Done()
			_, _ = io.Copy(io.Discard, r)
		}(pipe)
	}
	wg.Wait()
}
