//go:build !windows

package proc

import (
	"context"
	"io"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runcap/runcap"
	"github.com/runcap/runcap/capturetest"
)

func TestOSLauncher_Compliance(t *testing.T) {
	capturetest.RunLauncherTests(t, func() (runcap.Launcher, runcap.Command) {
		return OSLauncher{}, runcap.Command{Args: []string{"true"}}
	})
}

func TestOSLauncher_PipeCarriesOutput(t *testing.T) {
	h, err := OSLauncher{}.Launch(context.Background(),
		runcap.Command{Args: []string{"sh", "-c", "printf payload"}},
		runcap.StdioSpec{Stdout: true})
	require.NoError(t, err)

	data, err := io.ReadAll(h.Stdout())
	require.NoError(t, err)
	require.NoError(t, h.Wait())
	assert.Equal(t, []byte("payload"), data)
	assert.Equal(t, 0, h.ExitCode())
}

func TestOSLauncher_NonZeroExitIsNotAnError(t *testing.T) {
	h, err := OSLauncher{}.Launch(context.Background(),
		runcap.Command{Args: []string{"sh", "-c", "exit 7"}},
		runcap.StdioSpec{})
	require.NoError(t, err)
	assert.NoError(t, h.Wait())
	assert.Equal(t, 7, h.ExitCode())
}

func TestOSLauncher_MissingBinaryFailsLaunch(t *testing.T) {
	_, err := OSLauncher{}.Launch(context.Background(),
		runcap.Command{Args: []string{"/nonexistent/binary-xyz"}},
		runcap.StdioSpec{})
	assert.Error(t, err)
}

func TestOSLauncher_SignalTermination(t *testing.T) {
	h, err := OSLauncher{}.Launch(context.Background(),
		runcap.Command{Args: []string{"sleep", "30"}},
		runcap.StdioSpec{})
	require.NoError(t, err)

	require.NoError(t, h.Signal(syscall.SIGTERM))
	require.NoError(t, h.Wait())
	assert.Negative(t, h.ExitCode(), "signal death reports a negative exit code")
}

func TestOSLauncher_SignalAfterExitReturnsNil(t *testing.T) {
	h, err := OSLauncher{}.Launch(context.Background(),
		runcap.Command{Args: []string{"true"}},
		runcap.StdioSpec{})
	require.NoError(t, err)
	require.NoError(t, h.Wait())

	// The child is reaped; signaling must be a clean no-op.
	assert.NoError(t, h.Signal(syscall.SIGTERM))
	assert.NoError(t, h.Kill())
}

func TestOSLauncher_CommandIsCloned(t *testing.T) {
	cmd := runcap.Command{Args: []string{"true"}, Env: map[string]string{"A": "1"}}
	h, err := OSLauncher{}.Launch(context.Background(), cmd, runcap.StdioSpec{})
	require.NoError(t, err)
	defer h.Wait()

	got := h.Command()
	got.Env["A"] = "mutated"
	assert.Equal(t, "1", cmd.Env["A"], "handle must not alias the caller's command")
}

func TestOSLauncher_PID(t *testing.T) {
	h, err := OSLauncher{}.Launch(context.Background(),
		runcap.Command{Args: []string{"true"}},
		runcap.StdioSpec{})
	require.NoError(t, err)
	assert.Positive(t, h.PID())
	h.Wait()
}

func TestOSLauncher_WaitConcurrent(t *testing.T) {
	h, err := OSLauncher{}.Launch(context.Background(),
		runcap.Command{Args: []string{"sleep", "0.05"}},
		runcap.StdioSpec{})
	require.NoError(t, err)

	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		go func() { errs <- h.Wait() }()
	}
	for i := 0; i < 4; i++ {
		select {
		case err := <-errs:
			assert.NoError(t, err)
		case <-time.After(10 * time.Second):
			t.Fatal("Wait did not return")
		}
	}
}

func TestOSLauncher_ContextIgnoredAfterLaunch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h, err := OSLauncher{}.Launch(ctx, runcap.Command{Args: []string{"sleep", "0.05"}}, runcap.StdioSpec{})
	require.NoError(t, err)

	cancel() // launched children outlive the launch context
	require.NoError(t, h.Wait())
	assert.Equal(t, 0, h.ExitCode())
}

func TestOSLauncher_EnvInheritedWhenNil(t *testing.T) {
	os.Setenv("RUNCAP_INHERIT_PROBE", "yes")
	defer os.Unsetenv("RUNCAP_INHERIT_PROBE")

	h, err := OSLauncher{}.Launch(context.Background(),
		runcap.Command{Args: []string{"sh", "-c", "printf '%s' \"$RUNCAP_INHERIT_PROBE\""}},
		runcap.StdioSpec{Stdout: true})
	require.NoError(t, err)

	data, _ := io.ReadAll(h.Stdout())
	h.Wait()
	assert.Equal(t, "yes", string(data))
}
