//go:build !windows

package proc

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/runcap/runcap"
	"github.com/runcap/runcap/capturetest"
)

func TestResolveEngineOptions_Defaults(t *testing.T) {
	got := resolveEngineOptions()
	assert.Equal(t, defaultEventBuffer, got.EventBuffer)
	assert.Equal(t, defaultReadBuffer, got.ReadBuffer)
	assert.Equal(t, defaultGracePeriod, got.GracePeriod)
	assert.NotNil(t, got.Sink)
	assert.NotNil(t, got.Logger)
	assert.IsType(t, OSLauncher{}, got.Launcher)
}

func TestResolveEngineOptions_Overrides(t *testing.T) {
	sink := runcap.NewSink(nil, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	launcher := &capturetest.ScriptLauncher{}

	got := resolveEngineOptions(
		WithSink(sink),
		WithLogger(logger),
		WithLauncher(launcher),
		WithEventBuffer(8),
		WithReadBuffer(512),
		WithGracePeriod(time.Second),
	)
	assert.Same(t, sink, got.Sink)
	assert.Same(t, logger, got.Logger)
	assert.Same(t, launcher, got.Launcher)
	assert.Equal(t, 8, got.EventBuffer)
	assert.Equal(t, 512, got.ReadBuffer)
	assert.Equal(t, time.Second, got.GracePeriod)
}

func TestResolveEngineOptions_IgnoresInvalid(t *testing.T) {
	got := resolveEngineOptions(
		WithSink(nil),
		WithLogger(nil),
		WithLauncher(nil),
		WithEventBuffer(0),
		WithReadBuffer(-1),
		WithGracePeriod(0),
		nil,
	)
	assert.Equal(t, defaultEventBuffer, got.EventBuffer)
	assert.Equal(t, defaultReadBuffer, got.ReadBuffer)
	assert.Equal(t, defaultGracePeriod, got.GracePeriod)
	assert.NotNil(t, got.Sink)
	assert.NotNil(t, got.Logger)
	assert.NotNil(t, got.Launcher)
}
