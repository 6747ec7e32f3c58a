//go:build !windows

package proc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/runcap/runcap"
	"github.com/runcap/runcap/proc/internal/textutil"
)

// Session is one child-process execution from launch to Terminated.
//
// A session owns its process handle and the read ends of the child's
// output pipes until the Terminated event; callers interact only
// through the event channel and the lifecycle methods.
type Session struct {
	id     string
	handle runcap.Handle
	policy runcap.Policy
	sink   *runcap.Sink
	logger *slog.Logger
	grace  time.Duration

	events chan runcap.Event

	// drained is the join latch: counted down by each piped stream's
	// reader on EOF or read error. The join goroutine reaps the child
	// only after the latch reaches zero.
	drained sync.WaitGroup

	// cancelRead unblocks readers stuck on event sends during Stop.
	readCtx    context.Context
	cancelRead context.CancelFunc

	done    chan struct{} // closed exactly once by finish()
	termErr error         // set by finish(), read after done closes

	stopping   atomic.Bool
	stopOnce   sync.Once
	finishOnce sync.Once
}

var _ runcap.Session = (*Session)(nil)

// newSession attaches readers to the handle's pipes and starts the
// join goroutine. The handle's process is already running.
func newSession(handle runcap.Handle, policy runcap.Policy, opts EngineOptions) *Session {
	readCtx, cancelRead := context.WithCancel(context.Background())

	s := &Session{
		id:         uuid.New().String(),
		handle:     handle,
		policy:     policy,
		sink:       opts.Sink,
		logger:     opts.Logger,
		grace:      opts.GracePeriod,
		events:     make(chan runcap.Event, opts.EventBuffer),
		readCtx:    readCtx,
		cancelRead: cancelRead,
		done:       make(chan struct{}),
	}

	type stream struct {
		name runcap.Stream
		pipe io.ReadCloser
	}
	for _, st := range []stream{
		{runcap.Stdout, handle.Stdout()},
		{runcap.Stderr, handle.Stderr()},
	} {
		if st.pipe == nil {
			continue
		}
		s.drained.Add(1)
		go s.readStream(st.name, st.pipe, opts.ReadBuffer)
	}
	go s.finishWhenDrained()
	return s
}

// ID returns the session's correlation id.
func (s *Session) ID() string { return s.id }

// Events returns the channel of session events. The final event is
// always Terminated, after which the channel is closed.
func (s *Session) Events() <-chan runcap.Event { return s.events }

// Handle returns the underlying process handle.
func (s *Session) Handle() runcap.Handle { return s.handle }

// Policy returns the routing policy the session runs with.
func (s *Session) Policy() runcap.Policy { return s.policy }

// Wait blocks until the session terminates naturally.
func (s *Session) Wait() error {
	<-s.done
	return s.termErr
}

// Err returns the terminal error, or nil if still live.
func (s *Session) Err() error {
	select {
	case <-s.done:
		return s.termErr
	default:
		return nil
	}
}

// Kill forcibly terminates the child. The session still drains both
// streams and delivers its Terminated event afterwards.
func (s *Session) Kill() error {
	return s.handle.Kill()
}

// Stop terminates the child gracefully: SIGTERM, then SIGKILL after
// the grace period. Blocks until the session has terminated. Safe to
// call multiple times; after Stop, Err reports [runcap.ErrStopped].
func (s *Session) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() {
		s.stopping.Store(true)

		// Unblock readers stuck on event sends.
		s.cancelRead()

		_ = s.handle.Signal(syscall.SIGTERM)
		s.logger.Debug("stop requested", "session", s.id, "pid", s.handle.PID())

		select {
		case <-s.done:
		case <-time.After(s.grace):
			_ = s.handle.Kill()
		case <-ctx.Done():
			_ = s.handle.Kill()
		}
	})

	<-s.done
	return s.termErr
}

// readStream is the per-stream reader goroutine: continuous blocking
// reads off the session's caller, chunks delivered in exact read order.
func (s *Session) readStream(stream runcap.Stream, pipe io.ReadCloser, bufSize int) {
	defer s.drained.Done()

	buf := make([]byte, bufSize)
	for {
		n, err := pipe.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			s.logger.Debug("chunk read",
				"session", s.id,
				"stream", string(stream),
				"bytes", n,
				"preview", textutil.Preview(data),
			)

			// Per-chunk side effects, in order: passthrough, then capture.
			if s.policy.Passes(stream) {
				_, _ = s.sink.Write(stream, data)
			}
			if s.policy.Captures(stream) {
				if !s.deliver(runcap.Event{
					Type:  runcap.EventChunk,
					Chunk: runcap.Chunk{Stream: stream, Data: data},
					Time:  time.Now(),
				}) {
					return
				}
			}
		}
		if err != nil {
			// EOF and closed-pipe are the normal end of stream. Any
			// other error ends only this stream; the other stream and
			// the process itself continue.
			if err != io.EOF && !errors.Is(err, os.ErrClosed) {
				s.logger.Debug("read error", "session", s.id, "stream", string(stream), "err", err)
				if s.policy.Captures(stream) {
					s.deliver(runcap.Event{
						Type:  runcap.EventChunk,
						Chunk: runcap.Chunk{Stream: stream, Err: err},
						Time:  time.Now(),
					})
				}
			}
			return
		}
	}
}

// deliver sends ev on the event channel, giving up if Stop has
// cancelled reading. Reports whether the event was delivered.
func (s *Session) deliver(ev runcap.Event) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.readCtx.Done():
		return false
	}
}

// finishWhenDrained is the join goroutine: it waits for every reader to
// reach EOF or error, then reaps the child, emits the single Terminated
// event, and closes the channel. Reaping strictly after both drains is
// what releases the pipe descriptors exactly once.
func (s *Session) finishWhenDrained() {
	s.drained.Wait()

	waitErr := s.handle.Wait()
	exitCode := s.handle.ExitCode()

	ev := runcap.Event{
		Type:     runcap.EventTerminated,
		ExitCode: exitCode,
		Time:     time.Now(),
	}
	if s.stopping.Load() {
		// The consumer may be gone after a Stop; never block on it.
		select {
		case s.events <- ev:
		default:
		}
	} else {
		s.deliver(ev)
	}

	switch {
	case s.stopping.Load():
		waitErr = runcap.ErrStopped
	case waitErr != nil:
		s.logger.Debug("wait failed", "session", s.id, "err", waitErr)
	}
	s.logger.Info("session terminated", "session", s.id, "exit_code", exitCode)
	s.finish(waitErr)
}

// finish sets the terminal error and closes events+done exactly once.
func (s *Session) finish(err error) {
	s.finishOnce.Do(func() {
		s.termErr = err
		close(s.events)
		close(s.done)
	})
}
