package runcap

import (
	"context"
	"sync"
)

// mockSession is a test double for Session.
// Shared across root-package test files.
type mockSession struct {
	events  chan Event
	handle  Handle
	policy  Policy
	termErr error
	done    chan struct{}

	killOnce sync.Once
	killedMu sync.Mutex
	killedN  int
}

func newMockSession() *mockSession {
	return &mockSession{
		events: make(chan Event, 16),
		done:   make(chan struct{}),
	}
}

func (m *mockSession) Events() <-chan Event { return m.events }

func (m *mockSession) Handle() Handle { return m.handle }

func (m *mockSession) Policy() Policy { return m.policy }

func (m *mockSession) Wait() error {
	<-m.done
	return m.termErr
}

func (m *mockSession) Stop(ctx context.Context) error {
	m.close()
	return nil
}

// Kill closes the session the way a forced kill would: the event
// channel ends and Wait unblocks.
func (m *mockSession) Kill() error {
	m.killedMu.Lock()
	m.killedN++
	m.killedMu.Unlock()
	m.close()
	return nil
}

func (m *mockSession) Err() error {
	select {
	case <-m.done:
		return m.termErr
	default:
		return nil
	}
}

func (m *mockSession) killed() int {
	m.killedMu.Lock()
	defer m.killedMu.Unlock()
	return m.killedN
}

// close closes the events channel and done channel exactly once.
func (m *mockSession) close() {
	m.killOnce.Do(func() {
		close(m.events)
		close(m.done)
	})
}

// terminate emits the final Terminated event and closes the session.
func (m *mockSession) terminate(exitCode int) {
	m.events <- Event{Type: EventTerminated, ExitCode: exitCode}
	m.close()
}

func chunkEvent(s Stream, data string) Event {
	return Event{Type: EventChunk, Chunk: Chunk{Stream: s, Data: []byte(data)}}
}
