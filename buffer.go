package runcap

import (
	"bytes"
	"io"
	"sync"
)

// Buffer is a mutex-guarded byte accumulator.
//
// It implements io.Writer so it can stand in for a real output stream —
// the usual way to redirect passthrough output in tests. Read drains:
// two consecutive reads without an intervening write return the data
// once, then nothing.
type Buffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

var _ io.Writer = (*Buffer)(nil)

// Write appends p to the buffer. It never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// Read atomically returns the accumulated bytes and clears the buffer.
// Returns nil when the buffer is empty.
func (b *Buffer) Read() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.buf.Len() == 0 {
		return nil
	}
	out := make([]byte, b.buf.Len())
	copy(out, b.buf.Bytes())
	b.buf.Reset()
	return out
}

// Clear discards the accumulated bytes without returning them.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// Len returns the number of accumulated bytes.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

// TeeBuffer routes each write to both a combined buffer and a
// per-stream buffer, preserving arrival order in the combined view.
//
// The zero value is ready to use.
type TeeBuffer struct {
	combined Buffer
	out      Buffer
	err      Buffer
}

// Writer returns an io.Writer that appends to both the combined buffer
// and the buffer for s.
func (t *TeeBuffer) Writer(s Stream) io.Writer {
	return teeWriter{t: t, s: s}
}

// Combined returns the arrival-ordered combined buffer.
func (t *TeeBuffer) Combined() *Buffer { return &t.combined }

// Stream returns the buffer holding only the bytes written for s.
func (t *TeeBuffer) Stream(s Stream) *Buffer {
	if s == Stderr {
		return &t.err
	}
	return &t.out
}

// Read drains the combined buffer. When drainStreams is true the
// per-stream buffers are cleared as well.
func (t *TeeBuffer) Read(drainStreams bool) []byte {
	data := t.combined.Read()
	if drainStreams {
		t.out.Clear()
		t.err.Clear()
	}
	return data
}

type teeWriter struct {
	t *TeeBuffer
	s Stream
}

func (w teeWriter) Write(p []byte) (int, error) {
	if _, err := w.t.combined.Write(p); err != nil {
		return 0, err
	}
	return w.t.Stream(w.s).Write(p)
}
