package runcap

import (
	"io"
	"os"
	"sync"
)

// Sink is a shared passthrough target: one writer per stream behind a
// single mutex, so passthrough writes from concurrent sessions never
// interleave mid-chunk.
//
// A Sink is constructed once and passed into each engine or session
// that should share it — there is no implicit process-global sink.
type Sink struct {
	mu     sync.Mutex
	stdout io.Writer
	stderr io.Writer
}

// NewSink returns a Sink writing stdout-stream bytes to out and
// stderr-stream bytes to err. A nil writer discards that stream.
func NewSink(out, err io.Writer) *Sink {
	return &Sink{stdout: out, stderr: err}
}

// Stdio returns a Sink targeting the process's inherited standard
// streams.
func Stdio() *Sink {
	return NewSink(os.Stdout, os.Stderr)
}

// Write forwards p to the writer for s under the sink lock.
func (k *Sink) Write(s Stream, p []byte) (int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	w := k.stdout
	if s == Stderr {
		w = k.stderr
	}
	if w == nil {
		return len(p), nil
	}
	return w.Write(p)
}
