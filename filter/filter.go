// Package filter provides composable channel middleware for runcap
// event streams. Consumers wrap sess.Events() with these functions to
// select the event granularity they need.
package filter

import (
	"context"

	"github.com/runcap/runcap"
)

// Chunks returns a channel that passes only chunk events, dropping the
// Terminated marker. Spawns a goroutine that exits when ctx is
// cancelled or ch is closed. The returned channel is closed when the
// goroutine exits.
func Chunks(ctx context.Context, ch <-chan runcap.Event) <-chan runcap.Event {
	return pipe(ctx, ch, func(ev runcap.Event) bool {
		return ev.Type == runcap.EventChunk
	})
}

// OnStream returns a channel that passes only chunk events for s, plus
// the Terminated marker. Spawns a goroutine that exits when ctx is
// cancelled or ch is closed.
func OnStream(ctx context.Context, ch <-chan runcap.Event, s runcap.Stream) <-chan runcap.Event {
	return pipe(ctx, ch, func(ev runcap.Event) bool {
		return ev.Type != runcap.EventChunk || ev.Chunk.Stream == s
	})
}

// TerminatedOnly returns a channel that passes only the Terminated
// event. Spawns a goroutine that exits when ctx is cancelled or ch is
// closed.
func TerminatedOnly(ctx context.Context, ch <-chan runcap.Event) <-chan runcap.Event {
	return pipe(ctx, ch, func(ev runcap.Event) bool {
		return ev.Type == runcap.EventTerminated
	})
}

// pipe spawns a goroutine that reads from ch, passes events matching
// the predicate to the returned channel, and closes it when ch closes
// or ctx is cancelled. Callers must either drain the returned channel
// or cancel ctx to avoid goroutine leaks. Events accepted by the
// predicate may be silently dropped if ctx is cancelled mid-send.
func pipe(ctx context.Context, ch <-chan runcap.Event, accept func(runcap.Event) bool) <-chan runcap.Event {
	out := make(chan runcap.Event)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				if accept(ev) && !trySend(ctx, out, ev) {
					return
				}
			}
		}
	}()
	return out
}

// trySend sends ev on out, returning true on success.
// Returns false if ctx is cancelled before the send completes.
func trySend(ctx context.Context, out chan<- runcap.Event, ev runcap.Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
