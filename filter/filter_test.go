package filter

import (
	"context"
	"testing"

	"github.com/runcap/runcap"
)

func chunk(s runcap.Stream, data string) runcap.Event {
	return runcap.Event{
		Type:  runcap.EventChunk,
		Chunk: runcap.Chunk{Stream: s, Data: []byte(data)},
	}
}

func terminated(code int) runcap.Event {
	return runcap.Event{Type: runcap.EventTerminated, ExitCode: code}
}

func fill(ch chan<- runcap.Event, evs ...runcap.Event) {
	for _, ev := range evs {
		ch <- ev
	}
	close(ch)
}

func drain(ch <-chan runcap.Event) []runcap.Event {
	var out []runcap.Event
	for ev := range ch {
		out = append(out, ev)
	}
	return out
}

// --- Chunks tests ---

func TestChunks_DropsTerminated(t *testing.T) {
	in := make(chan runcap.Event, 4)
	go fill(in,
		chunk(runcap.Stdout, "a"),
		chunk(runcap.Stderr, "b"),
		terminated(0),
	)

	got := drain(Chunks(context.Background(), in))

	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	for i, ev := range got {
		if ev.Type != runcap.EventChunk {
			t.Errorf("got[%d].Type = %q, want chunk", i, ev.Type)
		}
	}
}

func TestChunks_EmptyInput(t *testing.T) {
	in := make(chan runcap.Event)
	close(in)

	if got := drain(Chunks(context.Background(), in)); len(got) != 0 {
		t.Errorf("got %d events, want 0", len(got))
	}
}

func TestChunks_ContextCancellation(_ *testing.T) {
	in := make(chan runcap.Event)
	ctx, cancel := context.WithCancel(context.Background())
	out := Chunks(ctx, in)

	cancel()

	// Output channel should close after ctx cancel.
	drain(out)
}

// --- OnStream tests ---

func TestOnStream_SelectsOneStream(t *testing.T) {
	in := make(chan runcap.Event, 5)
	go fill(in,
		chunk(runcap.Stdout, "keep1"),
		chunk(runcap.Stderr, "drop"),
		chunk(runcap.Stdout, "keep2"),
		terminated(0),
	)

	got := drain(OnStream(context.Background(), in, runcap.Stdout))

	if len(got) != 3 {
		t.Fatalf("got %d events, want 3", len(got))
	}
	if string(got[0].Chunk.Data) != "keep1" || string(got[1].Chunk.Data) != "keep2" {
		t.Errorf("wrong chunks passed: %q, %q", got[0].Chunk.Data, got[1].Chunk.Data)
	}
	if got[2].Type != runcap.EventTerminated {
		t.Errorf("got[2].Type = %q, want terminated (the marker always passes)", got[2].Type)
	}
}

func TestOnStream_EmptyInput(t *testing.T) {
	in := make(chan runcap.Event)
	close(in)

	if got := drain(OnStream(context.Background(), in, runcap.Stderr)); len(got) != 0 {
		t.Errorf("got %d events, want 0", len(got))
	}
}

func TestOnStream_ContextCancellation(_ *testing.T) {
	in := make(chan runcap.Event)
	ctx, cancel := context.WithCancel(context.Background())
	out := OnStream(ctx, in, runcap.Stdout)

	cancel()

	drain(out)
}

// --- TerminatedOnly tests ---

func TestTerminatedOnly_PassesOnlyMarker(t *testing.T) {
	in := make(chan runcap.Event, 4)
	go fill(in,
		chunk(runcap.Stdout, "noise"),
		chunk(runcap.Stderr, "more noise"),
		terminated(3),
	)

	got := drain(TerminatedOnly(context.Background(), in))

	if len(got) != 1 {
		t.Fatalf("got %d events, want 1", len(got))
	}
	if got[0].Type != runcap.EventTerminated || got[0].ExitCode != 3 {
		t.Errorf("got %+v, want terminated with exit code 3", got[0])
	}
}

func TestTerminatedOnly_EmptyInput(t *testing.T) {
	in := make(chan runcap.Event)
	close(in)

	if got := drain(TerminatedOnly(context.Background(), in)); len(got) != 0 {
		t.Errorf("got %d events, want 0", len(got))
	}
}

func TestTerminatedOnly_ContextCancellation(_ *testing.T) {
	in := make(chan runcap.Event)
	ctx, cancel := context.WithCancel(context.Background())
	out := TerminatedOnly(ctx, in)

	cancel()

	drain(out)
}
