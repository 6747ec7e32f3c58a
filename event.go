package runcap

import "time"

// EventType identifies the kind of event from a capture session.
type EventType string

const (
	// EventChunk carries bytes read from one of the child's streams.
	EventChunk EventType = "chunk"

	// EventTerminated is the single terminal event. It fires only after
	// the child has exited and both streams have been fully drained.
	EventTerminated EventType = "terminated"
)

// Chunk is a contiguous run of bytes read from one stream.
//
// A non-nil Err marks a read failure; it ends that stream and no further
// chunks follow for it. End-of-stream itself is not delivered as a
// chunk — the Terminated event is the completion signal.
type Chunk struct {
	// Stream is the stream the bytes were read from.
	Stream Stream `json:"stream"`

	// Data is the bytes read. The slice is owned by the receiver.
	Data []byte `json:"data,omitempty"`

	// Err is the read error that ended the stream, if any.
	Err error `json:"-"`
}

// Event is a structured output from a capture session.
//
// All events for one session are delivered in arrival order on a single
// channel, so cross-stream chunk order reflects true interleaving and
// Terminated is always last.
type Event struct {
	// Type identifies the kind of event.
	Type EventType `json:"type"`

	// Chunk holds the bytes for EventChunk events.
	Chunk Chunk `json:"chunk,omitempty"`

	// ExitCode is the child's exit code, valid for EventTerminated.
	// Negative when the child was killed by a signal.
	ExitCode int `json:"exit_code,omitempty"`

	// Time is when the event was produced.
	Time time.Time `json:"time"`
}
