package runcap

import "strings"

// Stream identifies one of a child process's two output streams.
type Stream string

const (
	// Stdout is the child's standard output stream.
	Stdout Stream = "stdout"

	// Stderr is the child's standard error stream.
	Stderr Stream = "stderr"
)

// StreamSet is a set of streams, combinable by union.
type StreamSet uint8

const (
	// NoStreams is the empty set.
	NoStreams StreamSet = 0

	// StdoutOnly contains only Stdout.
	StdoutOnly StreamSet = 1 << 0

	// StderrOnly contains only Stderr.
	StderrOnly StreamSet = 1 << 1

	// AllStreams contains both streams.
	AllStreams = StdoutOnly | StderrOnly
)

// Has reports whether the set contains s.
func (ss StreamSet) Has(s Stream) bool {
	switch s {
	case Stdout:
		return ss&StdoutOnly != 0
	case Stderr:
		return ss&StderrOnly != 0
	}
	return false
}

// Union returns the set containing every stream in ss or other.
func (ss StreamSet) Union(other StreamSet) StreamSet {
	return ss | other
}

// String returns a stable textual form: "none", "stdout", "stderr", or "all".
func (ss StreamSet) String() string {
	switch ss & AllStreams {
	case NoStreams:
		return "none"
	case StdoutOnly:
		return string(Stdout)
	case StderrOnly:
		return string(Stderr)
	default:
		return "all"
	}
}

// ParseStreamSet parses the forms produced by [StreamSet.String].
// Comma-joined stream names are also accepted ("stdout,stderr").
func ParseStreamSet(s string) (StreamSet, bool) {
	var set StreamSet
	switch s {
	case "", "none":
		return NoStreams, true
	case "all":
		return AllStreams, true
	}
	for _, part := range strings.Split(s, ",") {
		switch Stream(strings.TrimSpace(part)) {
		case Stdout:
			set |= StdoutOnly
		case Stderr:
			set |= StderrOnly
		default:
			return NoStreams, false
		}
	}
	return set, true
}

// Policy routes each stream independently to capture (structured events)
// and/or passthrough (the real or redirected output sink).
//
// Policy is a pure value. A stream may be captured, passed through, both,
// or neither — a stream excluded from both sets is still drained by the
// engine so the child can never block on a full pipe.
type Policy struct {
	// Capture selects the streams delivered as Chunk events.
	Capture StreamSet

	// Passthrough selects the streams forwarded to the session's Sink.
	Passthrough StreamSet
}

// Predefined policies.
var (
	// Silent neither captures nor passes through; output is discarded.
	Silent = Policy{}

	// CaptureAll captures both streams and forwards neither.
	CaptureAll = Policy{Capture: AllStreams}

	// PassthroughAll forwards both streams and captures neither.
	PassthroughAll = Policy{Passthrough: AllStreams}

	// Everything captures and forwards both streams.
	Everything = Policy{Capture: AllStreams, Passthrough: AllStreams}
)

// Union returns the policy combining the capture and passthrough sets
// of p and other.
func (p Policy) Union(other Policy) Policy {
	return Policy{
		Capture:     p.Capture.Union(other.Capture),
		Passthrough: p.Passthrough.Union(other.Passthrough),
	}
}

// Contains reports whether p routes at least everything other routes.
func (p Policy) Contains(other Policy) bool {
	return p.Capture&other.Capture == other.Capture &&
		p.Passthrough&other.Passthrough == other.Passthrough
}

// Captures reports whether s is delivered as events.
func (p Policy) Captures(s Stream) bool { return p.Capture.Has(s) }

// Passes reports whether s is forwarded to the sink.
func (p Policy) Passes(s Stream) bool { return p.Passthrough.Has(s) }

// Touches reports whether s is routed anywhere at all.
func (p Policy) Touches(s Stream) bool { return p.Captures(s) || p.Passes(s) }
