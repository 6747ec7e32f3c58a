package runcap

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Response is the aggregated outcome of a capture session: the exit
// code, the effective capture policy, every captured chunk in
// arrival-interleaved order, and the value the parser synthesized from
// them. It is created at termination and immutable thereafter.
type Response[T any] struct {
	// ExitCode is the child's exit code. Negative when the child was
	// killed by a signal.
	ExitCode int

	// Policy is the routing policy the session ran with.
	Policy Policy

	// Chunks holds the captured chunks in delivery order, not
	// separated by stream. Read-error chunks are included.
	Chunks []Chunk

	// Value is the parser's result.
	Value T
}

// Output concatenates the captured bytes for s in delivery order.
// Whenever the policy captured s, the result is exactly the bytes the
// child wrote to that stream.
func (r *Response[T]) Output(s Stream) []byte {
	var out []byte
	for _, c := range r.Chunks {
		if c.Stream == s {
			out = append(out, c.Data...)
		}
	}
	return out
}

// CombinedOutput concatenates the captured bytes of both streams in
// arrival-interleaved order.
func (r *Response[T]) CombinedOutput() []byte {
	var out []byte
	for _, c := range r.Chunks {
		out = append(out, c.Data...)
	}
	return out
}

// ReadErr returns the first read error recorded in the chunks, if any.
func (r *Response[T]) ReadErr() error {
	for _, c := range r.Chunks {
		if c.Err != nil {
			return c.Err
		}
	}
	return nil
}

// Parser synthesizes a typed value from a finished session. It runs
// exactly once, at termination, with the chunks in delivery order.
type Parser[T any] func(exitCode int, policy Policy, chunks []Chunk) (T, error)

// RawParser returns the combined captured bytes unmodified.
func RawParser(_ int, _ Policy, chunks []Chunk) ([]byte, error) {
	var out []byte
	for _, c := range chunks {
		out = append(out, c.Data...)
	}
	return out, nil
}

// TextParser decodes the combined captured bytes as UTF-8 text.
// Invalid UTF-8 is an error.
func TextParser(exitCode int, policy Policy, chunks []Chunk) (string, error) {
	raw, _ := RawParser(exitCode, policy, chunks)
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("output is not valid UTF-8")
	}
	return string(raw), nil
}

// JSONParser returns a parser decoding the combined captured bytes as a
// single JSON document into T. Useful for tools with a --json flag.
func JSONParser[T any]() Parser[T] {
	return func(exitCode int, policy Policy, chunks []Chunk) (T, error) {
		var v T
		raw, _ := RawParser(exitCode, policy, chunks)
		if err := json.Unmarshal(raw, &v); err != nil {
			return v, fmt.Errorf("decode json output: %w", err)
		}
		return v, nil
	}
}
