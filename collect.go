package runcap

// Result carries the outcome of an aggregated session: either a
// Response or the error that prevented one.
type Result[T any] struct {
	Response *Response[T]
	Err      error
}

// Collect subscribes to a session's event stream and aggregates it into
// a single typed Result.
//
// Every chunk event is appended to an ordered list; when the session
// terminates, parser runs once with the exit code, the session's
// effective policy, and the chunks. A parser failure yields a Result
// whose Err is a *ParseError; prior event delivery is unaffected. If
// the session ends with a terminal error (for example a forced stop),
// that error is the Result and the parser does not run.
//
// The returned channel is buffered and receives exactly one Result
// before closing, so the collection goroutine never leaks even if the
// caller walks away.
func Collect[T any](s Session, parser Parser[T]) <-chan Result[T] {
	results := make(chan Result[T], 1)
	go func() {
		defer close(results)
		results <- collect(s, parser)
	}()
	return results
}

func collect[T any](s Session, parser Parser[T]) Result[T] {
	var chunks []Chunk
	exitCode := -1
	for ev := range s.Events() {
		switch ev.Type {
		case EventChunk:
			chunks = append(chunks, ev.Chunk)
		case EventTerminated:
			exitCode = ev.ExitCode
		}
	}
	if err := s.Err(); err != nil {
		return Result[T]{Err: err}
	}

	value, err := parser(exitCode, s.Policy(), chunks)
	if err != nil {
		return Result[T]{Err: &ParseError{Err: err}}
	}
	return Result[T]{Response: &Response[T]{
		ExitCode: exitCode,
		Policy:   s.Policy(),
		Chunks:   chunks,
		Value:    value,
	}}
}
