package runcap

import "time"

// Await blocks until the aggregated result for a session arrives,
// bounded by timeout. It is the blocking wrapper over [Collect]:
//
//	resp, err := runcap.Await(sess, runcap.Collect(sess, runcap.TextParser), 30*time.Second)
//
// A timeout of zero or less waits forever. On expiry the child is
// forcibly killed, Await blocks until the session has drained (prompt
// after a kill), and a *TimeoutError carrying the process handle is
// returned; the collector's result, if one still arrives, goes
// unobserved. On success Await returns the parsed response, a
// *ParseError if parsing failed, or the session's terminal error.
//
// A blocking caller therefore observes exactly one of: a response, a
// ParseError, a TimeoutError, or the terminal error — never a partial
// result.
func Await[T any](s Session, results <-chan Result[T], timeout time.Duration) (*Response[T], error) {
	if timeout <= 0 {
		res := <-results
		return res.Response, res.Err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-results:
		return res.Response, res.Err
	case <-timer.C:
		_ = s.Kill()
		_ = s.Wait()
		return nil, &TimeoutError{Handle: s.Handle(), Timeout: timeout}
	}
}

// WaitExit blocks until the session terminates and returns the child's
// exit code, discarding any captured output. Timeout semantics match
// [Await]; on timeout the exit code is -1.
func WaitExit(s Session, timeout time.Duration) (int, error) {
	resp, err := Await(s, Collect(s, exitParser), timeout)
	if err != nil {
		return -1, err
	}
	return resp.ExitCode, nil
}

// exitParser discards output and yields the exit code itself.
func exitParser(exitCode int, _ Policy, _ []Chunk) (int, error) {
	return exitCode, nil
}
