// Package proc is the subprocess capture engine built on os/exec.
//
// An [Engine] is constructed once and holds the resources its sessions
// share: the passthrough [runcap.Sink], the logger, and the process
// launcher. [Engine.Start] launches a child and returns a live
// [Session] streaming [runcap.Event] values; the Run helpers wrap Start
// in blocking calls with timeout-based cancellation.
//
// Each session owns one reader goroutine per piped stream and a join
// goroutine that emits the single Terminated event only after the child
// has exited and both streams are fully drained. Streams excluded from
// both capture and passthrough are wired to the null device at launch,
// so the child can never block on an unread pipe.
package proc
