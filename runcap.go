// Package runcap captures the output of child processes as it arrives.
//
// runcap runs a command, watches its stdout and stderr byte streams, and
// routes each stream independently to capture (structured [Event] values
// on a channel) and/or passthrough (forwarding to the real or redirected
// output [Sink]). A single Terminated event fires only after the child
// has exited and both streams have been fully drained.
//
// # Core Types
//
//   - [Policy] — per-stream capture/passthrough routing
//   - [Command] — what to launch (argv, env, dir, stdin)
//   - [Launcher] / [Handle] — the process-creation collaborator
//   - [Session] — an active capture session with an event channel
//   - [Event] / [Chunk] — structured output from the child
//   - [Response] / [Parser] — typed aggregation of captured output
//
// The root package defines the shared vocabulary; package proc provides
// the subprocess engine built on os/exec.
//
// # Quick Start
//
//	eng := proc.NewEngine()
//	out, exit, err := eng.RunText(ctx, runcap.Command{Args: []string{"echo", "hello"}})
//	if err != nil { log.Fatal(err) }
//	fmt.Printf("%d: %s", exit, out)
//
// For streaming access, start a session and range over its events:
//
//	sess, err := eng.Start(ctx, runcap.Command{Args: []string{"make", "test"}})
//	if err != nil { log.Fatal(err) }
//	for ev := range sess.Events() {
//	    if ev.Type == runcap.EventChunk {
//	        fmt.Printf("[%s] %s", ev.Chunk.Stream, ev.Chunk.Data)
//	    }
//	}
package runcap
