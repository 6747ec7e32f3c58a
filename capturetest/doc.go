// Package capturetest provides test doubles and compliance suites for
// runcap integrations.
//
// [ScriptLauncher] plays back scripted per-stream output through real
// pipes, so session logic can be exercised deterministically — including
// read errors, slow streams, and kill paths — without spawning real
// processes. [RunLauncherTests] is a behavioral compliance suite any
// [runcap.Launcher] implementation should pass.
package capturetest
