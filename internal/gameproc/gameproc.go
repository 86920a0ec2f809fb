// Package gameproc detects whether the game client process is running.
//
// Detection is per platform: a /proc scan on Linux, pgrep on macOS, and a
// toolhelp process snapshot on Windows. The probe is re-evaluated on every
// orchestrator tick, so each implementation is a single cheap pass with no
// caching.
package gameproc

// Running reports whether a process matching name is currently running.
// Matching is by executable base name, case-sensitive prefix on platforms
// that truncate names (Linux comm is capped at 15 characters).
func Running(name string) bool {
	return running(name)
}
