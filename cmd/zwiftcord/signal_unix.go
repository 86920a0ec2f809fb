// Unix/Darwin signal handling for graceful daemon shutdown.
//
// Compiled on all non-Windows platforms. Listens for SIGINT (Ctrl+C) and
// SIGTERM, the signal process managers (systemd, launchd) send to request a
// graceful stop; on either one the daemon flushes a Close frame to Discord
// before exiting.

//go:build !windows

package main

import (
	"os"
	"os/signal"
	"syscall"
)

// ///////////////////////////////////////////////
// Signal Handling
// ///////////////////////////////////////////////

// signalChannel returns a buffered channel that receives SIGINT and SIGTERM.
// The buffer size of 1 ensures the signal is not lost if the receiver is
// briefly busy when the signal arrives.
func signalChannel() <-chan os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	return ch
}
