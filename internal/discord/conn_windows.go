// conn_windows.go is the Windows branch of IPC socket discovery. Discord on
// Windows listens on named pipes (\\.\pipe\discord-ipc-N), a transport this
// client does not implement; connecting fails fast with [ErrPipeTransport]
// so callers do not burn connect attempts probing paths that cannot exist.

//go:build windows

package discord

import "net"

// ///////////////////////////////////////////////
// Connection
// ///////////////////////////////////////////////

// dialIPC always fails on Windows: the named-pipe transport is not
// implemented.
func dialIPC() (net.Conn, error) {
	return nil, ErrPipeTransport
}
