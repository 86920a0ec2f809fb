// conn_unix.go implements Discord IPC socket discovery for Unix-like systems
// (Linux, macOS, FreeBSD). Discord listens on a unix socket named
// discord-ipc-N (N in 0-9) in the runtime directory or /tmp.

//go:build !windows

package discord

import (
	"fmt"
	"net"
	"os"
)

// ///////////////////////////////////////////////
// Connection
// ///////////////////////////////////////////////

// runtimeDirEnvVars is the ordered list of environment variables consulted
// for the socket runtime directory. The first non-empty one wins.
var runtimeDirEnvVars = []string{"XDG_RUNTIME_DIR", "TMPDIR", "TMP", "TEMP"}

// runtimeDir returns the directory Discord places its IPC socket in,
// defaulting to /tmp when no runtime env var is set.
func runtimeDir() string {
	for _, v := range runtimeDirEnvVars {
		if dir := os.Getenv(v); dir != "" {
			return dir
		}
	}
	return "/tmp"
}

// dialIPC tries each IPC socket slot in the runtime directory and /tmp,
// returning the first successful connection. Each dial is bounded by
// connectTimeout so a wedged socket cannot stall the owner loop.
func dialIPC() (net.Conn, error) {
	dir := runtimeDir()
	for i := 0; i < maxIPCSlots; i++ {
		candidates := []string{
			fmt.Sprintf("%s/discord-ipc-%d", dir, i),
			fmt.Sprintf("/tmp/discord-ipc-%d", i),
		}
		for _, path := range candidates {
			if _, err := os.Stat(path); err != nil {
				continue
			}
			conn, err := net.DialTimeout("unix", path, connectTimeout)
			if err == nil {
				return conn, nil
			}
		}
	}
	return nil, ErrIPCNotAvailable
}
