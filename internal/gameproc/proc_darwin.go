//go:build darwin

package gameproc

import "os/exec"

// running shells out to pgrep, which exits 0 when at least one process
// matches. macOS has no /proc, and linking against libproc is not worth it
// for a boolean probe that runs every few seconds.
func running(name string) bool {
	return exec.Command("pgrep", "-x", name).Run() == nil
}
