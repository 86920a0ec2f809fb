// Package paths centralizes file and directory names used across the project.
// All data directory file names are defined here as the single source of truth.
package paths

import (
	"os"
	"path/filepath"
)

// ///////////////////////////////////////////////
// Constants
// ///////////////////////////////////////////////

// Data directory file names.
const (
	PIDFile    = "daemon.pid"
	ConfigFile = "config.toml"
	LogFile    = "daemon.log"
)

// Daemon identity.
const (
	BinaryName = "zwiftcord"
	DataDirRel = ".zwiftcord" // relative to $HOME
)

// ///////////////////////////////////////////////
// DataDir
// ///////////////////////////////////////////////

// DataDir provides path construction methods rooted at a data directory.
type DataDir struct {
	Root string
}

// PID returns the full path to the PID file.
func (d DataDir) PID() string { return filepath.Join(d.Root, PIDFile) }

// Config returns the full path to the config file.
func (d DataDir) Config() string { return filepath.Join(d.Root, ConfigFile) }

// Log returns the full path to the daemon log file.
func (d DataDir) Log() string { return filepath.Join(d.Root, LogFile) }

// ///////////////////////////////////////////////
// Game Log Location
// ///////////////////////////////////////////////

// GameLog returns the default location of the Zwift activity log,
// Documents/Zwift/Logs/Log.txt under the user's home directory. Zwift uses
// the same layout on every platform it ships on. Returns "" when the home
// directory cannot be determined; callers treat that as "log not found yet".
func GameLog() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "Documents", "Zwift", "Logs", "Log.txt")
}
