//go:build linux

package gameproc

import (
	"os"
	"strings"
)

// running scans /proc for a process whose comm matches name. The kernel
// truncates comm to 15 characters, so the comparison falls back to a prefix
// match for longer names.
func running(name string) bool {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return false
	}
	// comm is capped at TASK_COMM_LEN-1 bytes.
	truncated := name
	if len(truncated) > 15 {
		truncated = truncated[:15]
	}
	for _, e := range entries {
		if !e.IsDir() || !isNumeric(e.Name()) {
			continue
		}
		data, err := os.ReadFile("/proc/" + e.Name() + "/comm")
		if err != nil {
			continue
		}
		comm := strings.TrimSpace(string(data))
		if comm == name || comm == truncated {
			return true
		}
	}
	return false
}

// isNumeric reports whether s consists only of ASCII digits.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
