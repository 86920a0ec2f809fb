//go:build windows

package gameproc

import (
	"strings"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// running walks a toolhelp process snapshot looking for an executable whose
// base name matches name (with or without the .exe suffix). Comparison is
// case-insensitive because Windows file names are.
func running(name string) bool {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return false
	}
	defer windows.CloseHandle(snapshot)

	want := strings.ToLower(strings.TrimSuffix(name, ".exe"))

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	if err := windows.Process32First(snapshot, &entry); err != nil {
		return false
	}
	for {
		exe := strings.ToLower(syscall.UTF16ToString(entry.ExeFile[:]))
		if strings.TrimSuffix(exe, ".exe") == want {
			return true
		}
		if err := windows.Process32Next(snapshot, &entry); err != nil {
			return false
		}
	}
}
