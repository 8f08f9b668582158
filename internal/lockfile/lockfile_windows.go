//go:build windows

package lockfile

import (
	"golang.org/x/sys/windows"
)

// pidAlive reports whether a process with the given PID exists.
// PROCESS_QUERY_LIMITED_INFORMATION is enough to read the exit code
// and works without elevated rights.
func pidAlive(pid int) bool {
	handle, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return false
	}
	defer windows.CloseHandle(handle)

	var code uint32
	if err := windows.GetExitCodeProcess(handle, &code); err != nil {
		return false
	}
	return code == windows.STILL_ACTIVE
}
