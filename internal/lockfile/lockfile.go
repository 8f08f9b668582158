// Package lockfile guards against concurrent instances with a lock
// file holding the decimal PID of the running process. A new launch
// checks whether that PID is still alive and takes over a stale lock.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrHeld is returned by Acquire when a live instance already holds
// the lock.
var ErrHeld = errors.New("another instance is already running")

// Lock is an acquired single-instance lock. Release must be called on
// clean shutdown; only the instance that acquired the lock removes
// the file, so an aborted start never deletes a live holder's lock.
type Lock struct {
	path     string
	acquired bool
}

// Acquire takes the single-instance lock at path. A present lock file
// whose PID is still alive yields ErrHeld; a stale or unreadable lock
// file is overwritten.
func Acquire(path string) (*Lock, error) {
	if pid, ok := readPID(path); ok && pid != os.Getpid() && pidAlive(pid) {
		return nil, fmt.Errorf("%w (pid %d)", ErrHeld, pid)
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		return nil, fmt.Errorf("write lock file: %w", err)
	}

	return &Lock{path: path, acquired: true}, nil
}

// Release removes the lock file if this process acquired it
func (l *Lock) Release() error {
	if l == nil || !l.acquired {
		return nil
	}
	l.acquired = false

	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	return nil
}

// readPID parses the holder PID out of the lock file
func readPID(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}
