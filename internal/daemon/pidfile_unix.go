//go:build unix

package daemon

import (
	"errors"
	"syscall"
)

// processExists sends signal 0, which only checks that the PID is live.
// EPERM means the process exists but belongs to another user.
func processExists(pid int) bool {
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}
