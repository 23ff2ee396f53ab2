//go:build !windows

// Package process provides best-effort subprocess cleanup helpers.
package process

import "syscall"

// KillProcessGroup kills a process and all its children by sending
// SIGKILL to the process group (negative PID).
func KillProcessGroup(pid int) {
	// Best-effort cleanup; error ignored as the caller kills the
	// direct child as a fallback.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
