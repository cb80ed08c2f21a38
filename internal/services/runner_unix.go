//go:build unix

package services

import (
	"os/exec"
	"time"

	"golang.org/x/sys/unix"
)

// setProcessGroup places the child in its own process group so a kill can
// reach every descendant, not just the direct child.
func setProcessGroup(cmd *exec.Cmd) {
	attr := cmd.SysProcAttr
	if attr == nil {
		attr = &unix.SysProcAttr{}
	}
	attr.Setpgid = true
	cmd.SysProcAttr = attr
}

// terminateProcessGroup sends SIGTERM to the group, waits out the grace
// period, then sends SIGKILL. Errors are ignored: the group may already be
// gone, and cleanup proceeds regardless of kill success.
func terminateProcessGroup(cmd *exec.Cmd, grace time.Duration) {
	if cmd.Process == nil {
		return
	}
	pgid := -cmd.Process.Pid
	_ = unix.Kill(pgid, unix.SIGTERM)

	deadline := time.After(grace)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-deadline:
			_ = unix.Kill(pgid, unix.SIGKILL)
			return
		case <-tick.C:
			// Signal 0 probes for group liveness.
			if err := unix.Kill(pgid, 0); err != nil {
				return
			}
		}
	}
}
