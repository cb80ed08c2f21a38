//go:build !unix

package services

import (
	"os/exec"
	"time"
)

func setProcessGroup(cmd *exec.Cmd) {}

// terminateProcessGroup falls back to killing the direct child where process
// groups are unavailable.
func terminateProcessGroup(cmd *exec.Cmd, grace time.Duration) {
	if cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
}
