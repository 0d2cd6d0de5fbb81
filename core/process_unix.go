//go:build !windows

package core

import (
	"os/exec"
	"syscall"
)

// configureProcessGroup places the tool in its own process group so the
// whole tree can be signalled on cancellation.
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminateProcessTree kills the tool and every child it spawned. Coverage
// tools routinely fork compilers and test hosts; killing only the direct
// child would orphan those.
func terminateProcessTree(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	pgid, err := syscall.Getpgid(cmd.Process.Pid)
	if err != nil {
		return cmd.Process.Kill()
	}
	return syscall.Kill(-pgid, syscall.SIGKILL)
}
