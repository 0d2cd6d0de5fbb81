//go:build windows

package core

import "os/exec"

func configureProcessGroup(cmd *exec.Cmd) {}

// terminateProcessTree kills the direct child. Windows has no process
// groups in the POSIX sense; descendants are left to the job object the
// shell may or may not have set up.
func terminateProcessTree(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
