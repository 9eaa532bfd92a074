//go:build !windows

package runner

import (
	"os/exec"
	"syscall"
)

// setProcessGroup places the child in its own process group so a later
// terminate takes out the whole group, including anything the shell forked.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// signalTerminate sends SIGTERM to the child's process group, falling back
// to signalling only the child when the group cannot be resolved.
func signalTerminate(cmd *exec.Cmd) error {
	pgid, err := syscall.Getpgid(cmd.Process.Pid)
	if err == nil {
		return syscall.Kill(-pgid, syscall.SIGTERM)
	}
	return cmd.Process.Signal(syscall.SIGTERM)
}
