//go:build windows

package runner

import "os/exec"

func setProcessGroup(cmd *exec.Cmd) {}

func signalTerminate(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}
