// Package shell runs the action strings mapped to host messages.
package shell

import "os/exec"

// DefaultShell interprets action strings when the config does not name one.
const DefaultShell = "/bin/sh"

// Exec runs command under shellPath -c and returns its exit status. The
// status is informational only; the message-dispatch path is
// fire-and-forget. A command that cannot be started at all reports -1.
func Exec(shellPath, command string) int {
	if shellPath == "" {
		shellPath = DefaultShell
	}
	cmd := exec.Command(shellPath, "-c", command)
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode()
		}
		return -1
	}
	return 0
}
