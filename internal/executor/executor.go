package executor

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Execute runs a command line in the user's shell, inheriting the terminal's
// stdin/stdout/stderr, and blocks until it completes. There is no output
// capture, timeout, or sandboxing: the command runs with the privileges of
// the invoking process, and the confirmation gate before this call is the
// trust boundary.
func Execute(command string) error {
	var shell string
	var shellArgs []string

	if runtime.GOOS == "windows" {
		shell = "cmd"
		shellArgs = []string{"/C", command}
	} else {
		shell = os.Getenv("SHELL")
		if shell == "" {
			shell = "/bin/sh"
		}
		shellArgs = []string{"-c", command}
	}

	cmd := exec.Command(shell, shellArgs...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("command failed: %w", err)
	}

	return nil
}
