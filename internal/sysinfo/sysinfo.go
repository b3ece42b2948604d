package sysinfo

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Info describes the host environment embedded into the model's system
// prompt so generated commands fit the machine they will run on.
type Info struct {
	OSInfo string
	Shell  string
}

// Collect gathers OS identification and the default shell. One-shot,
// best-effort lookups; a failed probe falls back to the GOOS name rather
// than failing the session.
func Collect() Info {
	return Info{
		OSInfo: osIdentification(),
		Shell:  DefaultShell(),
	}
}

// osIdentification returns a human-readable description of the installed OS
// version, using each platform's native query command.
func osIdentification() string {
	switch runtime.GOOS {
	case "windows":
		return commandOutput("cmd", "/C", "ver")
	case "linux":
		return commandOutput("lsb_release", "-a")
	case "darwin":
		return commandOutput("sw_vers")
	default:
		return runtime.GOOS
	}
}

// DefaultShell returns the user's command shell: cmd.exe on Windows, $SHELL
// elsewhere, falling back to /bin/sh when unset.
func DefaultShell() string {
	if runtime.GOOS == "windows" {
		return "cmd.exe"
	}
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/sh"
}

func commandOutput(name string, args ...string) string {
	out, err := exec.Command(name, args...).Output()
	if err != nil {
		return runtime.GOOS
	}
	return strings.TrimSpace(string(out))
}
