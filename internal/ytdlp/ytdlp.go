package ytdlp

import (
	"fmt"
	"os/exec"
	"strings"
)

// ExecutableName is the binary every generated command targets.
const ExecutableName = "yt-dlp"

// Locate finds the yt-dlp executable on the search path. A missing
// executable is the one hard startup failure in the system.
func Locate() (string, error) {
	path, err := exec.LookPath(ExecutableName)
	if err != nil {
		return "", fmt.Errorf("missing yt-dlp executable, is it added to your system's PATH?")
	}
	return path, nil
}

// Version returns yt-dlp's self-reported version string, or "unknown" if the
// probe fails.
func Version(path string) string {
	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}
