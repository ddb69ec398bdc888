package utils

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrNoClipboard is returned when no clipboard tool is installed
var ErrNoClipboard = errors.New("no clipboard tool found (wl-copy, xclip or xsel)")

// clipboardCommand returns the command that reads the clipboard content
// from stdin on this platform
func clipboardCommand() (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("pbcopy"), nil

	case "windows":
		return exec.Command("clip"), nil

	case "linux", "freebsd", "openbsd":
		candidates := [][]string{
			{"wl-copy"},
			{"xclip", "-selection", "clipboard"},
			{"xsel", "--clipboard", "--input"},
		}
		for _, c := range candidates {
			if _, err := exec.LookPath(c[0]); err == nil {
				return exec.Command(c[0], c[1:]...), nil
			}
		}
		return nil, ErrNoClipboard

	default:
		return nil, fmt.Errorf("clipboard not supported on %s", runtime.GOOS)
	}
}

// CopyToClipboard copies content to the system clipboard
func CopyToClipboard(content string) error {
	cmd, err := clipboardCommand()
	if err != nil {
		return err
	}
	cmd.Stdin = strings.NewReader(content)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", cmd.Path, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// CopyPaths copies one path per line
func CopyPaths(paths []string) error {
	return CopyToClipboard(strings.Join(paths, "\n"))
}
