// Package clipboard copies rendered notes to the system clipboard through whichever
// clipboard utility the platform provides.
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
)

// ClipboardError represents an error when no clipboard utility is available
type ClipboardError struct {
	OS      string
	Message string
}

func (e *ClipboardError) Error() string {
	return e.Message
}

// NewClipboardError creates a new ClipboardError with installation instructions for os
func NewClipboardError(os string) *ClipboardError {
	var msg string
	switch os {
	case "linux":
		msg = "no clipboard utility found. " + GetInstallInstructions(os)
	case "darwin":
		msg = "pbcopy not available (this should not happen on macOS)"
	case "windows":
		msg = "clip command not available (this should not happen on Windows)"
	default:
		msg = fmt.Sprintf("clipboard not supported on %s", os)
	}
	return &ClipboardError{OS: os, Message: msg}
}

// utility is one clipboard command line.
type utility struct {
	name string
	args []string
}

var utilities = map[string][]utility{
	"darwin":  {{name: "pbcopy"}},
	"windows": {{name: "cmd", args: []string{"/c", "clip"}}},
	"linux": {
		{name: "xclip", args: []string{"-selection", "clipboard"}},
		{name: "xsel", args: []string{"--clipboard", "--input"}},
		{name: "wl-copy"},
	},
}

// Copier writes text to the clipboard. The zero value is not usable; use New.
type Copier struct {
	OS string
	// LookPath and Run are replaceable for tests.
	LookPath func(name string) (string, error)
	Run      func(name string, args []string, stdin io.Reader) error
}

// New returns a Copier for the running platform
func New() *Copier {
	return &Copier{
		OS:       runtime.GOOS,
		LookPath: exec.LookPath,
		Run: func(name string, args []string, stdin io.Reader) error {
			cmd := exec.Command(name, args...)
			cmd.Stdin = stdin
			return cmd.Run()
		},
	}
}

// Copy tries each utility for the platform in turn
func (c *Copier) Copy(text string) error {
	candidates, ok := utilities[c.OS]
	if !ok {
		return NewClipboardError(c.OS)
	}

	var lastErr error
	for _, u := range candidates {
		if _, err := c.LookPath(u.name); err != nil {
			continue
		}
		if err := c.Run(u.name, u.args, strings.NewReader(text)); err != nil {
			lastErr = fmt.Errorf("%s failed: %w", u.name, err)
			continue
		}
		return nil
	}

	if lastErr != nil {
		return fmt.Errorf("clipboard utilities available but failed: %w", lastErr)
	}
	return NewClipboardError(c.OS)
}

// Available reports whether any utility for the platform is installed
func (c *Copier) Available() bool {
	for _, u := range utilities[c.OS] {
		if _, err := c.LookPath(u.name); err == nil {
			return true
		}
	}
	return false
}

// CopyWithFallback attempts to copy to clipboard and returns a status message
func (c *Copier) CopyWithFallback(text string) (string, error) {
	if err := c.Copy(text); err != nil {
		var clipErr *ClipboardError
		if errors.As(err, &clipErr) {
			return "", err
		}
		return "", fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return "Copied to clipboard!", nil
}

// Copy copies text using the platform's Copier
func Copy(text string) error {
	return New().Copy(text)
}

// GetInstallInstructions returns installation instructions for clipboard utilities
func GetInstallInstructions(os string) string {
	switch os {
	case "linux":
		return "Install a clipboard utility:\n" +
			"  • Ubuntu/Debian: sudo apt install xclip\n" +
			"  • Fedora/RHEL: sudo dnf install xclip\n" +
			"  • Arch: sudo pacman -S xclip\n" +
			"  • For Wayland: install wl-clipboard"
	case "darwin":
		return "pbcopy should be available by default on macOS"
	case "windows":
		return "clip should be available by default on Windows"
	default:
		return fmt.Sprintf("Clipboard not supported on %s", os)
	}
}
