// Package clipboard copies styled prompts to the system clipboard, falling
// back to an OSC 52 escape sequence when no clipboard utility is installed.
package clipboard

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

// ClipboardError reports that no clipboard route is available
type ClipboardError struct {
	OS      string
	Message string
}

func (e *ClipboardError) Error() string {
	return e.Message
}

// NewClipboardError creates a ClipboardError with installation hints
func NewClipboardError() *ClipboardError {
	return &ClipboardError{
		OS:      runtime.GOOS,
		Message: "no clipboard utility found. " + GetInstallInstructions(),
	}
}

// Copier writes text to a clipboard.
type Copier struct {
	// System writes to the OS clipboard.
	System func(string) error
	// SystemUnsupported reports whether System has no utility to call.
	SystemUnsupported func() bool
	// Terminal receives the OSC 52 fallback. Nil disables it.
	Terminal io.Writer
}

// Default copies through atotto/clipboard and falls back to OSC 52 on stderr.
func Default() *Copier {
	return &Copier{
		System:            clipboard.WriteAll,
		SystemUnsupported: func() bool { return clipboard.Unsupported },
		Terminal:          os.Stderr,
	}
}

// Copy writes text to the clipboard. It reports which route was used.
func (c *Copier) Copy(text string) (string, error) {
	if c.SystemUnsupported == nil || !c.SystemUnsupported() {
		err := c.System(text)
		if err == nil {
			return "system", nil
		}
		if c.Terminal == nil {
			return "", fmt.Errorf("failed to copy to clipboard: %w", err)
		}
	}
	if c.Terminal == nil {
		return "", NewClipboardError()
	}
	if _, err := osc52.New(text).WriteTo(c.Terminal); err != nil {
		return "", fmt.Errorf("failed to write terminal clipboard sequence: %w", err)
	}
	return "terminal", nil
}

// Copy copies text with the default copier
func Copy(text string) error {
	_, err := Default().Copy(text)
	return err
}

// CopyWithFallback copies text and returns a status message
func CopyWithFallback(text string) (string, error) {
	route, err := Default().Copy(text)
	if err != nil {
		return "", err
	}
	if route == "terminal" {
		return "Copied via terminal (OSC 52)", nil
	}
	return "Copied to clipboard!", nil
}

// GetInstallInstructions returns installation instructions for clipboard utilities
func GetInstallInstructions() string {
	switch runtime.GOOS {
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
		return fmt.Sprintf("Clipboard not supported on %s", runtime.GOOS)
	}
}
