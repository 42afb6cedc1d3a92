package export

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

// Method reports how text reached the clipboard.
type Method string

const (
	MethodSystem Method = "system"
	MethodOSC52  Method = "osc52"
)

// Clipboard copies text to the system clipboard, falling back to an OSC 52
// escape sequence written to the terminal (which also works over SSH).
type Clipboard struct {
	// System writes to the native clipboard. Defaults to clipboard.WriteAll.
	System func(string) error
	// Terminal receives the OSC 52 sequence. Defaults to os.Stderr.
	Terminal io.Writer
	// Tmux wraps the sequence for tmux passthrough.
	Tmux bool
}

// NewClipboard returns a Clipboard wired to the real system clipboard.
func NewClipboard() *Clipboard {
	return &Clipboard{
		System:   clipboard.WriteAll,
		Terminal: os.Stderr,
		Tmux:     os.Getenv("TMUX") != "",
	}
}

// Copy places text on the clipboard.
func (c *Clipboard) Copy(text string) (Method, error) {
	system := c.System
	if system == nil && !clipboard.Unsupported {
		system = clipboard.WriteAll
	}
	var sysErr error
	if system != nil {
		if sysErr = system(text); sysErr == nil {
			return MethodSystem, nil
		}
	}

	term := c.Terminal
	if term == nil {
		term = os.Stderr
	}
	seq := osc52.New(text)
	if c.Tmux {
		seq = seq.Tmux()
	}
	if _, err := seq.WriteTo(term); err != nil {
		if sysErr != nil {
			return "", fmt.Errorf("copy to clipboard: %v; osc52: %w", sysErr, err)
		}
		return "", fmt.Errorf("osc52: %w", err)
	}
	return MethodOSC52, nil
}
