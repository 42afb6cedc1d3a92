// Package logging configures the process-wide logger. A TUI owns the
// terminal, so log output is discarded unless a log file is given.
package logging

import (
	"fmt"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"
)

// Setup routes the standard logger (and bubbletea's) to path. With an empty
// path logging is discarded. The returned cleanup closes the file.
func Setup(path string) (cleanup func(), err error) {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}

	// LogToFile also points the standard logger at the file.
	f, err := tea.LogToFile(path, "trawl")
	if err != nil {
		log.SetOutput(io.Discard)
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return func() { _ = f.Close() }, nil
}
