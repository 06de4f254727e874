// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/jeranaias/mudlark/internal/ui/styles"
)

// =============================================================================
// STREAMS
// =============================================================================

// Streams are the standard files a command reads and writes.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the process's stdin, stdout and stderr.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// =============================================================================
// TTY DETECTION
// =============================================================================

// fder is implemented by *os.File.
type fder interface {
	Fd() uintptr
}

// isTerminal reports whether v is an *os.File attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(fder)
	return ok && term.IsTerminal(int(f.Fd()))
}

const (
	// DefaultTerminalWidth is the fallback width when detection fails
	DefaultTerminalWidth = 80

	// MinTerminalWidth is the narrowest width wrapping will use
	MinTerminalWidth = 40
)

// terminalWidth returns w's terminal width, or 0 if w is not a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(fder)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 0
	}
	return max(width, MinTerminalWidth)
}

// colorProfile picks the output profile: plain ASCII when colors are
// disabled or w is not a terminal, otherwise whatever the environment
// supports.
func colorProfile(w io.Writer, noColor bool) termenv.Profile {
	if noColor || !isTerminal(w) {
		return termenv.Ascii
	}
	return styles.ProfileFor(false)
}

// TTYRequiredError is returned when a command needs an interactive terminal.
type TTYRequiredError struct {
	Operation string
}

func (e *TTYRequiredError) Error() string {
	return fmt.Sprintf("%s requires an interactive terminal", e.Operation)
}

// requiresTTY fails unless out is a terminal.
func requiresTTY(operation string, out io.Writer) error {
	if !isTerminal(out) {
		return &TTYRequiredError{Operation: operation}
	}
	return nil
}
