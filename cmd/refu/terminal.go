package main

import (
	"os"

	"golang.org/x/term"
)

// termIsTerminal reports whether f is an interactive terminal, gating the
// bubbletea progress view — a non-TTY (piped output, CI logs) always falls
// back to the plain diagnostic flush.
func termIsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
