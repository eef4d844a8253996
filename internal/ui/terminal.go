package ui

import (
	"errors"
	"os"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"
)

// ErrClipboardUnavailable is returned when no clipboard utility exists.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Interactive reports whether both stdin and stdout are terminals, which the
// fuzzy picker and styled output need.
func Interactive() bool {
	return IsTerminal(os.Stdin) && IsTerminal(os.Stdout)
}

// Copy writes text to the system clipboard.
func Copy(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	return clipboard.WriteAll(text)
}

// NewPicker returns the fuzzy picker on a terminal, and the numbered
// prompt picker otherwise or when fuzzy selection is disabled.
func NewPicker(p *Prompter, fuzzy bool) Picker {
	if fuzzy && Interactive() {
		return FuzzyPicker{}
	}
	return PromptPicker{Prompter: p}
}
