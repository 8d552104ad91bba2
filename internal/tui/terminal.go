package tui

import (
	"errors"
	"os"

	"golang.org/x/term"
)

// ErrNoTerminal is returned by Run when stdin or stdout is not a TTY.
var ErrNoTerminal = errors.New("the editor needs an interactive terminal")

// isTerminal returns true if both stdout and stdin are TTYs.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}
