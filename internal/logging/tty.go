package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// fdWriter is the subset of *os.File needed for terminal detection.
type fdWriter interface {
	Fd() uintptr
}

// IsTTY reports whether w is backed by a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(fdWriter)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SupportsColor reports whether ANSI escapes should be sent to w.
func SupportsColor(w io.Writer) bool {
	return colorAllowed(IsTTY(w))
}

// colorAllowed applies the conventions that switch color off: not a
// terminal, the NO_COLOR variable (any value), or TERM=dumb.
func colorAllowed(isTTY bool) bool {
	if !isTTY {
		return false
	}
	if _, off := os.LookupEnv("NO_COLOR"); off {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}
