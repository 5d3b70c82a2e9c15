package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
)

// Format selects the wire shape of log output.
type Format string

const (
	// FormatText is the colorized human-readable form.
	FormatText Format = "text"
	// FormatJSON emits one JSON object per record.
	FormatJSON Format = "json"
)

// New builds a logger writing to w at the given level. FormatJSON gets
// the standard JSON handler; any other format gets the TTY handler.
// A nil writer falls back to stderr.
func New(w io.Writer, format Format, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}
	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(NewHandler(w, opts))
}

// tlogWriter feeds handler output through tb.Log so records land
// interleaved with the test's own output.
type tlogWriter struct {
	tb testing.TB
}

func (w *tlogWriter) Write(p []byte) (int, error) {
	w.tb.Helper()
	// The handler terminates records itself and tb.Log adds another
	// newline, so strip ours.
	w.tb.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// ForTest returns a Debug-level text logger whose output lands in the
// test log, shown on failure or under -v.
func ForTest(tb testing.TB) *slog.Logger {
	tb.Helper()
	return New(&tlogWriter{tb: tb}, FormatText, slog.LevelDebug)
}
