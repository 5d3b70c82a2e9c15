package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
)

// LineWriter is an io.Writer that forwards each complete line to a
// logger at a fixed level. It is used to stream subprocess output
// (one log record per line) without interleaving partial writes.
type LineWriter struct {
	logger *slog.Logger
	level  slog.Level

	mu  sync.Mutex
	buf bytes.Buffer
}

// NewLineWriter creates a LineWriter logging to logger at level.
func NewLineWriter(logger *slog.Logger, level slog.Level) *LineWriter {
	return &LineWriter{
		logger: logger,
		level:  level,
	}
}

// Write implements io.Writer. Complete lines are logged immediately;
// a trailing partial line is buffered until the next Write or Flush.
func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		data := w.buf.Bytes()
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		w.emit(string(data[:i]))
		w.buf.Next(i + 1)
	}
	return len(p), nil
}

// Flush logs any buffered partial line. Call it after the producing
// process has exited.
func (w *LineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

func (w *LineWriter) emit(line string) {
	line = strings.TrimRight(line, "\r")
	if line == "" {
		return
	}
	w.logger.Log(context.Background(), w.level, line)
}
