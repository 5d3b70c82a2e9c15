package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, FormatJSON, slog.LevelInfo)

	logger.Info("snapshot promoted", "name", "backup-2026-01-02T03:04:05")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not one JSON record: %v\noutput: %s", err, buf.String())
	}
	if rec["msg"] != "snapshot promoted" {
		t.Errorf("msg = %v, want the logged message", rec["msg"])
	}
	if rec["name"] != "backup-2026-01-02T03:04:05" {
		t.Errorf("name attribute = %v, want the snapshot name", rec["name"])
	}
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, FormatText, slog.LevelInfo)

	logger.Info("lock acquired", "dest", "/mnt/backups")

	got := buf.String()
	if json.Valid(buf.Bytes()) {
		t.Errorf("text format produced JSON: %s", got)
	}
	for _, want := range []string{"INFO", "lock acquired", "dest=/mnt/backups"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q: %s", want, got)
		}
	}
}

func TestNew_UnknownFormatFallsBackToText(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Format("yaml"), slog.LevelInfo)

	logger.Info("message")

	if json.Valid(buf.Bytes()) {
		t.Errorf("unknown format should fall back to text, got: %s", buf.String())
	}
}

func TestNew_NilWriter(t *testing.T) {
	// Falls back to stderr; only the construction path is checked.
	if logger := New(nil, FormatText, slog.LevelError); logger == nil {
		t.Fatal("expected a logger")
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	tests := []struct {
		name  string
		min   slog.Level
		emit  func(*slog.Logger)
		wants bool
	}{
		{
			name:  "info passes at info",
			min:   slog.LevelInfo,
			emit:  func(l *slog.Logger) { l.Info("m") },
			wants: true,
		},
		{
			name:  "debug filtered at info",
			min:   slog.LevelInfo,
			emit:  func(l *slog.Logger) { l.Debug("m") },
			wants: false,
		},
		{
			name:  "info filtered at warn",
			min:   slog.LevelWarn,
			emit:  func(l *slog.Logger) { l.Info("m") },
			wants: false,
		},
		{
			name:  "error passes at warn",
			min:   slog.LevelWarn,
			emit:  func(l *slog.Logger) { l.Error("m") },
			wants: true,
		},
		{
			name:  "trace filtered at debug",
			min:   slog.LevelDebug,
			emit:  func(l *slog.Logger) { l.Log(context.Background(), LevelTrace, "m") },
			wants: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(New(&buf, FormatText, tt.min))

			if got := buf.Len() > 0; got != tt.wants {
				t.Errorf("output present = %v, want %v (got %q)", got, tt.wants, buf.String())
			}
		})
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{-1, slog.LevelWarn},
		{0, slog.LevelWarn},
		{1, slog.LevelInfo},
		{2, slog.LevelDebug},
		{3, LevelTrace},
		{7, LevelTrace},
	}

	for _, tt := range tests {
		if got := LevelFromVerbosity(tt.verbosity); got != tt.want {
			t.Errorf("LevelFromVerbosity(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestLevelTrace_BelowDebug(t *testing.T) {
	if LevelTrace >= slog.LevelDebug {
		t.Errorf("LevelTrace = %v, must sort below Debug", LevelTrace)
	}
}

func TestForTest(t *testing.T) {
	logger := ForTest(t)
	if logger == nil {
		t.Fatal("expected a logger")
	}

	// Captured by the test framework at every level down to Debug.
	logger.Debug("debug record")
	logger.Info("info record", "test", t.Name())
	logger.Warn("warn record")
}

func TestTlogWriter_StripsRecordNewline(t *testing.T) {
	w := &tlogWriter{tb: t}

	for _, in := range []string{"a record\n", "no newline", ""} {
		n, err := w.Write([]byte(in))
		if err != nil {
			t.Fatalf("Write(%q) failed: %v", in, err)
		}
		if n != len(in) {
			t.Errorf("Write(%q) = %d, want %d", in, n, len(in))
		}
	}
}
