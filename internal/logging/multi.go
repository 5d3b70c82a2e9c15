package logging

import (
	"context"
	"log/slog"

	"github.com/thoreinstein/snapback/internal/errors"
)

// multiHandler copies records to several sinks. Used when a --log-file
// sink runs alongside the console handler.
type multiHandler struct {
	sinks []slog.Handler
}

// NewMultiHandler returns a handler fanning records out to sinks.
func NewMultiHandler(sinks ...slog.Handler) slog.Handler {
	return &multiHandler{sinks: sinks}
}

// Enabled reports whether any sink wants records at level.
func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range m.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle forwards r to every sink enabled for its level. All sinks are
// attempted even when one fails; failures come back joined.
func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, s := range m.sinks {
		if !s.Enabled(ctx, r.Level) {
			continue
		}
		if err := s.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sinks := make([]slog.Handler, 0, len(m.sinks))
	for _, s := range m.sinks {
		sinks = append(sinks, s.WithAttrs(attrs))
	}
	return &multiHandler{sinks: sinks}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	sinks := make([]slog.Handler, 0, len(m.sinks))
	for _, s := range m.sinks {
		sinks = append(sinks, s.WithGroup(name))
	}
	return &multiHandler{sinks: sinks}
}
