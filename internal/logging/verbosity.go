package logging

import "log/slog"

// LevelTrace is below slog.LevelDebug. Raw engine output is logged at
// this level so it only appears at the highest verbosity.
const LevelTrace = slog.Level(-8)

// LevelFromVerbosity maps a verbosity count to a log level: 0 is Warn,
// 1 is Info, 2 is Debug, and 3 or more is Trace.
func LevelFromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelWarn
	case v == 1:
		return slog.LevelInfo
	case v == 2:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}
