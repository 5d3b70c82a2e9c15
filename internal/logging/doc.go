// Package logging provides structured logging for the snapback CLI on
// top of [log/slog].
//
// Console output goes through a TTY-optimized text handler that
// colorizes levels when the writer is a terminal (NO_COLOR and
// TERM=dumb are respected); [FormatJSON] selects the standard JSON
// handler instead, and [NewMultiHandler] tees records to a log file
// alongside the console.
//
// # Verbosity
//
// CLI verbosity counts map onto levels via [LevelFromVerbosity]; the
// highest count enables [LevelTrace], which carries raw engine output
// line by line through [NewLineWriter].
//
// # Context
//
// Commands attach their logger with [NewContext]; code below the
// command layer recovers it with [FromContext] and never reaches for
// a global.
//
// # Testing
//
//	func TestSomething(t *testing.T) {
//		logger := logging.ForTest(t)
//		// records appear in the test log on failure or under -v
//	}
package logging
