// Package errors provides error handling conventions for the snapback
// CLI: sentinel errors, exit codes, the ExitError type, and thin
// re-exports of the wrapping helpers from
// github.com/cockroachdb/errors.
//
// The re-exports let every package import this one in place of the
// standard library:
//
//	import "github.com/thoreinstein/snapback/internal/errors"
//
//	if err := eng.Prune(ctx, dest, policy); err != nil {
//		return errors.Wrap(err, "prune failed")
//	}
//
// # Exit codes
//
// Three codes cover the CLI surface:
//
//   - [ExitSuccess] (0): the run completed
//   - [ExitFailure] (1): runtime failure, including lock contention
//     and engine errors
//   - [ExitUsage] (2): the command line itself was invalid
//
// [Code] maps any error to its exit code; main calls it exactly once.
//
// # ExitError
//
// [ExitError] attaches an exit code and an optional operator
// suggestion to an error. Constructors cover the common shapes:
// [NewExitError] for usage problems, [NewFailure] for runtime
// failures that have a next step, [NewConfigError] for a missing or
// broken configuration. The chain stays inspectable:
//
//	var exitErr *errors.ExitError
//	if errors.As(err, &exitErr) && exitErr.Suggestion != "" {
//		fmt.Fprintln(os.Stderr, exitErr.Suggestion)
//	}
package errors
