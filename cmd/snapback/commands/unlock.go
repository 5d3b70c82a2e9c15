package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/snapback/internal/errors"
	"github.com/thoreinstein/snapback/internal/lock"
	"github.com/thoreinstein/snapback/internal/logging"
	"github.com/thoreinstein/snapback/internal/paths"
)

var unlockYes bool

func init() {
	unlockCmd.Flags().BoolVarP(&unlockYes, "yes", "y", false,
		"remove the marker without prompting")
	rootCmd.AddCommand(unlockCmd)
}

var unlockCmd = &cobra.Command{
	Use:   "unlock DEST",
	Short: "Remove a leftover lock marker",
	Long: `Remove the lock marker from a destination.

A marker left behind by a crashed or killed run blocks further backups
until it is cleared. The recorded owner is shown before anything is
removed; only clear the marker when that process is truly gone.`,
	Example: `  snapback unlock /mnt/backups`,
	Args:    usageArgs(cobra.ExactArgs(1)),
	RunE:    runUnlock,
}

func runUnlock(cmd *cobra.Command, args []string) error {
	return runUnlockWithStreams(cmd.Context(), cmd.InOrStdin(), os.Stdout, args[0])
}

func runUnlockWithStreams(ctx context.Context, in io.Reader, w io.Writer, dest string) error {
	log := logging.FromContext(ctx)

	dest, err := paths.Normalize(dest)
	if err != nil {
		return errors.NewExitError(err, errors.ExitUsage)
	}

	mgr := lock.NewManager(lock.WithName(lockMarkerName()), lock.WithLogger(log))
	owner, err := mgr.Inspect(dest)
	if errors.Is(err, lock.ErrNotLocked) {
		fmt.Fprintf(w, "'%s' is not locked\n", dest)
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "inspecting lock")
	}

	fmt.Fprintf(w, "'%s' is locked by %s\n", dest, owner)
	if !unlockYes && !confirm(in, w, "Remove the lock marker?") {
		fmt.Fprintln(w, "Aborted")
		return nil
	}

	if err := mgr.ForceRelease(dest); err != nil {
		return errors.Wrap(err, "removing lock marker")
	}
	fmt.Fprintf(w, "Removed lock marker from '%s'\n", dest)
	return nil
}
