package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/snapback/internal/engine"
	"github.com/thoreinstein/snapback/internal/errors"
	"github.com/thoreinstein/snapback/internal/lock"
	"github.com/thoreinstein/snapback/internal/logging"
	"github.com/thoreinstein/snapback/internal/paths"
	"github.com/thoreinstein/snapback/internal/retention"
)

var (
	pruneKeepFor string
	pruneDryRun  bool
)

func init() {
	pruneCmd.Flags().StringVarP(&pruneKeepFor, "keep-for", "k", "",
		"how long to keep old backups, e.g. 90d, 12w, 6m, 1y (default from config)")
	pruneCmd.Flags().BoolVarP(&pruneDryRun, "dry-run", "n", false,
		"show what would be removed without deleting anything")
	rootCmd.AddCommand(pruneCmd)
}

var pruneCmd = &cobra.Command{
	Use:   "prune DEST",
	Short: "Remove backups older than the retention threshold",
	Long: `Remove snapshots whose age exceeds the retention threshold, along
with staging directories left behind by interrupted runs.

The newest complete snapshot is always kept, whatever its age. A
staging directory is only removed once a complete snapshot at least as
recent exists, so an interrupted backup stays resumable.`,
	Example: `  # Prune with the configured threshold
  snapback prune /mnt/backups

  # Preview a stricter threshold
  snapback prune --keep-for 30d --dry-run /mnt/backups`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: runPrune,
}

func runPrune(cmd *cobra.Command, args []string) error {
	return runPruneWithWriter(cmd.Context(), os.Stdout, args[0])
}

func runPruneWithWriter(ctx context.Context, w io.Writer, dest string) (err error) {
	log := logging.FromContext(ctx)

	dest, err = paths.Normalize(dest)
	if err != nil {
		return errors.NewExitError(err, errors.ExitUsage)
	}
	policy, err := retention.ParsePolicy(keepForSpec(pruneKeepFor))
	if err != nil {
		return errors.NewExitError(err, errors.ExitUsage)
	}

	eng := storeEngine(log)

	// The preview only reads the store, so it runs without the lock.
	if pruneDryRun {
		return previewPrune(ctx, w, eng, dest, policy)
	}

	mgr := lock.NewManager(
		lock.WithName(lockMarkerName()),
		lock.WithRunID(uuid.NewString()),
		lock.WithLogger(log))
	handle, err := mgr.Acquire(dest)
	if err != nil {
		var contention *lock.ContentionError
		if errors.As(err, &contention) {
			return errors.NewFailure(err, fmt.Sprintf(
				"If no other backup is running, clear it with: snapback unlock %s", dest))
		}
		return err
	}
	defer func() {
		if relErr := handle.Release(); relErr != nil {
			err = errors.Join(err, errors.Wrap(relErr, "releasing lock"))
		}
	}()

	fmt.Fprintf(w, "Pruning backups older than %s in '%s'...\n", policy, dest)
	res, err := eng.Prune(ctx, dest, policy)
	if err != nil {
		return errors.Wrap(err, "prune failed")
	}
	fmt.Fprintf(w, "Removed %d old backup%s and %d incomplete backup%s.\n",
		len(res.Removed), plural(len(res.Removed)),
		len(res.RemovedIncomplete), plural(len(res.RemovedIncomplete)))
	return nil
}

// previewPrune classifies the destination's snapshots without touching
// them.
func previewPrune(ctx context.Context, w io.Writer, eng engine.Engine, dest string, policy retention.Policy) error {
	snaps, err := eng.Snapshots(ctx, dest)
	if err != nil {
		return errors.Wrap(err, "listing snapshots")
	}

	now := time.Now()
	plan := engine.PlanPrune(snaps, policy, now)

	if len(plan.Removed)+len(plan.RemovedIncomplete) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "NAME\tAGE\tSTATE\n")
		for _, s := range plan.Removed {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, formatAge(s.Age(now)), snapshotState(s))
		}
		for _, s := range plan.RemovedIncomplete {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, formatAge(s.Age(now)), snapshotState(s))
		}
		tw.Flush()
	}

	fmt.Fprintf(w, "Would remove %d old backup%s and %d incomplete backup%s; %d kept.\n",
		len(plan.Removed), plural(len(plan.Removed)),
		len(plan.RemovedIncomplete), plural(len(plan.RemovedIncomplete)),
		len(plan.Kept))
	return nil
}
