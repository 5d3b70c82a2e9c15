package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/snapback/internal/errors"
	"github.com/thoreinstein/snapback/internal/logging"
	"github.com/thoreinstein/snapback/internal/paths"
)

func init() {
	rootCmd.AddCommand(snapshotsCmd)
}

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots DEST",
	Short: "List the backups in a destination",
	Long: `List the snapshots a destination holds, oldest first.

A complete snapshot is usable for restore; an incomplete entry is the
staging directory of an interrupted or still-running backup.`,
	Example: `  snapback snapshots /mnt/backups`,
	Args:    usageArgs(cobra.ExactArgs(1)),
	RunE:    runSnapshots,
}

func runSnapshots(cmd *cobra.Command, args []string) error {
	return runSnapshotsWithWriter(cmd.Context(), os.Stdout, args[0])
}

func runSnapshotsWithWriter(ctx context.Context, w io.Writer, dest string) error {
	log := logging.FromContext(ctx)

	dest, err := paths.Normalize(dest)
	if err != nil {
		return errors.NewExitError(err, errors.ExitUsage)
	}

	snaps, err := storeEngine(log).Snapshots(ctx, dest)
	if err != nil {
		return errors.Wrap(err, "listing snapshots")
	}

	if len(snaps) == 0 {
		fmt.Fprintln(w, "No snapshots found.")
		return nil
	}

	now := time.Now()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "NAME\tCREATED\tAGE\tSTATE\n")
	for _, s := range snaps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			s.Name,
			s.Time.Format("2006-01-02 15:04:05"),
			formatAge(s.Age(now)),
			snapshotState(s))
	}
	return tw.Flush()
}
