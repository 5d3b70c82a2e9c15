package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/snapback/internal/coordinator"
	"github.com/thoreinstein/snapback/internal/engine"
	"github.com/thoreinstein/snapback/internal/engine/rsync"
	"github.com/thoreinstein/snapback/internal/errors"
	"github.com/thoreinstein/snapback/internal/exclude"
	"github.com/thoreinstein/snapback/internal/lock"
	"github.com/thoreinstein/snapback/internal/logging"
	"github.com/thoreinstein/snapback/internal/paths"
	"github.com/thoreinstein/snapback/internal/priority"
	"github.com/thoreinstein/snapback/internal/retention"
)

var (
	backupKeepFor string
	backupNoPrune bool
)

func init() {
	rootCmd.Flags().StringVarP(&backupKeepFor, "keep-for", "k", "",
		"how long to keep old backups, e.g. 90d, 12w, 6m, 1y (default from config)")
	rootCmd.Flags().BoolVar(&backupNoPrune, "no-prune", false,
		"skip pruning old backups after the run")
}

// engineFactory builds the engine for operations that execute the
// transfer binary. Tests swap it out.
var engineFactory = newRsyncEngine

func newRsyncEngine(ctx context.Context, log *slog.Logger) (engine.Engine, error) {
	info, err := rsync.Detect(ctx, rsyncPath())
	if err != nil {
		return nil, errors.NewFailure(err,
			"Install rsync, or point rsync_path in the config at the binary.")
	}
	log.Debug("engine detected",
		slog.String("path", info.Path),
		slog.String("version", info.Version))
	return rsync.New(rsync.WithBinary(info.Path), rsync.WithLogger(log)), nil
}

// rsyncPath returns the configured engine binary, or the default when
// the configuration is absent.
func rsyncPath() string {
	if cfg != nil && cfg.RsyncPath != "" {
		return cfg.RsyncPath
	}
	return rsync.DefaultBinary
}

func runBackup(cmd *cobra.Command, args []string) error {
	// A single argument is the destination of a whole-system run.
	source := "/"
	dest := args[0]
	if len(args) == 2 {
		source, dest = args[0], args[1]
	}
	return runBackupWithWriter(cmd.Context(), os.Stdout, source, dest)
}

func runBackupWithWriter(ctx context.Context, w io.Writer, source, dest string) error {
	log := logging.FromContext(ctx)

	// Best effort. A run that cannot renice still backs up.
	if err := priority.Lower(); err != nil {
		log.Warn("could not lower process priority", slog.String("error", err.Error()))
	}

	source, err := paths.Normalize(source)
	if err != nil {
		return errors.NewExitError(err, errors.ExitUsage)
	}
	dest, err = paths.Normalize(dest)
	if err != nil {
		return errors.NewExitError(err, errors.ExitUsage)
	}

	policy, err := retention.ParsePolicy(keepForSpec(backupKeepFor))
	if err != nil {
		return errors.NewExitError(err, errors.ExitUsage)
	}

	excl := exclude.ForSource(source)
	if cfg != nil {
		excl = excl.WithExcludes(cfg.Exclude...)
	}

	eng, err := engineFactory(ctx, log)
	if err != nil {
		return err
	}

	coord := coordinator.New(eng,
		coordinator.WithLogger(log),
		coordinator.WithOutput(w))

	req := coordinator.Request{
		Source:         source,
		Destination:    dest,
		Policy:         excl,
		Retention:      policy,
		LockName:       lockMarkerName(),
		RunID:          uuid.NewString(),
		Verbosity:      effectiveVerbosity(),
		SkipPrune:      backupNoPrune,
		PruneOnFailure: cfg != nil && cfg.PruneOnFailure,
	}

	if _, err := coord.Run(ctx, req); err != nil {
		var contention *lock.ContentionError
		if errors.As(err, &contention) {
			return errors.NewFailure(err, fmt.Sprintf(
				"If no other backup is running, clear it with: snapback unlock %s", dest))
		}
		return err
	}
	return nil
}
