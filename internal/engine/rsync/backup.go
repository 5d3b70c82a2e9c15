package rsync

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/snapback/internal/engine"
	"github.com/thoreinstein/snapback/internal/errors"
	"github.com/thoreinstein/snapback/internal/logging"
	"github.com/thoreinstein/snapback/internal/paths"
)

const (
	// TimeFormat names snapshots. Fixed width, so lexical order is
	// chronological order.
	TimeFormat = "2006-01-02T15:04:05"

	// SnapshotPrefix marks finished snapshots.
	SnapshotPrefix = "backup-"

	// IncompletePrefix marks staging directories of in-flight runs.
	IncompletePrefix = "incomplete-backup-"

	// CurrentLink is the relative symlink pointing at the newest
	// complete snapshot. It doubles as the hard-link base for the
	// next run.
	CurrentLink = "current"
)

// Backup copies run.Source into a fresh snapshot under
// run.Destination, hard-linking unchanged files against the previous
// snapshot. A failed run leaves its staging directory behind for
// inspection; Prune clears such debris later.
func (e *Engine) Backup(ctx context.Context, run engine.BackupRun) (engine.Snapshot, error) {
	if err := run.Validate(); err != nil {
		return engine.Snapshot{}, err
	}
	if err := paths.EnsureDir(run.Destination, paths.BackupDirPerm); err != nil {
		return engine.Snapshot{}, errors.Wrap(err, "preparing destination")
	}

	started := e.now()
	name := SnapshotPrefix + started.Format(TimeFormat)
	staging := filepath.Join(run.Destination, IncompletePrefix+started.Format(TimeFormat))
	final := filepath.Join(run.Destination, name)

	args := buildArgs(run, staging)
	e.log.Info("starting backup",
		slog.String("source", run.Source),
		slog.String("snapshot", name),
	)
	e.log.Debug("running engine", slog.String("bin", e.bin), slog.Any("args", args))

	// Engine chatter goes through the logger: transfer listings only
	// show up at -vv, diagnostics always do.
	stdout := logging.NewLineWriter(e.log, slog.LevelDebug)
	stderr := logging.NewLineWriter(e.log, slog.LevelWarn)
	err := e.run(ctx, e.bin, args, stdout, stderr)
	stdout.Flush()
	stderr.Flush()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return engine.Snapshot{}, errors.Wrap(ctxErr, "backup interrupted")
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return engine.Snapshot{}, errors.Wrapf(err, "rsync exited with status %d", exitErr.ExitCode())
		}
		return engine.Snapshot{}, errors.Wrap(err, "running rsync")
	}

	if err := os.Rename(staging, final); err != nil {
		return engine.Snapshot{}, errors.Wrap(err, "promoting snapshot")
	}
	if err := relink(run.Destination, name); err != nil {
		return engine.Snapshot{}, errors.Wrap(err, "updating current link")
	}

	e.log.Info("backup complete", slog.String("snapshot", name))
	return engine.Snapshot{
		Name:     name,
		Path:     final,
		Time:     started,
		Complete: true,
	}, nil
}

// buildArgs assembles the rsync command line for one run. The glob
// rules keep their declared order; the destination's own subtree is
// excluded first so no later rule can pull the backup into itself.
func buildArgs(run engine.BackupRun, staging string) []string {
	args := []string{
		"--archive",
		"--acls",
		"--xattrs",
		"--hard-links",
		"--numeric-ids",
		"--delete",
		"--delete-excluded",
		"--itemize-changes",
		"--human-readable",
	}
	if run.Policy.ExcludeSpecialFiles {
		args = append(args, "--no-devices", "--no-specials")
	}
	if run.Policy.OneFileSystem {
		args = append(args, "--one-file-system")
	}
	for i := 0; i < run.Verbosity; i++ {
		args = append(args, "--verbose")
	}
	if rel := innerPath(run.Source, run.Destination); rel != "" {
		args = append(args, "--exclude=/"+rel)
	}
	args = append(args, run.Policy.Args()...)
	args = append(args, "--link-dest="+filepath.Join(run.Destination, CurrentLink))

	// The trailing slash makes rsync transfer the source's contents,
	// so snapshot layout matches the source and --link-dest lines up
	// across runs.
	src := run.Source
	if !strings.HasSuffix(src, "/") {
		src += "/"
	}
	return append(args, src, staging)
}

// innerPath returns dest relative to source when dest lives inside
// the source tree, and "" otherwise.
func innerPath(source, dest string) string {
	rel, err := filepath.Rel(source, dest)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return ""
	}
	return filepath.ToSlash(rel)
}

// relink atomically repoints the current symlink at name. The link
// target is relative so the destination stays valid when remounted
// under another path.
func relink(dest, name string) error {
	link := filepath.Join(dest, CurrentLink)
	tmp := filepath.Join(dest, "."+CurrentLink+".tmp")
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := os.Symlink(name, tmp); err != nil {
		return err
	}
	if err := os.Rename(tmp, link); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
