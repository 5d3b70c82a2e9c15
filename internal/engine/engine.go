// Package engine defines the contract between the backup coordinator
// and the tool that moves bytes. An Engine creates versioned
// snapshots of a source inside a destination, lists what is there,
// and prunes what has aged out. The reference implementation wraps
// rsync; tests use an in-memory fake.
package engine

import (
	"context"
	"path/filepath"
	"time"

	"github.com/thoreinstein/snapback/internal/errors"
	"github.com/thoreinstein/snapback/internal/exclude"
	"github.com/thoreinstein/snapback/internal/retention"
)

// BackupRun carries everything an engine needs for one backup.
type BackupRun struct {
	// Source is the absolute directory tree to back up.
	Source string

	// Destination is the absolute directory receiving snapshots.
	Destination string

	// Policy is the ordered exclusion policy for this run.
	Policy exclude.Policy

	// Verbosity is the CLI verbosity count, forwarded to the engine.
	Verbosity int

	// RunID identifies this run in logs and the lock owner record.
	RunID string
}

// Validate rejects runs an engine cannot execute.
func (r BackupRun) Validate() error {
	if r.Source == "" {
		return errors.New("backup source is empty")
	}
	if r.Destination == "" {
		return errors.New("backup destination is empty")
	}
	if !filepath.IsAbs(r.Source) {
		return errors.Newf("backup source %q is not absolute", r.Source)
	}
	if !filepath.IsAbs(r.Destination) {
		return errors.Newf("backup destination %q is not absolute", r.Destination)
	}
	if r.Source == r.Destination {
		return errors.Newf("source and destination are both %q", r.Source)
	}
	return nil
}

// Snapshot is one versioned backup inside a destination.
type Snapshot struct {
	// Name is the directory name, e.g. backup-2026-08-25T03:00:00.
	Name string

	// Path is the absolute snapshot directory.
	Path string

	// Time is when the snapshot was started.
	Time time.Time

	// Complete is false for staging directories left by interrupted
	// runs.
	Complete bool
}

// Age returns how old the snapshot is at now.
func (s Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.Time)
}

// PruneResult reports what a prune removed and what survived.
type PruneResult struct {
	Removed           []Snapshot
	RemovedIncomplete []Snapshot
	Kept              []Snapshot
}

// RemovedCount is the total number of directories deleted.
func (r PruneResult) RemovedCount() int {
	return len(r.Removed) + len(r.RemovedIncomplete)
}

// Engine creates, lists and prunes snapshots. Implementations must be
// safe for sequential reuse across operations; the coordinator holds
// the destination lock around every mutating call.
type Engine interface {
	// Backup snapshots the run's source into its destination and
	// returns the completed snapshot.
	Backup(ctx context.Context, run BackupRun) (Snapshot, error)

	// Snapshots lists the destination's snapshots sorted by time,
	// oldest first. A destination with no history yields an empty
	// list, not an error.
	Snapshots(ctx context.Context, dest string) ([]Snapshot, error)

	// Prune removes snapshots that have aged out of the policy plus
	// staging debris from interrupted runs.
	Prune(ctx context.Context, dest string, policy retention.Policy) (PruneResult, error)
}
