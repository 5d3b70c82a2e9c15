// Package enginetest provides an in-memory Engine for coordinator and
// command tests.
package enginetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/thoreinstein/snapback/internal/engine"
	"github.com/thoreinstein/snapback/internal/retention"
)

// Fake is an in-memory engine. Calls are recorded in order; errors
// and results are injected through the public fields. The zero value
// is usable.
type Fake struct {
	mu sync.Mutex

	// BackupErr, SnapshotsErr and PruneErr are returned by the
	// corresponding methods when set.
	BackupErr    error
	SnapshotsErr error
	PruneErr     error

	// BackupFn, when set, replaces the default Backup behavior.
	BackupFn func(ctx context.Context, run engine.BackupRun) (engine.Snapshot, error)

	// Snaps is the snapshot inventory returned by Snapshots and grown
	// by successful Backups.
	Snaps []engine.Snapshot

	// PruneRes is returned by a successful Prune.
	PruneRes engine.PruneResult

	// Calls records method invocations, e.g. "backup /data /mnt/b".
	Calls []string

	// LastRun is the most recent BackupRun passed to Backup.
	LastRun engine.BackupRun
}

var _ engine.Engine = (*Fake)(nil)

// Backup records the run and appends a synthetic complete snapshot,
// unless BackupFn or BackupErr dictate otherwise.
func (f *Fake) Backup(ctx context.Context, run engine.BackupRun) (engine.Snapshot, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, fmt.Sprintf("backup %s %s", run.Source, run.Destination))
	f.LastRun = run
	f.mu.Unlock()

	if f.BackupFn != nil {
		return f.BackupFn(ctx, run)
	}
	if f.BackupErr != nil {
		return engine.Snapshot{}, f.BackupErr
	}
	if err := ctx.Err(); err != nil {
		return engine.Snapshot{}, err
	}

	snap := engine.Snapshot{
		Name:     fmt.Sprintf("backup-%d", len(f.Snaps)+1),
		Path:     run.Destination,
		Time:     time.Now(),
		Complete: true,
	}
	f.mu.Lock()
	f.Snaps = append(f.Snaps, snap)
	f.mu.Unlock()
	return snap, nil
}

// Snapshots returns the configured inventory.
func (f *Fake) Snapshots(ctx context.Context, dest string) ([]engine.Snapshot, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, "snapshots "+dest)
	snaps := append([]engine.Snapshot(nil), f.Snaps...)
	f.mu.Unlock()

	if f.SnapshotsErr != nil {
		return nil, f.SnapshotsErr
	}
	return snaps, nil
}

// Prune records the call and returns the configured result.
func (f *Fake) Prune(ctx context.Context, dest string, policy retention.Policy) (engine.PruneResult, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, fmt.Sprintf("prune %s %s", dest, policy))
	f.mu.Unlock()

	if f.PruneErr != nil {
		return engine.PruneResult{}, f.PruneErr
	}
	return f.PruneRes, nil
}

// CallNames returns just the verb of each recorded call, in order.
func (f *Fake) CallNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		for i := 0; i < len(c); i++ {
			if c[i] == ' ' {
				c = c[:i]
				break
			}
		}
		names = append(names, c)
	}
	return names
}
