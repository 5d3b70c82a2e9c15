// Package coordinator sequences one backup run: lock the destination,
// snapshot the source, prune aged snapshots, release the lock. The
// release is registered before any fallible work so every exit path
// unlocks the destination; cancellation reaches the engine through the
// context.
package coordinator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/thoreinstein/snapback/internal/engine"
	"github.com/thoreinstein/snapback/internal/errors"
	"github.com/thoreinstein/snapback/internal/exclude"
	"github.com/thoreinstein/snapback/internal/lock"
	"github.com/thoreinstein/snapback/internal/paths"
	"github.com/thoreinstein/snapback/internal/retention"
)

// Phase is one step of a coordinated run.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseLocking
	PhaseBackingUp
	PhasePruning
	PhaseReleasing
	PhaseDone
	PhaseFailed
)

// String returns the operator-facing phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLocking:
		return "locking"
	case PhaseBackingUp:
		return "backing-up"
	case PhasePruning:
		return "pruning"
	case PhaseReleasing:
		return "releasing"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// Request describes one coordinated backup.
type Request struct {
	Source      string
	Destination string
	Policy      exclude.Policy
	Retention   retention.Policy

	// LockName overrides the marker directory name. Empty keeps the
	// default.
	LockName string

	// RunID tags the lock owner record and log lines.
	RunID string

	Verbosity int

	// SkipPrune disables the prune phase entirely.
	SkipPrune bool

	// PruneOnFailure runs the prune phase even when the backup phase
	// failed. Off by default: a failed backup usually means the
	// destination needs a look, not a cleanup.
	PruneOnFailure bool
}

// Validate rejects requests the coordinator cannot execute.
func (r Request) Validate() error {
	if err := r.backupRun().Validate(); err != nil {
		return err
	}
	if !r.SkipPrune {
		if err := r.Retention.Validate(); err != nil {
			return err
		}
	}
	return r.Policy.Validate()
}

func (r Request) backupRun() engine.BackupRun {
	return engine.BackupRun{
		Source:      r.Source,
		Destination: r.Destination,
		Policy:      r.Policy,
		Verbosity:   r.Verbosity,
		RunID:       r.RunID,
	}
}

// Result reports what a completed run did.
type Result struct {
	Snapshot engine.Snapshot
	Prune    engine.PruneResult

	// Pruned is true when the prune phase ran to completion.
	Pruned bool
}

// Coordinator drives an engine through the run phases.
type Coordinator struct {
	engine  engine.Engine
	log     *slog.Logger
	out     io.Writer
	phaseFn func(Phase)
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger for phase transitions and failures.
func WithLogger(log *slog.Logger) Option {
	return func(c *Coordinator) {
		if log != nil {
			c.log = log
		}
	}
}

// WithOutput redirects the human progress lines, which default to
// stdout.
func WithOutput(w io.Writer) Option {
	return func(c *Coordinator) {
		if w != nil {
			c.out = w
		}
	}
}

// WithPhaseFunc registers a callback invoked on every phase
// transition.
func WithPhaseFunc(fn func(Phase)) Option {
	return func(c *Coordinator) {
		c.phaseFn = fn
	}
}

// New returns a Coordinator driving the given engine.
func New(eng engine.Engine, opts ...Option) *Coordinator {
	c := &Coordinator{
		engine: eng,
		log:    slog.Default(),
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes one coordinated backup. The returned error carries the
// first failure; a lock release failure is joined onto it. On
// contention the error chain contains a *lock.ContentionError and the
// destination is left untouched.
func (c *Coordinator) Run(ctx context.Context, req Request) (res Result, err error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	if err := paths.EnsureDir(req.Destination, paths.BackupDirPerm); err != nil {
		c.setPhase(PhaseFailed)
		return Result{}, errors.Wrap(err, "preparing destination")
	}

	c.setPhase(PhaseLocking)
	fmt.Fprintf(c.out, "Locking '%s'...\n", req.Destination)
	handle, err := c.lockManager(req).Acquire(req.Destination)
	if err != nil {
		c.setPhase(PhaseFailed)
		return Result{}, err
	}
	defer func() {
		c.setPhase(PhaseReleasing)
		if relErr := handle.Release(); relErr != nil {
			relErr = errors.Wrap(relErr, "releasing lock")
			c.log.Error("lock release failed", slog.String("error", relErr.Error()))
			err = errors.Join(err, relErr)
		}
		if err != nil {
			c.setPhase(PhaseFailed)
			return
		}
		c.setPhase(PhaseDone)
	}()

	c.setPhase(PhaseBackingUp)
	fmt.Fprintf(c.out, "Backing up '%s' to '%s'...\n", req.Source, req.Destination)
	snap, backupErr := c.engine.Backup(ctx, req.backupRun())
	if backupErr != nil {
		backupErr = errors.Wrap(backupErr, "backup failed")
		c.log.Error("backup phase failed", slog.String("error", backupErr.Error()))
	} else {
		res.Snapshot = snap
		fmt.Fprintln(c.out, "Backup was successful")
	}

	var pruneErr error
	switch {
	case req.SkipPrune:
	case ctx.Err() != nil:
		// A canceled run never starts deleting things.
	case backupErr != nil && !req.PruneOnFailure:
		c.log.Info("skipping prune after failed backup")
	default:
		c.setPhase(PhasePruning)
		fmt.Fprintf(c.out, "Pruning backups older than %s in '%s'...\n", req.Retention, req.Destination)
		pr, perr := c.engine.Prune(ctx, req.Destination, req.Retention)
		if perr != nil {
			pruneErr = errors.Wrap(perr, "prune failed")
			c.log.Error("prune phase failed", slog.String("error", pruneErr.Error()))
			break
		}
		res.Prune = pr
		res.Pruned = true
		fmt.Fprintf(c.out, "Removed %d old backup%s and %d incomplete backup%s.\n",
			len(pr.Removed), plural(len(pr.Removed)),
			len(pr.RemovedIncomplete), plural(len(pr.RemovedIncomplete)))
	}

	err = backupErr
	switch {
	case err == nil:
		err = pruneErr
	case pruneErr != nil:
		err = errors.Join(err, pruneErr)
	}
	return res, err
}

func (c *Coordinator) lockManager(req Request) *lock.Manager {
	return lock.NewManager(
		lock.WithName(req.LockName),
		lock.WithRunID(req.RunID),
		lock.WithLogger(c.log),
	)
}

func (c *Coordinator) setPhase(p Phase) {
	c.log.Debug("phase transition", slog.String("phase", p.String()))
	if c.phaseFn != nil {
		c.phaseFn(p)
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
