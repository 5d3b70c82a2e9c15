package rsync

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/thoreinstein/snapback/internal/engine"
	"github.com/thoreinstein/snapback/internal/errors"
	"github.com/thoreinstein/snapback/internal/retention"
)

// Prune deletes complete snapshots that have aged past the policy
// threshold and staging debris left by interrupted runs, per
// engine.PlanPrune. An error mid-removal returns the partial result.
func (e *Engine) Prune(ctx context.Context, dest string, policy retention.Policy) (engine.PruneResult, error) {
	if err := ctx.Err(); err != nil {
		return engine.PruneResult{}, err
	}
	if err := policy.Validate(); err != nil {
		return engine.PruneResult{}, err
	}
	snaps, err := e.Snapshots(ctx, dest)
	if err != nil {
		return engine.PruneResult{}, err
	}

	now := e.now()
	plan := engine.PlanPrune(snaps, policy, now)

	res := engine.PruneResult{Kept: plan.Kept}
	for _, s := range plan.Removed {
		if err := e.removeSnapshot(ctx, s, now); err != nil {
			return res, err
		}
		res.Removed = append(res.Removed, s)
	}
	for _, s := range plan.RemovedIncomplete {
		if err := e.removeSnapshot(ctx, s, now); err != nil {
			return res, err
		}
		res.RemovedIncomplete = append(res.RemovedIncomplete, s)
	}
	return res, nil
}

func (e *Engine) removeSnapshot(ctx context.Context, s engine.Snapshot, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.log.Info("pruning snapshot",
		slog.String("name", s.Name),
		slog.Duration("age", s.Age(now)),
	)
	if err := os.RemoveAll(s.Path); err != nil {
		return errors.Wrapf(err, "removing %s", s.Name)
	}
	return nil
}
