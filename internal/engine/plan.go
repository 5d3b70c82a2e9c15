package engine

import (
	"time"

	"github.com/thoreinstein/snapback/internal/retention"
)

// PlanPrune classifies snapshots under the retention policy without
// touching disk. The newest complete snapshot is always kept, whatever
// its age, so a prune can never leave a destination without a restore
// point. Staging directories are only removable once a strictly newer
// complete snapshot exists; anything at least as new may belong to a
// run worth inspecting.
func PlanPrune(snaps []Snapshot, policy retention.Policy, now time.Time) PruneResult {
	var newestComplete time.Time
	for _, s := range snaps {
		if s.Complete && s.Time.After(newestComplete) {
			newestComplete = s.Time
		}
	}

	var res PruneResult
	for _, s := range snaps {
		switch {
		case !s.Complete:
			if s.Time.Before(newestComplete) {
				res.RemovedIncomplete = append(res.RemovedIncomplete, s)
			} else {
				res.Kept = append(res.Kept, s)
			}
		case s.Time.Equal(newestComplete):
			res.Kept = append(res.Kept, s)
		case policy.Prunable(s.Time, now):
			res.Removed = append(res.Removed, s)
		default:
			res.Kept = append(res.Kept, s)
		}
	}
	return res
}
