package rsync

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/thoreinstein/snapback/internal/engine"
	"github.com/thoreinstein/snapback/internal/errors"
)

// Snapshots lists dest's snapshot directories, oldest first. Staging
// directories from interrupted runs are reported with Complete false.
// A missing destination yields an empty list.
func (e *Engine) Snapshots(ctx context.Context, dest string) ([]engine.Snapshot, error) {
	entries, err := os.ReadDir(dest)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "listing destination")
	}

	var snaps []engine.Snapshot
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		t, complete, ok := parseName(name)
		if !ok {
			if strings.HasPrefix(name, SnapshotPrefix) || strings.HasPrefix(name, IncompletePrefix) {
				e.log.Warn("skipping snapshot directory with unparseable name",
					slog.String("name", name))
			}
			continue
		}
		snaps = append(snaps, engine.Snapshot{
			Name:     name,
			Path:     filepath.Join(dest, name),
			Time:     t,
			Complete: complete,
		})
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Time.Before(snaps[j].Time) })
	return snaps, nil
}

// parseName extracts the snapshot time from a directory name. Names
// use the local timezone, matching how Backup stamps them.
func parseName(name string) (t time.Time, complete bool, ok bool) {
	var stamp string
	switch {
	case strings.HasPrefix(name, IncompletePrefix):
		stamp = name[len(IncompletePrefix):]
	case strings.HasPrefix(name, SnapshotPrefix):
		stamp = name[len(SnapshotPrefix):]
		complete = true
	default:
		return time.Time{}, false, false
	}
	parsed, err := time.ParseInLocation(TimeFormat, stamp, time.Local)
	if err != nil {
		return time.Time{}, false, false
	}
	return parsed, complete, true
}
