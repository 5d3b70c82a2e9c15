package commands

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/thoreinstein/snapback/internal/config"
	"github.com/thoreinstein/snapback/internal/engine"
	"github.com/thoreinstein/snapback/internal/engine/rsync"
	"github.com/thoreinstein/snapback/internal/retention"
)

// storeEngine returns an engine for snapshot-store maintenance.
// Listing and pruning never execute the transfer binary, so no
// detection happens here.
func storeEngine(log *slog.Logger) engine.Engine {
	return rsync.New(rsync.WithLogger(log))
}

// lockMarkerName returns the configured lock marker directory name,
// empty for the built-in default.
func lockMarkerName() string {
	if cfg != nil {
		return cfg.LockName
	}
	return ""
}

// keepForSpec resolves the retention threshold: the flag wins, then
// the config, then the built-in default.
func keepForSpec(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg != nil && cfg.KeepFor != "" {
		return cfg.KeepFor
	}
	return config.DefaultKeepFor
}

// effectiveVerbosity resolves the engine log detail: -v flags win,
// then the configured default.
func effectiveVerbosity() int {
	if verbosity > 0 {
		return verbosity
	}
	if cfg != nil {
		return cfg.Verbosity
	}
	return 0
}

// snapshotState names a snapshot's state for listings.
func snapshotState(s engine.Snapshot) string {
	if s.Complete {
		return "complete"
	}
	return "incomplete"
}

// formatAge renders a snapshot age the way an operator scans one:
// minutes under an hour, hours under a day, days beyond that.
func formatAge(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < retention.Day:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d/retention.Day))
	}
}

// plural returns "s" for counts other than one.
func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// confirm prompts the user for a yes/no confirmation on in.
// Returns true only if the user enters "y" or "yes" (case-insensitive).
func confirm(in io.Reader, w io.Writer, prompt string) bool {
	fmt.Fprintf(w, "%s [y/N] ", prompt)

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
