// Package retention decides which snapshots have aged out of the
// backup history. A Policy is a single wall-clock age threshold;
// anything created at or before now minus the threshold is prunable.
package retention

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/thoreinstein/snapback/internal/errors"
)

// Day is the length of one retention day. Thresholds are wall-clock
// arithmetic; calendar effects like DST are ignored.
const Day = 24 * time.Hour

// Coarse units accepted by ParseThreshold. A month is approximated as
// 30 days and a year as 365.
const (
	Week  = 7 * Day
	Month = 30 * Day
	Year  = 365 * Day
)

// ErrInvalidThreshold indicates a threshold spec could not be parsed.
var ErrInvalidThreshold = errors.New("invalid retention threshold")

var thresholdRe = regexp.MustCompile(`^(\d+)\s*([dwmyDWMY])$`)

// ParseThreshold converts a threshold spec into a duration. It accepts
// a count with a coarse unit (d=days, w=weeks, m=months, y=years, case
// insensitive), or any duration understood by time.ParseDuration.
// The coarse units win when both readings are possible, so "3m" is
// three months, never three minutes.
func ParseThreshold(s string) (time.Duration, error) {
	spec := strings.TrimSpace(s)
	if m := thresholdRe.FindStringSubmatch(spec); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, errors.Wrapf(ErrInvalidThreshold, "%q", s)
		}
		var unit time.Duration
		switch strings.ToLower(m[2]) {
		case "d":
			unit = Day
		case "w":
			unit = Week
		case "m":
			unit = Month
		case "y":
			unit = Year
		}
		return time.Duration(n) * unit, nil
	}

	d, err := time.ParseDuration(spec)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidThreshold, "%q", s)
	}
	return d, nil
}

// Policy bounds how long snapshots are retained after creation.
type Policy struct {
	KeepFor time.Duration
}

// ParsePolicy builds a Policy from a threshold spec such as "365d".
func ParsePolicy(spec string) (Policy, error) {
	d, err := ParseThreshold(spec)
	if err != nil {
		return Policy{}, err
	}
	p := Policy{KeepFor: d}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Validate rejects zero and negative thresholds.
func (p Policy) Validate() error {
	if p.KeepFor <= 0 {
		return errors.Wrapf(ErrInvalidThreshold, "must be positive, got %s", p.KeepFor)
	}
	return nil
}

// Cutoff returns the instant before which snapshots have aged out.
func (p Policy) Cutoff(now time.Time) time.Time {
	return now.Add(-p.KeepFor)
}

// Prunable reports whether a snapshot created at the given time has
// aged out at now. The boundary is inclusive: a snapshot exactly at
// the cutoff is prunable.
func (p Policy) Prunable(created, now time.Time) bool {
	return !created.After(p.Cutoff(now))
}

// String renders the threshold in days when it divides evenly, else
// in time.Duration notation.
func (p Policy) String() string {
	if p.KeepFor > 0 && p.KeepFor%Day == 0 {
		return fmt.Sprintf("%dd", p.KeepFor/Day)
	}
	return p.KeepFor.String()
}
