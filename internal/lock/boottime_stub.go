//go:build !linux

package lock

import (
	"time"

	"github.com/thoreinstein/snapback/internal/errors"
)

// bootTime is only implemented on Linux. Elsewhere stale locks are
// never cleared automatically; snapback unlock remains available.
func bootTime() (time.Time, error) {
	return time.Time{}, errors.New("boot time unavailable on this platform")
}
