// Package priority drops the scheduling priority of the current
// process so long-running backups stay out of the foreground's way.
package priority

import (
	"golang.org/x/sys/unix"

	"github.com/thoreinstein/snapback/internal/errors"
)

const (
	niceLowest = 19

	// ioprio_set encoding: class in the top bits, data in the low 13.
	ioprioClassShift = 13
	ioprioClassIdle  = 3
	ioprioWhoProcess = 1
)

// Lower moves the current process to the lowest CPU priority and the
// idle I/O scheduling class. Child processes inherit both, so the
// engine runs reniced too.
func Lower() error {
	if err := unix.Setpriority(unix.PRIO_PROCESS, 0, niceLowest); err != nil {
		return errors.Wrap(err, "lowering cpu priority")
	}
	ioprio := uintptr(ioprioClassIdle << ioprioClassShift)
	if _, _, errno := unix.Syscall(unix.SYS_IOPRIO_SET, ioprioWhoProcess, 0, ioprio); errno != 0 {
		return errors.Wrap(errno, "lowering io priority")
	}
	return nil
}
