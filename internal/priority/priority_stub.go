//go:build !linux

// Package priority drops the scheduling priority of the current
// process so long-running backups stay out of the foreground's way.
package priority

// Lower is a no-op where the host does not expose the Linux priority
// interfaces.
func Lower() error {
	return nil
}
