// Package lock serializes backup runs against a destination.
//
// The lock is a marker directory created inside the destination itself,
// so it travels with whatever medium holds the backups. Creation via
// mkdir is atomic on POSIX filesystems: of any number of concurrent
// runs, exactly one observes success and proceeds, and every other run
// fails fast with a [ContentionError] naming the owner.
//
// An info file inside the marker records the owning process id, a
// human-readable start timestamp, the hostname, and the run id. The
// file is written atomically after the marker exists; a marker without
// a readable info file is reported as held by an unknown owner.
//
// # Staleness
//
// A crash between acquisition and release orphans the marker. The only
// automatic recovery is the boot-time heuristic: a lock whose start
// time predates the current boot cannot belong to a live process, so
// Acquire clears it before trying to take the lock. Anything newer is
// left alone; process ids recycle, and probing them would mistake an
// unrelated process for a live backup. Orphans from the current boot
// are removed manually with snapback unlock, which calls
// [Manager.ForceRelease].
package lock
