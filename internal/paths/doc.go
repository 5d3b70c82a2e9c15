// Package paths resolves the filesystem locations snapback works
// with: the configuration directory and the source and destination
// arguments of a run.
//
// # Configuration location
//
// The configuration lives under the XDG config home (wrapping
// github.com/adrg/xdg), in <ConfigHome>/snapback. Setting
// SNAPBACK_CONFIG_DIR points both reads and writes somewhere else,
// which tests use to isolate themselves from a developer's real
// configuration.
//
// # Path normalization
//
// Source and destination arguments pass through [Normalize] before
// any other layer sees them: cleaned, made absolute against the
// working directory, never empty. Everything downstream (locking,
// the engine, pruning) can then treat the paths as canonical.
//
// # Permissions
//
// [EnsureDir] applies [DefaultDirPerm] (0700, private) unless told
// otherwise; backup destinations use [BackupDirPerm] (0755) so a
// restore does not need the creating user.
package paths
