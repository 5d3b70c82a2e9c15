package lock

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/thoreinstein/snapback/internal/errors"
	"github.com/thoreinstein/snapback/pkg/fileutil"
)

// DefaultName is the marker directory created inside the destination.
const DefaultName = "backup.lock"

// InfoFileName is the owner record written inside the marker directory.
const InfoFileName = "info"

// markerPerm keeps the marker world-readable so a contending run under
// another user can still report who holds it.
const markerPerm = 0o755

// ErrNotLocked indicates no lock marker exists at the destination.
var ErrNotLocked = errors.New("destination is not locked")

// Owner identifies the run holding a lock. It is serialized as the
// info file so a contending run can say who got there first.
type Owner struct {
	PID       int       `json:"pid"`
	StartedAt time.Time `json:"start_time"`
	Hostname  string    `json:"hostname,omitempty"`
	RunID     string    `json:"run_id,omitempty"`
}

// String renders the owner for contention messages.
func (o Owner) String() string {
	if o.PID == 0 {
		return "unknown owner"
	}
	s := fmt.Sprintf("pid %d", o.PID)
	if o.Hostname != "" {
		s += " on " + o.Hostname
	}
	if !o.StartedAt.IsZero() {
		s += fmt.Sprintf(" (since %s)", o.StartedAt.Format(time.RFC3339))
	}
	return s
}

// ContentionError reports that another run already holds the lock.
type ContentionError struct {
	Path  string
	Owner Owner
}

// Error includes the owning PID and start time when the info file was
// readable.
func (e *ContentionError) Error() string {
	return fmt.Sprintf("destination already locked by %s at %s", e.Owner, e.Path)
}

// Manager acquires and inspects destination locks.
type Manager struct {
	name     string
	runID    string
	log      *slog.Logger
	now      func() time.Time
	bootTime func() (time.Time, error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithName overrides the marker directory name. Empty keeps the default.
func WithName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.name = name
		}
	}
}

// WithRunID stamps acquired locks with a run identifier.
func WithRunID(id string) Option {
	return func(m *Manager) {
		m.runID = id
	}
}

// WithLogger sets the logger used for lock lifecycle events.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a Manager with the default marker name.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		name:     DefaultName,
		log:      slog.Default(),
		now:      time.Now,
		bootTime: bootTime,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Path returns the marker directory path for a destination.
func (m *Manager) Path(dest string) string {
	return filepath.Join(dest, m.name)
}

// Acquire takes the destination lock. The marker directory is created
// atomically; exactly one concurrent caller wins. On contention it
// returns a *ContentionError carrying whatever owner information the
// info file yields. A marker whose start time predates the current
// boot is cleared first: its owner cannot still be running.
func (m *Manager) Acquire(dest string) (*Handle, error) {
	markerPath := m.Path(dest)
	m.clearStale(markerPath)

	if err := os.Mkdir(markerPath, markerPerm); err != nil {
		if errors.Is(err, fs.ErrExist) {
			owner, rerr := m.readOwner(markerPath)
			if rerr != nil {
				m.log.Debug("lock info unreadable", "path", markerPath, "error", rerr)
			}
			return nil, &ContentionError{Path: markerPath, Owner: owner}
		}
		return nil, errors.Wrap(err, "creating lock marker")
	}

	owner := Owner{
		PID:       os.Getpid(),
		StartedAt: m.now(),
		RunID:     m.runID,
	}
	if host, err := os.Hostname(); err == nil {
		owner.Hostname = host
	}

	if err := fileutil.AtomicWriteJSON(filepath.Join(markerPath, InfoFileName), owner); err != nil {
		// Do not leave an anonymous marker behind.
		os.RemoveAll(markerPath)
		return nil, errors.Wrap(err, "writing lock info")
	}

	m.log.Debug("acquired lock", "path", markerPath, "pid", owner.PID)
	return &Handle{path: markerPath, owner: owner, log: m.log}, nil
}

// Inspect returns the owner recorded at a locked destination without
// acquiring anything. It returns ErrNotLocked when no marker exists,
// and a zero Owner when the marker exists but its info is unreadable.
func (m *Manager) Inspect(dest string) (Owner, error) {
	markerPath := m.Path(dest)
	if _, err := os.Stat(markerPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Owner{}, ErrNotLocked
		}
		return Owner{}, errors.Wrap(err, "checking lock marker")
	}
	owner, err := m.readOwner(markerPath)
	if err != nil {
		m.log.Debug("lock info unreadable", "path", markerPath, "error", err)
		return Owner{}, nil
	}
	return owner, nil
}

// ForceRelease removes the lock marker regardless of owner. It is the
// manual escape hatch for locks orphaned by crashes.
func (m *Manager) ForceRelease(dest string) error {
	markerPath := m.Path(dest)
	if _, err := os.Stat(markerPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotLocked
		}
		return errors.Wrap(err, "checking lock marker")
	}
	if err := os.RemoveAll(markerPath); err != nil {
		return errors.Wrap(err, "removing lock marker")
	}
	m.log.Info("removed lock", "path", markerPath)
	return nil
}

// clearStale removes a marker provably owned by a pre-boot run. An
// unreadable info file keeps the marker: liveness cannot be ruled out.
func (m *Manager) clearStale(markerPath string) {
	owner, err := m.readOwner(markerPath)
	if err != nil {
		return
	}
	boot, err := m.bootTime()
	if err != nil {
		return
	}
	if owner.StartedAt.IsZero() || !owner.StartedAt.Before(boot) {
		return
	}
	m.log.Info("clearing stale lock from before last boot",
		"path", markerPath, "owner_pid", owner.PID, "locked_at", owner.StartedAt)
	if err := os.RemoveAll(markerPath); err != nil {
		m.log.Warn("removing stale lock failed", "path", markerPath, "error", err)
	}
}

func (m *Manager) readOwner(markerPath string) (Owner, error) {
	data, err := fileutil.ReadFileWithLimit(filepath.Join(markerPath, InfoFileName))
	if err != nil {
		return Owner{}, errors.Wrap(err, "reading lock info")
	}
	var o Owner
	if err := json.Unmarshal(data, &o); err != nil {
		return Owner{}, errors.Wrap(err, "parsing lock info")
	}
	return o, nil
}

// Handle represents a held lock. Release is idempotent; every exit
// path may call it and only the first call removes the marker.
type Handle struct {
	path  string
	owner Owner
	log   *slog.Logger

	once sync.Once
	err  error
}

// Path returns the marker directory this handle holds.
func (h *Handle) Path() string {
	return h.path
}

// Owner returns the owner record written at acquisition.
func (h *Handle) Owner() Owner {
	return h.owner
}

// Release removes the marker directory and everything under it.
// Subsequent calls return the first call's result.
func (h *Handle) Release() error {
	h.once.Do(func() {
		h.err = os.RemoveAll(h.path)
		if h.err == nil {
			h.log.Debug("released lock", "path", h.path)
		}
	})
	return errors.Wrap(h.err, "releasing lock")
}
