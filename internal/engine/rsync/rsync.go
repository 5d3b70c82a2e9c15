// Package rsync drives the system rsync binary as the snapshot
// engine. Each run lands in a staging directory beside the finished
// snapshots and is renamed into place only after rsync exits cleanly,
// so an interrupted run never masquerades as a complete snapshot.
package rsync

import (
	"context"
	"io"
	"log/slog"
	"os/exec"
	"regexp"
	"time"

	"github.com/thoreinstein/snapback/internal/engine"
	"github.com/thoreinstein/snapback/internal/errors"
)

// DefaultBinary is the executable resolved from PATH when no explicit
// path is configured.
const DefaultBinary = "rsync"

// detectTimeout bounds the version probe so a wedged binary cannot
// hang startup.
const detectTimeout = 5 * time.Second

// runner executes the engine binary. Tests swap it out to avoid
// spawning processes.
type runner func(ctx context.Context, bin string, args []string, stdout, stderr io.Writer) error

// Engine implements engine.Engine by shelling out to rsync.
type Engine struct {
	bin string
	log *slog.Logger
	now func() time.Time
	run runner
}

var _ engine.Engine = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithBinary sets the rsync executable path.
func WithBinary(path string) Option {
	return func(e *Engine) {
		if path != "" {
			e.bin = path
		}
	}
}

// WithLogger sets the logger that receives engine output and progress.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithClock overrides the time source. Tests use it to pin snapshot
// names.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New returns an Engine ready to run backups.
func New(opts ...Option) *Engine {
	e := &Engine{
		bin: DefaultBinary,
		log: slog.Default(),
		now: time.Now,
		run: runCommand,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func runCommand(ctx context.Context, bin string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// BinaryInfo describes a detected rsync binary.
type BinaryInfo struct {
	Path    string
	Version string
}

var versionRegexp = regexp.MustCompile(`rsync\s+version\s+v?(\d+\.\d+(?:\.\d+)?)`)

// Detect resolves bin on PATH and queries its version. Failures wrap
// errors.ErrEngineUnavailable so callers can suggest installing rsync.
func Detect(ctx context.Context, bin string) (BinaryInfo, error) {
	if bin == "" {
		bin = DefaultBinary
	}
	exe, err := exec.LookPath(bin)
	if err != nil {
		return BinaryInfo{}, errors.Wrapf(errors.ErrEngineUnavailable, "%q not found on PATH", bin)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, detectTimeout)
		defer cancel()
	}
	out, err := exec.CommandContext(ctx, exe, "--version").Output()
	if err != nil {
		return BinaryInfo{}, errors.Wrapf(errors.ErrEngineUnavailable, "running %s --version", exe)
	}
	version, err := ExtractVersion(string(out))
	if err != nil {
		return BinaryInfo{}, errors.Wrapf(errors.ErrEngineUnavailable, "unrecognized version output from %s", exe)
	}
	return BinaryInfo{Path: exe, Version: version}, nil
}

// ExtractVersion parses the rsync version out of --version output. It
// is exposed for testing.
func ExtractVersion(output string) (string, error) {
	m := versionRegexp.FindStringSubmatch(output)
	if m == nil {
		return "", errors.New("no rsync version in output")
	}
	return m[1], nil
}
