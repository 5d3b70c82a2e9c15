package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/thoreinstein/snapback/internal/exclude"
	"github.com/thoreinstein/snapback/internal/retention"
)

// Validation errors for configuration fields.
var (
	// ErrUnsupportedVersion indicates the version field names a schema
	// this build does not read.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidLockName indicates the lock name would escape the
	// destination directory.
	ErrInvalidLockName = errors.New("invalid lock name")

	// ErrNegativeVerbosity indicates a verbosity below zero, which no
	// flag count can produce.
	ErrNegativeVerbosity = errors.New("negative verbosity")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version != CurrentVersion {
		errs = append(errs, fmt.Errorf("%w: %d", ErrUnsupportedVersion, cfg.Version))
	}

	if cfg.Verbosity < 0 {
		errs = append(errs, &FieldError{
			Field: "verbosity",
			Value: strconv.Itoa(cfg.Verbosity),
			Err:   ErrNegativeVerbosity,
		})
	}

	if cfg.KeepFor != "" {
		if _, err := retention.ParsePolicy(cfg.KeepFor); err != nil {
			errs = append(errs, &FieldError{
				Field: "keep_for",
				Value: cfg.KeepFor,
				Err:   retention.ErrInvalidThreshold,
			})
		}
	}

	if strings.ContainsAny(cfg.LockName, "/\x00") || cfg.LockName == "." || cfg.LockName == ".." {
		errs = append(errs, &FieldError{
			Field: "lock_name",
			Value: cfg.LockName,
			Err:   ErrInvalidLockName,
		})
	}

	for _, pattern := range cfg.Exclude {
		if err := exclude.ValidatePattern(pattern); err != nil {
			errs = append(errs, &FieldError{
				Field: "exclude",
				Value: pattern,
				Err:   exclude.ErrBadPattern,
			})
		}
	}

	return errs
}

// FieldError represents an error for a specific configuration field.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Value
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
