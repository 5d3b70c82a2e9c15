// Package fileutil provides filesystem helpers shared across snapback:
// atomic file replacement and bounded reads.
package fileutil

import (
	"encoding/json"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/snapback/internal/errors"
)

// AtomicWriteFile replaces the file at path with data. The write goes
// through a temp file in the same directory followed by a rename, so
// an interrupted write never leaves a half-written file at path.
// The parent directory must exist.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapback-*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}
	// CreateTemp opens 0600 regardless of umask; apply the requested
	// mode before the file becomes visible at path.
	if err = tmp.Chmod(perm); err != nil {
		tmp.Close()
		return errors.Wrap(err, "setting permissions")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, "replacing target file")
	}
	return nil
}

// AtomicWriteJSON writes v to path as indented JSON with a trailing
// newline, atomically, mode 0600. Lock owner records go through here.
func AtomicWriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling JSON")
	}
	return AtomicWriteFile(path, append(data, '\n'), 0o600)
}

// AtomicWriteYAML writes v to path as YAML, atomically, mode 0600.
// The config file goes through here.
func AtomicWriteYAML(path string, v any) (err error) {
	// yaml.Marshal panics on unmarshalable values.
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("marshaling YAML: %v", r)
		}
	}()

	data, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshaling YAML")
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return AtomicWriteFile(path, data, 0o600)
}
