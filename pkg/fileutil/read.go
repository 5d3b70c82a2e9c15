package fileutil

import (
	"io"
	"os"

	"github.com/thoreinstein/snapback/internal/errors"
)

// MaxFileSize bounds ReadFileWithLimit (1MB).
const MaxFileSize = 1 << 20

// ErrFileTooLarge indicates a file exceeded MaxFileSize.
var ErrFileTooLarge = errors.Newf("file exceeds maximum size of %d bytes", MaxFileSize)

// ReadFileWithLimit reads path, refusing files larger than
// MaxFileSize. The files read this way are small metadata records,
// like the lock owner file; the bound keeps an unexpected file at the
// same path from tying up memory.
func ReadFileWithLimit(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}
	if len(data) > MaxFileSize {
		return nil, errors.Wrapf(ErrFileTooLarge, "%s", path)
	}
	return data, nil
}
