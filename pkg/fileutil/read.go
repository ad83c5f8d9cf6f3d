package fileutil

import (
	"io"
	"os"

	"github.com/thoreinstein/pyscout/internal/errors"
)

// MaxFileSize is the conventional limit for marker and metadata files
// (1MB). They are tiny; anything bigger is not what we think it is.
const MaxFileSize int64 = 1024 * 1024

// ErrFileTooLarge indicates that a file exceeded the read limit.
var ErrFileTooLarge = errors.New("file exceeds size limit")

// ReadFileWithLimit reads a file up to limit bytes.
// It returns ErrFileTooLarge if the file is larger than the limit.
func ReadFileWithLimit(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	// Fail fast if the size is already known to be too large.
	if info, err := f.Stat(); err == nil && info.Size() > limit {
		return nil, ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	if int64(len(data)) > limit {
		return nil, ErrFileTooLarge
	}

	return data, nil
}
