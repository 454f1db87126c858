package responder

import (
	"errors"
	"fmt"
	"os"
)

// Sentinel errors for file validation.
var (
	ErrNoFile      = errors.New("no file specified")
	ErrInvalidFile = errors.New("invalid file")
)

// ValidateFile checks that path names an existing regular file.
// The returned error wraps ErrNoFile or ErrInvalidFile.
func ValidateFile(path string) error {
	if path == "" {
		return ErrNoFile
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrInvalidFile, path)
	}

	return nil
}
