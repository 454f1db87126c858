package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrUnknownFormat = errors.New("unknown log format")
	ErrUnknownOutput = errors.New("unsupported log output")
)

// nopCloser is returned for the standard streams, which must stay open.
func nopCloser() error { return nil }

// OpenOutput resolves the log output flag to a writer.
// Supported values:
//   - "stderr" or "" - os.Stderr
//   - "stdout" - os.Stdout
//   - "file:///path/to/file" or any path containing a separator - appends to that file
//
// The returned close function must be called when logging is finished.
func OpenOutput(output string) (io.Writer, func() error, error) {
	switch {
	case output == "" || output == "stderr":
		return os.Stderr, nopCloser, nil
	case output == "stdout":
		return os.Stdout, nopCloser, nil
	case strings.HasPrefix(output, "file://"):
		return openFile(strings.TrimPrefix(output, "file://"))
	case strings.Contains(output, "://"):
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownOutput, output)
	case strings.ContainsAny(output, `/\`):
		return openFile(output)
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownOutput, output)
	}
}

func openFile(path string) (io.Writer, func() error, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	return file, file.Close, nil
}
