// Package logging builds the slog handlers used across jsonfixture.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Supported values for the log format flag.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// levelSpec is the parsed form of a log level string.
type levelSpec struct {
	level     slog.Level
	caller    bool
	timestamp bool
}

// parseLevel maps a level name to its slog level. Unknown names fall back to info.
// "trace" is debug with caller and timestamp reporting.
func parseLevel(logLevel string) levelSpec {
	switch strings.ToLower(logLevel) {
	case "trace":
		return levelSpec{level: slog.LevelDebug, caller: true, timestamp: true}
	case "debug":
		return levelSpec{level: slog.LevelDebug, timestamp: true}
	case "warn", "warning":
		return levelSpec{level: slog.LevelWarn}
	case "error":
		return levelSpec{level: slog.LevelError}
	default:
		return levelSpec{level: slog.LevelInfo}
	}
}

// SetupHandlerText configures a charmbracelet text handler with the provided writer and log level
func SetupHandlerText(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stderr
	}
	spec := parseLevel(logLevel)

	return log.NewWithOptions(writer, log.Options{
		ReportTimestamp: spec.timestamp,
		ReportCaller:    spec.caller,
		Level:           log.Level(spec.level),
	})
}

// SetupHandlerJSON configures a JSON slog handler with the provided writer and log level
func SetupHandlerJSON(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stderr
	}
	spec := parseLevel(logLevel)

	return slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level:     spec.level,
		AddSource: spec.caller,
	})
}

// SetupHandler returns a handler for the given format ("text" or "json").
func SetupHandler(logLevel, format string, writer io.Writer) (slog.Handler, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return SetupHandlerText(logLevel, writer), nil
	case FormatJSON:
		return SetupHandlerJSON(logLevel, writer), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// SetupLogger builds a handler and installs it as the slog default.
func SetupLogger(logLevel, format string, writer io.Writer) (*slog.Logger, error) {
	handler, err := SetupHandler(logLevel, format, writer)
	if err != nil {
		return nil, err
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}
