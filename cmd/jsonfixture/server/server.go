package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atlanticdynamic/jsonfixture/internal/responder"
	"github.com/atlanticdynamic/jsonfixture/internal/watcher"
	"github.com/robbyt/go-supervisor/supervisor"
)

// Options holds everything the server needs beyond the logger.
type Options struct {
	FilePath   string
	ListenAddr string
	Timeouts   responder.Timeouts
	Watch      bool
}

// Runnables builds the list of runnables for opts, validating the served file.
// Nothing is bound until the runnables are run.
func Runnables(logger *slog.Logger, opts Options) ([]supervisor.Runnable, error) {
	logHandler := logger.Handler()

	resp, err := responder.New(
		opts.FilePath,
		responder.WithListenAddr(opts.ListenAddr),
		responder.WithTimeouts(opts.Timeouts),
		responder.WithLogHandler(logHandler),
	)
	if err != nil {
		return nil, err
	}
	runnables := []supervisor.Runnable{resp}

	if opts.Watch {
		w, err := watcher.New(opts.FilePath, watcher.WithLogHandler(logHandler))
		if err != nil {
			return nil, fmt.Errorf("failed to create file watcher: %w", err)
		}
		runnables = append(runnables, w)
	}

	return runnables, nil
}

// Run serves opts.FilePath until ctx is cancelled or the process receives an interrupt.
func Run(ctx context.Context, logger *slog.Logger, opts Options) error {
	runnables, err := Runnables(logger, opts)
	if err != nil {
		return err
	}
	return Supervise(ctx, logger, runnables)
}

// Supervise runs runnables under a supervisor until ctx is cancelled or the
// process receives an interrupt. Runnables must not hold resources before Run,
// since they are not stopped when the supervisor cannot be created.
func Supervise(ctx context.Context, logger *slog.Logger, runnables []supervisor.Runnable) error {
	super, err := supervisor.New(
		supervisor.WithContext(ctx),
		supervisor.WithLogHandler(logger.Handler()),
		supervisor.WithRunnables(runnables...),
	)
	if err != nil {
		return fmt.Errorf("failed to create supervisor: %w", err)
	}
	if err := super.Run(); err != nil {
		return fmt.Errorf("failed to run server: %w", err)
	}

	logger.Info("Server shutdown complete")
	return nil
}
