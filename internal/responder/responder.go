// Package responder serves the bytes of a single file to every HTTP request.
//
// The Responder wraps the go-supervisor httpserver.Runner. It binds nothing
// until Run is called, and its lifecycle (New, Booting, Running, Stopping,
// Stopped) is reported by the underlying runner.
package responder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robbyt/go-supervisor/runnables/httpserver"
	"github.com/robbyt/go-supervisor/supervisor"
)

// DefaultListenAddr binds port 80 on all interfaces.
const DefaultListenAddr = ":80"

var (
	_ supervisor.Runnable  = (*Responder)(nil)
	_ supervisor.Stateable = (*Responder)(nil)
	_ supervisor.Readiness = (*Responder)(nil)
)

// serverImplementation abstracts the go-supervisor httpserver.Runner
type serverImplementation interface {
	Run(ctx context.Context) error
	Stop()
	GetState() string
	IsReady() bool
	GetStateChan(ctx context.Context) <-chan string
}

// Responder serves one file on one listen address.
type Responder struct {
	path       string
	listenAddr string
	timeouts   Timeouts
	logger     *slog.Logger
	server     serverImplementation
}

// New validates path and prepares a Responder for it. No socket is bound until Run.
func New(path string, options ...Option) (*Responder, error) {
	if err := ValidateFile(path); err != nil {
		return nil, err
	}

	r := &Responder{
		path:       path,
		listenAddr: DefaultListenAddr,
		logger:     slog.Default().WithGroup("responder"),
	}

	for _, option := range options {
		option(r)
	}

	if err := r.initializeRunner(); err != nil {
		return nil, fmt.Errorf("failed to initialize HTTP server runner: %w", err)
	}

	return r, nil
}

// initializeRunner creates the underlying httpserver.Runner
func (r *Responder) initializeRunner() error {
	route, err := r.Route()
	if err != nil {
		return fmt.Errorf("failed to create route: %w", err)
	}
	routes := httpserver.Routes{*route}

	configCallback := func() (*httpserver.Config, error) {
		var options []httpserver.ConfigOption
		if r.timeouts.ReadTimeout > 0 {
			options = append(options, httpserver.WithReadTimeout(r.timeouts.ReadTimeout))
		}
		if r.timeouts.WriteTimeout > 0 {
			options = append(options, httpserver.WithWriteTimeout(r.timeouts.WriteTimeout))
		}
		if r.timeouts.IdleTimeout > 0 {
			options = append(options, httpserver.WithIdleTimeout(r.timeouts.IdleTimeout))
		}
		if r.timeouts.DrainTimeout > 0 {
			options = append(options, httpserver.WithDrainTimeout(r.timeouts.DrainTimeout))
		}

		cfg, err := httpserver.NewConfig(r.listenAddr, routes, options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP server config: %w", err)
		}
		return cfg, nil
	}

	runner, err := httpserver.NewRunner(httpserver.WithConfigCallback(configCallback))
	if err != nil {
		return fmt.Errorf("failed to create HTTP server runner: %w", err)
	}

	r.server = runner
	return nil
}

// String returns a unique identifier for this responder
func (r *Responder) String() string {
	return fmt.Sprintf("Responder[%s]", r.listenAddr)
}

// Run binds the listener and serves until ctx is cancelled or Stop is called.
// Cancelling ctx is a clean shutdown, even while the listener is still booting.
func (r *Responder) Run(ctx context.Context) error {
	r.logger.Info("Serving file", "path", r.path, "address", r.listenAddr)
	if err := r.server.Run(ctx); err != nil {
		if ctx.Err() == nil {
			return fmt.Errorf("http server on %s: %w", r.listenAddr, err)
		}
		r.logger.Debug("Interrupted during startup", "address", r.listenAddr, "error", err)
	}
	r.logger.Info("Stopped serving file", "address", r.listenAddr)
	return nil
}

// Stop closes the listener.
func (r *Responder) Stop() {
	r.logger.Debug("Stopping HTTP server", "address", r.listenAddr)
	r.server.Stop()
}

// GetState returns the current state of the server
func (r *Responder) GetState() string {
	if r.server == nil {
		return "unknown"
	}
	return r.server.GetState()
}

// IsReady reports whether the listener has finished booting and is serving
func (r *Responder) IsReady() bool {
	if r.server == nil {
		return false
	}
	return r.server.IsReady()
}

// GetStateChan returns a channel that emits state changes
func (r *Responder) GetStateChan(ctx context.Context) <-chan string {
	if r.server == nil {
		ch := make(chan string)
		go func() {
			<-ctx.Done()
			close(ch)
		}()
		return ch
	}
	return r.server.GetStateChan(ctx)
}

// Path returns the file being served
func (r *Responder) Path() string {
	return r.path
}

// ListenAddr returns the address this responder binds
func (r *Responder) ListenAddr() string {
	return r.listenAddr
}
