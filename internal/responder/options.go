package responder

import (
	"log/slog"
	"time"
)

type Option func(*Responder)

// Timeouts holds optional server timeouts. Zero values keep the go-supervisor defaults.
type Timeouts struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	DrainTimeout time.Duration
}

// WithListenAddr sets the TCP address to bind, e.g. ":8080".
func WithListenAddr(addr string) Option {
	return func(r *Responder) {
		if addr != "" {
			r.listenAddr = addr
		}
	}
}

// WithTimeouts sets the HTTP server timeouts.
func WithTimeouts(timeouts Timeouts) Option {
	return func(r *Responder) {
		r.timeouts = timeouts
	}
}

// WithLogHandler sets a custom slog handler for the Responder instance.
func WithLogHandler(handler slog.Handler) Option {
	return func(r *Responder) {
		if handler != nil {
			r.logger = slog.New(handler).WithGroup("responder")
		}
	}
}

// WithLogger sets a logger for the Responder instance.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Responder) {
		if logger != nil {
			r.logger = logger
		}
	}
}
