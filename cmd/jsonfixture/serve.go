package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/atlanticdynamic/jsonfixture/cmd/jsonfixture/server"
	"github.com/atlanticdynamic/jsonfixture/internal/logging"
	"github.com/atlanticdynamic/jsonfixture/internal/responder"
	"github.com/urfave/cli/v3"
)

// Messages printed for startup failures.
const (
	msgNoFile      = "Specify file to serve"
	msgInvalidFile = "Invalid file"
)

// newServeFlags returns a fresh flag set for each root command.
func newServeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "listen",
			Usage:   "Address to bind the HTTP listener (host:port)",
			Aliases: []string{"l"},
			Value:   responder.DefaultListenAddr,
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: trace, debug, info, warn, error",
			Value: "info",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: text or json",
			Value: logging.FormatText,
		},
		&cli.StringFlag{
			Name:  "log-output",
			Usage: "Log destination: stderr, stdout, or a file path",
			Value: "stderr",
		},
		&cli.BoolFlag{
			Name:    "watch",
			Usage:   "Log when the served file changes on disk",
			Aliases: []string{"w"},
		},
		&cli.DurationFlag{
			Name:  "read-timeout",
			Usage: "HTTP read timeout (0 keeps the server default)",
		},
		&cli.DurationFlag{
			Name:  "write-timeout",
			Usage: "HTTP write timeout (0 keeps the server default)",
		},
		&cli.DurationFlag{
			Name:  "idle-timeout",
			Usage: "HTTP idle timeout (0 keeps the server default)",
		},
		&cli.DurationFlag{
			Name:  "drain-timeout",
			Usage: "Time allowed for in-flight requests on shutdown (0 keeps the server default)",
		},
	}
}

// resolveFile picks the file argument and validates it, mapping failures to the CLI messages.
func resolveFile(args []string) (string, error) {
	if len(args) < 1 {
		return "", cli.Exit(msgNoFile, 1)
	}

	path := args[0]
	if err := responder.ValidateFile(path); err != nil {
		if errors.Is(err, responder.ErrNoFile) {
			return "", cli.Exit(msgNoFile, 1)
		}
		return "", cli.Exit(msgInvalidFile, 1)
	}
	return path, nil
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	path, err := resolveFile(cmd.Args().Slice())
	if err != nil {
		return err
	}

	output, closeOutput, err := logging.OpenOutput(cmd.String("log-output"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer func() { _ = closeOutput() }()

	logger, err := logging.SetupLogger(cmd.String("log-level"), cmd.String("log-format"), output)
	if err != nil {
		return cli.Exit(err, 1)
	}

	opts := server.Options{
		FilePath:   path,
		ListenAddr: cmd.String("listen"),
		Watch:      cmd.Bool("watch"),
		Timeouts: responder.Timeouts{
			ReadTimeout:  cmd.Duration("read-timeout"),
			WriteTimeout: cmd.Duration("write-timeout"),
			IdleTimeout:  cmd.Duration("idle-timeout"),
			DrainTimeout: cmd.Duration("drain-timeout"),
		},
	}

	if err := server.Run(ctx, logger, opts); err != nil {
		return cli.Exit(fmt.Errorf("server failed: %w", err), 1)
	}
	return nil
}
