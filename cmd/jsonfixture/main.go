package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:      "jsonfixture",
		Version:   Version,
		Usage:     "Serve one file as a JSON response to every HTTP request",
		ArgsUsage: "<file-path>",
		Flags:     newServeFlags(),
		Action:    serveAction,
		Commands: []*cli.Command{
			newVersionCmd(),
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
