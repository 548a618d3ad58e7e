// Package main provides the jsonls CLI tool.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

var version = "dev"

func main() {
	err := newApp().Run(context.Background(), os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "jsonls",
		Version: version,
		Usage:   "JSON diagnostics, formatting and language server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to .jsonls.yaml (default: nearest one above the working directory)",
				Sources: cli.EnvVars("JSONLS_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level: debug, info, warn, error (overrides config)",
				Sources: cli.EnvVars("JSONLS_LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			checkCommand(),
			fmtCommand(),
			serveCommand(),
		},
	}
}
