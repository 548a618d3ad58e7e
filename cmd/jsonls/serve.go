package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rlch/jsonls/lsp"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the language server over stdio",
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("Starting jsonls language server", zap.String("version", version))

	return lsp.Serve(ctx, logger, os.Stdin, os.Stdout, lsp.OptionsFromConfig(cfg))
}
