// Command jsonls-lsp is a Language Server Protocol server for JSON documents.
package main

import (
	"context"
	"errors"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rlch/jsonls"
	"github.com/rlch/jsonls/lsp"
)

func main() {
	cfg, cfgErr := jsonls.LoadConfig(".")
	if cfgErr != nil {
		cfg = jsonls.DefaultConfig()
	}

	level, err := cfg.Level()
	if err != nil {
		level = zapcore.InfoLevel
	}

	// Set up logging to stderr (stdout is for LSP communication)
	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(level)

	logger, err := config.Build()
	if err != nil {
		panic(err)
	}

	defer func() {
		_ = logger.Sync()
	}()

	if cfgErr != nil && !errors.Is(cfgErr, jsonls.ErrConfigNotFound) {
		logger.Warn("Ignoring config file", zap.Error(cfgErr))
	}

	logger.Info("Starting jsonls-lsp server")

	err = lsp.Serve(context.Background(), logger, os.Stdin, os.Stdout, lsp.OptionsFromConfig(cfg))
	if err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
