package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rlch/jsonls"
)

// loadConfig resolves the config for cmd: an explicit --config path, else the
// nearest config file, else defaults. --log-level overrides the file.
func loadConfig(cmd *cli.Command) (*jsonls.Config, error) {
	var (
		cfg *jsonls.Config
		err error
	)

	if path := cmd.String("config"); path != "" {
		cfg, err = jsonls.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg, err = jsonls.LoadConfig(".")
		if errors.Is(err, jsonls.ErrConfigNotFound) {
			cfg, err = jsonls.DefaultConfig(), nil
		}

		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	if level := cmd.String("log-level"); level != "" {
		cfg.LogLevel = level

		if _, err := cfg.Level(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// newLogger builds a development logger writing to stderr, leaving stdout for
// command output and JSON-RPC.
func newLogger(cfg *jsonls.Config) (*zap.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		level = zapcore.InfoLevel
	}

	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(level)

	return config.Build()
}
