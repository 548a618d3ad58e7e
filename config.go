package jsonls

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config represents the .jsonls.yaml configuration file.
type Config struct {
	// Log level for the server and CLI (debug, info, warn, error).
	LogLevel string `yaml:"log_level,omitempty"`

	// Source label attached to every published diagnostic.
	Source string `yaml:"source,omitempty"`

	// Extra completion snippets offered next to the JSON keywords.
	Completion []string `yaml:"completion,omitempty"`
}

// DefaultConfigNames are the filenames we search for.
var DefaultConfigNames = []string{".jsonls.yaml", ".jsonls.yml", "jsonls.yaml", "jsonls.yml"}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	return &Config{LogLevel: "info", Source: "jsonls"}
}

// LoadConfig finds and loads the nearest .jsonls.yaml walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path. Fields missing from the
// file keep their DefaultConfig values.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if _, err := cfg.Level(); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return cfg, nil
}

// Level parses LogLevel. An empty level means info.
func (c *Config) Level() (zapcore.Level, error) {
	if c.LogLevel == "" {
		return zapcore.InfoLevel, nil
	}

	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("log_level: %w", err)
	}

	return level, nil
}
