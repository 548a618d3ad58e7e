package jsonls_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/rlch/jsonls"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadConfig_WalksUp(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".jsonls.yaml"), "log_level: debug\nsource: custom\ncompletion:\n  - '\"$schema\"'\n")

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := jsonls.LoadConfig(nested)
	require.NoError(t, err)

	assert.Equal(t, "custom", cfg.Source)
	assert.Equal(t, []string{`"$schema"`}, cfg.Completion)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level)
}

func TestLoadConfigFile_Defaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "jsonls.yml")
	writeFile(t, path, "completion: []\n")

	cfg, err := jsonls.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jsonls", cfg.Source)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigFile_Invalid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	badYAML := filepath.Join(dir, "bad.yaml")
	writeFile(t, badYAML, "source: [unclosed\n")

	_, err := jsonls.LoadConfigFile(badYAML)
	require.Error(t, err)

	badLevel := filepath.Join(dir, "level.yaml")
	writeFile(t, badLevel, "log_level: loud\n")

	_, err = jsonls.LoadConfigFile(badLevel)
	require.ErrorContains(t, err, "log_level")
}

func TestFindConfig_NotFound(t *testing.T) {
	t.Parallel()

	// Walks up to the filesystem root; assumes no config above the temp dir.
	_, err := jsonls.FindConfig(t.TempDir())
	if err != nil {
		require.ErrorIs(t, err, jsonls.ErrConfigNotFound)
	}
}
