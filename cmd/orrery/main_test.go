package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-orrery/pkg/config"
	"github.com/opd-ai/go-orrery/pkg/logging"
)

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath, templateName, logLevel = defaultConfigPath, "", "ERROR"
	forceInit = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLoadConfig(t *testing.T) {
	ctx := context.Background()
	logger := logging.Discard()
	dir := t.TempDir()

	t.Run("missing file uses defaults", func(t *testing.T) {
		cfg, err := loadConfig(ctx, logger, filepath.Join(dir, "missing.json"), "")
		require.NoError(t, err)
		assert.Equal(t, config.DefaultConfig().Bodies, cfg.Bodies)
	})

	t.Run("template", func(t *testing.T) {
		cfg, err := loadConfig(ctx, logger, "ignored.json", "sun_and_moons")
		require.NoError(t, err)
		assert.Len(t, cfg.Bodies, 4)
	})

	t.Run("template overrides stay local", func(t *testing.T) {
		t.Setenv(config.EnvGravity, "0.25")
		cfg, err := loadConfig(ctx, logger, "ignored.json", "head_on")
		require.NoError(t, err)
		assert.Equal(t, 0.25, cfg.Physics.Gravity)
		cfg.Bodies[0].Name = "Moved"

		fresh, err := config.GetScenarioTemplate("head_on")
		require.NoError(t, err)
		assert.Equal(t, config.DefaultGravity, fresh.Physics.Gravity)
		assert.Equal(t, "Left", fresh.Bodies[0].Name)
	})

	t.Run("unknown template", func(t *testing.T) {
		_, err := loadConfig(ctx, logger, "ignored.json", "nope")
		assert.ErrorContains(t, err, `unknown template "nope"`)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv(config.EnvGravity, "0.25")
		t.Setenv(config.EnvHorizon, "20")
		cfg, err := loadConfig(ctx, logger, filepath.Join(dir, "missing.json"), "")
		require.NoError(t, err)
		assert.Equal(t, 0.25, cfg.Physics.Gravity)
		assert.Equal(t, config.MinHorizon, cfg.Physics.Horizon, "clamped after overrides")
	})

	t.Run("invalid environment", func(t *testing.T) {
		t.Setenv(config.EnvTimeStep, "fast")
		_, err := loadConfig(ctx, logger, filepath.Join(dir, "missing.json"), "")
		assert.ErrorContains(t, err, config.EnvTimeStep)
	})

	t.Run("unreadable file", func(t *testing.T) {
		path := filepath.Join(dir, "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("physics: [unterminated"), 0o644))
		_, err := loadConfig(ctx, logger, path, "")
		assert.ErrorContains(t, err, path)
	})
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.toml")

	out, err := execute(t, "init", "--config", path, "--template", "head_on")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Bodies, 2)
	assert.Equal(t, "Left", cfg.Bodies[0].Name)

	_, err = execute(t, "init", "--config", path)
	assert.ErrorContains(t, err, "already exists")

	_, err = execute(t, "init", "--config", path, "--force")
	require.NoError(t, err)
	cfg, err = config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Castor", cfg.Bodies[0].Name)
}

func TestTemplatesCommand(t *testing.T) {
	out, err := execute(t, "templates")
	require.NoError(t, err)
	for _, key := range config.ListScenarioTemplates() {
		assert.Contains(t, out, key)
	}
}

func TestPreviewCommand(t *testing.T) {
	out, err := execute(t, "preview", "--template", "head_on", "--width", "60")
	require.NoError(t, err)
	assert.Contains(t, out, "TRAJECTORY PREVIEW")
	assert.Contains(t, out, "Left")
	assert.Contains(t, out, "Right")
	assert.Contains(t, out, "contact at step")
}
