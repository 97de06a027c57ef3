package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/opd-ai/go-orrery/pkg/logging"
	"github.com/stretchr/testify/require"
)

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, SaveConfig(DefaultConfig(), path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 8)
	require.NoError(t, Watch(ctx, path, logging.Discard(), func(c *Config) {
		reloaded <- c
	}))

	updated := DefaultConfig()
	updated.Physics.Gravity = 0.25
	require.NoError(t, SaveConfig(updated, path))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-reloaded:
			if c.Physics.Gravity == 0.25 {
				return
			}
		case <-deadline:
			t.Fatal("config change was not delivered")
		}
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := Watch(context.Background(), "/path/that/does/not/exist/config.json", logging.Discard(), func(*Config) {})
	require.Error(t, err)
}
