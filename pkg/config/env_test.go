package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEnvironmentOverrides(t *testing.T) {
	t.Run("no variables set", func(t *testing.T) {
		for _, key := range []string{EnvGravity, EnvHorizon, EnvTimeStep, EnvMassCoefficient} {
			t.Setenv(key, "")
		}
		config := DefaultConfig()
		require.NoError(t, config.ApplyEnvironmentOverrides())
		assert.Equal(t, DefaultConfig(), config)
	})

	t.Run("all variables set", func(t *testing.T) {
		t.Setenv(EnvGravity, "0.5")
		t.Setenv(EnvHorizon, "200")
		t.Setenv(EnvTimeStep, "0.01")
		t.Setenv(EnvMassCoefficient, "3")

		config := DefaultConfig()
		require.NoError(t, config.ApplyEnvironmentOverrides())

		assert.Equal(t, 0.5, config.Physics.Gravity)
		assert.Equal(t, 200, config.Physics.Horizon)
		assert.Equal(t, 0.01, config.Physics.TimeStep)
		assert.Equal(t, 3.0, config.Physics.MassCoefficient)
	})

	t.Run("out of range is clamped by Normalize", func(t *testing.T) {
		t.Setenv(EnvHorizon, "20000")

		config := DefaultConfig()
		require.NoError(t, config.ApplyEnvironmentOverrides())
		assert.Equal(t, 20000, config.Physics.Horizon)

		config.Normalize()
		assert.Equal(t, MaxHorizon, config.Physics.Horizon)
	})

	t.Run("invalid values", func(t *testing.T) {
		tests := map[string]string{
			EnvGravity:         "heavy",
			EnvHorizon:         "1.5",
			EnvTimeStep:        "fast",
			EnvMassCoefficient: "--",
		}
		for key, value := range tests {
			t.Run(key, func(t *testing.T) {
				t.Setenv(key, value)
				err := DefaultConfig().ApplyEnvironmentOverrides()
				require.Error(t, err)
				assert.Contains(t, err.Error(), key)
			})
		}
	})
}
