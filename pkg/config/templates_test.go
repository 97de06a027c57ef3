package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarioTemplates(t *testing.T) {
	keys := ListScenarioTemplates()
	assert.Equal(t, []string{"binary", "empty", "head_on", "sun_and_moons"}, keys)

	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			config, err := GetScenarioTemplate(key)
			require.NoError(t, err)
			assert.Equal(t, DefaultConfig().Physics.Gravity, config.Physics.Gravity)

			name, description, ok := DescribeScenarioTemplate(key)
			assert.True(t, ok)
			assert.NotEmpty(t, name)
			assert.NotEmpty(t, description)

			for _, b := range config.Bodies {
				assert.Greater(t, b.Radius, 0.0, "body %s", b.Name)
			}
		})
	}
}

func TestGetScenarioTemplate_Unknown(t *testing.T) {
	config, err := GetScenarioTemplate("does_not_exist")
	assert.Nil(t, config)
	assert.ErrorIs(t, err, ErrUnknownTemplate)
	assert.ErrorContains(t, err, "sun_and_moons", "lists the available keys")
	_, _, ok := DescribeScenarioTemplate("does_not_exist")
	assert.False(t, ok)
}

func TestGetScenarioTemplate_ReturnsCopy(t *testing.T) {
	first, err := GetScenarioTemplate("sun_and_moons")
	require.NoError(t, err)
	assert.Equal(t, 3000, first.Physics.Horizon)
	assert.Equal(t, 2.0, first.Display.Scale)

	first.Bodies[0].Radius = 99
	first.Bodies[1].Position[0] = 42
	first.Physics.Gravity = 0.5
	first.Bodies = append(first.Bodies[:1], first.Bodies[2:]...)

	second, err := GetScenarioTemplate("sun_and_moons")
	require.NoError(t, err)
	require.Len(t, second.Bodies, 4)
	assert.Equal(t, 1.5, second.Bodies[0].Radius)
	assert.Equal(t, "Io", second.Bodies[1].Name)
	assert.Equal(t, 4.0, second.Bodies[1].Position[0])
	assert.Equal(t, DefaultGravity, second.Physics.Gravity)
}
