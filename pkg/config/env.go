// pkg/config/env.go
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables that override physics tunables
const (
	EnvGravity         = "ORRERY_GRAVITY"
	EnvHorizon         = "ORRERY_HORIZON"
	EnvTimeStep        = "ORRERY_TIME_STEP"
	EnvMassCoefficient = "ORRERY_MASS_COEFFICIENT"
)

// ApplyEnvironmentOverrides replaces physics tunables with any values set in
// the environment. Unset variables leave the config untouched. The config is
// not normalized here; call Normalize afterwards.
func (c *Config) ApplyEnvironmentOverrides() error {
	if err := floatFromEnv(EnvGravity, &c.Physics.Gravity); err != nil {
		return err
	}
	if err := intFromEnv(EnvHorizon, &c.Physics.Horizon); err != nil {
		return err
	}
	if err := floatFromEnv(EnvTimeStep, &c.Physics.TimeStep); err != nil {
		return err
	}
	if err := floatFromEnv(EnvMassCoefficient, &c.Physics.MassCoefficient); err != nil {
		return err
	}
	return nil
}

func floatFromEnv(key string, dst *float64) error {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	*dst = f
	return nil
}

func intFromEnv(key string, dst *int) error {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	*dst = i
	return nil
}
