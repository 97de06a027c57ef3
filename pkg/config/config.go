// pkg/config/config.go
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Tunable bounds and defaults
const (
	DefaultGravity         = 0.001
	DefaultHorizon         = 1000
	MinHorizon             = 50
	MaxHorizon             = 10000
	DefaultTimeStep        = 0.02
	DefaultMassCoefficient = 1.0
	DefaultFrameRate       = 60
	DefaultTickRate        = 50
	DefaultScale           = 4.0
	DefaultTrailStride     = 10
)

// ErrUnsupportedFormat is returned for config files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Config describes a scenario: the bodies to create and the tunables of the
// trajectory engine.
type Config struct {
	Physics PhysicsConfig `json:"physics" toml:"physics" yaml:"physics"`
	Loop    LoopConfig    `json:"loop" toml:"loop" yaml:"loop"`
	Display DisplayConfig `json:"display" toml:"display" yaml:"display"`
	Bodies  []BodyConfig  `json:"bodies" toml:"bodies" yaml:"bodies"`
	// Seed drives random colors and velocity jitter. Zero picks a time-based seed.
	Seed int64 `json:"seed" toml:"seed" yaml:"seed"`
}

// PhysicsConfig contains the engine tunables
type PhysicsConfig struct {
	Gravity         float64 `json:"gravity" toml:"gravity" yaml:"gravity"`
	Horizon         int     `json:"horizon" toml:"horizon" yaml:"horizon"`
	TimeStep        float64 `json:"time_step" toml:"time_step" yaml:"time_step"`
	MassCoefficient float64 `json:"mass_coefficient" toml:"mass_coefficient" yaml:"mass_coefficient"`
}

// LoopConfig sets the frame and fixed-step rates in Hz
type LoopConfig struct {
	FrameRate int `json:"frame_rate" toml:"frame_rate" yaml:"frame_rate"`
	TickRate  int `json:"tick_rate" toml:"tick_rate" yaml:"tick_rate"`
}

// DisplayConfig controls the front ends
type DisplayConfig struct {
	// Scale is screen cells (or pixels / 10 in the desktop view) per world unit.
	Scale float64 `json:"scale" toml:"scale" yaml:"scale"`
	// TrailStride draws every n-th trajectory sample.
	TrailStride int `json:"trail_stride" toml:"trail_stride" yaml:"trail_stride"`
}

// BodyConfig contains configuration for a single body
type BodyConfig struct {
	Name     string     `json:"name" toml:"name" yaml:"name"`
	Position [3]float64 `json:"position" toml:"position" yaml:"position"`
	Velocity [3]float64 `json:"velocity" toml:"velocity" yaml:"velocity"`
	Radius   float64    `json:"radius" toml:"radius" yaml:"radius"`
	// Color is a "#rrggbb" hex string. Empty picks a random color.
	Color   string `json:"color,omitempty" toml:"color,omitempty" yaml:"color,omitempty"`
	Settled bool   `json:"settled" toml:"settled" yaml:"settled"`
}

// Format is a config file encoding
type Format int

const (
	FormatJSON Format = iota
	FormatTOML
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatFromPath picks the encoding from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadConfig loads a configuration from a file. Fields missing from the file
// keep their default values, and the result is normalized.
func LoadConfig(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return config, nil
}

// Decode parses config data over the defaults and normalizes the result.
func Decode(data []byte, format Format) (*Config, error) {
	config := DefaultConfig()
	config.Bodies = nil

	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, config)
	case FormatTOML:
		err = toml.Unmarshal(data, config)
	case FormatYAML:
		err = yaml.Unmarshal(data, config)
	default:
		err = fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	config.Normalize()
	return config, nil
}

// Encode renders a configuration in the given format.
func Encode(config *Config, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(config, "", "  ")
	case FormatTOML:
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(config); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(config); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
}

// SaveConfig saves a configuration to a file, choosing the encoding from the
// file extension.
func SaveConfig(config *Config, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	data, err := Encode(config, format)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// DefaultConfig returns the default scenario: two equal bodies at rest,
// one unit either side of the origin.
func DefaultConfig() *Config {
	return &Config{
		Physics: PhysicsConfig{
			Gravity:         DefaultGravity,
			Horizon:         DefaultHorizon,
			TimeStep:        DefaultTimeStep,
			MassCoefficient: DefaultMassCoefficient,
		},
		Loop: LoopConfig{
			FrameRate: DefaultFrameRate,
			TickRate:  DefaultTickRate,
		},
		Display: DisplayConfig{
			Scale:       DefaultScale,
			TrailStride: DefaultTrailStride,
		},
		Bodies: []BodyConfig{
			{
				Name:     "Castor",
				Position: [3]float64{-1, 0, 0},
				Velocity: [3]float64{0, 0, 0.05},
				Radius:   0.5,
				Color:    "#e07a5f",
				Settled:  true,
			},
			{
				Name:     "Pollux",
				Position: [3]float64{1, 0, 0},
				Velocity: [3]float64{0, 0, -0.05},
				Radius:   0.5,
				Color:    "#3d85c6",
				Settled:  true,
			},
		},
	}
}

// Normalize clamps the horizon into [MinHorizon, MaxHorizon] and replaces
// non-positive or non-finite tunables with their defaults.
func (c *Config) Normalize() {
	p := &c.Physics
	if !isFinite(p.Gravity) || p.Gravity < 0 {
		p.Gravity = DefaultGravity
	}
	if p.Horizon < MinHorizon {
		p.Horizon = MinHorizon
	}
	if p.Horizon > MaxHorizon {
		p.Horizon = MaxHorizon
	}
	if !isFinite(p.TimeStep) || p.TimeStep <= 0 {
		p.TimeStep = DefaultTimeStep
	}
	if !isFinite(p.MassCoefficient) || p.MassCoefficient <= 0 {
		p.MassCoefficient = DefaultMassCoefficient
	}

	if c.Loop.FrameRate <= 0 {
		c.Loop.FrameRate = DefaultFrameRate
	}
	if c.Loop.TickRate <= 0 {
		c.Loop.TickRate = DefaultTickRate
	}

	if !isFinite(c.Display.Scale) || c.Display.Scale <= 0 {
		c.Display.Scale = DefaultScale
	}
	if c.Display.TrailStride < 1 {
		c.Display.TrailStride = 1
	}
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() (*Config, error) {
	var out Config
	if err := copier.CopyWithOption(&out, c, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("failed to clone config: %w", err)
	}
	return &out, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
