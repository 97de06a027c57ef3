// pkg/config/templates.go
package config

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownTemplate is returned for a template key that does not exist.
var ErrUnknownTemplate = errors.New("unknown template")

// ScenarioTemplate is a named, ready-made configuration.
type ScenarioTemplate struct {
	Name        string
	Description string
	Config      *Config
}

// scenario builds a template configuration from the defaults, the given
// bodies and an optional tuning step.
func scenario(bodies []BodyConfig, tune func(*Config)) *Config {
	c := DefaultConfig()
	c.Bodies = bodies
	if tune != nil {
		tune(c)
	}
	return c
}

var scenarioTemplates = map[string]ScenarioTemplate{
	"binary": {
		Name:        "Binary",
		Description: "Two equal bodies on opposing velocities",
		Config:      DefaultConfig(),
	},
	"head_on": {
		Name:        "Head On",
		Description: "Two bodies at rest that fall into each other",
		Config: scenario([]BodyConfig{
			{Name: "Left", Position: [3]float64{-1, 0, 0}, Radius: 1, Color: "#d1495b", Settled: true},
			{Name: "Right", Position: [3]float64{1, 0, 0}, Radius: 1, Color: "#00798c", Settled: true},
		}, nil),
	},
	"sun_and_moons": {
		Name:        "Sun And Moons",
		Description: "A heavy central body with three light satellites",
		Config: scenario([]BodyConfig{
			{Name: "Sun", Position: [3]float64{0, 0, 0}, Radius: 1.5, Color: "#f6c453", Settled: true},
			{Name: "Io", Position: [3]float64{4, 0, 0}, Velocity: [3]float64{0, 0, 0.22}, Radius: 0.2, Color: "#e76f51", Settled: true},
			{Name: "Europa", Position: [3]float64{-6, 0, 0}, Velocity: [3]float64{0, 0, -0.18}, Radius: 0.25, Color: "#2a9d8f", Settled: true},
			{Name: "Callisto", Position: [3]float64{0, 0, 9}, Velocity: [3]float64{0.15, 0, 0}, Radius: 0.3, Color: "#8d99ae", Settled: true},
		}, func(c *Config) {
			c.Physics.Horizon = 3000
			c.Display.Scale = 2
		}),
	},
	"empty": {
		Name:        "Empty",
		Description: "No bodies; place them interactively",
		Config:      scenario(nil, nil),
	},
}

// GetScenarioTemplate returns a deep copy of the named template's
// configuration. Callers may mutate the result freely.
func GetScenarioTemplate(key string) (*Config, error) {
	tmpl, ok := scenarioTemplates[key]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownTemplate, key, ListScenarioTemplates())
	}
	return tmpl.Config.Clone()
}

// ListScenarioTemplates returns the template keys in sorted order.
func ListScenarioTemplates() []string {
	keys := make([]string, 0, len(scenarioTemplates))
	for k := range scenarioTemplates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DescribeScenarioTemplate returns the display name and description of a template.
func DescribeScenarioTemplate(key string) (name, description string, ok bool) {
	tmpl, ok := scenarioTemplates[key]
	return tmpl.Name, tmpl.Description, ok
}
