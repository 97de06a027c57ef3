// Package validation checks user-supplied body properties before they reach
// the simulation.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/opd-ai/go-orrery/pkg/physics"
)

// Limits for edited values
const (
	MinRadius      = 0.01
	MaxRadius      = 100.0
	MaxCoordinate  = 1e6
	MaxSpeed       = 1e3
	MaxBodyNameLen = 32
)

// Allow alphanumeric, spaces, hyphens, underscores, and basic punctuation for body names
var validBodyNameChars = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.'()]+$`)

// ValidateRadius checks that a radius is finite and within [MinRadius, MaxRadius].
func ValidateRadius(radius float64) error {
	if math.IsNaN(radius) || math.IsInf(radius, 0) {
		return fmt.Errorf("radius must be finite: %v", radius)
	}
	if radius < MinRadius {
		return fmt.Errorf("radius too small: %v (min %v)", radius, MinRadius)
	}
	if radius > MaxRadius {
		return fmt.Errorf("radius too large: %v (max %v)", radius, MaxRadius)
	}
	return nil
}

// ValidatePosition checks that every coordinate is finite and inside the
// simulated volume.
func ValidatePosition(p physics.Vector3) error {
	if !physics.IsFinite(p) {
		return fmt.Errorf("position must be finite: %v", p)
	}
	for i, c := range p {
		if math.Abs(c) > MaxCoordinate {
			return fmt.Errorf("position component %d out of range: %v (max %v)", i, c, MaxCoordinate)
		}
	}
	return nil
}

// ValidateVelocity checks that a velocity is finite and not faster than MaxSpeed.
func ValidateVelocity(v physics.Vector3) error {
	if !physics.IsFinite(v) {
		return fmt.Errorf("velocity must be finite: %v", v)
	}
	if speed := v.Len(); speed > MaxSpeed {
		return fmt.Errorf("velocity too large: %v (max %v)", speed, MaxSpeed)
	}
	return nil
}

// ValidateBodyName validates and trims a body name. Empty names are allowed
// and mean "unnamed".
func ValidateBodyName(name string) (string, error) {
	if !utf8.ValidString(name) {
		return "", fmt.Errorf("body name contains invalid UTF-8 characters")
	}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", nil
	}

	if len(trimmed) > MaxBodyNameLen {
		return "", fmt.Errorf("body name too long: %d characters (max %d)", len(trimmed), MaxBodyNameLen)
	}

	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("body name contains control characters")
		}
	}

	if !validBodyNameChars.MatchString(trimmed) {
		return "", fmt.Errorf("body name contains invalid characters (only alphanumeric, spaces, hyphens, underscores, and basic punctuation allowed)")
	}

	return trimmed, nil
}
