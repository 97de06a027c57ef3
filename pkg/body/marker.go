// pkg/body/marker.go
package body

import "github.com/opd-ai/go-orrery/pkg/physics"

// Marker is the collision marker paired with a body. One marker exists per
// body for the life of the registry; it is only shown, moved and hidden.
type Marker struct {
	Visible  bool
	Position physics.Vector3
	Scale    float64
}

func (m *Marker) show(position physics.Vector3, scale float64) {
	m.Visible = true
	m.Position = position
	m.Scale = scale
}

func (m *Marker) hide() {
	m.Visible = false
}
