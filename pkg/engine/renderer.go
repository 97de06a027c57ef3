// pkg/engine/renderer.go
package engine

import (
	"image/color"

	"github.com/opd-ai/go-orrery/pkg/body"
	"github.com/opd-ai/go-orrery/pkg/physics"
)

// Renderer draws the simulation. Indices are registry indices.
type Renderer interface {
	RenderTrajectory(index int, path []physics.Vector3, c color.RGBA)
	RenderBody(index int, b *body.Body)
	RenderMarker(index int, m body.Marker)
	Clear()
	Present()
}
