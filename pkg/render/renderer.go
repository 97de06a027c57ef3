// pkg/render/renderer.go
package render

import (
	"context"
	"image/color"

	"github.com/opd-ai/go-orrery/pkg/body"
	"github.com/opd-ai/go-orrery/pkg/engine"
	"github.com/opd-ai/go-orrery/pkg/logging"
	"github.com/opd-ai/go-orrery/pkg/physics"
)

var _ engine.Renderer = (*NullRenderer)(nil)

// NullRenderer is an engine.Renderer that only logs what it is asked to draw.
type NullRenderer struct {
	logger *logging.Logger
	ctx    context.Context
}

// NewNullRenderer creates a NullRenderer. A nil logger logs to stdout at the
// level from ORRERY_LOG_LEVEL.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &NullRenderer{
		logger: logger,
		ctx:    context.Background(),
	}
}

// Clear implements engine.Renderer.
func (d *NullRenderer) Clear() {
	d.logger.Debug(d.ctx, "Clear called")
}

// Present implements engine.Renderer.
func (d *NullRenderer) Present() {
	d.logger.Debug(d.ctx, "Present called")
}

// RenderBody implements engine.Renderer.
func (d *NullRenderer) RenderBody(index int, b *body.Body) {
	if b == nil {
		d.logger.Debug(d.ctx, "RenderBody called with nil body", "index", index)
		return
	}
	d.logger.Debug(d.ctx, "RenderBody called",
		"index", index,
		"name", b.Name(),
		"position", b.Position(),
		"radius", b.Radius(),
		"collided", b.HasCollided(),
	)
}

// RenderTrajectory implements engine.Renderer.
func (d *NullRenderer) RenderTrajectory(index int, path []physics.Vector3, c color.RGBA) {
	if len(path) == 0 {
		d.logger.Debug(d.ctx, "RenderTrajectory called with empty path", "index", index)
		return
	}
	d.logger.Debug(d.ctx, "RenderTrajectory called",
		"index", index,
		"steps", len(path),
		"from", path[0],
		"to", path[len(path)-1],
		"color", body.FormatColor(c),
	)
}

// RenderMarker implements engine.Renderer.
func (d *NullRenderer) RenderMarker(index int, m body.Marker) {
	d.logger.Debug(d.ctx, "RenderMarker called",
		"index", index,
		"position", m.Position,
		"scale", m.Scale,
	)
}
