// pkg/render/engo/renderer.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-orrery/pkg/body"
	"github.com/opd-ai/go-orrery/pkg/engine"
	"github.com/opd-ai/go-orrery/pkg/physics"
)

// Z layers
const (
	trailZ  = 1
	bodyZ   = 2
	markerZ = 3
	cursorZ = 4
	hudZ    = 10
)

// markerColor tints collision markers.
var markerColor = color.RGBA{R: 255, G: 64, B: 64, A: 255}

// sprite is one engo entity drawn by the render system.
type sprite struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// spriteAdder is the part of common.RenderSystem the renderer uses.
type spriteAdder interface {
	Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent)
}

var _ engine.Renderer = (*EngoRenderer)(nil)

// EngoRenderer implements engine.Renderer with pooled engo entities. Body
// and marker sprites are keyed by registry index; trajectory dots are
// reused across frames and hidden when not needed.
type EngoRenderer struct {
	renderSystem spriteAdder
	camera       *CameraSystem
	assets       *AssetManager
	trailStride  int

	bodies  []*sprite
	markers []*sprite
	dots    []*sprite
	// usedDots counts the dots drawn this frame.
	usedDots   int
	drawnFrame []bool

	cursor     *sprite
	cursorPos  physics.Vector3
	showCursor bool
}

// NewEngoRenderer creates a renderer adding sprites to renderSystem.
func NewEngoRenderer(renderSystem spriteAdder, camera *CameraSystem, assets *AssetManager, trailStride int) *EngoRenderer {
	if trailStride < 1 {
		trailStride = 1
	}
	return &EngoRenderer{
		renderSystem: renderSystem,
		camera:       camera,
		assets:       assets,
		trailStride:  trailStride,
	}
}

func (r *EngoRenderer) newSprite(name string, size float32, z float32) *sprite {
	s := &sprite{BasicEntity: ecs.NewBasic()}
	s.RenderComponent = common.RenderComponent{
		Drawable: r.assets.Sprite(name),
		Color:    color.White,
		Hidden:   true,
	}
	s.RenderComponent.SetZIndex(z)
	s.SpaceComponent = common.SpaceComponent{Width: size, Height: size}
	r.renderSystem.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	return s
}

// place centers s on pos with the given on-screen diameter.
func (r *EngoRenderer) place(s *sprite, pos physics.Vector3, diameter, textureSize float32) {
	center := r.camera.WorldToScreen(pos)
	scale := diameter / textureSize
	s.RenderComponent.Scale = engo.Point{X: scale, Y: scale}
	s.SpaceComponent.Width = diameter
	s.SpaceComponent.Height = diameter
	s.SpaceComponent.Position = engo.Point{X: center.X - diameter/2, Y: center.Y - diameter/2}
	s.RenderComponent.Hidden = false
}

func grow(pool []*sprite, n int, newSprite func() *sprite) []*sprite {
	for len(pool) < n {
		pool = append(pool, newSprite())
	}
	return pool
}

// Clear implements engine.Renderer.
func (r *EngoRenderer) Clear() {
	r.usedDots = 0
	for i := range r.drawnFrame {
		r.drawnFrame[i] = false
	}
	for _, m := range r.markers {
		m.RenderComponent.Hidden = true
	}
}

// SetCursor sets the placement cursor drawn by Present.
func (r *EngoRenderer) SetCursor(pos physics.Vector3, visible bool) {
	r.cursorPos, r.showCursor = pos, visible
}

// Present implements engine.Renderer. Sprites not drawn this frame are
// hidden.
func (r *EngoRenderer) Present() {
	if r.showCursor && r.cursor == nil {
		r.cursor = r.newSprite(SpriteCursor, CursorSpriteSize, cursorZ)
	}
	if r.cursor != nil {
		r.place(r.cursor, r.cursorPos, CursorSpriteSize*2, CursorSpriteSize)
		r.cursor.RenderComponent.Hidden = !r.showCursor
	}
	for _, d := range r.dots[r.usedDots:] {
		d.RenderComponent.Hidden = true
	}
	for i, b := range r.bodies {
		if i >= len(r.drawnFrame) || !r.drawnFrame[i] {
			b.RenderComponent.Hidden = true
		}
	}
}

// RenderTrajectory implements engine.Renderer.
func (r *EngoRenderer) RenderTrajectory(_ int, path []physics.Vector3, c color.RGBA) {
	dim := color.RGBA{R: c.R, G: c.G, B: c.B, A: 160}
	for i := 0; i < len(path); i += r.trailStride {
		r.dots = grow(r.dots, r.usedDots+1, func() *sprite {
			return r.newSprite(SpriteTrail, TrailSpriteSize, trailZ)
		})
		d := r.dots[r.usedDots]
		r.usedDots++
		r.place(d, path[i], TrailSpriteSize, TrailSpriteSize)
		d.RenderComponent.Color = dim
	}
}

// RenderBody implements engine.Renderer.
func (r *EngoRenderer) RenderBody(index int, b *body.Body) {
	r.bodies = grow(r.bodies, index+1, func() *sprite {
		return r.newSprite(SpriteBody, BodySpriteSize, bodyZ)
	})
	for len(r.drawnFrame) <= index {
		r.drawnFrame = append(r.drawnFrame, false)
	}
	r.drawnFrame[index] = true

	s := r.bodies[index]
	diameter := r.camera.WorldLength(2 * b.Radius())
	if diameter < 2 {
		diameter = 2
	}
	r.place(s, b.Position(), diameter, BodySpriteSize)
	s.RenderComponent.Color = BodyTint(b)
}

// RenderMarker implements engine.Renderer.
func (r *EngoRenderer) RenderMarker(index int, m body.Marker) {
	r.markers = grow(r.markers, index+1, func() *sprite {
		return r.newSprite(SpriteMarker, MarkerSpriteSize, markerZ)
	})
	s := r.markers[index]
	size := r.camera.WorldLength(2 * m.Scale)
	if size < MarkerSpriteSize {
		size = MarkerSpriteSize
	}
	r.place(s, m.Position, size, MarkerSpriteSize)
	s.RenderComponent.Color = markerColor
}

// BodyTint is the color a body is drawn with: its own color, brightened
// while selected and greyed out once it has collided.
func BodyTint(b *body.Body) color.RGBA {
	c := b.Color()
	switch {
	case b.HasCollided():
		grey := uint8((uint16(c.R) + uint16(c.G) + uint16(c.B)) / 3)
		return color.RGBA{R: grey, G: grey, B: grey, A: 255}
	case b.Selected():
		return color.RGBA{R: brighten(c.R), G: brighten(c.G), B: brighten(c.B), A: 255}
	}
	c.A = 255
	return c
}

func brighten(v uint8) uint8 {
	return uint8(uint16(v) + (255-uint16(v))/2)
}
