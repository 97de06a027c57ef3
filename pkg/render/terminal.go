package render

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/opd-ai/go-orrery/pkg/body"
	"github.com/opd-ai/go-orrery/pkg/engine"
	"github.com/opd-ai/go-orrery/pkg/physics"
)

// Glyphs drawn by the terminal renderer.
const (
	TrailGlyph    = '.'
	BodyGlyph     = 'O'
	SelectedGlyph = '@'
	MarkerGlyph   = 'X'
	CursorGlyph   = '+'
)

// cellAspect widens X because terminal cells are about twice as tall as
// they are wide.
const cellAspect = 2.0

var _ engine.Renderer = (*TerminalRenderer)(nil)

// TerminalRenderer draws a top-down X/Z projection of the simulation on a
// tcell screen. The bottom row holds a status line.
type TerminalRenderer struct {
	screen      tcell.Screen
	scale       float64
	trailStride int
	centerPos   physics.Vector3
	status      string
	cursor      physics.Vector3
	showCursor  bool
}

// NewTerminalRenderer creates a renderer on screen. scale is the number of
// rows per world unit; trailStride draws every n-th trajectory sample.
func NewTerminalRenderer(screen tcell.Screen, scale float64, trailStride int) *TerminalRenderer {
	if scale <= 0 {
		scale = 1
	}
	if trailStride < 1 {
		trailStride = 1
	}
	return &TerminalRenderer{
		screen:      screen,
		scale:       scale,
		trailStride: trailStride,
	}
}

// SetCenter sets the world position shown at the middle of the view.
func (r *TerminalRenderer) SetCenter(pos physics.Vector3) {
	r.centerPos = pos
}

// SetScale changes the zoom.
func (r *TerminalRenderer) SetScale(scale float64) {
	if scale > 0 {
		r.scale = scale
	}
}

// Scale returns the number of rows per world unit.
func (r *TerminalRenderer) Scale() float64 {
	return r.scale
}

// SetStatus sets the text of the status line.
func (r *TerminalRenderer) SetStatus(status string) {
	r.status = status
}

// SetCursor shows the placement cursor at pos, or hides it.
func (r *TerminalRenderer) SetCursor(pos physics.Vector3, visible bool) {
	r.cursor = pos
	r.showCursor = visible
}

// viewSize returns the drawable area above the status line.
func (r *TerminalRenderer) viewSize() (int, int) {
	w, h := r.screen.Size()
	if h > 0 {
		h--
	}
	return w, h
}

// worldToScreen projects a world position onto the X/Z plane.
func (r *TerminalRenderer) worldToScreen(pos physics.Vector3) (int, int) {
	w, h := r.viewSize()
	screenX := int(math.Floor((pos.X()-r.centerPos.X())*r.scale*cellAspect)) + w/2
	screenY := int(math.Floor((pos.Z()-r.centerPos.Z())*r.scale)) + h/2
	return screenX, screenY
}

// ScreenToWorld maps a cell back to the world position at its corner on
// the Y=0 plane.
func (r *TerminalRenderer) ScreenToWorld(x, y int) physics.Vector3 {
	w, h := r.viewSize()
	return physics.Vec3(
		float64(x-w/2)/(r.scale*cellAspect)+r.centerPos.X(),
		0,
		float64(y-h/2)/r.scale+r.centerPos.Z(),
	)
}

func (r *TerminalRenderer) put(pos physics.Vector3, glyph rune, style tcell.Style) {
	x, y := r.worldToScreen(pos)
	w, h := r.viewSize()
	if x >= 0 && x < w && y >= 0 && y < h {
		r.screen.SetContent(x, y, glyph, nil, style)
	}
}

func styleFor(c color.RGBA) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

// Clear implements engine.Renderer.
func (r *TerminalRenderer) Clear() {
	r.screen.Clear()
}

// Present implements engine.Renderer. It draws the cursor and status line
// and shows the frame.
func (r *TerminalRenderer) Present() {
	if r.showCursor {
		r.put(r.cursor, CursorGlyph, tcell.StyleDefault.Bold(true))
	}

	w, h := r.screen.Size()
	if h > 0 {
		style := tcell.StyleDefault.Reverse(true)
		col := 0
		for _, ch := range r.status {
			if col >= w {
				break
			}
			r.screen.SetContent(col, h-1, ch, nil, style)
			col++
		}
		for ; col < w; col++ {
			r.screen.SetContent(col, h-1, ' ', nil, style)
		}
	}
	r.screen.Show()
}

// RenderTrajectory implements engine.Renderer.
func (r *TerminalRenderer) RenderTrajectory(_ int, path []physics.Vector3, c color.RGBA) {
	style := styleFor(c).Dim(true)
	for i := 0; i < len(path); i += r.trailStride {
		r.put(path[i], TrailGlyph, style)
	}
}

// RenderBody implements engine.Renderer.
func (r *TerminalRenderer) RenderBody(_ int, b *body.Body) {
	glyph := BodyGlyph
	style := styleFor(b.Color())
	if b.Selected() {
		glyph = SelectedGlyph
		style = style.Bold(true)
	}
	r.put(b.Position(), glyph, style)
}

// RenderMarker implements engine.Renderer.
func (r *TerminalRenderer) RenderMarker(_ int, m body.Marker) {
	r.put(m.Position, MarkerGlyph, tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true))
}
