package render

import (
	"image/color"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/opd-ai/go-orrery/pkg/body"
	"github.com/opd-ai/go-orrery/pkg/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSimScreen(t *testing.T, width, height int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	screen.SetSize(width, height)
	t.Cleanup(screen.Fini)
	return screen
}

func glyphAt(screen tcell.Screen, x, y int) rune {
	r, _, _, _ := screen.GetContent(x, y)
	return r
}

func rowText(screen tcell.Screen, y int) string {
	w, _ := screen.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		sb.WriteRune(glyphAt(screen, x, y))
	}
	return sb.String()
}

func TestNewTerminalRenderer_DefaultsInvalidArguments(t *testing.T) {
	screen := newSimScreen(t, 10, 5)

	tests := []struct {
		name       string
		scale      float64
		stride     int
		wantScale  float64
		wantStride int
	}{
		{"valid", 4, 10, 4, 10},
		{"zero scale", 0, 10, 1, 10},
		{"negative stride", 2, -1, 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewTerminalRenderer(screen, tt.scale, tt.stride)
			assert.Equal(t, tt.wantScale, r.Scale())
			assert.Equal(t, tt.wantStride, r.trailStride)
		})
	}
}

func TestWorldToScreen_ConvertsCoordinates_Correctly(t *testing.T) {
	screen := newSimScreen(t, 40, 21)
	r := NewTerminalRenderer(screen, 2, 1)

	tests := []struct {
		name  string
		pos   physics.Vector3
		wantX int
		wantY int
	}{
		{"origin", physics.Vec3(0, 0, 0), 20, 10},
		{"positive x", physics.Vec3(1, 0, 0), 24, 10},
		{"negative z", physics.Vec3(0, 0, -1), 20, 8},
		{"y is ignored", physics.Vec3(0, 50, 0), 20, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := r.worldToScreen(tt.pos)
			assert.Equal(t, tt.wantX, x)
			assert.Equal(t, tt.wantY, y)
		})
	}

	r.SetCenter(physics.Vec3(1, 0, 0))
	x, y := r.worldToScreen(physics.Vec3(1, 0, 0))
	assert.Equal(t, 20, x)
	assert.Equal(t, 10, y)
}

func TestScreenToWorld_InvertsProjection(t *testing.T) {
	screen := newSimScreen(t, 40, 21)
	r := NewTerminalRenderer(screen, 2, 1)
	r.SetCenter(physics.Vec3(3, 0, -2))

	for _, cell := range [][2]int{{0, 0}, {20, 10}, {39, 19}, {7, 13}} {
		x, y := r.worldToScreen(r.ScreenToWorld(cell[0], cell[1]))
		assert.Equal(t, cell[0], x)
		assert.Equal(t, cell[1], y)
	}
}

func TestTerminalRenderer_DrawsFrame(t *testing.T) {
	screen := newSimScreen(t, 40, 21)
	r := NewTerminalRenderer(screen, 2, 2)

	red := color.RGBA{R: 0xff, A: 0xff}
	plain := body.New(physics.Vec3(0, 0, 0), 0.5, body.WithColor(red), body.WithoutJitter())
	path := []physics.Vector3{
		physics.Vec3(-2, 0, 0),
		physics.Vec3(-1.5, 0, 0),
		physics.Vec3(-1, 0, 0),
	}

	r.Clear()
	r.RenderTrajectory(0, path, red)
	r.RenderBody(0, plain)
	r.RenderMarker(1, body.Marker{Visible: true, Position: physics.Vec3(0, 0, 2)})
	r.SetStatus("Place | idle")
	r.Present()

	assert.Equal(t, TrailGlyph, glyphAt(screen, 12, 10), "sample 0")
	assert.Equal(t, ' ', glyphAt(screen, 14, 10), "sample 1 skipped by stride")
	assert.Equal(t, TrailGlyph, glyphAt(screen, 16, 10), "sample 2")
	assert.Equal(t, BodyGlyph, glyphAt(screen, 20, 10))
	assert.Equal(t, MarkerGlyph, glyphAt(screen, 20, 14))

	_, _, style, _ := screen.GetContent(20, 10)
	fg, _, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(0xff, 0, 0), fg)

	assert.True(t, strings.HasPrefix(rowText(screen, 20), "Place | idle"))
}

func TestTerminalRenderer_SelectedBodyAndCursor(t *testing.T) {
	screen := newSimScreen(t, 20, 11)
	r := NewTerminalRenderer(screen, 1, 1)

	b := body.New(physics.Vec3(2, 0, 0), 0.5, body.WithoutJitter())
	reg := body.NewRegistry(nil)
	i := reg.Register(b)
	require.NoError(t, reg.ApplyEdit(i, body.SelectEdit(true)))

	r.Clear()
	r.RenderBody(i, b)
	r.SetCursor(physics.Vec3(-2, 0, 1), true)
	r.Present()

	assert.Equal(t, SelectedGlyph, glyphAt(screen, 14, 5))
	assert.Equal(t, CursorGlyph, glyphAt(screen, 6, 6))

	r.Clear()
	r.SetCursor(physics.Vec3(-2, 0, 1), false)
	r.Present()
	assert.Equal(t, ' ', glyphAt(screen, 6, 6))
}

func TestTerminalRenderer_ClipsOffscreen(t *testing.T) {
	screen := newSimScreen(t, 10, 5)
	r := NewTerminalRenderer(screen, 1, 1)
	r.SetStatus(strings.Repeat("s", 30))

	assert.NotPanics(t, func() {
		r.Clear()
		r.RenderTrajectory(0, []physics.Vector3{physics.Vec3(1e4, 0, 1e4), physics.Vec3(-1e4, 0, -1e4)}, color.RGBA{})
		r.RenderMarker(0, body.Marker{Position: physics.Vec3(0, 0, 100)})
		r.Present()
	})
	assert.Equal(t, "ssssssssss", rowText(screen, 4))
	for y := 0; y < 4; y++ {
		assert.Equal(t, strings.Repeat(" ", 10), rowText(screen, y))
	}
}
