// pkg/render/engo/camera.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-orrery/pkg/physics"
)

// CameraSystem maps the world X/Z plane onto the window and handles zoom
// and panning. Zoom is in pixels per world unit.
type CameraSystem struct {
	// Viewport size in pixels
	width  float32
	height float32

	zoom    float32
	minZoom float32
	maxZoom float32

	panSpeed float32
	center   physics.Vector3
}

// NewCameraSystem creates a camera with zoom pixels per world unit.
func NewCameraSystem(zoom float32) *CameraSystem {
	cs := &CameraSystem{
		zoom:     zoom,
		minZoom:  2,
		maxZoom:  400,
		panSpeed: 200,
	}
	cs.SetZoom(zoom)
	return cs
}

// Remove satisfies the ecs.System interface
func (cs *CameraSystem) Remove(basic ecs.BasicEntity) {}

// Update reads the zoom and pan buttons and tracks the window size.
func (cs *CameraSystem) Update(dt float32) {
	cs.SetViewport(engo.GameWidth(), engo.GameHeight())

	if scrollY := engo.Input.Mouse.ScrollY; scrollY != 0 {
		cs.SetZoom(cs.zoom * (1 + scrollY*0.1))
	}
	if engo.Input.Button(buttonZoomIn).Down() {
		cs.SetZoom(cs.zoom * 1.02)
	}
	if engo.Input.Button(buttonZoomOut).Down() {
		cs.SetZoom(cs.zoom * 0.98)
	}

	var dx, dz float32
	if engo.Input.Button(buttonPanLeft).Down() {
		dx--
	}
	if engo.Input.Button(buttonPanRight).Down() {
		dx++
	}
	if engo.Input.Button(buttonPanUp).Down() {
		dz--
	}
	if engo.Input.Button(buttonPanDown).Down() {
		dz++
	}
	cs.Pan(dx*cs.panSpeed*dt, dz*cs.panSpeed*dt)
}

// SetViewport sets the window size in pixels.
func (cs *CameraSystem) SetViewport(width, height float32) {
	cs.width, cs.height = width, height
}

// Pan moves the view by a pixel offset.
func (cs *CameraSystem) Pan(dxPixels, dzPixels float32) {
	cs.center[0] += float64(dxPixels / cs.zoom)
	cs.center[2] += float64(dzPixels / cs.zoom)
}

// SetCenter sets the world position at the middle of the window.
func (cs *CameraSystem) SetCenter(center physics.Vector3) {
	cs.center = center
}

// Center returns the world position at the middle of the window.
func (cs *CameraSystem) Center() physics.Vector3 {
	return cs.center
}

// SetZoom sets the zoom, clamped to the zoom limits.
func (cs *CameraSystem) SetZoom(zoom float32) {
	cs.zoom = cs.clampZoom(zoom)
}

// Zoom returns pixels per world unit.
func (cs *CameraSystem) Zoom() float32 {
	return cs.zoom
}

// clampZoom ensures zoom is within valid bounds
func (cs *CameraSystem) clampZoom(zoom float32) float32 {
	if zoom < cs.minZoom {
		return cs.minZoom
	}
	if zoom > cs.maxZoom {
		return cs.maxZoom
	}
	return zoom
}

// WorldToScreen projects a world position onto the window.
func (cs *CameraSystem) WorldToScreen(pos physics.Vector3) engo.Point {
	return engo.Point{
		X: float32(pos.X()-cs.center.X())*cs.zoom + cs.width/2,
		Y: float32(pos.Z()-cs.center.Z())*cs.zoom + cs.height/2,
	}
}

// ScreenToWorld maps a window point to the Y=0 plane.
func (cs *CameraSystem) ScreenToWorld(p engo.Point) physics.Vector3 {
	return physics.Vec3(
		float64((p.X-cs.width/2)/cs.zoom)+cs.center.X(),
		0,
		float64((p.Y-cs.height/2)/cs.zoom)+cs.center.Z(),
	)
}

// WorldLength converts a world distance to pixels.
func (cs *CameraSystem) WorldLength(d float64) float32 {
	return float32(d) * cs.zoom
}
