// pkg/render/engo/camera_test.go
package engo

import (
	"math"
	"testing"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-orrery/pkg/physics"
)

func newTestCamera(zoom float32) *CameraSystem {
	camera := NewCameraSystem(zoom)
	camera.SetViewport(800, 600)
	return camera
}

func TestNewCameraSystem(t *testing.T) {
	camera := NewCameraSystem(40)

	if camera.Zoom() != 40 {
		t.Errorf("Expected zoom 40, got %f", camera.Zoom())
	}
	if camera.minZoom != 2 {
		t.Errorf("Expected default minZoom 2, got %f", camera.minZoom)
	}
	if camera.maxZoom != 400 {
		t.Errorf("Expected default maxZoom 400, got %f", camera.maxZoom)
	}
	if camera.Center() != (physics.Vector3{}) {
		t.Errorf("Expected camera centered on the origin, got %v", camera.Center())
	}
}

func TestCameraSystem_SetZoom(t *testing.T) {
	tests := []struct {
		name     string
		zoom     float32
		expected float32
	}{
		{"within range", 25, 25},
		{"below minimum", 0.5, 2},
		{"above maximum", 1000, 400},
		{"at minimum", 2, 2},
		{"at maximum", 400, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			camera := NewCameraSystem(40)
			camera.SetZoom(tt.zoom)
			if camera.Zoom() != tt.expected {
				t.Errorf("SetZoom(%f) = %f, want %f", tt.zoom, camera.Zoom(), tt.expected)
			}
		})
	}
}

func TestCameraSystem_WorldToScreen(t *testing.T) {
	camera := newTestCamera(10)

	tests := []struct {
		name     string
		pos      physics.Vector3
		expected engo.Point
	}{
		{"origin at window center", physics.Vec3(0, 0, 0), engo.Point{X: 400, Y: 300}},
		{"positive X to the right", physics.Vec3(5, 0, 0), engo.Point{X: 450, Y: 300}},
		{"positive Z downwards", physics.Vec3(0, 0, 3), engo.Point{X: 400, Y: 330}},
		{"Y is ignored", physics.Vec3(-2, 7, -1), engo.Point{X: 380, Y: 290}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := camera.WorldToScreen(tt.pos)
			if got != tt.expected {
				t.Errorf("WorldToScreen(%v) = %v, want %v", tt.pos, got, tt.expected)
			}
		})
	}
}

func TestCameraSystem_ScreenToWorld(t *testing.T) {
	camera := newTestCamera(20)
	camera.SetCenter(physics.Vec3(3, 0, -2))

	pos := physics.Vec3(4.5, 0, 1.25)
	back := camera.ScreenToWorld(camera.WorldToScreen(pos))
	if !back.ApproxEqualThreshold(pos, 1e-4) {
		t.Errorf("ScreenToWorld(WorldToScreen(%v)) = %v", pos, back)
	}
	if back.Y() != 0 {
		t.Errorf("Expected points on the Y=0 plane, got Y=%f", back.Y())
	}

	center := camera.ScreenToWorld(engo.Point{X: 400, Y: 300})
	if !center.ApproxEqualThreshold(camera.Center(), 1e-6) {
		t.Errorf("Window center maps to %v, want %v", center, camera.Center())
	}
}

func TestCameraSystem_Pan(t *testing.T) {
	camera := newTestCamera(10)
	camera.Pan(50, -20)

	center := camera.Center()
	if math.Abs(center.X()-5) > 1e-6 || math.Abs(center.Z()+2) > 1e-6 {
		t.Errorf("Expected center (5, 0, -2) after panning, got %v", center)
	}

	// The old origin moves left and down on screen.
	got := camera.WorldToScreen(physics.Vec3(0, 0, 0))
	if got.X != 350 || got.Y != 320 {
		t.Errorf("Expected origin at (350, 320), got %v", got)
	}
}

func TestCameraSystem_WorldLength(t *testing.T) {
	camera := newTestCamera(16)
	if got := camera.WorldLength(0.5); got != 8 {
		t.Errorf("WorldLength(0.5) = %f, want 8", got)
	}
}

func TestCameraSystem_Remove(t *testing.T) {
	camera := newTestCamera(10)
	camera.Remove(ecs.NewBasic())
}
