// pkg/engine/controls.go
package engine

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/opd-ai/go-orrery/pkg/body"
	"github.com/opd-ai/go-orrery/pkg/physics"
	"github.com/opd-ai/go-orrery/pkg/validation"
)

// ErrNoSelection is returned by edit actions when no body is selected.
var ErrNoSelection = errors.New("no body selected")

// Action is a front-end independent user command.
type Action int

const (
	ActionNone Action = iota
	// ActionPlace places a body at the cursor.
	ActionPlace
	// ActionSelect selects the body nearest the cursor.
	ActionSelect
	// ActionSelectNext selects the body after the current one.
	ActionSelectNext
	// ActionGrow and ActionShrink change the selected body's radius, or the
	// placement radius in ModePlace.
	ActionGrow
	ActionShrink
	// The aim actions point the selected body's velocity along -Z, +Z, -X,
	// +X or towards the cursor.
	ActionAimUp
	ActionAimDown
	ActionAimLeft
	ActionAimRight
	ActionAimCursor
	ActionRandomColor
	// ActionGrab picks up the selected body so that it follows the cursor,
	// or drops it when already held.
	ActionGrab
	// ActionCancel rolls back the open edit session.
	ActionCancel
	ActionNextMode
	ActionStart
	ActionReset
)

var actionNames = map[Action]string{
	ActionNone:        "none",
	ActionPlace:       "place",
	ActionSelect:      "select",
	ActionSelectNext:  "select-next",
	ActionGrow:        "grow",
	ActionShrink:      "shrink",
	ActionAimUp:       "aim-up",
	ActionAimDown:     "aim-down",
	ActionAimLeft:     "aim-left",
	ActionAimRight:    "aim-right",
	ActionAimCursor:   "aim-cursor",
	ActionRandomColor: "random-color",
	ActionGrab:        "grab",
	ActionCancel:      "cancel",
	ActionNextMode:    "next-mode",
	ActionStart:       "start",
	ActionReset:       "reset",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// Controls defaults
const (
	DefaultPlaceRadius = 0.5
	RadiusStep         = 0.05
	CursorStep         = 0.25
)

// Controls turns actions from a front end into Simulation operations. It
// holds the placement cursor and radius shared by every front end.
type Controls struct {
	Cursor   physics.Vector3
	Radius   float64
	rng      *rand.Rand
	grabbing bool
}

// NewControls creates controls with the cursor at the origin.
func NewControls(rng *rand.Rand) *Controls {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Controls{Radius: DefaultPlaceRadius, rng: rng}
}

// MoveCursor moves the cursor by whole steps on the X/Z plane.
func (c *Controls) MoveCursor(dx, dz int) {
	c.Cursor[0] += float64(dx) * CursorStep
	c.Cursor[2] += float64(dz) * CursorStep
}

// Grabbing reports whether a body is held.
func (c *Controls) Grabbing() bool {
	return c.grabbing
}

// Drag moves the held body to the cursor. It does nothing when no body is
// held, and lets go when the edit session has closed.
func (c *Controls) Drag(sim *Simulation) error {
	if !c.grabbing {
		return nil
	}
	s := sim.Session()
	if s == nil || sim.Running() {
		c.grabbing = false
		return nil
	}
	p := sim.Registry.At(s.Index()).Position()
	if p.X() == c.Cursor.X() && p.Z() == c.Cursor.Z() {
		return nil
	}
	return s.Move(c.Cursor)
}

// Apply runs action against sim and returns a short message for a status
// line.
func (c *Controls) Apply(sim *Simulation, action Action) (string, error) {
	switch action {
	case ActionSelect, ActionSelectNext, ActionCancel, ActionNextMode, ActionReset:
		c.grabbing = false
	}

	switch action {
	case ActionNone:
		return "", nil
	case ActionPlace:
		i, err := sim.PlaceBody(c.Cursor, c.Radius)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("placed %s", sim.Registry.At(i).Name()), nil
	case ActionSelect:
		i := nearest(sim, c.Cursor)
		if i < 0 {
			return "", ErrNoSelection
		}
		return c.selectBody(sim, i)
	case ActionSelectNext:
		n := sim.Registry.Len()
		if n == 0 {
			return "", ErrNoSelection
		}
		next := 0
		if s := sim.Session(); s != nil {
			next = (s.Index() + 1) % n
		}
		return c.selectBody(sim, next)
	case ActionGrow, ActionShrink:
		return c.resize(sim, action == ActionGrow)
	case ActionAimUp, ActionAimDown, ActionAimLeft, ActionAimRight, ActionAimCursor:
		return c.aim(sim, action)
	case ActionRandomColor:
		s, err := c.session(sim)
		if err != nil {
			return "", err
		}
		col := body.RandomColor(c.rng)
		if err := s.SetColor(col); err != nil {
			return "", err
		}
		return "color " + body.FormatColor(col), nil
	case ActionGrab:
		s, err := c.session(sim)
		if err != nil {
			return "", err
		}
		name := sim.Registry.At(s.Index()).Name()
		if c.grabbing {
			c.grabbing = false
			return "released " + name, nil
		}
		c.grabbing = true
		if err := c.Drag(sim); err != nil {
			c.grabbing = false
			return "", err
		}
		return "grabbed " + name, nil
	case ActionCancel:
		if sim.Session() == nil {
			return "", nil
		}
		if err := sim.CancelEdit(); err != nil {
			return "", err
		}
		return "edit cancelled", nil
	case ActionNextMode:
		mode, err := sim.NextMode()
		if err != nil {
			return "", err
		}
		return "mode " + mode.String(), nil
	case ActionStart:
		if err := sim.StartSimulation(); err != nil {
			return "", err
		}
		return "simulation started", nil
	case ActionReset:
		sim.Reset()
		return "simulation reset", nil
	default:
		return "", fmt.Errorf("unknown action %d", int(action))
	}
}

func (c *Controls) selectBody(sim *Simulation, i int) (string, error) {
	if _, err := sim.Select(i); err != nil {
		return "", err
	}
	return fmt.Sprintf("selected %s", sim.Registry.At(i).Name()), nil
}

func (c *Controls) session(sim *Simulation) (*body.EditSession, error) {
	if sim.Running() {
		return nil, ErrSimulationRunning
	}
	s := sim.Session()
	if s == nil {
		return nil, ErrNoSelection
	}
	return s, nil
}

func (c *Controls) resize(sim *Simulation, grow bool) (string, error) {
	step := RadiusStep
	if !grow {
		step = -step
	}

	if sim.Modes.Mode() == ModePlace {
		c.Radius = math.Max(validation.MinRadius, math.Min(validation.MaxRadius, c.Radius+step))
		return fmt.Sprintf("placement radius %.2f", c.Radius), nil
	}

	s, err := c.session(sim)
	if err != nil {
		return "", err
	}
	b := sim.Registry.At(s.Index())
	if err := s.SetRadius(b.Radius() + step); err != nil {
		return "", err
	}
	return fmt.Sprintf("radius %.2f", b.Radius()), nil
}

func (c *Controls) aim(sim *Simulation, action Action) (string, error) {
	s, err := c.session(sim)
	if err != nil {
		return "", err
	}
	b := sim.Registry.At(s.Index())
	target := c.Cursor
	switch action {
	case ActionAimUp:
		target = b.Position().Add(physics.Vec3(0, 0, -1))
	case ActionAimDown:
		target = b.Position().Add(physics.Vec3(0, 0, 1))
	case ActionAimLeft:
		target = b.Position().Add(physics.Vec3(-1, 0, 0))
	case ActionAimRight:
		target = b.Position().Add(physics.Vec3(1, 0, 0))
	}
	if err := s.Aim(target); err != nil {
		return "", err
	}
	v := b.InitialVelocity()
	return fmt.Sprintf("velocity (%.2f, %.2f, %.2f)", v.X(), v.Y(), v.Z()), nil
}

// Hovered returns the index of the body whose disc on the X/Z plane
// contains the cursor, or -1.
func (c *Controls) Hovered(sim *Simulation) int {
	cursor := physics.Sphere{Center: physics.Vec3(c.Cursor.X(), 0, c.Cursor.Z())}
	for i, b := range sim.Registry.Bodies() {
		p := b.Position()
		disc := physics.Sphere{Center: physics.Vec3(p.X(), 0, p.Z()), Radius: b.Radius()}
		if disc.Collides(cursor) {
			return i
		}
	}
	return -1
}

// nearest returns the index of the body closest to pos on the X/Z plane,
// or -1 when there are no bodies.
func nearest(sim *Simulation, pos physics.Vector3) int {
	best, at := math.Inf(1), -1
	for i, b := range sim.Registry.Bodies() {
		p := b.Position()
		dx, dz := p.X()-pos.X(), p.Z()-pos.Z()
		if d := dx*dx + dz*dz; d < best {
			best, at = d, i
		}
	}
	return at
}
