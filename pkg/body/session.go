// pkg/body/session.go
package body

import (
	"image/color"
	"math"

	"github.com/opd-ai/go-orrery/pkg/physics"
)

// AimSpeed is the initial speed given by Aim.
const AimSpeed = 0.1

// EditSession edits one body and can roll back to the values it had when the
// session began. The edited body is selected for the length of the session.
type EditSession struct {
	registry *Registry
	index    int

	radius   float64
	position physics.Vector3
	velocity physics.Vector3
	color    color.RGBA
	closed   bool
}

// BeginEdit starts an edit session for the body at index. Every other body
// is deselected.
func (r *Registry) BeginEdit(index int) (*EditSession, error) {
	b := r.At(index)
	if b == nil {
		return nil, ErrUnknownBody
	}
	r.DeselectAll()
	if err := r.ApplyEdit(index, SelectEdit(true)); err != nil {
		return nil, err
	}
	return &EditSession{
		registry: r,
		index:    index,
		radius:   b.radius,
		position: b.position,
		velocity: b.initialVelocity,
		color:    b.color,
	}, nil
}

// Index returns the edited body's index.
func (s *EditSession) Index() int {
	return s.index
}

// SetRadius sets the radius truncated to two decimals, as a slider with a
// 0.01 step would.
func (s *EditSession) SetRadius(radius float64) error {
	return s.registry.ApplyEdit(s.index, RadiusEdit(truncate2(radius)))
}

// Aim points the initial velocity from the body towards target at AimSpeed.
func (s *EditSession) Aim(target physics.Vector3) error {
	b := s.registry.At(s.index)
	dir := physics.Direction(b.position, target)
	return s.registry.ApplyEdit(s.index, VelocityEdit(dir.Mul(AimSpeed)))
}

// Move places the body at target on the X/Z plane, keeping its height, and
// makes that its start position.
func (s *EditSession) Move(target physics.Vector3) error {
	b := s.registry.At(s.index)
	to := physics.Vec3(target.X(), b.position.Y(), target.Z())
	if err := s.registry.ApplyEdit(s.index, PositionEdit(to)); err != nil {
		return err
	}
	if b.settled {
		b.SaveStart()
	}
	return nil
}

// SetColor changes the body's color.
func (s *EditSession) SetColor(c color.RGBA) error {
	return s.registry.ApplyEdit(s.index, ColorEdit(c))
}

// Cancel restores the radius, position, velocity and color the body had when
// the session began and ends the session.
func (s *EditSession) Cancel() error {
	if s.closed {
		return nil
	}
	moved := s.registry.At(s.index).position != s.position
	for _, e := range []Edit{RadiusEdit(s.radius), PositionEdit(s.position), VelocityEdit(s.velocity), ColorEdit(s.color)} {
		if err := s.registry.ApplyEdit(s.index, e); err != nil {
			return err
		}
	}
	if b := s.registry.At(s.index); moved && b.settled {
		b.SaveStart()
	}
	return s.Done()
}

// Done keeps the edits and ends the session.
func (s *EditSession) Done() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.registry.ApplyEdit(s.index, SelectEdit(false))
}

func truncate2(v float64) float64 {
	return math.Floor(v*100+1e-9) / 100
}
