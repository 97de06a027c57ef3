// pkg/body/edit.go
package body

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/opd-ai/go-orrery/pkg/physics"
	"github.com/opd-ai/go-orrery/pkg/validation"
)

// ErrInvalidEdit is returned when an edit carries an unacceptable value.
var ErrInvalidEdit = errors.New("invalid edit")

// Field names an editable body property.
type Field int

const (
	FieldRadius Field = iota
	FieldPosition
	FieldVelocity
	FieldColor
	FieldSelected
	FieldName
)

func (f Field) String() string {
	switch f {
	case FieldRadius:
		return "radius"
	case FieldPosition:
		return "position"
	case FieldVelocity:
		return "initial_velocity"
	case FieldColor:
		return "color"
	case FieldSelected:
		return "selected"
	case FieldName:
		return "name"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// Edit is a single property change for one body.
type Edit struct {
	Field  Field
	Scalar float64
	Vector physics.Vector3
	Color  color.RGBA
	Flag   bool
	Text   string
}

// RadiusEdit sets the radius and with it the mass.
func RadiusEdit(r float64) Edit { return Edit{Field: FieldRadius, Scalar: r} }

// PositionEdit moves the body.
func PositionEdit(p physics.Vector3) Edit { return Edit{Field: FieldPosition, Vector: p} }

// VelocityEdit sets the initial velocity.
func VelocityEdit(v physics.Vector3) Edit { return Edit{Field: FieldVelocity, Vector: v} }

// ColorEdit sets the render color.
func ColorEdit(c color.RGBA) Edit { return Edit{Field: FieldColor, Color: c} }

// SelectEdit selects or deselects the body.
func SelectEdit(selected bool) Edit { return Edit{Field: FieldSelected, Flag: selected} }

// NameEdit renames the body.
func NameEdit(name string) Edit { return Edit{Field: FieldName, Text: name} }

// apply validates the edit and writes it to b.
func (e Edit) apply(b *Body) error {
	var err error
	switch e.Field {
	case FieldRadius:
		if err = validation.ValidateRadius(e.Scalar); err == nil {
			b.radius = e.Scalar
		}
	case FieldPosition:
		if err = validation.ValidatePosition(e.Vector); err == nil {
			b.position = e.Vector
		}
	case FieldVelocity:
		if err = validation.ValidateVelocity(e.Vector); err == nil {
			b.initialVelocity = e.Vector
		}
	case FieldColor:
		b.color = e.Color
	case FieldSelected:
		b.selected = e.Flag
	case FieldName:
		var name string
		if name, err = validation.ValidateBodyName(e.Text); err == nil {
			b.name = name
		}
	default:
		err = fmt.Errorf("unknown field %v", e.Field)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidEdit, e.Field, err)
	}
	return nil
}
