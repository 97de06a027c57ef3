package body

import (
	"image/color"
	"math"
	"testing"

	"github.com/opd-ai/go-orrery/pkg/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditSession_SelectsAndDeselects(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(newTestBody(0))
	reg.Register(newTestBody(3))
	require.NoError(t, reg.ApplyEdit(1, SelectEdit(true)))

	s, err := reg.BeginEdit(0)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Index())
	assert.True(t, reg.At(0).Selected())
	assert.False(t, reg.At(1).Selected())

	require.NoError(t, s.Done())
	assert.False(t, reg.At(0).Selected())
	require.NoError(t, s.Done())
}

func TestEditSession_SetRadiusTruncates(t *testing.T) {
	tests := []struct {
		input, want float64
	}{
		{0.3, 0.3},
		{1.239, 1.23},
		{2.5, 2.5},
		{0.019, 0.01},
	}

	reg := NewRegistry(nil)
	reg.Register(newTestBody(0))
	s, err := reg.BeginEdit(0)
	require.NoError(t, err)

	for _, tt := range tests {
		require.NoError(t, s.SetRadius(tt.input))
		assert.InDelta(t, tt.want, reg.At(0).Radius(), 1e-12, "SetRadius(%v)", tt.input)
	}
}

func TestEditSession_Aim(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(newTestBody(1))
	s, err := reg.BeginEdit(0)
	require.NoError(t, err)

	require.NoError(t, s.Aim(physics.Vec3(1, 0, 5)))
	v := reg.At(0).InitialVelocity()
	assert.True(t, v.ApproxEqual(physics.Vec3(0, 0, AimSpeed)), "velocity %v", v)

	// Aiming at the body itself gives zero velocity rather than NaN.
	require.NoError(t, s.Aim(physics.Vec3(1, 0, 0)))
	assert.Equal(t, physics.Vector3{}, reg.At(0).InitialVelocity())
}

func TestEditSession_CancelRestores(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(newTestBody(0))
	before := *reg.At(0)

	s, err := reg.BeginEdit(0)
	require.NoError(t, err)
	require.NoError(t, s.SetRadius(3))
	require.NoError(t, s.Aim(physics.Vec3(0, 0, -1)))
	require.NoError(t, s.SetColor(color.RGBA{B: 255, A: 255}))

	require.NoError(t, s.Cancel())

	b := reg.At(0)
	assert.Equal(t, before.Radius(), b.Radius())
	assert.Equal(t, before.InitialVelocity(), b.InitialVelocity())
	assert.Equal(t, before.Color(), b.Color())
	assert.False(t, b.Selected())

	// Cancel after close does nothing.
	require.NoError(t, s.Cancel())
}

func TestEditSession_Move(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(New(physics.Vec3(1, 0.5, 2), 1, WithoutJitter(), Settled()))
	reg.AnyChanged()

	s, err := reg.BeginEdit(0)
	require.NoError(t, err)
	reg.AnyChanged()

	require.NoError(t, s.Move(physics.Vec3(-3, 9, 4)))
	b := reg.At(0)
	assert.Equal(t, physics.Vec3(-3, 0.5, 4), b.Position(), "height is kept")
	assert.Equal(t, b.Position(), b.StartPosition())
	assert.True(t, reg.AnyChanged())

	require.NoError(t, s.Cancel())
	assert.Equal(t, physics.Vec3(1, 0.5, 2), b.Position())
	assert.Equal(t, physics.Vec3(1, 0.5, 2), b.StartPosition())
}

func TestEditSession_MoveRejectsInvalidPosition(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(newTestBody(0))
	s, err := reg.BeginEdit(0)
	require.NoError(t, err)

	err = s.Move(physics.Vec3(math.Inf(1), 0, 0))
	assert.ErrorIs(t, err, ErrInvalidEdit)
	assert.Equal(t, physics.Vec3(0, 0, 0), reg.At(0).Position())
}

func TestEditSession_UnknownBody(t *testing.T) {
	_, err := NewRegistry(nil).BeginEdit(0)
	assert.ErrorIs(t, err, ErrUnknownBody)
}
