package render

import (
	"context"
	"image/color"
	"math"
	"testing"

	"github.com/opd-ai/go-orrery/pkg/body"
	"github.com/opd-ai/go-orrery/pkg/engine"
	"github.com/opd-ai/go-orrery/pkg/logging"
	"github.com/opd-ai/go-orrery/pkg/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinSeparation(t *testing.T) {
	tests := []struct {
		name  string
		paths [][]physics.Vector3
		want  []float64
	}{
		{"no paths", nil, nil},
		{"single path", [][]physics.Vector3{{physics.Vec3(0, 0, 0), physics.Vec3(1, 0, 0)}}, nil},
		{
			"two paths",
			[][]physics.Vector3{
				{physics.Vec3(-2, 0, 0), physics.Vec3(-1, 0, 0)},
				{physics.Vec3(2, 0, 0), physics.Vec3(1, 0, 0)},
			},
			[]float64{4, 2},
		},
		{
			"stops when only one path remains",
			[][]physics.Vector3{
				{physics.Vec3(0, 0, 0)},
				{physics.Vec3(3, 0, 0), physics.Vec3(3, 0, 0), physics.Vec3(3, 0, 0)},
				{physics.Vec3(0, 0, 5), physics.Vec3(0, 0, 4)},
			},
			[]float64{3, 5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MinSeparation(tt.paths))
		})
	}
}

func newReportSimulation(t *testing.T, horizon int, bodies ...*body.Body) *engine.Simulation {
	t.Helper()
	p := engine.DefaultParameters()
	p.Horizon = horizon
	sim := engine.NewSimulation(context.Background(), logging.Discard(), p, 1)
	for _, b := range bodies {
		_, err := sim.AddBody(b)
		require.NoError(t, err)
	}
	sim.FixedUpdate()
	return sim
}

func resting(name string, x, radius float64) *body.Body {
	return body.New(physics.Vec3(x, 0, 0), radius,
		body.WithName(name), body.WithoutJitter(), body.Settled(), body.WithColor(color.RGBA{A: 0xff}))
}

func TestBuildReport_PredictedContact(t *testing.T) {
	sim := newReportSimulation(t, 1000, resting("Castor", -1, 1), resting("Pollux", 1, 1))
	r := BuildReport(sim)

	require.Len(t, r.Bodies, 2)
	for _, b := range r.Bodies {
		assert.Equal(t, OutcomeContact, b.Outcome)
		assert.Greater(t, b.ContactStep, 0)
		assert.Equal(t, b.ContactStep, b.Steps)
	}
	assert.Equal(t, "Castor", r.Bodies[0].Name)
	assert.Equal(t, physics.Mass(1), r.Bodies[0].Mass)
	assert.Len(t, r.Separation, r.Bodies[0].Steps+1)

	d, step := r.ClosestApproach()
	assert.Equal(t, r.Bodies[0].ContactStep, step)
	assert.Less(t, d, 0.2)

	out := r.Render(80)
	assert.Contains(t, out, "TRAJECTORY PREVIEW")
	assert.Contains(t, out, "Castor")
	assert.Contains(t, out, "Pollux")
	assert.Contains(t, out, "contact at step")
	assert.Contains(t, out, "minimum separation per step")
	assert.Contains(t, out, "Closest approach")
}

func TestBuildReport_FreeAndCollided(t *testing.T) {
	sim := newReportSimulation(t, 100, resting("Far", -50, 0.5), resting("Away", 50, 0.5), resting("Done", 0, 0.5))
	sim.Registry.MarkCollided(2)
	r := BuildReport(sim)

	assert.Equal(t, OutcomeFree, r.Bodies[0].Outcome)
	assert.Equal(t, -1, r.Bodies[0].ContactStep)
	assert.Equal(t, 100, r.Bodies[0].Steps)
	assert.Equal(t, OutcomeCollided, r.Bodies[2].Outcome)

	d, _ := r.ClosestApproach()
	assert.False(t, math.IsInf(d, 1))
}

func TestReport_RenderEmpty(t *testing.T) {
	r := BuildReport(newReportSimulation(t, 100))
	out := r.Render(80)
	assert.Contains(t, out, "No bodies.")
	assert.NotContains(t, out, "minimum separation")

	_, step := r.ClosestApproach()
	assert.Equal(t, -1, step)
}
