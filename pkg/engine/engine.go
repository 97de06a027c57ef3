// pkg/engine/engine.go
package engine

import (
	"context"
	"errors"
	"math"

	"github.com/opd-ai/go-orrery/pkg/body"
	"github.com/opd-ai/go-orrery/pkg/config"
	"github.com/opd-ai/go-orrery/pkg/event"
	"github.com/opd-ai/go-orrery/pkg/logging"
	"github.com/opd-ai/go-orrery/pkg/physics"
)

var (
	// ErrNotSettled is returned by Start while a body is still settling.
	ErrNotSettled = errors.New("bodies have not settled")
	// ErrAlreadyRunning is returned by Start when the engine is running.
	ErrAlreadyRunning = errors.New("simulation already running")
)

// GravityTolerance is the smallest gravity change that triggers a recompute.
const GravityTolerance = 1e-6

// State is the engine state
type State int

const (
	// StateIdle previews trajectories and recomputes them on change.
	StateIdle State = iota
	// StateRunning walks bodies along their trajectories.
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Parameters are the engine tunables
type Parameters struct {
	Gravity         float64
	Horizon         int
	TimeStep        float64
	MassCoefficient float64
}

// DefaultParameters returns the default tunables.
func DefaultParameters() Parameters {
	return ParametersFromConfig(config.DefaultConfig().Physics)
}

// ParametersFromConfig converts the physics section of a config.
func ParametersFromConfig(c config.PhysicsConfig) Parameters {
	return Parameters{
		Gravity:         c.Gravity,
		Horizon:         c.Horizon,
		TimeStep:        c.TimeStep,
		MassCoefficient: c.MassCoefficient,
	}
}

// differs reports whether any tunable changed enough to invalidate paths.
func (p Parameters) differs(o Parameters) bool {
	return math.Abs(p.Gravity-o.Gravity) > GravityTolerance ||
		p.Horizon != o.Horizon ||
		p.TimeStep != o.TimeStep ||
		p.MassCoefficient != o.MassCoefficient
}

// Engine predicts body trajectories and, once started, moves the bodies
// along them. It must only be used from one goroutine.
type Engine struct {
	registry *body.Registry
	bus      *event.Bus
	logger   *logging.Logger
	ctx      context.Context

	params  Parameters
	checked Parameters
	primed  bool

	state State
	paths [][]physics.Vector3
	// velocities carries each body's integration velocity from the last
	// recompute into live extension.
	velocities []physics.Vector3
	// latched is the per-recompute collision latch, distinct from each
	// body's permanent HasCollided flag.
	latched  []bool
	computed bool
	index    int
}

// NewEngine creates an idle engine over registry. ctx only carries log
// context such as the session ID. A nil bus or logger is replaced by a
// private bus or a discarding logger.
func NewEngine(ctx context.Context, registry *body.Registry, bus *event.Bus, logger *logging.Logger, params Parameters) *Engine {
	if ctx == nil {
		ctx = context.Background()
	}
	if bus == nil {
		bus = event.NewEventBus()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Engine{
		registry: registry,
		bus:      bus,
		logger:   logger,
		ctx:      ctx,
		params:   params,
	}
}

// State returns the current engine state.
func (e *Engine) State() State {
	return e.state
}

// Parameters returns the tunables in effect.
func (e *Engine) Parameters() Parameters {
	return e.params
}

// SetParameters replaces the tunables. The next RecomputeNeeded picks up
// the change.
func (e *Engine) SetParameters(p Parameters) {
	e.params = p
}

// Index returns the live step index.
func (e *Engine) Index() int {
	return e.index
}

// Path returns the trajectory of body i. The slice is owned by the engine
// and must not be modified.
func (e *Engine) Path(i int) []physics.Vector3 {
	if i < 0 || i >= len(e.paths) {
		return nil
	}
	return e.paths[i]
}

// Remaining returns the part of body i's trajectory that lies ahead of the
// live step index.
func (e *Engine) Remaining(i int) []physics.Vector3 {
	path := e.Path(i)
	if e.index >= len(path) {
		return nil
	}
	return path[e.index:]
}

// Latched reports whether body i was latched by a predicted collision in
// the last recompute.
func (e *Engine) Latched(i int) bool {
	if i < 0 || i >= len(e.latched) {
		return false
	}
	return e.latched[i]
}

// RecomputeNeeded reports whether the trajectories are stale: on the first
// call, when any body changed, or when a tunable changed since the previous
// call. The registry's change state is consumed.
func (e *Engine) RecomputeNeeded() bool {
	e.registry.Poll()
	changed := e.registry.Changed()
	bodiesChanged := e.registry.AnyChanged()
	paramsChanged := !e.primed || e.params.differs(e.checked)
	e.primed = true
	e.checked = e.params
	if bodiesChanged || paramsChanged {
		e.logger.Debug(e.ctx, "recompute needed", "changed_bodies", changed, "parameters_changed", paramsChanged)
	}
	return bodiesChanged || paramsChanged
}

// FixedUpdate runs one fixed-rate pass: recompute if needed while idle,
// one tick while running.
func (e *Engine) FixedUpdate() {
	switch e.state {
	case StateIdle:
		if e.RecomputeNeeded() {
			e.Recompute()
		}
	case StateRunning:
		e.Tick()
	}
}

// Start moves the engine from idle to running. All bodies must be settled.
func (e *Engine) Start() error {
	if e.state == StateRunning {
		return ErrAlreadyRunning
	}
	if !e.registry.AllSettled() {
		return ErrNotSettled
	}
	if e.RecomputeNeeded() || !e.computed {
		e.Recompute()
	}
	e.state = StateRunning
	e.index = 0
	e.logger.Info(e.ctx, "simulation started", "bodies", e.registry.Len())
	e.bus.Publish(&event.BaseEvent{EventType: event.SimulationStarted, Source: e})
	return nil
}

// Recompute integrates every body over the horizon from its current
// position and initial velocity. All bodies advance from the previous
// step's positions. Bodies that come within contact distance are latched
// for the rest of the pass and their markers shown at the contact points.
func (e *Engine) Recompute() {
	bodies := e.registry.Bodies()
	n := len(bodies)
	horizon := e.params.Horizon
	if horizon < 0 {
		horizon = 0
	}

	e.paths = make([][]physics.Vector3, n)
	e.velocities = make([]physics.Vector3, n)
	e.latched = make([]bool, n)
	e.computed = true
	e.registry.HideAllMarkers()

	for i, b := range bodies {
		e.paths[i] = make([]physics.Vector3, 1, horizon+1)
		e.paths[i][0] = b.Position()
		e.velocities[i] = b.InitialVelocity()
	}

	eligible := func(i int) bool {
		return !e.latched[i] && !bodies[i].HasCollided()
	}

	advanced := make([]int, 0, n)
	for i := range bodies {
		if eligible(i) {
			advanced = append(advanced, i)
		}
	}
	e.latchContacts(advanced, 0, bodies)

	previous := make([]physics.Vector3, n)
	for t := 0; t < horizon; t++ {
		for i := range e.paths {
			previous[i] = e.paths[i][len(e.paths[i])-1]
		}

		advanced = advanced[:0]
		for p := range bodies {
			if !eligible(p) {
				continue
			}
			e.advance(p, previous, bodies, eligible)
			advanced = append(advanced, p)
		}
		e.latchContacts(advanced, t+1, bodies)
	}

	e.logger.Debug(e.ctx, "trajectories recomputed", "bodies", n, "horizon", horizon)
	e.bus.Publish(event.NewTrajectoryEvent(e, n, horizon))
}

// latchContacts tests every pair of candidates at path step and latches
// both bodies of each touching pair for the rest of the pass.
func (e *Engine) latchContacts(candidates []int, step int, bodies []*body.Body) {
	for ai, p := range candidates {
		if e.latched[p] {
			continue
		}
		for _, q := range candidates[ai+1:] {
			if e.latched[q] {
				continue
			}
			pp, qp := e.paths[p][step], e.paths[q][step]
			hit := contact(pp, bodies[p], qp, bodies[q])
			if !hit.Collided {
				continue
			}
			e.latched[p], e.latched[q] = true, true
			e.registry.ShowMarker(p, pp)
			e.registry.ShowMarker(q, qp)
			e.logger.Debug(e.ctx, "collision predicted", "body_a", p, "body_b", q, "step", step,
				"contact_point", hit.ContactPoint, "penetration", hit.Penetration)
			e.bus.Publish(event.NewCollisionEvent(event.CollisionPredicted, e, p, q, step, pp, qp))
			break
		}
	}
}

// Tick advances every free body to its position at the live step index,
// extends its path by one step and tests it for contact with the other
// free bodies. Bodies that touch are frozen permanently.
func (e *Engine) Tick() {
	if e.state != StateRunning {
		return
	}
	bodies := e.registry.Bodies()
	free := func(i int) bool {
		return !bodies[i].HasCollided()
	}

	for i, b := range bodies {
		if i >= len(e.paths) || b.HasCollided() {
			continue
		}
		e.registry.HideMarker(i)

		for len(e.paths[i]) <= e.index {
			e.extend(i, bodies, free)
		}
		position := e.paths[i][e.index]
		e.registry.SetLivePosition(i, position)
		e.extend(i, bodies, free)

		for j, other := range bodies {
			if j == i || j >= len(e.paths) || other.HasCollided() || len(e.paths[j]) <= e.index {
				continue
			}
			otherPosition := e.paths[j][e.index]
			hit := contact(position, b, otherPosition, other)
			if !hit.Collided {
				continue
			}
			e.registry.MarkCollided(i)
			e.registry.MarkCollided(j)
			e.registry.ShowMarker(i, position)
			e.registry.ShowMarker(j, otherPosition)
			e.logger.Info(e.ctx, "bodies collided", "body_a", i, "body_b", j, "step", e.index,
				"contact_point", hit.ContactPoint, "penetration", hit.Penetration)
			e.bus.Publish(event.NewCollisionEvent(event.BodiesCollided, e, i, j, e.index, position, otherPosition))
			break
		}
	}

	e.index++
}

// advance appends one integration step to body p's path using the
// previous positions of all bodies accepted by include.
func (e *Engine) advance(p int, previous []physics.Vector3, bodies []*body.Body, include func(int) bool) {
	mass := bodies[p].Mass() * e.params.MassCoefficient
	attractors := make([]physics.Attractor, 0, len(bodies))
	for i, other := range bodies {
		if i == p || !include(i) {
			continue
		}
		attractors = append(attractors, physics.Attractor{
			Position: previous[i],
			Mass:     other.Mass() * e.params.MassCoefficient,
		})
	}

	force := physics.NetForce(previous[p], mass, attractors, e.params.Gravity)
	e.velocities[p] = e.velocities[p].Add(physics.Acceleration(force, mass))
	e.paths[p] = append(e.paths[p], previous[p].Add(e.velocities[p].Mul(e.params.TimeStep)))
}

// extend appends one live step to body i's path, attracted by the latest
// path position of every body accepted by include.
func (e *Engine) extend(i int, bodies []*body.Body, include func(int) bool) {
	latest := make([]physics.Vector3, len(bodies))
	for j := range bodies {
		if j < len(e.paths) && len(e.paths[j]) > 0 {
			latest[j] = e.paths[j][len(e.paths[j])-1]
		}
	}
	e.advance(i, latest, bodies, func(j int) bool {
		return j < len(e.paths) && include(j)
	})
}

func contact(a physics.Vector3, ab *body.Body, b physics.Vector3, bb *body.Body) physics.CollisionResult {
	return physics.CheckCollision(physics.ContactSphere(a, ab.Radius()), physics.ContactSphere(b, bb.Radius()))
}
