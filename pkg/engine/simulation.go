// pkg/engine/simulation.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/opd-ai/go-orrery/pkg/body"
	"github.com/opd-ai/go-orrery/pkg/config"
	"github.com/opd-ai/go-orrery/pkg/event"
	"github.com/opd-ai/go-orrery/pkg/logging"
	"github.com/opd-ai/go-orrery/pkg/physics"
	"github.com/opd-ai/go-orrery/pkg/validation"
)

var (
	// ErrWrongMode is returned when an action is not allowed in the current mode.
	ErrWrongMode = errors.New("action not allowed in current mode")
	// ErrSimulationRunning is returned for edits after the simulation started.
	ErrSimulationRunning = errors.New("simulation is running")
)

// Simulation ties the registry, engine and mode state together. Every
// front end drives one Simulation from a single goroutine.
type Simulation struct {
	Bus      *event.Bus
	Registry *body.Registry
	Engine   *Engine
	Modes    *ModeState

	logger  *logging.Logger
	ctx     context.Context
	rng     *rand.Rand
	session *body.EditSession
}

// Status is a snapshot for status lines and HUDs
type Status struct {
	Mode     Mode
	State    State
	Bodies   int
	Collided int
	Step     int
	// Selected is the index of the body being edited, or -1.
	Selected   int
	Parameters Parameters
}

// NewSimulation creates an empty simulation. ctx carries log context; seed
// 0 picks a time-based random seed.
func NewSimulation(ctx context.Context, logger *logging.Logger, params Parameters, seed int64) *Simulation {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	bus := event.NewEventBus()
	registry := body.NewRegistry(bus)
	return &Simulation{
		Bus:      bus,
		Registry: registry,
		Engine:   NewEngine(ctx, registry, bus, logger, params),
		Modes:    NewModeState(bus),
		logger:   logger,
		ctx:      ctx,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// NewSimulationFromConfig creates a simulation with the configured
// tunables and bodies.
func NewSimulationFromConfig(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*Simulation, error) {
	sim := NewSimulation(ctx, logger, ParametersFromConfig(cfg.Physics), cfg.Seed)

	for i, bc := range cfg.Bodies {
		b, err := sim.bodyFromConfig(bc)
		if err != nil {
			return nil, fmt.Errorf("body %d (%s): %w", i, bc.Name, err)
		}
		sim.Registry.Register(b)
	}

	sim.logger.Info(sim.ctx, "simulation created", "bodies", sim.Registry.Len(),
		"gravity", cfg.Physics.Gravity, "horizon", cfg.Physics.Horizon)
	return sim, nil
}

func (s *Simulation) bodyFromConfig(bc config.BodyConfig) (*body.Body, error) {
	position := physics.Vector3(bc.Position)
	velocity := physics.Vector3(bc.Velocity)

	if err := validation.ValidateRadius(bc.Radius); err != nil {
		return nil, err
	}
	if err := validation.ValidatePosition(position); err != nil {
		return nil, err
	}
	if err := validation.ValidateVelocity(velocity); err != nil {
		return nil, err
	}
	name, err := validation.ValidateBodyName(bc.Name)
	if err != nil {
		return nil, err
	}

	opts := []body.Option{
		body.WithName(name),
		body.WithVelocity(velocity),
		body.WithRand(s.rng),
		body.WithoutJitter(),
	}
	if bc.Color != "" {
		c, err := body.ParseColor(bc.Color)
		if err != nil {
			return nil, fmt.Errorf("invalid color %q: %w", bc.Color, err)
		}
		opts = append(opts, body.WithColor(c))
	}
	if bc.Settled {
		opts = append(opts, body.Settled())
	}
	return body.New(position, bc.Radius, opts...), nil
}

// Running reports whether the engine left the idle state.
func (s *Simulation) Running() bool {
	return s.Engine.State() == StateRunning
}

// PlaceBody creates a body at position. It is only allowed in ModePlace
// before the simulation starts. The body starts unsettled and at rest with
// a random Z velocity jitter.
func (s *Simulation) PlaceBody(position physics.Vector3, radius float64) (int, error) {
	if s.Running() {
		return -1, ErrSimulationRunning
	}
	if s.Modes.Mode() != ModePlace {
		return -1, fmt.Errorf("place body: %w", ErrWrongMode)
	}
	if err := validation.ValidateRadius(radius); err != nil {
		return -1, fmt.Errorf("place body: %w", err)
	}
	if err := validation.ValidatePosition(position); err != nil {
		return -1, fmt.Errorf("place body: %w", err)
	}

	b := body.New(position, radius,
		body.WithName(fmt.Sprintf("Body %d", s.Registry.Len()+1)),
		body.WithRand(s.rng),
	)
	index := s.Registry.Register(b)
	s.logger.Info(s.ctx, "body placed", "index", index, "position", position, "radius", radius)
	return index, nil
}

// AddBody registers a prepared body regardless of mode.
func (s *Simulation) AddBody(b *body.Body) (int, error) {
	if s.Running() {
		return -1, ErrSimulationRunning
	}
	index := s.Registry.Register(b)
	s.logger.Debug(s.ctx, "body added", "index", index, "name", b.Name())
	return index, nil
}

// ApplyEdit applies a property edit to a body before the simulation starts.
func (s *Simulation) ApplyEdit(index int, e body.Edit) error {
	if s.Running() {
		return ErrSimulationRunning
	}
	return s.Registry.ApplyEdit(index, e)
}

// Select opens an edit session for a body, closing any open session. It is
// only allowed in ModeEdit.
func (s *Simulation) Select(index int) (*body.EditSession, error) {
	if s.Running() {
		return nil, ErrSimulationRunning
	}
	if s.Modes.Mode() != ModeEdit {
		return nil, fmt.Errorf("select body: %w", ErrWrongMode)
	}
	if err := s.EndEdit(); err != nil {
		return nil, err
	}
	session, err := s.Registry.BeginEdit(index)
	if err != nil {
		return nil, err
	}
	s.session = session
	return session, nil
}

// Session returns the open edit session or nil.
func (s *Simulation) Session() *body.EditSession {
	return s.session
}

// EndEdit keeps the edits of the open session and closes it.
func (s *Simulation) EndEdit() error {
	if s.session == nil {
		return nil
	}
	err := s.session.Done()
	s.session = nil
	return err
}

// CancelEdit rolls back the open session and closes it.
func (s *Simulation) CancelEdit() error {
	if s.session == nil {
		return nil
	}
	err := s.session.Cancel()
	s.session = nil
	return err
}

// NextMode rotates the interaction mode. Leaving ModeEdit closes the open
// edit session.
func (s *Simulation) NextMode() (Mode, error) {
	if s.Modes.Mode() == ModeEdit {
		if err := s.EndEdit(); err != nil {
			return s.Modes.Mode(), err
		}
	}
	mode := s.Modes.Next()
	s.logger.Debug(s.ctx, "mode changed", "mode", mode.String())
	return mode, nil
}

// StartSimulation starts the engine. It requires ModeSimulate and settled
// bodies.
func (s *Simulation) StartSimulation() error {
	if s.Modes.Mode() != ModeSimulate {
		return fmt.Errorf("start simulation: %w", ErrWrongMode)
	}
	if err := s.Engine.Start(); err != nil {
		s.logger.Warn(s.ctx, "simulation not started", "error", err.Error())
		return err
	}
	return nil
}

// SetParameters changes the engine tunables and publishes parameters_changed.
func (s *Simulation) SetParameters(p Parameters) {
	s.Engine.SetParameters(p)
	s.logger.Info(s.ctx, "parameters changed", "gravity", p.Gravity, "horizon", p.Horizon,
		"time_step", p.TimeStep, "mass_coefficient", p.MassCoefficient)
	s.Bus.Publish(event.NewParametersEvent(s, p.Gravity, p.Horizon, p.TimeStep, p.MassCoefficient))
}

// Frame runs the variable-rate pass: settle animation and change polling.
func (s *Simulation) Frame(dt float64) {
	if !s.Running() {
		s.Registry.Settle(dt)
	}
	s.Registry.Poll()
}

// FixedUpdate runs the fixed-rate pass.
func (s *Simulation) FixedUpdate() {
	s.Engine.FixedUpdate()
}

// Render draws trajectories, bodies and visible markers. While running only
// the part of each trajectory ahead of the bodies is drawn.
func (s *Simulation) Render(r Renderer) {
	r.Clear()
	bodies := s.Registry.Bodies()
	for i, b := range bodies {
		if path := s.Engine.Remaining(i); len(path) > 0 {
			r.RenderTrajectory(i, path, b.Color())
		}
	}
	for i, b := range bodies {
		r.RenderBody(i, b)
	}
	for i := range bodies {
		if m := s.Registry.Marker(i); m.Visible {
			r.RenderMarker(i, m)
		}
	}
	r.Present()
}

// Status returns a snapshot of the simulation state.
func (s *Simulation) Status() Status {
	st := Status{
		Mode:       s.Modes.Mode(),
		State:      s.Engine.State(),
		Bodies:     s.Registry.Len(),
		Step:       s.Engine.Index(),
		Selected:   -1,
		Parameters: s.Engine.Parameters(),
	}
	for _, b := range s.Registry.Bodies() {
		if b.HasCollided() {
			st.Collided++
		}
	}
	if s.session != nil {
		st.Selected = s.session.Index()
	}
	return st
}

// Reset recreates every body at its start position with its current
// radius, velocity and color, and returns to an idle engine in ModePlace.
// Subscribers on Bus are kept.
func (s *Simulation) Reset() {
	old := s.Registry.Bodies()
	s.session = nil
	s.Registry = body.NewRegistry(s.Bus)
	for _, b := range old {
		s.Registry.Register(body.New(b.StartPosition(), b.Radius(),
			body.WithName(b.Name()),
			body.WithVelocity(b.InitialVelocity()),
			body.WithColor(b.Color()),
			body.WithoutJitter(),
			body.Settled(),
		))
	}
	s.Engine = NewEngine(s.ctx, s.Registry, s.Bus, s.logger, s.Engine.Parameters())
	s.Modes.Set(ModePlace)
	s.logger.Info(s.ctx, "simulation reset", "bodies", s.Registry.Len())
}
