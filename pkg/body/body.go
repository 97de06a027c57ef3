// pkg/body/body.go
package body

import (
	"image/color"
	"math"
	"math/rand"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/opd-ai/go-orrery/pkg/physics"
)

const (
	// ScaleCoefficient converts a body radius into the uniform scale of its
	// rendered sphere and collision marker.
	ScaleCoefficient = 0.2
	// ChangeTolerance is the dirty-check tolerance for mass and radius.
	ChangeTolerance = 1e-3
	// VelocityJitter bounds the random Z velocity given to bodies created at rest.
	VelocityJitter = 0.2
	// SettleLift is how far a new body rises before it counts as settled.
	SettleLift = 0.001
	// SettleSpeed is the rise rate in units per second.
	SettleSpeed = 1.0
)

// Body is one simulated mass. Mass is always derived from the radius.
type Body struct {
	name            string
	radius          float64
	position        physics.Vector3
	initialVelocity physics.Vector3
	color           color.RGBA
	selected        bool

	hasCollided bool

	settled         bool
	settleRemaining float64
	start           physics.Vector3

	changed bool
	prev    snapshot
}

// snapshot holds the values seen by the previous dirty check.
type snapshot struct {
	valid    bool
	mass     float64
	radius   float64
	position physics.Vector3
	velocity physics.Vector3
	color    color.RGBA
	selected bool
}

type options struct {
	name     string
	velocity physics.Vector3
	color    *color.RGBA
	rng      *rand.Rand
	settled  bool
	jitter   bool
}

// Option configures a new Body.
type Option func(*options)

// WithName sets the display name.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithVelocity sets the initial velocity.
func WithVelocity(v physics.Vector3) Option {
	return func(o *options) { o.velocity = v }
}

// WithColor sets the color instead of picking a random one.
func WithColor(c color.RGBA) Option {
	return func(o *options) { o.color = &c }
}

// WithRand sets the random source used for color and velocity jitter.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// Settled creates the body already settled at its position.
func Settled() Option {
	return func(o *options) { o.settled = true }
}

// WithoutJitter keeps a zero initial velocity at zero.
func WithoutJitter() Option {
	return func(o *options) { o.jitter = false }
}

// New creates a body at position with the given radius. A body created at
// rest gets a small random Z velocity unless WithoutJitter is passed.
func New(position physics.Vector3, radius float64, opts ...Option) *Body {
	o := options{jitter: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	b := &Body{
		name:            o.name,
		radius:          radius,
		position:        position,
		initialVelocity: o.velocity,
		settleRemaining: SettleLift,
		start:           position,
	}

	if o.color != nil {
		b.color = *o.color
	} else {
		b.color = RandomColor(o.rng)
	}

	if o.jitter && b.initialVelocity == (physics.Vector3{}) {
		b.initialVelocity[2] = (o.rng.Float64()*2 - 1) * VelocityJitter
	}

	if o.settled {
		b.settled = true
		b.settleRemaining = 0
	}

	return b
}

// RandomColor picks a fully saturated color of random hue with a value
// between 0.5 and 1.
func RandomColor(rng *rand.Rand) color.RGBA {
	c := colorful.Hsv(rng.Float64()*360, 1, 0.5+rng.Float64()*0.5)
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// ParseColor parses a "#rrggbb" color.
func ParseColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// FormatColor renders a color as "#rrggbb".
func FormatColor(c color.RGBA) string {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}

// Name returns the display name.
func (b *Body) Name() string {
	return b.name
}

// Radius returns the sphere radius.
func (b *Body) Radius() float64 {
	return b.radius
}

// Position returns the current position. While running it is the live
// position on the trajectory.
func (b *Body) Position() physics.Vector3 {
	return b.position
}

// InitialVelocity returns the velocity the trajectory starts with.
func (b *Body) InitialVelocity() physics.Vector3 {
	return b.initialVelocity
}

// Color returns the render color.
func (b *Body) Color() color.RGBA {
	return b.color
}

// Selected reports whether the body is being edited.
func (b *Body) Selected() bool {
	return b.selected
}

// Mass is the sphere volume of the body.
func (b *Body) Mass() float64 {
	return physics.Mass(b.radius)
}

// Scale is the uniform render scale of the body.
func (b *Body) Scale() float64 {
	return b.radius * ScaleCoefficient
}

// HasCollided reports whether the body is permanently frozen by a collision.
func (b *Body) HasCollided() bool {
	return b.hasCollided
}

// Changed reports whether a dirty check fired since the registry last
// consumed the changes.
func (b *Body) Changed() bool {
	return b.changed
}

// Settled reports whether the body finished its settle animation.
func (b *Body) Settled() bool {
	return b.settled
}

// StartPosition is the position the body settled at.
func (b *Body) StartPosition() physics.Vector3 {
	return b.start
}

// Settle advances the settle animation by dt seconds and reports whether the
// body is settled. The body rises along +Y until it has climbed SettleLift.
func (b *Body) Settle(dt float64) bool {
	if b.settled {
		return true
	}
	step := math.Min(dt*SettleSpeed, b.settleRemaining)
	if step > 0 {
		b.position[1] += step
		b.settleRemaining -= step
	}
	if b.settleRemaining <= 0 {
		b.settled = true
		b.SaveStart()
	}
	return b.settled
}

// SaveStart remembers the current position as the body's start position.
func (b *Body) SaveStart() {
	b.start = b.position
}

// checkChanged compares the tracked properties against the previous
// snapshot. Any difference sets the changed flag and refreshes the snapshot.
// The first check always fires.
func (b *Body) checkChanged() bool {
	mass := b.Mass()
	fired := !b.prev.valid ||
		math.Abs(mass-b.prev.mass) > ChangeTolerance ||
		math.Abs(b.radius-b.prev.radius) > ChangeTolerance ||
		b.position != b.prev.position ||
		b.initialVelocity != b.prev.velocity ||
		b.color != b.prev.color ||
		b.selected != b.prev.selected

	if fired {
		b.changed = true
		b.prev = snapshot{
			valid:    true,
			mass:     mass,
			radius:   b.radius,
			position: b.position,
			velocity: b.initialVelocity,
			color:    b.color,
			selected: b.selected,
		}
	}
	return fired
}
