// pkg/event/event.go
package event

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Type represents the type of event
type Type string

// Simulation event types
const (
	BodyRegistered       Type = "body_registered"
	BodyChanged          Type = "body_changed"
	TrajectoryRecomputed Type = "trajectory_recomputed"
	CollisionPredicted   Type = "collision_predicted"
	BodiesCollided       Type = "bodies_collided"
	SimulationStarted    Type = "simulation_started"
	ParametersChanged    Type = "parameters_changed"
	ModeChanged          Type = "mode_changed"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription identifies a registered handler. Cancel removes it from the bus.
type Subscription struct {
	ID     uint64
	Cancel func()
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching.
// Handlers run synchronously on the publishing goroutine, in subscription order.
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})

	var once sync.Once
	return &Subscription{
		ID: id,
		Cancel: func() {
			once.Do(func() { b.unsubscribe(eventType, id) })
		},
	}
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			// Copy so an in-flight Publish keeps iterating its own snapshot.
			next := make([]subscriber, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			if len(next) == 0 {
				delete(b.handlers, eventType)
			} else {
				b.handlers[eventType] = next
			}
			return
		}
	}
}

// HandlerCount reports how many handlers are subscribed to eventType.
func (b *Bus) HandlerCount(eventType Type) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// BodyEvent is published when a body is registered or one of its
// properties changes.
type BodyEvent struct {
	BaseEvent
	Index int
	Name  string
}

// NewBodyEvent creates a new body event
func NewBodyEvent(eventType Type, source interface{}, index int, name string) *BodyEvent {
	return &BodyEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		Index: index,
		Name:  name,
	}
}

// TrajectoryEvent reports a finished recompute.
type TrajectoryEvent struct {
	BaseEvent
	Bodies int
	Steps  int
}

// NewTrajectoryEvent creates a new trajectory event
func NewTrajectoryEvent(source interface{}, bodies, steps int) *TrajectoryEvent {
	return &TrajectoryEvent{
		BaseEvent: BaseEvent{
			EventType: TrajectoryRecomputed,
			Source:    source,
		},
		Bodies: bodies,
		Steps:  steps,
	}
}

// CollisionEvent describes a contact between two bodies, either predicted
// during a recompute or observed while running.
type CollisionEvent struct {
	BaseEvent
	BodyA     int
	BodyB     int
	Step      int
	PositionA mgl64.Vec3
	PositionB mgl64.Vec3
}

// NewCollisionEvent creates a new collision event
func NewCollisionEvent(eventType Type, source interface{}, bodyA, bodyB, step int, posA, posB mgl64.Vec3) *CollisionEvent {
	return &CollisionEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		BodyA:     bodyA,
		BodyB:     bodyB,
		Step:      step,
		PositionA: posA,
		PositionB: posB,
	}
}

// ParametersEvent carries the tunables now in effect.
type ParametersEvent struct {
	BaseEvent
	Gravity         float64
	Horizon         int
	TimeStep        float64
	MassCoefficient float64
}

// NewParametersEvent creates a new parameters event
func NewParametersEvent(source interface{}, gravity float64, horizon int, timeStep, massCoefficient float64) *ParametersEvent {
	return &ParametersEvent{
		BaseEvent: BaseEvent{
			EventType: ParametersChanged,
			Source:    source,
		},
		Gravity:         gravity,
		Horizon:         horizon,
		TimeStep:        timeStep,
		MassCoefficient: massCoefficient,
	}
}

// ModeEvent reports an interaction mode change.
type ModeEvent struct {
	BaseEvent
	From string
	To   string
}

// NewModeEvent creates a new mode event
func NewModeEvent(source interface{}, from, to string) *ModeEvent {
	return &ModeEvent{
		BaseEvent: BaseEvent{
			EventType: ModeChanged,
			Source:    source,
		},
		From: from,
		To:   to,
	}
}
