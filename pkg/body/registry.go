// pkg/body/registry.go
package body

import (
	"errors"
	"fmt"
	"sort"

	"github.com/opd-ai/go-orrery/pkg/event"
	"github.com/opd-ai/go-orrery/pkg/physics"
)

// ErrUnknownBody is returned for an index that was never registered.
var ErrUnknownBody = errors.New("unknown body")

// Registry owns the simulated bodies and their collision markers. A body's
// index is its registration order and never changes.
type Registry struct {
	bodies  []*Body
	markers []Marker
	dirty   map[int]struct{}
	bus     *event.Bus
}

// NewRegistry creates an empty registry publishing on bus. A nil bus gets a
// private one.
func NewRegistry(bus *event.Bus) *Registry {
	if bus == nil {
		bus = event.NewEventBus()
	}
	return &Registry{
		dirty: make(map[int]struct{}),
		bus:   bus,
	}
}

// Register appends b, allocates its marker and returns its index.
func (r *Registry) Register(b *Body) int {
	index := len(r.bodies)
	r.bodies = append(r.bodies, b)
	r.markers = append(r.markers, Marker{})
	r.bus.Publish(event.NewBodyEvent(event.BodyRegistered, r, index, b.name))
	return index
}

// Len returns the number of registered bodies.
func (r *Registry) Len() int {
	return len(r.bodies)
}

// At returns the body at index, or nil when the index is unknown.
func (r *Registry) At(index int) *Body {
	if index < 0 || index >= len(r.bodies) {
		return nil
	}
	return r.bodies[index]
}

// Bodies returns the registered bodies in index order.
func (r *Registry) Bodies() []*Body {
	out := make([]*Body, len(r.bodies))
	copy(out, r.bodies)
	return out
}

// Marker returns the marker state of the body at index.
func (r *Registry) Marker(index int) Marker {
	if index < 0 || index >= len(r.markers) {
		return Marker{}
	}
	return r.markers[index]
}

// ShowMarker places the body's marker at position, scaled to the body.
func (r *Registry) ShowMarker(index int, position physics.Vector3) {
	if b := r.At(index); b != nil {
		r.markers[index].show(position, b.Scale())
	}
}

// HideMarker hides the body's marker.
func (r *Registry) HideMarker(index int) {
	if index >= 0 && index < len(r.markers) {
		r.markers[index].hide()
	}
}

// HideAllMarkers hides every marker.
func (r *Registry) HideAllMarkers() {
	for i := range r.markers {
		r.markers[i].hide()
	}
}

// SetLivePosition overwrites a body's position while the simulation runs.
func (r *Registry) SetLivePosition(index int, position physics.Vector3) {
	if b := r.At(index); b != nil {
		b.position = position
	}
}

// MarkCollided permanently freezes a body.
func (r *Registry) MarkCollided(index int) {
	if b := r.At(index); b != nil {
		b.hasCollided = true
	}
}

// ApplyEdit validates and applies one property change. A change that the
// dirty check picks up publishes body_changed.
func (r *Registry) ApplyEdit(index int, e Edit) error {
	b := r.At(index)
	if b == nil {
		return fmt.Errorf("%w: %d", ErrUnknownBody, index)
	}
	if err := e.apply(b); err != nil {
		return fmt.Errorf("body %d: %w", index, err)
	}
	r.check(index)
	return nil
}

// DeselectAll clears the selection on every body.
func (r *Registry) DeselectAll() {
	for i, b := range r.bodies {
		if b.selected {
			b.selected = false
			r.check(i)
		}
	}
}

// Poll runs every body's dirty check without consuming the result and
// returns the indices that fired.
func (r *Registry) Poll() []int {
	var fired []int
	for i := range r.bodies {
		if r.check(i) {
			fired = append(fired, i)
		}
	}
	return fired
}

// AnyChanged runs every body's dirty check and reports whether any check
// fired since the previous call. The dirty state is cleared, so a second call
// without intervening changes returns false.
func (r *Registry) AnyChanged() bool {
	r.Poll()
	changed := len(r.dirty) > 0
	for i := range r.dirty {
		r.bodies[i].changed = false
	}
	clear(r.dirty)
	return changed
}

// Changed returns the indices that changed since the last AnyChanged, in
// ascending order.
func (r *Registry) Changed() []int {
	out := make([]int, 0, len(r.dirty))
	for i := range r.dirty {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Settle advances every body's settle animation and reports whether all
// bodies are settled.
func (r *Registry) Settle(dt float64) bool {
	all := true
	for _, b := range r.bodies {
		if !b.Settle(dt) {
			all = false
		}
	}
	return all
}

// AllSettled reports whether every body finished its settle animation.
func (r *Registry) AllSettled() bool {
	for _, b := range r.bodies {
		if !b.settled {
			return false
		}
	}
	return true
}

func (r *Registry) check(index int) bool {
	b := r.bodies[index]
	if !b.checkChanged() {
		return false
	}
	r.dirty[index] = struct{}{}
	r.bus.Publish(event.NewBodyEvent(event.BodyChanged, r, index, b.name))
	return true
}
