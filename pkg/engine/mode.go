// pkg/engine/mode.go
package engine

import "github.com/opd-ai/go-orrery/pkg/event"

// Mode is the user interaction mode
type Mode int

const (
	// ModePlace lets the user drop new bodies.
	ModePlace Mode = iota
	// ModeEdit lets the user pick a body and change its properties.
	ModeEdit
	// ModeSimulate allows starting the simulation.
	ModeSimulate
)

func (m Mode) String() string {
	switch m {
	case ModePlace:
		return "Place"
	case ModeEdit:
		return "Edit"
	case ModeSimulate:
		return "Simulate"
	default:
		return "Unknown"
	}
}

// ModeState holds the current interaction mode
type ModeState struct {
	mode Mode
	bus  *event.Bus
}

// NewModeState starts in ModePlace.
func NewModeState(bus *event.Bus) *ModeState {
	if bus == nil {
		bus = event.NewEventBus()
	}
	return &ModeState{mode: ModePlace, bus: bus}
}

// Mode returns the current mode.
func (m *ModeState) Mode() Mode {
	return m.mode
}

// Next rotates Place → Edit → Simulate → Place and returns the new mode.
func (m *ModeState) Next() Mode {
	m.Set((m.mode + 1) % 3)
	return m.mode
}

// Set switches to mode, publishing mode_changed when it differs.
func (m *ModeState) Set(mode Mode) {
	if mode == m.mode {
		return
	}
	from := m.mode
	m.mode = mode
	m.bus.Publish(event.NewModeEvent(m, from.String(), mode.String()))
}
