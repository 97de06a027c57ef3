// pkg/render/engo/input.go
package engo

import (
	"context"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-orrery/pkg/engine"
	"github.com/opd-ai/go-orrery/pkg/logging"
	"github.com/opd-ai/go-orrery/pkg/physics"
)

// Button names registered with engo.Input.
const (
	buttonNextMode    = "nextMode"
	buttonStart       = "start"
	buttonSelectNext  = "selectNext"
	buttonGrow        = "grow"
	buttonShrink      = "shrink"
	buttonAimUp       = "aimUp"
	buttonAimDown     = "aimDown"
	buttonAimLeft     = "aimLeft"
	buttonAimRight    = "aimRight"
	buttonRandomColor = "randomColor"
	buttonGrab        = "grab"
	buttonCancel      = "cancel"
	buttonReset       = "reset"
	buttonQuit        = "quit"
	buttonZoomIn      = "zoomIn"
	buttonZoomOut     = "zoomOut"
	buttonPanLeft     = "panLeft"
	buttonPanRight    = "panRight"
	buttonPanUp       = "panUp"
	buttonPanDown     = "panDown"
)

// buttonActions maps pressed buttons to simulation actions.
var buttonActions = []struct {
	button string
	action engine.Action
}{
	{buttonNextMode, engine.ActionNextMode},
	{buttonStart, engine.ActionStart},
	{buttonSelectNext, engine.ActionSelectNext},
	{buttonGrow, engine.ActionGrow},
	{buttonShrink, engine.ActionShrink},
	{buttonAimUp, engine.ActionAimUp},
	{buttonAimDown, engine.ActionAimDown},
	{buttonAimLeft, engine.ActionAimLeft},
	{buttonAimRight, engine.ActionAimRight},
	{buttonRandomColor, engine.ActionRandomColor},
	{buttonGrab, engine.ActionGrab},
	{buttonCancel, engine.ActionCancel},
	{buttonReset, engine.ActionReset},
}

// InputSystem turns keyboard and mouse input into simulation actions.
type InputSystem struct {
	sim      *engine.Simulation
	controls *engine.Controls
	camera   *CameraSystem
	logger   *logging.Logger
	ctx      context.Context

	message string

	// OnCursor receives the cursor position every update and whether it
	// should be drawn.
	OnCursor func(pos physics.Vector3, visible bool)
}

// NewInputSystem creates an input system driving sim.
func NewInputSystem(sim *engine.Simulation, controls *engine.Controls, camera *CameraSystem, logger *logging.Logger) *InputSystem {
	if logger == nil {
		logger = logging.Discard()
	}
	return &InputSystem{
		sim:      sim,
		controls: controls,
		camera:   camera,
		logger:   logger,
		ctx:      context.Background(),
	}
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update processes input for this frame.
func (is *InputSystem) Update(dt float32) {
	if engo.Input.Button(buttonQuit).JustPressed() {
		engo.Exit()
		return
	}

	is.controls.Cursor = is.camera.ScreenToWorld(engo.Point{X: engo.Input.Mouse.X, Y: engo.Input.Mouse.Y})
	if is.OnCursor != nil {
		is.OnCursor(is.controls.Cursor, is.sim.Modes.Mode() == engine.ModePlace)
	}
	is.Drag()
	if engo.Input.Mouse.Action == engo.Press && engo.Input.Mouse.Button == engo.MouseButtonLeft {
		is.Click()
	}

	for _, ba := range buttonActions {
		if engo.Input.Button(ba.button).JustPressed() {
			is.Apply(ba.action)
		}
	}
}

// Drag moves a held body to the cursor.
func (is *InputSystem) Drag() {
	if err := is.controls.Drag(is.sim); err != nil {
		is.logger.Debug(is.ctx, "move rejected", "error", err.Error())
		is.message = engine.ActionGrab.String() + ": " + err.Error()
	}
}

// Click performs the mode's pointer action at the cursor: place in
// ModePlace, select in ModeEdit and aim the selected body with a second
// click on empty space. A held body is dropped instead.
func (is *InputSystem) Click() {
	switch is.sim.Modes.Mode() {
	case engine.ModePlace:
		is.Apply(engine.ActionPlace)
	case engine.ModeEdit:
		if is.controls.Grabbing() {
			is.Drag()
			is.Apply(engine.ActionGrab)
			return
		}
		if is.sim.Session() != nil && is.controls.Hovered(is.sim) < 0 {
			is.Apply(engine.ActionAimCursor)
			return
		}
		is.Apply(engine.ActionSelect)
	}
}

// Apply runs one action and records its message or error.
func (is *InputSystem) Apply(action engine.Action) {
	msg, err := is.controls.Apply(is.sim, action)
	if err != nil {
		is.logger.Debug(is.ctx, "action rejected", "action", action.String(), "error", err.Error())
		is.message = action.String() + ": " + err.Error()
		return
	}
	if msg != "" {
		is.message = msg
	}
}

// Message returns the latest action message.
func (is *InputSystem) Message() string {
	return is.message
}

// SetupInputBindings registers the key bindings.
func SetupInputBindings() {
	engo.Input.RegisterButton(buttonNextMode, engo.KeyM, engo.KeyTab)
	engo.Input.RegisterButton(buttonStart, engo.KeySpace)
	engo.Input.RegisterButton(buttonSelectNext, engo.KeyN)
	engo.Input.RegisterButton(buttonGrow, engo.KeyEquals, engo.KeyNumAdd)
	engo.Input.RegisterButton(buttonShrink, engo.KeyDash, engo.KeyNumSubtract)
	engo.Input.RegisterButton(buttonAimUp, engo.KeyW)
	engo.Input.RegisterButton(buttonAimDown, engo.KeyS)
	engo.Input.RegisterButton(buttonAimLeft, engo.KeyA)
	engo.Input.RegisterButton(buttonAimRight, engo.KeyD)
	engo.Input.RegisterButton(buttonRandomColor, engo.KeyC)
	engo.Input.RegisterButton(buttonGrab, engo.KeyG)
	engo.Input.RegisterButton(buttonCancel, engo.KeyEscape)
	engo.Input.RegisterButton(buttonReset, engo.KeyR)
	engo.Input.RegisterButton(buttonQuit, engo.KeyQ)

	engo.Input.RegisterButton(buttonZoomIn, engo.KeyPageUp)
	engo.Input.RegisterButton(buttonZoomOut, engo.KeyPageDown)
	engo.Input.RegisterButton(buttonPanLeft, engo.KeyArrowLeft)
	engo.Input.RegisterButton(buttonPanRight, engo.KeyArrowRight)
	engo.Input.RegisterButton(buttonPanUp, engo.KeyArrowUp)
	engo.Input.RegisterButton(buttonPanDown, engo.KeyArrowDown)
}
