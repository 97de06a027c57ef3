// pkg/render/engo/hud.go
package engo

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-orrery/pkg/engine"
)

// HUDSystem draws the status panel in the top-left corner of the window.
type HUDSystem struct {
	sim    *engine.Simulation
	font   *common.Font
	panel  *sprite
	text   string
	status func() string
}

// NewHUDSystem creates a HUD for sim. status supplies the latest action
// message and may be nil.
func NewHUDSystem(sim *engine.Simulation, status func() string) *HUDSystem {
	return &HUDSystem{sim: sim, status: status}
}

// Attach creates the text entity. Without a font the HUD stays empty.
func (hud *HUDSystem) Attach(renderSystem spriteAdder, font *common.Font) {
	hud.font = font
	if font == nil {
		return
	}
	hud.panel = &sprite{BasicEntity: ecs.NewBasic()}
	hud.panel.RenderComponent = common.RenderComponent{
		Drawable: common.Text{Font: font, Text: " "},
		Color:    color.White,
	}
	hud.panel.RenderComponent.SetShader(common.HUDShader)
	hud.panel.RenderComponent.SetZIndex(hudZ)
	hud.panel.SpaceComponent = common.SpaceComponent{Position: engo.Point{X: 10, Y: 10}}
	renderSystem.Add(&hud.panel.BasicEntity, &hud.panel.RenderComponent, &hud.panel.SpaceComponent)
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {}

// Update refreshes the panel text when it changed.
func (hud *HUDSystem) Update(dt float32) {
	message := ""
	if hud.status != nil {
		message = hud.status()
	}
	text := StatusText(hud.sim.Status(), message)
	if text == hud.text || hud.panel == nil {
		hud.text = text
		return
	}
	hud.text = text
	hud.panel.RenderComponent.Drawable = common.Text{Font: hud.font, Text: text}
}

// Text returns the text shown on the last update.
func (hud *HUDSystem) Text() string {
	return hud.text
}

// StatusText formats a simulation status for the HUD.
func StatusText(st engine.Status, message string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Mode: %s   State: %s   Step: %d\n", st.Mode, st.State, st.Step)
	fmt.Fprintf(&sb, "Bodies: %d   Collided: %d", st.Bodies, st.Collided)
	if st.Selected >= 0 {
		fmt.Fprintf(&sb, "   Selected: #%d", st.Selected)
	}
	fmt.Fprintf(&sb, "\nG=%g  horizon=%d  dt=%g  mass x%g",
		st.Parameters.Gravity, st.Parameters.Horizon, st.Parameters.TimeStep, st.Parameters.MassCoefficient)
	if message != "" {
		sb.WriteString("\n" + message)
	}
	return sb.String()
}
