// cmd/orrery/run.go
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/opd-ai/go-orrery/pkg/audio"
	"github.com/opd-ai/go-orrery/pkg/config"
	"github.com/opd-ai/go-orrery/pkg/engine"
	"github.com/opd-ai/go-orrery/pkg/logging"
	"github.com/opd-ai/go-orrery/pkg/render"
)

// Shared front-end flags
var (
	volume      float64
	watchConfig bool
	logPath     string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scenario in the terminal",
	Long: `Run the scenario in a full-screen terminal view of the X/Z plane.

Keys: arrows move the cursor, p places a body, enter selects the body under
the cursor, tab selects the next body, +/- change the radius, w/a/s/d aim
the selected body, g grabs or drops it so it follows the cursor, c picks a
random color, esc cancels the edit, m rotates
the mode, space starts the simulation, r resets, [ and ] zoom, q quits.
Mouse clicks place or select at the pointer.

Logs go to --log so the screen stays clean.`,
	Args: cobra.NoArgs,
	RunE: runTerminal,
}

func init() {
	runCmd.Flags().Float64Var(&volume, "volume", 0.5, "chime volume between 0 and 1")
	runCmd.Flags().BoolVar(&watchConfig, "watch", true, "apply tunables when the config file changes")
	runCmd.Flags().StringVar(&logPath, "log", "orrery.log", "log file")
}

// keyBinding is what a key press does: move the cursor, zoom, run an action,
// or quit.
type keyBinding struct {
	action engine.Action
	dx, dz int
	zoom   float64
	quit   bool
}

var runeBindings = map[rune]keyBinding{
	'p': {action: engine.ActionPlace},
	'+': {action: engine.ActionGrow},
	'=': {action: engine.ActionGrow},
	'-': {action: engine.ActionShrink},
	'w': {action: engine.ActionAimUp},
	's': {action: engine.ActionAimDown},
	'a': {action: engine.ActionAimLeft},
	'd': {action: engine.ActionAimRight},
	'c': {action: engine.ActionRandomColor},
	'g': {action: engine.ActionGrab},
	'm': {action: engine.ActionNextMode},
	' ': {action: engine.ActionStart},
	'r': {action: engine.ActionReset},
	'[': {zoom: 0.8},
	']': {zoom: 1.25},
	'q': {quit: true},
}

// bindingForKey maps a tcell key event to its binding.
func bindingForKey(ev *tcell.EventKey) (keyBinding, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return keyBinding{dz: -1}, true
	case tcell.KeyDown:
		return keyBinding{dz: 1}, true
	case tcell.KeyLeft:
		return keyBinding{dx: -1}, true
	case tcell.KeyRight:
		return keyBinding{dx: 1}, true
	case tcell.KeyTab:
		return keyBinding{action: engine.ActionSelectNext}, true
	case tcell.KeyEnter:
		return keyBinding{action: engine.ActionSelect}, true
	case tcell.KeyEscape:
		return keyBinding{action: engine.ActionCancel}, true
	case tcell.KeyCtrlC:
		return keyBinding{quit: true}, true
	case tcell.KeyRune:
		b, ok := runeBindings[ev.Rune()]
		return b, ok
	}
	return keyBinding{}, false
}

// terminalUI holds the state touched from the loop goroutine.
type terminalUI struct {
	renderer *render.TerminalRenderer
	controls *engine.Controls
	logger   *logging.Logger
	ctx      context.Context
	message  string
}

// apply runs a binding against sim.
func (ui *terminalUI) apply(sim *engine.Simulation, b keyBinding) {
	if b.dx != 0 || b.dz != 0 {
		ui.controls.MoveCursor(b.dx, b.dz)
		ui.drag(sim)
	}
	if b.zoom != 0 {
		ui.renderer.SetScale(ui.renderer.Scale() * b.zoom)
	}
	if b.action == engine.ActionNone {
		return
	}
	msg, err := ui.controls.Apply(sim, b.action)
	if err != nil {
		ui.logger.Debug(ui.ctx, "action rejected", "action", b.action.String(), "error", err.Error())
		ui.message = b.action.String() + ": " + err.Error()
		return
	}
	if msg != "" {
		ui.message = msg
	}
}

// drag moves a held body to the cursor.
func (ui *terminalUI) drag(sim *engine.Simulation) {
	if err := ui.controls.Drag(sim); err != nil {
		ui.logger.Debug(ui.ctx, "move rejected", "error", err.Error())
		ui.message = engine.ActionGrab.String() + ": " + err.Error()
	}
}

// click places or selects at a screen cell. A held body is dropped at the
// cell instead.
func (ui *terminalUI) click(sim *engine.Simulation, x, y int) {
	ui.controls.Cursor = ui.renderer.ScreenToWorld(x, y)
	switch sim.Modes.Mode() {
	case engine.ModePlace:
		ui.apply(sim, keyBinding{action: engine.ActionPlace})
	case engine.ModeEdit:
		if ui.controls.Grabbing() {
			ui.drag(sim)
			ui.apply(sim, keyBinding{action: engine.ActionGrab})
			return
		}
		ui.apply(sim, keyBinding{action: engine.ActionSelect})
	}
}

// draw renders one frame with the status line.
func (ui *terminalUI) draw(sim *engine.Simulation) {
	ui.renderer.SetCursor(ui.controls.Cursor, sim.Modes.Mode() == engine.ModePlace)
	ui.renderer.SetStatus(statusLine(sim.Status(), ui.message))
	sim.Render(ui.renderer)
}

// statusLine formats a simulation status for the bottom row.
func statusLine(st engine.Status, message string) string {
	line := fmt.Sprintf(" %s | %s | step %d | bodies %d (%d collided)",
		st.Mode, st.State, st.Step, st.Bodies, st.Collided)
	if st.Selected >= 0 {
		line += fmt.Sprintf(" | #%d", st.Selected)
	}
	line += fmt.Sprintf(" | G=%g h=%d", st.Parameters.Gravity, st.Parameters.Horizon)
	if message != "" {
		line += " | " + message
	}
	return line
}

func runTerminal(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}
	defer logFile.Close()
	logger := newLogger(logFile)
	ctx = logging.WithSessionID(ctx, logging.GenerateSessionID())

	cfg, err := loadConfig(ctx, logger, configPath, templateName)
	if err != nil {
		return err
	}
	sim, err := engine.NewSimulationFromConfig(ctx, cfg, logger)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	chime := audio.NewChime(volume)
	if err := chime.Initialize(); err != nil {
		logger.Warn(ctx, "audio disabled", "error", err.Error())
	}
	chime.Attach(sim.Bus)
	defer chime.Close()

	ui := &terminalUI{
		renderer: render.NewTerminalRenderer(screen, cfg.Display.Scale, cfg.Display.TrailStride),
		controls: engine.NewControls(rand.New(rand.NewSource(cfg.Seed + 1))),
		logger:   logger,
		ctx:      ctx,
		message:  "p place, m mode, space start, q quit",
	}

	loop := engine.NewLoop(sim, cfg.Loop)
	loop.OnFrame = ui.draw
	if params := watchParameters(ctx, logger); params != nil {
		loop.WatchParameters(params)
	}

	go pumpEvents(ctx, cancel, screen, loop, ui)

	logger.Info(ctx, "terminal session started", "bodies", sim.Registry.Len())
	err = loop.Run(ctx)
	logger.Info(ctx, "terminal session ended")
	return err
}

// pumpEvents forwards terminal input to the loop goroutine until the
// screen is finalized.
func pumpEvents(ctx context.Context, quit context.CancelFunc, screen tcell.Screen, loop *engine.Loop, ui *terminalUI) {
	var buttons tcell.ButtonMask
	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			b, ok := bindingForKey(ev)
			if !ok {
				continue
			}
			if b.quit {
				quit()
				return
			}
			if loop.Do(ctx, func(sim *engine.Simulation) { ui.apply(sim, b) }) != nil {
				return
			}
		case *tcell.EventMouse:
			pressed := ev.Buttons()&tcell.Button1 != 0 && buttons&tcell.Button1 == 0
			buttons = ev.Buttons()
			if !pressed {
				continue
			}
			x, y := ev.Position()
			if loop.Do(ctx, func(sim *engine.Simulation) { ui.click(sim, x, y) }) != nil {
				return
			}
		}
	}
}

// watchParameters watches the config file and delivers its physics
// tunables. It returns nil when watching is off or no file is in use.
func watchParameters(ctx context.Context, logger *logging.Logger) <-chan engine.Parameters {
	if !watchConfig || templateName != "" {
		return nil
	}
	params := make(chan engine.Parameters)
	err := config.Watch(ctx, configPath, logger, func(cfg *config.Config) {
		if err := cfg.ApplyEnvironmentOverrides(); err != nil {
			logger.Warn(ctx, "ignoring reloaded config", "error", err.Error())
			return
		}
		cfg.Normalize()
		select {
		case params <- engine.ParametersFromConfig(cfg.Physics):
		case <-ctx.Done():
		}
	})
	if err != nil {
		logger.Warn(ctx, "config watching disabled", "error", err.Error())
		return nil
	}
	return params
}
