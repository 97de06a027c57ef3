// pkg/render/engo/scene.go
package engo

import (
	"context"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-orrery/pkg/config"
	"github.com/opd-ai/go-orrery/pkg/engine"
	"github.com/opd-ai/go-orrery/pkg/logging"
)

// pixelsPerScale converts DisplayConfig.Scale to camera zoom.
const pixelsPerScale = 10

// maxTicksPerFrame bounds catch-up work after a long frame.
const maxTicksPerFrame = 10

// SimulationScene shows one Simulation in an engo window.
type SimulationScene struct {
	sim      *engine.Simulation
	display  config.DisplayConfig
	tickRate int
	params   <-chan engine.Parameters
	logger   *logging.Logger

	assets   *AssetManager
	renderer *EngoRenderer
	camera   *CameraSystem
	input    *InputSystem
	hud      *HUDSystem
}

// NewSimulationScene creates a scene for sim. params may be nil; values
// received on it replace the engine tunables between ticks.
func NewSimulationScene(sim *engine.Simulation, cfg *config.Config, params <-chan engine.Parameters, logger *logging.Logger) *SimulationScene {
	if logger == nil {
		logger = logging.Discard()
	}
	return &SimulationScene{
		sim:      sim,
		display:  cfg.Display,
		tickRate: cfg.Loop.TickRate,
		params:   params,
		logger:   logger,
		assets:   NewAssetManager(),
	}
}

// Type returns the scene type (required by Engo)
func (scene *SimulationScene) Type() string {
	return "SimulationScene"
}

// Preload registers the key bindings and generated assets (required by Engo)
func (scene *SimulationScene) Preload() {
	SetupInputBindings()
	if err := scene.assets.LoadAssets(); err != nil {
		scene.logger.Error(context.Background(), "failed to load assets", err)
	}
}

// Setup is called when the scene starts (required by Engo)
func (scene *SimulationScene) Setup(u engo.Updater) {
	world, _ := u.(*ecs.World)
	common.SetBackground(color.RGBA{R: 8, G: 8, B: 20, A: 255})

	renderSystem := &common.RenderSystem{}
	world.AddSystem(renderSystem)
	world.AddSystem(&common.MouseSystem{})

	scene.camera = NewCameraSystem(float32(scene.display.Scale * pixelsPerScale))
	scene.camera.SetViewport(engo.GameWidth(), engo.GameHeight())
	world.AddSystem(scene.camera)

	scene.renderer = NewEngoRenderer(renderSystem, scene.camera, scene.assets, scene.display.TrailStride)

	scene.input = NewInputSystem(scene.sim, engine.NewControls(nil), scene.camera, scene.logger)
	scene.input.OnCursor = scene.renderer.SetCursor
	world.AddSystem(scene.input)

	world.AddSystem(NewSimulationSystem(scene.sim, scene.renderer, scene.tickRate, scene.params))

	scene.hud = NewHUDSystem(scene.sim, scene.input.Message)
	scene.hud.Attach(renderSystem, scene.assets.Font())
	world.AddSystem(scene.hud)
}

// Exit is called when the scene is exiting (required by Engo)
func (scene *SimulationScene) Exit() {
	scene.logger.Info(context.Background(), "window closed")
}

// SimulationSystem runs the simulation passes inside engo's frame loop.
// Frames run once per Update; fixed ticks run from an accumulator at the
// configured tick rate.
type SimulationSystem struct {
	sim      *engine.Simulation
	renderer engine.Renderer
	params   <-chan engine.Parameters

	tick        float32
	accumulator float32
}

// NewSimulationSystem creates the system. A non-positive tickRate uses the
// default.
func NewSimulationSystem(sim *engine.Simulation, renderer engine.Renderer, tickRate int, params <-chan engine.Parameters) *SimulationSystem {
	if tickRate <= 0 {
		tickRate = config.DefaultTickRate
	}
	return &SimulationSystem{
		sim:      sim,
		renderer: renderer,
		params:   params,
		tick:     1 / float32(tickRate),
	}
}

// Remove satisfies the ecs.System interface
func (ss *SimulationSystem) Remove(basic ecs.BasicEntity) {}

// Update runs one frame pass, the fixed ticks that fell due and a render.
func (ss *SimulationSystem) Update(dt float32) {
	ss.drainParameters()
	ss.sim.Frame(float64(dt))

	ss.accumulator += dt
	for n := 0; ss.accumulator >= ss.tick; n++ {
		if n == maxTicksPerFrame {
			ss.accumulator = 0
			break
		}
		ss.sim.FixedUpdate()
		ss.accumulator -= ss.tick
	}

	ss.sim.Render(ss.renderer)
}

func (ss *SimulationSystem) drainParameters() {
	for {
		select {
		case p, ok := <-ss.params:
			if !ok {
				ss.params = nil
				return
			}
			ss.sim.SetParameters(p)
		default:
			return
		}
	}
}

// Run opens a window and blocks until it is closed.
func Run(sim *engine.Simulation, cfg *config.Config, params <-chan engine.Parameters, logger *logging.Logger) {
	engo.Run(engo.RunOptions{
		Title:          "Orrery",
		Width:          1024,
		Height:         768,
		StandardInputs: true,
		FPSLimit:       cfg.Loop.FrameRate,
	}, NewSimulationScene(sim, cfg, params, logger))
}
