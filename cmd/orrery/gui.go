// cmd/orrery/gui.go
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/opd-ai/go-orrery/pkg/audio"
	"github.com/opd-ai/go-orrery/pkg/engine"
	engorender "github.com/opd-ai/go-orrery/pkg/render/engo"
)

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Open the scenario in a desktop window",
	Long: `Open an OpenGL window showing the scenario from above.

Mouse: click places a body in place mode, selects a body in edit mode and
aims the selected body at the clicked point. Keys: m/tab mode, space start,
n next body, +/- radius, w/a/s/d aim, c color, esc cancel edit, r reset,
arrows pan, page up/down zoom, q quit.`,
	Args: cobra.NoArgs,
	RunE: runGUI,
}

func init() {
	guiCmd.Flags().Float64Var(&volume, "volume", 0.5, "chime volume between 0 and 1")
	guiCmd.Flags().BoolVar(&watchConfig, "watch", true, "apply tunables when the config file changes")
}

func runGUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger := newLogger(os.Stderr)

	cfg, err := loadConfig(ctx, logger, configPath, templateName)
	if err != nil {
		return err
	}
	sim, err := engine.NewSimulationFromConfig(ctx, cfg, logger)
	if err != nil {
		return err
	}

	chime := audio.NewChime(volume)
	if err := chime.Initialize(); err != nil {
		logger.Warn(ctx, "audio disabled", "error", err.Error())
	}
	chime.Attach(sim.Bus)
	defer chime.Close()

	params := watchParameters(ctx, logger)
	engorender.Run(sim, cfg, params, logger)
	return nil
}
