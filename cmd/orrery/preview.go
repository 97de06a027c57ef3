// cmd/orrery/preview.go
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opd-ai/go-orrery/pkg/engine"
	"github.com/opd-ai/go-orrery/pkg/render"
)

var previewWidth int

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Predict the scenario once and print a report",
	Long: `Compute every body's trajectory over the configured horizon without opening
a window, then print the bodies, their predicted outcome and a plot of the
closest pairwise separation per step.`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().IntVarP(&previewWidth, "width", "w", 72, "plot width in columns")
}

func runPreview(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	logger := newLogger(cmd.ErrOrStderr())

	cfg, err := loadConfig(ctx, logger, configPath, templateName)
	if err != nil {
		return err
	}
	sim, err := engine.NewSimulationFromConfig(ctx, cfg, logger)
	if err != nil {
		return err
	}
	sim.FixedUpdate()

	fmt.Fprintln(cmd.OutOrStdout(), render.BuildReport(sim).Render(previewWidth))
	return nil
}
