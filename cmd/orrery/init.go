// cmd/orrery/init.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opd-ai/go-orrery/pkg/config"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a scenario file",
	Long: `Write the default scenario, or a built-in template with --template, to the
path given by --config. The file format follows the extension.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the built-in scenario templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, key := range config.ListScenarioTemplates() {
			name, description, _ := config.DescribeScenarioTemplate(key)
			fmt.Fprintf(out, "%-14s %s: %s\n", key, name, description)
		}
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "overwrite an existing file")
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	logger := newLogger(cmd.ErrOrStderr())

	if _, err := os.Stat(configPath); err == nil && !forceInit {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}

	cfg := config.DefaultConfig()
	if templateName != "" {
		var err error
		if cfg, err = config.GetScenarioTemplate(templateName); err != nil {
			return err
		}
	}

	if err := config.SaveConfig(cfg, configPath); err != nil {
		logger.Error(ctx, "failed to write configuration", err, "config_path", configPath)
		return err
	}
	logger.Info(ctx, "created configuration file", "config_path", configPath, "bodies", len(cfg.Bodies))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", configPath)
	return nil
}
