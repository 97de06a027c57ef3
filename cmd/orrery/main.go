// cmd/orrery/main.go
package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/opd-ai/go-orrery/pkg/config"
	"github.com/opd-ai/go-orrery/pkg/logging"
)

const defaultConfigPath = "orrery.json"

// Persistent flags
var (
	configPath   string
	templateName string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "orrery",
	Short: "Interactive N-body trajectory preview",
	Long: `orrery places spherical bodies on a plane, predicts their mutual gravitational
trajectories over a fixed horizon and plays the prediction back live.

Scenarios and tunables are read from a JSON, TOML or YAML file. Physics
tunables can be overridden with ORRERY_GRAVITY, ORRERY_HORIZON,
ORRERY_TIME_STEP and ORRERY_MASS_COEFFICIENT.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "scenario file (.json, .toml, .yaml)")
	rootCmd.PersistentFlags().StringVarP(&templateName, "template", "t", "", "start from a built-in scenario instead of the config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "DEBUG, INFO, WARN or ERROR (default from ORRERY_LOG_LEVEL)")

	rootCmd.AddCommand(initCmd, templatesCmd, previewCmd, runCmd, guiCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the scenario for a command: a named template, the
// config file, or the defaults when the file does not exist. Environment
// overrides are applied and the result is normalized.
func loadConfig(ctx context.Context, logger *logging.Logger, path, template string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case template != "":
		tmpl, err := config.GetScenarioTemplate(template)
		if err != nil {
			return nil, err
		}
		cfg = tmpl
		logger.Info(ctx, "using scenario template", "template", template)
	default:
		loaded, err := config.LoadConfig(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Info(ctx, "configuration file not found, using default configuration", "config_path", path)
			cfg = config.DefaultConfig()
		case err != nil:
			return nil, err
		default:
			cfg = loaded
		}
	}

	if err := cfg.ApplyEnvironmentOverrides(); err != nil {
		return nil, logging.WrapError(err, "failed to apply environment configuration")
	}
	cfg.Normalize()
	return cfg, nil
}

// newLogger creates a JSON logger on w. The --log-level flag wins over
// ORRERY_LOG_LEVEL.
func newLogger(w io.Writer) *logging.Logger {
	level := os.Getenv(logging.LevelEnvVar)
	if logLevel != "" {
		level = logLevel
	}
	return logging.NewLoggerWithWriter(w, logging.ParseLevel(level))
}
