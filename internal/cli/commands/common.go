package commands

import (
	"log/slog"

	"github.com/leapstack-labs/calibrate/internal/calibration"
	"github.com/leapstack-labs/calibrate/internal/cli/config"
	"github.com/leapstack-labs/calibrate/internal/report"
	"github.com/leapstack-labs/calibrate/internal/solver"
	"github.com/spf13/cobra"
)

// getConfig returns the config loaded by the root command, or defaults when
// the command runs standalone.
func getConfig(cmd *cobra.Command) *config.Config {
	return config.FromContext(cmd.Context())
}

func newRenderer(cmd *cobra.Command, cfg *config.Config) *report.Renderer {
	return report.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.OutputFormat)
}

func newEvaluator(cfg *config.Config) (*solver.Evaluator, error) {
	return solver.New(cfg.EvaluatorOptions()...)
}

func newRunner(cmd *cobra.Command, cfg *config.Config) (*calibration.Runner, error) {
	eval, err := newEvaluator(cfg)
	if err != nil {
		return nil, err
	}
	return calibration.NewRunner(calibration.Config{
		Evaluator: eval,
		Logger:    getLogger(cmd),
		Workers:   cfg.Workers,
	})
}

// inputPath picks the positional file argument over the configured input.
func inputPath(cfg *config.Config, args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return cfg.Input
}

func getLogger(cmd *cobra.Command) *slog.Logger {
	return config.GetLogger(cmd.Context())
}
