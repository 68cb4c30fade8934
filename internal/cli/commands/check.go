package commands

import (
	"github.com/leapstack-labs/calibrate/internal/calibration"
	"github.com/leapstack-labs/calibrate/internal/report"
	"github.com/spf13/cobra"
)

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	var failuresOnly bool

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Parse an equation file without solving it",
		Long: `Parse every line of an equation file and show how it was understood.

Non-numeric operand tokens are dropped rather than rejecting the line, so this
is the quickest way to see which operands an equation actually ended up with.`,
		Example: `  # Show how each line of input.txt parses
  calibrate check

  # Only list lines that could not be parsed
  calibrate check puzzle.txt --failures-only`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig(cmd)
			runner, err := newRunner(cmd, cfg)
			if err != nil {
				return err
			}
			data, err := runner.Load(inputPath(cfg, args))
			if err != nil {
				return err
			}
			return newRenderer(cmd, cfg).Check(calibration.ParseAll(data), report.Options{FailuresOnly: failuresOnly})
		},
	}

	cmd.Flags().BoolVar(&failuresOnly, "failures-only", false, "Only list lines that failed to parse")

	return cmd
}
