package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/calibrate/internal/equation"
	"github.com/leapstack-labs/calibrate/internal/report"
	"github.com/leapstack-labs/calibrate/internal/solver"
	"github.com/spf13/cobra"
)

// NewExplainCommand creates the explain command.
func NewExplainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <equation>",
		Short: "Show every operator assignment that solves one equation",
		Long: `Evaluate a single equation and print each matching assignment as an expression.

Expressions are evaluated strictly left to right; "||" is decimal concatenation.`,
		Example: `  calibrate explain "3267: 81 40 27"
  calibrate explain "7290: 6 8 6 15" --operators add,mul`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig(cmd)
			eval, err := newEvaluator(cfg)
			if err != nil {
				return err
			}
			return explain(cmd, eval, newRenderer(cmd, cfg), strings.Join(args, " "))
		},
	}
}

func explain(cmd *cobra.Command, eval *solver.Evaluator, r *report.Renderer, line string) error {
	eq, err := equation.Parse(line)
	if err != nil {
		return fmt.Errorf("cannot explain %q: %w", line, err)
	}

	res, err := eval.Count(cmd.Context(), eq)
	if err != nil {
		return err
	}

	var solutions []solver.Assignment
	for a := range eval.Solutions(eq) {
		solutions = append(solutions, a)
	}

	return r.Explain(eq, res, solutions)
}
