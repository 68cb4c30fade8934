package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/leapstack-labs/calibrate/internal/report"
	"github.com/spf13/cobra"
)

// SolveOptions holds options for the solve command.
type SolveOptions struct {
	Watch        bool
	Debounce     time.Duration
	FailuresOnly bool
	SummaryOnly  bool
}

// NewSolveCommand creates the solve command.
func NewSolveCommand() *cobra.Command {
	opts := &SolveOptions{}

	cmd := &cobra.Command{
		Use:   "solve [file]",
		Short: "Sum the targets of all satisfiable equations in a file",
		Long: `Read calibration equations ("<target>: <operand> <operand> ...") and, for each one,
try every assignment of operators between consecutive operands, evaluated left to right.
The targets of all equations with at least one matching assignment are summed.

Lines that cannot be parsed are reported and skipped. When no file is given the
configured input (default: input.txt) is used.`,
		Example: `  # Solve the default input file
  calibrate solve

  # Solve a specific file with only addition and multiplication
  calibrate solve puzzle.txt --operators add,mul

  # Evaluate equations on every CPU and print JSON
  calibrate solve puzzle.txt --workers 0 -o json

  # Re-solve whenever the file changes
  calibrate solve puzzle.txt --watch`,
		Aliases: []string{"run"},
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-solve when the input file changes")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 100*time.Millisecond, "Delay before re-solving after a change in watch mode")
	cmd.Flags().BoolVar(&opts.FailuresOnly, "failures-only", false, "Only list lines that failed to parse")
	cmd.Flags().BoolVar(&opts.SummaryOnly, "summary", false, "Only print the summary")

	return cmd
}

func runSolve(cmd *cobra.Command, args []string, opts *SolveOptions) error {
	cfg := getConfig(cmd)
	path := inputPath(cfg, args)

	runner, err := newRunner(cmd, cfg)
	if err != nil {
		return err
	}
	renderer := newRenderer(cmd, cfg)
	renderOpts := report.Options{FailuresOnly: opts.FailuresOnly, SummaryOnly: opts.SummaryOnly}

	solveOnce := func(ctx context.Context) error {
		rep, err := runner.RunFile(ctx, path)
		if err != nil {
			return err
		}
		return renderer.Report(rep, renderOpts)
	}

	if !opts.Watch {
		return solveOnce(cmd.Context())
	}

	ctx := cmd.Context()
	logger := getLogger(cmd)
	if err := solveOnce(ctx); err != nil {
		// A missing file may still appear later; keep watching.
		_, _ = fmt.Fprintf(renderer.ErrWriter(), "Error: %v\n", err)
	}
	watcher, err := newFileWatcher(path, logger)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	_, _ = fmt.Fprintf(renderer.ErrWriter(), "Watching %s for changes (Ctrl+C to stop)\n", path)
	return watcher.Run(ctx, opts.Debounce, func() {
		if err := solveOnce(ctx); err != nil && ctx.Err() == nil {
			_, _ = fmt.Fprintf(renderer.ErrWriter(), "Error: %v\n", err)
		}
	})
}
