// Package calibration drives the equation search over an input file and
// accumulates the total of all satisfiable targets.
package calibration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/bits"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/calibrate/internal/equation"
	"github.com/leapstack-labs/calibrate/internal/solver"
	"golang.org/x/sync/errgroup"
)

// ErrInputUnreadable is returned when the input file cannot be read.
var ErrInputUnreadable = errors.New("cannot read input")

// Config configures a Runner.
type Config struct {
	Evaluator *solver.Evaluator
	Logger    *slog.Logger
	// Workers is the number of lines evaluated concurrently. 1 runs
	// sequentially, 0 uses one worker per CPU.
	Workers int
}

// Runner evaluates every line of an input and sums satisfiable targets.
type Runner struct {
	eval    *solver.Evaluator
	logger  *slog.Logger
	workers int
}

// NewRunner creates a Runner. A nil evaluator gets the default alphabet and policy.
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}

	eval := cfg.Evaluator
	if eval == nil {
		var err error
		eval, err = solver.New()
		if err != nil {
			return nil, err
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	return &Runner{eval: eval, logger: logger, workers: workers}, nil
}

// Load reads the whole input into memory.
func (r *Runner) Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrInputUnreadable, path, err)
	}
	return string(data), nil
}

// RunFile loads path and runs every line in it.
func (r *Runner) RunFile(ctx context.Context, path string) (*Report, error) {
	data, err := r.Load(path)
	if err != nil {
		r.logger.Debug("failed to read input", "path", path, "error", err)
		return nil, err
	}
	return r.Run(ctx, path, data)
}

// Run parses and evaluates each line of data. Unparseable lines are recorded
// and skipped. source is only used for reporting.
//
// The total follows the evaluator's overflow policy: under Wrap it is summed
// modulo 2^64, under Check a target that would overflow it is left out and its
// line is marked with TotalOverflow. Only cancellation makes Run fail.
func (r *Runner) Run(ctx context.Context, source, data string) (*Report, error) {
	start := time.Now()
	report := &Report{
		RunID:     uuid.NewString(),
		Input:     source,
		Operators: r.eval.Operators(),
		Policy:    r.eval.Policy(),
	}
	logger := r.logger.With("run_id", report.RunID)
	logger.Debug("starting calibration", "input", source, "workers", r.workers)

	for n, text := range equation.Lines(data) {
		report.Lines = append(report.Lines, LineResult{Number: n, Text: text})
	}

	if err := r.evaluate(ctx, report.Lines); err != nil {
		return nil, err
	}

	// Running totals are accumulated in line order regardless of how lines were evaluated.
	var total uint64
	for i := range report.Lines {
		line := &report.Lines[i]
		switch line.Status {
		case StatusFailed:
			report.Failed++
			logger.Warn("failed to parse line", "line", line.Number, "text", line.Text, "error", line.Err)
		case StatusSatisfiable:
			report.Satisfiable++
			sum, carry := bits.Add64(total, line.Equation.Target, 0)
			if carry != 0 && report.Policy == solver.Check {
				// The target stays out of the total; the line is flagged instead.
				line.TotalOverflow = true
				logger.Warn("calibration total overflows u64",
					"line", line.Number,
					"target", line.Equation.Target,
					"running_total", total,
				)
				break
			}
			total = sum
		}
		line.RunningTotal = total

		if line.Status != StatusFailed {
			logger.Debug("evaluated equation",
				"line", line.Number,
				"target", line.Equation.Target,
				"operands", line.Equation.Operands,
				"matches", line.Result.Matches,
				"evaluated", line.Result.Evaluated,
				"running_total", total,
			)
		}
	}

	report.Total = total
	report.Elapsed = time.Since(start)
	logger.Info("calibration complete",
		"lines", len(report.Lines),
		"satisfiable", report.Satisfiable,
		"failed", report.Failed,
		"total_overflows", len(report.OverflowLines()),
		"total", report.Total,
		"elapsed", report.Elapsed,
	)
	return report, nil
}

func (r *Runner) evaluate(ctx context.Context, lines []LineResult) error {
	if r.workers <= 1 {
		for i := range lines {
			if err := r.evaluateLine(ctx, &lines[i]); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range lines {
		g.Go(func() error {
			return r.evaluateLine(gctx, &lines[i])
		})
	}
	return g.Wait()
}

// evaluateLine fills in the parse and search outcome of one line. Only
// cancellation is returned as an error; everything else marks the line failed.
func (r *Runner) evaluateLine(ctx context.Context, line *LineResult) error {
	eq, err := equation.Parse(line.Text)
	if err != nil {
		line.Status = StatusFailed
		line.Err = err
		return nil
	}
	line.Equation = eq

	res, err := r.eval.Count(ctx, eq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		line.Status = StatusFailed
		line.Err = err
		return nil
	}
	line.Result = res
	if res.Satisfiable() {
		line.Status = StatusSatisfiable
	} else {
		line.Status = StatusUnsatisfiable
	}
	return nil
}
