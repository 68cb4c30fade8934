package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/calibrate/internal/report"
	"github.com/leapstack-labs/calibrate/internal/solver"
	"github.com/spf13/cobra"
)

const replPrompt = "calibrate> "

// lineReader is the part of readline.Instance the REPL loop uses.
type lineReader interface {
	Readline() (string, error)
}

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	var historyFile string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Explain equations interactively",
		Long: `Start an interactive session. Each equation entered is explained like
"calibrate explain" would. Type .help for commands, .quit to exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig(cmd)
			eval, err := newEvaluator(cfg)
			if err != nil {
				return err
			}

			if historyFile == "" {
				if home, err := os.UserHomeDir(); err == nil {
					historyFile = filepath.Join(home, ".calibrate_history")
				}
			}

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          replPrompt,
				HistoryFile:     historyFile,
				InterruptPrompt: "^C",
				EOFPrompt:       ".quit",
			})
			if err != nil {
				return fmt.Errorf("failed to initialize REPL: %w", err)
			}
			defer func() { _ = rl.Close() }()

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "calibrate REPL (operators %s, overflow %s)\n", operatorList(eval.Operators()), eval.Policy())
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
			_, _ = fmt.Fprintln(cmd.OutOrStdout())

			return runREPL(cmd, rl, eval, newRenderer(cmd, cfg))
		},
	}

	cmd.Flags().StringVar(&historyFile, "history", "", "History file (default: ~/.calibrate_history)")

	return cmd
}

func runREPL(cmd *cobra.Command, rl lineReader, eval *solver.Evaluator, r *report.Renderer) error {
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch line {
		case ".quit", ".exit":
			return nil
		case ".help":
			printREPLHelp(cmd.OutOrStdout())
			continue
		case ".operators":
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), operatorList(eval.Operators()))
			continue
		}

		if err := explain(cmd, eval, r, line); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}
}

func printREPLHelp(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Enter an equation such as \"3267: 81 40 27\" to list its solutions.")
	_, _ = fmt.Fprintln(w, "  .operators  Show the operator alphabet")
	_, _ = fmt.Fprintln(w, "  .help       Show this help")
	_, _ = fmt.Fprintln(w, "  .quit       Exit")
}

func operatorList(ops []solver.Operator) string {
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.String()
	}
	return strings.Join(names, ",")
}
