package config

import (
	"fmt"
	"slices"

	"github.com/leapstack-labs/calibrate/internal/report"
	"github.com/leapstack-labs/calibrate/internal/solver"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input is required")
	}
	if len(c.Operators) == 0 {
		return fmt.Errorf("at least one operator is required")
	}
	seen := make(map[solver.Operator]bool, len(c.Operators))
	for _, op := range c.Operators {
		if op > solver.Concatenate {
			return fmt.Errorf("unknown operator %v", op)
		}
		if seen[op] {
			return fmt.Errorf("operator %q listed more than once", op)
		}
		seen[op] = true
	}
	if c.Overflow != solver.Check && c.Overflow != solver.Wrap {
		return fmt.Errorf("unknown overflow policy %v", c.Overflow)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if !slices.Contains(report.Modes, c.OutputFormat) {
		return fmt.Errorf("unknown output format %q", c.OutputFormat)
	}
	return nil
}
