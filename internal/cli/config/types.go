// Package config provides configuration management for the calibrate CLI.
//
// Values are layered from built-in defaults, an optional calibrate.yaml file,
// CALIBRATE_* environment variables and explicitly set command-line flags, in
// increasing order of precedence.
package config

import (
	"github.com/leapstack-labs/calibrate/internal/report"
	"github.com/leapstack-labs/calibrate/internal/solver"
)

// Config holds all CLI configuration options.
type Config struct {
	// Input is the equation file solved when no path is given on the command line.
	Input string `koanf:"input"`
	// Operators is the alphabet searched between operands.
	Operators []solver.Operator `koanf:"operators"`
	// Overflow is the u64 overflow policy used while evaluating.
	Overflow solver.OverflowPolicy `koanf:"overflow"`
	// Workers is the number of equations evaluated concurrently (0 = one per CPU).
	Workers      int         `koanf:"workers"`
	Verbose      bool        `koanf:"verbose"`
	OutputFormat report.Mode `koanf:"output"`

	// ProjectRoot is the directory relative input paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultInput     = "input.txt"
	DefaultOverflow  = "check"
	DefaultWorkers   = 1
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	EnvPrefix        = "CALIBRATE_"
	DefaultConfigYML = "calibrate.yml"
	DefaultConfig    = "calibrate.yaml"
)

// DefaultOperatorNames is the default alphabet in configuration form.
var DefaultOperatorNames = []string{"add", "mul", "concat"}

// Default returns the configuration used when nothing is loaded.
func Default() *Config {
	return &Config{
		Input:        DefaultInput,
		Operators:    append([]solver.Operator(nil), solver.DefaultOperators...),
		Overflow:     solver.Check,
		Workers:      DefaultWorkers,
		OutputFormat: report.ModeAuto,
	}
}

// EvaluatorOptions converts the configuration into solver options.
func (c *Config) EvaluatorOptions() []solver.Option {
	return []solver.Option{
		solver.WithOperators(c.Operators...),
		solver.WithPolicy(c.Overflow),
	}
}
