package calibration

import (
	"fmt"
	"time"

	"github.com/leapstack-labs/calibrate/internal/equation"
	"github.com/leapstack-labs/calibrate/internal/solver"
)

// Status is the outcome of one input line.
type Status uint8

const (
	StatusFailed Status = iota
	StatusUnsatisfiable
	StatusSatisfiable
	// StatusParsed marks a line that parsed but was not searched.
	StatusParsed
)

func (s Status) String() string {
	switch s {
	case StatusFailed:
		return "failed"
	case StatusUnsatisfiable:
		return "unsatisfiable"
	case StatusSatisfiable:
		return "satisfiable"
	case StatusParsed:
		return "parsed"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// LineResult records what happened to a single input line.
type LineResult struct {
	Number   int
	Text     string
	Status   Status
	Equation equation.Equation
	Result   solver.Result
	// Err explains why the line failed. Nil unless Status is StatusFailed.
	Err error
	// RunningTotal is the sum of satisfiable targets up to and including this line.
	RunningTotal uint64
	// TotalOverflow is set on a satisfiable line whose target could not be
	// added to the running total under the check policy.
	TotalOverflow bool
}

// Report is the outcome of a calibration run.
type Report struct {
	RunID       string
	Input       string
	Operators   []solver.Operator
	Policy      solver.OverflowPolicy
	Lines       []LineResult
	Total       uint64
	Satisfiable int
	Failed      int
	Elapsed     time.Duration
}

// Unsatisfiable returns the number of parsed lines with no matching assignment.
func (r *Report) Unsatisfiable() int {
	return len(r.Lines) - r.Satisfiable - r.Failed
}

// OverflowLines returns the numbers of satisfiable lines left out of Total
// because adding them would overflow u64.
func (r *Report) OverflowLines() []int {
	var lines []int
	for _, l := range r.Lines {
		if l.TotalOverflow {
			lines = append(lines, l.Number)
		}
	}
	return lines
}

// Evaluated returns the total number of assignments evaluated across all lines.
func (r *Report) Evaluated() uint64 {
	var n uint64
	for _, l := range r.Lines {
		n += l.Result.Evaluated
	}
	return n
}

// ParseAll parses every line of data without searching. Lines that parse are
// marked StatusParsed, the rest StatusFailed.
func ParseAll(data string) []LineResult {
	var lines []LineResult
	for n, text := range equation.Lines(data) {
		line := LineResult{Number: n, Text: text, Status: StatusParsed}
		eq, err := equation.Parse(text)
		if err != nil {
			line.Status = StatusFailed
			line.Err = err
		}
		line.Equation = eq
		lines = append(lines, line)
	}
	return lines
}
