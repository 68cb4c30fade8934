// Package equation parses calibration equations of the form "<target>: <operand> <operand> ...".
package equation

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// ErrNoMatch is wrapped by every parse failure.
var ErrNoMatch = errors.New("line does not describe an equation")

// Parse failure reasons.
var (
	ErrEmptyLine        = fmt.Errorf("%w: empty line", ErrNoMatch)
	ErrMissingDelimiter = fmt.Errorf("%w: missing ':' delimiter", ErrNoMatch)
	ErrExtraDelimiter   = fmt.Errorf("%w: more than one ':' delimiter", ErrNoMatch)
	ErrInvalidTarget    = fmt.Errorf("%w: invalid target", ErrNoMatch)
	ErrNoOperands       = fmt.Errorf("%w: no operands", ErrNoMatch)
)

// Equation is a target value and the ordered operands that should produce it.
type Equation struct {
	Target   uint64
	Operands []uint64
}

// Gaps returns the number of operator positions between consecutive operands.
func (e Equation) Gaps() int {
	if len(e.Operands) == 0 {
		return 0
	}
	return len(e.Operands) - 1
}

func (e Equation) String() string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(e.Target, 10))
	b.WriteByte(':')
	for _, op := range e.Operands {
		b.WriteByte(' ')
		b.WriteString(strconv.FormatUint(op, 10))
	}
	return b.String()
}

// Parse converts one line into an Equation.
//
// The target must be a valid unsigned integer. Operand tokens that do not parse
// are dropped rather than failing the line, so "10: 1 2 three 4" yields [1 2 4].
// Numbers are plain digit sequences: a leading sign is not accepted.
func Parse(line string) (Equation, error) {
	if line == "" {
		return Equation{}, ErrEmptyLine
	}

	parts := strings.Split(line, ":")
	switch {
	case len(parts) < 2:
		return Equation{}, ErrMissingDelimiter
	case len(parts) > 2:
		return Equation{}, ErrExtraDelimiter
	}

	targetText := strings.TrimSpace(parts[0])
	target, err := strconv.ParseUint(targetText, 10, 64)
	if err != nil {
		return Equation{}, fmt.Errorf("%w %q", ErrInvalidTarget, targetText)
	}

	fields := strings.Fields(parts[1])
	operands := make([]uint64, 0, len(fields))
	for _, tok := range fields {
		v, err := strconv.ParseUint(tok, 10, 64)
		if err != nil {
			continue
		}
		operands = append(operands, v)
	}
	if len(operands) == 0 {
		return Equation{}, ErrNoOperands
	}

	return Equation{Target: target, Operands: operands}, nil
}

// MustParse is like Parse but panics on failure. Intended for tests and fixtures.
func MustParse(line string) Equation {
	eq, err := Parse(line)
	if err != nil {
		panic(fmt.Sprintf("equation.MustParse(%q): %v", line, err))
	}
	return eq
}

// Lines yields 1-based line numbers and the text of each newline-delimited line.
// A trailing newline does not produce an extra empty line and "\r\n" endings are accepted.
// Empty input has no lines; "\n" is a single empty line.
func Lines(data string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		if data == "" {
			return
		}
		data := strings.TrimSuffix(data, "\n")
		n := 0
		for line := range strings.SplitSeq(data, "\n") {
			n++
			if !yield(n, strings.TrimSuffix(line, "\r")) {
				return
			}
		}
	}
}
