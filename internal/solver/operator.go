package solver

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// Operator is a binary operator placed between two consecutive operands.
type Operator uint8

// Operators in enumeration order. The value of each is its digit in the
// assignment counter when the default alphabet is used.
const (
	Add Operator = iota
	Multiply
	Concatenate
)

// DefaultOperators is the full alphabet searched unless configured otherwise.
var DefaultOperators = []Operator{Add, Multiply, Concatenate}

func (o Operator) String() string {
	switch o {
	case Add:
		return "add"
	case Multiply:
		return "mul"
	case Concatenate:
		return "concat"
	default:
		return fmt.Sprintf("Operator(%d)", uint8(o))
	}
}

// Symbol returns the infix symbol used when rendering expressions.
func (o Operator) Symbol() string {
	switch o {
	case Add:
		return "+"
	case Multiply:
		return "*"
	case Concatenate:
		return "||"
	default:
		return "?"
	}
}

// ParseOperator accepts an operator name or symbol, case-insensitively.
func ParseOperator(s string) (Operator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "add", "+", "plus":
		return Add, nil
	case "mul", "*", "multiply", "times":
		return Multiply, nil
	case "concat", "||", "concatenate", "cat":
		return Concatenate, nil
	default:
		return 0, fmt.Errorf("unknown operator %q (expected add, mul or concat)", s)
	}
}

// ParseOperators parses a list of operator names and rejects duplicates.
func ParseOperators(names []string) ([]Operator, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("at least one operator is required")
	}
	seen := make(map[Operator]bool, len(names))
	ops := make([]Operator, 0, len(names))
	for _, name := range names {
		op, err := ParseOperator(name)
		if err != nil {
			return nil, err
		}
		if seen[op] {
			return nil, fmt.Errorf("operator %q listed more than once", op)
		}
		seen[op] = true
		ops = append(ops, op)
	}
	return ops, nil
}

// OverflowPolicy decides what happens when a step leaves the u64 range.
type OverflowPolicy uint8

const (
	// Check treats an overflowing step as a dead end: the assignment cannot match.
	Check OverflowPolicy = iota
	// Wrap uses modular arithmetic for Add and Multiply, and yields 0 when a
	// concatenation does not fit.
	Wrap
)

func (p OverflowPolicy) String() string {
	switch p {
	case Check:
		return "check"
	case Wrap:
		return "wrap"
	default:
		return fmt.Sprintf("OverflowPolicy(%d)", uint8(p))
	}
}

// ParsePolicy parses "check" or "wrap".
func ParsePolicy(s string) (OverflowPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "check", "":
		return Check, nil
	case "wrap":
		return Wrap, nil
	default:
		return 0, fmt.Errorf("unknown overflow policy %q (expected check or wrap)", s)
	}
}

// Apply computes a op b. The boolean is false when the step overflowed under Check.
func Apply(op Operator, a, b uint64, policy OverflowPolicy) (uint64, bool) {
	switch op {
	case Add:
		sum, carry := bits.Add64(a, b, 0)
		if carry != 0 && policy == Check {
			return 0, false
		}
		return sum, true
	case Multiply:
		hi, lo := bits.Mul64(a, b)
		if hi != 0 && policy == Check {
			return 0, false
		}
		return lo, true
	case Concatenate:
		v, err := strconv.ParseUint(strconv.FormatUint(a, 10)+strconv.FormatUint(b, 10), 10, 64)
		if err != nil {
			if policy == Check {
				return 0, false
			}
			return 0, true
		}
		return v, true
	default:
		return 0, false
	}
}
