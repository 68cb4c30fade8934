// Package solver searches operator assignments that make a calibration equation true.
//
// Every assignment of the configured operator alphabet to the gaps between
// operands is enumerated as a base-k counter (k = alphabet size) and evaluated
// strictly left to right. There is no pruning: the number of evaluations for an
// equation with n operands is always k^(n-1).
package solver

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math/bits"
	"slices"
	"strconv"
	"strings"

	"github.com/leapstack-labs/calibrate/internal/equation"
)

// ErrSearchTooLarge is returned when the number of assignments does not fit in a uint64.
var ErrSearchTooLarge = errors.New("search space exceeds 2^64 assignments")

// cancelCheckInterval is how many evaluations run between context checks.
const cancelCheckInterval = 1 << 16

// Assignment holds one operator per gap; index j sits between operand j and j+1.
type Assignment []Operator

func (a Assignment) String() string {
	parts := make([]string, len(a))
	for i, op := range a {
		parts[i] = op.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Result summarises the search over one equation.
type Result struct {
	Target    uint64
	Evaluated uint64
	Matches   uint64
	// First is the first matching assignment in enumeration order, nil if none.
	First Assignment
}

// Satisfiable reports whether at least one assignment reproduced the target.
func (r Result) Satisfiable() bool {
	return r.Matches > 0
}

// Evaluator enumerates and evaluates operator assignments. It holds no mutable
// state and is safe for concurrent use.
type Evaluator struct {
	operators []Operator
	policy    OverflowPolicy
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithOperators sets the operator alphabet. Digit d of the assignment counter
// selects ops[d].
func WithOperators(ops ...Operator) Option {
	return func(e *Evaluator) {
		e.operators = slices.Clone(ops)
	}
}

// WithPolicy sets the overflow policy.
func WithPolicy(p OverflowPolicy) Option {
	return func(e *Evaluator) {
		e.policy = p
	}
}

// New creates an Evaluator over DefaultOperators with the Check policy unless overridden.
func New(opts ...Option) (*Evaluator, error) {
	e := &Evaluator{
		operators: slices.Clone(DefaultOperators),
		policy:    Check,
	}
	for _, opt := range opts {
		opt(e)
	}
	if len(e.operators) == 0 {
		return nil, fmt.Errorf("evaluator needs at least one operator")
	}
	for _, op := range e.operators {
		if op > Concatenate {
			return nil, fmt.Errorf("unsupported operator %v", op)
		}
	}
	if e.policy > Wrap {
		return nil, fmt.Errorf("unsupported overflow policy %v", e.policy)
	}
	return e, nil
}

// Operators returns a copy of the alphabet.
func (e *Evaluator) Operators() []Operator {
	return slices.Clone(e.operators)
}

// Policy returns the overflow policy.
func (e *Evaluator) Policy() OverflowPolicy {
	return e.policy
}

// Combinations returns k^gaps, the number of assignments for the given gap count.
func (e *Evaluator) Combinations(gaps int) (uint64, error) {
	if gaps < 0 {
		return 0, fmt.Errorf("negative gap count %d", gaps)
	}
	k := uint64(len(e.operators))
	total := uint64(1)
	for range gaps {
		hi, lo := bits.Mul64(total, k)
		if hi != 0 {
			return 0, fmt.Errorf("%w: %d operators over %d gaps", ErrSearchTooLarge, k, gaps)
		}
		total = lo
	}
	return total, nil
}

// decode fills dst with the operators encoded by counter, least-significant digit first.
func (e *Evaluator) decode(counter uint64, dst Assignment) {
	k := uint64(len(e.operators))
	for j := range dst {
		dst[j] = e.operators[counter%k]
		counter /= k
	}
}

// Assignments yields every assignment for the given gap count in counter order.
// The yielded slice is reused between iterations; clone it to keep it.
// Nothing is yielded if the search space is too large; use Combinations to check first.
func (e *Evaluator) Assignments(gaps int) iter.Seq[Assignment] {
	return func(yield func(Assignment) bool) {
		total, err := e.Combinations(gaps)
		if err != nil {
			return
		}
		buf := make(Assignment, gaps)
		for i := uint64(0); i < total; i++ {
			e.decode(i, buf)
			if !yield(buf) {
				return
			}
		}
	}
}

// Evaluate folds operands left to right with the given assignment. It returns
// false if a step overflowed under the Check policy.
func (e *Evaluator) Evaluate(operands []uint64, a Assignment) (uint64, bool) {
	if len(operands) == 0 {
		return 0, false
	}
	if len(a) != len(operands)-1 {
		return 0, false
	}
	result := operands[0]
	for j := 1; j < len(operands); j++ {
		var ok bool
		result, ok = Apply(a[j-1], result, operands[j], e.policy)
		if !ok {
			return 0, false
		}
	}
	return result, true
}

// Count evaluates every assignment for eq and counts those equal to the target.
// It never stops early on a match; only ctx cancellation ends the search sooner.
func (e *Evaluator) Count(ctx context.Context, eq equation.Equation) (Result, error) {
	res := Result{Target: eq.Target}
	if len(eq.Operands) == 0 {
		return res, fmt.Errorf("equation %d has no operands", eq.Target)
	}
	if _, err := e.Combinations(eq.Gaps()); err != nil {
		return res, err
	}

	for a := range e.Assignments(eq.Gaps()) {
		if res.Evaluated%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}
		res.Evaluated++
		v, ok := e.Evaluate(eq.Operands, a)
		if !ok || v != eq.Target {
			continue
		}
		if res.Matches == 0 {
			res.First = slices.Clone(a)
		}
		res.Matches++
	}
	return res, nil
}

// Solutions yields each matching assignment in enumeration order. Yielded
// assignments are independent copies.
func (e *Evaluator) Solutions(eq equation.Equation) iter.Seq[Assignment] {
	return func(yield func(Assignment) bool) {
		if len(eq.Operands) == 0 {
			return
		}
		for a := range e.Assignments(eq.Gaps()) {
			v, ok := e.Evaluate(eq.Operands, a)
			if !ok || v != eq.Target {
				continue
			}
			if !yield(slices.Clone(a)) {
				return
			}
		}
	}
}

// Format renders the operands joined by the assignment's symbols, e.g. "81 * 40 + 27".
func Format(operands []uint64, a Assignment) string {
	var b strings.Builder
	for i, v := range operands {
		if i > 0 {
			b.WriteByte(' ')
			if i-1 < len(a) {
				b.WriteString(a[i-1].Symbol())
			} else {
				b.WriteByte('?')
			}
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatUint(v, 10))
	}
	return b.String()
}
