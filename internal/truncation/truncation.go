// Package truncation maps a requested precision to the truncation order and
// evaluation shift of a coefficient contraction.
//
// The rules are empirical. They are tuned against literature values and do not
// provide a formal error bound.
package truncation

import (
	"errors"
	"fmt"
	"math"
)

// ErrPrecision is returned for a precision outside (0, 1).
var ErrPrecision = errors.New("truncation: precision must be in (0, 1)")

// StabilityCeiling is the largest order the standard rules select. The
// column sums of the standard array grow like 2^M/M, so past this order the
// contraction loses more digits to rounding than it gains in truncation.
// Requests up to 1e-12 stay below it for every family.
const StabilityCeiling = 14

// Rule is a family-specific precision-to-truncation mapping. For d = log10(1/ε):
//
//	M = min(round(d·Scale·(1 + IndexScale·index)) + Offset, Ceiling)
//	N = round(d·ShiftScale) + ShiftOffset + ShiftPerIndex·index
type Rule struct {
	// Scale multiplies the requested digits.
	Scale float64
	// IndexScale grows the order with the constant's index.
	IndexScale float64
	// Offset is added to the scaled digits.
	Offset int
	// Ceiling caps the order; zero means no cap.
	Ceiling int
	// ShiftScale multiplies the digits for the evaluation shift.
	ShiftScale float64
	// ShiftOffset is added to the scaled shift.
	ShiftOffset int
	// ShiftPerIndex grows the shift with the constant's index.
	ShiftPerIndex int
}

// Plan is the outcome of a Rule for one request.
type Plan struct {
	// Order is the truncation order M.
	Order int
	// Shift is the evaluation point N of the shifted operator.
	Shift int
	// Digits is log10(1/ε).
	Digits float64
	// Clamped reports that the ceiling lowered the order.
	Clamped bool
}

// Family rules.
var (
	// Stieltjes serves γ_k. The samples ln^{k+1}(N+n) carry a relative
	// rounding error of about (k+1) ulps, so the rule keeps both the order
	// and the shift low and grows only the order with k. A larger shift
	// lowers the truncation error but raises every sample.
	Stieltjes = Rule{Scale: 0.6, IndexScale: 0.05, Offset: 2, Ceiling: StabilityCeiling, ShiftScale: 3, ShiftOffset: 10}
	// Zeta serves ζ(s) and the Hurwitz zeta function.
	Zeta = Rule{Scale: 1, Ceiling: StabilityCeiling, ShiftScale: 3, ShiftOffset: 5}
	// Digamma serves ψ and ψ'.
	Digamma = Rule{Scale: 1, Ceiling: StabilityCeiling, ShiftScale: 2, ShiftOffset: 10}
)

// Digits returns log10(1/eps).
func Digits(eps float64) (float64, error) {
	if math.IsNaN(eps) || eps <= 0 || eps >= 1 {
		return 0, fmt.Errorf("%w: got %g", ErrPrecision, eps)
	}
	return -math.Log10(eps), nil
}

// Plan selects the order and shift for precision eps and constant index.
//
// Parameters:
//   - eps: The requested precision, 0 < eps < 1.
//   - index: The family index (e.g. k for γ_k); negative values count as 0.
//
// Returns:
//   - Plan: The truncation order and shift.
//   - error: ErrPrecision for an out-of-range precision.
func (r Rule) Plan(eps float64, index int) (Plan, error) {
	d, err := Digits(eps)
	if err != nil {
		return Plan{}, err
	}
	index = max(index, 0)

	order := max(int(math.Round(d*r.Scale*(1+r.IndexScale*float64(index))))+r.Offset, 0)
	clamped := false
	if r.Ceiling > 0 && order > r.Ceiling {
		order = r.Ceiling
		clamped = true
	}
	shift := max(int(math.Round(d*r.ShiftScale))+r.ShiftOffset+r.ShiftPerIndex*index, 1)

	return Plan{Order: order, Shift: shift, Digits: d, Clamped: clamped}, nil
}

// Order returns only the truncation order of Plan.
func (r Rule) Order(eps float64, index int) (int, error) {
	p, err := r.Plan(eps, index)
	return p.Order, err
}
