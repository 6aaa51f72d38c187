// Package polylog evaluates the polylogarithm Li_s(z) = Σ_{k>=1} z^k / k^s by
// direct power-series summation inside the unit disc.
package polylog

import (
	"math"

	apperrors "github.com/agbru/hassecalc/internal/errors"
)

const (
	// DefaultMaxTerms is the series length used by Li.
	DefaultMaxTerms = 1000

	// RelativeTolerance stops the summation once the latest term is smaller
	// than this fraction of the running sum.
	RelativeTolerance = 1e-16
)

// Result describes one series evaluation.
type Result struct {
	// Value is the partial sum.
	Value float64
	// Terms is the number of terms added.
	Terms int
	// Converged is false when the series ran to the term limit.
	Converged bool
}

// Li returns Li_s(z) using at most DefaultMaxTerms terms.
func Li(s, z float64) (float64, error) {
	return LiN(s, z, DefaultMaxTerms)
}

// LiN returns Li_s(z) using at most maxTerms terms.
func LiN(s, z float64, maxTerms int) (float64, error) {
	res, err := Evaluate(s, z, maxTerms)
	return res.Value, err
}

// Evaluate sums the polylogarithm series for |z| < 1.
//
// The summation stops early once |term| < RelativeTolerance·|sum|. No
// acceleration is applied, so convergence slows as |z| approaches 1.
//
// Parameters:
//   - s: The order, any finite real.
//   - z: The argument, |z| < 1.
//   - maxTerms: The maximum number of terms, at least 1.
//
// Returns:
//   - Result: The partial sum and how it terminated.
//   - error: A DomainError for |z| >= 1, non-finite input or maxTerms < 1.
func Evaluate(s, z float64, maxTerms int) (Result, error) {
	if math.IsNaN(s) || math.IsInf(s, 0) || math.IsNaN(z) {
		return Result{}, apperrors.NewDomainError("polylog", "arguments must be finite", [2]float64{s, z})
	}
	if math.Abs(z) >= 1 {
		return Result{}, apperrors.NewDomainError("polylog", "series requires |z| < 1", z)
	}
	if maxTerms < 1 {
		return Result{}, apperrors.NewDomainError("polylog", "term limit must be positive", maxTerms)
	}
	if z == 0 {
		return Result{Converged: true}, nil
	}

	var sum float64
	power := 1.0
	for k := 1; k <= maxTerms; k++ {
		power *= z
		term := power / math.Pow(float64(k), s)
		sum += term
		if math.Abs(term) < RelativeTolerance*math.Abs(sum) {
			return Result{Value: sum, Terms: k, Converged: true}, nil
		}
	}
	return Result{Value: sum, Terms: maxTerms, Converged: false}, nil
}
