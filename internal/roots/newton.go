// Package roots locates zeros of the digamma function and of the Bessel
// functions of the first kind by Newton iteration.
package roots

import (
	"fmt"
	"math"

	apperrors "github.com/agbru/hassecalc/internal/errors"
)

var (
	// ErrZeroDerivative is returned when the derivative vanishes at an iterate.
	ErrZeroDerivative = fmt.Errorf("%w: zero derivative", apperrors.ErrDegenerate)
	// ErrNoConvergence is returned when the iteration does not settle.
	ErrNoConvergence = fmt.Errorf("%w: no convergence", apperrors.ErrDegenerate)
)

const (
	// MinDerivative is the smallest derivative magnitude Newton divides by.
	MinDerivative = 1e-300
	// DefaultTolerance is the relative step size at which Newton stops.
	DefaultTolerance = 1e-12
	// DefaultMaxIterations bounds the Newton iteration.
	DefaultMaxIterations = 50
)

// Func is a real function that may fail, such as an operator-backed
// evaluation outside its domain.
type Func func(x float64) (float64, error)

// Newton refines x0 to a zero of f.
//
// The iteration stops once |Δx| <= tol·max(1, |x|).
//
// Parameters:
//   - f: The function whose zero is sought.
//   - df: The derivative of f.
//   - x0: The initial guess.
//   - tol: The relative step tolerance, > 0.
//   - maxIter: The iteration limit, >= 1.
//
// Returns:
//   - float64: The last iterate.
//   - error: ErrZeroDerivative, ErrNoConvergence, a DomainError for bad
//     arguments, or the error of f or df.
func Newton(f, df Func, x0, tol float64, maxIter int) (float64, error) {
	if !(tol > 0) || maxIter < 1 {
		return 0, apperrors.NewDomainError("roots.newton", "tolerance must be positive and maxIter at least 1", fmt.Sprintf("tol=%g maxIter=%d", tol, maxIter))
	}
	x := x0
	for i := 0; i < maxIter; i++ {
		fx, err := f(x)
		if err != nil {
			return x, apperrors.WrapError(err, "newton iteration %d at %g", i, x)
		}
		dfx, err := df(x)
		if err != nil {
			return x, apperrors.WrapError(err, "newton iteration %d at %g", i, x)
		}
		if math.Abs(dfx) < MinDerivative || math.IsNaN(dfx) {
			return x, fmt.Errorf("%w at %g", ErrZeroDerivative, x)
		}
		step := fx / dfx
		x -= step
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return x, fmt.Errorf("%w: iterate diverged after %d steps", ErrNoConvergence, i+1)
		}
		if math.Abs(step) <= tol*math.Max(1, math.Abs(x)) {
			return x, nil
		}
	}
	return x, fmt.Errorf("%w within %d iterations", ErrNoConvergence, maxIter)
}
