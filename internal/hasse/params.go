// Package hasse builds generalized Hasse coefficient arrays and contracts them
// against samples of a target function.
//
// For the standard triple (α, β, r) = (0, 1, 0) the contraction is the
// classical Hasse operator
//
//	T[f](x) = Σ_{m=0..M} 1/(m+1) Σ_{n=0..m} (-1)^n C(m,n) f(x+n)
//
// which formally equals ln(1+Δ)/Δ applied to f. It maps x^k to the Bernoulli
// polynomial B_k(x), ln to the digamma function ψ, and t^(1-s) to
// (s-1)·ζ(s, x). Other triples select the neighbouring members of the
// generalized Stirling family.
//
// The constant extractors only build the standard triple, evaluated at a
// shifted point. Non-standard triples serve the Stirling-backed builder and
// its cross-checks.
package hasse

import (
	"errors"
	"fmt"
	"math"

	"github.com/agbru/hassecalc/internal/combinatorics"
)

var (
	// ErrInvalidOrder is returned for a negative truncation order.
	ErrInvalidOrder = errors.New("hasse: truncation order must be non-negative")
	// ErrOrderTooLarge is returned when the order exceeds MaxOrder.
	ErrOrderTooLarge = errors.New("hasse: truncation order exceeds ceiling")
	// ErrInvalidParams is returned for non-finite parameter triples.
	ErrInvalidParams = errors.New("hasse: parameters must be finite")
)

// MaxOrder is the largest truncation order Build accepts. Beyond it the
// standard-triple coefficients leave the float64 range.
const MaxOrder = 512

// Params is the (α, β, r) triple selecting a member of the coefficient family.
// The array rows obey
//
//	H(m,n) = m/(m+1) · (w(m,n)·H(m-1,n) − H(m-1,n-1)),  w(m,n) = β + r·n − α·(m-1)
type Params struct {
	Alpha float64
	Beta  float64
	R     float64
}

// Standard is the triple of the classical Hasse operator.
var Standard = Params{Alpha: 0, Beta: 1, R: 0}

// IsStandard reports whether p is the classical triple.
func (p Params) IsStandard() bool { return p == Standard }

// Validate rejects NaN and infinite components.
func (p Params) Validate() error {
	for _, v := range []float64{p.Alpha, p.Beta, p.R} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s", ErrInvalidParams, p)
		}
	}
	return nil
}

// Stirling returns the Stirling triple whose numbers generate this array:
// H(m,n) = (-1)^n · S(m, n; α, r, β) / (m+1). The roles of β and r swap.
func (p Params) Stirling() combinatorics.StirlingParams {
	return combinatorics.StirlingParams{Alpha: p.Alpha, Beta: p.R, R: p.Beta}
}

// weight is w(m, n) of the row recurrence.
func (p Params) weight(m, n int) float64 {
	return p.Beta + p.R*float64(n) - p.Alpha*float64(m-1)
}

// String formats the triple.
func (p Params) String() string {
	return fmt.Sprintf("(α=%g, β=%g, r=%g)", p.Alpha, p.Beta, p.R)
}
