package constants

import (
	"time"

	"github.com/agbru/hassecalc/internal/hasse"
)

// Family groups extractors that compute the same mathematical function.
// Results of one family are comparable across extractors.
type Family string

const (
	FamilyStieltjes Family = "stieltjes"
	FamilyZeta      Family = "zeta"
	FamilyDigamma   Family = "digamma"
)

// Result is the outcome of one extraction.
type Result struct {
	// Name is the extractor that produced the value.
	Name string
	// Family is the function family.
	Family Family
	// Argument is k for γ_k, s for ζ(s) or x for ψ(x).
	Argument float64
	// Value is the extracted constant.
	Value float64
	// Order is the truncation order M, or the number of Bernoulli terms for
	// the Euler–Maclaurin route.
	Order int
	// Shift is the evaluation shift N.
	Shift int
	// Precision is the requested precision.
	Precision float64
	// Clamped reports that the stability ceiling lowered the order.
	Clamped bool
	// RoundingBound estimates the rounding error of the contraction.
	RoundingBound float64
	// Unstable reports that RoundingBound exceeds the requested precision.
	Unstable bool
	// Diagnostics describes the coefficient array, when one was used.
	Diagnostics hasse.Diagnostics
	// Duration is the wall time of the extraction.
	Duration time.Duration
}
