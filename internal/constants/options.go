package constants

import (
	"github.com/agbru/hassecalc/internal/combinatorics"
)

const (
	// DefaultPrecision is the target precision used when none is requested.
	DefaultPrecision = 1e-12
	// StieltjesIndexCeiling is the largest index whose γ_k both routes deliver
	// within 1e-8 in float64. Past it the log-power samples ln^{k+1}(N+n)
	// lose more digits to rounding than γ_k has.
	StieltjesIndexCeiling = 10
	// DefaultMaxStieltjesIndex bounds the Stieltjes index accepted by default.
	DefaultMaxStieltjesIndex = StieltjesIndexCeiling
	// EulerMaclaurinShift is the head length N of the Euler–Maclaurin route.
	EulerMaclaurinShift = 10
	// MaxEulerMaclaurinTerms caps the number of Bernoulli correction terms.
	MaxEulerMaclaurinTerms = 8
)

// Options configures an extraction.
type Options struct {
	// Precision is the requested absolute precision ε, 0 < ε < 1.
	// If 0, DefaultPrecision is used.
	Precision float64
	// MaxStieltjesIndex bounds k for γ_k. If 0, DefaultMaxStieltjesIndex is
	// used; values above StieltjesIndexCeiling are lowered to it.
	MaxStieltjesIndex int
	// Tables is the memoization context. If nil, the process-wide one is used.
	Tables *combinatorics.Tables
}

// normalizeOptions returns a copy of opts with default values filled in for zero values.
//
// Parameters:
//   - opts: The options to normalize.
//
// Returns:
//   - Options: A normalized copy of opts with defaults applied.
func normalizeOptions(opts Options) Options {
	normalized := opts
	if normalized.Precision == 0 {
		normalized.Precision = DefaultPrecision
	}
	if normalized.MaxStieltjesIndex == 0 {
		normalized.MaxStieltjesIndex = DefaultMaxStieltjesIndex
	}
	normalized.MaxStieltjesIndex = min(normalized.MaxStieltjesIndex, StieltjesIndexCeiling)
	if normalized.Tables == nil {
		normalized.Tables = combinatorics.Default()
	}
	return normalized
}
