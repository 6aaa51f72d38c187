// Package combinatorics implements the memoized integer and real sequences the
// coefficient engine is built from: binomial coefficients, three-parameter
// generalized Stirling numbers and exact Bernoulli numbers.
package combinatorics

import (
	"math/big"
	"sync"

	"github.com/agbru/hassecalc/internal/memo"
)

type binomialKey struct{ n, k int }

type stirlingKey struct {
	n, k           int
	alpha, beta, r float64
}

// Tables owns the memoization caches for one computation context. The zero
// value is not usable; create one with NewTables or use Default.
type Tables struct {
	binomials *memo.Cache[binomialKey, *big.Int]
	stirling  *memo.Cache[stirlingKey, float64]
	bernoulli *memo.Cache[int, *big.Rat]
}

// TablesStats aggregates the statistics of every cache in a Tables.
type TablesStats struct {
	Binomial  memo.Stats
	Stirling  memo.Stats
	Bernoulli memo.Stats
}

// NewTables creates a table context whose caches each hold at most capacity
// entries. A non-positive capacity selects memo.DefaultCapacity.
func NewTables(capacity int) *Tables {
	if capacity < 1 {
		capacity = memo.DefaultCapacity
	}
	return &Tables{
		binomials: memo.MustNew[binomialKey, *big.Int](capacity),
		stirling:  memo.MustNew[stirlingKey, float64](capacity),
		bernoulli: memo.MustNew[int, *big.Rat](capacity),
	}
}

var (
	defaultTables     *Tables
	defaultTablesOnce sync.Once
	defaultCapacity   = memo.DefaultCapacity
	defaultTablesMu   sync.Mutex
)

// Default returns the process-wide table context.
func Default() *Tables {
	defaultTablesOnce.Do(func() {
		defaultTablesMu.Lock()
		defer defaultTablesMu.Unlock()
		defaultTables = NewTables(defaultCapacity)
	})
	return defaultTables
}

// SetDefaultCapacity configures the capacity used when Default is first
// called. It has no effect once the default context exists; call it during
// startup.
func SetDefaultCapacity(capacity int) {
	defaultTablesMu.Lock()
	defer defaultTablesMu.Unlock()
	if capacity > 0 {
		defaultCapacity = capacity
	}
}

// ResetDefault clears every cache of the process-wide context.
func ResetDefault() {
	Default().Reset()
}

// Reset clears all caches and their counters.
func (t *Tables) Reset() {
	t.binomials.Reset()
	t.stirling.Reset()
	t.bernoulli.Reset()
}

// Stats returns a snapshot of every cache.
func (t *Tables) Stats() TablesStats {
	return TablesStats{
		Binomial:  t.binomials.Stats(),
		Stirling:  t.stirling.Stats(),
		Bernoulli: t.bernoulli.Stats(),
	}
}
