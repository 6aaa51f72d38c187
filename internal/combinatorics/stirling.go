package combinatorics

import (
	"errors"
	"fmt"
	"math"
)

// ─────────────────────────────────────────────────────────────────────────────
// Generalized Stirling Numbers
// ─────────────────────────────────────────────────────────────────────────────

// MaxStirlingOrder bounds the triangle size accepted by StirlingTriangle.
// Past this order the float64 entries overflow for most parameter triples.
const MaxStirlingOrder = 512

// ErrOrderTooLarge is returned when a requested triangle exceeds MaxStirlingOrder.
var ErrOrderTooLarge = errors.New("combinatorics: order exceeds stirling ceiling")

// StirlingParams selects a member of the three-parameter Stirling family
// S(n, k; α, β, r) defined by
//
//	S(0, 0) = 1
//	S(n, k) = S(n-1, k-1) + (β·k − α·(n-1) + r)·S(n-1, k)
//
// (0, 1, 0) yields the second kind, (1, 0, 0) the signed first kind and
// (0, 1, r) the r-Stirling numbers shifted by r.
type StirlingParams struct {
	Alpha float64
	Beta  float64
	R     float64
}

// Classical is the triple of the Stirling numbers of the second kind.
var Classical = StirlingParams{Alpha: 0, Beta: 1, R: 0}

// IsClassical reports whether p is the second-kind triple.
func (p StirlingParams) IsClassical() bool { return p == Classical }

// Weight returns the multiplier of S(n-1, k) in the step that produces row n.
func (p StirlingParams) Weight(n, k int) float64 {
	return p.Beta*float64(k) - p.Alpha*float64(n-1) + p.R
}

// GeneralizedStirling returns S(n, k; p) from the default table context.
func GeneralizedStirling(n, k int, p StirlingParams) float64 {
	return Default().GeneralizedStirling(n, k, p)
}

// StirlingTriangle returns rows 0..maxN from the default table context.
func StirlingTriangle(maxN int, p StirlingParams) ([][]float64, error) {
	return Default().StirlingTriangle(maxN, p)
}

// GeneralizedStirling returns S(n, k; α, β, r).
//
// Indices outside 0 <= k <= n yield 0. The value is computed bottom-up over
// columns 0..k only, since column k never depends on later columns.
//
// Parameters:
//   - n: The row index.
//   - k: The column index.
//   - p: The parameter triple.
//
// Returns:
//   - float64: The Stirling number, or 0 outside the triangle.
func (t *Tables) GeneralizedStirling(n, k int, p StirlingParams) float64 {
	if n < 0 || k < 0 || k > n {
		return 0
	}
	if p.IsClassical() {
		switch {
		case k == 0:
			if n == 0 {
				return 1
			}
			return 0
		case k == n, k == 1:
			return 1
		}
	}
	key := stirlingKey{n: n, k: k, alpha: p.Alpha, beta: p.Beta, r: p.R}
	v, _ := t.stirling.GetOrCompute(key, func() (float64, error) {
		return stirlingColumnDP(n, k, p), nil
	})
	return v
}

// stirlingColumnDP runs the recurrence over rows 0..n, keeping columns 0..k.
func stirlingColumnDP(n, k int, p StirlingParams) float64 {
	row := make([]float64, k+1)
	row[0] = 1
	for i := 1; i <= n; i++ {
		top := min(i, k)
		for j := top; j >= 1; j-- {
			row[j] = row[j-1] + p.Weight(i, j)*row[j]
		}
		row[0] *= p.Weight(i, 0)
	}
	return row[k]
}

// StirlingTriangle computes the full triangle S(m, n; p) for 0 <= n <= m <= maxN
// and stores every entry in the cache.
//
// Returns:
//   - [][]float64: Row m holds m+1 entries.
//   - error: ErrOrderTooLarge or a non-finite parameter error.
func (t *Tables) StirlingTriangle(maxN int, p StirlingParams) ([][]float64, error) {
	if maxN < 0 {
		return nil, fmt.Errorf("combinatorics: negative order %d", maxN)
	}
	if maxN > MaxStirlingOrder {
		return nil, fmt.Errorf("%w: %d > %d", ErrOrderTooLarge, maxN, MaxStirlingOrder)
	}
	for _, v := range []float64{p.Alpha, p.Beta, p.R} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("combinatorics: non-finite parameter in %+v", p)
		}
	}

	rows := make([][]float64, maxN+1)
	rows[0] = []float64{1}
	for m := 1; m <= maxN; m++ {
		prev := rows[m-1]
		row := make([]float64, m+1)
		row[0] = p.Weight(m, 0) * prev[0]
		for n := 1; n <= m; n++ {
			var stay float64
			if n < m {
				stay = prev[n]
			}
			row[n] = prev[n-1] + p.Weight(m, n)*stay
		}
		rows[m] = row
	}

	for m, row := range rows {
		for n, v := range row {
			t.stirling.Add(stirlingKey{n: m, k: n, alpha: p.Alpha, beta: p.Beta, r: p.R}, v)
		}
	}
	return rows, nil
}
