package constants

import (
	"math"
	"math/big"

	"github.com/agbru/hassecalc/internal/combinatorics"
)

// eulerMaclaurin evaluates γ_k with head length n and p Bernoulli corrections.
// It also returns the sum of the absolute values of the terms, the scale of
// the accumulated rounding error.
func eulerMaclaurin(k, n, p int, tables *combinatorics.Tables) (value, magnitude float64) {
	tables = tablesOrDefault(tables)
	accumulate := func(v float64) {
		value += v
		magnitude += math.Abs(v)
	}

	accumulate(logHead(k, n))
	x := float64(n)
	l := math.Log(x)
	accumulate(-intPow(l, k+1) / float64(k+1))
	accumulate(intPow(l, k) / x / 2)

	// f^{(j)}(x) = P_j(ln x)/x^{j+1} with P_0 = L^k and
	// P_{j+1} = P_j' − (j+1)·P_j.
	poly := make([]float64, k+1)
	poly[k] = 1
	for j := 1; j <= 2*p-1; j++ {
		poly = derivePoly(poly, j)
		if j%2 == 0 {
			continue
		}
		m := j + 1
		deriv := evalPoly(poly, l) / math.Pow(x, float64(m))
		accumulate(-bernoulliOverFactorial(tables, m) * deriv)
	}
	return value, magnitude
}

// derivePoly maps P_{j-1} to P_j = P_{j-1}' − j·P_{j-1}. Coefficients are
// stored in ascending powers of L.
func derivePoly(poly []float64, j int) []float64 {
	next := make([]float64, len(poly))
	for i, c := range poly {
		next[i] -= float64(j) * c
		if i > 0 {
			next[i-1] += float64(i) * c
		}
	}
	return next
}

// evalPoly evaluates the polynomial at l by Horner's rule.
func evalPoly(poly []float64, l float64) float64 {
	v := 0.0
	for i := len(poly) - 1; i >= 0; i-- {
		v = v*l + poly[i]
	}
	return v
}

// bernoulliOverFactorial returns B_m/m! computed exactly before rounding.
func bernoulliOverFactorial(tables *combinatorics.Tables, m int) float64 {
	fact := new(big.Int).MulRange(1, int64(m))
	q := new(big.Rat).SetFrac(big.NewInt(1), fact)
	q.Mul(q, tables.Bernoulli(m))
	f, _ := q.Float64()
	return f
}
