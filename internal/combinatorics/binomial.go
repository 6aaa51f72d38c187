package combinatorics

import "math/big"

// Binomial returns C(n, k) from the default table context.
func Binomial(n, k int) *big.Int { return Default().Binomial(n, k) }

// BinomialFloat returns C(n, k) as a float64 from the default table context.
func BinomialFloat(n, k int) float64 { return Default().BinomialFloat(n, k) }

// Binomial returns the binomial coefficient C(n, k).
//
// The function is total: it returns 0 when k < 0 or k > n and 1 when k is 0
// or n. Otherwise the multiplicative formula runs over min(k, n-k) factors.
// The returned value is a fresh copy the caller may modify.
//
// Parameters:
//   - n: The size of the set.
//   - k: The size of the subsets.
//
// Returns:
//   - *big.Int: C(n, k).
func (t *Tables) Binomial(n, k int) *big.Int {
	if k < 0 || k > n {
		return new(big.Int)
	}
	if k == 0 || k == n {
		return big.NewInt(1)
	}
	if k > n-k {
		k = n - k
	}
	v, _ := t.binomials.GetOrCompute(binomialKey{n, k}, func() (*big.Int, error) {
		return multiplicativeBinomial(n, k), nil
	})
	return new(big.Int).Set(v)
}

// BinomialFloat returns C(n, k) rounded to the nearest float64.
func (t *Tables) BinomialFloat(n, k int) float64 {
	f, _ := new(big.Float).SetInt(t.Binomial(n, k)).Float64()
	return f
}

// multiplicativeBinomial evaluates Π_{i=1..k} (n-k+i)/i. Each partial
// product is itself a binomial coefficient, so the division is exact.
func multiplicativeBinomial(n, k int) *big.Int {
	result := big.NewInt(1)
	var num, den big.Int
	for i := 1; i <= k; i++ {
		num.SetInt64(int64(n - k + i))
		den.SetInt64(int64(i))
		result.Mul(result, &num)
		result.Quo(result, &den)
	}
	return result
}
