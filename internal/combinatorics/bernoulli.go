package combinatorics

import "math/big"

// Bernoulli returns the exact Bernoulli number B_n from the default table context.
func Bernoulli(n int) *big.Rat { return Default().Bernoulli(n) }

// BernoulliFloat returns B_n as a float64 from the default table context.
func BernoulliFloat(n int) float64 {
	f, _ := Default().Bernoulli(n).Float64()
	return f
}

// Bernoulli returns B_n with the convention B_1 = -1/2, computed exactly through
// the forward-difference expansion
//
//	B_n = Σ_{m=0..n} 1/(m+1) Σ_{k=0..m} (-1)^k C(m,k) k^n
//
// Negative n yields 0.
func (t *Tables) Bernoulli(n int) *big.Rat {
	if n < 0 {
		return new(big.Rat)
	}
	v, _ := t.bernoulli.GetOrCompute(n, func() (*big.Rat, error) {
		return t.bernoulliExact(n), nil
	})
	return new(big.Rat).Set(v)
}

func (t *Tables) bernoulliExact(n int) *big.Rat {
	if n > 1 && n%2 == 1 {
		return new(big.Rat)
	}

	powers := make([]*big.Int, n+1)
	exp := big.NewInt(int64(n))
	for k := 0; k <= n; k++ {
		powers[k] = new(big.Int).Exp(big.NewInt(int64(k)), exp, nil)
	}

	sum := new(big.Rat)
	inner := new(big.Int)
	term := new(big.Int)
	for m := 0; m <= n; m++ {
		inner.SetInt64(0)
		for k := 0; k <= m; k++ {
			term.Mul(t.Binomial(m, k), powers[k])
			if k%2 == 1 {
				inner.Sub(inner, term)
			} else {
				inner.Add(inner, term)
			}
		}
		sum.Add(sum, new(big.Rat).SetFrac(inner, big.NewInt(int64(m+1))))
	}
	return sum
}
