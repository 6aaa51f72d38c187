package roots

import (
	"math"

	apperrors "github.com/agbru/hassecalc/internal/errors"
)

// BesselZero returns the k-th positive zero j_{ν,k} of J_ν for an integer
// order ν >= 0 and k >= 1.
//
// The McMahon expansion with μ = 4ν² and β = (k + ν/2 − 1/4)π,
//
//	j ≈ β − (μ−1)/(8β) − 4(μ−1)(7μ−31)/(3(8β)³)
//
// seeds Newton on J_ν with J_ν' = (J_{ν−1} − J_{ν+1})/2.
func BesselZero(order, k int) (float64, error) {
	if order < 0 || k < 1 {
		return 0, apperrors.NewDomainError("roots.bessel-zero", "need order >= 0 and k >= 1", [2]int{order, k})
	}
	nu := float64(order)
	mu := 4 * nu * nu
	beta := (float64(k) + nu/2 - 0.25) * math.Pi
	b8 := 8 * beta
	guess := beta - (mu-1)/b8 - 4*(mu-1)*(7*mu-31)/(3*b8*b8*b8)

	f := func(x float64) (float64, error) { return math.Jn(order, x), nil }
	df := func(x float64) (float64, error) {
		return (math.Jn(order-1, x) - math.Jn(order+1, x)) / 2, nil
	}
	return Newton(f, df, guess, DefaultTolerance, DefaultMaxIterations)
}
