package hasse

import "math"

// MachineEpsilon is the float64 gap at 1.
var MachineEpsilon = math.Nextafter(1, 2) - 1

// UnitRoundoff is the largest relative error of one float64 rounding.
var UnitRoundoff = MachineEpsilon / 2

// Diagnostics summarizes the numerical behaviour of a coefficient array.
// Alternating column sums of growing magnitude amplify the rounding error of
// every sample. AbsColumnSum bounds that amplification in the worst case and
// ColumnNorm gives its typical size when the sample errors are independent.
type Diagnostics struct {
	// Order is the truncation order.
	Order int
	// MaxAbs is the largest |H(m,n)|.
	MaxAbs float64
	// LastRowMaxAbs is the largest |H(M,n)|, the growth of the final row.
	LastRowMaxAbs float64
	// AbsColumnSum is Σ|c_n|.
	AbsColumnSum float64
	// ColumnNorm is the Euclidean norm sqrt(Σ c_n²).
	ColumnNorm float64
	// SignChanges counts sign alternations along the non-zero column sums.
	SignChanges int
}

// Diagnose computes the stability diagnostics of the array.
func (c *Coefficients) Diagnose() Diagnostics {
	d := Diagnostics{Order: c.order}
	for m, row := range c.rows {
		for _, v := range row {
			a := math.Abs(v)
			d.MaxAbs = math.Max(d.MaxAbs, a)
			if m == c.order {
				d.LastRowMaxAbs = math.Max(d.LastRowMaxAbs, a)
			}
		}
	}

	prevSign := 0
	for _, v := range c.cols {
		d.AbsColumnSum += math.Abs(v)
		d.ColumnNorm = math.Hypot(d.ColumnNorm, v)
		sign := 0
		switch {
		case v > 0:
			sign = 1
		case v < 0:
			sign = -1
		}
		if sign != 0 {
			if prevSign != 0 && sign != prevSign {
				d.SignChanges++
			}
			prevSign = sign
		}
	}
	return d
}

// RoundingBound estimates the absolute rounding error of a contraction whose
// sample errors are at most UnitRoundoff·scale and uncorrelated. Correlated
// errors can reach UnitRoundoff·AbsColumnSum·scale.
func (d Diagnostics) RoundingBound(scale float64) float64 {
	return UnitRoundoff * d.ColumnNorm * math.Abs(scale)
}

// Unstable reports whether the rounding bound for samples of magnitude scale
// exceeds the tolerance.
func (d Diagnostics) Unstable(tolerance, scale float64) bool {
	return d.RoundingBound(scale) > tolerance
}

// Oscillating reports whether every consecutive pair of column sums changes
// sign, the signature of a cancellation-dominated contraction.
func (d Diagnostics) Oscillating() bool {
	return d.Order > 1 && d.SignChanges >= d.Order
}
