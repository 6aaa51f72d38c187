package hasse

import (
	"math"

	"gonum.org/v1/gonum/floats"

	apperrors "github.com/agbru/hassecalc/internal/errors"
	"github.com/agbru/hassecalc/internal/polylog"
)

// ─────────────────────────────────────────────────────────────────────────────
// Operator Application
// ─────────────────────────────────────────────────────────────────────────────

// ApplyFunction returns Σ_{m=0..M} Σ_{n=0..m} H(m,n)·f(x+n).
//
// The double sum is evaluated as Σ_n c_n·f(x+n), so f is sampled exactly once
// at each of x, x+1, ..., x+M and must be defined there.
func (c *Coefficients) ApplyFunction(f func(float64) float64, x float64) float64 {
	samples := make([]float64, c.order+1)
	for n := range samples {
		samples[n] = f(x + float64(n))
	}
	return floats.Dot(c.cols, samples)
}

// ApplyLogPower returns Σ_n c_n·ln(x+n)^power.
//
// The column index starts at 0 for x > 0 and at 1 otherwise, which skips the
// ln(0) sample when x = 0.
//
// Parameters:
//   - power: The non-negative exponent of the logarithm.
//   - x: The evaluation point; x+n must be positive from the first column on.
//
// Returns:
//   - float64: The contracted value.
//   - error: A DomainError for a negative power or a non-positive sample point.
func (c *Coefficients) ApplyLogPower(power int, x float64) (float64, error) {
	if power < 0 {
		return 0, apperrors.NewDomainError("hasse.logpower", "power must be non-negative", power)
	}
	start, err := c.firstColumn("hasse.logpower", x)
	if err != nil {
		return 0, err
	}
	samples := make([]float64, c.order+1-start)
	for i := range samples {
		samples[i] = intPow(math.Log(x+float64(start+i)), power)
	}
	return floats.Dot(c.cols[start:], samples), nil
}

// ApplyPolylog returns Σ_n c_n·Li_s(exp(-x-n)) with the same column start as
// ApplyLogPower.
func (c *Coefficients) ApplyPolylog(s, x float64) (float64, error) {
	start, err := c.firstColumn("hasse.polylog", x)
	if err != nil {
		return 0, err
	}
	samples := make([]float64, c.order+1-start)
	for i := range samples {
		v, err := polylog.Li(s, math.Exp(-x-float64(start+i)))
		if err != nil {
			return 0, apperrors.WrapError(err, "sample %d", start+i)
		}
		samples[i] = v
	}
	return floats.Dot(c.cols[start:], samples), nil
}

// firstColumn returns the first column index whose sample point is positive.
func (c *Coefficients) firstColumn(op string, x float64) (int, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, apperrors.NewDomainError(op, "evaluation point must be finite", x)
	}
	start := 0
	if x <= 0 {
		start = 1
	}
	if x+float64(start) <= 0 {
		return 0, apperrors.NewDomainError(op, "sample points x+n must be positive", x)
	}
	if start > c.order {
		return 0, apperrors.NewDomainError(op, "no sample point left for order 0 at x <= 0", x)
	}
	return start, nil
}

// intPow computes v^n by repeated squaring.
func intPow(v float64, n int) float64 {
	result := 1.0
	for n > 0 {
		if n&1 == 1 {
			result *= v
		}
		v *= v
		n >>= 1
	}
	return result
}

// ─────────────────────────────────────────────────────────────────────────────
// Build-and-apply helpers
// ─────────────────────────────────────────────────────────────────────────────

// ApplyFunction builds the array for (order, p) and applies it to f at x.
func ApplyFunction(f func(float64) float64, x float64, order int, p Params) (float64, error) {
	c, err := Build(order, p)
	if err != nil {
		return 0, err
	}
	return c.ApplyFunction(f, x), nil
}

// ApplyLogPower builds the array for (order, p) and applies it to ln^power at x.
func ApplyLogPower(power int, x float64, order int, p Params) (float64, error) {
	c, err := Build(order, p)
	if err != nil {
		return 0, err
	}
	return c.ApplyLogPower(power, x)
}

// ApplyPolylog builds the array for (order, p) and applies it to Li_s(e^-t) at x.
func ApplyPolylog(s, x float64, order int, p Params) (float64, error) {
	c, err := Build(order, p)
	if err != nil {
		return 0, err
	}
	return c.ApplyPolylog(s, x)
}
