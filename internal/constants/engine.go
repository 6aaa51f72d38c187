// Package constants extracts mathematical constants from the Hasse operator:
// the Stieltjes constants γ_k, the Riemann and Hurwitz zeta functions and the
// polygamma functions ψ and ψ'.
//
// Every operator route evaluates the slowly converging part of a series at a
// shifted point x+N, where the truncated Hasse series converges fast, and
// recovers the value at x from an exact finite head sum.
package constants

import (
	"math"
	"sync"

	"github.com/agbru/hassecalc/internal/combinatorics"
	apperrors "github.com/agbru/hassecalc/internal/errors"
	"github.com/agbru/hassecalc/internal/hasse"
	"github.com/agbru/hassecalc/internal/truncation"
)

// Engine computes constants with a fixed set of options. It is safe for
// concurrent use; the only shared state is the memoization context.
type Engine struct {
	opts    Options
	builder *hasse.Builder
}

// NewEngine returns an Engine for opts, with defaults filled in for zero
// values.
func NewEngine(opts Options) *Engine {
	opts = normalizeOptions(opts)
	return &Engine{opts: opts, builder: hasse.NewBuilder(opts.Tables)}
}

// Options returns the normalized options of the engine.
func (e *Engine) Options() Options { return e.opts }

// precision resolves a per-call precision, where 0 selects the engine default.
func (e *Engine) precision(op string, eps float64) (float64, error) {
	if eps == 0 {
		eps = e.opts.Precision
	}
	if math.IsNaN(eps) || eps <= 0 || eps >= 1 {
		return 0, apperrors.NewDomainError(op, "precision must be in (0, 1)", eps)
	}
	return eps, nil
}

// plan runs a truncation rule and builds the standard array for it.
func (e *Engine) plan(op string, rule truncation.Rule, eps float64, index int) (truncation.Plan, *hasse.Coefficients, error) {
	p, err := rule.Plan(eps, index)
	if err != nil {
		return truncation.Plan{}, nil, apperrors.NewDomainError(op, err.Error(), eps)
	}
	c, err := e.builder.Build(p.Order, hasse.Standard)
	if err != nil {
		return truncation.Plan{}, nil, apperrors.WrapError(err, "%s: build order %d", op, p.Order)
	}
	return p, c, nil
}

// finish fills the plan and stability fields of an operator-route result.
func finish(r *Result, p truncation.Plan, c *hasse.Coefficients, eps, scale float64) {
	d := c.Diagnose()
	r.Order = p.Order
	r.Shift = p.Shift
	r.Precision = eps
	r.Clamped = p.Clamped
	r.Diagnostics = d
	r.RoundingBound = d.RoundingBound(scale)
	r.Unstable = r.RoundingBound > eps
}

// ─────────────────────────────────────────────────────────────────────────────
// Stieltjes Constants
// ─────────────────────────────────────────────────────────────────────────────

// Stieltjes computes γ_k by the shifted log-power route:
//
//	γ_k = Σ_{n=1}^{N-1} ln^k(n)/n − T[ln^{k+1}](N)/(k+1)
//
// Parameters:
//   - k: The index, 0 <= k <= MaxStieltjesIndex.
//   - eps: The requested precision; 0 selects the engine default.
//
// Returns:
//   - Result: The value with its truncation plan and stability flags.
//   - error: A DomainError for an out-of-range index or precision.
func (e *Engine) Stieltjes(k int, eps float64) (Result, error) {
	const op = "constants.stieltjes"
	if k < 0 || k > e.opts.MaxStieltjesIndex {
		return Result{}, apperrors.NewDomainError(op, "index out of range", k)
	}
	eps, err := e.precision(op, eps)
	if err != nil {
		return Result{}, err
	}
	p, c, err := e.plan(op, truncation.Stieltjes, eps, k)
	if err != nil {
		return Result{}, err
	}

	n := float64(p.Shift)
	tail, err := c.ApplyLogPower(k+1, n)
	if err != nil {
		return Result{}, apperrors.WrapError(err, "%s: tail at %d", op, p.Shift)
	}
	kp1 := float64(k + 1)
	r := Result{
		Name:     NameStieltjesLog,
		Family:   FamilyStieltjes,
		Argument: float64(k),
		Value:    logHead(k, p.Shift) - tail/kp1,
	}
	// Each sample carries about k+1 ulps, which the division by k+1 cancels.
	finish(&r, p, c, eps, intPow(math.Log(n+float64(p.Order)), k+1))
	return r, nil
}

// logHead returns Σ_{n=1}^{N-1} ln^k(n)/n.
func logHead(k, shift int) float64 {
	sum := 0.0
	for n := 1; n < shift; n++ {
		x := float64(n)
		sum += intPow(math.Log(x), k) / x
	}
	return sum
}

// StieltjesEM computes γ_k by the Euler–Maclaurin formula at N = 10:
//
//	γ_k = Σ_{n<N} f(n) − ln^{k+1}(N)/(k+1) + f(N)/2 − Σ_{j=1..p} B_{2j}/(2j)!·f^{(2j−1)}(N)
//
// with f(x) = ln^k(x)/x. The number of correction terms p grows with the
// requested digits. The route uses no coefficient array and serves as an
// independent check of Stieltjes.
func (e *Engine) StieltjesEM(k int, eps float64) (Result, error) {
	const op = "constants.stieltjes-em"
	if k < 0 || k > e.opts.MaxStieltjesIndex {
		return Result{}, apperrors.NewDomainError(op, "index out of range", k)
	}
	eps, err := e.precision(op, eps)
	if err != nil {
		return Result{}, err
	}
	digits, err := truncation.Digits(eps)
	if err != nil {
		return Result{}, apperrors.NewDomainError(op, err.Error(), eps)
	}
	terms := min(max(int(math.Round(digits/2)), 2), MaxEulerMaclaurinTerms)

	value, magnitude := eulerMaclaurin(k, EulerMaclaurinShift, terms, e.opts.Tables)
	r := Result{
		Name:          NameStieltjesEM,
		Family:        FamilyStieltjes,
		Argument:      float64(k),
		Value:         value,
		Order:         terms,
		Shift:         EulerMaclaurinShift,
		Precision:     eps,
		RoundingBound: hasse.MachineEpsilon * magnitude,
	}
	r.Unstable = r.RoundingBound > eps
	return r, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Zeta Functions
// ─────────────────────────────────────────────────────────────────────────────

// Zeta computes the Riemann zeta function ζ(s) = ζ(s, 1) for s > 1.
func (e *Engine) Zeta(s, eps float64) (Result, error) {
	r, err := e.hurwitz("constants.zeta", s, 1, eps)
	if err != nil {
		return Result{}, err
	}
	r.Name = NameZetaHasse
	return r, nil
}

// OddZeta computes ζ(n) for an odd integer n >= 3.
func (e *Engine) OddZeta(n int, eps float64) (Result, error) {
	if n < 3 || n%2 == 0 {
		return Result{}, apperrors.NewDomainError("constants.oddzeta", "argument must be an odd integer >= 3", n)
	}
	return e.Zeta(float64(n), eps)
}

// HurwitzZeta computes ζ(s, a) for s > 1 and a > 0 by
//
//	ζ(s, a) = Σ_{n<N} (a+n)^{−s} + T[t^{1−s}](a+N)/(s−1)
func (e *Engine) HurwitzZeta(s, a, eps float64) (Result, error) {
	return e.hurwitz("constants.hurwitz", s, a, eps)
}

func (e *Engine) hurwitz(op string, s, a, eps float64) (Result, error) {
	if math.IsNaN(s) || math.IsInf(s, 0) || s <= 1 {
		return Result{}, apperrors.NewDomainError(op, "s must be finite and greater than 1", s)
	}
	if math.IsNaN(a) || math.IsInf(a, 0) || a <= 0 {
		return Result{}, apperrors.NewDomainError(op, "a must be finite and positive", a)
	}
	eps, err := e.precision(op, eps)
	if err != nil {
		return Result{}, err
	}
	p, c, err := e.plan(op, truncation.Zeta, eps, 0)
	if err != nil {
		return Result{}, err
	}

	head := 0.0
	for n := p.Shift - 1; n >= 0; n-- {
		head += math.Pow(a+float64(n), -s)
	}
	x := a + float64(p.Shift)
	tail := c.ApplyFunction(func(t float64) float64 { return math.Pow(t, 1-s) }, x) / (s - 1)

	r := Result{
		Name:     NameZetaHasse,
		Family:   FamilyZeta,
		Argument: s,
		Value:    head + tail,
	}
	finish(&r, p, c, eps, math.Pow(x, 1-s)/(s-1))
	return r, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Polygamma Functions
// ─────────────────────────────────────────────────────────────────────────────

// Digamma computes ψ(x) for x > 0 by ψ(x) = T[ln](x+N) − Σ_{n<N} 1/(x+n).
func (e *Engine) Digamma(x, eps float64) (Result, error) {
	const op = "constants.digamma"
	p, c, err := e.polygammaPlan(op, x, eps)
	if err != nil {
		return Result{}, err
	}
	eps = p.eps

	shifted := x + float64(p.Shift)
	tail, err := c.ApplyLogPower(1, shifted)
	if err != nil {
		return Result{}, apperrors.WrapError(err, "%s: tail at %g", op, shifted)
	}
	head := 0.0
	for n := p.Shift - 1; n >= 0; n-- {
		head += 1 / (x + float64(n))
	}
	r := Result{
		Name:     NameDigammaHasse,
		Family:   FamilyDigamma,
		Argument: x,
		Value:    tail - head,
	}
	finish(&r, p.Plan, c, eps, math.Log(shifted+float64(p.Order)))
	return r, nil
}

// Trigamma computes ψ'(x) for x > 0 by ψ'(x) = T[1/t](x+N) + Σ_{n<N} 1/(x+n)².
func (e *Engine) Trigamma(x, eps float64) (Result, error) {
	const op = "constants.trigamma"
	p, c, err := e.polygammaPlan(op, x, eps)
	if err != nil {
		return Result{}, err
	}
	eps = p.eps

	shifted := x + float64(p.Shift)
	tail := c.ApplyFunction(func(t float64) float64 { return 1 / t }, shifted)
	head := 0.0
	for n := p.Shift - 1; n >= 0; n-- {
		v := x + float64(n)
		head += 1 / (v * v)
	}
	r := Result{
		Name:     NameTrigammaHasse,
		Family:   FamilyDigamma,
		Argument: x,
		Value:    tail + head,
	}
	finish(&r, p.Plan, c, eps, 1/shifted)
	return r, nil
}

type polygammaPlan struct {
	truncation.Plan
	eps float64
}

func (e *Engine) polygammaPlan(op string, x, eps float64) (polygammaPlan, *hasse.Coefficients, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) || x <= 0 {
		return polygammaPlan{}, nil, apperrors.NewDomainError(op, "x must be finite and positive", x)
	}
	eps, err := e.precision(op, eps)
	if err != nil {
		return polygammaPlan{}, nil, err
	}
	p, c, err := e.plan(op, truncation.Digamma, eps, 0)
	if err != nil {
		return polygammaPlan{}, nil, err
	}
	return polygammaPlan{Plan: p, eps: eps}, c, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Package-level helpers
// ─────────────────────────────────────────────────────────────────────────────

// defaultEngine is created on first use so that a capacity configured with
// combinatorics.SetDefaultCapacity during startup still applies.
var defaultEngine = sync.OnceValue(func() *Engine { return NewEngine(Options{}) })

// Stieltjes returns γ_k at the default precision.
func Stieltjes(k int) (float64, error) {
	r, err := defaultEngine().Stieltjes(k, 0)
	return r.Value, err
}

// Zeta returns ζ(s) at the default precision.
func Zeta(s float64) (float64, error) {
	r, err := defaultEngine().Zeta(s, 0)
	return r.Value, err
}

// OddZeta returns ζ(n) at the default precision for an odd integer n >= 3.
func OddZeta(n int) (float64, error) {
	r, err := defaultEngine().OddZeta(n, 0)
	return r.Value, err
}

// Zeta3 returns Apéry's constant ζ(3).
func Zeta3() (float64, error) { return OddZeta(3) }

// Zeta5 returns ζ(5).
func Zeta5() (float64, error) { return OddZeta(5) }

// HurwitzZeta returns ζ(s, a) at the default precision.
func HurwitzZeta(s, a float64) (float64, error) {
	r, err := defaultEngine().HurwitzZeta(s, a, 0)
	return r.Value, err
}

// Digamma returns ψ(x) at the default precision.
func Digamma(x float64) (float64, error) {
	r, err := defaultEngine().Digamma(x, 0)
	return r.Value, err
}

// Trigamma returns ψ'(x) at the default precision.
func Trigamma(x float64) (float64, error) {
	r, err := defaultEngine().Trigamma(x, 0)
	return r.Value, err
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

// tablesOrDefault resolves a nil memoization context.
func tablesOrDefault(t *combinatorics.Tables) *combinatorics.Tables {
	if t == nil {
		return combinatorics.Default()
	}
	return t
}
