package roots

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/mathext"

	"github.com/agbru/hassecalc/internal/constants"
	apperrors "github.com/agbru/hassecalc/internal/errors"
)

// Digamma strategy names.
const (
	StrategyHasse = "hasse"
	StrategyGonum = "gonum"
)

// DigammaFunc evaluates ψ and ψ' on the whole real line except the poles
// at the non-positive integers.
type DigammaFunc interface {
	Name() string
	Digamma(x float64) (float64, error)
	Trigamma(x float64) (float64, error)
}

// positiveDigamma evaluates ψ and ψ' for x > 0 only.
type positiveDigamma interface {
	digamma(x float64) (float64, error)
	trigamma(x float64) (float64, error)
}

// HasseDigamma evaluates ψ through the shifted Hasse operator.
type HasseDigamma struct {
	engine *constants.Engine
}

// NewHasseDigamma returns a HasseDigamma backed by engine. A nil engine
// selects default options.
func NewHasseDigamma(engine *constants.Engine) *HasseDigamma {
	if engine == nil {
		engine = constants.NewEngine(constants.Options{})
	}
	return &HasseDigamma{engine: engine}
}

func (h *HasseDigamma) Name() string { return StrategyHasse }

func (h *HasseDigamma) Digamma(x float64) (float64, error) { return reflectDigamma(h, x) }

func (h *HasseDigamma) Trigamma(x float64) (float64, error) { return reflectTrigamma(h, x) }

func (h *HasseDigamma) digamma(x float64) (float64, error) {
	r, err := h.engine.Digamma(x, 0)
	return r.Value, err
}

func (h *HasseDigamma) trigamma(x float64) (float64, error) {
	r, err := h.engine.Trigamma(x, 0)
	return r.Value, err
}

// GonumDigamma evaluates ψ with gonum and ψ' as the Hurwitz zeta ζ(2, x).
type GonumDigamma struct{}

func (GonumDigamma) Name() string { return StrategyGonum }

func (g GonumDigamma) Digamma(x float64) (float64, error) { return reflectDigamma(g, x) }

func (g GonumDigamma) Trigamma(x float64) (float64, error) { return reflectTrigamma(g, x) }

func (GonumDigamma) digamma(x float64) (float64, error) { return mathext.Digamma(x), nil }

func (GonumDigamma) trigamma(x float64) (float64, error) { return mathext.Zeta(2, x), nil }

// SelectDigamma resolves a strategy by name ("hasse" or "gonum").
func SelectDigamma(name string, engine *constants.Engine) (DigammaFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StrategyHasse, "":
		return NewHasseDigamma(engine), nil
	case StrategyGonum:
		return GonumDigamma{}, nil
	}
	return nil, apperrors.NewValidationError("digamma", "unknown strategy, want hasse or gonum", name)
}

// checkPole rejects non-finite arguments and the poles of ψ.
func checkPole(op string, x float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return apperrors.NewDomainError(op, "argument must be finite", x)
	}
	if x <= 0 && x == math.Floor(x) {
		return apperrors.NewDomainError(op, "pole at a non-positive integer", x)
	}
	return nil
}

// reflectDigamma applies ψ(x) = ψ(1−x) − π·cot(πx) for x <= 0.
func reflectDigamma(p positiveDigamma, x float64) (float64, error) {
	if err := checkPole("roots.digamma", x); err != nil {
		return 0, err
	}
	if x > 0 {
		return p.digamma(x)
	}
	v, err := p.digamma(1 - x)
	if err != nil {
		return 0, err
	}
	return v - math.Pi/math.Tan(math.Pi*x), nil
}

// reflectTrigamma applies ψ'(x) = π²/sin²(πx) − ψ'(1−x) for x <= 0.
func reflectTrigamma(p positiveDigamma, x float64) (float64, error) {
	if err := checkPole("roots.trigamma", x); err != nil {
		return 0, err
	}
	if x > 0 {
		return p.trigamma(x)
	}
	v, err := p.trigamma(1 - x)
	if err != nil {
		return 0, err
	}
	s := math.Sin(math.Pi * x)
	return math.Pi*math.Pi/(s*s) - v, nil
}

// DigammaRoot returns the n-th zero of ψ. The zero n = 0 is the positive one
// near 1.4616; the zero n >= 1 lies in (−n, −n+1).
func DigammaRoot(s DigammaFunc, n int) (float64, error) {
	if n < 0 {
		return 0, apperrors.NewDomainError("roots.digamma-root", "root index must be non-negative", n)
	}
	guess := 1.46
	if n > 0 {
		// Asymptotically x_n ≈ −n + atan(π/ln n)/π.
		guess = -float64(n) + math.Atan(math.Pi/math.Log(float64(n)))/math.Pi
	}
	return Newton(s.Digamma, s.Trigamma, guess, DefaultTolerance, DefaultMaxIterations)
}
