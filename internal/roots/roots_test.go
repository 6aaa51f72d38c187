package roots

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/hassecalc/internal/combinatorics"
	"github.com/agbru/hassecalc/internal/constants"
	apperrors "github.com/agbru/hassecalc/internal/errors"
)

func pure(f func(float64) float64) Func {
	return func(x float64) (float64, error) { return f(x), nil }
}

func TestNewtonSquareRoot(t *testing.T) {
	t.Parallel()
	root, err := Newton(
		pure(func(x float64) float64 { return x*x - 2 }),
		pure(func(x float64) float64 { return 2 * x }),
		1, DefaultTolerance, DefaultMaxIterations,
	)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, root, 1e-14)
}

func TestNewtonFailures(t *testing.T) {
	t.Parallel()
	flat := pure(func(float64) float64 { return 0 })
	one := pure(func(float64) float64 { return 1 })

	_, err := Newton(one, flat, 0, DefaultTolerance, 10)
	assert.ErrorIs(t, err, ErrZeroDerivative)
	assert.ErrorIs(t, err, apperrors.ErrDegenerate)

	// x² + 1 has no real zero; the iterates wander.
	_, err = Newton(
		pure(func(x float64) float64 { return x*x + 1 }),
		pure(func(x float64) float64 { return 2 * x }),
		0.5, DefaultTolerance, 20,
	)
	assert.ErrorIs(t, err, ErrNoConvergence)

	_, err = Newton(one, one, 0, 0, 10)
	assert.True(t, apperrors.IsDomainError(err))
	_, err = Newton(one, one, 0, 1e-9, 0)
	assert.True(t, apperrors.IsDomainError(err))

	boom := errors.New("boom")
	_, err = Newton(func(float64) (float64, error) { return 0, boom }, one, 0, 1e-9, 5)
	assert.ErrorIs(t, err, boom)
}

func strategies() []DigammaFunc {
	engine := constants.NewEngine(constants.Options{Tables: combinatorics.NewTables(1024)})
	return []DigammaFunc{NewHasseDigamma(engine), GonumDigamma{}}
}

func TestDigammaRoots(t *testing.T) {
	t.Parallel()
	for _, s := range strategies() {
		for n, want := range constants.DigammaRootReference {
			got, err := DigammaRoot(s, n)
			require.NoError(t, err, "%s root %d", s.Name(), n)
			assert.InDelta(t, want, got, 1e-10, "%s root %d", s.Name(), n)
		}
	}
}

func TestDigammaReflection(t *testing.T) {
	t.Parallel()
	for _, s := range strategies() {
		// ψ(−1/2) = ψ(3/2) since cot(−π/2) = 0, and ψ(3/2) = 2 − γ − 2 ln 2.
		v, err := s.Digamma(-0.5)
		require.NoError(t, err)
		assert.InDelta(t, 2-constants.EulerGamma-2*math.Ln2, v, 1e-10, s.Name())

		// ψ'(−1/2) = π² − ψ'(3/2) = π² − (π²/2 − 4).
		d, err := s.Trigamma(-0.5)
		require.NoError(t, err)
		assert.InDelta(t, math.Pi*math.Pi/2+4, d, 1e-9, s.Name())

		for _, pole := range []float64{0, -1, -7} {
			_, err := s.Digamma(pole)
			assert.True(t, apperrors.IsDomainError(err), "%s ψ(%g)", s.Name(), pole)
			_, err = s.Trigamma(pole)
			assert.True(t, apperrors.IsDomainError(err), "%s ψ'(%g)", s.Name(), pole)
		}
		_, err = s.Digamma(math.NaN())
		assert.True(t, apperrors.IsDomainError(err))
	}
}

func TestStrategiesAgree(t *testing.T) {
	t.Parallel()
	s := strategies()
	for _, x := range []float64{-2.3, -0.25, 0.5, 1, 4.75} {
		a, err := s[0].Digamma(x)
		require.NoError(t, err)
		b, err := s[1].Digamma(x)
		require.NoError(t, err)
		assert.InDelta(t, b, a, 1e-9, "ψ(%g)", x)
	}
}

func TestSelectDigamma(t *testing.T) {
	t.Parallel()
	s, err := SelectDigamma("hasse", nil)
	require.NoError(t, err)
	assert.Equal(t, StrategyHasse, s.Name())

	s, err = SelectDigamma(" Gonum ", nil)
	require.NoError(t, err)
	assert.Equal(t, StrategyGonum, s.Name())

	s, err = SelectDigamma("", nil)
	require.NoError(t, err)
	assert.Equal(t, StrategyHasse, s.Name())

	_, err = SelectDigamma("lanczos", nil)
	var verr apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestDigammaRootRejectsNegativeIndex(t *testing.T) {
	t.Parallel()
	_, err := DigammaRoot(GonumDigamma{}, -1)
	assert.True(t, apperrors.IsDomainError(err))
}

func TestBesselZeros(t *testing.T) {
	t.Parallel()
	tests := []struct {
		order, k int
		want     float64
	}{
		{0, 1, 2.404825557695773},
		{0, 2, 5.520078110286311},
		{0, 3, 8.653727912911012},
		{1, 1, 3.831705970207512},
		{1, 2, 7.015586669815619},
		{2, 1, 5.135622301840683},
	}
	for _, tt := range tests {
		got, err := BesselZero(tt.order, tt.k)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-12, "j_{%d,%d}", tt.order, tt.k)
		assert.InDelta(t, 0, math.Jn(tt.order, got), 1e-14)
	}
}

func TestBesselZeroDomain(t *testing.T) {
	t.Parallel()
	_, err := BesselZero(-1, 1)
	assert.True(t, apperrors.IsDomainError(err))
	_, err = BesselZero(0, 0)
	assert.True(t, apperrors.IsDomainError(err))
}
