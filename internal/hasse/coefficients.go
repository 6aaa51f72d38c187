package hasse

import (
	"fmt"

	"github.com/agbru/hassecalc/internal/combinatorics"
)

// Coefficients is an immutable triangular array H(m, n), 0 <= n <= m <= M,
// together with its column sums c_n = Σ_{m=n..M} H(m, n). Every operator
// contracts samples against the column sums.
type Coefficients struct {
	order  int
	params Params
	rows   [][]float64
	cols   []float64
}

// Builder constructs coefficient arrays from a combinatorial table context.
type Builder struct {
	tables *combinatorics.Tables
}

// NewBuilder returns a Builder reading binomials and Stirling numbers from
// tables. A nil tables selects the process-wide context.
func NewBuilder(tables *combinatorics.Tables) *Builder {
	if tables == nil {
		tables = combinatorics.Default()
	}
	return &Builder{tables: tables}
}

// Build constructs the array for (order, p) with the default table context.
func Build(order int, p Params) (*Coefficients, error) {
	return NewBuilder(nil).Build(order, p)
}

// MustBuild is like Build but panics on error. It is intended for fixed,
// known-valid orders.
func MustBuild(order int, p Params) *Coefficients {
	c, err := Build(order, p)
	if err != nil {
		panic(err)
	}
	return c
}

// Build constructs the coefficient array of truncation order M for the triple p.
//
// The standard triple uses the closed form (-1)^n C(m,n)/(m+1) through the
// binomial cache. Any other triple runs the row recurrence bottom-up, each row
// computed from the previous one only.
//
// Parameters:
//   - order: The truncation order M, 0 <= M <= MaxOrder.
//   - p: The parameter triple.
//
// Returns:
//   - *Coefficients: The immutable array.
//   - error: ErrInvalidOrder, ErrOrderTooLarge or ErrInvalidParams.
func (b *Builder) Build(order int, p Params) (*Coefficients, error) {
	if err := checkOrder(order); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var rows [][]float64
	if p.IsStandard() {
		rows = b.classicalRows(order)
	} else {
		rows = recurrenceRows(order, p)
	}
	return newCoefficients(order, p, rows), nil
}

// BuildFromStirling constructs the same array as Build from the generalized
// Stirling triangle, H(m,n) = (-1)^n S(m,n; p.Stirling())/(m+1). It serves as
// an independent check of the row recurrence.
func (b *Builder) BuildFromStirling(order int, p Params) (*Coefficients, error) {
	if err := checkOrder(order); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	triangle, err := b.tables.StirlingTriangle(order, p.Stirling())
	if err != nil {
		return nil, err
	}

	rows := make([][]float64, order+1)
	for m, srow := range triangle {
		row := make([]float64, m+1)
		scale := 1 / float64(m+1)
		for n, s := range srow {
			if n%2 == 1 {
				s = -s
			}
			row[n] = s * scale
		}
		rows[m] = row
	}
	return newCoefficients(order, p, rows), nil
}

func checkOrder(order int) error {
	if order < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidOrder, order)
	}
	if order > MaxOrder {
		return fmt.Errorf("%w: %d > %d", ErrOrderTooLarge, order, MaxOrder)
	}
	return nil
}

func (b *Builder) classicalRows(order int) [][]float64 {
	rows := make([][]float64, order+1)
	for m := 0; m <= order; m++ {
		row := make([]float64, m+1)
		scale := 1 / float64(m+1)
		for n := 0; n <= m; n++ {
			v := b.tables.BinomialFloat(m, n) * scale
			if n%2 == 1 {
				v = -v
			}
			row[n] = v
		}
		rows[m] = row
	}
	return rows
}

func recurrenceRows(order int, p Params) [][]float64 {
	rows := make([][]float64, order+1)
	rows[0] = []float64{1}
	for m := 1; m <= order; m++ {
		prev := rows[m-1]
		row := make([]float64, m+1)
		scale := float64(m) / float64(m+1)
		for n := 0; n <= m; n++ {
			var stay, left float64
			if n < m {
				stay = prev[n]
			}
			if n > 0 {
				left = prev[n-1]
			}
			row[n] = scale * (p.weight(m, n)*stay - left)
		}
		rows[m] = row
	}
	return rows
}

func newCoefficients(order int, p Params, rows [][]float64) *Coefficients {
	cols := make([]float64, order+1)
	for n := 0; n <= order; n++ {
		var sum float64
		for m := order; m >= n; m-- {
			sum += rows[m][n]
		}
		cols[n] = sum
	}
	return &Coefficients{order: order, params: p, rows: rows, cols: cols}
}

// Order returns the truncation order M.
func (c *Coefficients) Order() int { return c.order }

// Params returns the triple the array was built for.
func (c *Coefficients) Params() Params { return c.params }

// At returns H(m, n). The boolean is false outside 0 <= n <= m <= M.
func (c *Coefficients) At(m, n int) (float64, bool) {
	if m < 0 || m > c.order || n < 0 || n > m {
		return 0, false
	}
	return c.rows[m][n], true
}

// Row returns a copy of row m, which has m+1 entries, or nil when m is out of range.
func (c *Coefficients) Row(m int) []float64 {
	if m < 0 || m > c.order {
		return nil
	}
	return append([]float64(nil), c.rows[m]...)
}

// ColumnSum returns c_n = Σ_{m=n..M} H(m, n), or 0 if n is out of range.
func (c *Coefficients) ColumnSum(n int) float64 {
	if n < 0 || n > c.order {
		return 0
	}
	return c.cols[n]
}

// ColumnSums returns a copy of all column sums.
func (c *Coefficients) ColumnSums() []float64 {
	return append([]float64(nil), c.cols...)
}
