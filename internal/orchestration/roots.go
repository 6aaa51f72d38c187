package orchestration

import (
	"context"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/agbru/hassecalc/internal/cli"
	"github.com/agbru/hassecalc/internal/constants"
	"github.com/agbru/hassecalc/internal/roots"
	"github.com/agbru/hassecalc/internal/ui"
)

// RootTolerance is the largest accepted distance between a root and its
// literature value.
const RootTolerance = 1e-9

// RootResult is the outcome of one root search.
type RootResult struct {
	// Name labels the root, e.g. "ψ root #1" or "j_{0,2}".
	Name string
	// Value is the located root; zero when Err is set.
	Value float64
	// Reference is the literature value.
	Reference float64
	// Err contains any error of the search.
	Err error
}

// AbsError returns the distance to the reference, NaN for a failed search.
func (r RootResult) AbsError() float64 {
	if r.Err != nil {
		return math.NaN()
	}
	return math.Abs(r.Value - r.Reference)
}

// FindRoots locates the zeros of ψ listed in constants.DigammaRootReference
// with the given strategy, followed by the first zeros of J_0.
//
// Parameters:
//   - ctx: Checked between searches; a cancelled context stops the remaining ones.
//   - digamma: The digamma strategy driving the ψ searches.
//
// Returns:
//   - []RootResult: One entry per root, in search order.
func FindRoots(ctx context.Context, digamma roots.DigammaFunc) []RootResult {
	var results []RootResult
	for n, ref := range constants.DigammaRootReference {
		res := RootResult{Name: fmt.Sprintf("ψ root #%d (%s)", n, digamma.Name()), Reference: ref}
		if res.Err = ctx.Err(); res.Err == nil {
			res.Value, res.Err = roots.DigammaRoot(digamma, n)
		}
		results = append(results, res)
	}
	for k, ref := range constants.BesselJ0ZeroReference {
		res := RootResult{Name: fmt.Sprintf("j_{0,%d}", k+1), Reference: ref}
		if res.Err = ctx.Err(); res.Err == nil {
			res.Value, res.Err = roots.BesselZero(0, k+1)
		}
		results = append(results, res)
	}
	return results
}

// PrintRoots prints the roots with their reference errors.
//
// Returns:
//   - int: The number of failed searches or roots off by more than RootTolerance.
func PrintRoots(results []RootResult, out io.Writer) int {
	failures := 0
	fmt.Fprintf(out, "\n--- Roots ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sRoot%s\t%sValue%s\t%s|Error|%s\t%sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())
	for _, r := range results {
		if r.Err != nil {
			failures++
			fmt.Fprintf(tw, "%s\t-\t-\t%s❌ Failure (%v)%s\n", r.Name, ui.ColorRed(), r.Err, ui.ColorReset())
			continue
		}
		status := fmt.Sprintf("%s✅ OK%s", ui.ColorGreen(), ui.ColorReset())
		if !(r.AbsError() <= RootTolerance) {
			failures++
			status = fmt.Sprintf("%s❌ Off reference%s", ui.ColorRed(), ui.ColorReset())
		}
		fmt.Fprintf(tw, "%s\t%s\t%s%s%s\t%s\n",
			r.Name, cli.FormatValue(r.Value),
			ui.ColorCyan(), cli.FormatError(r.AbsError()), ui.ColorReset(), status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}
	return failures
}
