package cli

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/agbru/hassecalc/internal/constants"
	"github.com/agbru/hassecalc/internal/ui"
)

// ValueDigits is the number of significant digits printed for a value.
const ValueDigits = 16

// FormatValue prints a value with ValueDigits significant digits.
func FormatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprint(v)
	}
	return fmt.Sprintf("%+.*e", ValueDigits-1, v)
}

// FormatError prints an absolute error in short scientific notation.
func FormatError(e float64) string {
	return fmt.Sprintf("%.1e", e)
}

// FormatDuration is FormatExecutionDuration with a floor for instant runs.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "< 1µs"
	}
	return FormatExecutionDuration(d)
}

// FormatFlags summarizes the stability flags of a result, "-" when none is set.
func FormatFlags(r constants.Result) string {
	var flags []string
	if r.Clamped {
		flags = append(flags, "clamped")
	}
	if r.Unstable {
		flags = append(flags, "unstable")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}

// FormatMember names a family member, e.g. "γ_3", "ζ(3)" or "ψ(1)".
func FormatMember(family constants.Family, arg float64) string {
	switch family {
	case constants.FamilyStieltjes:
		return fmt.Sprintf("γ_%g", arg)
	case constants.FamilyZeta:
		return fmt.Sprintf("ζ(%g)", arg)
	case constants.FamilyDigamma:
		return fmt.Sprintf("ψ(%g)", arg)
	}
	return fmt.Sprintf("%s(%g)", family, arg)
}

// PrintExecutionConfig displays the batch configuration.
//
// Parameters:
//   - precision: The requested precision.
//   - maxStieltjes: The highest Stieltjes index in the batch.
//   - digamma: The digamma strategy name.
//   - timeout: The batch timeout.
//   - out: The io.Writer for the output.
func PrintExecutionConfig(precision float64, maxStieltjes int, digamma string, timeout time.Duration, out io.Writer) {
	fmt.Fprintf(out, "%s--- Execution Configuration ---%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(out, "Precision: %s%g%s, Stieltjes indices: %s0..%d%s, digamma strategy: %s%s%s, timeout: %s%s%s.\n",
		ui.ColorMagenta(), precision, ui.ColorReset(),
		ui.ColorMagenta(), maxStieltjes, ui.ColorReset(),
		ui.ColorCyan(), digamma, ui.ColorReset(),
		ui.ColorYellow(), timeout, ui.ColorReset())
}
