// Package orchestration runs batches of constant extractions concurrently and
// reports how the routes of each constant agree with one another and with the
// literature.
package orchestration

import (
	"context"
	"fmt"
	"io"
	"math"
	"runtime"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/hassecalc/internal/cli"
	"github.com/agbru/hassecalc/internal/constants"
	apperrors "github.com/agbru/hassecalc/internal/errors"
	"github.com/agbru/hassecalc/internal/ui"
)

// DefaultTolerance is the relative mismatch tolerance between two routes to
// the same constant. It is loose enough for the rounding growth of γ_10.
const DefaultTolerance = 1e-7

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel, so slow rendering does not block extraction goroutines.
const ProgressBufferMultiplier = 5

// Task selects one family member through one route.
type Task struct {
	Extractor constants.Extractor
	Argument  float64
}

// TaskResult is the outcome of a Task.
type TaskResult struct {
	// Name is the extractor name.
	Name string
	// Family is the extractor family.
	Family constants.Family
	// Argument is the family argument of the task.
	Argument float64
	// Result is the extraction result; zero when Err is set.
	Result constants.Result
	// Duration is the time taken by the task.
	Duration time.Duration
	// Err contains any error of the extraction.
	Err error
}

// ExecuteBatch runs every task concurrently, at most GOMAXPROCS at a time.
//
// Results are indexed like tasks. A failing task never cancels the others,
// so the context only stops the batch on cancellation or deadline.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - tasks: The tasks to run.
//   - opts: The extraction options shared by every task.
//   - out: The io.Writer for displaying progress updates.
//
// Returns:
//   - []TaskResult: One result per task.
func ExecuteBatch(ctx context.Context, tasks []Task, opts constants.Options, out io.Writer) []TaskResult {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	results := make([]TaskResult, len(tasks))
	progressChan := make(chan cli.ProgressUpdate, len(tasks)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go cli.DisplayProgress(&displayWg, progressChan, len(tasks), out)

	for i, task := range tasks {
		idx, task := i, task
		g.Go(func() error {
			startTime := time.Now()
			res, err := task.Extractor.Extract(ctx, task.Argument, opts)
			results[idx] = TaskResult{
				Name:     task.Extractor.Name(),
				Family:   task.Extractor.Family(),
				Argument: task.Argument,
				Result:   res,
				Duration: time.Since(startTime),
				Err:      err,
			}
			progressChan <- cli.ProgressUpdate{TaskIndex: idx, Value: 1}
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// memberKey identifies one constant across routes.
type memberKey struct {
	family constants.Family
	arg    float64
}

// Mismatch reports whether two values of the same constant differ by more
// than tolerance·max(1, |a|).
func Mismatch(a, b, tolerance float64) bool {
	return math.Abs(a-b) > tolerance*math.Max(1, math.Abs(a))
}

// sortResults orders results by family, argument, success and duration.
func sortResults(results []TaskResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Family != b.Family {
			return a.Family < b.Family
		}
		if a.Argument != b.Argument {
			return a.Argument < b.Argument
		}
		if (a.Err == nil) != (b.Err == nil) {
			return a.Err == nil
		}
		return a.Duration < b.Duration
	})
}

// AnalyzeConsistency prints the batch as a table and checks that all routes
// to the same constant agree.
//
// Each constant is compared against its fastest successful route. A constant
// for which every route failed fails the batch with the error's exit code.
//
// Parameters:
//   - results: The batch results; sorted in place.
//   - tolerance: The relative mismatch tolerance; 0 selects DefaultTolerance.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeConsistency(results []TaskResult, tolerance float64, out io.Writer) int {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	sortResults(results)

	baseline := make(map[memberKey]float64)
	firstError := make(map[memberKey]error)
	seen := make(map[memberKey]bool)
	var order []memberKey
	mismatches := 0

	fmt.Fprintf(out, "\n--- Consistency Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sConstant%s\t%sRoute%s\t%sValue%s\t%sOrder/Shift%s\t%sFlags%s\t%sDuration%s\t%sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset())

	for _, res := range results {
		key := memberKey{res.Family, res.Argument}
		if !seen[key] {
			seen[key] = true
			order = append(order, key)
		}

		value, plan, flags := "-", "-", "-"
		var status string
		switch {
		case res.Err != nil:
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
			if _, ok := firstError[key]; !ok {
				firstError[key] = res.Err
			}
		default:
			value = cli.FormatValue(res.Result.Value)
			plan = fmt.Sprintf("%d/%d", res.Result.Order, res.Result.Shift)
			flags = cli.FormatFlags(res.Result)
			base, ok := baseline[key]
			switch {
			case !ok:
				baseline[key] = res.Result.Value
				status = fmt.Sprintf("%s✅ Baseline%s", ui.ColorGreen(), ui.ColorReset())
			case Mismatch(base, res.Result.Value, tolerance):
				mismatches++
				status = fmt.Sprintf("%s❌ Mismatch (Δ %s)%s", ui.ColorRed(), cli.FormatError(math.Abs(base-res.Result.Value)), ui.ColorReset())
			default:
				status = fmt.Sprintf("%s✅ Agrees (Δ %s)%s", ui.ColorGreen(), cli.FormatError(math.Abs(base-res.Result.Value)), ui.ColorReset())
			}
		}
		fmt.Fprintf(tw, "%s%s%s\t%s%s%s\t%s\t%s\t%s%s%s\t%s%s%s\t%s\n",
			ui.ColorBold(), cli.FormatMember(res.Family, res.Argument), ui.ColorReset(),
			ui.ColorBlue(), res.Name, ui.ColorReset(),
			value, plan,
			ui.ColorMagenta(), flags, ui.ColorReset(),
			ui.ColorYellow(), cli.FormatDuration(res.Duration), ui.ColorReset(),
			status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	if mismatches > 0 {
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! %d route(s) disagree beyond a relative tolerance of %g.\n", mismatches, tolerance)
		return apperrors.ExitErrorMismatch
	}
	for _, key := range order {
		if _, ok := baseline[key]; ok {
			continue
		}
		fmt.Fprintf(out, "\nGlobal Status: Failure. No route could compute %s.\n", cli.FormatMember(key.family, key.arg))
		return apperrors.HandleCalculationError(firstError[key], 0, out, cli.CLIColorProvider{})
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All routes are consistent.\n")
	return apperrors.ExitSuccess
}

// ReferenceError is the deviation of one result from the literature.
type ReferenceError struct {
	Name      string
	Family    constants.Family
	Argument  float64
	Value     float64
	Reference float64
	AbsError  float64
	// Bound is the rounding bound reported by the route.
	Bound float64
}

// CompareWithReference prints, for every successful result with a known
// literature value, the absolute error of the route.
//
// Parameters:
//   - results: The batch results.
//   - out: The io.Writer for the report.
//
// Returns:
//   - []ReferenceError: One entry per compared result, in input order.
func CompareWithReference(results []TaskResult, out io.Writer) []ReferenceError {
	var errs []ReferenceError
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		ref, ok := constants.ReferenceValue(res.Family, res.Argument)
		if !ok {
			continue
		}
		errs = append(errs, ReferenceError{
			Name:      res.Name,
			Family:    res.Family,
			Argument:  res.Argument,
			Value:     res.Result.Value,
			Reference: ref,
			AbsError:  math.Abs(res.Result.Value - ref),
			Bound:     res.Result.RoundingBound,
		})
	}
	if len(errs) == 0 {
		return nil
	}

	fmt.Fprintf(out, "\n--- Reference Comparison ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sConstant%s\t%sRoute%s\t%sReference%s\t%s|Error|%s\t%sRounding bound%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset())
	for _, e := range errs {
		fmt.Fprintf(tw, "%s\t%s%s%s\t%s\t%s%s%s\t%s\n",
			cli.FormatMember(e.Family, e.Argument),
			ui.ColorBlue(), e.Name, ui.ColorReset(),
			cli.FormatValue(e.Reference),
			ui.ColorCyan(), cli.FormatError(e.AbsError), ui.ColorReset(),
			cli.FormatError(e.Bound))
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}
	return errs
}
