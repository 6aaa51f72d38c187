package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/agbru/hassecalc/internal/cli"
	"github.com/agbru/hassecalc/internal/combinatorics"
	"github.com/agbru/hassecalc/internal/config"
	"github.com/agbru/hassecalc/internal/constants"
	apperrors "github.com/agbru/hassecalc/internal/errors"
	"github.com/agbru/hassecalc/internal/logging"
	"github.com/agbru/hassecalc/internal/orchestration"
	"github.com/agbru/hassecalc/internal/roots"
	"github.com/agbru/hassecalc/internal/server"
	"github.com/agbru/hassecalc/internal/ui"
)

// ZetaArguments are the odd zeta arguments of the batch.
var ZetaArguments = []float64{3, 5, 7, 9, 11}

// DigammaArguments are the digamma arguments of the batch.
var DigammaArguments = []float64{1}

// Application represents the hassecalc application instance.
// It encapsulates the configuration and the extractor registry that the
// batch draws its routes from.
type Application struct {
	// Config holds the application configuration loaded from the environment.
	Config config.AppConfig
	// Factory provides access to the extractor routes.
	Factory constants.ExtractorFactory
	// ErrWriter is the writer for error output (typically os.Stderr).
	ErrWriter io.Writer
}

// New creates a new Application instance from the environment.
//
// The only arguments recognized are the help flags, which print the
// environment variables and return flag.ErrHelp.
//
// Parameters:
//   - args: The command-line arguments (typically os.Args).
//   - errWriter: The writer for error output.
//
// Returns:
//   - *Application: A new application instance.
//   - error: An error if the configuration is invalid or help was requested.
func New(args []string, errWriter io.Writer) (*Application, error) {
	if len(args) > 0 && HasHelpFlag(args[1:]) {
		fmt.Fprintf(errWriter, "Usage: %s\n\nhassecalc is configured through the environment:\n\n", programName(args))
		if err := config.PrintUsage(errWriter); err != nil {
			return nil, err
		}
		return nil, flag.ErrHelp
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return &Application{
		Config:    cfg,
		Factory:   constants.GlobalFactory(),
		ErrWriter: errWriter,
	}, nil
}

func programName(args []string) string {
	if len(args) == 0 || args[0] == "" {
		return "hasse"
	}
	return args[0]
}

// HasHelpFlag checks if any argument is a help flag.
func HasHelpFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--help" || arg == "-help" || arg == "-h" {
			return true
		}
	}
	return false
}

// IsHelpError checks if the error is a help flag error (--help was used).
// This is useful for determining if the application should exit with success
// after displaying help text.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: True if the error indicates help was requested.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// Run executes the batch: every extraction route of every configured family
// member, then the root searches.
//
// Parameters:
//   - ctx: The context for managing cancellation and timeouts.
//   - out: The writer for standard output.
//
// Returns:
//   - int: An exit code (0 for success, non-zero for errors).
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.Config.NoColor, a.Config.Theme)
	logger := a.setupLogging()
	combinatorics.SetDefaultCapacity(a.Config.CacheSize)

	ctx, cancels := SetupLifecycle(ctx, a.Config.Timeout)
	defer cancels.StopSignals()
	defer cancels.CancelTimeout()
	stopMetrics := a.startMetricsServer(ctx, logger)
	defer stopMetrics()

	tables := combinatorics.NewTables(a.Config.CacheSize)
	engine := constants.NewEngine(constants.Options{Precision: a.Config.Precision, Tables: tables})
	digamma, err := roots.SelectDigamma(a.Config.Digamma, engine)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Configuration error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	tasks := BuildTasks(a.Factory, a.Config.MaxStieltjes)
	logger.Info("starting batch",
		logging.Int("tasks", len(tasks)),
		logging.Float64("precision", a.Config.Precision),
		logging.String("digamma", digamma.Name()))

	progressOut := out
	if a.Config.JSON {
		progressOut = io.Discard
	} else {
		cli.PrintExecutionConfig(a.Config.Precision, a.Config.MaxStieltjes, digamma.Name(), a.Config.Timeout, out)
	}

	results := orchestration.ExecuteBatch(ctx, tasks, a.Config.ToOptions(tables), progressOut)
	rootResults := orchestration.FindRoots(ctx, digamma)

	if a.Config.JSON {
		return printJSONResults(results, rootResults, a.Config.Tolerance, out)
	}

	exitCode := orchestration.AnalyzeConsistency(results, a.Config.Tolerance, out)
	orchestration.CompareWithReference(results, out)
	if failures := orchestration.PrintRoots(rootResults, out); failures > 0 && exitCode == apperrors.ExitSuccess {
		exitCode = apperrors.HandleCalculationError(firstRootError(rootResults), 0, out, cli.CLIColorProvider{})
	}

	stats := tables.Stats()
	logger.Info("batch complete",
		logging.Int("exit_code", exitCode),
		logging.Int("binomial_cache_hits", int(stats.Binomial.Hits)),
		logging.Int("stirling_cache_hits", int(stats.Stirling.Hits)))
	return exitCode
}

// setupLogging applies the configured level and routes the global zerolog
// logger, used by the extractors, to ErrWriter.
func (a *Application) setupLogging() *logging.ZerologAdapter {
	level, _ := logging.ParseLevel(a.Config.LogLevel)
	zerolog.SetGlobalLevel(level)
	logger := logging.NewLogger(a.ErrWriter, "hassecalc", level)
	log.Logger = logger.Zerolog()
	return logger
}

// startMetricsServer serves the observability endpoints while the batch runs
// when MetricsAddr is set. The returned function stops the server and waits
// for its shutdown.
func (a *Application) startMetricsServer(ctx context.Context, logger logging.Logger) func() {
	if a.Config.MetricsAddr == "" {
		return func() {}
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	srv := server.NewServer(a.Factory, a.Config.MetricsAddr, server.WithLogger(logger))
	go func() {
		defer close(done)
		if err := srv.Start(ctx); err != nil {
			logger.Error("metrics server stopped", err)
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

// BuildTasks lists the batch: γ_0..γ_maxStieltjes, the odd zeta values of
// ZetaArguments and the digamma values of DigammaArguments, each through
// every registered route of its family.
func BuildTasks(factory constants.ExtractorFactory, maxStieltjes int) []orchestration.Task {
	var tasks []orchestration.Task
	add := func(family constants.Family, args []float64) {
		extractors := factory.ByFamily(family)
		for _, arg := range args {
			for _, x := range extractors {
				tasks = append(tasks, orchestration.Task{Extractor: x, Argument: arg})
			}
		}
	}
	stieltjes := make([]float64, 0, maxStieltjes+1)
	for k := 0; k <= maxStieltjes; k++ {
		stieltjes = append(stieltjes, float64(k))
	}
	add(constants.FamilyStieltjes, stieltjes)
	add(constants.FamilyZeta, ZetaArguments)
	add(constants.FamilyDigamma, DigammaArguments)
	return tasks
}

// firstRootError returns the first search error, or a degenerate error for a
// root that converged away from its reference.
func firstRootError(results []orchestration.RootResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	for _, r := range results {
		if !(r.AbsError() <= orchestration.RootTolerance) {
			return fmt.Errorf("%s converged to %g instead of %g: %w", r.Name, r.Value, r.Reference, apperrors.ErrDegenerate)
		}
	}
	return nil
}

// jsonResult represents a single extraction or root in JSON format.
type jsonResult struct {
	Route     string  `json:"route"`
	Constant  string  `json:"constant"`
	Value     float64 `json:"value,omitempty"`
	Order     int     `json:"order,omitempty"`
	Shift     int     `json:"shift,omitempty"`
	Bound     float64 `json:"rounding_bound,omitempty"`
	Clamped   bool    `json:"clamped,omitempty"`
	Unstable  bool    `json:"unstable,omitempty"`
	Mismatch  bool    `json:"mismatch,omitempty"`
	Duration  string  `json:"duration,omitempty"`
	Reference float64 `json:"reference,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// jsonReport is the JSON document printed when HASSE_JSON is set.
type jsonReport struct {
	Build   VersionData  `json:"build"`
	Status  string       `json:"status"`
	Results []jsonResult `json:"results"`
}

// Values of jsonReport.Status.
const (
	statusSuccess  = "success"
	statusMismatch = "mismatch"
	statusFailure  = "failure"
)

// memberKey identifies one constant across routes.
type memberKey struct {
	family constants.Family
	arg    float64
}

// printJSONResults formats the batch as a JSON document and writes it to the
// output. This is useful for programmatic consumption of the results.
//
// The exit code follows the text report: routes are checked against the first
// successful route of their constant, a constant no route computed fails with
// the code of its first error, and roots must lie within RootTolerance of
// their reference.
//
// Parameters:
//   - results: The batch results.
//   - rootResults: The digamma root searches.
//   - tolerance: The relative mismatch tolerance; 0 selects DefaultTolerance.
//   - out: The writer for the JSON document.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func printJSONResults(results []orchestration.TaskResult, rootResults []orchestration.RootResult, tolerance float64, out io.Writer) int {
	if tolerance <= 0 {
		tolerance = orchestration.DefaultTolerance
	}
	output := make([]jsonResult, 0, len(results)+len(rootResults))
	baseline := make(map[memberKey]float64)
	firstError := make(map[memberKey]error)
	seen := make(map[memberKey]bool)
	var order []memberKey
	mismatches := 0
	for _, res := range results {
		key := memberKey{res.Family, res.Argument}
		if !seen[key] {
			seen[key] = true
			order = append(order, key)
		}
		jr := jsonResult{
			Route:    res.Name,
			Constant: cli.FormatMember(res.Family, res.Argument),
			Duration: res.Duration.String(),
		}
		if res.Err != nil {
			jr.Error = res.Err.Error()
			if _, ok := firstError[key]; !ok {
				firstError[key] = res.Err
			}
		} else {
			jr.Value = res.Result.Value
			jr.Order = res.Result.Order
			jr.Shift = res.Result.Shift
			jr.Bound = res.Result.RoundingBound
			jr.Clamped = res.Result.Clamped
			jr.Unstable = res.Result.Unstable
			if base, ok := baseline[key]; !ok {
				baseline[key] = res.Result.Value
			} else if orchestration.Mismatch(base, res.Result.Value, tolerance) {
				jr.Mismatch = true
				mismatches++
			}
		}
		if ref, ok := constants.ReferenceValue(res.Family, res.Argument); ok {
			jr.Reference = ref
		}
		output = append(output, jr)
	}
	for _, r := range rootResults {
		jr := jsonResult{Route: "roots", Constant: r.Name, Reference: r.Reference}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		} else {
			jr.Value = r.Value
		}
		output = append(output, jr)
	}

	status, exitCode := statusSuccess, apperrors.ExitSuccess
	if mismatches > 0 {
		status, exitCode = statusMismatch, apperrors.ExitErrorMismatch
	} else {
		var failure error
		for _, key := range order {
			if _, ok := baseline[key]; !ok {
				failure = firstError[key]
				break
			}
		}
		if failure == nil {
			failure = firstRootError(rootResults)
		}
		if failure != nil {
			status = statusFailure
			exitCode = apperrors.HandleCalculationError(failure, 0, io.Discard, apperrors.DefaultColorProvider{})
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonReport{Build: GetVersionInfo(), Status: status, Results: output}); err != nil {
		return apperrors.ExitErrorGeneric
	}
	return exitCode
}
