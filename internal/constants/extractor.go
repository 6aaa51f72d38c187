package constants

import (
	"context"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gonum.org/v1/gonum/mathext"

	apperrors "github.com/agbru/hassecalc/internal/errors"
)

// Registered extractor names.
const (
	NameStieltjesLog = "stieltjes-log"
	NameStieltjesEM  = "stieltjes-em"
	NameZetaHasse    = "zeta-hasse"
	NameZetaGonum    = "zeta-gonum"
	NameDigammaHasse = "digamma-hasse"
	NameDigammaGonum = "digamma-gonum"
)

// NameTrigammaHasse labels the ψ' results of Engine.Trigamma. No extractor is
// registered under it.
const NameTrigammaHasse = "trigamma-hasse"

var (
	extractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hasse_extractions_total",
			Help: "The total number of constant extractions processed",
		},
		[]string{"extractor", "status"},
	)
	extractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "hasse_extraction_duration_seconds",
			Help: "The duration of constant extractions in seconds",
		},
		[]string{"extractor"},
	)
	extractionsClamped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hasse_extractions_clamped_total",
			Help: "Extractions whose truncation order was lowered by the stability ceiling",
		},
		[]string{"extractor"},
	)
)

// Extractor defines the public interface for one route to a family of
// constants. It is the abstraction used by the orchestration layer to run
// and compare routes.
type Extractor interface {
	// Extract computes the family member selected by arg: k for γ_k, s for
	// ζ(s) and x for ψ(x).
	//
	// Parameters:
	//   - ctx: The context for managing cancellation and deadlines.
	//   - arg: The family argument.
	//   - opts: Configuration options for the extraction.
	//
	// Returns:
	//   - Result: The extracted value and its diagnostics.
	//   - error: A DomainError for an invalid argument, or the context error.
	Extract(ctx context.Context, arg float64, opts Options) (Result, error)

	// Name returns the registered name of the route.
	Name() string

	// Family returns the family the route computes.
	Family() Family
}

// coreExtractor is a pure extraction route without cross-cutting concerns.
type coreExtractor interface {
	ExtractCore(arg float64, opts Options) (Result, error)
	Name() string
	Family() Family
}

// InstrumentedExtractor decorates a coreExtractor with tracing, metrics,
// logging and cancellation.
type InstrumentedExtractor struct {
	core coreExtractor
}

// NewExtractor wraps core. It panics if core is nil.
func NewExtractor(core coreExtractor) Extractor {
	if core == nil {
		panic("constants: the `coreExtractor` implementation cannot be nil")
	}
	return &InstrumentedExtractor{core: core}
}

// Name returns the name of the wrapped route.
func (x *InstrumentedExtractor) Name() string { return x.core.Name() }

// Family returns the family of the wrapped route.
func (x *InstrumentedExtractor) Family() Family { return x.core.Family() }

// Extract runs the wrapped route inside a span, records its metrics and
// duration, and logs a warning when the result is clamped or unstable.
func (x *InstrumentedExtractor) Extract(ctx context.Context, arg float64, opts Options) (result Result, err error) {
	tracer := otel.Tracer("constants")
	ctx, span := tracer.Start(ctx, "Extract")
	defer span.End()

	name := x.core.Name()
	span.SetAttributes(
		attribute.String("extractor", name),
		attribute.Float64("argument", arg),
	)

	start := time.Now()
	defer func() {
		duration := time.Since(start)
		result.Duration = duration
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
		}
		extractionsTotal.WithLabelValues(name, status).Inc()
		extractionDuration.WithLabelValues(name).Observe(duration.Seconds())

		log.Debug().
			Str("extractor", name).
			Float64("argument", arg).
			Float64("duration", duration.Seconds()).
			Str("status", status).
			Msg("extraction completed")
	}()

	if err = ctx.Err(); err != nil {
		return Result{}, err
	}

	result, err = x.core.ExtractCore(arg, opts)
	if err != nil {
		return Result{}, err
	}
	if result.Clamped {
		extractionsClamped.WithLabelValues(name).Inc()
		log.Warn().
			Str("extractor", name).
			Float64("argument", arg).
			Int("order", result.Order).
			Msg("truncation order clamped by the stability ceiling")
	}
	if result.Unstable {
		log.Warn().
			Str("extractor", name).
			Float64("argument", arg).
			Float64("rounding_bound", result.RoundingBound).
			Float64("precision", result.Precision).
			Msg("rounding bound exceeds the requested precision")
	}
	return result, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Routes
// ─────────────────────────────────────────────────────────────────────────────

// integerArg converts a Stieltjes argument to its index.
func integerArg(op string, arg float64) (int, error) {
	if math.IsNaN(arg) || math.IsInf(arg, 0) || arg != math.Trunc(arg) || math.Abs(arg) > math.MaxInt32 {
		return 0, apperrors.NewDomainError(op, "index must be an integer", arg)
	}
	return int(arg), nil
}

// StieltjesLog is the shifted log-power route to γ_k.
type StieltjesLog struct{}

func (StieltjesLog) Name() string   { return NameStieltjesLog }
func (StieltjesLog) Family() Family { return FamilyStieltjes }

func (StieltjesLog) ExtractCore(arg float64, opts Options) (Result, error) {
	k, err := integerArg("constants.stieltjes", arg)
	if err != nil {
		return Result{}, err
	}
	return NewEngine(opts).Stieltjes(k, 0)
}

// StieltjesEulerMaclaurin is the Euler–Maclaurin route to γ_k.
type StieltjesEulerMaclaurin struct{}

func (StieltjesEulerMaclaurin) Name() string   { return NameStieltjesEM }
func (StieltjesEulerMaclaurin) Family() Family { return FamilyStieltjes }

func (StieltjesEulerMaclaurin) ExtractCore(arg float64, opts Options) (Result, error) {
	k, err := integerArg("constants.stieltjes-em", arg)
	if err != nil {
		return Result{}, err
	}
	return NewEngine(opts).StieltjesEM(k, 0)
}

// ZetaHasse is the shifted operator route to ζ(s).
type ZetaHasse struct{}

func (ZetaHasse) Name() string   { return NameZetaHasse }
func (ZetaHasse) Family() Family { return FamilyZeta }

func (ZetaHasse) ExtractCore(arg float64, opts Options) (Result, error) {
	return NewEngine(opts).Zeta(arg, 0)
}

// ZetaGonum evaluates ζ(s) with gonum's Hurwitz zeta function.
type ZetaGonum struct{}

func (ZetaGonum) Name() string   { return NameZetaGonum }
func (ZetaGonum) Family() Family { return FamilyZeta }

func (ZetaGonum) ExtractCore(arg float64, opts Options) (Result, error) {
	if math.IsNaN(arg) || math.IsInf(arg, 0) || arg <= 1 {
		return Result{}, apperrors.NewDomainError("constants.zeta-gonum", "s must be finite and greater than 1", arg)
	}
	opts = normalizeOptions(opts)
	return Result{
		Name:      NameZetaGonum,
		Family:    FamilyZeta,
		Argument:  arg,
		Value:     mathext.Zeta(arg, 1),
		Precision: opts.Precision,
	}, nil
}

// DigammaHasse is the shifted operator route to ψ(x).
type DigammaHasse struct{}

func (DigammaHasse) Name() string   { return NameDigammaHasse }
func (DigammaHasse) Family() Family { return FamilyDigamma }

func (DigammaHasse) ExtractCore(arg float64, opts Options) (Result, error) {
	return NewEngine(opts).Digamma(arg, 0)
}

// DigammaGonum evaluates ψ(x) with gonum.
type DigammaGonum struct{}

func (DigammaGonum) Name() string   { return NameDigammaGonum }
func (DigammaGonum) Family() Family { return FamilyDigamma }

func (DigammaGonum) ExtractCore(arg float64, opts Options) (Result, error) {
	if math.IsNaN(arg) || math.IsInf(arg, 0) || arg <= 0 {
		return Result{}, apperrors.NewDomainError("constants.digamma-gonum", "x must be finite and positive", arg)
	}
	opts = normalizeOptions(opts)
	return Result{
		Name:      NameDigammaGonum,
		Family:    FamilyDigamma,
		Argument:  arg,
		Value:     mathext.Digamma(arg),
		Precision: opts.Precision,
	}, nil
}
