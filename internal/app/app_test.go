package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/hassecalc/internal/config"
	"github.com/agbru/hassecalc/internal/constants"
	apperrors "github.com/agbru/hassecalc/internal/errors"
	"github.com/agbru/hassecalc/internal/orchestration"
)

// syncBuffer is a bytes.Buffer safe for the concurrent writes of the
// extraction goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// testApplication returns an application running a small batch without
// colors, with every log line captured in the returned buffer.
func testApplication(mutate func(*config.AppConfig)) (*Application, *syncBuffer) {
	cfg := config.Default()
	cfg.MaxStieltjes = 2
	cfg.NoColor = true
	if mutate != nil {
		mutate(&cfg)
	}
	var errBuf syncBuffer
	return &Application{
		Config:    cfg,
		Factory:   constants.NewDefaultFactory(),
		ErrWriter: &errBuf,
	}, &errBuf
}

// TestNew tests the New function for creating Application instances. It
// mutates the environment and therefore does not run in parallel.
func TestNew(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		app, err := New([]string{"hasse"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, config.Default(), app.Config)
		assert.NotNil(t, app.Factory)
	})

	t.Run("Environment overrides", func(t *testing.T) {
		t.Setenv("HASSE_MAX_STIELTJES", "4")
		t.Setenv("HASSE_DIGAMMA", "gonum")
		app, err := New([]string{"hasse"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, 4, app.Config.MaxStieltjes)
		assert.Equal(t, "gonum", app.Config.Digamma)
	})

	t.Run("Invalid environment", func(t *testing.T) {
		t.Setenv("HASSE_PRECISION", "-1")
		_, err := New([]string{"hasse"}, &bytes.Buffer{})
		var cfgErr apperrors.ConfigError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("Help flag", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := New([]string{"hasse", "--help"}, &buf)
		assert.True(t, IsHelpError(err))
		assert.Contains(t, buf.String(), "HASSE_PRECISION")
	})
}

func TestHasHelpFlag(t *testing.T) {
	t.Parallel()
	assert.True(t, HasHelpFlag([]string{"-h"}))
	assert.True(t, HasHelpFlag([]string{"--version", "--help"}))
	assert.False(t, HasHelpFlag([]string{"--version"}))
	assert.False(t, HasHelpFlag(nil))
	assert.False(t, IsHelpError(errors.New("other")))
}

func TestBuildTasks(t *testing.T) {
	t.Parallel()
	tasks := BuildTasks(constants.NewDefaultFactory(), 2)
	// Two routes for each of γ_0..γ_2, five odd zeta values and ψ(1).
	require.Len(t, tasks, 2*3+2*len(ZetaArguments)+2*len(DigammaArguments))

	counts := make(map[constants.Family]int)
	for _, task := range tasks {
		counts[task.Extractor.Family()]++
	}
	assert.Equal(t, 6, counts[constants.FamilyStieltjes])
	assert.Equal(t, 10, counts[constants.FamilyZeta])
	assert.Equal(t, 2, counts[constants.FamilyDigamma])
	assert.Equal(t, 0.0, tasks[0].Argument)
	assert.Equal(t, 2.0, tasks[5].Argument)

	assert.Len(t, BuildTasks(constants.NewDefaultFactory(), 0), 2+2*len(ZetaArguments)+2*len(DigammaArguments))
}

// The Run tests replace the global zerolog logger and cannot run in parallel.

func TestApplicationRun(t *testing.T) {
	for _, strategy := range []string{"hasse", "gonum"} {
		t.Run(strategy, func(t *testing.T) {
			app, errBuf := testApplication(func(c *config.AppConfig) { c.Digamma = strategy })
			var out bytes.Buffer
			code := app.Run(context.Background(), &out)
			require.Equal(t, apperrors.ExitSuccess, code, out.String())

			report := out.String()
			for _, want := range []string{
				"Execution Configuration", "Consistency Summary", "Reference Comparison", "--- Roots ---",
				"γ_2", "ζ(11)", "ψ(1)", "j_{0,3}", "Global Status: Success",
			} {
				assert.Contains(t, report, want)
			}
			assert.Contains(t, errBuf.String(), "batch complete")
		})
	}
}

func TestApplicationRunJSON(t *testing.T) {
	app, _ := testApplication(func(c *config.AppConfig) {
		c.JSON = true
		c.LogLevel = "disabled"
	})
	var out bytes.Buffer
	require.Equal(t, apperrors.ExitSuccess, app.Run(context.Background(), &out))

	var report jsonReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, Version, report.Build.Version)
	tasks := BuildTasks(app.Factory, app.Config.MaxStieltjes)
	roots := len(constants.DigammaRootReference) + len(constants.BesselJ0ZeroReference)
	require.Len(t, report.Results, len(tasks)+roots)
	for _, r := range report.Results {
		assert.Empty(t, r.Error, r.Constant)
		if r.Reference != 0 {
			assert.InDelta(t, r.Reference, r.Value, 1e-8, "%s via %s", r.Constant, r.Route)
		}
	}
}

func TestApplicationRunWithMetrics(t *testing.T) {
	app, errBuf := testApplication(func(c *config.AppConfig) {
		c.MetricsAddr = "127.0.0.1:0"
		c.MaxStieltjes = 0
	})
	require.Equal(t, apperrors.ExitSuccess, app.Run(context.Background(), &bytes.Buffer{}))
	assert.Contains(t, errBuf.String(), "metrics server")
}

func TestApplicationRunCancelled(t *testing.T) {
	app, _ := testApplication(func(c *config.AppConfig) { c.LogLevel = "disabled" })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	assert.Equal(t, apperrors.ExitErrorCanceled, app.Run(ctx, &out))
}

func TestApplicationRunUnknownStrategy(t *testing.T) {
	app, errBuf := testApplication(func(c *config.AppConfig) {
		c.Digamma = "series"
		c.LogLevel = "disabled"
	})
	assert.Equal(t, apperrors.ExitErrorConfig, app.Run(context.Background(), &bytes.Buffer{}))
	assert.Contains(t, errBuf.String(), "Configuration error")
}

func TestPrintJSONResultsError(t *testing.T) {
	t.Parallel()
	results := []orchestration.TaskResult{{
		Name: constants.NameZetaHasse, Family: constants.FamilyZeta, Argument: 1,
		Err: apperrors.NewDomainError("constants.zeta", "pole", 1),
	}}
	var out bytes.Buffer
	assert.Equal(t, apperrors.ExitErrorDomain, printJSONResults(results, nil, 0, &out))
	assert.True(t, strings.Contains(out.String(), `"error"`))
	assert.Contains(t, out.String(), `"status": "failure"`)
}

// decodeJSONReport runs printJSONResults and decodes its document.
func decodeJSONReport(t *testing.T, results []orchestration.TaskResult, roots []orchestration.RootResult) (int, jsonReport) {
	t.Helper()
	var out bytes.Buffer
	code := printJSONResults(results, roots, 1e-7, &out)
	var report jsonReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	return code, report
}

func TestPrintJSONResultsStatus(t *testing.T) {
	t.Parallel()
	route := func(name string, value float64) orchestration.TaskResult {
		return orchestration.TaskResult{
			Name: name, Family: constants.FamilyStieltjes, Argument: 0,
			Result: constants.Result{Value: value},
		}
	}
	root := orchestration.RootResult{Name: "x0", Value: 1.4616321449683622, Reference: 1.4616321449683622}

	tests := []struct {
		name     string
		results  []orchestration.TaskResult
		roots    []orchestration.RootResult
		wantCode int
		status   string
		flagged  []bool
	}{
		{
			name:     "Routes agree",
			results:  []orchestration.TaskResult{route("a", 0.5772156649), route("b", 0.5772156649+1e-9)},
			roots:    []orchestration.RootResult{root},
			wantCode: apperrors.ExitSuccess,
			status:   "success",
			flagged:  []bool{false, false, false},
		},
		{
			name:     "Routes disagree",
			results:  []orchestration.TaskResult{route("a", 0.5772156649), route("b", 0.58)},
			roots:    []orchestration.RootResult{root},
			wantCode: apperrors.ExitErrorMismatch,
			status:   "mismatch",
			flagged:  []bool{false, true, false},
		},
		{
			name: "One route failed",
			results: []orchestration.TaskResult{
				{Name: "a", Family: constants.FamilyStieltjes, Err: errors.New("boom")},
				route("b", 0.5772156649),
			},
			wantCode: apperrors.ExitSuccess,
			status:   "success",
			flagged:  []bool{false, false},
		},
		{
			name:     "Root off its reference",
			results:  []orchestration.TaskResult{route("a", 0.5772156649)},
			roots:    []orchestration.RootResult{{Name: "x1", Value: -0.3, Reference: -0.5040830082644554}},
			wantCode: apperrors.ExitErrorGeneric,
			status:   "failure",
			flagged:  []bool{false, false},
		},
		{
			name:     "Root search canceled",
			results:  []orchestration.TaskResult{route("a", 0.5772156649)},
			roots:    []orchestration.RootResult{{Name: "x1", Err: context.Canceled}},
			wantCode: apperrors.ExitErrorCanceled,
			status:   "failure",
			flagged:  []bool{false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			code, report := decodeJSONReport(t, tt.results, tt.roots)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.status, report.Status)
			require.Len(t, report.Results, len(tt.flagged))
			for i, want := range tt.flagged {
				assert.Equal(t, want, report.Results[i].Mismatch, "result %d", i)
			}
		})
	}
}

func TestFirstRootError(t *testing.T) {
	t.Parallel()
	assert.NoError(t, firstRootError([]orchestration.RootResult{{Value: 1, Reference: 1}}))

	off := []orchestration.RootResult{{Name: "x", Value: 1, Reference: 2}}
	assert.ErrorIs(t, firstRootError(off), apperrors.ErrDegenerate)

	failed := []orchestration.RootResult{off[0], {Err: context.Canceled}}
	assert.ErrorIs(t, firstRootError(failed), context.Canceled)
}

func TestSetupLifecycle(t *testing.T) {
	t.Parallel()
	ctx, cancels := SetupLifecycle(context.Background(), time.Hour)
	require.NotNil(t, cancels)
	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)
	cancels.StopSignals()
	cancels.CancelTimeout()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
