package config

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/hassecalc/internal/combinatorics"
	"github.com/agbru/hassecalc/internal/constants"
	apperrors "github.com/agbru/hassecalc/internal/errors"
)

// The tests in this file mutate the environment through t.Setenv and
// therefore cannot run in parallel.

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HASSE_PRECISION", "1e-9")
	t.Setenv("HASSE_MAX_STIELTJES", "5")
	t.Setenv("HASSE_CACHE_SIZE", "128")
	t.Setenv("HASSE_LOG_LEVEL", "debug")
	t.Setenv("HASSE_DIGAMMA", " Gonum ")
	t.Setenv("HASSE_TIMEOUT", "5s")
	t.Setenv("HASSE_NO_COLOR", "true")
	t.Setenv("HASSE_TOLERANCE", "1e-5")
	t.Setenv("HASSE_JSON", "1")
	t.Setenv("HASSE_THEME", "Light")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, AppConfig{
		Precision:    1e-9,
		MaxStieltjes: 5,
		CacheSize:    128,
		LogLevel:     "debug",
		Digamma:      "gonum",
		Timeout:      5 * time.Second,
		NoColor:      true,
		Tolerance:    1e-5,
		JSON:         true,
		Theme:        "light",
	}, cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"Unparsable precision", "HASSE_PRECISION", "tiny", "invalid environment"},
		{"Unparsable timeout", "HASSE_TIMEOUT", "soon", "invalid environment"},
		{"Precision out of range", "HASSE_PRECISION", "2", "precision"},
		{"Zero precision", "HASSE_PRECISION", "0", "precision"},
		{"Stieltjes index too large", "HASSE_MAX_STIELTJES", "11", "Stieltjes"},
		{"Negative Stieltjes index", "HASSE_MAX_STIELTJES", "-1", "Stieltjes"},
		{"Zero cache", "HASSE_CACHE_SIZE", "0", "cache size"},
		{"Zero timeout", "HASSE_TIMEOUT", "0s", "timeout"},
		{"Negative tolerance", "HASSE_TOLERANCE", "-1e-7", "tolerance"},
		{"Unknown log level", "HASSE_LOG_LEVEL", "chatty", "log level"},
		{"Unknown strategy", "HASSE_DIGAMMA", "series", "digamma strategy"},
		{"Unknown theme", "HASSE_THEME", "neon", "theme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			var cfgErr apperrors.ConfigError
			assert.True(t, errors.As(err, &cfgErr), "expected a ConfigError, got %T", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateBoundaries(t *testing.T) {
	cfg := Default()
	cfg.MaxStieltjes = constants.DefaultMaxStieltjesIndex
	assert.NoError(t, cfg.Validate())
	cfg.MaxStieltjes = 0
	assert.NoError(t, cfg.Validate())
	cfg.Digamma = ""
	assert.NoError(t, cfg.Validate(), "an empty strategy selects the default")
}

func TestToOptions(t *testing.T) {
	tables := combinatorics.NewTables(16)
	cfg := Default()
	cfg.Precision = 1e-10
	opts := cfg.ToOptions(tables)
	assert.Equal(t, 1e-10, opts.Precision)
	assert.Equal(t, constants.DefaultMaxStieltjesIndex, opts.MaxStieltjesIndex)
	assert.Same(t, tables, opts.Tables)
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintUsage(&buf))
	out := buf.String()
	for _, key := range []string{"HASSE_PRECISION", "HASSE_MAX_STIELTJES", "HASSE_DIGAMMA", "HASSE_TIMEOUT"} {
		assert.True(t, strings.Contains(out, key), "usage lacks %s:\n%s", key, out)
	}
}
