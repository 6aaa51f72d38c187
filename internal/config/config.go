// Package config provides the configuration management for the hassecalc
// application. It defines the configuration structure, loads it from the
// environment and validates the values before a batch is started.
package config

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/agbru/hassecalc/internal/combinatorics"
	"github.com/agbru/hassecalc/internal/constants"
	apperrors "github.com/agbru/hassecalc/internal/errors"
	"github.com/agbru/hassecalc/internal/logging"
	"github.com/agbru/hassecalc/internal/ui"
)

// EnvPrefix is the prefix of every environment variable read by hassecalc,
// e.g. HASSE_PRECISION.
const EnvPrefix = "HASSE"

// Default configuration values.
const (
	// DefaultPrecision is the default target precision of every extraction.
	DefaultPrecision = constants.DefaultPrecision
	// DefaultMaxStieltjes is the highest Stieltjes index of the default batch.
	DefaultMaxStieltjes = 10
	// DefaultCacheSize is the default capacity of each combinatorial cache.
	DefaultCacheSize = 4096
	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"
	// DefaultDigamma is the default digamma strategy of the root finders.
	DefaultDigamma = "hasse"
	// DefaultTimeout is the default batch timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultTolerance is the default relative mismatch tolerance.
	DefaultTolerance = 1e-7
	// DefaultTheme is the default color theme.
	DefaultTheme = "dark"
)

// AppConfig aggregates the application's configuration, read from the
// environment. Every field maps to EnvPrefix + "_" + its name split into
// upper-case words, e.g. MaxStieltjes reads HASSE_MAX_STIELTJES. Explicit
// envconfig tags are avoided since envconfig then also reads the unprefixed
// variable, which would pick up an unrelated NO_COLOR or TIMEOUT.
type AppConfig struct {
	// Precision is the target precision ε of every extraction, in (0, 1).
	Precision float64 `split_words:"true" desc:"target precision of every extraction" default:"1e-12"`
	// MaxStieltjes is the highest Stieltjes index of the batch.
	MaxStieltjes int `split_words:"true" desc:"highest Stieltjes index of the batch" default:"10"`
	// CacheSize is the capacity of each combinatorial cache.
	CacheSize int `split_words:"true" desc:"capacity of each combinatorial cache" default:"4096"`
	// LogLevel is the zerolog level name.
	LogLevel string `split_words:"true" desc:"debug, info, warn, error or disabled" default:"info"`
	// Digamma selects the digamma strategy of the root finders.
	Digamma string `split_words:"true" desc:"digamma strategy of the root finders (hasse or gonum)" default:"hasse"`
	// Timeout bounds the duration of the whole batch.
	Timeout time.Duration `split_words:"true" desc:"timeout of the whole batch" default:"30s"`
	// NoColor disables the colored output.
	NoColor bool `split_words:"true" desc:"disable colored output" default:"false"`
	// Theme names the color theme.
	Theme string `split_words:"true" desc:"color theme (dark, light or none)" default:"dark"`
	// Tolerance is the relative tolerance between two routes to one constant.
	Tolerance float64 `split_words:"true" desc:"relative tolerance between two routes" default:"1e-7"`
	// MetricsAddr is the listen address of the metrics endpoint; empty disables it.
	MetricsAddr string `split_words:"true" desc:"listen address of the /metrics endpoint, e.g. :9090"`
	// JSON prints the batch results as JSON instead of tables.
	JSON bool `split_words:"true" desc:"print results as JSON" default:"false"`
}

// Default returns the configuration used when no variable is set.
func Default() AppConfig {
	return AppConfig{
		Precision:    DefaultPrecision,
		MaxStieltjes: DefaultMaxStieltjes,
		CacheSize:    DefaultCacheSize,
		LogLevel:     DefaultLogLevel,
		Digamma:      DefaultDigamma,
		Timeout:      DefaultTimeout,
		Tolerance:    DefaultTolerance,
		Theme:        DefaultTheme,
	}
}

// Load reads the configuration from the environment and validates it.
//
// Returns:
//   - AppConfig: The loaded configuration.
//   - error: An apperrors.ConfigError if a variable cannot be parsed or a
//     value is out of range.
func Load() (AppConfig, error) {
	var cfg AppConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return AppConfig{}, apperrors.NewConfigError("invalid environment: %v", err)
	}
	cfg.Digamma = strings.ToLower(strings.TrimSpace(cfg.Digamma))
	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks the consistency of the configuration values.
//
// Returns:
//   - error: An apperrors.ConfigError describing the first invalid value.
func (c AppConfig) Validate() error {
	if !(c.Precision > 0 && c.Precision < 1) {
		return apperrors.NewConfigError("precision must lie in (0, 1), got %g", c.Precision)
	}
	if c.MaxStieltjes < 0 || c.MaxStieltjes > constants.StieltjesIndexCeiling {
		return apperrors.NewConfigError("max Stieltjes index must lie in [0, %d], got %d",
			constants.StieltjesIndexCeiling, c.MaxStieltjes)
	}
	if c.CacheSize <= 0 {
		return apperrors.NewConfigError("cache size must be positive, got %d", c.CacheSize)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be positive, got %s", c.Timeout)
	}
	if !(c.Tolerance > 0) {
		return apperrors.NewConfigError("tolerance must be positive, got %g", c.Tolerance)
	}
	if _, ok := logging.ParseLevel(c.LogLevel); !ok {
		return apperrors.NewConfigError("unknown log level: '%s'", c.LogLevel)
	}
	if !slices.Contains(ui.ThemeNames(), c.Theme) {
		return apperrors.NewConfigError("unknown theme: '%s'. Valid themes: %s", c.Theme, strings.Join(ui.ThemeNames(), ", "))
	}
	switch c.Digamma {
	case "", "hasse", "gonum":
	default:
		return apperrors.NewConfigError("unknown digamma strategy: '%s'. Valid strategies: hasse, gonum", c.Digamma)
	}
	return nil
}

// ToOptions converts the configuration into extraction options.
//
// Parameters:
//   - tables: The combinatorial tables; nil selects the process default.
//
// Returns:
//   - constants.Options: The options of every task of the batch.
func (c AppConfig) ToOptions(tables *combinatorics.Tables) constants.Options {
	return constants.Options{
		Precision:         c.Precision,
		MaxStieltjesIndex: constants.StieltjesIndexCeiling,
		Tables:            tables,
	}
}

// PrintUsage lists every environment variable with its type and default.
func PrintUsage(out io.Writer) error {
	if err := envconfig.Usagef(EnvPrefix, &AppConfig{}, out, envconfig.DefaultTableFormat); err != nil {
		return fmt.Errorf("printing usage: %w", err)
	}
	return nil
}
