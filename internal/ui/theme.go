// Package ui holds the terminal color themes shared by the cli and
// orchestration reports. Every color accessor reads the active theme, so
// switching to NoColorTheme strips all escape codes from the output.
package ui

import (
	"fmt"
	"os"
	"sort"
	"sync/atomic"
)

// Theme defines a color scheme for UI output.
// Each field contains an ANSI escape code for the corresponding color category.
type Theme struct {
	// Name is the identifier of the theme.
	Name string
	// Primary colors route names.
	Primary string
	// Secondary colors errors against references.
	Secondary string
	// Success marks agreeing routes.
	Success string
	// Warning marks durations and handled errors.
	Warning string
	// Error marks mismatches and failures.
	Error string
	// Info colors stability flags and configuration values.
	Info string
	// Bold is the escape code for bold text.
	Bold string
	// Underline is the escape code for underlined text.
	Underline string
	// Reset clears all formatting.
	Reset string
}

var (
	// DarkTheme is optimized for dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;39m",  // Bright blue
		Secondary: "\033[38;5;245m", // Grey
		Success:   "\033[38;5;82m",  // Bright green
		Warning:   "\033[38;5;220m", // Yellow
		Error:     "\033[38;5;196m", // Red
		Info:      "\033[38;5;141m", // Purple
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// LightTheme is optimized for light terminal backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;27m",  // Dark blue
		Secondary: "\033[38;5;240m", // Dark grey
		Success:   "\033[38;5;28m",  // Dark green
		Warning:   "\033[38;5;130m", // Orange
		Error:     "\033[38;5;124m", // Dark red
		Info:      "\033[38;5;54m",  // Dark purple
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// NoColorTheme disables all color output.
	NoColorTheme = Theme{Name: "none"}

	themes = map[string]Theme{
		DarkTheme.Name:    DarkTheme,
		LightTheme.Name:   LightTheme,
		NoColorTheme.Name: NoColorTheme,
	}

	current atomic.Pointer[Theme]
)

func init() {
	t := DarkTheme
	current.Store(&t)
}

// ThemeNames returns the sorted names accepted by SetTheme.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme { return *current.Load() }

// SetCurrentTheme installs t as the active theme.
func SetCurrentTheme(t Theme) { current.Store(&t) }

// SetTheme activates a theme by name.
//
// Returns:
//   - error: Non-nil for a name outside ThemeNames; the theme is unchanged.
func SetTheme(name string) error {
	t, ok := themes[name]
	if !ok {
		return fmt.Errorf("unknown theme %q, want one of %v", name, ThemeNames())
	}
	SetCurrentTheme(t)
	return nil
}

// InitTheme selects the startup theme. Colors are disabled when noColor is
// set or the NO_COLOR environment variable exists (https://no-color.org/);
// otherwise the named theme is used, falling back to DarkTheme.
func InitTheme(noColor bool, name ...string) {
	if _, exists := os.LookupEnv("NO_COLOR"); noColor || exists {
		SetCurrentTheme(NoColorTheme)
		return
	}
	if len(name) > 0 && SetTheme(name[0]) == nil {
		return
	}
	SetCurrentTheme(DarkTheme)
}

// ColorReset returns the reset escape code from the current theme.
func ColorReset() string { return GetCurrentTheme().Reset }

// ColorRed returns the error color from the current theme.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorGreen returns the success color from the current theme.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorYellow returns the warning color from the current theme.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorBlue returns the primary color from the current theme.
func ColorBlue() string { return GetCurrentTheme().Primary }

// ColorMagenta returns the info color from the current theme.
func ColorMagenta() string { return GetCurrentTheme().Info }

// ColorCyan returns the secondary color from the current theme.
func ColorCyan() string { return GetCurrentTheme().Secondary }

// ColorBold returns the bold escape code from the current theme.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorUnderline returns the underline escape code from the current theme.
func ColorUnderline() string { return GetCurrentTheme().Underline }
