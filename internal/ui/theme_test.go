package ui

import (
	"os"
	"testing"
)

// The theme is process-wide; these tests do not run in parallel.

func TestSetTheme(t *testing.T) {
	defer SetCurrentTheme(DarkTheme)

	for _, name := range ThemeNames() {
		if err := SetTheme(name); err != nil {
			t.Fatalf("SetTheme(%q): %v", name, err)
		}
		if got := GetCurrentTheme().Name; got != name {
			t.Errorf("active theme = %q, want %q", got, name)
		}
	}
	if err := SetTheme("neon"); err == nil {
		t.Error("expected an error for an unknown theme")
	}
	if got := GetCurrentTheme().Name; got != ThemeNames()[len(ThemeNames())-1] {
		t.Errorf("an unknown name must leave the theme unchanged, got %q", got)
	}
}

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"dark", "light", "none"}
	if len(names) != len(want) {
		t.Fatalf("ThemeNames() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("ThemeNames()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestInitTheme(t *testing.T) {
	defer SetCurrentTheme(DarkTheme)

	InitTheme(true, "light")
	if GetCurrentTheme() != NoColorTheme {
		t.Error("noColor must win over the theme name")
	}

	t.Setenv("NO_COLOR", "1")
	InitTheme(false, "light")
	if GetCurrentTheme() != NoColorTheme {
		t.Error("NO_COLOR must disable colors")
	}
}

func TestInitThemeNamed(t *testing.T) {
	defer SetCurrentTheme(DarkTheme)
	if _, set := os.LookupEnv("NO_COLOR"); set {
		t.Skip("NO_COLOR is set in the test environment")
	}

	InitTheme(false, "light")
	if GetCurrentTheme() != LightTheme {
		t.Errorf("expected the light theme, got %q", GetCurrentTheme().Name)
	}
	InitTheme(false, "neon")
	if GetCurrentTheme() != DarkTheme {
		t.Errorf("an unknown name must fall back to dark, got %q", GetCurrentTheme().Name)
	}
	InitTheme(false)
	if GetCurrentTheme() != DarkTheme {
		t.Errorf("expected the dark theme, got %q", GetCurrentTheme().Name)
	}
}

func TestColorAccessors(t *testing.T) {
	defer SetCurrentTheme(DarkTheme)

	SetCurrentTheme(DarkTheme)
	pairs := map[string][2]string{
		"reset":     {ColorReset(), DarkTheme.Reset},
		"red":       {ColorRed(), DarkTheme.Error},
		"green":     {ColorGreen(), DarkTheme.Success},
		"yellow":    {ColorYellow(), DarkTheme.Warning},
		"blue":      {ColorBlue(), DarkTheme.Primary},
		"magenta":   {ColorMagenta(), DarkTheme.Info},
		"cyan":      {ColorCyan(), DarkTheme.Secondary},
		"bold":      {ColorBold(), DarkTheme.Bold},
		"underline": {ColorUnderline(), DarkTheme.Underline},
	}
	for name, p := range pairs {
		if p[0] != p[1] {
			t.Errorf("%s = %q, want %q", name, p[0], p[1])
		}
	}

	SetCurrentTheme(NoColorTheme)
	if ColorRed()+ColorBold()+ColorReset() != "" {
		t.Error("NoColorTheme must not emit escape codes")
	}
}
