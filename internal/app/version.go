// Package app provides the core application structure for the hassecalc CLI.
// It loads the configuration, runs the extraction batch and the root searches,
// and reports version information.
package app

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/hassecalc/internal/constants"
	"github.com/agbru/hassecalc/internal/hasse"
)

// Build-time variables set via -ldflags.
// These are populated during builds to provide version information.
//
// Example build command:
//
//	go build -ldflags="-X github.com/agbru/hassecalc/internal/app.Version=v1.2.3 -X github.com/agbru/hassecalc/internal/app.Commit=abc123 -X github.com/agbru/hassecalc/internal/app.BuildDate=2025-01-01T00:00:00Z"
var (
	// Version is the semantic version of the application (e.g., "v1.0.0").
	Version = "dev"
	// Commit is the short Git commit hash (e.g., "abc123").
	Commit = "unknown"
	// BuildDate is the ISO 8601 timestamp of the build (e.g., "2025-01-01T00:00:00Z").
	BuildDate = "unknown"
)

// HasVersionFlag checks if any argument is a version flag.
// This allows --version to work in any position (e.g., "hasse -h --version").
//
// Parameters:
//   - args: The command-line arguments to check (typically os.Args[1:]).
//
// Returns:
//   - bool: True if a version flag is found, false otherwise.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--version" || arg == "-version" || arg == "-V" {
			return true
		}
	}
	return false
}

// PrintVersion outputs version information to the given writer: the
// build metadata, the Go runtime and the limits of the coefficient engine.
//
// Parameters:
//   - out: The writer to output version information to.
func PrintVersion(out io.Writer) {
	info := GetVersionInfo()
	fmt.Fprintf(out, "hassecalc %s\n", info.Version)
	fmt.Fprintf(out, "  Commit:     %s\n", info.Commit)
	fmt.Fprintf(out, "  Built:      %s\n", info.BuildDate)
	fmt.Fprintf(out, "  Go version: %s\n", info.GoVersion)
	fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", info.OS, info.Arch)
	fmt.Fprintf(out, "  Max order:  %d (Stieltjes index <= %d)\n", info.MaxOrder, info.MaxStieltjes)
}

// VersionData holds the version information, embedded in the JSON report.
type VersionData struct {
	Version      string `json:"version"`
	Commit       string `json:"commit"`
	BuildDate    string `json:"build_date"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Arch         string `json:"arch"`
	MaxOrder     int    `json:"max_order"`
	MaxStieltjes int    `json:"max_stieltjes"`
}

// GetVersionInfo returns the current version information as a struct.
func GetVersionInfo() VersionData {
	return VersionData{
		Version:      Version,
		Commit:       Commit,
		BuildDate:    BuildDate,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Arch:         runtime.GOARCH,
		MaxOrder:     hasse.MaxOrder,
		MaxStieltjes: constants.DefaultMaxStieltjesIndex,
	}
}
