// Command hasse extracts the Stieltjes constants, odd zeta values and
// digamma values through the Hasse operator, cross-checks every route
// against an independent one and against the literature, and locates the
// first digamma and Bessel roots. It is configured through HASSE_*
// environment variables; run it with --help to list them.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/agbru/hassecalc/internal/app"
	apperrors "github.com/agbru/hassecalc/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		os.Exit(apperrors.ExitSuccess)
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(apperrors.ExitErrorConfig)
	}

	os.Exit(application.Run(context.Background(), os.Stdout))
}
