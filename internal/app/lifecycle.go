package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"
)

// CancelFuncs holds the cancel functions of a batch lifecycle. Both should be
// deferred by the caller.
type CancelFuncs struct {
	// CancelTimeout cancels the timeout context.
	CancelTimeout context.CancelFunc
	// StopSignals stops listening for OS signals.
	StopSignals context.CancelFunc
}

// SetupLifecycle derives the batch context: it is cancelled when timeout
// expires or on SIGINT/SIGTERM, whichever happens first. Extractors check it
// before starting, so an interrupted batch reports the remaining tasks as
// cancelled instead of hanging.
//
// Parameters:
//   - ctx: The parent context.
//   - timeout: The maximum duration of the batch.
//
// Returns:
//   - context.Context: A context with both timeout and signal handling.
//   - *CancelFuncs: The cancel functions for cleanup.
func SetupLifecycle(ctx context.Context, timeout time.Duration) (context.Context, *CancelFuncs) {
	ctx, cancelTimeout := context.WithTimeout(ctx, timeout)
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, &CancelFuncs{
		CancelTimeout: cancelTimeout,
		StopSignals:   stopSignals,
	}
}
