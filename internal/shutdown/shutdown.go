// Package shutdown runs a blocking task until it returns or the process is
// interrupted.
package shutdown

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Signals interrupt a task started by Run.
var Signals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// Run calls run with a context that is cancelled when ctx ends or one of
// Signals arrives. On interruption stop is called with a context bounded by
// timeout, and Run waits at most that long for run to return. A run that ends
// with context.Canceled after an interruption is a clean exit.
func Run(
	ctx context.Context,
	logger *slog.Logger,
	timeout time.Duration,
	run func(ctx context.Context) error,
	stop func(ctx context.Context) error,
) error {
	runCtx, cancel := signal.NotifyContext(ctx, Signals...)
	defer cancel()

	runDone := make(chan error, 1)
	go func() {
		runDone <- run(runCtx)
	}()

	select {
	case err := <-runDone:
		return err
	case <-runCtx.Done():
	}

	if ctx.Err() == nil {
		logger.Info("interrupted, shutting down")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), timeout)
	defer stopCancel()

	if stop != nil {
		if err := stop(stopCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}

	select {
	case err := <-runDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	case <-stopCtx.Done():
		logger.Warn("shutdown timeout exceeded")
		return nil
	}
}
