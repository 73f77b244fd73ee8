package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WaitForShutdown starts the application and blocks until SIGINT or SIGTERM,
// then closes every resource.
func (app *App) WaitForShutdown(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := app.Observability.Provider.Logger
	logger.InfoContext(ctx, "Waiting for shutdown signal...")

	runErr := app.Start(ctx)

	logger.Info("Shutting down application...")
	if err := app.Close(); err != nil {
		logger.Error("Error during shutdown", "error", err)
		if runErr == nil {
			runErr = err
		}
	}
	logger.Info("Application shut down gracefully")
	return runErr
}
