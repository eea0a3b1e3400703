package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/formkeeper/spam-blocker/internal/core"
	"github.com/formkeeper/spam-blocker/internal/di"
	"github.com/formkeeper/spam-blocker/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	formHost ports.FormHost,
	flagStore core.FlagStore,
	submissionStore core.SubmissionStore,
) error {
	defer logger.Sync()

	// Start the form host
	if err := formHost.Start(); err != nil {
		logger.Fatal("Failed to start form host", zap.Error(err))
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	// Stop the host
	if err := formHost.Stop(); err != nil {
		logger.Error("Failed to stop form host", zap.Error(err))
	}

	// Stop the flag store if needed; this also releases any durable
	// entries still pending expiry
	if stopper, ok := flagStore.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	// Close the submission store if needed
	if closer, ok := submissionStore.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close submission store", zap.Error(err))
		}
	}

	logger.Info("Shutdown complete")
	return nil
}
