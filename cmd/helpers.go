package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"piksel-orders/internal/annotations"
	"piksel-orders/internal/config"
	"piksel-orders/internal/logger"
	"piksel-orders/internal/pocketbase"
)

// loadConfig loads and validates the environment configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// newRepo builds the order repository client from the configuration.
func newRepo(cfg *config.Config) *pocketbase.Client {
	return pocketbase.NewClient(cfg.PocketBaseURL, cfg.PocketBaseCollection)
}

// newStore connects to the annotation store, verifying its configuration
// first so the error names the missing variable instead of a dial failure.
func newStore(cfg *config.Config) (*annotations.Store, error) {
	if err := cfg.RequireAnnotations(); err != nil {
		return nil, err
	}
	storage := annotations.NewStorage(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.StorageBucket)
	return annotations.Open(cfg.SupabaseDBURL, storage)
}

// contextWithTimeout derives a deadline context from the command's context
// and cancels it on SIGINT/SIGTERM so long-running calls abort cleanly.
func contextWithTimeout(cmd *cobra.Command, timeout time.Duration) (context.Context, context.CancelFunc) {
	log := logger.WithComponent("cmd")
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// printJSON renders v as indented JSON on stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
