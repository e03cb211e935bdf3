package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"piksel-orders/internal/api"
	"piksel-orders/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard HTTP API",
	Long: `Starts the HTTP API the browser dashboard talks to. Order routes are
always available; comment, reminder and file routes are registered only
when the annotation store is configured.

Required environment variables:
  POCKETBASE_URL - Base URL of the order record store
  SERVE_PORT     - Listen port (default 8080)

Optional (enables annotation routes):
  SUPABASE_DB_URL, SUPABASE_URL, SUPABASE_SERVICE_KEY`,
	Example: `  piksel-orders serve
  piksel-orders serve --port 9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("port", "", "Listen port (overrides SERVE_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repo := newRepo(cfg)
	repo.StartCacheSweeper(context.Background())

	deps := api.Dependencies{Orders: repo}
	if cfg.RequireAnnotations() == nil {
		store, err := newStore(cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to the annotation store: %w", err)
		}
		defer store.Close()
		deps.Annotations = store
	} else {
		log.Warn().Msg("Annotation store not configured; comment/reminder/file routes disabled")
	}

	port, _ := cmd.Flags().GetString("port")
	if port == "" {
		port = cfg.ServePort
	}

	router := api.NewRouter(deps)
	log.Info().Str("port", port).Msg("Starting dashboard API")
	if err := router.Run(":" + port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
