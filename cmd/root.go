package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"piksel-orders/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "piksel-orders",
	Short: "Piksel Orders CLI - manage ad-campaign orders from the command line",
	Long: `Piksel Orders CLI works against the order record store and the
annotation backend used by the Piksel Orders dashboard: list, filter and
edit orders, inspect revenue distributions and week grids, manage comments,
reminders and file attachments, export filtered orders to Google Sheets,
and serve the dashboard HTTP API.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("Piksel Orders CLI executed")

		fmt.Println("Welcome to Piksel Orders CLI!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
