package cmd

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"piksel-orders/internal/filter"
	"piksel-orders/internal/logger"
	"piksel-orders/internal/pocketbase"
	"piksel-orders/internal/sheets"
	"piksel-orders/pkg/models"
)

// exportPageSize is the page size used when draining the filtered set.
const exportPageSize = 200

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export filtered orders to Google Sheets",
	Long: `Fetches every order matching the filters and appends them to the
configured spreadsheet, followed by a summary row with the total price of
approved orders starting in the current month. Client and agency filters
match exactly here, unlike the listing's substring match.

Required environment variables:
  POCKETBASE_URL                 - Base URL of the order record store
  GOOGLE_SHEET_URL               - URL of the target spreadsheet
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS             - Inline JSON credentials string`,
	Example: `  # Export all approved 2025 orders
  piksel-orders export --status taip --year 2025

  # Export one client's orders to a named worksheet
  piksel-orders export --client "Maxima" --worksheet "Maxima 2025"`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("status", "", `Status filter: "taip" or "ne"`)
	exportCmd.Flags().String("month", "", "Month filter, 01..12 (requires --year)")
	exportCmd.Flags().String("year", "", "Year filter, e.g. 2025")
	exportCmd.Flags().String("client", "", "Client filter (exact match)")
	exportCmd.Flags().String("agency", "", "Agency filter (exact match)")
	exportCmd.Flags().String("media", "", `Media-received filter: "true"/"false"`)
	exportCmd.Flags().String("worksheet", "", "Worksheet name (default from GOOGLE_SHEET_WORKSHEET)")
	exportCmd.Flags().Int("timeout", 600, "Export timeout in seconds")
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("export")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireExport(); err != nil {
		return err
	}
	repo := newRepo(cfg)

	state := models.FilterState{}
	state.Status, _ = cmd.Flags().GetString("status")
	state.Month, _ = cmd.Flags().GetString("month")
	state.Year, _ = cmd.Flags().GetString("year")
	state.Client, _ = cmd.Flags().GetString("client")
	state.Agency, _ = cmd.Flags().GetString("agency")
	state.MediaReceived, _ = cmd.Flags().GetString("media")
	expr := filter.Build("", state, filter.MatchExact)

	timeoutSecs, _ := cmd.Flags().GetInt("timeout")
	ctx, cancel := contextWithTimeout(cmd, time.Duration(timeoutSecs)*time.Second)
	defer cancel()

	log.Info().Str("filter", expr).Msg("Fetching orders for export")

	// First page sizes the progress bar.
	first, err := repo.List(ctx, pocketbase.ListParams{Page: 1, PerPage: exportPageSize, Filter: expr})
	if err != nil {
		return fmt.Errorf("failed to fetch orders: %w", err)
	}

	orders := first.Items
	if first.TotalPages > 1 {
		bar := progressbar.Default(int64(first.TotalPages), "fetching pages")
		bar.Add(1)
		for page := 2; page <= first.TotalPages; page++ {
			list, err := repo.List(ctx, pocketbase.ListParams{Page: page, PerPage: exportPageSize, Filter: expr})
			if err != nil {
				return fmt.Errorf("failed to fetch page %d: %w", page, err)
			}
			orders = append(orders, list.Items...)
			bar.Add(1)
		}
	}

	if len(orders) == 0 {
		fmt.Println("No orders match the filters; nothing exported.")
		return nil
	}

	worksheet, _ := cmd.Flags().GetString("worksheet")
	if worksheet == "" {
		worksheet = cfg.GoogleSheetWorksheet
	}

	svc, err := sheets.NewService(ctx, cfg.GoogleSheetURL)
	if err != nil {
		return fmt.Errorf("failed to create sheets service: %w", err)
	}

	if err := svc.AppendOrders(ctx, worksheet, orders, time.Now()); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	fmt.Printf("Exported %d orders to worksheet %q\n", len(orders), worksheet)
	return nil
}
