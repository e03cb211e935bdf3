package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"piksel-orders/internal/filter"
	"piksel-orders/internal/isoweek"
	"piksel-orders/internal/logger"
	"piksel-orders/internal/pocketbase"
	"piksel-orders/pkg/models"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List and manage orders",
	Long: `Work with orders in the record store: list them with the dashboard's
filters, inspect a single order, create, update and delete.

Required environment variables:
  POCKETBASE_URL        - Base URL of the order record store
  POCKETBASE_COLLECTION - Orders collection name (default "orders")`,
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders with the dashboard filters",
	Example: `  # Most recently updated orders
  piksel-orders orders list

  # Approved March 2025 orders for one client
  piksel-orders orders list --status taip --month 03 --year 2025 --client Maxima

  # Quick search (matches client, agency and order number; "viad" matches viaduct orders)
  piksel-orders orders list --search viad`,
	RunE: runOrdersList,
}

var ordersGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one order with its quote link",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrdersGet,
}

var ordersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an order",
	Example: `  piksel-orders orders create --client "Maxima" --agency "OMD" \
    --invoice-id PO-1001 --from 2025-07-01 --to 2025-07-14 \
    --price 1200 --status taip`,
	RunE: runOrdersCreate,
}

var ordersUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update fields of an order",
	Long: `Applies a partial update: only the flags you pass are written. Use
--invoice-sent / --media-received to toggle the single flags the dashboard
toggles from the table row.`,
	Args: cobra.ExactArgs(1),
	RunE: runOrdersUpdate,
}

var ordersDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an order",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrdersDelete,
}

func init() {
	rootCmd.AddCommand(ordersCmd)
	ordersCmd.AddCommand(ordersListCmd, ordersGetCmd, ordersCreateCmd, ordersUpdateCmd, ordersDeleteCmd)

	ordersListCmd.Flags().String("search", "", "Quick search over client, agency and order number")
	ordersListCmd.Flags().String("status", "", `Status filter: "taip" (approved) or "ne"`)
	ordersListCmd.Flags().String("month", "", "Month filter, 01..12 (requires --year)")
	ordersListCmd.Flags().String("year", "", "Year filter, e.g. 2025")
	ordersListCmd.Flags().String("client", "", "Client substring filter")
	ordersListCmd.Flags().String("agency", "", "Agency substring filter")
	ordersListCmd.Flags().String("media", "", `Media-received filter: "true"/"false"`)
	ordersListCmd.Flags().Int("page", 1, "Page number (1-based)")
	ordersListCmd.Flags().Int("per-page", pocketbase.DefaultPerPage, "Page size")
	ordersListCmd.Flags().String("sort", "updated", "Sort field")
	ordersListCmd.Flags().String("dir", "desc", "Sort direction: asc or desc")
	ordersListCmd.Flags().Bool("json", false, "Output as JSON")

	ordersGetCmd.Flags().Bool("json", false, "Output as JSON")

	ordersCreateCmd.Flags().String("client", "", "Client name")
	ordersCreateCmd.Flags().String("agency", "", "Agency name")
	ordersCreateCmd.Flags().String("invoice-id", "", "Order number")
	ordersCreateCmd.Flags().String("from", "", "Start date (yyyy-mm-dd)")
	ordersCreateCmd.Flags().String("to", "", "End date (yyyy-mm-dd)")
	ordersCreateCmd.Flags().Float64("price", 0, "Final price in EUR")
	ordersCreateCmd.Flags().String("status", models.StatusUnapproved, `Status: taip, ne, rezervuota or atšaukta`)
	ordersCreateCmd.Flags().Bool("viaduct", false, "Viaduct campaign")
	ordersCreateCmd.Flags().String("intensity", "", `Intensity label, e.g. "Kas 6"`)

	ordersUpdateCmd.Flags().String("client", "", "Client name")
	ordersUpdateCmd.Flags().String("agency", "", "Agency name")
	ordersUpdateCmd.Flags().String("from", "", "Start date (yyyy-mm-dd)")
	ordersUpdateCmd.Flags().String("to", "", "End date (yyyy-mm-dd)")
	ordersUpdateCmd.Flags().Float64("price", 0, "Final price in EUR")
	ordersUpdateCmd.Flags().String("status", "", "Status: taip or ne")
	ordersUpdateCmd.Flags().String("invoice-sent", "", "Invoice-sent flag: true or false")
	ordersUpdateCmd.Flags().String("media-received", "", "Media-received flag: true or false")
}

func runOrdersList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("orders")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	repo := newRepo(cfg)

	search, _ := cmd.Flags().GetString("search")
	state := models.FilterState{}
	state.Status, _ = cmd.Flags().GetString("status")
	state.Month, _ = cmd.Flags().GetString("month")
	state.Year, _ = cmd.Flags().GetString("year")
	state.Client, _ = cmd.Flags().GetString("client")
	state.Agency, _ = cmd.Flags().GetString("agency")
	state.MediaReceived, _ = cmd.Flags().GetString("media")

	expr := filter.Build(search, state, filter.MatchSubstring)
	log.Debug().Str("filter", expr).Msg("Listing orders")

	page, _ := cmd.Flags().GetInt("page")
	perPage, _ := cmd.Flags().GetInt("per-page")
	sortField, _ := cmd.Flags().GetString("sort")
	dir, _ := cmd.Flags().GetString("dir")
	sort := sortField
	if dir == "desc" {
		sort = "-" + sortField
	}

	list, err := repo.List(cmd.Context(), pocketbase.ListParams{
		Page:    page,
		PerPage: perPage,
		Sort:    sort,
		Filter:  expr,
	})
	if err != nil {
		return fmt.Errorf("failed to list orders: %w", err)
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return printJSON(list)
	}

	now := time.Now()
	for _, o := range list.Items {
		printOrderLine(o, now)
	}
	fmt.Printf("\n%d orders (page %d of %d), approved sum: %.2f EUR\n",
		list.TotalItems, page, list.TotalPages, repo.SumApproved(cmd.Context(), expr))
	return nil
}

func runOrdersGet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	repo := newRepo(cfg)

	order, err := repo.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to load order: %w", err)
	}
	quote := repo.QuoteByOrderID(cmd.Context(), order.ID)

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return printJSON(map[string]any{"order": order, "quote": quote})
	}

	printOrderLine(*order, time.Now())
	if order.Intensity != "" {
		fmt.Printf("  intensity: %s\n", order.Intensity)
	}
	if quote != nil {
		fmt.Printf("  quote: %s\n", quote.Link)
		if quote.ViaductLink != "" {
			fmt.Printf("  viaduct quote: %s\n", quote.ViaductLink)
		}
	}
	return nil
}

func runOrdersCreate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	repo := newRepo(cfg)

	var form models.OrderForm
	form.Client, _ = cmd.Flags().GetString("client")
	form.Agency, _ = cmd.Flags().GetString("agency")
	form.InvoiceID, _ = cmd.Flags().GetString("invoice-id")
	form.From, _ = cmd.Flags().GetString("from")
	form.To, _ = cmd.Flags().GetString("to")
	form.FinalPrice, _ = cmd.Flags().GetFloat64("price")
	form.Status, _ = cmd.Flags().GetString("status")
	form.Viaduct, _ = cmd.Flags().GetBool("viaduct")
	form.Intensity, _ = cmd.Flags().GetString("intensity")

	if form.From != "" && form.To != "" && form.From > form.To {
		return fmt.Errorf("start date %s is after end date %s", form.From, form.To)
	}

	created, err := repo.Create(cmd.Context(), form.ToOrder())
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	fmt.Printf("Created order %s\n", created.ID)
	return nil
}

func runOrdersUpdate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	repo := newRepo(cfg)

	fields := map[string]any{}
	for flag, field := range map[string]string{
		"client": "client",
		"agency": "agency",
		"from":   "from",
		"to":     "to",
	} {
		if cmd.Flags().Changed(flag) {
			fields[field], _ = cmd.Flags().GetString(flag)
		}
	}
	if cmd.Flags().Changed("price") {
		fields["final_price"], _ = cmd.Flags().GetFloat64("price")
	}
	if cmd.Flags().Changed("status") {
		status, _ := cmd.Flags().GetString("status")
		fields["approved"] = status == models.StatusApproved
	}
	for flag, field := range map[string]string{
		"invoice-sent":   "invoice_sent",
		"media-received": "media_received",
	} {
		if cmd.Flags().Changed(flag) {
			v, _ := cmd.Flags().GetString(flag)
			fields[field] = v == "true"
		}
	}

	if len(fields) == 0 {
		return fmt.Errorf("nothing to update: pass at least one field flag")
	}

	updated, err := repo.Update(cmd.Context(), args[0], fields)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	fmt.Printf("Updated order %s\n", updated.ID)
	return nil
}

func runOrdersDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	repo := newRepo(cfg)

	if err := repo.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	fmt.Printf("Deleted order %s\n", args[0])
	return nil
}

// printOrderLine renders one order the way the dashboard table shows it.
func printOrderLine(o models.Order, now time.Time) {
	status := "Nepatvirtinta"
	if o.Approved {
		status = "Patvirtinta"
	}
	alert := ""
	if o.MediaAlert(now) {
		alert = "  [media!]"
	}
	fmt.Printf("%-12s %-4s %s..%s  %s (%s)  %.2f EUR  %s%s\n",
		o.InvoiceID, isoweek.Label(o.From), o.From, o.To, o.Client, o.Agency, o.FinalPrice, status, alert)
}
