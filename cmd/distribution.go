package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"piksel-orders/internal/revenue"
)

var distributionCmd = &cobra.Command{
	Use:   "distribution [order-id]",
	Short: "Show an order's price split across calendar months",
	Long: `Splits the order's final price across the calendar months its date
range touches, proportional to the day count in each month. A one-day order
yields a single entry carrying the full price.`,
	Example: `  piksel-orders distribution abc123

  # JSON for piping
  piksel-orders distribution abc123 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runDistribution,
}

func init() {
	rootCmd.AddCommand(distributionCmd)
	distributionCmd.Flags().Bool("json", false, "Output as JSON")
}

func runDistribution(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	repo := newRepo(cfg)

	order, err := repo.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to load order: %w", err)
	}

	entries := revenue.MonthlyDistribution(order.From, order.To, order.FinalPrice)

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return printJSON(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No distribution: order has no valid date range or price.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%d %-10s %3d d.  %10.2f EUR\n", e.Year, e.MonthName, e.Days, e.Amount)
	}
	fmt.Printf("Total: %.2f EUR over %d days\n",
		order.FinalPrice, revenue.InclusiveDays(order.From, order.To))
	return nil
}
