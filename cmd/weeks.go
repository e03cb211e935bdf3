package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"piksel-orders/internal/isoweek"
)

var weeksCmd = &cobra.Command{
	Use:   "weeks [year]",
	Short: "Print the ISO week grid of a year",
	Long: `Prints every week of the year as the dashboard's week picker shows
them: Monday start, Sunday end, ISO week number. The grid starts from the
Monday on or before January 1st, so the first row may begin in the previous
calendar year. The current week is marked with an asterisk.`,
	Example: `  piksel-orders weeks 2025`,
	Args:    cobra.ExactArgs(1),
	RunE:    runWeeks,
}

func init() {
	rootCmd.AddCommand(weeksCmd)
	weeksCmd.Flags().Bool("json", false, "Output as JSON")
}

func runWeeks(cmd *cobra.Command, args []string) error {
	year, err := strconv.Atoi(args[0])
	if err != nil || year < 1 {
		return fmt.Errorf("invalid year: %s", args[0])
	}

	grid := isoweek.Grid(year, time.Now())

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return printJSON(grid)
	}

	for _, w := range grid {
		marker := " "
		if w.IsCurrent {
			marker = "*"
		}
		fmt.Printf("%s W%02d  %s .. %s\n",
			marker, w.Number, w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
	}
	return nil
}
