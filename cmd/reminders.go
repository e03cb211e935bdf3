package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"piksel-orders/pkg/models"
)

// unknownClient is printed when a reminder's order cannot be resolved.
const unknownClient = "Nežinomas klientas"

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Manage order reminders",
	Long: `List, add, complete and delete dated follow-up reminders attached to
orders. "reminders due" shows the notification feed: every incomplete
reminder across all orders, soonest first.

Required environment variables:
  SUPABASE_DB_URL      - Postgres connection string of the annotation store
  SUPABASE_URL         - Supabase project base URL
  SUPABASE_SERVICE_KEY - Service-role key`,
}

var remindersListCmd = &cobra.Command{
	Use:   "list [order-id]",
	Short: "List an order's reminders by due date",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemindersList,
}

var remindersAddCmd = &cobra.Command{
	Use:     "add [order-id] [title]",
	Short:   "Add a reminder to an order",
	Example: `  piksel-orders reminders add abc123 "Paskambinti dėl medžiagos" --due 2025-07-10`,
	Args:    cobra.ExactArgs(2),
	RunE:    runRemindersAdd,
}

var remindersCompleteCmd = &cobra.Command{
	Use:   "complete [reminder-id]",
	Short: "Mark a reminder as completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemindersComplete,
}

var remindersDeleteCmd = &cobra.Command{
	Use:   "delete [reminder-id]",
	Short: "Delete a reminder",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemindersDelete,
}

var remindersDueCmd = &cobra.Command{
	Use:   "due",
	Short: "Show incomplete reminders across all orders",
	RunE:  runRemindersDue,
}

func init() {
	rootCmd.AddCommand(remindersCmd)
	remindersCmd.AddCommand(remindersListCmd, remindersAddCmd, remindersCompleteCmd, remindersDeleteCmd, remindersDueCmd)

	remindersAddCmd.Flags().String("due", "", "Due date (yyyy-mm-dd), required")
	remindersAddCmd.MarkFlagRequired("due")
	remindersListCmd.Flags().Bool("json", false, "Output as JSON")
	remindersDueCmd.Flags().Bool("json", false, "Output as JSON")
}

func runRemindersList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	reminders, err := store.Reminders(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to list reminders: %w", err)
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return printJSON(reminders)
	}

	if len(reminders) == 0 {
		fmt.Println("No reminders.")
		return nil
	}
	for _, r := range reminders {
		printReminderLine(r, "")
	}
	return nil
}

func runRemindersAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	dueStr, _ := cmd.Flags().GetString("due")
	due, err := time.Parse("2006-01-02", dueStr)
	if err != nil {
		return fmt.Errorf("invalid due date %q: expected yyyy-mm-dd", dueStr)
	}

	reminder, err := store.AddReminder(cmd.Context(), args[0], args[1], due)
	if err != nil {
		return fmt.Errorf("failed to add reminder: %w", err)
	}
	fmt.Printf("Added reminder %s\n", reminder.ID)
	return nil
}

func runRemindersComplete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	// Completion keeps the title and due date; read the row first.
	reminder, err := store.ReminderByID(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to load reminder: %w", err)
	}
	reminder.IsCompleted = true
	if err := store.UpdateReminder(cmd.Context(), *reminder); err != nil {
		return fmt.Errorf("failed to complete reminder: %w", err)
	}
	fmt.Printf("Completed reminder %s\n", reminder.ID)
	return nil
}

func runRemindersDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteReminder(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	fmt.Printf("Deleted reminder %s\n", args[0])
	return nil
}

func runRemindersDue(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	repo := newRepo(cfg)

	reminders, err := store.DueReminders(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load due reminders: %w", err)
	}

	type dueView struct {
		models.Reminder
		Client string `json:"client"`
	}
	clients := make(map[string]string)
	views := make([]dueView, 0, len(reminders))
	for _, r := range reminders {
		client, ok := clients[r.OrderID]
		if !ok {
			client = unknownClient
			if order, err := repo.Get(cmd.Context(), r.OrderID); err == nil {
				client = order.Client
			}
			clients[r.OrderID] = client
		}
		views = append(views, dueView{Reminder: r, Client: client})
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return printJSON(views)
	}

	if len(views) == 0 {
		fmt.Println("No due reminders.")
		return nil
	}
	for _, v := range views {
		printReminderLine(v.Reminder, v.Client)
	}
	return nil
}

func printReminderLine(r models.Reminder, client string) {
	done := " "
	if r.IsCompleted {
		done = "x"
	}
	if client != "" {
		fmt.Printf("[%s] %s  %s  %s (%s)\n", done, r.DueDate.Format("2006-01-02"), r.ID, r.Title, client)
		return
	}
	fmt.Printf("[%s] %s  %s  %s\n", done, r.DueDate.Format("2006-01-02"), r.ID, r.Title)
}
