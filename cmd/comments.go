package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var commentsCmd = &cobra.Command{
	Use:   "comments",
	Short: "Manage order comments",
	Long: `List, add, edit and delete the free-text comments attached to an
order in the annotation store.

Required environment variables:
  SUPABASE_DB_URL      - Postgres connection string of the annotation store
  SUPABASE_URL         - Supabase project base URL
  SUPABASE_SERVICE_KEY - Service-role key`,
}

var commentsListCmd = &cobra.Command{
	Use:   "list [order-id]",
	Short: "List an order's comments, newest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runCommentsList,
}

var commentsAddCmd = &cobra.Command{
	Use:     "add [order-id] [text]",
	Short:   "Add a comment to an order",
	Example: `  piksel-orders comments add abc123 "Klientas patvirtino telefonu"`,
	Args:    cobra.ExactArgs(2),
	RunE:    runCommentsAdd,
}

var commentsUpdateCmd = &cobra.Command{
	Use:   "update [comment-id] [text]",
	Short: "Replace a comment's text",
	Args:  cobra.ExactArgs(2),
	RunE:  runCommentsUpdate,
}

var commentsDeleteCmd = &cobra.Command{
	Use:   "delete [comment-id]",
	Short: "Delete a comment",
	Args:  cobra.ExactArgs(1),
	RunE:  runCommentsDelete,
}

func init() {
	rootCmd.AddCommand(commentsCmd)
	commentsCmd.AddCommand(commentsListCmd, commentsAddCmd, commentsUpdateCmd, commentsDeleteCmd)
	commentsListCmd.Flags().Bool("json", false, "Output as JSON")
}

func runCommentsList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	comments, err := store.Comments(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to list comments: %w", err)
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return printJSON(comments)
	}

	if len(comments) == 0 {
		fmt.Println("No comments.")
		return nil
	}
	for _, c := range comments {
		fmt.Printf("[%s] %s\n  %s\n", c.CreatedAt.Format("2006-01-02 15:04"), c.ID, c.Text)
	}
	if shots := comments[0].Printscreens; len(shots) > 0 {
		fmt.Printf("\n%d printscreen(s):\n", len(shots))
		for _, f := range shots {
			fmt.Printf("  %s  %s\n", f.Filename, f.FileURL)
		}
	}
	return nil
}

func runCommentsAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	comment, err := store.AddComment(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}
	fmt.Printf("Added comment %s\n", comment.ID)
	return nil
}

func runCommentsUpdate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.UpdateComment(cmd.Context(), args[0], args[1]); err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	fmt.Printf("Updated comment %s\n", args[0])
	return nil
}

func runCommentsDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteComment(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	fmt.Printf("Deleted comment %s\n", args[0])
	return nil
}
