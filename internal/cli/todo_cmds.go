package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/go-while/go-todoleaf/internal/store"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all items and the remaining count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, st store.TodoStore) error {
				items, err := st.ListTodos(ctx)
				if err != nil {
					return fmt.Errorf("failed to list todos: %w", err)
				}
				left, err := st.CountRemaining(ctx)
				if err != nil {
					return fmt.Errorf("failed to count todos: %w", err)
				}

				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "No todos found")
				}
				for _, item := range items {
					statusIcon := color.New(color.FgYellow).Sprint("○")
					if item.Completed {
						statusIcon = color.New(color.FgGreen).Sprint("✓")
					}
					fmt.Fprintf(out, "%s %-6s %s\n", statusIcon, item.ID, item.Thing)
				}
				fmt.Fprintf(out, "\n%d left to do\n", left)
				return nil
			})
		},
	}
}

func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [text]",
		Short: "Add a new item",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			thing := strings.Join(args, " ")
			return withStore(cmd, func(ctx context.Context, st store.TodoStore) error {
				item, err := st.AddTodo(ctx, thing)
				if err != nil {
					return fmt.Errorf("failed to add todo: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Added todo %s: %s\n", item.ID, item.Thing)
				return nil
			})
		},
	}
}

func setCompletedCmd(use, short string, completed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [text]",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			thing := strings.Join(args, " ")
			return withStore(cmd, func(ctx context.Context, st store.TodoStore) error {
				n, err := st.SetCompleted(ctx, thing, completed)
				if err != nil {
					return fmt.Errorf("failed to update todo: %w", err)
				}
				if n == 0 {
					return fmt.Errorf("no todo matching %q", thing)
				}
				state := "pending"
				if completed {
					state = "done"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Marked %s: %s\n", state, thing)
				return nil
			})
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [text]",
		Short: "Delete the oldest item with this text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			thing := strings.Join(args, " ")
			return withStore(cmd, func(ctx context.Context, st store.TodoStore) error {
				n, err := st.DeleteTodo(ctx, thing)
				if err != nil {
					return fmt.Errorf("failed to delete todo: %w", err)
				}
				if n == 0 {
					return fmt.Errorf("no todo matching %q", thing)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted todo: %s\n", thing)
				return nil
			})
		},
	}
}

func purgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every item",
		Long: `Delete every item in the store.

Asks for confirmation on a terminal. Pass --yes when running from scripts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				if !isInteractive() {
					return fmt.Errorf("refusing to purge without --yes on a non-interactive stdin")
				}
				fmt.Fprint(cmd.OutOrStdout(), "Delete ALL todos? [y/N]: ")
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return nil
				}
			}
			return withStore(cmd, func(ctx context.Context, st store.TodoStore) error {
				n, err := st.Purge(ctx)
				if err != nil {
					return fmt.Errorf("failed to purge todos: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Purged %d todo(s)\n", color.New(color.FgRed).Sprint("✗"), n)
				return nil
			})
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
