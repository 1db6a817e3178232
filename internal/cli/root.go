// Package cli implements the todomgr command line tool.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/go-while/go-todoleaf/internal/config"
	"github.com/go-while/go-todoleaf/internal/store"
)

// isInteractive reports whether stdin is a terminal; replaced in tests
var isInteractive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// RootCmd returns the todomgr root command with all subcommands attached
func RootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "todomgr",
		Short:   "Manage go-todoleaf items from the shell",
		Version: version,
		Long: `todomgr reads and edits the same todo store as the web server.

The store is picked from --db, then $DB_STRING, then data/todo.sq3.
Items are addressed by their text, like the web interface does.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("db", "", "Database connection string, sqlite path or mongodb:// URI")
	rootCmd.PersistentFlags().String("envfile", ".env", "Load environment variables from this file if it exists")

	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(setCompletedCmd("complete", "Mark the newest item with this text as done", true))
	rootCmd.AddCommand(setCompletedCmd("uncomplete", "Mark the newest item with this text as not done", false))
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(purgeCmd())

	return rootCmd
}

// openStore resolves the connection string the same way cmd/web does
func openStore(cmd *cobra.Command) (store.TodoStore, error) {
	envFile, _ := cmd.Flags().GetString("envfile")
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, err
	}
	mainConfig := config.NewDefaultConfig()
	if err := mainConfig.ApplyEnv(); err != nil {
		return nil, err
	}
	if dsn, _ := cmd.Flags().GetString("db"); dsn != "" {
		mainConfig.Database.DSN = dsn
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	st, err := store.Open(ctx, mainConfig.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return st, nil
}

// withStore opens the store, runs fn and closes the store again
func withStore(cmd *cobra.Command, fn func(ctx context.Context, st store.TodoStore) error) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(cmd.Context(), st)
}
