// Package cli holds the command line surface: the web server plus direct
// note commands that share its database.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"priority-notes/app"
	"priority-notes/config"
	"priority-notes/config/setup"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the priority-notes command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "priority-notes",
		Short: "Notes ordered by priority",
		Long: `priority-notes keeps short notes with a title, a description and a
priority from 1 (most important) to 10, always listed most important first.

Run "serve" for the web interface or use the note commands directly.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("db", "", "Database file (default DB_PATH or ./data/notes.db)")

	rootCmd.AddCommand(ServeCmd())

	// Note commands
	rootCmd.AddCommand(ListCmd())
	rootCmd.AddCommand(AddCmd())
	rootCmd.AddCommand(EditCmd())
	rootCmd.AddCommand(DeleteCmd())
	rootCmd.AddCommand(ClearCmd())

	// Transfer
	rootCmd.AddCommand(ExportCmd())
	rootCmd.AddCommand(ImportCmd())

	return rootCmd
}

func dbPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("db"); path != "" {
		return path
	}
	return config.AppConfig.DBPath
}

// openApp opens the database and the note services for one command. The
// returned func applies queued mutations and closes everything.
func openApp(cmd *cobra.Command, watch bool) (*app.App, func(), error) {
	logger := slog.Default()

	db, err := setup.InitDatabase(dbPath(cmd), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	application := setup.InitApp(db, watch, logger)
	return application, func() { setup.Shutdown(application, logger) }, nil
}

// settle waits until every queued mutation has been applied and returns the
// ones that failed
func settle(ctx context.Context, a *app.App) error {
	if err := a.Repo.Flush(ctx); err != nil {
		return err
	}

	var errs []error
	for {
		select {
		case err := <-a.Repo.Faults():
			errs = append(errs, err)
		default:
			return errors.Join(errs...)
		}
	}
}
