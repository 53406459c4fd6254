package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"blockpress/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDB(cmd.Context(), database.Migrate)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the latest migration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDB(cmd.Context(), database.Rollback)
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, db *sql.DB) error {
			v, err := database.Version(ctx, db)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
}

// withDB connects to the configured database for the duration of fn.
func withDB(ctx context.Context, fn func(context.Context, *sql.DB) error) error {
	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(ctx, db)
}
