package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-matcher/internal/db"
)

var migrateList bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded SQL migrations",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateList, "list", false, "List the embedded migrations without applying them")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if migrateList {
		names, err := db.Migrations()
		if err != nil {
			return err
		}
		for _, name := range names {
			_, _ = fmt.Fprintln(out, name)
		}
		return nil
	}

	if err := cfg.RequireDatabase(); err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	applied, err := db.Migrate(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		_, _ = fmt.Fprintln(out, "Database is up to date")
		return nil
	}
	for _, name := range applied {
		_, _ = fmt.Fprintf(out, "Applied %s\n", name)
	}
	return nil
}
