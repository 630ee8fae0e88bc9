package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-matcher/internal/db"
	"github.com/jonathan/candidate-matcher/internal/observability"
	"github.com/jonathan/candidate-matcher/internal/pipeline"
)

var checkJobCmd = &cobra.Command{
	Use:   "check-job <job_id>",
	Short: "Show the version history and latest task of a job",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheckJob,
}

func init() {
	rootCmd.AddCommand(checkJobCmd)
}

func runCheckJob(cmd *cobra.Command, args []string) error {
	jobID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid job id %q: %w", args[0], err)
	}
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	database, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer database.Close()

	status, err := pipeline.JobStatus(ctx, database, jobID)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintJobStatus(status)
	return nil
}
