package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-matcher/internal/db"
	"github.com/jonathan/candidate-matcher/internal/matching"
	"github.com/jonathan/candidate-matcher/internal/observability"
)

var (
	matchTop  int
	matchJSON bool
)

var matchCmd = &cobra.Command{
	Use:   "match <job_id>",
	Short: "Rank stored candidates for an active job",
	Args:  cobra.ExactArgs(1),
	RunE:  runMatch,
}

func init() {
	matchCmd.Flags().IntVar(&matchTop, "top", 0, "Number of candidates to return (default: matching.default_top_k)")
	matchCmd.Flags().BoolVar(&matchJSON, "output-json", false, "Print the raw JSON response")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	jobID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid job id %q: %w", args[0], err)
	}
	var topK *int
	if cmd.Flags().Changed("top") {
		topK = &matchTop
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

	engine := matching.NewEngine(database, matching.Options{
		DefaultTopK: cfg.Matching.DefaultTopK,
		MaxTopK:     cfg.Matching.MaxTopK,
	}, logger)
	resp, err := engine.Match(ctx, jobID, topK)
	if err != nil {
		return err
	}

	if matchJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintMatchResults(resp)
	return nil
}
