// Package main provides the entry point for the candidate matcher service and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-matcher/internal/config"
	"github.com/jonathan/candidate-matcher/internal/logging"
)

var (
	configPath string

	v      = viper.New()
	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "matcher",
	Short:         "Job and candidate embedding matcher",
	Long:          "Stores jobs and candidates as fixed-size embeddings in PostgreSQL and ranks candidates for a job by inner-product similarity.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		loaded, err := config.Load(v, configPath)
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		l, err := logging.New(loaded.Log.JSON, loaded.Log.Debug)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		cfg, logger = loaded, l
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Sync()
	},
}

func init() {
	config.SetDefaults(v)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to a YAML or JSON config file")
	flags.Bool("debug", false, "Enable debug logging")
	flags.Bool("json", false, "Log as JSON")
	_ = v.BindPFlag("log.debug", flags.Lookup("debug"))
	_ = v.BindPFlag("log.json", flags.Lookup("json"))
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
