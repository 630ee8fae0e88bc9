package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-matcher/internal/db"
	"github.com/jonathan/candidate-matcher/internal/embedding"
	"github.com/jonathan/candidate-matcher/internal/extraction"
	"github.com/jonathan/candidate-matcher/internal/features"
	"github.com/jonathan/candidate-matcher/internal/llm"
	"github.com/jonathan/candidate-matcher/internal/locking"
	"github.com/jonathan/candidate-matcher/internal/matching"
	"github.com/jonathan/candidate-matcher/internal/metrics"
	"github.com/jonathan/candidate-matcher/internal/pipeline"
	"github.com/jonathan/candidate-matcher/internal/server"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that accepts jobs and candidates, processes them in the background and serves matches.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply pending migrations before serving")
	_ = v.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if serveMigrate {
		applied, err := db.Migrate(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		logger.Info("migrations applied", zap.Strings("files", applied))
	}

	database, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}

	embedder, err := embedding.New(ctx, embedding.Config{
		Provider: cfg.Embedding.Provider,
		Model:    cfg.Embedding.Model,
		APIKey:   cfg.Embedding.APIKey,
		BaseURL:  cfg.Embedding.BaseURL,
		Timeout:  cfg.Embedding.Timeout,
	})
	if err != nil {
		database.Close()
		return fmt.Errorf("failed to create embedding gateway: %w", err)
	}

	client, err := llm.NewClient(ctx, &llm.Config{
		Provider: llm.Provider(cfg.Extractor.Provider),
		Model:    cfg.Extractor.Model,
		APIKey:   cfg.Extractor.APIKey,
		BaseURL:  cfg.Extractor.BaseURL,
	})
	if err != nil {
		database.Close()
		return fmt.Errorf("failed to create extractor client: %w", err)
	}
	defer func() { _ = client.Close() }()

	extractor, err := extraction.NewLLMExtractor(client, logger)
	if err != nil {
		database.Close()
		return err
	}

	locker, closeLocker, err := newLocker(ctx)
	if err != nil {
		database.Close()
		return err
	}
	defer closeLocker()

	metrics.MustRegister()

	svc := pipeline.NewService(pipeline.Deps{
		Store:     database,
		Extractor: extractor,
		Embedder:  embedder,
		Composer:  features.NewComposer(),
		Locker:    locker,
	}, pipeline.Options{
		Workers:        cfg.Pipeline.Workers,
		QueueSize:      cfg.Pipeline.QueueSize,
		UpdateAttempts: cfg.Pipeline.UpdateAttempts,
		TaskTimeout:    cfg.Pipeline.TaskTimeout,
	}, logger)

	engine := matching.NewEngine(database, matching.Options{
		DefaultTopK: cfg.Matching.DefaultTopK,
		MaxTopK:     cfg.Matching.MaxTopK,
	}, logger)

	srv := server.New(server.Config{Port: cfg.Server.Port}, server.Deps{
		Pipeline: svc,
		Matcher:  engine,
		DB:       database,
		Logger:   logger,
	})
	return srv.Start()
}

// newLocker returns a Redis locker when redis.url is set and an in-process one otherwise.
func newLocker(ctx context.Context) (locking.Locker, func(), error) {
	if cfg.Redis.URL == "" {
		logger.Info("using in-process candidate locks")
		return locking.NewLocalLocker(), func() {}, nil
	}
	rl, err := locking.NewRedisLocker(ctx, locking.RedisConfig{
		URL:      cfg.Redis.URL,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.Redis.LockTTL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("using redis candidate locks")
	return rl, func() { _ = rl.Close() }, nil
}
