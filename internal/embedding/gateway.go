// Package embedding adapts external embedding oracles to fixed-size vectors.
package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/candidate-matcher/internal/metrics"
)

const (
	// Dimension is the output size of every embedding; the vector columns share it.
	Dimension = 32
	// TaskLabel is the oracle task used for both jobs and candidates.
	TaskLabel = "separation"
)

// Provider constants
const (
	ProviderJina   = "jina"
	ProviderGemini = "gemini"
)

// Gateway turns text into a Dimension-length vector.
type Gateway interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Config selects and configures an embedding provider.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// New builds the Gateway for cfg.Provider.
func New(ctx context.Context, cfg Config) (Gateway, error) {
	switch cfg.Provider {
	case ProviderJina, "":
		return NewJinaEmbedder(cfg)
	case ProviderGemini:
		return NewGeminiEmbedder(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

// checkVector enforces the fixed dimension on an oracle result.
func checkVector(provider string, values []float32) ([]float32, error) {
	if len(values) != Dimension {
		return nil, &EmbeddingUnavailableError{
			Provider: provider,
			Message:  fmt.Sprintf("expected %d dimensions, got %d", Dimension, len(values)),
		}
	}
	return values, nil
}

// observe wraps an oracle call with metrics.
func observe(provider string, call func() ([]float32, error)) ([]float32, error) {
	start := time.Now()
	values, err := call()
	metrics.ObserveEmbedding(provider, time.Since(start), err)
	return values, err
}
