package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonathan/candidate-matcher/internal/logging"
)

const (
	defaultJinaBaseURL = "https://api.jina.ai/v1"
	defaultJinaModel   = "jina-embeddings-v3"

	// maxErrorBody caps how much of a failed response lands in the error, in runes.
	maxErrorBody = 200
)

// JinaEmbedder calls the Jina embeddings endpoint, which accepts the task
// label and a truncated output dimension directly.
type JinaEmbedder struct {
	apiKey string
	base   string
	model  string
	client *http.Client
}

// NewJinaEmbedder creates a Jina-backed Gateway.
func NewJinaEmbedder(cfg Config) (*JinaEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("jina api key is required")
	}
	base := cfg.BaseURL
	if base == "" {
		base = defaultJinaBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultJinaModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &JinaEmbedder{
		apiKey: cfg.APIKey,
		base:   base,
		model:  model,
		client: &http.Client{Timeout: timeout},
	}, nil
}

type jinaRequest struct {
	Model      string   `json:"model"`
	Task       string   `json:"task"`
	Dimensions int      `json:"dimensions"`
	Input      []string `json:"input"`
}

type jinaResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Detail string `json:"detail,omitempty"`
}

// Embed returns the vector for text.
func (j *JinaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return observe(ProviderJina, func() ([]float32, error) {
		return j.embed(ctx, text)
	})
}

func (j *JinaEmbedder) embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(jinaRequest{
		Model:      j.model,
		Task:       TaskLabel,
		Dimensions: Dimension,
		Input:      []string{text},
	})
	if err != nil {
		return nil, &EmbeddingUnavailableError{Provider: ProviderJina, Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, j.base+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, &EmbeddingUnavailableError{Provider: ProviderJina, Message: "failed to build request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+j.apiKey)

	resp, err := j.client.Do(req)
	if err != nil {
		return nil, &EmbeddingUnavailableError{Provider: ProviderJina, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &EmbeddingUnavailableError{Provider: ProviderJina, Message: "failed to read response", Cause: err}
	}
	if resp.StatusCode >= 300 {
		return nil, &EmbeddingUnavailableError{
			Provider: ProviderJina,
			Message:  fmt.Sprintf("http %d: %s", resp.StatusCode, logging.Truncate(string(raw), maxErrorBody)),
		}
	}

	var payload jinaResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &EmbeddingUnavailableError{Provider: ProviderJina, Message: "failed to decode response", Cause: err}
	}
	if len(payload.Data) == 0 {
		return nil, &EmbeddingUnavailableError{Provider: ProviderJina, Message: "no embeddings in response"}
	}
	return checkVector(ProviderJina, payload.Data[0].Embedding)
}
