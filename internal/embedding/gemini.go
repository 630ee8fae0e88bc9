package embedding

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-embedding-001"

// geminiTaskTypes maps the oracle task label onto Gemini task types.
var geminiTaskTypes = map[string]string{
	"separation":      "CLUSTERING",
	"classification":  "CLASSIFICATION",
	"text-matching":   "SEMANTIC_SIMILARITY",
	"retrieval.query": "RETRIEVAL_QUERY",
}

// contentEmbedder is the subset of genai.Models used here.
type contentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// GeminiEmbedder calls Gemini EmbedContent with a reduced output dimension.
type GeminiEmbedder struct {
	models contentEmbedder
	model  string
}

// NewGeminiEmbedder creates a Gemini-backed Gateway.
func NewGeminiEmbedder(ctx context.Context, cfg Config) (*GeminiEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiEmbedder{models: client.Models, model: model}, nil
}

// Embed returns the vector for text.
func (g *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return observe(ProviderGemini, func() ([]float32, error) {
		dim := int32(Dimension)
		resp, err := g.models.EmbedContent(ctx, g.model, genai.Text(text), &genai.EmbedContentConfig{
			TaskType:             geminiTaskTypes[TaskLabel],
			OutputDimensionality: &dim,
		})
		if err != nil {
			return nil, &EmbeddingUnavailableError{Provider: ProviderGemini, Message: "embed content failed", Cause: err}
		}
		if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
			return nil, &EmbeddingUnavailableError{Provider: ProviderGemini, Message: "no embeddings in response"}
		}
		return checkVector(ProviderGemini, resp.Embeddings[0].Values)
	})
}
