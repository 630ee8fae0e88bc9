package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OllamaClient implements Client against a local Ollama server's generate endpoint.
type OllamaClient struct {
	config *Config
	client *http.Client
}

// NewOllamaClient creates a new Ollama client
func NewOllamaClient(config *Config) *OllamaClient {
	if config == nil {
		config = DefaultConfig(ProviderOllama)
	}
	return &OllamaClient{
		config: config,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

type ollamaRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Format  string         `json:"format"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// GenerateJSON asks the model for a JSON-only response
func (c *OllamaClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(ollamaRequest{
		Model:   c.config.Model,
		Prompt:  prompt,
		Format:  "json",
		Stream:  false,
		Options: map[string]any{"temperature": c.config.Temperature},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := strings.TrimSuffix(c.config.BaseURL, "/") + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var payload ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("ollama http %d: %s", resp.StatusCode, payload.Error)
	}
	if strings.TrimSpace(payload.Response) == "" {
		return "", fmt.Errorf("empty response from model %s", c.config.Model)
	}
	return CleanJSONBlock(payload.Response), nil
}

// Provider returns ProviderOllama
func (c *OllamaClient) Provider() Provider { return ProviderOllama }

// Model returns the configured model name
func (c *OllamaClient) Model() string { return c.config.Model }

// Close is a no-op; the HTTP client holds no dedicated resources
func (c *OllamaClient) Close() error { return nil }
