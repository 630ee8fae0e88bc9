// Package llm provides the language-model clients behind requirement extraction.
package llm

import "fmt"

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOllama is a local Ollama server
	ProviderOllama Provider = "ollama"
)

// Config holds the model configuration for the extractor.
type Config struct {
	Provider    Provider
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
}

// DefaultConfig returns the default configuration for a provider.
func DefaultConfig(provider Provider) *Config {
	switch provider {
	case ProviderOllama:
		return &Config{
			Provider: ProviderOllama,
			Model:    "llama3.2:1b",
			BaseURL:  "http://localhost:11434",
		}
	default:
		return &Config{
			Provider:    ProviderGemini,
			Model:       "gemini-2.5-flash-lite",
			Temperature: 0.1,
		}
	}
}

// WithDefaults fills empty fields from the provider defaults. A nil Config
// yields the Gemini defaults.
func (c *Config) WithDefaults() *Config {
	if c == nil {
		return DefaultConfig(ProviderGemini)
	}
	defaults := DefaultConfig(c.Provider)
	out := *c
	if out.Provider == "" {
		out.Provider = defaults.Provider
	}
	if out.Model == "" {
		out.Model = defaults.Model
	}
	if out.BaseURL == "" {
		out.BaseURL = defaults.BaseURL
	}
	if out.Temperature == 0 {
		out.Temperature = defaults.Temperature
	}
	return &out
}

// Validate checks that the provider can be constructed.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("llm config is required")
	}
	switch c.Provider {
	case ProviderGemini:
		if c.APIKey == "" {
			return fmt.Errorf("gemini extractor requires an API key")
		}
	case ProviderOllama:
		if c.BaseURL == "" {
			return fmt.Errorf("ollama extractor requires a base URL")
		}
	default:
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	return nil
}
