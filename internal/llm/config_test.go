package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	gemini := DefaultConfig(ProviderGemini)
	assert.Equal(t, ProviderGemini, gemini.Provider)
	assert.NotEmpty(t, gemini.Model)

	ollama := DefaultConfig(ProviderOllama)
	assert.Equal(t, "llama3.2:1b", ollama.Model)
	assert.Equal(t, "http://localhost:11434", ollama.BaseURL)
}

func TestWithDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := (&Config{Provider: ProviderOllama, Model: "qwen2.5:0.5b"}).WithDefaults()
	assert.Equal(t, "qwen2.5:0.5b", cfg.Model)
	assert.Equal(t, "http://localhost:11434", cfg.BaseURL)
}

func TestWithDefaults_NilConfig(t *testing.T) {
	var cfg *Config
	var got *Config
	require.NotPanics(t, func() { got = cfg.WithDefaults() })
	assert.Equal(t, DefaultConfig(ProviderGemini), got)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "gemini with key", cfg: Config{Provider: ProviderGemini, APIKey: "k"}},
		{name: "gemini without key", cfg: Config{Provider: ProviderGemini}, wantErr: true},
		{name: "ollama", cfg: Config{Provider: ProviderOllama, BaseURL: "http://x"}},
		{name: "unknown", cfg: Config{Provider: "mystery"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewClient_Ollama(t *testing.T) {
	client, err := NewClient(context.Background(), &Config{Provider: ProviderOllama})
	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, client.Provider())
	assert.Equal(t, "llama3.2:1b", client.Model())
	assert.NoError(t, client.Close())
}

func TestNewClient_GeminiRequiresKey(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{name: "empty key", cfg: &Config{Provider: ProviderGemini}},
		{name: "nil config", cfg: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() { _, err = NewClient(context.Background(), tt.cfg) })
			require.Error(t, err)
			assert.Contains(t, err.Error(), "API key")
		})
	}
}

func TestNewProviderClients_NilConfig(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), nil)
	assert.Error(t, err)

	client := NewOllamaClient(nil)
	assert.Equal(t, ProviderOllama, client.Provider())
	assert.Equal(t, "llama3.2:1b", client.Model())
}

func TestBuildExtractionPrompt(t *testing.T) {
	prompt := BuildExtractionPrompt(RequirementsSchema("Extract the requirements."), "Needs 3 years of Go.")

	assert.Contains(t, prompt, "Extract the requirements.")
	assert.Contains(t, prompt, `"tenure": int (required)`)
	assert.Contains(t, prompt, `"master_program": ["string"]`)
	assert.Contains(t, prompt, "Needs 3 years of Go.")
}
