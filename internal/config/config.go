// Package config provides configuration loading and validation for the matcher service and CLI.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables that mirror config keys,
// e.g. MATCHER_PIPELINE_WORKERS for pipeline.workers.
const EnvPrefix = "MATCHER"

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Extractor ExtractorConfig `mapstructure:"extractor"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DatabaseConfig configures PostgreSQL.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// EmbeddingConfig selects the embedding oracle.
type EmbeddingConfig struct {
	Provider string        `mapstructure:"provider"`
	Model    string        `mapstructure:"model"`
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// ExtractorConfig selects the requirement extractor model.
type ExtractorConfig struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`
}

// PipelineConfig sizes the background worker pool.
type PipelineConfig struct {
	Workers        int           `mapstructure:"workers"`
	QueueSize      int           `mapstructure:"queue_size"`
	UpdateAttempts int           `mapstructure:"update_attempts"`
	TaskTimeout    time.Duration `mapstructure:"task_timeout"`
}

// MatchingConfig bounds match result sizes.
type MatchingConfig struct {
	DefaultTopK int `mapstructure:"default_top_k"`
	MaxTopK     int `mapstructure:"max_top_k"`
}

// RedisConfig enables cross-process candidate locks when URL is set.
type RedisConfig struct {
	URL      string        `mapstructure:"url"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	LockTTL  time.Duration `mapstructure:"lock_ttl"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// SetDefaults registers default values and environment bindings on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.url", "")
	v.SetDefault("embedding.provider", "jina")
	v.SetDefault("embedding.model", "")
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.base_url", "")
	v.SetDefault("embedding.timeout", 30*time.Second)
	v.SetDefault("extractor.provider", "gemini")
	v.SetDefault("extractor.model", "")
	v.SetDefault("extractor.api_key", "")
	v.SetDefault("extractor.base_url", "")
	v.SetDefault("pipeline.workers", 4)
	v.SetDefault("pipeline.queue_size", 64)
	v.SetDefault("pipeline.update_attempts", 3)
	v.SetDefault("pipeline.task_timeout", 2*time.Minute)
	v.SetDefault("matching.default_top_k", 10)
	v.SetDefault("matching.max_top_k", 100)
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.lock_ttl", 30*time.Second)
	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Conventional names take part alongside the prefixed ones
	_ = v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("redis.url", EnvPrefix+"_REDIS_URL", "REDIS_URL")
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
}

// Load reads the optional config file and decodes v into a Config, filling
// provider API keys from their conventional environment variables.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = providerKey(v, cfg.Embedding.Provider)
	}
	if cfg.Extractor.APIKey == "" {
		cfg.Extractor.APIKey = providerKey(v, cfg.Extractor.Provider)
	}
	return &cfg, nil
}

func providerKey(v *viper.Viper, provider string) string {
	switch provider {
	case "jina":
		_ = v.BindEnv("keys.jina", "JINA_API_KEY")
		return v.GetString("keys.jina")
	case "gemini":
		_ = v.BindEnv("keys.gemini", "GEMINI_API_KEY")
		return v.GetString("keys.gemini")
	}
	return ""
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 1 and 65535")
	}
	switch c.Embedding.Provider {
	case "jina", "gemini":
	default:
		return fmt.Errorf("config error: unknown embedding provider %q", c.Embedding.Provider)
	}
	switch c.Extractor.Provider {
	case "gemini", "ollama":
	default:
		return fmt.Errorf("config error: unknown extractor provider %q", c.Extractor.Provider)
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("config error: 'pipeline.workers' must be at least 1")
	}
	if c.Pipeline.QueueSize < 1 {
		return fmt.Errorf("config error: 'pipeline.queue_size' must be at least 1")
	}
	if c.Pipeline.UpdateAttempts < 1 {
		return fmt.Errorf("config error: 'pipeline.update_attempts' must be at least 1")
	}
	if c.Pipeline.TaskTimeout < 0 {
		return fmt.Errorf("config error: 'pipeline.task_timeout' must not be negative")
	}
	if c.Matching.DefaultTopK < 1 || c.Matching.MaxTopK < 1 {
		return fmt.Errorf("config error: 'matching' sizes must be positive")
	}
	if c.Matching.DefaultTopK > c.Matching.MaxTopK {
		return fmt.Errorf("config error: 'matching.default_top_k' exceeds 'matching.max_top_k'")
	}
	return nil
}

// RequireDatabase reports a missing database URL.
func (c *Config) RequireDatabase() error {
	if c.Database.URL == "" {
		return fmt.Errorf("config error: 'database.url' (DATABASE_URL) is required")
	}
	return nil
}
