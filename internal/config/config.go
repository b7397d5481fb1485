// Package config loads provider and server settings from config.yaml and
// environment variables via Viper.
package config

import (
	"errors"

	"github.com/spf13/viper"
)

// ErrNilConfig is returned when a nil Config is provided.
var ErrNilConfig = errors.New("config is nil")

// Config holds the full application configuration.
type Config struct {
	// OCR is the vision model used to read scanned invoices.
	OCR ProviderConfig `mapstructure:"ocr"`
	// LLM is the chat endpoint used for structured extraction.
	LLM ProviderConfig `mapstructure:"llm"`
	// Models maps the request-level aliases to concrete model names.
	Models ModelAliases `mapstructure:"models"`
	// MetadataFile points at the ground-truth metadata file (optional).
	MetadataFile string `mapstructure:"metadata_file"`
}

// ProviderConfig holds connection details for a single model provider.
type ProviderConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

// ModelAliases names the extraction models selectable per request.
type ModelAliases struct {
	Light string `mapstructure:"light"`
	Full  string `mapstructure:"full"`
}

// SetDefaults registers the default local-Ollama setup. Ollama's
// OpenAI-compatible endpoint ignores the API key but the client requires a
// non-empty one.
func SetDefaults() {
	viper.SetDefault("ocr.base_url", "http://localhost:11434/v1")
	viper.SetDefault("ocr.api_key", "ollama")
	viper.SetDefault("ocr.model", "glm-ocr")

	viper.SetDefault("llm.base_url", "http://localhost:11434/v1")
	viper.SetDefault("llm.api_key", "ollama")

	viper.SetDefault("models.light", "qwen3:4b")
	viper.SetDefault("models.full", "qwen3:8b")
}

// Load reads the Viper-populated config into a Config struct.
func Load() (*Config, error) {
	SetDefaults()
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.New("unmarshal config: " + err.Error())
	}
	return &cfg, nil
}

// Validate checks that the provider endpoints are usable.
func Validate(cfg *Config) error {
	if cfg == nil {
		return ErrNilConfig
	}
	if cfg.OCR.BaseURL == "" {
		return errors.New("ocr.base_url is required")
	}
	if cfg.LLM.BaseURL == "" {
		return errors.New("llm.base_url is required")
	}
	if cfg.Models.Light == "" {
		return errors.New("models.light is required")
	}
	return nil
}

// ResolveModel maps a request-level model selector to a concrete model name.
// An empty selector and "light" pick the light model, "full" the full one;
// anything else is taken as a literal model name.
func (c *Config) ResolveModel(alias string) string {
	switch alias {
	case "", "light":
		return c.Models.Light
	case "full":
		return c.Models.Full
	default:
		return alias
	}
}
