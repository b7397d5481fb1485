package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	assert.Equal(t, "http://localhost:11434/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "glm-ocr", cfg.OCR.Model)
	assert.Equal(t, "qwen3:4b", cfg.Models.Light)
	assert.Equal(t, "qwen3:8b", cfg.Models.Full)
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Validate(nil), ErrNilConfig)

	cfg := &Config{}
	cfg.OCR.BaseURL = "http://localhost:11434/v1"
	assert.ErrorContains(t, Validate(cfg), "llm.base_url")

	cfg.LLM.BaseURL = "http://localhost:11434/v1"
	assert.ErrorContains(t, Validate(cfg), "models.light")

	cfg.Models.Light = "qwen3:4b"
	assert.NoError(t, Validate(cfg))
}

func TestResolveModel(t *testing.T) {
	cfg := &Config{Models: ModelAliases{Light: "qwen3:4b", Full: "qwen3:8b"}}

	tests := []struct {
		alias string
		want  string
	}{
		{alias: "", want: "qwen3:4b"},
		{alias: "light", want: "qwen3:4b"},
		{alias: "full", want: "qwen3:8b"},
		{alias: "mistral:7b", want: "mistral:7b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.ResolveModel(tt.alias))
	}
}
