// Package llm wraps the OpenAI-compatible chat endpoint used for both the
// vision OCR model and the structured extraction model. Locally this is
// Ollama's /v1 API; any OpenAI-compatible server works.
package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"

	"github.com/sashabaranov/go-openai"

	"github.com/arznote/arznote/internal/config"
)

// ErrNilConfig is returned when a nil provider config is provided.
var ErrNilConfig = errors.New("llm config is nil")

// ErrEmptyResponse is returned when the model returns an empty response.
var ErrEmptyResponse = errors.New("model returned empty response")

// ErrUnavailable is returned when the model endpoint cannot be reached or
// answers with a transport-level failure. It is distinct from a model that
// answered but produced unusable output.
var ErrUnavailable = errors.New("model service unavailable")

// go-openai drops a temperature of exactly 0 from the request body, so the
// smallest positive float is the closest we get to pinned greedy decoding.
const pinnedTemperature = math.SmallestNonzeroFloat32

// Client wraps the OpenAI client for chat interactions.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a chat client from a ProviderConfig. The configured
// model is the default; calls may override it per request.
func NewClient(cfg *config.ProviderConfig) (*Client, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("llm base_url is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("llm api_key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL

	return &Client{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}, nil
}

// ChatJSON sends a system + user message pair in deterministic JSON mode and
// returns the assistant response text. An empty model falls back to the
// client default.
func (c *Client) ChatJSON(ctx context.Context, model, systemPrompt, userMessage string) (string, error) {
	if model == "" {
		model = c.model
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: pinnedTemperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// DescribeImage submits a PNG to the vision model with a fixed instruction
// and returns the raw text answer verbatim. Decoding is pinned deterministic;
// intermediate "thinking" output is stripped by CleanResponse since the
// OpenAI-compatible API has no switch to turn it off.
func (c *Client) DescribeImage(ctx context.Context, model, instruction string, png []byte) (string, error) {
	if model == "" {
		model = c.model
	}
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: pinnedTemperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: instruction},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return CleanResponse(resp.Choices[0].Message.Content), nil
}

// Model returns the configured default model name.
func (c *Client) Model() string {
	return c.model
}
