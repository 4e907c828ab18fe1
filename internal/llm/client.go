// Package llm is a thin client for an OpenRouter-style chat-completions API.
// Every call requests a JSON response constrained by a schema derived from
// the caller's output type, so downstream code only ever sees typed data.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds the LLM service connection settings.
type Config struct {
	BaseURL   string        `mapstructure:"base_url"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// Client calls the chat-completions endpoint.
type Client struct {
	rc     *resty.Client
	model  string
	tokens int
	logger zerolog.Logger
}

// NewClient creates a client. The API key is required: every pipeline stage
// except the normalizer and cart aggregator depends on the LLM, so running
// without one would produce a non-functional service.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: api key not configured")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2048
	}

	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &Client{
		rc:     rc,
		model:  cfg.Model,
		tokens: cfg.MaxTokens,
		logger: log.With().Str("component", "llm_client").Logger(),
	}, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model,omitempty"`
	Messages       []message       `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *jsonSchema `json:"json_schema,omitempty"`
}

type jsonSchema struct {
	Name   string          `json:"name"`
	Strict bool            `json:"strict"`
	Schema json.RawMessage `json:"schema"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// CompleteJSON sends the prompt and unmarshals the model's JSON reply into
// out. name labels the response schema for the provider. The schema itself
// is reflected from out's type.
func (c *Client) CompleteJSON(ctx context.Context, name, prompt string, out any) error {
	schema, err := schemaFor(out)
	if err != nil {
		return fmt.Errorf("llm: reflect schema for %s: %w", name, err)
	}

	req := chatRequest{
		Model:       c.model,
		Messages:    []message{{Role: "user", Content: prompt}},
		MaxTokens:   c.tokens,
		Temperature: 0.2,
		ResponseFormat: &responseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchema{
				Name:   name,
				Strict: true,
				Schema: schema,
			},
		},
	}

	var (
		chatResp chatResponse
		errResp  apiError
	)
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&chatResp).
		SetError(&errResp).
		Post("/chat/completions")
	if err != nil {
		return fmt.Errorf("llm: %s request failed: %w", name, err)
	}
	if resp.IsError() {
		return fmt.Errorf("llm: %s returned HTTP %d: %s", name, resp.StatusCode(), errResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return fmt.Errorf("llm: %s returned no choices", name)
	}

	content := stripFences(chatResp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("llm: %s reply is not valid %s JSON: %w", name, name, err)
	}

	c.logger.Debug().
		Str("call", name).
		Int("prompt_tokens", chatResp.Usage.PromptTokens).
		Int("completion_tokens", chatResp.Usage.CompletionTokens).
		Msg("completion ok")
	return nil
}

// stripFences removes a markdown code fence some models wrap JSON in even
// when a JSON response format was requested.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}
