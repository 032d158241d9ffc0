// Package oracle holds the LLM-backed extraction, evaluation, and
// addition oracles. Each oracle is a thin typed adapter over one shared
// OpenAI-compatible chat client; the oracles' reasoning is opaque and
// non-deterministic, so everything here is specified at the
// request/response boundary only.
package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var (
	// ErrInvalidConfig indicates invalid oracle configuration
	ErrInvalidConfig = errors.New("invalid oracle configuration")

	// ErrEmptyResponse indicates the model returned no choices
	ErrEmptyResponse = errors.New("oracle returned an empty response")
)

// Config holds configuration for the oracle client.
type Config struct {
	// BaseURL of the OpenAI-compatible chat completion API
	BaseURL string

	// Model name (e.g. gpt-4o)
	Model string

	// APIKey for the API (required for OpenAI, optional for local servers)
	APIKey string

	// Timeout bounds each oracle call; zero means no deadline
	Timeout time.Duration
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL required", ErrInvalidConfig)
	}
	if c.Model == "" {
		return fmt.Errorf("%w: model required", ErrInvalidConfig)
	}
	return nil
}

// Client is the shared chat client behind all three oracles.
type Client struct {
	llm     llms.Model
	timeout time.Duration
}

// NewClient creates an oracle client from the given configuration.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		// langchaingo requires a token even for keyless local servers
		apiKey = "not-needed"
	}

	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(cfg.Model),
		openai.WithToken(apiKey),
		openai.WithResponseFormat(openai.ResponseFormatJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("creating llm client: %w", err)
	}

	return &Client{llm: llm, timeout: cfg.Timeout}, nil
}

// complete runs one system+user exchange and returns the raw text of the
// first choice. The configured timeout is applied per call.
func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.llm.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, system),
			llms.TextParts(llms.ChatMessageTypeHuman, user),
		},
		llms.WithTemperature(0),
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Content, nil
}

// decodeJSON unmarshals a model response into out, tolerating markdown
// code fences around the payload.
func decodeJSON(raw string, out interface{}) error {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	if err := json.Unmarshal([]byte(s), out); err != nil {
		return fmt.Errorf("malformed oracle output: %w", err)
	}
	return nil
}
