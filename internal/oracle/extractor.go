package oracle

import (
	"context"
	"fmt"

	"github.com/briefworks/rfpdb/internal/extraction"
)

// Extractor produces a structured draft extraction from document text.
type Extractor interface {
	Extract(ctx context.Context, documentText string) (*extraction.Result, error)
}

// LLMExtractor is the chat-backed Extractor.
type LLMExtractor struct {
	client *Client
}

// NewExtractor creates an extraction oracle over the shared client.
func NewExtractor(client *Client) *LLMExtractor {
	return &LLMExtractor{client: client}
}

// Extract implements Extractor. Any oracle-side failure propagates; there
// is no retry.
func (e *LLMExtractor) Extract(ctx context.Context, documentText string) (*extraction.Result, error) {
	user := fmt.Sprintf("Extract requirements from the following text:\n\n%s", documentText)

	raw, err := e.client.complete(ctx, extractorPrompt, user)
	if err != nil {
		return nil, fmt.Errorf("extraction oracle: %w", err)
	}

	var result extraction.Result
	if err := decodeJSON(raw, &result); err != nil {
		return nil, fmt.Errorf("extraction oracle: %w", err)
	}
	return &result, nil
}
