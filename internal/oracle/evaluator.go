package oracle

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/briefworks/rfpdb/internal/extraction"
)

// Evaluator recalibrates per-item confidence on a draft extraction. The
// contract requires a 1:1 structural echo of the draft; callers must not
// assume the oracle enforces it (the reconciler shape-checks the echo).
type Evaluator interface {
	Evaluate(ctx context.Context, documentText string, draft *extraction.Result) (*extraction.Result, error)
}

// LLMEvaluator is the chat-backed Evaluator.
type LLMEvaluator struct {
	client *Client
}

// NewEvaluator creates a confidence evaluation oracle over the shared client.
func NewEvaluator(client *Client) *LLMEvaluator {
	return &LLMEvaluator{client: client}
}

// Evaluate implements Evaluator. The draft is passed back to the model as
// JSON to anchor it against hallucination.
func (e *LLMEvaluator) Evaluate(ctx context.Context, documentText string, draft *extraction.Result) (*extraction.Result, error) {
	draftJSON, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("evaluation oracle: encoding draft: %w", err)
	}

	user := fmt.Sprintf(
		"Document text:\n%s\n\nExisting extraction (JSON):\n%s\n\n"+
			"Return the same structure with confidence values populated. "+
			"Do not invent new items or spaces.",
		documentText, draftJSON,
	)

	raw, err := e.client.complete(ctx, evaluatorPrompt, user)
	if err != nil {
		return nil, fmt.Errorf("evaluation oracle: %w", err)
	}

	var result extraction.Result
	if err := decodeJSON(raw, &result); err != nil {
		return nil, fmt.Errorf("evaluation oracle: %w", err)
	}
	return &result, nil
}
