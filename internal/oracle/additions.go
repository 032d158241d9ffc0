package oracle

import (
	"context"
	"fmt"

	"github.com/briefworks/rfpdb/internal/extraction"
	"github.com/briefworks/rfpdb/internal/types"
)

// AdditionProposer turns a natural-language request plus a summary of the
// current project state into additions-only space/item proposals. The
// output must never echo existing records; that is a prompt-level
// contract the engine cannot verify.
type AdditionProposer interface {
	ProposeAdditions(ctx context.Context, contextSummary, userPrompt string) ([]extraction.SpaceRequirements, error)
}

// LLMAdditionProposer is the chat-backed AdditionProposer.
type LLMAdditionProposer struct {
	client *Client
}

// NewAdditionProposer creates an additions oracle over the shared client.
func NewAdditionProposer(client *Client) *LLMAdditionProposer {
	return &LLMAdditionProposer{client: client}
}

// ProposeAdditions implements AdditionProposer.
func (p *LLMAdditionProposer) ProposeAdditions(ctx context.Context, contextSummary, userPrompt string) ([]extraction.SpaceRequirements, error) {
	user := fmt.Sprintf(
		"Current project summary:\n%s\n\nUser prompt (additions only):\n%s\n\n"+
			"Return ONLY the spaces/items to add as JSON.",
		contextSummary, userPrompt,
	)

	raw, err := p.client.complete(ctx, additionsPrompt, user)
	if err != nil {
		return nil, fmt.Errorf("addition oracle: %w", err)
	}

	var payload struct {
		Spaces types.FlexList[extraction.SpaceRequirements] `json:"spaces"`
	}
	if err := decodeJSON(raw, &payload); err != nil {
		return nil, fmt.Errorf("addition oracle: %w", err)
	}
	return payload.Spaces.Slice(), nil
}
