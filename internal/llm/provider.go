// Package llm sends single-turn prompts to hosted language models and
// returns schema-checked JSON.
package llm

import (
	"context"
	"encoding/json"
)

// Provider completes prompts against one configured model.
type Provider interface {
	Complete(ctx context.Context, p Prompt) (*Completion, error)

	// Model returns the resolved model identifier.
	Model() string
}

// Prompt is a single system + user exchange.
type Prompt struct {
	// Purpose labels the call in the request log, e.g. "draft".
	Purpose string

	System string
	User   string

	// Schema, when set, asks the provider for structured output and is
	// checked against the returned JSON.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Completion is a model's reply.
type Completion struct {
	JSON         json.RawMessage
	Model        string
	InputTokens  int
	OutputTokens int
	Truncated    bool
}

// Tokens returns input plus output tokens.
func (c *Completion) Tokens() int {
	return c.InputTokens + c.OutputTokens
}

// resolveModel maps a short alias to a full model ID. Unknown names pass
// through unchanged.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}

// checked validates content against p.Schema and flags truncation.
func checked(p Prompt, c *Completion) (*Completion, error) {
	if c.Truncated {
		return nil, &Error{Kind: KindTruncated, Output: c.JSON}
	}
	if p.Schema != nil {
		if err := p.Schema.Check(c.JSON); err != nil {
			return nil, err
		}
	}
	return c, nil
}
