// Package ai defines the port to a generative reasoning backend.
package ai

import (
	"context"
)

// CompletionRequest is a single prompt sent to a backend.
type CompletionRequest struct {
	Prompt      string
	System      string
	Temperature float32
	MaxTokens   int
	// JSONOnly asks the backend to constrain its answer to a JSON object.
	JSONOnly bool
}

// CompletionResponse is the backend's raw answer.
type CompletionResponse struct {
	Text  string
	Model string
	Usage TokenUsage
}

// TokenUsage reports how many tokens a call consumed.
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
}

// Provider is implemented by every reasoning backend.
type Provider interface {
	ID() string
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}
