package ai

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/daybrief/pkg/domain/ai"
)

// MockProvider answers with canned text. It backs the "mock" provider
// setting and tests.
type MockProvider struct {
	Model string
	Text  string
	Err   error

	mu       sync.Mutex
	calls    int
	requests []ai.CompletionRequest
}

func (m *MockProvider) ID() string {
	return "mock:" + m.Model
}

func (m *MockProvider) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	m.mu.Lock()
	m.calls++
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	text := m.Text
	if text == "" {
		text = `{"recommendations": [], "insight": "Nothing to rank."}`
	}
	return &ai.CompletionResponse{Text: text, Model: m.Model}, nil
}

// Calls returns how many times Complete ran.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastRequest returns the most recent request, if any.
func (m *MockProvider) LastRequest() (ai.CompletionRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return ai.CompletionRequest{}, false
	}
	return m.requests[len(m.requests)-1], true
}
