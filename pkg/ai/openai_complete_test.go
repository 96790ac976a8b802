package ai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	infraAI "github.com/felixgeelhaar/daybrief/pkg/ai"
	"github.com/felixgeelhaar/daybrief/pkg/domain/ai"
)

func openAIReply(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
		"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5},
	}
}

func TestOpenAIProvider_Complete_Success(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("expected Bearer test-key, got %s", r.Header.Get("Authorization"))
		}
		_ = json.NewDecoder(r.Body).Decode(&received)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openAIReply(`{"insight":"ok"}`))
	}))
	defer server.Close()

	p := infraAI.NewOpenAIProviderWithClient("gpt-4o", "test-key", server.URL, server.Client())
	resp, err := p.Complete(context.Background(), ai.CompletionRequest{
		Prompt:      "Rank these",
		System:      "You are a coach",
		Temperature: 0.3,
		MaxTokens:   800,
		JSONOnly:    true,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if resp.Text != `{"insight":"ok"}` {
		t.Errorf("unexpected text %q", resp.Text)
	}
	if resp.Usage.InputTokens != 10 || resp.Usage.OutputTokens != 5 {
		t.Errorf("unexpected usage %+v", resp.Usage)
	}

	messages := received["messages"].([]interface{})
	if len(messages) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(messages))
	}
	if received["max_tokens"].(float64) != 800 {
		t.Errorf("expected max_tokens 800, got %v", received["max_tokens"])
	}
	format := received["response_format"].(map[string]interface{})
	if format["type"] != "json_object" {
		t.Errorf("expected json_object response format, got %v", format["type"])
	}
}

func TestOpenAIProvider_Complete_NoAPIKey(t *testing.T) {
	p := infraAI.NewOpenAIProvider("gpt-4o", "")
	_, err := p.Complete(context.Background(), ai.CompletionRequest{Prompt: "Hello"})
	if !errors.Is(err, infraAI.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestOpenAIProvider_Complete_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"unauthorized", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}},
		{"empty choices", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			p := infraAI.NewOpenAIProviderWithClient("gpt-4o", "test-key", server.URL, server.Client())
			if _, err := p.Complete(context.Background(), ai.CompletionRequest{Prompt: "Hello"}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestOpenAIProvider_Complete_StatusErrorIsTyped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := infraAI.NewOpenAIProviderWithClient("gpt-4o", "test-key", server.URL, server.Client())
	_, err := p.Complete(context.Background(), ai.CompletionRequest{Prompt: "Hello"})

	var statusErr *infraAI.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if !statusErr.Retryable() {
		t.Error("429 should be retryable")
	}
}

func TestOpenAIProvider_Complete_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(openAIReply("late"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := infraAI.NewOpenAIProviderWithClient("gpt-4o", "test-key", server.URL, server.Client())
	if _, err := p.Complete(ctx, ai.CompletionRequest{Prompt: "Hello"}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestOpenAIProvider_DefaultModel(t *testing.T) {
	p := infraAI.NewOpenAIProvider("", "test-key")
	if p.ID() != "openai:gpt-4o" {
		t.Errorf("expected default model gpt-4o, got %s", p.ID())
	}
}
