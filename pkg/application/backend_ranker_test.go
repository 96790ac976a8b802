package application

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	infraAI "github.com/felixgeelhaar/daybrief/pkg/ai"
	"github.com/felixgeelhaar/daybrief/pkg/domain/planning"
)

var testNow = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

func sampleItems() []planning.WorkItem {
	return []planning.WorkItem{
		{ID: "a", Title: "Write docs", Priority: planning.PriorityLow, Status: planning.StatusPending},
		{ID: "b", Title: "Fix outage", Priority: planning.PriorityCritical, Status: planning.StatusInProgress,
			Deadline: "2025-06-02T12:00:00Z", EstimatedHours: planning.Hours(3)},
		{ID: "c", Title: "Done already", Priority: planning.PriorityHigh, Status: planning.StatusCompleted},
	}
}

const backendReply = `{
  "recommendations": [
    {"taskId": "b", "taskTitle": "Fix outage", "rank": 1, "reason": "On fire", "suggestedTime": "now"},
    {"taskId": "a", "taskTitle": "Write docs", "rank": 2, "reason": "Later", "suggestedTime": "afternoon"}
  ],
  "insight": "Focus on the outage."
}`

func TestBackendRanker_UsesBackendAnswer(t *testing.T) {
	mock := &infraAI.MockProvider{Model: "m", Text: "```json\n" + backendReply + "\n```"}
	ranker := NewBackendRanker(mock, nil)

	got := ranker.Rank(context.Background(), sampleItems(), testNow)

	if got.Insight != "Focus on the outage." {
		t.Errorf("expected backend insight, got %q", got.Insight)
	}
	if len(got.Recommendations) != 2 {
		t.Fatalf("expected the backend's 2 recommendations, got %d", len(got.Recommendations))
	}
	if got.Recommendations[0].ItemID != "b" || got.Recommendations[0].SuggestedTime != "now" {
		t.Errorf("unexpected first recommendation: %+v", got.Recommendations[0])
	}
}

func TestBackendRanker_Request(t *testing.T) {
	mock := &infraAI.MockProvider{Text: backendReply}
	ranker := NewBackendRanker(mock, nil)
	ranker.Rank(context.Background(), sampleItems(), testNow)

	req, ok := mock.LastRequest()
	if !ok {
		t.Fatal("backend was not called")
	}
	if req.Temperature != 0.3 || req.MaxTokens != 800 || !req.JSONOnly {
		t.Errorf("unexpected request settings: %+v", req)
	}
	if !strings.Contains(req.System, "productivity coach") {
		t.Errorf("unexpected system prompt %q", req.System)
	}
	wantLines := []string{
		"- ID:a | Title:Write docs | Priority:low | Deadline:none | Status:pending | Hours:2",
		"- ID:b | Title:Fix outage | Priority:critical | Deadline:2025-06-02T12:00:00Z | Status:in-progress | Hours:3",
	}
	for _, line := range wantLines {
		if !strings.Contains(req.Prompt, line) {
			t.Errorf("prompt missing line %q:\n%s", line, req.Prompt)
		}
	}
	if strings.Contains(req.Prompt, "Done already") {
		t.Error("completed items must not be sent to the backend")
	}
}

func TestBackendRanker_FallsBackOnFailure(t *testing.T) {
	tests := []struct {
		name     string
		provider *infraAI.MockProvider
	}{
		{"missing credential", &infraAI.MockProvider{Err: infraAI.ErrMissingCredential}},
		{"network error", &infraAI.MockProvider{Err: errors.New("connection refused")}},
		{"timeout", &infraAI.MockProvider{Err: context.DeadlineExceeded}},
		{"malformed json", &infraAI.MockProvider{Text: `{"recommendations": [`}},
		{"not json", &infraAI.MockProvider{Text: "I think you should do the outage first."}},
		{"schema mismatch", &infraAI.MockProvider{Text: `{"recommendations": [{"taskId": 7}], "insight": "x"}`}},
		{"missing insight", &infraAI.MockProvider{Text: `{"recommendations": []}`}},
	}

	want := planning.RankPriorities(sampleItems(), testNow)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranker := NewBackendRanker(tt.provider, nil)
			got := ranker.Rank(context.Background(), sampleItems(), testNow)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("expected rule-based ranking\n got: %+v\nwant: %+v", got, want)
			}
		})
	}
}

func TestBackendRanker_NilProviderFallsBack(t *testing.T) {
	ranker := NewBackendRanker(nil, nil)
	res := ranker.Query(context.Background(), sampleItems())
	if res.OK() || !errors.Is(res.Err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %+v", res)
	}

	got := ranker.Rank(context.Background(), sampleItems(), testNow)
	if !reflect.DeepEqual(got, planning.RankPriorities(sampleItems(), testNow)) {
		t.Errorf("expected rule-based ranking, got %+v", got)
	}
}

func TestBackendRanker_QueryWrapsCause(t *testing.T) {
	ranker := NewBackendRanker(&infraAI.MockProvider{Err: infraAI.ErrMissingCredential}, nil)
	res := ranker.Query(context.Background(), sampleItems())

	if !errors.Is(res.Err, ErrBackendUnavailable) {
		t.Errorf("expected ErrBackendUnavailable, got %v", res.Err)
	}
	if !errors.Is(res.Err, infraAI.ErrMissingCredential) {
		t.Errorf("expected cause to be kept, got %v", res.Err)
	}
	var bErr *BackendError
	if !errors.As(res.Err, &bErr) || bErr.Stage != "call" {
		t.Errorf("expected call-stage BackendError, got %v", res.Err)
	}
}

func TestBackendRanker_CapsRecommendations(t *testing.T) {
	reply := `{"recommendations": [
		{"taskId": "1", "taskTitle": "a", "rank": 1, "reason": "r", "suggestedTime": "t"},
		{"taskId": "2", "taskTitle": "b", "rank": 2, "reason": "r", "suggestedTime": "t"},
		{"taskId": "3", "taskTitle": "c", "rank": 3, "reason": "r", "suggestedTime": "t"},
		{"taskId": "4", "taskTitle": "d", "rank": 4, "reason": "r", "suggestedTime": "t"}
	], "insight": "busy"}`
	ranker := NewBackendRanker(&infraAI.MockProvider{Text: reply}, nil)

	got := ranker.Rank(context.Background(), sampleItems(), testNow)
	if len(got.Recommendations) != planning.MaxRecommendations {
		t.Errorf("expected %d recommendations, got %d", planning.MaxRecommendations, len(got.Recommendations))
	}
}

func TestBackendRanker_EmptyRecommendations(t *testing.T) {
	ranker := NewBackendRanker(&infraAI.MockProvider{}, nil)
	got := ranker.Rank(context.Background(), sampleItems(), testNow)

	if got.Recommendations == nil || len(got.Recommendations) != 0 {
		t.Errorf("expected an empty, non-nil list, got %#v", got.Recommendations)
	}
	if got.Insight != "Nothing to rank." {
		t.Errorf("unexpected insight %q", got.Insight)
	}
}

func TestExtractJSONPayload(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", "Sure! Here it is: {\"a\":1} Hope it helps.", `{"a":1}`},
		{"array", "result: [1,2]", `[1,2]`},
		{"no json", "nothing here", "nothing here"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSONPayload(tt.in); got != tt.want {
				t.Errorf("extractJSONPayload(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
