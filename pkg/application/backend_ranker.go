package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/felixgeelhaar/daybrief/pkg/domain/ai"
	"github.com/felixgeelhaar/daybrief/pkg/domain/planning"
)

const (
	rankSystemPrompt = "You are an expert productivity coach. Analyze tasks and provide concise, actionable priority recommendations. Always respond in JSON."
	rankTemperature  = 0.3
	rankMaxTokens    = 800
)

const priorityResultSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["recommendations", "insight"],
  "properties": {
    "recommendations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["taskId", "taskTitle", "rank", "reason", "suggestedTime"],
        "properties": {
          "taskId": { "type": "string" },
          "taskTitle": { "type": "string" },
          "rank": { "type": "integer" },
          "reason": { "type": "string" },
          "suggestedTime": { "type": "string" }
        }
      }
    },
    "insight": { "type": "string" }
  }
}`

var priorityResultSchemaLoader = gojsonschema.NewStringLoader(priorityResultSchemaJSON)

// ErrBackendUnavailable is the root of every reasoning backend failure.
var ErrBackendUnavailable = errors.New("reasoning backend unavailable")

// BackendError says at which stage a backend call failed.
type BackendError struct {
	Stage string
	Err   error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrBackendUnavailable, e.Stage, e.Err)
}

func (e *BackendError) Unwrap() []error {
	return []error{ErrBackendUnavailable, e.Err}
}

// BackendResult is either a ranking from the backend or the reason there is none.
type BackendResult struct {
	Priorities *planning.PriorityResult
	Err        error
}

// OK reports whether the backend produced a usable ranking.
func (r BackendResult) OK() bool {
	return r.Err == nil && r.Priorities != nil
}

// BackendRanker asks a reasoning backend to rank items and falls back to
// planning.RankPriorities on any failure.
type BackendRanker struct {
	provider ai.Provider
	logger   *slog.Logger
}

// NewBackendRanker wraps provider. A nil provider always falls back.
func NewBackendRanker(provider ai.Provider, logger *slog.Logger) *BackendRanker {
	if logger == nil {
		logger = slog.Default()
	}
	return &BackendRanker{provider: provider, logger: logger}
}

// Rank never fails: backend errors are logged and answered by the
// deterministic ranker.
func (b *BackendRanker) Rank(ctx context.Context, items []planning.WorkItem, now time.Time) planning.PriorityResult {
	res := b.Query(ctx, items)
	if !res.OK() {
		b.logger.Warn("reasoning backend failed, using rule-based ranking",
			"error", res.Err,
			"items", len(items),
		)
		return planning.RankPriorities(items, now)
	}
	return *res.Priorities
}

// Query performs the backend call without any fallback.
func (b *BackendRanker) Query(ctx context.Context, items []planning.WorkItem) BackendResult {
	if b.provider == nil {
		return BackendResult{Err: &BackendError{Stage: "config", Err: errors.New("no provider configured")}}
	}

	resp, err := b.provider.Complete(ctx, ai.CompletionRequest{
		Prompt:      rankPrompt(items),
		System:      rankSystemPrompt,
		Temperature: rankTemperature,
		MaxTokens:   rankMaxTokens,
		JSONOnly:    true,
	})
	if err != nil {
		return BackendResult{Err: &BackendError{Stage: "call", Err: err}}
	}

	result, err := parsePriorityResult(resp.Text)
	if err != nil {
		return BackendResult{Err: &BackendError{Stage: "parse", Err: err}}
	}

	b.logger.Debug("reasoning backend ranked items",
		"provider", b.provider.ID(),
		"model", resp.Model,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"recommendations", len(result.Recommendations),
	)
	return BackendResult{Priorities: result}
}

func rankPrompt(items []planning.WorkItem) string {
	lines := make([]string, 0, len(items))
	for _, it := range planning.ActiveItems(items) {
		deadline := it.Deadline
		if !it.HasDeadline() {
			deadline = "none"
		}
		lines = append(lines, fmt.Sprintf("- ID:%s | Title:%s | Priority:%s | Deadline:%s | Status:%s | Hours:%s",
			it.ID, it.Title, it.Priority, deadline, it.Status, strconv.FormatFloat(it.Hours(), 'f', -1, 64)))
	}
	return "Analyze these tasks and rank the top 3 by urgency:\n" + strings.Join(lines, "\n") +
		"\n\nReturn JSON: {recommendations: [{taskId, taskTitle, rank, reason, suggestedTime}], insight: string}"
}

func parsePriorityResult(text string) (*planning.PriorityResult, error) {
	clean := extractJSONPayload(text)
	if clean == "" {
		return nil, errors.New("empty response")
	}

	validation, err := gojsonschema.Validate(priorityResultSchemaLoader, gojsonschema.NewStringLoader(clean))
	if err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if !validation.Valid() {
		issues := make([]string, 0, len(validation.Errors()))
		for _, desc := range validation.Errors() {
			issues = append(issues, desc.String())
		}
		return nil, fmt.Errorf("schema mismatch: %s", strings.Join(issues, "; "))
	}

	var result planning.PriorityResult
	if err := json.Unmarshal([]byte(clean), &result); err != nil {
		return nil, fmt.Errorf("decode ranking: %w", err)
	}
	if result.Recommendations == nil {
		result.Recommendations = []planning.Recommendation{}
	}
	if len(result.Recommendations) > planning.MaxRecommendations {
		result.Recommendations = result.Recommendations[:planning.MaxRecommendations]
	}
	return &result, nil
}

// extractJSONPayload strips markdown fences and any prose around the first
// JSON object or array.
func extractJSONPayload(text string) string {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	if clean == "" {
		return clean
	}

	startArray := strings.Index(clean, "[")
	startObject := strings.Index(clean, "{")
	start := startObject
	if startArray != -1 && (startObject == -1 || startArray < startObject) {
		start = startArray
	}
	if start == -1 {
		return clean
	}

	endArray := strings.LastIndex(clean, "]")
	endObject := strings.LastIndex(clean, "}")
	end := endObject
	if endArray != -1 && (endObject == -1 || endArray > endObject) {
		end = endArray
	}
	if end == -1 || end <= start {
		return clean
	}

	return strings.TrimSpace(clean[start : end+1])
}
