package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/felixgeelhaar/daybrief/pkg/domain/planning"
)

// PriorityReport is a ranking stamped with the time it was produced.
type PriorityReport struct {
	planning.PriorityResult
	GeneratedAt time.Time `json:"generatedAt"`
}

// DailyPlanReport is a daily plan stamped with the time it was produced.
type DailyPlanReport struct {
	planning.DailyPlan
	GeneratedAt time.Time `json:"generatedAt"`
}

// InsightService answers the three request/response operations: rank,
// plan and suggest. It validates input and stamps generatedAt; the
// algorithms themselves live in the planning package.
type InsightService struct {
	clock   planning.Clock
	backend *BackendRanker
	logger  *slog.Logger
}

// NewInsightService builds the service. backend may be nil, in which case
// ranking is always rule-based.
func NewInsightService(clock planning.Clock, backend *BackendRanker, logger *slog.Logger) *InsightService {
	if clock == nil {
		clock = planning.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &InsightService{clock: clock, backend: backend, logger: logger}
}

// BackendEnabled reports whether rankings go through the reasoning backend.
func (s *InsightService) BackendEnabled() bool {
	return s.backend != nil
}

// RankPriorities returns up to three recommendations for items.
func (s *InsightService) RankPriorities(ctx context.Context, items []planning.WorkItem) (*PriorityReport, error) {
	if len(items) == 0 {
		return nil, planning.ErrEmptyItems
	}

	now := s.clock.Now()
	var result planning.PriorityResult
	if s.backend != nil {
		result = s.backend.Rank(ctx, items, now)
	} else {
		result = planning.RankPriorities(items, now)
	}

	return &PriorityReport{PriorityResult: result, GeneratedAt: s.clock.Now()}, nil
}

// BuildDailyPlan schedules up to four items into the working day.
func (s *InsightService) BuildDailyPlan(items []planning.WorkItem) (*DailyPlanReport, error) {
	if len(items) == 0 {
		return nil, planning.ErrEmptyItems
	}

	now := s.clock.Now()
	plan := planning.BuildDailyPlan(items, now)
	s.logger.Debug("daily plan built", "items", len(items), "blocks", len(plan.TimeBlocks))

	return &DailyPlanReport{DailyPlan: plan, GeneratedAt: s.clock.Now()}, nil
}

// Suggest classifies a prospective item by its title and description.
func (s *InsightService) Suggest(title, description string) (planning.Suggestion, error) {
	if strings.TrimSpace(title) == "" {
		return planning.Suggestion{}, planning.ErrEmptyTitle
	}
	return planning.ClassifySuggestion(title, description), nil
}
