package application

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/daybrief/pkg/domain/planning"
)

// timestampLayout keeps createdAt strings the same width so they sort
// lexically in time order.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// Sort keys accepted by ItemService.List.
const (
	SortByCreatedAt = "createdAt"
	SortByDeadline  = "deadline"
	SortByPriority  = "priority"
)

// ItemInput carries the fields of a new item.
type ItemInput struct {
	Title          string                `json:"title"`
	Description    string                `json:"description,omitempty"`
	Deadline       string                `json:"deadline,omitempty"`
	Priority       planning.ItemPriority `json:"priority,omitempty"`
	Status         planning.ItemStatus   `json:"status,omitempty"`
	Category       string                `json:"category,omitempty"`
	EstimatedHours *float64              `json:"estimatedHours,omitempty"`
}

// ItemPatch is a partial update. Nil fields are left unchanged.
type ItemPatch struct {
	Title          *string                `json:"title,omitempty"`
	Description    *string                `json:"description,omitempty"`
	Deadline       *string                `json:"deadline,omitempty"`
	Priority       *planning.ItemPriority `json:"priority,omitempty"`
	Status         *planning.ItemStatus   `json:"status,omitempty"`
	Category       *string                `json:"category,omitempty"`
	EstimatedHours *float64               `json:"estimatedHours,omitempty"`
}

// ItemFilter narrows and orders List results. Empty fields match everything.
type ItemFilter struct {
	Status   string
	Priority string
	Category string
	Search   string
	SortBy   string
}

// ItemStats aggregates the store.
type ItemStats struct {
	Total      int     `json:"total"`
	Completed  int     `json:"completed"`
	Pending    int     `json:"pending"`
	InProgress int     `json:"inProgress"`
	Overdue    int     `json:"overdue"`
	Progress   float64 `json:"progress"`
}

// ItemService is the CRUD surface over the item store.
type ItemService struct {
	repo   planning.ItemRepository
	clock  planning.Clock
	logger *slog.Logger
	newID  func() string
}

func NewItemService(repo planning.ItemRepository, clock planning.Clock, logger *slog.Logger) *ItemService {
	if clock == nil {
		clock = planning.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ItemService{
		repo:   repo,
		clock:  clock,
		logger: logger,
		newID:  func() string { return uuid.New().String() },
	}
}

// Create validates input and stores a new item.
func (s *ItemService) Create(in ItemInput) (planning.WorkItem, error) {
	item := planning.WorkItem{
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		Deadline:       in.Deadline,
		Priority:       in.Priority,
		Status:         in.Status,
		Category:       in.Category,
		EstimatedHours: in.EstimatedHours,
	}
	if item.Priority == "" {
		item.Priority = planning.DefaultItemPriority()
	}
	if item.Status == "" {
		item.Status = planning.StatusPending
	}
	if err := validateItem(item); err != nil {
		return planning.WorkItem{}, err
	}

	item.ID = s.newID()
	item.CreatedAt = s.clock.Now().Format(timestampLayout)

	if err := s.repo.Save(item); err != nil {
		return planning.WorkItem{}, fmt.Errorf("save item: %w", err)
	}
	s.logger.Info("item created", "id", item.ID, "priority", item.Priority)
	return item, nil
}

func (s *ItemService) Get(id string) (planning.WorkItem, error) {
	return s.repo.Get(id)
}

// Update applies patch in one atomic step. Any valid status may be set
// directly; event-driven changes go through Transition.
func (s *ItemService) Update(id string, patch ItemPatch) (planning.WorkItem, error) {
	item, err := s.repo.Update(id, func(item *planning.WorkItem) error {
		applyPatch(item, patch)
		if err := validateItem(*item); err != nil {
			return err
		}
		item.UpdatedAt = s.clock.Now().Format(timestampLayout)
		return nil
	})
	if err != nil {
		return planning.WorkItem{}, err
	}
	s.logger.Info("item updated", "id", id, "status", item.Status)
	return item, nil
}

// Transition fires a status event on the item through the state machine.
func (s *ItemService) Transition(id, event string) (planning.WorkItem, error) {
	var from planning.ItemStatus
	item, err := s.repo.Update(id, func(item *planning.WorkItem) error {
		sm, err := planning.NewItemStateMachine(item.ID, item.Status)
		if err != nil {
			return err
		}
		if err := sm.Transition(event); err != nil {
			return err
		}
		from = item.Status
		item.Status = sm.Current()
		item.UpdatedAt = s.clock.Now().Format(timestampLayout)
		return nil
	})
	if err != nil {
		return planning.WorkItem{}, err
	}
	s.logger.Info("item transitioned", "id", id, "event", event, "from", from, "to", item.Status)
	return item, nil
}

func (s *ItemService) Delete(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.logger.Info("item deleted", "id", id)
	return nil
}

// List returns the items matching filter in the requested order.
func (s *ItemService) List(filter ItemFilter) ([]planning.WorkItem, error) {
	items, err := s.repo.List()
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(filter.Search)
	out := make([]planning.WorkItem, 0, len(items))
	for _, it := range items {
		if filter.Status != "" && string(it.Status) != filter.Status {
			continue
		}
		if filter.Priority != "" && string(it.Priority) != filter.Priority {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(it.Category, filter.Category) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(it.Title), search) &&
			!strings.Contains(strings.ToLower(it.Description), search) {
			continue
		}
		out = append(out, it)
	}

	switch filter.SortBy {
	case SortByPriority:
		slices.SortStableFunc(out, func(a, b planning.WorkItem) int {
			return b.Priority.Order() - a.Priority.Order()
		})
	case SortByDeadline:
		slices.SortStableFunc(out, func(a, b planning.WorkItem) int {
			return strings.Compare(deadlineSortKey(a), deadlineSortKey(b))
		})
	default:
		slices.SortStableFunc(out, func(a, b planning.WorkItem) int {
			return strings.Compare(b.CreatedAt, a.CreatedAt)
		})
	}
	return out, nil
}

// All returns every stored item in insertion order.
func (s *ItemService) All() ([]planning.WorkItem, error) {
	return s.repo.List()
}

// Stats counts items by status. Overdue is derived from deadlines rather
// than the stored status.
func (s *ItemService) Stats() (ItemStats, error) {
	items, err := s.repo.List()
	if err != nil {
		return ItemStats{}, err
	}

	now := s.clock.Now()
	stats := ItemStats{Total: len(items)}
	for _, it := range items {
		switch it.Status {
		case planning.StatusCompleted:
			stats.Completed++
		case planning.StatusPending:
			stats.Pending++
		case planning.StatusInProgress:
			stats.InProgress++
		}
		if it.IsOverdue(now) {
			stats.Overdue++
		}
	}
	if stats.Total > 0 {
		stats.Progress = math.Round(float64(stats.Completed)/float64(stats.Total)*1000) / 10
	}
	return stats, nil
}

// SeedDemo stores three sample items due later today.
func (s *ItemService) SeedDemo() ([]planning.WorkItem, error) {
	now := s.clock.Now()
	at := func(hour int) string {
		return time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location()).Format("2006-01-02T15:04:05")
	}

	demo := []ItemInput{
		{
			Title:          "Design System Architecture",
			Description:    "Plan microservices and API gateway patterns",
			Deadline:       at(17),
			Priority:       planning.PriorityCritical,
			Status:         planning.StatusInProgress,
			Category:       "Engineering",
			EstimatedHours: planning.Hours(4),
		},
		{
			Title:          "Q4 Marketing Report",
			Description:    "Compile analytics for board presentation",
			Deadline:       at(12),
			Priority:       planning.PriorityHigh,
			Status:         planning.StatusPending,
			Category:       "Marketing",
			EstimatedHours: planning.Hours(3),
		},
		{
			Title:          "Budget Planning FY2025",
			Description:    "Departmental budget proposals and resource allocation",
			Deadline:       at(16),
			Priority:       planning.PriorityCritical,
			Status:         planning.StatusPending,
			Category:       "Finance",
			EstimatedHours: planning.Hours(6),
		},
	}

	seeded := make([]planning.WorkItem, 0, len(demo))
	for _, in := range demo {
		item, err := s.Create(in)
		if err != nil {
			return nil, fmt.Errorf("seed demo items: %w", err)
		}
		seeded = append(seeded, item)
	}
	return seeded, nil
}

func applyPatch(item *planning.WorkItem, patch ItemPatch) {
	if patch.Title != nil {
		item.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Deadline != nil {
		item.Deadline = *patch.Deadline
	}
	if patch.Priority != nil {
		item.Priority = *patch.Priority
	}
	if patch.Status != nil {
		item.Status = *patch.Status
	}
	if patch.Category != nil {
		item.Category = *patch.Category
	}
	if patch.EstimatedHours != nil {
		item.EstimatedHours = planning.Hours(*patch.EstimatedHours)
	}
}

func deadlineSortKey(it planning.WorkItem) string {
	if !it.HasDeadline() {
		return "9999"
	}
	return it.Deadline
}

func validateItem(it planning.WorkItem) error {
	if it.Title == "" {
		return planning.ErrEmptyTitle
	}
	if n := utf8.RuneCountInString(it.Title); n > planning.MaxTitleLength {
		return &planning.ValidationError{Field: "title", Message: fmt.Sprintf("must be at most %d characters", planning.MaxTitleLength)}
	}
	if utf8.RuneCountInString(it.Description) > planning.MaxDescriptionLength {
		return &planning.ValidationError{Field: "description", Message: fmt.Sprintf("must be at most %d characters", planning.MaxDescriptionLength)}
	}
	if utf8.RuneCountInString(it.Category) > planning.MaxCategoryLength {
		return &planning.ValidationError{Field: "category", Message: fmt.Sprintf("must be at most %d characters", planning.MaxCategoryLength)}
	}
	if h := it.EstimatedHours; h != nil && (*h < planning.MinEstimatedHours || *h > planning.MaxEstimatedHours) {
		return &planning.ValidationError{Field: "estimatedHours", Message: fmt.Sprintf("must be between %g and %g", planning.MinEstimatedHours, float64(planning.MaxEstimatedHours))}
	}
	if !it.Priority.IsValid() {
		return &planning.ValidationError{Field: "priority", Message: fmt.Sprintf("unknown value %q", it.Priority)}
	}
	if !it.Status.IsValid() {
		return &planning.ValidationError{Field: "status", Message: fmt.Sprintf("unknown value %q", it.Status)}
	}
	return nil
}
