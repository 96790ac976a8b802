package planning

import (
	"strings"
	"time"
)

// DefaultEstimatedHours is used wherever an item carries no estimate.
const DefaultEstimatedHours = 2.0

// Field limits enforced by ItemService on create and update.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxCategoryLength    = 100
	MinEstimatedHours    = 0.5
	MaxEstimatedHours    = 100
)

// WorkItem is a unit of work owned by the item store.
// The planning algorithms treat it as read-only.
type WorkItem struct {
	ID             string       `json:"id" yaml:"id"`
	Title          string       `json:"title" yaml:"title"`
	Description    string       `json:"description,omitempty" yaml:"description,omitempty"`
	Deadline       string       `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	Priority       ItemPriority `json:"priority" yaml:"priority"`
	Status         ItemStatus   `json:"status" yaml:"status"`
	Category       string       `json:"category,omitempty" yaml:"category,omitempty"`
	EstimatedHours *float64     `json:"estimatedHours,omitempty" yaml:"estimatedHours,omitempty"`
	CreatedAt      string       `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt      string       `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// IsActive reports whether the item still needs work.
func (i WorkItem) IsActive() bool {
	return i.Status != StatusCompleted
}

// Hours returns the estimate, falling back to DefaultEstimatedHours.
func (i WorkItem) Hours() float64 {
	if i.EstimatedHours == nil || *i.EstimatedHours == 0 {
		return DefaultEstimatedHours
	}
	return *i.EstimatedHours
}

// HasDeadline reports whether a deadline string is set.
func (i WorkItem) HasDeadline() bool {
	return strings.TrimSpace(i.Deadline) != ""
}

// IsOverdue derives overdue-ness from the deadline, independent of Status.
// Unparseable deadlines are never overdue.
func (i WorkItem) IsOverdue(now time.Time) bool {
	if !i.HasDeadline() || i.Status == StatusCompleted {
		return false
	}
	d, err := ParseDeadline(i.Deadline, now.Location())
	if err != nil {
		return false
	}
	return d.Before(now)
}

// Hours is a convenience for building estimate pointers.
func Hours(h float64) *float64 {
	return &h
}

// ActiveItems returns the items whose status is not completed, in input order.
func ActiveItems(items []WorkItem) []WorkItem {
	active := make([]WorkItem, 0, len(items))
	for _, it := range items {
		if it.IsActive() {
			active = append(active, it)
		}
	}
	return active
}

var deadlineLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDeadline parses an ISO-8601 timestamp. Values without an offset are
// read in loc.
func ParseDeadline(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range deadlineLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, &DeadlineParseError{Value: s, Err: lastErr}
}
