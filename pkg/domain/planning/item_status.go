package planning

import (
	"encoding/json"
	"fmt"
)

// ItemStatus is the lifecycle state of a work item. "overdue" may be set by
// callers and is not guaranteed to agree with the deadline.
type ItemStatus string

const (
	StatusPending    ItemStatus = "pending"
	StatusInProgress ItemStatus = "in-progress"
	StatusCompleted  ItemStatus = "completed"
	StatusOverdue    ItemStatus = "overdue"
)

// Item lifecycle events.
const (
	EventStart    = "start"
	EventComplete = "complete"
	EventReopen   = "reopen"
	EventLapse    = "lapse"
	EventPause    = "pause"
)

// AllItemStatuses returns all valid item statuses.
func AllItemStatuses() []ItemStatus {
	return []ItemStatus{
		StatusPending,
		StatusInProgress,
		StatusCompleted,
		StatusOverdue,
	}
}

// IsValid returns true if the status belongs to the closed set.
func (s ItemStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusOverdue:
		return true
	default:
		return false
	}
}

func (s ItemStatus) String() string {
	return string(s)
}

// DisplayName returns a human-readable display name for the status.
func (s ItemStatus) DisplayName() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	case StatusOverdue:
		return "Overdue"
	default:
		return string(s)
	}
}

// ParseItemStatus parses a string into an ItemStatus.
func ParseItemStatus(s string) (ItemStatus, error) {
	status := ItemStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid item status: %s", s)
	}
	return status, nil
}

// UnmarshalJSON implements json.Unmarshaler. Empty means pending.
func (s *ItemStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if str == "" {
		*s = StatusPending
		return nil
	}
	parsed, err := ParseItemStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
