package planning

import (
	"encoding/json"
	"fmt"
)

// ItemPriority is the importance level assigned to a work item.
type ItemPriority string

const (
	PriorityCritical ItemPriority = "critical"
	PriorityHigh     ItemPriority = "high"
	PriorityMedium   ItemPriority = "medium"
	PriorityLow      ItemPriority = "low"
)

// priorityWeights are the base urgency scores per priority.
var priorityWeights = map[ItemPriority]int{
	PriorityCritical: 100,
	PriorityHigh:     75,
	PriorityMedium:   50,
	PriorityLow:      25,
}

// AllItemPriorities returns the priorities from most to least important.
func AllItemPriorities() []ItemPriority {
	return []ItemPriority{
		PriorityCritical,
		PriorityHigh,
		PriorityMedium,
		PriorityLow,
	}
}

// IsValid returns true if the priority belongs to the closed set.
func (p ItemPriority) IsValid() bool {
	_, ok := priorityWeights[p]
	return ok
}

func (p ItemPriority) String() string {
	return string(p)
}

// Weight returns the base urgency score. Unknown priorities weigh 0.
func (p ItemPriority) Weight() int {
	return priorityWeights[p]
}

// Order returns a sort key, higher means more important.
func (p ItemPriority) Order() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// DisplayName returns a human-readable display name for the priority.
func (p ItemPriority) DisplayName() string {
	switch p {
	case PriorityCritical:
		return "Critical"
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return string(p)
	}
}

// ParseItemPriority parses a string into an ItemPriority.
func ParseItemPriority(s string) (ItemPriority, error) {
	p := ItemPriority(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid item priority: %s", s)
	}
	return p, nil
}

// DefaultItemPriority is assigned to items created without a priority.
func DefaultItemPriority() ItemPriority {
	return PriorityMedium
}

// UnmarshalJSON implements json.Unmarshaler. Empty means medium.
func (p *ItemPriority) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if str == "" {
		*p = DefaultItemPriority()
		return nil
	}
	parsed, err := ParseItemPriority(str)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
