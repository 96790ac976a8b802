package planning

import (
	"fmt"
	"time"
)

// Deadline proximity bonuses added on top of the priority weight.
const (
	bonusOverdue  = 200
	bonusDay      = 150
	bonusThreeDay = 100
	bonusWeek     = 50
	bonusLater    = 10
)

// UrgencyScore combines the priority weight with a deadline proximity bonus.
// Missing or unparseable deadlines score the priority weight alone.
func UrgencyScore(item WorkItem, now time.Time) int {
	base := item.Priority.Weight()
	if !item.HasDeadline() {
		return base
	}
	deadline, err := ParseDeadline(item.Deadline, now.Location())
	if err != nil {
		return base
	}

	diffHours := deadline.Sub(now).Hours()
	switch {
	case diffHours < 0:
		return base + bonusOverdue
	case diffHours < 24:
		return base + bonusDay
	case diffHours < 72:
		return base + bonusThreeDay
	case diffHours < 168:
		return base + bonusWeek
	default:
		return base + bonusLater
	}
}

// FormatDeadline renders the time remaining until an item's deadline.
// Unparseable deadlines are returned verbatim.
func FormatDeadline(item WorkItem, now time.Time) string {
	if !item.HasDeadline() {
		return "no deadline"
	}
	deadline, err := ParseDeadline(item.Deadline, now.Location())
	if err != nil {
		return item.Deadline
	}

	// whole hours, truncated toward zero
	hours := int(deadline.Sub(now).Hours())
	if hours < 0 {
		return fmt.Sprintf("overdue by %dd", -floorDiv(hours, 24))
	}
	if hours < 24 {
		return fmt.Sprintf("%dh left", hours)
	}
	days := hours / 24
	if days <= 7 {
		return fmt.Sprintf("%dd left", days)
	}
	return deadline.Format("Jan 02")
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
