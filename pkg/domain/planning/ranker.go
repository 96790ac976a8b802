package planning

import (
	"fmt"
	"slices"
	"time"
)

// MaxRecommendations caps the ranked output.
const MaxRecommendations = 3

var recommendationReasons = [MaxRecommendations]string{
	"🔥 Highest urgency: %s priority with deadline %s. Clear your schedule and start now.",
	"⚡ Second priority: Significant impact on project timeline. Schedule immediately after task #1.",
	"📋 Third priority: Important but manageable. Block time this afternoon.",
}

var recommendationSlots = [MaxRecommendations]string{
	"9:00 AM – 11:00 AM",
	"11:30 AM – 1:00 PM",
	"2:00 PM – 4:00 PM",
}

// Recommendation is one ranked item with an explanation and time slot.
type Recommendation struct {
	ItemID        string `json:"taskId"`
	ItemTitle     string `json:"taskTitle"`
	Rank          int    `json:"rank"`
	Reason        string `json:"reason"`
	SuggestedTime string `json:"suggestedTime"`
}

// PriorityResult is the output of a ranking pass.
type PriorityResult struct {
	Recommendations []Recommendation `json:"recommendations"`
	Insight         string           `json:"insight"`
}

// SortByUrgency returns the active items ordered by descending urgency.
// Equal scores keep their input order.
func SortByUrgency(items []WorkItem, now time.Time) []WorkItem {
	active := ActiveItems(items)
	scores := make([]int, len(active))
	idx := make([]int, len(active))
	for i, it := range active {
		idx[i] = i
		scores[i] = UrgencyScore(it, now)
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return scores[b] - scores[a]
	})

	sorted := make([]WorkItem, len(active))
	for i, j := range idx {
		sorted[i] = active[j]
	}
	return sorted
}

// RankPriorities picks the three most urgent active items.
func RankPriorities(items []WorkItem, now time.Time) PriorityResult {
	sorted := SortByUrgency(items, now)
	top := sorted[:min(len(sorted), MaxRecommendations)]

	recs := make([]Recommendation, 0, len(top))
	for i, it := range top {
		reason := recommendationReasons[i]
		if i == 0 {
			reason = fmt.Sprintf(reason, it.Priority, FormatDeadline(it, now))
		}
		recs = append(recs, Recommendation{
			ItemID:        it.ID,
			ItemTitle:     it.Title,
			Rank:          i + 1,
			Reason:        reason,
			SuggestedTime: recommendationSlots[i],
		})
	}

	return PriorityResult{
		Recommendations: recs,
		Insight:         workloadInsight(ActiveItems(items)),
	}
}

func workloadInsight(active []WorkItem) string {
	critical := 0
	totalHours := 0.0
	for _, it := range active {
		if it.Priority == PriorityCritical {
			critical++
		}
		totalHours += it.Hours()
	}
	return fmt.Sprintf(
		"You have %d active tasks with %d marked critical. Estimated %.1fh of focused work. "+
			"I recommend addressing the top 3 priorities before 4 PM today.",
		len(active), critical, totalHours,
	)
}
