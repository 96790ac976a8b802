package planning

import (
	"fmt"
	"math"
	"time"
)

// Daily plan layout constants.
const (
	MaxTimeBlocks = 4
	dayStartHour  = 9.0
	lunchBreak    = 0.5
	// lunch is inserted after the block at this index
	lunchAfterIndex = 1
)

type blockTemplate struct {
	Label string
	Emoji string
	Tip   string
}

var blockTemplates = [MaxTimeBlocks]blockTemplate{
	{Label: "Deep Work Block", Emoji: "🧠", Tip: "Silence all notifications. Use 90-min focus sprints with 10-min breaks."},
	{Label: "Collaborative Focus", Emoji: "🤝", Tip: "Schedule any needed syncs at the start. Batch async updates after."},
	{Label: "Creative Session", Emoji: "✨", Tip: "Start with a 5-min freewrite. Suspend self-editing until a complete draft exists."},
	{Label: "Review & Polish", Emoji: "🔍", Tip: "Work through a checklist. Document progress for tomorrow's handoff."},
}

var productivityTips = []string{
	"🌅 Your peak cognitive performance occurs 9–11 AM. Front-load your most demanding task.",
	"⏰ Apply the 2-minute rule: tasks under 2 minutes get done immediately, not scheduled.",
	"🎯 Limit daily MIT (Most Important Tasks) to exactly 3 for maximum execution clarity.",
	"🔋 Insert a 15-min walk at 3 PM to counteract the post-lunch circadian energy dip.",
	"📵 Batch communications (Slack, email) to 3 fixed windows: 10 AM, 1 PM, and 4 PM.",
	"📝 End each day with a 5-min 'shutdown ritual': clear tomorrow's top 3 tasks the night before.",
}

// ProductivityTips returns the fixed coaching list attached to every plan.
func ProductivityTips() []string {
	return append([]string(nil), productivityTips...)
}

// TimeBlock assigns one item to a span of the day.
type TimeBlock struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	ItemTitle string `json:"task"`
	ItemID    string `json:"taskId"`
	Label     string `json:"label"`
	Emoji     string `json:"emoji"`
	Tip       string `json:"tip"`
}

// DailyPlan is the laid-out schedule for the most urgent active items.
type DailyPlan struct {
	TimeBlocks       []TimeBlock `json:"timeBlocks"`
	TotalFocusHours  float64     `json:"totalFocusHours"`
	ProductivityTips []string    `json:"productivityTips"`
}

// BuildDailyPlan lays the four most urgent active items into sequential
// blocks starting at 09:00. The running clock advances by the rounded-up
// duration, plus a lunch break after the second block, so a fractional
// estimate leaves a gap before the next block.
func BuildDailyPlan(items []WorkItem, now time.Time) DailyPlan {
	sorted := SortByUrgency(items, now)
	selected := sorted[:min(len(sorted), MaxTimeBlocks)]

	blocks := make([]TimeBlock, 0, len(selected))
	clock := dayStartHour
	total := 0.0
	for i, it := range selected {
		dur := it.Hours()
		tpl := blockTemplates[i%len(blockTemplates)]
		blocks = append(blocks, TimeBlock{
			StartTime: clockLabel(clock),
			EndTime:   clockLabel(clock + dur),
			ItemTitle: it.Title,
			ItemID:    it.ID,
			Label:     tpl.Label,
			Emoji:     tpl.Emoji,
			Tip:       tpl.Tip,
		})

		clock += math.Ceil(dur)
		if i == lunchAfterIndex {
			clock += lunchBreak
		}
		total += dur
	}

	return DailyPlan{
		TimeBlocks:       blocks,
		TotalFocusHours:  math.Round(total*10) / 10,
		ProductivityTips: ProductivityTips(),
	}
}

// clockLabel converts fractional hours to HH:MM, flooring the minutes.
func clockLabel(h float64) string {
	hour := int(h)
	minute := int(math.Mod(h, 1) * 60)
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
