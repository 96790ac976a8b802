package planning

import "strings"

// Suggestion is a priority and estimate proposal for free text.
type Suggestion struct {
	Priority       ItemPriority `json:"priority"`
	EstimatedHours float64      `json:"estimatedHours"`
	Tip            string       `json:"tip"`
	Confidence     float64      `json:"confidence"`
}

// SuggestionRule matches when any keyword occurs in the lowered text.
type SuggestionRule struct {
	Keywords   []string
	Priority   ItemPriority
	Hours      float64
	Tip        string
	Confidence float64
}

// Matches reports whether any keyword is a substring of text.
func (r SuggestionRule) Matches(text string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func (r SuggestionRule) suggestion() Suggestion {
	return Suggestion{
		Priority:       r.Priority,
		EstimatedHours: r.Hours,
		Tip:            r.Tip,
		Confidence:     r.Confidence,
	}
}

// suggestionRules are evaluated in order; the first match wins.
var suggestionRules = []SuggestionRule{
	{
		Keywords:   []string{"finance", "budget", "invoice", "payroll", "audit"},
		Priority:   PriorityCritical,
		Hours:      4.0,
		Tip:        "Gather all data sources before starting. Book 2h uninterrupted blocks.",
		Confidence: 0.92,
	},
	{
		Keywords:   []string{"security", "vulnerability", "breach", "incident"},
		Priority:   PriorityCritical,
		Hours:      3.0,
		Tip:        "Escalate immediately. Loop in stakeholders before diving into solutions.",
		Confidence: 0.95,
	},
	{
		Keywords:   []string{"engineer", "architecture", "code", "system", "deploy", "infra"},
		Priority:   PriorityHigh,
		Hours:      3.0,
		Tip:        "Break into vertical slices. Time-box at 90-min intervals.",
		Confidence: 0.88,
	},
	{
		Keywords:   []string{"deadline", "urgent", "asap", "critical", "launch"},
		Priority:   PriorityHigh,
		Hours:      2.5,
		Tip:        "Clarify scope before starting. Identify blockers in the first 15 minutes.",
		Confidence: 0.90,
	},
	{
		Keywords:   []string{"market", "campaign", "content", "brand", "seo"},
		Priority:   PriorityMedium,
		Hours:      2.5,
		Tip:        "Review competitor analysis first. Batch similar tasks for flow state.",
		Confidence: 0.85,
	},
	{
		Keywords:   []string{"meeting", "sync", "review", "interview", "1:1"},
		Priority:   PriorityMedium,
		Hours:      1.5,
		Tip:        "Prepare a clear agenda. Time-box strictly with a timer.",
		Confidence: 0.80,
	},
	{
		Keywords:   []string{"document", "readme", "wiki", "report", "analysis"},
		Priority:   PriorityMedium,
		Hours:      2.0,
		Tip:        "Start with an outline before writing. Use headers to structure thinking.",
		Confidence: 0.82,
	},
	{
		Keywords:   []string{"research", "explore", "investigate", "spike"},
		Priority:   PriorityLow,
		Hours:      3.0,
		Tip:        "Time-box research to avoid rabbit holes. Set a clear output goal.",
		Confidence: 0.78,
	},
}

var defaultSuggestion = Suggestion{
	Priority:       PriorityMedium,
	EstimatedHours: 2.0,
	Tip:            "Define a clear 'done' criteria before starting. Schedule a checkpoint at the halfway mark.",
	Confidence:     0.70,
}

// SuggestionRules returns a copy of the ordered rule table.
func SuggestionRules() []SuggestionRule {
	return append([]SuggestionRule(nil), suggestionRules...)
}

// ClassifySuggestion proposes a priority and estimate from a title and
// optional description.
func ClassifySuggestion(title, description string) Suggestion {
	text := strings.ToLower(title + " " + description)
	for _, rule := range suggestionRules {
		if rule.Matches(text) {
			return rule.suggestion()
		}
	}
	return defaultSuggestion
}
