package planning

import "testing"

func TestClassifySuggestion(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		priority    ItemPriority
		hours       float64
		confidence  float64
	}{
		{"finance", "Q3 Budget review", "", PriorityCritical, 4.0, 0.92},
		{"finance before security", "Security budget", "", PriorityCritical, 4.0, 0.92},
		{"security", "Patch vulnerability", "", PriorityCritical, 3.0, 0.95},
		{"engineering", "Deploy new service", "", PriorityHigh, 3.0, 0.88},
		{"engineering before review", "Code review", "", PriorityHigh, 3.0, 0.88},
		{"urgent", "ASAP customer ask", "", PriorityHigh, 2.5, 0.90},
		{"marketing", "SEO plan", "", PriorityMedium, 2.5, 0.85},
		{"meeting", "Weekly sync", "", PriorityMedium, 1.5, 0.80},
		{"one on one", "1:1 with Sam", "", PriorityMedium, 1.5, 0.80},
		{"docs", "Update README", "", PriorityMedium, 2.0, 0.82},
		{"research", "Spike on caching", "", PriorityLow, 3.0, 0.78},
		{"description matches", "Follow up", "Investigate the flaky test", PriorityLow, 3.0, 0.78},
		{"no match", "Water plants", "", PriorityMedium, 2.0, 0.70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifySuggestion(tt.title, tt.description)
			if got.Priority != tt.priority || got.EstimatedHours != tt.hours || got.Confidence != tt.confidence {
				t.Errorf("ClassifySuggestion(%q, %q) = %+v", tt.title, tt.description, got)
			}
			if got.Tip == "" {
				t.Error("expected a tip")
			}
		})
	}
}

func TestClassifySuggestion_SubstringContainment(t *testing.T) {
	// keywords match as substrings: "ecosystem" hits "system"
	got := ClassifySuggestion("Ecosystem overview", "")
	if got.Priority != PriorityHigh {
		t.Errorf("expected substring match on 'system', got %+v", got)
	}
}

func TestSuggestionRules_Order(t *testing.T) {
	rules := SuggestionRules()
	if len(rules) != 8 {
		t.Fatalf("expected 8 rules, got %d", len(rules))
	}
	if rules[0].Keywords[0] != "finance" || rules[7].Keywords[0] != "research" {
		t.Error("rule table order changed")
	}
	for _, r := range rules {
		if r.Confidence < 0 || r.Confidence > 1 {
			t.Errorf("confidence out of range: %v", r.Confidence)
		}
	}
}
