package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/daybrief/pkg/application"
	"github.com/felixgeelhaar/daybrief/pkg/domain/planning"
)

var titleStyle = lipgloss.NewStyle().Bold(true)

var insightStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#7D56F4")).
	Italic(true)

var mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

var priorityStyles = map[planning.ItemPriority]lipgloss.Style{
	planning.PriorityCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	planning.PriorityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	planning.PriorityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	planning.PriorityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
}

func staticTable(columns []table.Column, rows []table.Row) string {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)
	return t.View()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderRanking(w io.Writer, report *application.PriorityReport) {
	_, _ = fmt.Fprintln(w, titleStyle.Render("Top priorities"))
	if len(report.Recommendations) == 0 {
		_, _ = fmt.Fprintln(w, mutedStyle.Render("Nothing active to rank."))
	} else {
		columns := []table.Column{
			{Title: "#", Width: 3},
			{Title: "Task", Width: 32},
			{Title: "Suggested time", Width: 20},
			{Title: "Reason", Width: 60},
		}
		rows := make([]table.Row, 0, len(report.Recommendations))
		for _, rec := range report.Recommendations {
			rows = append(rows, table.Row{
				strconv.Itoa(rec.Rank),
				rec.ItemTitle,
				rec.SuggestedTime,
				rec.Reason,
			})
		}
		_, _ = fmt.Fprintln(w, staticTable(columns, rows))
	}
	_, _ = fmt.Fprintln(w, insightStyle.Render(report.Insight))
}

func renderDailyPlan(w io.Writer, report *application.DailyPlanReport) {
	_, _ = fmt.Fprintln(w, titleStyle.Render("Today's plan"))
	if len(report.TimeBlocks) == 0 {
		_, _ = fmt.Fprintln(w, mutedStyle.Render("No active items to schedule."))
	} else {
		columns := []table.Column{
			{Title: "Time", Width: 15},
			{Title: "Task", Width: 32},
			{Title: "Block", Width: 24},
			{Title: "Tip", Width: 50},
		}
		rows := make([]table.Row, 0, len(report.TimeBlocks))
		for _, b := range report.TimeBlocks {
			rows = append(rows, table.Row{
				b.StartTime + " - " + b.EndTime,
				b.ItemTitle,
				b.Emoji + " " + b.Label,
				b.Tip,
			})
		}
		_, _ = fmt.Fprintln(w, staticTable(columns, rows))
	}
	_, _ = fmt.Fprintf(w, "Focus hours: %s\n", strconv.FormatFloat(report.TotalFocusHours, 'f', -1, 64))
	for _, tip := range report.ProductivityTips {
		_, _ = fmt.Fprintln(w, mutedStyle.Render("  - "+tip))
	}
}

func renderSuggestion(w io.Writer, s planning.Suggestion) {
	style, ok := priorityStyles[s.Priority]
	if !ok {
		style = lipgloss.NewStyle()
	}
	_, _ = fmt.Fprintf(w, "Priority:   %s\n", style.Render(s.Priority.DisplayName()))
	_, _ = fmt.Fprintf(w, "Estimate:   %sh\n", strconv.FormatFloat(s.EstimatedHours, 'f', -1, 64))
	_, _ = fmt.Fprintf(w, "Confidence: %.0f%%\n", s.Confidence*100)
	_, _ = fmt.Fprintf(w, "Tip:        %s\n", s.Tip)
}
