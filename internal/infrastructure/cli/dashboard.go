package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/daybrief/pkg/domain/planning"
	"github.com/spf13/cobra"
)

var dashboardFile string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive view of work items ordered by urgency",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		items, err := loadItems(services, dashboardFile)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return MapError(planning.ErrEmptyItems)
		}

		p := tea.NewProgram(newDashboardModel(items, services.Clock.Now()),
			tea.WithInput(cmd.InOrStdin()),
			tea.WithOutput(cmd.OutOrStdout()),
			tea.WithContext(cmd.Context()),
		)
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("dashboard run failed: %w", err)
		}
		return nil
	},
}

func init() {
	dashboardCmd.Flags().StringVarP(&dashboardFile, "file", "f", "", "YAML or JSON file of work items")
	RootCmd.AddCommand(dashboardCmd)
}

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	PaddingLeft(1).
	PaddingRight(1)

var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

type dashboardModel struct {
	table table.Model
	items []planning.WorkItem
	now   time.Time
}

// newDashboardModel lists active items by descending urgency, completed
// items last.
func newDashboardModel(items []planning.WorkItem, now time.Time) dashboardModel {
	ordered := planning.SortByUrgency(items, now)
	for _, it := range items {
		if !it.IsActive() {
			ordered = append(ordered, it)
		}
	}

	columns := []table.Column{
		{Title: "Score", Width: 6},
		{Title: "Priority", Width: 9},
		{Title: "Status", Width: 12},
		{Title: "Task", Width: 36},
		{Title: "Due", Width: 16},
	}
	rows := make([]table.Row, 0, len(ordered))
	for _, it := range ordered {
		rows = append(rows, table.Row{
			strconv.Itoa(planning.UrgencyScore(it, now)),
			it.Priority.DisplayName(),
			it.Status.DisplayName(),
			it.Title,
			planning.FormatDeadline(it, now),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows), 12)+1),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(s)

	return dashboardModel{table: t, items: ordered, now: now}
}

func (m dashboardModel) Init() tea.Cmd { return nil }

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m dashboardModel) View() string {
	header := headerStyle.Render(fmt.Sprintf("Daybrief  %s", m.now.Format("Mon Jan 2")))
	view := header + "\n" + baseStyle.Render(m.table.View()) + "\n"

	if sel, ok := m.selected(); ok {
		hint := planning.ClassifySuggestion(sel.Title, sel.Description)
		view += fmt.Sprintf("\n%s\nEstimate: %sh  Tip: %s\n",
			sel.Title, strconv.FormatFloat(sel.Hours(), 'f', -1, 64), hint.Tip)
	}
	return view + mutedStyle.Render("\n↑/↓ to move, q to quit") + "\n"
}

func (m dashboardModel) selected() (planning.WorkItem, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.items) {
		return planning.WorkItem{}, false
	}
	return m.items[i], true
}
