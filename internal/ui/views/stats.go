package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/daybook/internal/models"
	"github.com/tgienger/daybook/internal/store"
	"github.com/tgienger/daybook/internal/ui/keys"
	"github.com/tgienger/daybook/internal/ui/styles"
)

// StatsView is a read-only dashboard of the task statistics
type StatsView struct {
	store  *store.Store
	snap   store.Snapshot
	stats  models.Statistics
	styles *styles.Styles
	keys   keys.KeyMap
	now    func() time.Time

	width  int
	height int
}

func NewStatsView(st *store.Store) *StatsView {
	return &StatsView{
		store:  st,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
		now:    time.Now,
	}
}

func (v *StatsView) Init() tea.Cmd {
	return nil
}

// SetSnapshot recomputes the statistics for snap
func (v *StatsView) SetSnapshot(snap store.Snapshot) {
	v.snap = snap
	v.styles = styles.NewStyles()
	v.stats = v.store.GetStatistics()
}

func (v *StatsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return BackToProjects{} }
		}
	}
	return v, nil
}

func (v *StatsView) View() string {
	s := v.styles
	st := v.stats

	panel := func(label, value string) string {
		return s.FilterBar.Width(16).Render(
			lipgloss.JoinVertical(lipgloss.Left, s.TitleMuted.Render(label), s.Title.Render(value)),
		)
	}

	row1 := lipgloss.JoinHorizontal(lipgloss.Top,
		panel("Total", fmt.Sprint(st.TotalTasks)),
		panel("Completed", fmt.Sprint(st.CompletedTasks)),
		panel("In progress", fmt.Sprint(st.InProgressTasks)),
		panel("Overdue", fmt.Sprint(st.OverdueTasks)),
	)
	row2 := lipgloss.JoinHorizontal(lipgloss.Top,
		panel("This week", fmt.Sprint(st.TasksThisWeek)),
		panel("This month", fmt.Sprint(st.TasksThisMonth)),
		panel("Streak", fmt.Sprintf("%d days", st.Streak)),
		panel("Time", fmt.Sprintf("%.2fh", st.TotalTime)),
	)

	summary := []string{
		fmt.Sprintf("Completion rate      %.1f%%", st.CompletionRate),
		fmt.Sprintf("Avg completion time  %.1fh", st.AverageCompletionTime),
		fmt.Sprintf("Productivity score   %d", st.ProductivityScore),
	}

	var lanes []string
	for _, col := range v.snap.KanbanColumns() {
		lanes = append(lanes, fmt.Sprintf("%s %d", col.Status, len(col.Tasks)))
	}

	due := v.snap.TasksDueOn(v.now())
	dueLines := []string{s.TitleMuted.Render("Nothing due today")}
	if len(due) > 0 {
		dueLines = dueLines[:0]
		for _, t := range due {
			dueLines = append(dueLines, statusMark(t.Status)+" "+t.Title)
		}
	}

	k := s.HelpKey.Render
	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Statistics"),
		"",
		row1,
		row2,
		"",
		strings.Join(summary, "\n"),
		"",
		s.TitleMuted.Render("Board"),
		strings.Join(lanes, " • "),
		"",
		s.TitleMuted.Render("Due today"),
		strings.Join(dueLines, "\n"),
		"",
		s.Help.Render(fmt.Sprintf("%s back • %s quit", k("esc"), k("q"))),
	)

	return styles.CenterView(lipgloss.NewStyle().Padding(1, 2).Render(content), v.width, v.height)
}
