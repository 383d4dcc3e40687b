package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/tasks-go/internal/todo"
)

const (
	headerTitle    = "Task Dashboard"
	emptyStore     = "No tasks yet! Add some above."
	emptyFiltered  = "No tasks match your current filters."
	loadingMessage = "Loading tasks..."
	dateLayout     = "Jan 2 15:04"
)

func (m *tuiModel) View() string {
	state := m.store.State()
	now := m.store.Now()

	var b strings.Builder
	m.writeHeader(&b)
	if state.Error != "" {
		b.WriteString(m.styles.errBanner.Render(state.Error) + "\n\n")
	}

	if m.showHelp {
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()) + "\n")
		return b.String()
	}

	m.writeSearch(&b)
	m.writeTabs(&b)
	m.writeAdd(&b)

	if state.Loading {
		b.WriteString(m.styles.faint.Render(loadingMessage) + "\n\n")
	} else {
		m.writeList(&b, state, now)
	}
	writeRemaining(&b, state)

	if m.showStats {
		m.writeStats(&b, todo.ComputeStats(state.Tasks, now))
	}
	if m.notice != "" {
		b.WriteString(m.styles.faint.Render(m.notice) + "\n")
	}
	m.writeFooter(&b)
	return b.String()
}

func (m *tuiModel) writeHeader(b *strings.Builder) {
	current := m.themes.Current()
	icon := "☀"
	if current.IsDark() {
		icon = "☾"
	}
	badge := m.styles.themeBadge.Render(fmt.Sprintf("%s %s", icon, current))
	b.WriteString(m.styles.title.Render(headerTitle) + "  " + badge + "\n")
	b.WriteString(m.styles.faint.Render(strings.Repeat("=", len(headerTitle))) + "\n\n")
}

func (m *tuiModel) writeSearch(b *strings.Builder) {
	b.WriteString(m.search.View() + "\n")
}

func (m *tuiModel) writeTabs(b *strings.Builder) {
	tabs := make([]string, 0, len(todo.Filters()))
	for _, f := range todo.Filters() {
		style := m.styles.tab
		if f == m.filter {
			style = m.styles.activeTab
		}
		tabs = append(tabs, style.Render(f.Label()))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n\n")
}

func (m *tuiModel) writeAdd(b *strings.Builder) {
	b.WriteString(m.add.View() + "\n\n")
}

func (m *tuiModel) writeList(b *strings.Builder, state todo.State, now time.Time) {
	tasks := todo.Apply(state.Tasks, m.filter, m.search.Value())
	if len(tasks) == 0 {
		msg := emptyFiltered
		if len(state.Tasks) == 0 {
			msg = emptyStore
		}
		b.WriteString("  " + m.styles.faint.Render(msg) + "\n\n")
		return
	}
	for i, t := range tasks {
		b.WriteString(m.formatRow(t, i == m.cursor && m.focus != focusSearch && m.focus != focusAdd, now))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func (m *tuiModel) formatRow(t todo.Task, selected bool, now time.Time) string {
	marker := "  "
	if selected {
		marker = "> "
	}
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}

	var title string
	switch {
	case m.focus == focusEdit && t.ID == m.editingID:
		title = m.edit.View()
	case t.Completed:
		title = m.styles.done.Render(t.Title)
	default:
		title = m.styles.row.Render(t.Title)
	}
	date := m.styles.date.Render(t.Created().In(now.Location()).Format(dateLayout))

	line := fmt.Sprintf("%s%s %s  %s", marker, check, title, date)
	if selected && m.focus == focusList {
		return m.styles.selected.Render(line)
	}
	return line
}

func writeRemaining(b *strings.Builder, state todo.State) {
	fmt.Fprintf(b, "%d tasks left to complete\n\n", state.Remaining())
}

func (m *tuiModel) writeStats(b *strings.Builder, s todo.Stats) {
	rows := []struct {
		label string
		value string
		style string
	}{
		{"Total Tasks", fmt.Sprint(s.Total), "total"},
		{"Completed", fmt.Sprint(s.Completed), "completed"},
		{"Active", fmt.Sprint(s.Active), "active"},
		{"Completion Rate", fmt.Sprintf("%d%%", s.CompletionRate), "rate"},
		{"Created Today", fmt.Sprint(s.CreatedToday), "other"},
		{"New (< 24h)", fmt.Sprint(s.New), "other"},
		{"Old (> 7d)", fmt.Sprint(s.Old), "other"},
	}

	var lines []string
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%-16s %s", r.label, m.styles.statValue[r.style].Render(r.value)))
	}
	b.WriteString(m.styles.title.Render("Task Statistics") + "\n")
	b.WriteString(m.styles.panel.Render(strings.Join(lines, "\n")) + "\n\n")
}

func (m *tuiModel) writeFooter(b *strings.Builder) {
	bindings := m.keys.ShortHelp()
	if m.focus != focusList {
		bindings = m.keys.inputHelp()
	}
	b.WriteString(m.styles.help.Render(m.help.ShortHelpView(bindings)) + "\n")
}
