package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/store"
	"github.com/nibzard/tasks-go/internal/theme"
	"github.com/nibzard/tasks-go/internal/todo"
)

const (
	searchPlaceholder = "Search tasks..."
	addPlaceholder    = "Add a new task"
	titleCharLimit    = 256
)

// focus names the element receiving key presses.
type focus int

const (
	focusList focus = iota
	focusSearch
	focusAdd
	focusEdit
)

// Option configures the TUI.
type Option func(*tuiModel)

// WithKeyMap replaces DefaultKeyMap.
func WithKeyMap(k KeyMap) Option {
	return func(m *tuiModel) {
		m.keys = k
	}
}

// WithLogger sets the logger for UI events.
func WithLogger(l *log.Logger) Option {
	return func(m *tuiModel) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithStats shows the statistics panel on start.
func WithStats(show bool) Option {
	return func(m *tuiModel) {
		m.showStats = show
	}
}

type tuiModel struct {
	ctx    context.Context
	store  *store.Store
	themes *theme.Manager
	keys   KeyMap
	logger *log.Logger
	styles styles

	search textinput.Model
	add    textinput.Model
	edit   textinput.Model
	help   help.Model

	focus     focus
	filter    todo.Filter
	cursor    int
	editingID string
	showStats bool
	showHelp  bool
	width     int

	// notice is a transient message shown under the list, such as a
	// theme that could not be saved.
	notice string
}

func newTUIModel(ctx context.Context, s *store.Store, themes *theme.Manager, opts ...Option) *tuiModel {
	m := &tuiModel{
		ctx:    ctx,
		store:  s,
		themes: themes,
		keys:   DefaultKeyMap,
		logger: logging.Discard(),
		filter: todo.FilterAll,
		help:   help.New(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.search = newInput(searchPlaceholder)
	m.add = newInput(addPlaceholder)
	m.edit = newInput("")
	m.styles = newStyles(m.themes.Current().Palette())
	return m
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = titleCharLimit
	ti.Width = 40
	ti.Prompt = "› "
	return ti
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		inputWidth := max(msg.Width-10, 10)
		m.search.Width = inputWidth
		m.add.Width = inputWidth
		m.edit.Width = inputWidth
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.ForceQuit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.ToggleTheme):
			m.toggleTheme()
			return m, nil
		}

		switch m.focus {
		case focusSearch:
			return m.updateSearch(msg)
		case focusAdd:
			return m.updateAdd(msg)
		case focusEdit:
			return m.updateEdit(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m *tuiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		m.cursor = clampCursor(m.cursor+1, len(m.visible()))
	case key.Matches(msg, m.keys.Search):
		return m, m.focusInput(focusSearch)
	case key.Matches(msg, m.keys.Add):
		return m, m.focusInput(focusAdd)
	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.selected(); ok {
			m.store.ToggleTask(t.ID)
			m.cursor = clampCursor(m.cursor, len(m.visible()))
		}
	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.selected(); ok {
			m.editingID = t.ID
			m.edit.SetValue(t.Title)
			m.edit.CursorEnd()
			return m, m.focusInput(focusEdit)
		}
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok {
			m.store.DeleteTask(t.ID)
			m.cursor = clampCursor(m.cursor, len(m.visible()))
		}
	case key.Matches(msg, m.keys.FilterAll):
		m.setFilter(todo.FilterAll)
	case key.Matches(msg, m.keys.FilterActive):
		m.setFilter(todo.FilterActive)
	case key.Matches(msg, m.keys.FilterCompleted):
		m.setFilter(todo.FilterCompleted)
	case key.Matches(msg, m.keys.FilterNext):
		m.setFilter(m.filter.Next())
	case key.Matches(msg, m.keys.ToggleStats):
		m.showStats = !m.showStats
	}
	return m, nil
}

func (m *tuiModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.search.SetValue("")
		m.blurInputs()
	case key.Matches(msg, m.keys.Submit):
		m.blurInputs()
	default:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.cursor = clampCursor(m.cursor, len(m.visible()))
		return m, cmd
	}
	m.cursor = clampCursor(m.cursor, len(m.visible()))
	return m, nil
}

func (m *tuiModel) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.add.SetValue("")
		m.blurInputs()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		if _, ok := todo.NormalizeTitle(m.add.Value()); !ok {
			return m, nil
		}
		m.store.AddTask(m.add.Value())
		m.add.SetValue("")
		return m, nil
	}
	var cmd tea.Cmd
	m.add, cmd = m.add.Update(msg)
	return m, cmd
}

func (m *tuiModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.stopEditing()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		if _, ok := todo.NormalizeTitle(m.edit.Value()); !ok {
			return m, nil
		}
		m.store.UpdateTask(m.editingID, m.edit.Value())
		m.stopEditing()
		return m, nil
	}
	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	return m, cmd
}

func (m *tuiModel) focusInput(f focus) tea.Cmd {
	m.blurInputs()
	m.focus = f
	switch f {
	case focusSearch:
		return m.search.Focus()
	case focusAdd:
		return m.add.Focus()
	case focusEdit:
		return m.edit.Focus()
	}
	return nil
}

func (m *tuiModel) blurInputs() {
	m.search.Blur()
	m.add.Blur()
	m.edit.Blur()
	m.focus = focusList
}

func (m *tuiModel) stopEditing() {
	m.editingID = ""
	m.edit.SetValue("")
	m.blurInputs()
}

func (m *tuiModel) setFilter(f todo.Filter) {
	m.filter = f
	m.cursor = clampCursor(m.cursor, len(m.visible()))
}

func (m *tuiModel) toggleTheme() {
	next, err := m.themes.Toggle(m.ctx)
	m.styles = newStyles(next.Palette())
	if err != nil {
		m.logger.Error("save theme", "theme", next, "err", err)
		m.notice = "Theme changed but could not be saved"
		return
	}
	m.logger.Debug("theme toggled", "theme", next)
}

// visible returns the tasks passing the current filter and search.
func (m *tuiModel) visible() []todo.Task {
	return todo.Apply(m.store.State().Tasks, m.filter, m.search.Value())
}

func (m *tuiModel) selected() (todo.Task, bool) {
	tasks := m.visible()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return todo.Task{}, false
	}
	return tasks[m.cursor], true
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
