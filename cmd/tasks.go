package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/tasks-go/internal/exitcode"
	"github.com/nibzard/tasks-go/internal/storage"
	"github.com/nibzard/tasks-go/internal/store"
	"github.com/nibzard/tasks-go/internal/theme"
	"github.com/nibzard/tasks-go/internal/todo"
	"github.com/nibzard/tasks-go/internal/ui"
)

const dateLayout = "Jan 2 15:04"

// session is a task list opened for one command.
type session struct {
	kv    storage.KV
	store *store.Store
}

func (s *session) Close() error {
	return s.kv.Close()
}

// saved returns a storage error if the last write failed.
func (s *session) saved() error {
	if s.store.State().Error == store.SaveErrorMessage {
		return exitcode.Storage(errors.New(store.SaveErrorMessage))
	}
	return nil
}

// openKV opens the configured storage backend.
func (a *app) openKV() (storage.KV, error) {
	kv, err := storage.Open(a.cfg.StorageKind(), a.cfg.DataDir)
	if err != nil {
		return nil, exitcode.Storage(fmt.Errorf("opening storage: %w", err))
	}
	return kv, nil
}

// openTasks opens the task list. Unlike the TUI, which shows a banner,
// commands refuse to run on a list that could not be loaded so they
// never overwrite it.
func (a *app) openTasks(ctx context.Context) (*session, error) {
	kv, err := a.openKV()
	if err != nil {
		return nil, err
	}
	s := store.Open(ctx, kv, store.WithKey(a.cfg.StorageKey), store.WithLogger(a.logger))
	if msg := s.State().Error; msg != "" {
		kv.Close()
		return nil, exitcode.Storage(errors.New(msg))
	}
	return &session{kv: kv, store: s}, nil
}

// resolveID returns the task whose id is arg or starts with arg.
func resolveID(state todo.State, arg string) (todo.Task, error) {
	if arg == "" {
		return todo.Task{}, exitcode.User("task id is required")
	}
	if t, ok := state.Find(arg); ok {
		return t, nil
	}
	var matches []todo.Task
	for _, t := range state.Tasks {
		if strings.HasPrefix(t.ID, arg) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return todo.Task{}, exitcode.User("no task with id %q", arg)
	case 1:
		return matches[0], nil
	default:
		return todo.Task{}, exitcode.User("ambiguous task id %q matches %d tasks", arg, len(matches))
	}
}

// addCommand adds a task with the joined arguments as its title.
func (a *app) addCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasks add", flag.ContinueOnError)
	if err := a.parseCommandFlags(fs, args); err != nil {
		return err
	}
	title, ok := todo.NormalizeTitle(strings.Join(fs.Args(), " "))
	if !ok {
		return exitcode.User("task title is empty")
	}

	sess, err := a.openTasks(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	sess.store.AddTask(title)
	if err := sess.saved(); err != nil {
		return err
	}
	tasks := sess.store.State().Tasks
	added := tasks[len(tasks)-1]
	fmt.Fprintf(a.stdout, "Added %s  %s\n", added.ID, added.Title)
	return nil
}

// lsCommand lists tasks in stored order.
func (a *app) lsCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasks ls", flag.ContinueOnError)
	filterFlag := fs.String("filter", "", "Filter by status (all|active|completed)")
	search := fs.String("search", "", "Only show tasks whose title contains the text")
	asJSON := fs.Bool("json", false, "Print the tasks as JSON")
	if err := a.parseCommandFlags(fs, args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) >= 1 && *filterFlag == "" {
		*filterFlag = remaining[0]
		remaining = remaining[1:]
	}
	if len(remaining) > 0 {
		return exitcode.User("unexpected arguments: %v", remaining)
	}
	filter, err := todo.ParseFilter(*filterFlag)
	if err != nil {
		return exitcode.Wrap(exitcode.UserError, err)
	}

	sess, err := a.openTasks(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	state := sess.store.State()
	tasks := todo.Apply(state.Tasks, filter, *search)
	if *asJSON {
		data, err := storage.EncodeTasks(tasks)
		if err != nil {
			return err
		}
		_, err = a.stdout.Write(data)
		return err
	}

	if len(tasks) == 0 {
		if len(state.Tasks) == 0 {
			fmt.Fprintln(a.stdout, "No tasks yet! Add one with 'tasks add'.")
		} else {
			fmt.Fprintln(a.stdout, "No tasks match your current filters.")
		}
	}
	styles := a.listStyles(ctx, sess.kv)
	now := sess.store.Now()
	for _, t := range tasks {
		printTask(a.stdout, t, now.Location(), styles)
	}
	fmt.Fprintf(a.stdout, "\n%d tasks left to complete\n", state.Remaining())
	return nil
}

// taskStyles renders ls rows. The zero value prints plain text.
type taskStyles struct {
	id   lipgloss.Style
	done lipgloss.Style
	date lipgloss.Style
}

// listStyles returns colored styles for the saved theme when stdout is a
// terminal.
func (a *app) listStyles(ctx context.Context, kv storage.KV) taskStyles {
	plain := taskStyles{id: lipgloss.NewStyle(), done: lipgloss.NewStyle(), date: lipgloss.NewStyle()}
	if !ui.IsTTY(a.stdout) {
		return plain
	}
	themes, err := theme.NewManager(ctx, kv, a.cfg.FallbackTheme())
	if err != nil {
		a.logger.Warn("load theme", "err", err)
	}
	p := themes.Current().Palette()
	return taskStyles{
		id:   lipgloss.NewStyle().Foreground(p.FaintText),
		done: lipgloss.NewStyle().Foreground(p.DoneText).Strikethrough(true),
		date: lipgloss.NewStyle().Foreground(p.FaintText),
	}
}

// printTask prints a single task.
func printTask(w io.Writer, t todo.Task, loc *time.Location, styles taskStyles) {
	check := "[ ]"
	title := t.Title
	if t.Completed {
		check = "[x]"
		title = styles.done.Render(title)
	}
	date := t.Created().In(loc).Format(dateLayout)
	fmt.Fprintf(w, "%s %s  %s  %s\n", check, styles.id.Render(t.ID), title, styles.date.Render(date))
}

// toggleCommand flips the completed flag of one task.
func (a *app) toggleCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasks toggle", flag.ContinueOnError)
	if err := a.parseCommandFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return exitcode.User("usage: tasks toggle <id>")
	}

	sess, err := a.openTasks(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	t, err := resolveID(sess.store.State(), fs.Arg(0))
	if err != nil {
		return err
	}
	sess.store.ToggleTask(t.ID)
	if err := sess.saved(); err != nil {
		return err
	}
	if t.Completed {
		fmt.Fprintf(a.stdout, "Reopened %s  %s\n", t.ID, t.Title)
	} else {
		fmt.Fprintf(a.stdout, "Completed %s  %s\n", t.ID, t.Title)
	}
	return nil
}

// editCommand renames a task.
func (a *app) editCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasks edit", flag.ContinueOnError)
	if err := a.parseCommandFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return exitcode.User("usage: tasks edit <id> <title...>")
	}
	title, ok := todo.NormalizeTitle(strings.Join(fs.Args()[1:], " "))
	if !ok {
		return exitcode.User("task title is empty")
	}

	sess, err := a.openTasks(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	t, err := resolveID(sess.store.State(), fs.Arg(0))
	if err != nil {
		return err
	}
	sess.store.UpdateTask(t.ID, title)
	if err := sess.saved(); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Renamed %s  %s\n", t.ID, title)
	return nil
}

// rmCommand deletes a task.
func (a *app) rmCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasks rm", flag.ContinueOnError)
	if err := a.parseCommandFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return exitcode.User("usage: tasks rm <id>")
	}

	sess, err := a.openTasks(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	t, err := resolveID(sess.store.State(), fs.Arg(0))
	if err != nil {
		return err
	}
	sess.store.DeleteTask(t.ID)
	if err := sess.saved(); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Deleted %s  %s\n", t.ID, t.Title)
	return nil
}

// statsCommand prints the task statistics.
func (a *app) statsCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasks stats", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "Print the statistics as JSON")
	if err := a.parseCommandFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return exitcode.User("unexpected arguments: %v", fs.Args())
	}

	sess, err := a.openTasks(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	stats := todo.ComputeStats(sess.store.State().Tasks, sess.store.Now())
	if *asJSON {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	rows := []struct {
		label string
		value string
	}{
		{"Total Tasks", fmt.Sprint(stats.Total)},
		{"Completed", fmt.Sprint(stats.Completed)},
		{"Active", fmt.Sprint(stats.Active)},
		{"Completion Rate", fmt.Sprintf("%d%%", stats.CompletionRate)},
		{"Created Today", fmt.Sprint(stats.CreatedToday)},
		{"New (< 24h)", fmt.Sprint(stats.New)},
		{"Old (> 7d)", fmt.Sprint(stats.Old)},
	}
	for _, r := range rows {
		fmt.Fprintf(a.stdout, "%-16s %s\n", r.label, r.value)
	}
	return nil
}
