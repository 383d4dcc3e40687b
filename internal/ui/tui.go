// Package ui implements the interactive terminal view of the task list.
package ui

import (
	"context"
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/nibzard/tasks-go/internal/store"
	"github.com/nibzard/tasks-go/internal/theme"
)

// ErrNoTTY is returned by RunTUI when stdout is not a terminal.
var ErrNoTTY = errors.New("tui requires a TTY")

// RunTUI runs the task list view until the user quits or ctx is done.
func RunTUI(ctx context.Context, s *store.Store, themes *theme.Manager, opts ...Option) error {
	if !IsTTY(os.Stdout) {
		return ErrNoTTY
	}

	model := newTUIModel(ctx, s, themes, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
