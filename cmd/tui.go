package cmd

import (
	"context"
	"errors"
	"flag"

	"github.com/nibzard/tasks-go/internal/exitcode"
	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/store"
	"github.com/nibzard/tasks-go/internal/theme"
	"github.com/nibzard/tasks-go/internal/ui"
)

// tuiCommand launches the terminal UI. Logs go to the log file since
// the alt screen owns the terminal.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasks tui", flag.ContinueOnError)
	showStats := fs.Bool("stats", false, "Show the statistics panel on start")
	if err := a.parseCommandFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return exitcode.User("unexpected arguments: %v", fs.Args())
	}
	if !ui.IsTTY(a.stdout) {
		return exitcode.Wrap(exitcode.UserError, ui.ErrNoTTY)
	}

	logger := logging.Discard()
	fileLogger, err := logging.OpenFile(a.cfg.LogPath(), a.cfg.LogOptions())
	if err != nil {
		a.logger.Warn("TUI log disabled", "err", err)
	} else {
		defer fileLogger.Close()
		logger = fileLogger.Logger
	}

	kv, err := a.openKV()
	if err != nil {
		return err
	}
	defer kv.Close()

	s := store.Open(ctx, kv, store.WithKey(a.cfg.StorageKey), store.WithLogger(logger))
	themes, err := theme.NewManager(ctx, kv, a.cfg.FallbackTheme())
	if err != nil {
		logger.Warn("using fallback theme", "theme", themes.Current(), "err", err)
	}
	logger.Info("starting TUI", "storage", a.cfg.Storage, "key", s.Key(), "theme", themes.Current())

	err = ui.RunTUI(ctx, s, themes, ui.WithLogger(logger), ui.WithStats(*showStats))
	switch {
	case errors.Is(err, ui.ErrNoTTY):
		return exitcode.Wrap(exitcode.UserError, err)
	case err != nil:
		return err
	}
	if msg := s.State().Error; msg == store.SaveErrorMessage {
		return exitcode.Storage(errors.New(msg))
	}
	return nil
}
