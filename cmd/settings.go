package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/nibzard/tasks-go/internal/config"
	"github.com/nibzard/tasks-go/internal/exitcode"
	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/theme"
)

// themeCommand prints the saved theme, or changes it when given
// toggle, light or dark.
func (a *app) themeCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasks theme", flag.ContinueOnError)
	if err := a.parseCommandFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return exitcode.User("usage: tasks theme [toggle|light|dark]")
	}

	kv, err := a.openKV()
	if err != nil {
		return err
	}
	defer kv.Close()

	themes, err := theme.NewManager(ctx, kv, a.cfg.FallbackTheme())
	if err != nil {
		a.logger.Warn("using fallback theme", "theme", themes.Current(), "err", err)
	}

	switch arg := fs.Arg(0); arg {
	case "":
	case "toggle":
		if _, err := themes.Toggle(ctx); err != nil {
			return exitcode.Storage(err)
		}
	default:
		t, err := theme.Parse(arg)
		if err != nil {
			return exitcode.Wrap(exitcode.UserError, err)
		}
		if err := themes.Set(ctx, t); err != nil {
			return exitcode.Storage(err)
		}
	}
	fmt.Fprintln(a.stdout, themes.Current())
	return nil
}

// configCommand prints the effective configuration as TOML.
func (a *app) configCommand(args []string) error {
	fs := flag.NewFlagSet("tasks config", flag.ContinueOnError)
	example := fs.Bool("example", false, "Print an example config file")
	showSources := fs.Bool("sources", false, "Show where each value came from")
	if err := a.parseCommandFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return exitcode.User("unexpected arguments: %v", fs.Args())
	}

	if *example {
		fmt.Fprint(a.stdout, config.ExampleConfig())
		return nil
	}
	if *showSources {
		a.printSources()
		return nil
	}
	return config.Encode(a.stdout, a.cfg)
}

func (a *app) printSources() {
	if len(a.sources.Files) == 0 {
		fmt.Fprintln(a.stdout, "# no config files found")
	}
	for _, f := range a.sources.Files {
		fmt.Fprintf(a.stdout, "# read %s\n", f)
	}
	fields := make([]string, 0, len(a.sources.Sources))
	for field := range a.sources.Sources {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Fprintf(a.stdout, "%-16s %s\n", field, a.sources.Sources[field])
	}
}

// logCommand prints the TUI log file.
func (a *app) logCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasks log", flag.ContinueOnError)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := a.parseCommandFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return exitcode.User("unexpected arguments: %v", fs.Args())
	}

	path := a.cfg.LogPath()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(a.stdout, "No log file at %s\n", path)
		return nil
	}
	return logging.Tail(ctx, a.stdout, path, *n, *follow)
}
