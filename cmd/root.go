// Package cmd implements the CLI command structure for tasks.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasks-go/internal/config"
	"github.com/nibzard/tasks-go/internal/exitcode"
	"github.com/nibzard/tasks-go/internal/logging"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app carries what every subcommand needs.
type app struct {
	cfg     *config.Config
	sources *config.ConfigWithSources
	stdout  io.Writer
	stderr  io.Writer
	logger  *log.Logger
}

// Run executes the tasks CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		var flagErr *config.FlagError
		if errors.As(err, &flagErr) {
			return exitcode.Wrap(exitcode.UserError, err)
		}
		return exitcode.Config(fmt.Errorf("loading config: %w", err))
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}

	a := &app{
		cfg:     cws.Config,
		sources: cws,
		stdout:  stdout,
		stderr:  stderr,
		logger:  logging.New(stderr, cws.Config.LogOptions()),
	}
	if *showVersion {
		return a.versionCommand()
	}

	// Determine the subcommand
	// If no args or first arg is a flag, use "tui" as default
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	err = a.dispatch(ctx, fs, subcommand, remainingArgs)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

// dispatch executes a subcommand.
func (a *app) dispatch(ctx context.Context, fs *flag.FlagSet, subcommand string, remainingArgs []string) error {
	switch subcommand {
	case "tui":
		return a.tuiCommand(ctx, remainingArgs)
	case "add":
		return a.addCommand(ctx, remainingArgs)
	case "ls", "list":
		return a.lsCommand(ctx, remainingArgs)
	case "toggle", "done":
		return a.toggleCommand(ctx, remainingArgs)
	case "edit":
		return a.editCommand(ctx, remainingArgs)
	case "rm", "delete":
		return a.rmCommand(ctx, remainingArgs)
	case "stats":
		return a.statsCommand(ctx, remainingArgs)
	case "theme":
		return a.themeCommand(ctx, remainingArgs)
	case "config":
		return a.configCommand(remainingArgs)
	case "log":
		return a.logCommand(ctx, remainingArgs)
	case "version":
		return a.versionCommand()
	case "help":
		printUsage(fs, a.stdout)
		return nil
	default:
		fmt.Fprintf(a.stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, a.stderr)
		return exitcode.User("unknown command: %s", subcommand)
	}
}

// parseCommandFlags parses args for a subcommand. Flag errors are user
// errors. -h prints the subcommand defaults and returns flag.ErrHelp,
// which run treats as success.
func (a *app) parseCommandFlags(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return exitcode.Wrap(exitcode.UserError, err)
	}
	return nil
}

// versionCommand prints version information.
func (a *app) versionCommand() error {
	fmt.Fprintf(a.stdout, "tasks version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Tasks - A task dashboard for the terminal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasks [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                 Launch the terminal UI (default command)")
	fmt.Fprintln(w, "  add <title...>      Add a task")
	fmt.Fprintln(w, "  ls [filter]         List tasks (all|active|completed)")
	fmt.Fprintln(w, "  toggle <id>         Mark a task completed or active again")
	fmt.Fprintln(w, "  edit <id> <title>   Rename a task")
	fmt.Fprintln(w, "  rm <id>             Delete a task")
	fmt.Fprintln(w, "  stats               Show task statistics")
	fmt.Fprintln(w, "  theme [mode]        Show or change the theme (toggle|light|dark)")
	fmt.Fprintln(w, "  config              Print the effective configuration")
	fmt.Fprintln(w, "  log                 Print the TUI log")
	fmt.Fprintln(w, "  version             Show version information")
	fmt.Fprintln(w, "  help                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Task ids may be shortened to any unique prefix.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tui Options (use with 'tui' command):")
	fmt.Fprintln(w, "  -stats")
	fmt.Fprintln(w, "        Show the statistics panel on start")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options (use with 'ls' command):")
	fmt.Fprintln(w, "  -filter string")
	fmt.Fprintln(w, "        Filter by status (all|active|completed)")
	fmt.Fprintln(w, "  -search string")
	fmt.Fprintln(w, "        Only show tasks whose title contains the text")
	fmt.Fprintln(w, "  -json")
	fmt.Fprintln(w, "        Print the tasks as JSON")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Stats Options (use with 'stats' command):")
	fmt.Fprintln(w, "  -json")
	fmt.Fprintln(w, "        Print the statistics as JSON")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options (use with 'config' command):")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print an example config file")
	fmt.Fprintln(w, "  -sources")
	fmt.Fprintln(w, "        Show where each value came from")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Log Options (use with 'log' command):")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
}
