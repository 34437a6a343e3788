// Package cmd implements the CLI command structure for todolist.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todolist-go/internal/config"
	"github.com/nibzard/todolist-go/internal/logging"
	"github.com/nibzard/todolist-go/internal/storage"
	"github.com/nibzard/todolist-go/internal/todo"
)

// Version is set via ldflags at build time.
var Version = "dev"

// cli carries what every subcommand needs.
type cli struct {
	cfg     *config.Config
	sources *config.ConfigWithSources
	logger  *log.Logger
	stdout  io.Writer
	stderr  io.Writer
}

// Run executes the todolist CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todolist", flag.ContinueOnError)
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
		return fmt.Errorf("loading config: %w", err)
	}
	c := &cli{
		cfg:     cws.Config,
		sources: cws,
		stdout:  stdout,
		stderr:  stderr,
	}
	c.logger = logging.NewFromConfig(stderr, c.cfg.LogLevel, c.cfg.LogFormat, c.cfg.LogTimestamps, c.cfg.LogCaller)

	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return c.versionCommand()
	}

	// With no subcommand, list tasks
	subcommand := "ls"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "add":
		return c.addCommand(ctx, remainingArgs)
	case "ls", "list":
		return c.lsCommand(ctx, remainingArgs)
	case "done", "toggle":
		return c.doneCommand(ctx, remainingArgs)
	case "edit":
		return c.editCommand(ctx, remainingArgs)
	case "rm", "delete":
		return c.rmCommand(ctx, remainingArgs)
	case "mv", "move":
		return c.mvCommand(ctx, remainingArgs)
	case "tags":
		return c.tagsCommand(ctx, remainingArgs)
	case "tui":
		return c.tuiCommand(ctx, remainingArgs)
	case "doctor":
		return c.doctorCommand(ctx, remainingArgs)
	case "config":
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	case "version":
		return c.versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// openStore opens the configured slot and loads the task store from it.
// The caller closes the returned slot.
func (c *cli) openStore(ctx context.Context) (*todo.Store, storage.Slot, error) {
	slot, err := storage.Open(ctx, c.cfg.StorageOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s storage: %w", c.cfg.Backend, err)
	}
	newID, err := todo.IDGenerator(c.cfg.IDFormat)
	if err != nil {
		slot.Close()
		return nil, nil, err
	}
	store, err := todo.Open(ctx, slot,
		todo.WithKey(c.cfg.StorageKey),
		todo.WithIDFunc(newID),
		todo.WithLogger(c.logger),
	)
	if err != nil {
		slot.Close()
		c.logger.Error("loading tasks failed", "backend", c.cfg.Backend, "key", c.cfg.StorageKey, "err", err)
		return nil, nil, fmt.Errorf("loading tasks: %w", err)
	}
	return store, slot, nil
}

// versionCommand prints version information.
func (c *cli) versionCommand() error {
	fmt.Fprintf(c.stdout, "todolist version %s\n", Version)
	return nil
}

// parseInterspersed parses flags that may appear before, between, or after
// positional arguments and returns the positional ones in order.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Todolist - A small task list with tags, priorities and search")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todolist [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <title>      Add a task")
	fmt.Fprintln(w, "  ls               List tasks (default command)")
	fmt.Fprintln(w, "  done <id>        Toggle a task between pending and completed")
	fmt.Fprintln(w, "  edit <id>        Change fields of a task")
	fmt.Fprintln(w, "  rm <id>          Delete a task")
	fmt.Fprintln(w, "  mv <id> <pos>    Move a task to a position (0 is first)")
	fmt.Fprintln(w, "  tags             List tags in use")
	fmt.Fprintln(w, "  tui              Launch terminal UI")
	fmt.Fprintln(w, "  doctor           Check config and stored tasks")
	fmt.Fprintln(w, "  config           Print an example config file")
	fmt.Fprintln(w, "  version          Show version information")
	fmt.Fprintln(w, "  help             Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "IDs may be abbreviated to any unique prefix.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add Options:")
	fmt.Fprintln(w, "  -d, -desc string      Description")
	fmt.Fprintln(w, "  -t, -tags string      Comma-separated tags")
	fmt.Fprintln(w, "  -p, -priority string  low|medium|high (default medium)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options:")
	fmt.Fprintln(w, "  -status string  Filter by status (pending|completed)")
	fmt.Fprintln(w, "  -tag string     Filter by tag")
	fmt.Fprintln(w, "  -search string  Search title and description (overrides status and tag)")
	fmt.Fprintln(w, "  -json           Print the stored JSON form")
	fmt.Fprintln(w, "  -l              Show descriptions and timestamps")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Edit Options:")
	fmt.Fprintln(w, "  -title, -desc, -tags, -priority, -status")
	fmt.Fprintln(w, "        Only the options given are changed")
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
