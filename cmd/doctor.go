package cmd

import (
	"context"
	"flag"
	"fmt"
	"sort"

	"github.com/nibzard/todolist-go/internal/config"
	"github.com/nibzard/todolist-go/internal/storage"
	"github.com/nibzard/todolist-go/internal/todo"
)

// doctorCommand reports where each config value came from and checks that
// the stored task list can be read and decoded.
func (c *cli) doctorCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todolist doctor", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	w := c.stdout
	fmt.Fprintln(w, "Todolist Doctor")
	fmt.Fprintln(w, "===============")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Config files:")
	if len(c.sources.Files) == 0 {
		fmt.Fprintln(w, "  (none, using defaults)")
	}
	for _, path := range c.sources.Files {
		fmt.Fprintf(w, "  %s\n", path)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Config:")
	for _, row := range c.configRows() {
		if !*verbose && row.source == config.SourceDefault {
			continue
		}
		fmt.Fprintf(w, "  %-15s %-30s (%s)\n", row.name, row.value, row.source)
	}
	if !*verbose {
		fmt.Fprintln(w, "  (defaults hidden, use -v to show)")
	}
	fmt.Fprintln(w)

	allOK := c.checkStorage(ctx)
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed.")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

type configRow struct {
	name   string
	value  string
	source config.ConfigSource
}

func (c *cli) configRows() []configRow {
	cfg := c.cfg
	dsn := ""
	if cfg.MySQLDSN != "" {
		dsn = "(set)"
	}
	values := map[string]string{
		"backend":        cfg.Backend,
		"data_dir":       cfg.DataDir,
		"storage_key":    cfg.StorageKey,
		"mysql_dsn":      dsn,
		"id_format":      cfg.IDFormat,
		"log_level":      cfg.LogLevel,
		"log_format":     cfg.LogFormat,
		"log_timestamps": fmt.Sprint(cfg.LogTimestamps),
		"log_caller":     fmt.Sprint(cfg.LogCaller),
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]configRow, 0, len(names))
	for _, name := range names {
		rows = append(rows, configRow{name: name, value: values[name], source: c.sources.Sources[name]})
	}
	return rows
}

// checkStorage opens the slot and decodes the stored payload without
// going through the store, so a broken payload is reported, not fatal.
func (c *cli) checkStorage(ctx context.Context) bool {
	w := c.stdout
	fmt.Fprintf(w, "Storage (%s, key %q):\n", c.cfg.Backend, c.cfg.StorageKey)

	slot, err := storage.Open(ctx, c.cfg.StorageOptions())
	if err != nil {
		fmt.Fprintf(w, "  ❌ Open error: %v\n", err)
		return false
	}
	defer slot.Close()

	if fileSlot, ok := slot.(*storage.FileSlot); ok {
		fmt.Fprintf(w, "  File: %s\n", fileSlot.Path(c.cfg.StorageKey))
	}

	data, ok, err := slot.Get(ctx, c.cfg.StorageKey)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Read error: %v\n", err)
		return false
	}
	if !ok {
		fmt.Fprintln(w, "  ⚠️  Empty (created on first change)")
		return true
	}

	tasks, err := todo.Decode(data)
	if err != nil {
		fmt.Fprintln(w, "  ❌ Invalid payload:")
		for _, line := range splitErrors(err) {
			fmt.Fprintf(w, "    - %s\n", line)
		}
		return false
	}
	done := 0
	for _, t := range tasks {
		if t.Completed() {
			done++
		}
	}
	fmt.Fprintf(w, "  ✅ Valid: %d tasks, %d completed\n", len(tasks), done)
	return true
}

// splitErrors flattens an errors.Join tree into one message per leaf.
func splitErrors(err error) []string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, splitErrors(e)...)
		}
		return out
	}
	return []string{err.Error()}
}
