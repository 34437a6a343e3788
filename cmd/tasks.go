package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/nibzard/todolist-go/internal/todo"
	"github.com/nibzard/todolist-go/internal/ui"
	"github.com/nibzard/todolist-go/internal/utils"
)

// addCommand creates a task from the remaining words.
func (c *cli) addCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todolist add", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	desc := fs.String("desc", "", "Description")
	fs.StringVar(desc, "d", "", "Description")
	tags := fs.String("tags", "", "Comma-separated tags")
	fs.StringVar(tags, "t", "", "Comma-separated tags")
	priority := fs.String("priority", "", "Priority (low|medium|high)")
	fs.StringVar(priority, "p", "", "Priority (low|medium|high)")

	words, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	title := joinArgs(words)
	if title == "" {
		return fmt.Errorf("add: title is required")
	}

	store, slot, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer slot.Close()

	adapter := ui.NewAdapter(store)
	items, err := adapter.Create(ctx, title, *desc, *tags, *priority)
	if err != nil {
		return err
	}
	added := items[len(items)-1]
	fmt.Fprintf(c.stdout, "Added %s: %s\n", added.ID, added.Title)
	return nil
}

// lsCommand lists tasks matching the filter flags in collection order.
func (c *cli) lsCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todolist ls", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	status := fs.String("status", "", "Filter by status (pending|completed)")
	tag := fs.String("tag", "", "Filter by tag")
	search := fs.String("search", "", "Search title and description")
	asJSON := fs.Bool("json", false, "Print the stored JSON form")
	long := fs.Bool("l", false, "Show descriptions and timestamps")

	remaining, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	// A bare word is shorthand for --status.
	if len(remaining) == 1 && *status == "" {
		*status = remaining[0]
	}
	criteria := todo.Criteria{
		Status: todo.Status(utils.NormalizeName(*status)),
		Tag:    strings.TrimSpace(*tag),
		Search: *search,
	}
	if criteria.Status != "" && !criteria.Status.Valid() {
		return fmt.Errorf("unknown status %q (expected pending or completed)", *status)
	}

	store, slot, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer slot.Close()

	tasks := store.Filter(criteria)
	if *asJSON {
		data, err := todo.Encode(tasks)
		if err != nil {
			return err
		}
		_, err = c.stdout.Write(data)
		return err
	}

	adapter := ui.NewAdapter(store)
	items := adapter.Filter(criteria)
	if len(items) == 0 {
		fmt.Fprintln(c.stdout, "No tasks found.")
		return nil
	}
	for _, item := range items {
		c.printItem(item, *long)
	}
	return nil
}

// printItem prints a single task.
func (c *cli) printItem(item ui.Item, long bool) {
	box := "[ ]"
	if item.Completed {
		box = "[x]"
	}
	line := fmt.Sprintf("%s %s %s (%s)", box, item.ID, item.Title, item.Priority)
	for _, tag := range item.Tags {
		line += " #" + tag
	}
	fmt.Fprintln(c.stdout, line)

	if long {
		if item.Description != "" {
			fmt.Fprintf(c.stdout, "      %s\n", item.Description)
		}
		fmt.Fprintf(c.stdout, "      created %s", item.Created)
		if item.CompletedOn != "" {
			fmt.Fprintf(c.stdout, ", completed %s", item.CompletedOn)
		}
		fmt.Fprintln(c.stdout)
	}
}

// doneCommand toggles each named task.
func (c *cli) doneCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("done: task id is required")
	}
	store, slot, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer slot.Close()

	adapter := ui.NewAdapter(store)
	for _, arg := range args {
		id, err := resolveID(store, arg)
		if err != nil {
			return err
		}
		if _, err := adapter.ToggleComplete(ctx, id); err != nil {
			return err
		}
		t, _ := store.Get(id)
		fmt.Fprintf(c.stdout, "%s is now %s: %s\n", t.ID, t.Status, t.Title)
	}
	return nil
}

// editCommand applies the given field flags to one task.
func (c *cli) editCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todolist edit", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	title := fs.String("title", "", "New title")
	desc := fs.String("desc", "", "New description")
	tags := fs.String("tags", "", "New comma-separated tags (empty clears)")
	priority := fs.String("priority", "", "New priority (low|medium|high)")
	status := fs.String("status", "", "New status (pending|completed)")

	remaining, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(remaining) != 1 {
		return fmt.Errorf("edit: exactly one task id is required")
	}

	var patch todo.Patch
	set := 0
	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		set++
		switch f.Name {
		case "title":
			patch.Title = title
		case "desc":
			patch.Description = desc
		case "tags":
			t := utils.SplitAndTrim(*tags, ",")
			patch.Tags = &t
		case "priority":
			p, err := todo.ParsePriority(utils.NormalizeName(*priority))
			if err != nil {
				parseErr = err
				return
			}
			patch.Priority = &p
		case "status":
			s := todo.Status(utils.NormalizeName(*status))
			patch.Status = &s
		}
	})
	if parseErr != nil {
		return parseErr
	}
	if set == 0 {
		return fmt.Errorf("edit: nothing to change")
	}

	store, slot, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer slot.Close()

	id, err := resolveID(store, remaining[0])
	if err != nil {
		return err
	}
	t, found, err := store.Update(ctx, id, patch)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", ui.ErrTaskNotFound, id)
	}
	fmt.Fprintf(c.stdout, "Updated %s: %s\n", t.ID, t.Title)
	return nil
}

// rmCommand deletes each named task.
func (c *cli) rmCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("rm: task id is required")
	}
	store, slot, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer slot.Close()

	adapter := ui.NewAdapter(store)
	for _, arg := range args {
		id, err := resolveID(store, arg)
		if err != nil {
			return err
		}
		if _, err := adapter.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "Deleted %s\n", id)
	}
	return nil
}

// mvCommand moves a task to a zero-based position.
func (c *cli) mvCommand(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("mv: usage: mv <id> <position>")
	}
	pos, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("mv: invalid position %q", args[1])
	}

	store, slot, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer slot.Close()

	id, err := resolveID(store, args[0])
	if err != nil {
		return err
	}
	adapter := ui.NewAdapter(store)
	if _, err := adapter.Move(ctx, id, pos); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "Moved %s to position %d\n", id, adapter.Position(id))
	return nil
}

// tagsCommand prints the distinct tags with their task counts.
func (c *cli) tagsCommand(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	store, slot, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer slot.Close()

	tags := store.Tags()
	if len(tags) == 0 {
		fmt.Fprintln(c.stdout, "No tags.")
		return nil
	}
	for _, tag := range tags {
		n := len(store.Filter(todo.Criteria{Tag: tag}))
		fmt.Fprintf(c.stdout, "%s (%d)\n", tag, n)
	}
	return nil
}

// tuiCommand launches the TUI.
func (c *cli) tuiCommand(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	store, slot, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer slot.Close()

	return ui.RunTUI(ctx, ui.NewAdapter(store))
}

// resolveID maps an exact ID or a unique ID prefix to a task ID. An
// argument matching nothing is returned unchanged so the caller reports
// it as not found.
func resolveID(store *todo.Store, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("task id is empty")
	}
	if _, ok := store.Get(arg); ok {
		return arg, nil
	}
	var matches []string
	for _, t := range store.List() {
		if strings.HasPrefix(t.ID, arg) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return arg, nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id prefix %q is ambiguous (%d tasks)", arg, len(matches))
	}
}
