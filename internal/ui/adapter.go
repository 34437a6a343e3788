// Package ui turns store state into renderable items and routes user
// actions back into the task store.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nibzard/todolist-go/internal/todo"
	"github.com/nibzard/todolist-go/internal/utils"
)

// ErrTaskNotFound is returned when an action names a task that does not exist.
var ErrTaskNotFound = errors.New("task not found")

// DateLayout is the layout used for created/completed labels.
const DateLayout = "2006-01-02 15:04"

// Item is a display-ready task.
type Item struct {
	ID            string
	Title         string
	Description   string
	Tags          []string
	Priority      todo.Priority
	Status        todo.Status
	Completed     bool
	StatusClass   string
	PriorityClass string
	Created       string
	CompletedOn   string
}

// Adapter routes UI actions to a store and renders the current view.
type Adapter struct {
	store    *todo.Store
	criteria todo.Criteria
	loc      *time.Location
}

// NewAdapter returns an adapter over store showing every task.
func NewAdapter(store *todo.Store) *Adapter {
	return &Adapter{store: store, loc: time.Local}
}

// SetLocation sets the zone timestamps are rendered in.
func (a *Adapter) SetLocation(loc *time.Location) {
	if loc != nil {
		a.loc = loc
	}
}

// Store returns the underlying store.
func (a *Adapter) Store() *todo.Store {
	return a.store
}

// Criteria returns the active filter.
func (a *Adapter) Criteria() todo.Criteria {
	return a.criteria
}

// Items renders the tasks matching the active filter.
func (a *Adapter) Items() []Item {
	tasks := a.store.Filter(a.criteria)
	items := make([]Item, 0, len(tasks))
	for i := range tasks {
		items = append(items, a.render(&tasks[i]))
	}
	return items
}

// Filter replaces the active filter and renders the result.
func (a *Adapter) Filter(c todo.Criteria) []Item {
	a.criteria = c
	return a.Items()
}

// Create adds a task from form input. tags is a comma-separated list and
// priority may be empty (medium).
func (a *Adapter) Create(ctx context.Context, title, description, tags, priority string) ([]Item, error) {
	p, err := todo.ParsePriority(strings.TrimSpace(priority))
	if err != nil {
		return nil, err
	}
	_, err = a.store.Create(ctx, todo.NewTask{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Tags:        utils.SplitAndTrim(tags, ","),
		Priority:    p,
	})
	if err != nil {
		return nil, err
	}
	return a.Items(), nil
}

// ToggleComplete flips a task between pending and completed.
func (a *Adapter) ToggleComplete(ctx context.Context, id string) ([]Item, error) {
	_, found, err := a.store.ToggleComplete(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return a.Items(), nil
}

// Delete removes a task. Confirmation is the caller's job.
func (a *Adapter) Delete(ctx context.Context, id string) ([]Item, error) {
	found, err := a.store.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return a.Items(), nil
}

// Move places a task at index in the full (unfiltered) collection.
func (a *Adapter) Move(ctx context.Context, id string, index int) ([]Item, error) {
	found, err := a.store.Move(ctx, id, index)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return a.Items(), nil
}

// Position returns the index of id in the full collection, or -1.
func (a *Adapter) Position(id string) int {
	for i, t := range a.store.List() {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (a *Adapter) render(t *todo.Task) Item {
	item := Item{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		Tags:          t.Tags,
		Priority:      t.Priority,
		Status:        t.Status,
		Completed:     t.Completed(),
		StatusClass:   "task-" + string(t.Status),
		PriorityClass: "priority-" + string(t.Priority),
		Created:       t.CreatedAt.In(a.loc).Format(DateLayout),
	}
	if t.CompletedAt != nil {
		item.CompletedOn = t.CompletedAt.In(a.loc).Format(DateLayout)
	}
	return item
}
