// Package todo manages the task collection and its persisted form.
package todo

import (
	"fmt"
	"time"
)

// Status represents a task status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted:
		return true
	}
	return false
}

// Priority represents a task priority.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority converts user input to a Priority. Empty input yields
// PriorityMedium.
func ParsePriority(s string) (Priority, error) {
	if s == "" {
		return PriorityMedium, nil
	}
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q, must be one of: low, medium, high", s)
	}
	return p, nil
}

// Task represents a single to-do item.
type Task struct {
	ID          string
	Title       string
	Description string
	Status      Status
	Tags        []string
	Priority    Priority
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == ""
}

// Completed reports whether the task status is completed.
func (t *Task) Completed() bool {
	return t.Status == StatusCompleted
}

// HasTag reports whether tag is one of the task's tags.
func (t *Task) HasTag(tag string) bool {
	for _, v := range t.Tags {
		if v == tag {
			return true
		}
	}
	return false
}

// clone returns a deep copy so callers never share slices or pointers with
// the stored collection.
func (t Task) clone() Task {
	out := t
	out.Tags = append(make([]string, 0, len(t.Tags)), t.Tags...)
	if t.CompletedAt != nil {
		ts := *t.CompletedAt
		out.CompletedAt = &ts
	}
	return out
}

// NewTask holds the fields supplied when a task is created.
type NewTask struct {
	Title       string
	Description string
	Tags        []string
	Priority    Priority
}

// Patch represents a partial update.
// nil pointer => "no change"; a non-nil pointer overwrites the field.
type Patch struct {
	Title       *string
	Description *string
	Status      *Status
	Tags        *[]string
	Priority    *Priority
}

// apply overwrites the fields present in p onto t. It reports whether the
// patch moves the task to completed.
func (p Patch) apply(t *Task) bool {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Tags != nil {
		if *p.Tags == nil {
			t.Tags = []string{}
		} else {
			t.Tags = append([]string(nil), (*p.Tags)...)
		}
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
		return *p.Status == StatusCompleted
	}
	return false
}

// Criteria selects a subset of tasks. Empty fields are ignored.
type Criteria struct {
	Status Status
	Tag    string
	Search string
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	return c.Status == "" && c.Tag == "" && c.Search == ""
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // dotted path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
