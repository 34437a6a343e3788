package todo

import (
	"errors"
	"fmt"
	"strings"
)

var errMissingField = errors.New("missing required field")

// validateTask performs the field checks applied on Create and Update.
func validateTask(task *Task, path string) error {
	if task.ID == "" {
		return &ValidationError{
			Path: joinPath(path, "id"),
			Err:  errMissingField,
		}
	}

	if strings.TrimSpace(task.Title) == "" {
		return &ValidationError{
			Path: joinPath(path, "title"),
			Err:  errMissingField,
		}
	}

	if !task.Status.Valid() {
		return &ValidationError{
			Path: joinPath(path, "status"),
			Err:  fmt.Errorf("invalid status %q, must be one of: pending, completed", task.Status),
		}
	}

	if !task.Priority.Valid() {
		return &ValidationError{
			Path: joinPath(path, "priority"),
			Err:  fmt.Errorf("invalid priority %q, must be one of: low, medium, high", task.Priority),
		}
	}

	return nil
}

func joinPath(prefix, field string) string {
	if prefix == "" {
		return field
	}
	return prefix + "." + field
}
