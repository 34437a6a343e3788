package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/todolist-go/internal/utils"
)

// SchemaVersion is the envelope version written by Encode.
const SchemaVersion = 1

// ErrUnsupportedVersion is returned by Decode for envelopes written by an
// unknown schema version.
var ErrUnsupportedVersion = errors.New("unsupported schema version")

const schemaURL = "todolist://tasks.schema.json"

// PayloadSchema is the JSON Schema every stored payload must satisfy.
const PayloadSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["schema_version", "tasks"],
  "properties": {
    "schema_version": { "const": 1 },
    "tasks": {
      "type": "array",
      "items": { "$ref": "#/$defs/task" }
    }
  },
  "$defs": {
    "task": {
      "type": "object",
      "required": ["id", "title", "status", "priority", "createdAt"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "title": { "type": "string", "pattern": "\\S" },
        "description": { "type": "string" },
        "status": { "enum": ["pending", "completed"] },
        "tags": { "type": "array", "items": { "type": "string" } },
        "priority": { "enum": ["low", "medium", "high"] },
        "createdAt": { "type": "string", "format": "date-time" },
        "completedAt": { "type": ["string", "null"], "format": "date-time" }
      }
    }
  }
}`

// record is the stored shape of a task.
type record struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Tags        []string   `json:"tags"`
	Priority    Priority   `json:"priority"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

type envelope struct {
	SchemaVersion int      `json:"schema_version"`
	Tasks         []record `json:"tasks"`
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func payloadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, strings.NewReader(PayloadSchema)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// Encode serializes tasks into the versioned envelope.
func Encode(tasks []Task) ([]byte, error) {
	env := envelope{
		SchemaVersion: SchemaVersion,
		Tasks:         make([]record, 0, len(tasks)),
	}
	for _, t := range tasks {
		rec := record{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Status:      t.Status,
			Tags:        t.Tags,
			Priority:    t.Priority,
			CreatedAt:   t.CreatedAt.UTC(),
		}
		if rec.Tags == nil {
			rec.Tags = []string{}
		}
		if t.CompletedAt != nil {
			ts := t.CompletedAt.UTC()
			rec.CompletedAt = &ts
		}
		env.Tasks = append(env.Tasks, rec)
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a stored payload. A bare array of task records is accepted
// and treated as a version 1 task list. Malformed payloads are returned as
// errors; nothing is repaired.
func Decode(data []byte) ([]Task, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}

	switch v := raw.(type) {
	case []interface{}:
		raw = map[string]interface{}{
			"schema_version": float64(SchemaVersion),
			"tasks":          v,
		}
	case map[string]interface{}:
		version, ok := v["schema_version"].(float64)
		if !ok {
			return nil, &ValidationError{Path: "schema_version", Err: errMissingField}
		}
		if version != SchemaVersion {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedVersion, version)
		}
	default:
		return nil, &ValidationError{Err: fmt.Errorf("expected object or array, got %s", jsonKind(raw))}
	}

	schema, err := payloadSchema()
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, schemaErrors(err)
	}

	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize tasks: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(normalized, &env); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}

	tasks := make([]Task, 0, len(env.Tasks))
	seen := make(map[string]int, len(env.Tasks))
	for i, rec := range env.Tasks {
		if first, dup := seen[rec.ID]; dup {
			return nil, &ValidationError{
				Path: fmt.Sprintf("tasks[%d].id", i),
				Err:  fmt.Errorf("duplicate id %q (first at tasks[%d])", rec.ID, first),
			}
		}
		seen[rec.ID] = i

		t := Task{
			ID:          rec.ID,
			Title:       rec.Title,
			Description: rec.Description,
			Status:      rec.Status,
			Tags:        rec.Tags,
			Priority:    rec.Priority,
			CreatedAt:   rec.CreatedAt,
			CompletedAt: rec.CompletedAt,
		}
		if t.Tags == nil {
			t.Tags = []string{}
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func schemaErrors(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	var errs []error
	collectSchemaErrors(&errs, ve)
	if len(errs) == 0 {
		return &ValidationError{Err: errors.New(ve.Message)}
	}
	return errors.Join(errs...)
}

func collectSchemaErrors(errs *[]error, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}

func jsonKind(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	}
	return fmt.Sprintf("%T", v)
}
