package todo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultKey is the slot key the collection is stored under.
const DefaultKey = "todolist.tasks"

// maxIDAttempts bounds ID regeneration when a generator repeats itself.
const maxIDAttempts = 8

// Slot is a single-value durable key-value store.
type Slot interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set replaces the stored value.
	Set(ctx context.Context, key string, data []byte) error
}

// Option configures a Store.
type Option func(*Store)

// WithKey stores the collection under key instead of DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDFunc overrides the identifier generator.
func WithIDFunc(fn IDFunc) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithLogger sets the logger used for mutation traces.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store owns the task collection and writes it back to its slot after
// every mutation. A mutation whose write fails is discarded, so the
// in-memory collection always matches the last successful write.
type Store struct {
	mu     sync.Mutex
	slot   Slot
	key    string
	now    func() time.Time
	newID  IDFunc
	logger *log.Logger
	tasks  []Task
}

// Open loads the collection from slot. A missing key yields an empty
// collection; an unreadable or invalid payload is returned as an error.
func Open(ctx context.Context, slot Slot, opts ...Option) (*Store, error) {
	if slot == nil {
		return nil, errors.New("slot is nil")
	}

	s := &Store{
		slot:   slot,
		key:    DefaultKey,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  NewXID,
		logger: log.New(io.Discard),
		tasks:  []Task{},
	}
	for _, opt := range opts {
		opt(s)
	}

	data, ok, err := slot.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("read slot %q: %w", s.key, err)
	}
	if ok {
		tasks, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("load slot %q: %w", s.key, err)
		}
		s.tasks = tasks
	}

	s.logger.Debug("loaded tasks", "key", s.key, "count", len(s.tasks))
	return s, nil
}

// Key returns the slot key the store persists to.
func (s *Store) Key() string {
	return s.key
}

// Create validates and appends a new pending task, then persists.
// An empty priority defaults to medium.
func (s *Store) Create(ctx context.Context, in NewTask) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	priority := in.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	id, err := s.uniqueID()
	if err != nil {
		return Task{}, err
	}

	t := Task{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Status:      StatusPending,
		Tags:        append([]string{}, in.Tags...),
		Priority:    priority,
		CreatedAt:   s.now(),
	}
	if err := validateTask(&t, ""); err != nil {
		return Task{}, err
	}

	next := make([]Task, len(s.tasks), len(s.tasks)+1)
	copy(next, s.tasks)
	next = append(next, t)
	if err := s.commit(ctx, next); err != nil {
		return Task{}, err
	}

	s.logger.Debug("task created", "op", "create", "id", t.ID)
	return t.clone(), nil
}

// Update overwrites the fields present in patch. Setting the status to
// completed stamps CompletedAt unless it is already set; reverting to
// pending keeps the stamp. The bool reports whether id was found; a miss
// changes nothing.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(ctx, id, func(Task) Patch { return patch })
}

// ToggleComplete flips a task between pending and completed.
func (s *Store) ToggleComplete(ctx context.Context, id string) (Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(ctx, id, func(t Task) Patch {
		status := StatusCompleted
		if t.Completed() {
			status = StatusPending
		}
		return Patch{Status: &status}
	})
}

// update builds a patch from the current task and applies it. s.mu must
// be held.
func (s *Store) update(ctx context.Context, id string, build func(Task) Patch) (Task, bool, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Task{}, false, nil
	}

	t := s.tasks[idx].clone()
	patch := build(t)
	if patch.apply(&t) && t.CompletedAt == nil {
		now := s.now()
		t.CompletedAt = &now
	}
	if err := validateTask(&t, ""); err != nil {
		return Task{}, true, err
	}

	next := make([]Task, len(s.tasks))
	copy(next, s.tasks)
	next[idx] = t
	if err := s.commit(ctx, next); err != nil {
		return Task{}, true, err
	}

	s.logger.Debug("task updated", "op", "update", "id", id, "status", t.Status)
	return t.clone(), true, nil
}

// Delete removes the task with id. The bool reports whether it existed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}

	next := make([]Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:idx]...)
	next = append(next, s.tasks[idx+1:]...)
	if err := s.commit(ctx, next); err != nil {
		return true, err
	}

	s.logger.Debug("task deleted", "op", "delete", "id", id)
	return true, nil
}

// Move places the task with id at position index, shifting the others.
// Out-of-range positions are clamped.
func (s *Store) Move(ctx context.Context, id string, index int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.indexOf(id)
	if from < 0 {
		return false, nil
	}
	if index < 0 {
		index = 0
	}
	if index > len(s.tasks)-1 {
		index = len(s.tasks) - 1
	}
	if index == from {
		return true, nil
	}

	moved := s.tasks[from]
	next := make([]Task, 0, len(s.tasks))
	next = append(next, s.tasks[:from]...)
	next = append(next, s.tasks[from+1:]...)
	next = append(next[:index], append([]Task{moved}, next[index:]...)...)
	if err := s.commit(ctx, next); err != nil {
		return true, err
	}

	s.logger.Debug("task moved", "op", "move", "id", id, "from", from, "to", index)
	return true, nil
}

// Get returns a task by ID.
func (s *Store) Get(id string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Task{}, false
	}
	return s.tasks[idx].clone(), true
}

// List returns every task in collection order.
func (s *Store) List() []Task {
	return s.Filter(Criteria{})
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Filter returns the tasks matching c in collection order. See
// Criteria.Matches for how search text interacts with status and tag.
func (s *Store) Filter(c Criteria) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filterTasks(s.tasks, c)
}

// Tags returns the distinct tags in first-seen order.
func (s *Store) Tags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	tags := make([]string, 0)
	for _, t := range s.tasks {
		for _, tag := range t.Tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) uniqueID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		if id != "" && s.indexOf(id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("generate task id: no unique id after %d attempts", maxIDAttempts)
}

// commit persists next and, on success, makes it the live collection.
func (s *Store) commit(ctx context.Context, next []Task) error {
	data, err := Encode(next)
	if err != nil {
		return err
	}
	if err := s.slot.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("write slot %q: %w", s.key, err)
	}
	s.tasks = next
	return nil
}
