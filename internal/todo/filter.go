package todo

import "strings"

// Matches reports whether t satisfies c.
//
// Status and tag are evaluated first. If search text is set, the
// case-insensitive title/description match is the whole verdict and the
// status and tag results are discarded.
func (c Criteria) Matches(t *Task) bool {
	match := true
	if c.Status != "" && t.Status != c.Status {
		match = false
	}
	if c.Tag != "" && !t.HasTag(c.Tag) {
		match = false
	}
	if c.Search != "" {
		needle := strings.ToLower(c.Search)
		return strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Description), needle)
	}
	return match
}

// filterTasks returns copies of the tasks in list that match c, preserving
// order. The result is never nil.
func filterTasks(list []Task, c Criteria) []Task {
	out := make([]Task, 0, len(list))
	for i := range list {
		if c.Matches(&list[i]) {
			out = append(out, list[i].clone())
		}
	}
	return out
}
