package ui

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/nibzard/todolist-go/internal/todo"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func send(m *tuiModel, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

// typeText sends s one rune at a time, using KeySpace for spaces.
func typeText(m *tuiModel, s string) {
	for _, r := range s {
		if r == ' ' {
			send(m, key(tea.KeySpace))
			continue
		}
		send(m, runes(string(r)))
	}
}

func newTestModel(t *testing.T, titles ...string) *tuiModel {
	t.Helper()
	a := newTestAdapter(t)
	for _, title := range titles {
		if _, err := a.Create(context.Background(), title, "", "", ""); err != nil {
			t.Fatal(err)
		}
	}
	return newTUIModel(context.Background(), a)
}

func TestTUIAddTask(t *testing.T) {
	m := newTestModel(t)

	send(m, runes("a"))
	if m.mode != modeAdd {
		t.Fatalf("mode: got %v, want add", m.mode)
	}
	typeText(m, "Buy milk")
	send(m, key(tea.KeyEnter))
	typeText(m, "two litres")
	send(m, key(tea.KeyEnter))
	typeText(m, "errand,home")
	send(m, key(tea.KeyEnter))
	typeText(m, "high")
	send(m, key(tea.KeyEnter))

	if m.mode != modeList {
		t.Fatalf("mode after submit: got %v", m.mode)
	}
	if m.err != nil {
		t.Fatalf("err: %v", m.err)
	}
	if len(m.items) != 1 {
		t.Fatalf("items: got %d, want 1", len(m.items))
	}
	item := m.items[0]
	if item.Title != "Buy milk" || item.Description != "two litres" || item.Priority != todo.PriorityHigh || len(item.Tags) != 2 {
		t.Errorf("created item: %+v", item)
	}
	if !strings.Contains(m.View(), "Buy milk") {
		t.Error("view does not show new task")
	}
}

func TestTUIAddTaskErrors(t *testing.T) {
	m := newTestModel(t)
	send(m, runes("a"), key(tea.KeyEnter), key(tea.KeyEnter), key(tea.KeyEnter), key(tea.KeyEnter))
	if m.err == nil {
		t.Fatal("expected error for empty title")
	}
	if !strings.Contains(m.View(), "Error:") {
		t.Error("view does not show error")
	}

	send(m, runes("a"), runes("x"), key(tea.KeyBackspace), key(tea.KeyEsc))
	if m.mode != modeList || len(m.items) != 0 {
		t.Errorf("escape must cancel add: mode=%v items=%d", m.mode, len(m.items))
	}
}

func TestTUIToggleAndNavigate(t *testing.T) {
	m := newTestModel(t, "A", "B", "C")

	send(m, runes("j"), runes("j"), runes("j"))
	if m.cursor != 2 {
		t.Errorf("cursor: got %d, want 2", m.cursor)
	}
	send(m, runes("k"))
	if m.cursor != 1 {
		t.Errorf("cursor: got %d, want 1", m.cursor)
	}

	send(m, key(tea.KeySpace))
	if !m.items[1].Completed {
		t.Error("space should toggle the selected task")
	}

	send(m, runes("2"))
	if len(m.items) != 1 || m.items[0].Title != "B" {
		t.Errorf("completed filter: %+v", m.items)
	}
	send(m, runes("1"))
	if len(m.items) != 2 {
		t.Errorf("pending filter: got %d items", len(m.items))
	}
	send(m, runes("0"))
	if len(m.items) != 3 {
		t.Errorf("cleared filter: got %d items", len(m.items))
	}
}

func TestTUIDeleteConfirmation(t *testing.T) {
	m := newTestModel(t, "A", "B")

	send(m, runes("d"), runes("n"))
	if len(m.items) != 2 || m.notice != "Delete cancelled" {
		t.Fatalf("declined delete: items=%d notice=%q", len(m.items), m.notice)
	}

	send(m, runes("d"))
	if !strings.Contains(m.View(), `Delete "A"?`) {
		t.Error("confirmation prompt missing")
	}
	send(m, runes("y"))
	if len(m.items) != 1 || m.items[0].Title != "B" {
		t.Errorf("after delete: %+v", m.items)
	}
}

func TestTUISearch(t *testing.T) {
	m := newTestModel(t, "Buy milk", "Write report")

	send(m, runes("/"))
	typeText(m, "MILK")
	if len(m.items) != 1 || m.items[0].Title != "Buy milk" {
		t.Errorf("live search: %+v", m.items)
	}
	send(m, key(tea.KeyEnter))
	if m.mode != modeList || m.adapter.Criteria().Search != "MILK" {
		t.Errorf("search not kept: mode=%v criteria=%+v", m.mode, m.adapter.Criteria())
	}

	send(m, runes("/"), runes("x"), key(tea.KeyEsc))
	if m.adapter.Criteria().Search != "MILK" {
		t.Errorf("escape should restore previous search, got %q", m.adapter.Criteria().Search)
	}
}

func TestTUITagCycle(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()
	a.Create(ctx, "A", "", "work", "")
	a.Create(ctx, "B", "", "home", "")
	m := newTUIModel(ctx, a)

	send(m, runes("t"))
	if a.Criteria().Tag != "work" || len(m.items) != 1 {
		t.Errorf("first tag: %+v", a.Criteria())
	}
	send(m, runes("t"))
	if a.Criteria().Tag != "home" {
		t.Errorf("second tag: %+v", a.Criteria())
	}
	send(m, runes("t"))
	if a.Criteria().Tag != "" || len(m.items) != 2 {
		t.Errorf("cycle back to none: %+v", a.Criteria())
	}
}

func TestTUIReorder(t *testing.T) {
	m := newTestModel(t, "A", "B", "C")

	send(m, runes("J"))
	if m.items[1].Title != "A" || m.cursor != 1 {
		t.Errorf("move down: cursor=%d items=%v", m.cursor, titlesOf(m.items))
	}
	send(m, runes("K"), runes("K"))
	if m.items[0].Title != "A" || m.cursor != 0 {
		t.Errorf("move up: cursor=%d items=%v", m.cursor, titlesOf(m.items))
	}
}

func TestTUIQuitAndHelp(t *testing.T) {
	m := newTestModel(t)
	send(m, runes("?"))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help screen not shown")
	}
	if cmd := send(m, runes("q")); cmd == nil {
		t.Fatal("q should return a quit command")
	} else if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
	if !strings.Contains(newTestModel(t).View(), "No tasks.") {
		t.Error("empty view should say so")
	}
}

func TestFormatItemTruncatesDescription(t *testing.T) {
	tests := []struct {
		name string
		desc string
	}{
		{"ascii", strings.Repeat("a", 80)},
		{"two-byte runes", strings.Repeat("é", 40)},
		{"wide runes", strings.Repeat("日本", 40)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := formatItem(Item{Title: "T", Description: tt.desc}, true)
			if !utf8.ValidString(out) {
				t.Fatalf("invalid UTF-8 in %q", out)
			}
			lines := strings.Split(out, "\n")
			details := strings.TrimSpace(lines[1])
			if w := runewidth.StringWidth(details); w > detailsWidth {
				t.Errorf("details width: got %d, want <= %d", w, detailsWidth)
			}
			if !strings.HasSuffix(details, "...") {
				t.Errorf("details should end with an ellipsis: %q", details)
			}
		})
	}

	short := formatItem(Item{Title: "T", Description: "café au lait"}, true)
	if !strings.Contains(short, "café au lait") {
		t.Errorf("short descriptions are kept whole: %q", short)
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&strings.Builder{}) {
		t.Error("a strings.Builder is not a TTY")
	}
}

func titlesOf(items []Item) []string {
	var out []string
	for _, i := range items {
		out = append(out, i.Title)
	}
	return out
}
