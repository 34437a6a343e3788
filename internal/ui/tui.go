package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/todolist-go/internal/todo"
)

// RunTUI starts the interactive task list on the terminal.
func RunTUI(ctx context.Context, adapter *Adapter) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := newTUIModel(ctx, adapter)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

type tuiMode int

const (
	modeList tuiMode = iota
	modeConfirmDelete
	modeSearch
	modeAdd
)

var addPrompts = []string{
	"Title",
	"Description",
	"Tags (comma separated)",
	"Priority (low/medium/high)",
}

type tuiModel struct {
	ctx      context.Context
	adapter  *Adapter
	items    []Item
	cursor   int
	mode     tuiMode
	input    []rune
	addStep  int
	addVals  []string
	tagIdx   int // index into the store's tags for the tag filter, -1 for none
	prevFind string
	showHelp bool
	err      error
	notice   string
}

func newTUIModel(ctx context.Context, adapter *Adapter) *tuiModel {
	m := &tuiModel{
		ctx:     ctx,
		adapter: adapter,
		tagIdx:  -1,
	}
	m.items = adapter.Items()
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.mode {
	case modeConfirmDelete:
		return m.updateConfirm(key)
	case modeSearch:
		return m.updateSearch(key)
	case modeAdd:
		return m.updateAdd(key)
	}
	return m.updateList(key)
}

func (m *tuiModel) updateList(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	m.notice = ""

	switch key.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case " ", "enter", "x":
		if item, ok := m.selected(); ok {
			m.apply(m.adapter.ToggleComplete(m.ctx, item.ID))
		}
	case "d", "delete":
		if _, ok := m.selected(); ok {
			m.mode = modeConfirmDelete
		}
	case "a", "n":
		m.mode = modeAdd
		m.addStep = 0
		m.addVals = nil
		m.input = nil
	case "/":
		m.mode = modeSearch
		m.prevFind = m.adapter.Criteria().Search
		m.input = []rune(m.prevFind)
	case "1":
		m.setStatus(todo.StatusPending)
	case "2":
		m.setStatus(todo.StatusCompleted)
	case "0":
		m.tagIdx = -1
		m.setCriteria(todo.Criteria{})
	case "t":
		m.cycleTag()
	case "K", "shift+up":
		m.moveSelected(-1)
	case "J", "shift+down":
		m.moveSelected(1)
	case "h", "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *tuiModel) updateConfirm(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeList
	if key.String() != "y" {
		m.notice = "Delete cancelled"
		return m, nil
	}
	if item, ok := m.selected(); ok {
		m.apply(m.adapter.Delete(m.ctx, item.ID))
		if m.err == nil {
			m.notice = "Deleted " + item.Title
		}
	}
	return m, nil
}

func (m *tuiModel) updateSearch(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.mode = modeList
		m.setSearch(m.prevFind)
		return m, nil
	case tea.KeyEnter:
		m.mode = modeList
		return m, nil
	}
	if m.edit(key) {
		m.setSearch(string(m.input))
	}
	return m, nil
}

func (m *tuiModel) updateAdd(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.mode = modeList
		m.notice = "Add cancelled"
		return m, nil
	case tea.KeyEnter:
		m.addVals = append(m.addVals, string(m.input))
		m.input = nil
		m.addStep++
		if m.addStep < len(addPrompts) {
			return m, nil
		}
		m.mode = modeList
		v := m.addVals
		items, err := m.adapter.Create(m.ctx, v[0], v[1], v[2], v[3])
		m.apply(items, err)
		if err == nil {
			m.cursor = len(m.items) - 1
			m.notice = "Added " + strings.TrimSpace(v[0])
		}
		return m, nil
	}
	m.edit(key)
	return m, nil
}

// edit applies a text editing key to the input buffer and reports whether
// the buffer changed.
func (m *tuiModel) edit(key tea.KeyMsg) bool {
	switch key.Type {
	case tea.KeyRunes:
		m.input = append(m.input, key.Runes...)
		return true
	case tea.KeySpace:
		m.input = append(m.input, ' ')
		return true
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
			return true
		}
	}
	return false
}

func (m *tuiModel) selected() (Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return Item{}, false
	}
	return m.items[m.cursor], true
}

// apply installs the result of an adapter action.
func (m *tuiModel) apply(items []Item, err error) {
	if err != nil {
		m.err = err
		return
	}
	m.items = items
	m.clampCursor()
}

func (m *tuiModel) clampCursor() {
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) setCriteria(c todo.Criteria) {
	m.items = m.adapter.Filter(c)
	m.clampCursor()
}

func (m *tuiModel) setStatus(s todo.Status) {
	c := m.adapter.Criteria()
	c.Status = s
	m.setCriteria(c)
}

func (m *tuiModel) setSearch(text string) {
	c := m.adapter.Criteria()
	c.Search = text
	m.setCriteria(c)
}

func (m *tuiModel) cycleTag() {
	tags := m.adapter.Store().Tags()
	m.tagIdx++
	if m.tagIdx >= len(tags) {
		m.tagIdx = -1
	}
	c := m.adapter.Criteria()
	c.Tag = ""
	if m.tagIdx >= 0 {
		c.Tag = tags[m.tagIdx]
	}
	m.setCriteria(c)
}

// moveSelected shifts the selected task by delta positions in the full
// collection and keeps the cursor on it.
func (m *tuiModel) moveSelected(delta int) {
	item, ok := m.selected()
	if !ok {
		return
	}
	pos := m.adapter.Position(item.ID)
	if pos < 0 || pos+delta < 0 {
		return
	}
	items, err := m.adapter.Move(m.ctx, item.ID, pos+delta)
	m.apply(items, err)
	for i := range m.items {
		if m.items[i].ID == item.ID {
			m.cursor = i
			break
		}
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	writeFilter(&b, m.adapter.Criteria())
	writeItems(&b, m.items, m.cursor)

	switch m.mode {
	case modeConfirmDelete:
		if item, ok := m.selected(); ok {
			b.WriteString(promptStyle.Render(fmt.Sprintf("Delete %q? (y/N)", item.Title)) + "\n\n")
		}
	case modeSearch:
		b.WriteString(promptStyle.Render("Search: ") + string(m.input) + "_\n\n")
	case modeAdd:
		for i, v := range m.addVals {
			b.WriteString(fmt.Sprintf("  %s: %s\n", addPrompts[i], v))
		}
		b.WriteString(promptStyle.Render(addPrompts[m.addStep]+": ") + string(m.input) + "_\n\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n\n")
	} else if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice) + "\n\n")
	}

	writeFooter(&b)
	return b.String()
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
