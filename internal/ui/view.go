package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/nibzard/todolist-go/internal/todo"
)

// detailsWidth is the terminal column budget for the selected task's
// description line.
const detailsWidth = 60

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	cursorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	completedStyle = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	tagStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	faintStyle     = lipgloss.NewStyle().Faint(true)
	promptStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	priorityStyles = map[todo.Priority]lipgloss.Style{
		todo.PriorityHigh:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		todo.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		todo.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
)

func writeTitle(b *strings.Builder) {
	title := "Todo List"
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeFilter(b *strings.Builder, c todo.Criteria) {
	if c.IsZero() {
		return
	}
	var parts []string
	if c.Status != "" {
		parts = append(parts, "status="+string(c.Status))
	}
	if c.Tag != "" {
		parts = append(parts, "tag="+c.Tag)
	}
	if c.Search != "" {
		parts = append(parts, fmt.Sprintf("search=%q", c.Search))
	}
	b.WriteString(fmt.Sprintf("Filter: %s (0 to clear)\n\n", strings.Join(parts, " ")))
}

func writeItems(b *strings.Builder, items []Item, cursor int) {
	if len(items) == 0 {
		b.WriteString(faintStyle.Render("  No tasks.") + "\n\n")
		return
	}

	done := 0
	for i, item := range items {
		if item.Completed {
			done++
		}
		b.WriteString(formatItem(item, i == cursor))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\n  %d shown, %d completed\n\n", len(items), done))
}

func formatItem(item Item, selected bool) string {
	pointer := "  "
	if selected {
		pointer = cursorStyle.Render("> ")
	}
	box := "[ ]"
	if item.Completed {
		box = "[x]"
	}

	title := item.Title
	if item.Completed {
		title = completedStyle.Render(title)
	}
	line := fmt.Sprintf("%s%s %s %s", pointer, box, title, renderPriority(item.Priority))
	for _, tag := range item.Tags {
		line += " " + tagStyle.Render("#"+tag)
	}
	if !selected {
		return line
	}

	details := runewidth.Truncate(item.Description, detailsWidth, "...")
	meta := "created " + item.Created
	if item.CompletedOn != "" {
		meta += ", completed " + item.CompletedOn
	}
	if details != "" {
		line += "\n      " + details
	}
	return line + "\n      " + faintStyle.Render(meta)
}

func renderPriority(p todo.Priority) string {
	style, ok := priorityStyles[p]
	if !ok {
		return "(" + string(p) + ")"
	}
	return style.Render("(" + string(p) + ")")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c     Quit\n")
	b.WriteString("  j/k, arrows   Move cursor\n")
	b.WriteString("  space, enter  Toggle complete\n")
	b.WriteString("  a             Add task\n")
	b.WriteString("  d             Delete task (asks first)\n")
	b.WriteString("  J/K           Move task down/up\n")
	b.WriteString("  /             Search title and description\n")
	b.WriteString("  t             Cycle tag filter\n")
	b.WriteString("  1             Show pending\n")
	b.WriteString("  2             Show completed\n")
	b.WriteString("  0             Clear filters\n")
	b.WriteString("  h, ?          Toggle this help screen\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString(faintStyle.Render("Press h for help | q to quit") + "\n")
}
