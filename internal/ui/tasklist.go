package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/task"
)

// TaskListView renders the task roster with a cursor and a fuzzy search
// input. Selection itself lives on AppModel; the list only draws it and
// keeps the selected row scrolled into view.
type TaskListView struct {
	width  int
	height int
	offset int

	search    textinput.Model
	searching bool
}

// NewTaskListView creates the roster view.
func NewTaskListView() *TaskListView {
	ti := textinput.New()
	ti.Placeholder = "search tasks"
	ti.Prompt = "/ "
	ti.Width = 30
	return &TaskListView{search: ti}
}

// SetSize updates the drawable area.
func (l *TaskListView) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// StartSearch focuses the search input. While it is focused, single-key
// chords are suppressed by the dispatcher.
func (l *TaskListView) StartSearch() tea.Cmd {
	l.searching = true
	return l.search.Focus()
}

// StopSearch blurs the input. keep=false also clears the query.
func (l *TaskListView) StopSearch(keep bool) {
	l.searching = false
	l.search.Blur()
	if !keep {
		l.search.SetValue("")
	}
}

// Searching reports whether the search input has focus.
func (l *TaskListView) Searching() bool { return l.searching }

// Query returns the current search query.
func (l *TaskListView) Query() string { return l.search.Value() }

// UpdateSearch feeds a message to the focused search input.
func (l *TaskListView) UpdateSearch(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.search, cmd = l.search.Update(msg)
	return cmd
}

// rowCapacity is how many task rows fit in the current height, after the
// title and search lines.
func (l *TaskListView) rowCapacity() int {
	capacity := l.height - 3
	if capacity < 1 {
		capacity = 10
	}
	return capacity
}

// EnsureVisible scrolls the window so the row at idx is on screen.
func (l *TaskListView) EnsureVisible(idx int) {
	if idx < 0 {
		return
	}
	capacity := l.rowCapacity()
	if idx < l.offset {
		l.offset = idx
	}
	if idx >= l.offset+capacity {
		l.offset = idx - capacity + 1
	}
}

// listHeaderLines is how many lines Render emits before the first task
// row: title, search/help, and a blank spacer.
const listHeaderLines = 3

// RowAt maps a row of the rendered list body (0 = the title line) to a
// task index, or -1 when the click missed the rows.
func (l *TaskListView) RowAt(y int, total int) int {
	idx := l.offset + y - listHeaderLines
	if idx < l.offset || idx >= total {
		return -1
	}
	return idx
}

// Render draws the roster. tasks is the already filtered+searched set.
func (l *TaskListView) Render(tasks []task.Task, selectedID string, archived bool) string {
	var b strings.Builder

	title := fmt.Sprintf("Tasks (%d)", len(tasks))
	if archived {
		title = fmt.Sprintf("Archived tasks (%d)", len(tasks))
	}
	b.WriteString(Styles.Title.Render(title) + "\n")
	if l.searching || l.search.Value() != "" {
		b.WriteString(l.search.View() + "\n")
	} else {
		b.WriteString(Styles.Header.Render("/ search  n new  ? help") + "\n")
	}
	b.WriteString("\n")

	if len(tasks) == 0 {
		b.WriteString(Styles.Dim.Render("  (no tasks for this branch)") + "\n")
		return b.String()
	}

	capacity := l.rowCapacity()
	end := l.offset + capacity
	if end > len(tasks) {
		end = len(tasks)
	}
	for i := l.offset; i < end; i++ {
		t := tasks[i]
		selected := t.ID == selectedID
		bullet := "  "
		style := Styles.Normal
		if selected {
			bullet = "▸ "
			style = Styles.Selected
		}
		line := fmt.Sprintf("%s%s  %s", bullet, style.Render(t.Name), statusBadge(t.Status))
		line += Styles.Dim.Render(fmt.Sprintf("  %s → %s  +%d −%d", t.Branch, t.Target, t.Additions, t.Deletions))
		b.WriteString(line + "\n")
	}
	return b.String()
}

// statusBadge renders a task status with its color.
func statusBadge(s task.Status) string {
	switch s {
	case task.StatusLive:
		return Styles.StatusLive.Render("● live")
	case task.StatusConflict:
		return Styles.StatusBad.Render("● conflict")
	case task.StatusBroken:
		return Styles.StatusBad.Render("● broken")
	case task.StatusMerged:
		return Styles.StatusMerged.Render("● merged")
	case task.StatusArchived:
		return Styles.Dim.Render("● archived")
	default:
		return Styles.Dim.Render("● idle")
	}
}
