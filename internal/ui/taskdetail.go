package ui

import (
	"fmt"
	"strings"

	"taskdeck/internal/task"
)

// InfoTab is one of the numbered detail panel tabs.
type InfoTab int

const (
	TabOverview InfoTab = iota
	TabCommits
	TabChanges
	TabNotes
	tabCount
)

var tabTitles = [tabCount]string{"Overview", "Commits", "Changes", "Notes"}

// TaskDetailView is the read-only panel for the selected task: metadata,
// commit log, change counters, and notes, across four tabs.
type TaskDetailView struct {
	Tab   InfoTab
	width int
}

// NewTaskDetailView creates the detail panel on the overview tab.
func NewTaskDetailView() *TaskDetailView {
	return &TaskDetailView{}
}

// SetTab switches to the given tab if it exists.
func (d *TaskDetailView) SetTab(t InfoTab) {
	if t >= 0 && t < tabCount {
		d.Tab = t
	}
}

// SetSize updates the drawable width.
func (d *TaskDetailView) SetSize(width int) { d.width = width }

// Render draws the panel for t.
func (d *TaskDetailView) Render(t task.Task) string {
	var b strings.Builder

	b.WriteString(Styles.Title.Render(t.Name) + "  " + statusBadge(t.Status) + "\n")

	var tabs []string
	for i := InfoTab(0); i < tabCount; i++ {
		label := fmt.Sprintf("%d %s", i+1, tabTitles[i])
		if i == d.Tab {
			tabs = append(tabs, Styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, Styles.TabInactive.Render(label))
		}
	}
	b.WriteString(strings.Join(tabs, "  ") + "\n\n")

	switch d.Tab {
	case TabCommits:
		d.renderCommits(&b, t)
	case TabChanges:
		d.renderChanges(&b, t)
	case TabNotes:
		b.WriteString(Styles.Dim.Render("(notes are edited on the server)") + "\n")
	default:
		d.renderOverview(&b, t)
	}
	return b.String()
}

func (d *TaskDetailView) renderOverview(b *strings.Builder, t task.Task) {
	row := func(k, v string) {
		b.WriteString(Styles.Dim.Render(fmt.Sprintf("  %-10s", k)) + v + "\n")
	}
	row("branch", t.Branch)
	row("target", t.Target)
	row("status", string(t.Status))
	row("created", t.CreatedAt.Local().Format("2006-01-02 15:04"))
	row("updated", t.UpdatedAt.Local().Format("2006-01-02 15:04"))
	if t.WorktreePath != "" {
		row("worktree", t.WorktreePath)
	}
	b.WriteString("\n" + Styles.Header.Render("  enter session  c commit  s sync  m merge") + "\n")
}

func (d *TaskDetailView) renderCommits(b *strings.Builder, t task.Task) {
	if len(t.Commits) == 0 {
		b.WriteString(Styles.Dim.Render("  (no commits yet)") + "\n")
		return
	}
	for _, c := range t.Commits {
		hash := c.Hash
		if len(hash) > 8 {
			hash = hash[:8]
		}
		b.WriteString("  " + Styles.StatusMerged.Render(hash) + "  " + firstLine(c.Message))
		b.WriteString(Styles.Dim.Render("  "+c.Author) + "\n")
	}
}

func (d *TaskDetailView) renderChanges(b *strings.Builder, t task.Task) {
	b.WriteString(fmt.Sprintf("  %s files changed\n", Styles.Normal.Render(fmt.Sprintf("%d", t.FilesChanged))))
	b.WriteString("  " + Styles.StatusLive.Render(fmt.Sprintf("+%d", t.Additions)) +
		"  " + Styles.StatusBad.Render(fmt.Sprintf("−%d", t.Deletions)) + "\n")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
