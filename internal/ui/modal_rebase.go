package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/task"
)

// RebaseModal picks a new target branch from the project's branch list,
// fetched fresh before the dialog opened.
type RebaseModal struct {
	Task     task.Task
	Branches []string
	Cursor   int
	Err      string
}

var _ View = (*RebaseModal)(nil)

// NewRebaseModal creates the target-selection dialog. The task's current
// target is pre-selected.
func NewRebaseModal(t task.Task, branches []string) *RebaseModal {
	m := &RebaseModal{Task: t, Branches: branches}
	for i, b := range branches {
		if b == t.Target {
			m.Cursor = i
			break
		}
	}
	return m
}

// Init implements View.
func (m *RebaseModal) Init() tea.Cmd { return nil }

// Update implements View.
func (m *RebaseModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, func() tea.Msg { return dismissModalMsg{} }
		case "j", "down":
			if m.Cursor < len(m.Branches)-1 {
				m.Cursor++
			}
		case "k", "up":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "enter":
			if len(m.Branches) == 0 {
				return m, nil
			}
			target := m.Branches[m.Cursor]
			return m, func() tea.Msg { return submitRebaseMsg{target: target} }
		}
	}
	return m, nil
}

// View implements View.
func (m *RebaseModal) View() string {
	content := ModalStyles.Title.Render("Change target branch") + "\n"
	content += ModalStyles.Label.Render("Task: "+m.Task.Name) + "\n\n"
	if len(m.Branches) == 0 {
		content += Styles.Dim.Render("(no branches)") + "\n"
	}
	for i, b := range m.Branches {
		bullet := "  "
		line := b
		if b == m.Task.Target {
			line += "  (current)"
		}
		if i == m.Cursor {
			bullet = "▸ "
			content += bullet + Styles.Selected.Render(line) + "\n"
		} else {
			content += bullet + Styles.Normal.Render(line) + "\n"
		}
	}
	if m.Err != "" {
		content += "\n" + Styles.InlineError.Render(m.Err)
	}
	content += "\n" + ModalStyles.Help.Render("Enter: rebase  Esc: cancel")
	return ModalStyles.BoxDefault.Render(content)
}
