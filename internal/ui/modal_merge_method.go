package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/api"
)

// mergeMethodOption pairs a method with its history-shape description.
type mergeMethodOption struct {
	method api.MergeMethod
	desc   string
}

var mergeMethodOptions = []mergeMethodOption{
	{api.MergeCommit, "keep all commits, add a merge commit"},
	{api.MergeSquash, "collapse into a single commit"},
	{api.MergeRebase, "replay commits onto the target"},
}

// MergeMethodModal asks how a multi-commit task should land on its target.
// Single-commit tasks never see this dialog; every method produces the
// same history for them.
type MergeMethodModal struct {
	TaskName string
	Cursor   int
	Err      string
}

var _ View = (*MergeMethodModal)(nil)

// NewMergeMethodModal creates the method-selection dialog.
func NewMergeMethodModal(taskName string) *MergeMethodModal {
	return &MergeMethodModal{TaskName: taskName}
}

// Init implements View.
func (m *MergeMethodModal) Init() tea.Cmd { return nil }

// Update implements View.
func (m *MergeMethodModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, func() tea.Msg { return dismissModalMsg{} }
		case "j", "down":
			if m.Cursor < len(mergeMethodOptions)-1 {
				m.Cursor++
			}
		case "k", "up":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "enter":
			method := mergeMethodOptions[m.Cursor].method
			return m, func() tea.Msg { return submitMergeMethodMsg{method: method} }
		}
	}
	return m, nil
}

// View implements View.
func (m *MergeMethodModal) View() string {
	content := ModalStyles.Title.Render("Merge "+m.TaskName) + "\n\n"
	for i, opt := range mergeMethodOptions {
		bullet := "  "
		line := fmt.Sprintf("%-12s %s", opt.method, opt.desc)
		if i == m.Cursor {
			bullet = "▸ "
			line = Styles.Selected.Render(line)
		} else {
			line = Styles.Normal.Render(line)
		}
		content += bullet + line + "\n"
	}
	if m.Err != "" {
		content += "\n" + Styles.InlineError.Render(m.Err)
	}
	content += "\n" + ModalStyles.Help.Render("Enter: merge  Esc: cancel")
	return ModalStyles.BoxDefault.Render(content)
}
