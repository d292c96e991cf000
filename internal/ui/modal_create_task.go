package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// CreateTaskModal collects a task name, target branch, and optional notes.
// Submit stays disabled until name and target are non-empty; server
// failures surface inline and keep the dialog open for correction.
type CreateTaskModal struct {
	name   textinput.Model
	target textinput.Model
	notes  textinput.Model
	focus  int
	Err    string
}

var _ View = (*CreateTaskModal)(nil)

// NewCreateTaskModal creates the dialog with target pre-filled from the
// project's current branch.
func NewCreateTaskModal(currentBranch string) *CreateTaskModal {
	name := textinput.New()
	name.Placeholder = "task-name"
	name.Width = 40
	name.Focus()

	target := textinput.New()
	target.Placeholder = "target branch"
	target.Width = 40
	target.SetValue(currentBranch)

	notes := textinput.New()
	notes.Placeholder = "notes (optional)"
	notes.Width = 40

	return &CreateTaskModal{name: name, target: target, notes: notes}
}

// CanSubmit reports whether the required fields are filled. Validation
// failures never reach the network; the submit control is just disabled.
func (m *CreateTaskModal) CanSubmit() bool {
	return strings.TrimSpace(m.name.Value()) != "" && strings.TrimSpace(m.target.Value()) != ""
}

// Init implements View.
func (m *CreateTaskModal) Init() tea.Cmd { return textinput.Blink }

// Update implements View.
func (m *CreateTaskModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, func() tea.Msg { return dismissModalMsg{} }
		case "tab", "shift+tab":
			if key.String() == "tab" {
				m.focus = (m.focus + 1) % 3
			} else {
				m.focus = (m.focus + 2) % 3
			}
			m.applyFocus()
			return m, nil
		case "enter":
			if !m.CanSubmit() {
				return m, nil
			}
			name := strings.TrimSpace(m.name.Value())
			target := strings.TrimSpace(m.target.Value())
			notes := strings.TrimSpace(m.notes.Value())
			return m, func() tea.Msg {
				return submitCreateTaskMsg{name: name, target: target, notes: notes}
			}
		}
	}
	var cmd tea.Cmd
	switch m.focus {
	case 1:
		m.target, cmd = m.target.Update(msg)
	case 2:
		m.notes, cmd = m.notes.Update(msg)
	default:
		m.name, cmd = m.name.Update(msg)
	}
	return m, cmd
}

func (m *CreateTaskModal) applyFocus() {
	inputs := []*textinput.Model{&m.name, &m.target, &m.notes}
	for i, in := range inputs {
		if i == m.focus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

// View implements View.
func (m *CreateTaskModal) View() string {
	content := ModalStyles.Title.Render("New task") + "\n\n"
	content += m.name.View() + "\n"
	content += m.target.View() + "\n"
	content += m.notes.View() + "\n"
	if m.Err != "" {
		content += "\n" + Styles.InlineError.Render(m.Err)
	}
	hint := "Enter: create  Tab: next field  Esc: cancel"
	if !m.CanSubmit() {
		hint = "name and target required  Esc: cancel"
	}
	content += "\n" + ModalStyles.Help.Render(hint)
	return ModalStyles.BoxDefault.Render(content)
}
