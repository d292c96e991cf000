package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/task"
)

// ProjectSwitcherModal picks the active project from the server's roster.
type ProjectSwitcherModal struct {
	Projects []task.Project
	Cursor   int
}

var _ View = (*ProjectSwitcherModal)(nil)

// NewProjectSwitcherModal creates the switcher with current pre-selected.
func NewProjectSwitcherModal(projects []task.Project, currentID string) *ProjectSwitcherModal {
	m := &ProjectSwitcherModal{Projects: projects}
	for i, p := range projects {
		if p.ID == currentID {
			m.Cursor = i
			break
		}
	}
	return m
}

// Init implements View.
func (m *ProjectSwitcherModal) Init() tea.Cmd { return nil }

// Update implements View.
func (m *ProjectSwitcherModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, func() tea.Msg { return dismissModalMsg{} }
		case "j", "down":
			if m.Cursor < len(m.Projects)-1 {
				m.Cursor++
			}
		case "k", "up":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "enter":
			if len(m.Projects) == 0 {
				return m, nil
			}
			p := m.Projects[m.Cursor]
			return m, func() tea.Msg { return selectProjectMsg{project: p} }
		}
	}
	return m, nil
}

// View implements View.
func (m *ProjectSwitcherModal) View() string {
	content := ModalStyles.Title.Render("Switch project") + "\n\n"
	if len(m.Projects) == 0 {
		content += Styles.Dim.Render("(no projects)") + "\n"
	}
	for i, p := range m.Projects {
		bullet := "  "
		line := p.Name + Styles.Dim.Render("  "+p.CurrentBranch)
		if i == m.Cursor {
			bullet = "▸ "
			content += bullet + Styles.Selected.Render(p.Name) + Styles.Dim.Render("  "+p.CurrentBranch) + "\n"
		} else {
			content += bullet + line + "\n"
		}
	}
	content += "\n" + ModalStyles.Help.Render("Enter: switch  Esc: cancel")
	return ModalStyles.BoxCompact.Render(content)
}
