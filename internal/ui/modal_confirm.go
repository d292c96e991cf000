package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmModal is a generic confirmation dialog. Enter or y confirms; Esc
// cancels. Reset, clean, and the post-merge archive prompt all use it.
type ConfirmModal struct {
	Title     string
	Label     string
	Details   string
	OnConfirm func() tea.Msg
	OnCancel  func() tea.Msg // nil = plain dismiss

	boxStyle   lipgloss.Style
	titleStyle lipgloss.Style
}

var _ View = (*ConfirmModal)(nil)

// NewConfirmModal creates a confirmation dialog.
func NewConfirmModal(title, label string, onConfirm func() tea.Msg) *ConfirmModal {
	return &ConfirmModal{
		Title:      title,
		Label:      label,
		OnConfirm:  onConfirm,
		boxStyle:   ModalStyles.BoxWarning,
		titleStyle: ModalStyles.TitleWarning,
	}
}

// WithDetails adds warning details below the label.
func (m *ConfirmModal) WithDetails(details string) *ConfirmModal {
	m.Details = details
	return m
}

// WithCancel sets the message produced when the dialog is declined.
// Needed when declining has its own effect, like the post-merge archive
// prompt returning to the list either way.
func (m *ConfirmModal) WithCancel(onCancel func() tea.Msg) *ConfirmModal {
	m.OnCancel = onCancel
	return m
}

// Init implements View.
func (m *ConfirmModal) Init() tea.Cmd { return nil }

// Update implements View.
func (m *ConfirmModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "n":
			if m.OnCancel != nil {
				return m, m.OnCancel
			}
			return m, func() tea.Msg { return dismissModalMsg{} }
		case "enter", "y":
			if m.OnConfirm != nil {
				return m, m.OnConfirm
			}
		}
	}
	return m, nil
}

// View implements View.
func (m *ConfirmModal) View() string {
	content := m.titleStyle.Render(m.Title) + "\n\n"
	content += ModalStyles.Label.Render(m.Label)
	if m.Details != "" {
		content += "\n" + ModalStyles.Details.Render(m.Details)
	}
	content += "\n\n" + ModalStyles.Help.Render("y/Enter: confirm  n/Esc: cancel")
	return m.boxStyle.Render(content)
}
