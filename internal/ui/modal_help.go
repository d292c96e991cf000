package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// HelpModal lists every chord with its description. Disabled bindings are
// dimmed. The help toggle itself is always enabled.
type HelpModal struct {
	hints []Hint
}

var _ View = (*HelpModal)(nil)

// NewHelpModal snapshots the dispatcher's hints.
func NewHelpModal(hints []Hint) *HelpModal {
	return &HelpModal{hints: hints}
}

// Init implements View.
func (m *HelpModal) Init() tea.Cmd { return nil }

// Update implements View.
func (m *HelpModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "?", "q":
			return m, func() tea.Msg { return dismissModalMsg{} }
		}
	}
	return m, nil
}

// View implements View.
func (m *HelpModal) View() string {
	content := ModalStyles.Title.Render("Keys") + "\n\n"
	for _, h := range m.hints {
		line := fmt.Sprintf("%-12s %s", h.Chord, h.Desc)
		if h.Enabled {
			content += Styles.Normal.Render(line) + "\n"
		} else {
			content += Styles.Dim.Render(line) + "\n"
		}
	}
	content += "\n" + ModalStyles.Help.Render("Esc: close")
	return ModalStyles.BoxCompact.Render(content)
}
