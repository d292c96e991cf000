package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/task"
)

// ContextMenuItem is one action row in the context menu.
type ContextMenuItem struct {
	Label string
	Msg   tea.Msg
}

// ContextMenuModal lists the actions that apply to the selected task, so
// every operation is reachable without memorizing chords.
type ContextMenuModal struct {
	TaskName string
	Items    []ContextMenuItem
	Cursor   int
}

var _ View = (*ContextMenuModal)(nil)

// NewContextMenuModal creates the menu over the given items.
func NewContextMenuModal(taskName string, items []ContextMenuItem) *ContextMenuModal {
	return &ContextMenuModal{TaskName: taskName, Items: items}
}

// contextMenuItems builds the menu for t's current state: archived tasks
// get the recovery pair, everything else the full action set, with the
// git-flow actions gated the same way their chords are.
func contextMenuItems(t task.Task) []ContextMenuItem {
	if t.Archived() {
		return []ContextMenuItem{
			{Label: "recover from archive", Msg: recoverSelectedMsg{}},
			{Label: "delete task", Msg: showCleanConfirmMsg{}},
		}
	}
	items := []ContextMenuItem{
		{Label: "commit changes", Msg: showCommitMsg{}},
	}
	if t.Actionable() {
		items = append(items,
			ContextMenuItem{Label: "sync with target", Msg: syncSelectedMsg{}},
			ContextMenuItem{Label: "change target branch", Msg: showRebaseMsg{}},
			ContextMenuItem{Label: "merge", Msg: mergeSelectedMsg{}},
		)
	}
	return append(items,
		ContextMenuItem{Label: "archive task", Msg: archiveSelectedMsg{}},
		ContextMenuItem{Label: "reset changes", Msg: showResetConfirmMsg{}},
		ContextMenuItem{Label: "delete task", Msg: showCleanConfirmMsg{}},
	)
}

// Init implements View.
func (m *ContextMenuModal) Init() tea.Cmd { return nil }

// Update implements View.
func (m *ContextMenuModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", ".":
			return m, func() tea.Msg { return dismissModalMsg{} }
		case "j", "down":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
			}
		case "k", "up":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "enter":
			if len(m.Items) == 0 {
				return m, nil
			}
			item := m.Items[m.Cursor]
			return m, func() tea.Msg { return contextMenuSelectMsg{action: item.Msg} }
		}
	}
	return m, nil
}

// View implements View.
func (m *ContextMenuModal) View() string {
	content := ModalStyles.Title.Render(m.TaskName) + "\n\n"
	for i, item := range m.Items {
		if i == m.Cursor {
			content += "▸ " + Styles.Selected.Render(item.Label) + "\n"
		} else {
			content += "  " + Styles.Normal.Render(item.Label) + "\n"
		}
	}
	content += "\n" + ModalStyles.Help.Render("Enter: run  Esc: close")
	return ModalStyles.BoxCompact.Render(content)
}
