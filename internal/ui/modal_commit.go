package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/fuzzy"
)

// CommitModal collects a commit message. Typing "@" starts a file mention:
// the word after it fuzzy-matches the task's changed files and Tab inserts
// the highlighted path.
type CommitModal struct {
	input textinput.Model
	Err   string

	// Files are the task's changed file paths, loaded asynchronously
	// after the dialog opens.
	Files []string

	matches     []fuzzy.Match
	matchCursor int
}

var _ View = (*CommitModal)(nil)

// NewCommitModal creates the commit dialog.
func NewCommitModal() *CommitModal {
	ti := textinput.New()
	ti.Placeholder = "commit message"
	ti.Width = 60
	ti.Focus()
	return &CommitModal{input: ti}
}

// SetFiles installs the mention candidates once they load.
func (m *CommitModal) SetFiles(files []string) {
	m.Files = files
	m.refreshMatches()
}

// CanSubmit reports whether the message is non-empty. An empty message is
// a validation error caught before any network call.
func (m *CommitModal) CanSubmit() bool {
	return strings.TrimSpace(m.input.Value()) != ""
}

// Init implements View.
func (m *CommitModal) Init() tea.Cmd { return textinput.Blink }

// Update implements View.
func (m *CommitModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, func() tea.Msg { return dismissModalMsg{} }
		case "up":
			if len(m.matches) > 0 && m.matchCursor > 0 {
				m.matchCursor--
				return m, nil
			}
		case "down":
			if len(m.matches) > 0 && m.matchCursor < len(m.matches)-1 {
				m.matchCursor++
				return m, nil
			}
		case "tab":
			if len(m.matches) > 0 {
				m.completeMention()
				return m, nil
			}
		case "enter":
			if !m.CanSubmit() {
				return m, nil
			}
			message := strings.TrimSpace(m.input.Value())
			return m, func() tea.Msg { return submitCommitMsg{message: message} }
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches()
	return m, cmd
}

// mentionQuery returns the text after a trailing "@"-word, or ("", false).
func (m *CommitModal) mentionQuery() (string, bool) {
	text := m.input.Value()
	i := strings.LastIndexByte(text, '@')
	if i < 0 {
		return "", false
	}
	word := text[i+1:]
	if strings.ContainsAny(word, " \t") {
		return "", false
	}
	return word, true
}

func (m *CommitModal) refreshMatches() {
	query, ok := m.mentionQuery()
	if !ok || len(m.Files) == 0 {
		m.matches = nil
		m.matchCursor = 0
		return
	}
	m.matches = fuzzy.Rank(query, m.Files)
	if m.matchCursor >= len(m.matches) {
		m.matchCursor = 0
	}
}

// completeMention replaces the trailing @word with the highlighted path.
func (m *CommitModal) completeMention() {
	text := m.input.Value()
	i := strings.LastIndexByte(text, '@')
	if i < 0 || m.matchCursor >= len(m.matches) {
		return
	}
	completed := text[:i] + m.matches[m.matchCursor].Str
	m.input.SetValue(completed)
	m.input.CursorEnd()
	m.matches = nil
	m.matchCursor = 0
}

// View implements View.
func (m *CommitModal) View() string {
	content := ModalStyles.Title.Render("Commit changes") + "\n\n"
	content += m.input.View() + "\n"
	for i, match := range m.matches {
		bullet := "  "
		line := match.Str
		if i == m.matchCursor {
			bullet = "▸ "
			content += bullet + Styles.Selected.Render(line) + "\n"
		} else {
			content += bullet + Styles.Dim.Render(line) + "\n"
		}
	}
	if m.Err != "" {
		content += "\n" + Styles.InlineError.Render(m.Err)
	}
	hint := "Enter: commit  @: mention file  Esc: cancel"
	if !m.CanSubmit() {
		hint = "message required  Esc: cancel"
	}
	content += "\n" + ModalStyles.Help.Render(hint)
	return ModalStyles.BoxDefault.Render(content)
}
