package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type firedMsg struct{ name string }

func fire(name string) func() tea.Msg {
	return func() tea.Msg { return firedMsg{name: name} }
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestDispatcher_FiresBoundChord(t *testing.T) {
	d := NewDispatcher()
	d.Bind(Binding{Chords: []string{"j", "down"}, Command: fire("next")})

	consumed, cmd := d.Handle(key("j"))
	require.True(t, consumed)
	require.NotNil(t, cmd)
	assert.Equal(t, firedMsg{name: "next"}, cmd())
}

func TestDispatcher_AlternateChordSharesHandler(t *testing.T) {
	d := NewDispatcher()
	d.Bind(Binding{Chords: []string{"j", "down"}, Command: fire("next")})

	_, fromJ := d.Handle(key("j"))
	consumed, fromDown := d.Handle(tea.KeyMsg{Type: tea.KeyDown})
	require.True(t, consumed)
	assert.Equal(t, fromJ(), fromDown())
}

func TestDispatcher_UnboundChordNotConsumed(t *testing.T) {
	d := NewDispatcher()
	d.Bind(Binding{Chords: []string{"j"}, Command: fire("next")})

	consumed, cmd := d.Handle(key("z"))
	assert.False(t, consumed)
	assert.Nil(t, cmd)
}

func TestDispatcher_DisabledBindingConsumedWithoutEffect(t *testing.T) {
	d := NewDispatcher()
	d.Bind(Binding{
		Chords:  []string{"m"},
		Enabled: func() bool { return false },
		Command: fire("merge"),
	})

	consumed, cmd := d.Handle(key("m"))
	assert.True(t, consumed, "disabled chord must not leak to other views")
	assert.Nil(t, cmd)
}

func TestDispatcher_LastRegisteredWins(t *testing.T) {
	d := NewDispatcher()
	d.Bind(Binding{Chords: []string{"x"}, Command: fire("old")})
	d.Bind(Binding{Chords: []string{"x"}, Command: fire("new")})

	_, cmd := d.Handle(key("x"))
	require.NotNil(t, cmd)
	assert.Equal(t, firedMsg{name: "new"}, cmd())
}

func TestDispatcher_SuppressionBlocksSingleCharChords(t *testing.T) {
	d := NewDispatcher()
	d.Suppressed = func() bool { return true }
	d.Bind(Binding{Chords: []string{"c"}, Command: fire("commit")})

	consumed, cmd := d.Handle(key("c"))
	assert.False(t, consumed, "keystroke belongs to the focused surface")
	assert.Nil(t, cmd)
}

func TestDispatcher_SuppressionAllowsEsc(t *testing.T) {
	d := NewDispatcher()
	d.Suppressed = func() bool { return true }
	d.Bind(Binding{Chords: []string{"esc"}, Command: fire("close")})

	consumed, cmd := d.Handle(key("esc"))
	require.True(t, consumed)
	assert.Equal(t, firedMsg{name: "close"}, cmd())
}

func TestDispatcher_SuppressedDisabledChordFallsThrough(t *testing.T) {
	d := NewDispatcher()
	d.Suppressed = func() bool { return true }
	d.Bind(Binding{
		Chords:  []string{"enter"},
		Enabled: func() bool { return false },
		Command: fire("confirm"),
	})

	consumed, cmd := d.Handle(key("enter"))
	assert.False(t, consumed, "suppressed+disabled goes to the surface, not the void")
	assert.Nil(t, cmd)
}

func TestDispatcher_Hints(t *testing.T) {
	d := NewDispatcher()
	d.Bind(Binding{Chords: []string{"j", "down"}, Desc: "next task", Command: fire("next")})
	d.Bind(Binding{Chords: []string{"m"}, Desc: "merge",
		Enabled: func() bool { return false }, Command: fire("merge")})
	d.Bind(Binding{Chords: []string{"q"}, Command: fire("undocumented")})

	hints := d.Hints()
	require.Len(t, hints, 2, "bindings without a description are omitted")
	assert.Equal(t, Hint{Chord: "j/down", Desc: "next task", Enabled: true}, hints[0])
	assert.Equal(t, Hint{Chord: "m", Desc: "merge", Enabled: false}, hints[1])
}
