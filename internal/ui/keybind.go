package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Binding wires one or more chords to a command. Enabled is re-evaluated on
// every dispatch, so a binding's availability tracks the current selection
// and mode without re-registration.
type Binding struct {
	Chords  []string // tea.KeyMsg.String() format: "j", "enter", "ctrl+c"
	Desc    string
	Enabled func() bool    // nil = always enabled
	Command func() tea.Msg // message produced when the chord fires
}

// Dispatcher routes key presses to bindings. When Suppressed reports true
// (focus is inside a nested interactive text surface), single-character
// chords do not fire; those keystrokes belong to the focused surface.
type Dispatcher struct {
	bindings   []Binding
	Suppressed func() bool
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Bind registers a binding. Later bindings win on chord conflicts.
func (d *Dispatcher) Bind(b Binding) {
	d.bindings = append(d.bindings, b)
}

// Handle processes a key press. Returns (consumed, cmd). A chord bound to a
// disabled binding is consumed without effect so it cannot leak into views
// with a different meaning — except under suppression, where the keystroke
// falls through to the focused surface instead.
func (d *Dispatcher) Handle(msg tea.KeyMsg) (bool, tea.Cmd) {
	chord := msg.String()
	suppressed := d.Suppressed != nil && d.Suppressed()
	if suppressed && isSingleCharChord(chord) {
		return false, nil
	}
	for i := len(d.bindings) - 1; i >= 0; i-- {
		b := d.bindings[i]
		if !chordMatches(b, chord) {
			continue
		}
		if b.Enabled != nil && !b.Enabled() {
			if suppressed {
				return false, nil
			}
			return true, nil
		}
		if b.Command == nil {
			return true, nil
		}
		return true, b.Command
	}
	return false, nil
}

// Hints returns chord/description pairs for the help view, in registration
// order, with disabled bindings dimmed out by the caller.
func (d *Dispatcher) Hints() []Hint {
	out := make([]Hint, 0, len(d.bindings))
	for _, b := range d.bindings {
		if b.Desc == "" {
			continue
		}
		enabled := b.Enabled == nil || b.Enabled()
		out = append(out, Hint{
			Chord:   strings.Join(b.Chords, "/"),
			Desc:    b.Desc,
			Enabled: enabled,
		})
	}
	return out
}

// Hint is one row of the help view.
type Hint struct {
	Chord   string
	Desc    string
	Enabled bool
}

func chordMatches(b Binding, chord string) bool {
	for _, c := range b.Chords {
		if c == chord {
			return true
		}
	}
	return false
}

// isSingleCharChord reports whether the chord is one printable character,
// the kind of keystroke a terminal or text input expects to receive.
func isSingleCharChord(chord string) bool {
	return len([]rune(chord)) == 1
}
