package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Toast durations: general results linger a bit; light confirmations
// (e.g. "copied") clear faster.
const (
	toastTTL      = 3 * time.Second
	toastLightTTL = 2 * time.Second
)

// Toast is a transient, auto-dismissing status line.
type Toast struct {
	Message string
	Error   bool
	shownAt time.Time
}

// newToast creates a toast and the command that expires it. The shownAt
// stamp lets a stale expiry tick fall through when a newer toast replaced
// the old one.
func newToast(message string, isErr bool, ttl time.Duration) (*Toast, tea.Cmd) {
	t := &Toast{Message: message, Error: isErr, shownAt: time.Now()}
	cmd := tea.Tick(ttl, func(time.Time) tea.Msg {
		return toastExpiredMsg{shownAt: t.shownAt}
	})
	return t, cmd
}

// View renders the toast, or "" when empty.
func (t *Toast) View() string {
	if t == nil || t.Message == "" {
		return ""
	}
	if t.Error {
		return Styles.ToastError.Render(t.Message)
	}
	return Styles.Toast.Render(t.Message)
}
