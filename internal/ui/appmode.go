package ui

// AppMode is how the workspace presents the selected task: the roster
// alone, the roster plus a detail panel, or the task's interactive session.
type AppMode int

const (
	ModeList AppMode = iota
	ModeDetail
	ModeSession
)

func (m AppMode) String() string {
	switch m {
	case ModeList:
		return "List"
	case ModeDetail:
		return "Detail"
	case ModeSession:
		return "Session"
	default:
		return "Unknown"
	}
}
