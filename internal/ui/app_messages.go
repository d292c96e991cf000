package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/api"
	"taskdeck/internal/task"
)

// Completion messages from orchestrator commands.

type tasksRefreshedMsg struct {
	filter api.Filter
	tasks  []task.Task
	err    error
}

type projectsLoadedMsg struct {
	projects []task.Project
	err      error
}

type createDoneMsg struct {
	created task.Task
	err     error
}

type commitDoneMsg struct {
	outcome api.Outcome
}

type syncDoneMsg struct {
	outcome api.Outcome
}

type rebaseBranchesMsg struct {
	branches []string
	err      error
}

type rebaseDoneMsg struct {
	taskID  string
	target  string
	outcome api.Outcome
}

// mergeCountMsg carries the fresh commit count that decides the merge
// method branch.
type mergeCountMsg struct {
	taskID string
	total  int
	err    error
}

type mergeDoneMsg struct {
	taskID  string
	outcome api.Outcome
}

type archiveDoneMsg struct {
	postMerge bool
	outcome   api.Outcome
}

type recoverDoneMsg struct {
	taskID  string
	outcome api.Outcome
}

type resetDoneMsg struct {
	outcome api.Outcome
}

type cleanDoneMsg struct {
	taskID  string
	outcome api.Outcome
}

type changedFilesMsg struct {
	files []string
	err   error
}

// Session surface lifecycle signals. The controller only uses connected to
// clear the auto-start flag and trigger one refresh.

type sessionConnectedMsg struct {
	taskID string
}

type sessionDisconnectedMsg struct {
	taskID string
}

// sessionOutputMsg carries bytes read from the session PTY.
type sessionOutputMsg struct {
	data []byte
}

// Navigation intents raised by keybindings.

// selectDeltaMsg moves the selection by delta with wraparound.
type selectDeltaMsg struct{ delta int }

// confirmMsg is Enter: promote the selection, or enter the session.
type confirmMsg struct{}

// closeMsg is Esc outside a dialog: session -> detail -> list.
type closeMsg struct{}

type setTabMsg struct{ tab InfoTab }
type startSearchMsg struct{}
type toggleArchivedMsg struct{}
type togglePanelMsg struct{ panel SidePanel }

// Direct action intents (no dialog between chord and call).

type syncSelectedMsg struct{}
type mergeSelectedMsg struct{}
type archiveSelectedMsg struct{}
type recoverSelectedMsg struct{}

// Dialog intents raised by keybindings.

type showCreateTaskMsg struct{}
type showContextMenuMsg struct{}
type showCommitMsg struct{}
type showRebaseMsg struct{}
type showResetConfirmMsg struct{}
type showCleanConfirmMsg struct{}
type showHelpMsg struct{}
type showProjectSwitcherMsg struct{}

// Dialog submissions.

type submitCreateTaskMsg struct {
	name   string
	target string
	notes  string
}

type submitCommitMsg struct {
	message string
}

type submitRebaseMsg struct {
	target string
}

type submitMergeMethodMsg struct {
	method api.MergeMethod
}

// postMergeArchiveDecisionMsg closes the post-merge confirmation either
// way; accepted selects whether the archive call is issued.
type postMergeArchiveDecisionMsg struct {
	accepted bool
	taskID   string
}

type confirmResetMsg struct{ taskID string }
type confirmCleanMsg struct{ taskID string }

type selectProjectMsg struct {
	project task.Project
}

// contextMenuSelectMsg closes the context menu and dispatches the chosen
// action's intent, as if its chord had fired.
type contextMenuSelectMsg struct {
	action tea.Msg
}

// dismissModalMsg closes the top dialog (Esc). It does not abort in-flight
// requests; their effects still apply when they resolve.
type dismissModalMsg struct{}

// toastExpiredMsg clears the toast created at the given time.
type toastExpiredMsg struct {
	shownAt time.Time
}
