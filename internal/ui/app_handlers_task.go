package ui

import (
	"errors"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/api"
	"taskdeck/internal/task"
)

// handleMsg is the non-key message switch: navigation intents, dialog
// submissions, and orchestrator completion messages.
func (a *AppModel) handleMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	// --- navigation ---

	case selectDeltaMsg:
		a.selectDelta(msg.delta)
		return a, nil

	case confirmMsg:
		return a, a.handleConfirm()

	case closeMsg:
		switch a.mode {
		case ModeSession:
			a.closeSession()
		case ModeDetail:
			a.mode = ModeList
		}
		return a, nil

	case setTabMsg:
		a.detail.SetTab(msg.tab)
		if a.mode == ModeList && a.selectedID != "" {
			a.mode = ModeDetail
		}
		return a, nil

	case startSearchMsg:
		if a.mode == ModeSession {
			return a, nil
		}
		a.mode = ModeList
		return a, a.list.StartSearch()

	case toggleArchivedMsg:
		if a.filter == api.FilterArchived {
			a.filter = api.FilterActive
		} else {
			a.filter = api.FilterArchived
		}
		a.returnToList()
		return a, a.refresh()

	case togglePanelMsg:
		if a.sidePanel == msg.panel {
			a.sidePanel = PanelNone
		} else {
			a.sidePanel = msg.panel
		}
		return a, nil

	// --- direct action intents ---

	case syncSelectedMsg:
		if t, ok := a.selectedTask(); ok {
			return a, a.orch.Sync(a.project.ID, t.ID)
		}
		return a, nil

	case mergeSelectedMsg:
		if t, ok := a.selectedTask(); ok {
			a.mergeTaskID = t.ID
			return a, a.orch.MergeBegin(a.project.ID, t.ID)
		}
		return a, nil

	case archiveSelectedMsg:
		if t, ok := a.selectedTask(); ok {
			return a, a.orch.Archive(a.project.ID, t.ID, false)
		}
		return a, nil

	case recoverSelectedMsg:
		if t, ok := a.selectedTask(); ok {
			return a, a.orch.Recover(a.project.ID, t.ID)
		}
		return a, nil

	// --- dialog intents ---

	case showCreateTaskMsg:
		a.dialog = NewCreateTaskModal(a.project.CurrentBranch)
		return a, a.dialog.Init()

	case showCommitMsg:
		t, ok := a.selectedTask()
		if !ok {
			return a, nil
		}
		dialog := NewCommitModal()
		a.dialog = dialog
		return a, tea.Batch(dialog.Init(), a.orch.LoadChangedFiles(a.project.ID, t.ID))

	case showRebaseMsg:
		t, ok := a.selectedTask()
		if !ok {
			return a, nil
		}
		a.dialog = NewRebaseModal(t, nil)
		return a, a.orch.LoadBranches(a.project.ID)

	case showResetConfirmMsg:
		t, ok := a.selectedTask()
		if !ok {
			return a, nil
		}
		id := t.ID
		a.dialog = NewConfirmModal("Reset task", "Discard all uncommitted changes in "+t.Name+"?",
			func() tea.Msg { return confirmResetMsg{taskID: id} })
		return a, nil

	case showCleanConfirmMsg:
		t, ok := a.selectedTask()
		if !ok {
			return a, nil
		}
		id := t.ID
		a.dialog = NewConfirmModal("Delete task", "Permanently delete "+t.Name+"?",
			func() tea.Msg { return confirmCleanMsg{taskID: id} }).
			WithDetails("The branch and worktree are removed. This cannot be undone.")
		return a, nil

	case showContextMenuMsg:
		t, ok := a.selectedTask()
		if !ok {
			return a, nil
		}
		a.dialog = NewContextMenuModal(t.Name, contextMenuItems(t))
		return a, nil

	case contextMenuSelectMsg:
		a.dialog = nil
		return a.handleMsg(msg.action)

	case showHelpMsg:
		a.dialog = NewHelpModal(a.keys.Hints())
		return a, nil

	case showProjectSwitcherMsg:
		a.dialog = NewProjectSwitcherModal(a.projects, a.project.ID)
		return a, nil

	case dismissModalMsg:
		a.dialog = nil
		return a, nil

	// --- dialog submissions ---

	case submitCreateTaskMsg:
		return a, a.orch.Create(a.project.ID, msg.name, msg.target, msg.notes)

	case submitCommitMsg:
		if t, ok := a.selectedTask(); ok {
			return a, a.orch.Commit(a.project.ID, t.ID, msg.message)
		}
		a.dialog = nil
		return a, nil

	case submitRebaseMsg:
		if t, ok := a.selectedTask(); ok {
			return a, a.orch.Rebase(a.project.ID, t.ID, msg.target)
		}
		a.dialog = nil
		return a, nil

	case submitMergeMethodMsg:
		a.dialog = nil
		return a, a.orch.MergeSubmit(a.project.ID, a.mergeTaskID, msg.method)

	case postMergeArchiveDecisionMsg:
		a.dialog = nil
		if msg.accepted {
			return a, a.orch.Archive(a.project.ID, msg.taskID, true)
		}
		a.returnToList()
		return a, nil

	case confirmResetMsg:
		a.dialog = nil
		return a, a.orch.Reset(a.project.ID, msg.taskID)

	case confirmCleanMsg:
		a.dialog = nil
		return a, a.orch.Clean(a.project.ID, msg.taskID)

	case selectProjectMsg:
		a.dialog = nil
		if msg.project.ID == a.project.ID {
			return a, nil
		}
		a.setProject(msg.project)
		return a, a.refresh()

	// --- completion messages ---

	case projectsLoadedMsg:
		return a.handleProjectsLoaded(msg)

	case tasksRefreshedMsg:
		return a.handleTasksRefreshed(msg)

	case createDoneMsg:
		return a.handleCreateDone(msg)

	case commitDoneMsg:
		a.orch.finish(ActionCommit, errOf(msg.outcome))
		if !msg.outcome.OK {
			if commit, ok := a.dialog.(*CommitModal); ok {
				commit.Err = msg.outcome.Message
				return a, nil
			}
			return a, a.showToast(msg.outcome.Message, true)
		}
		a.dialog = nil
		toast := a.showToast(orDefault(msg.outcome.Message, "changes committed"), false)
		return a, tea.Batch(toast, a.refresh())

	case syncDoneMsg:
		a.orch.finish(ActionSync, errOf(msg.outcome))
		if !msg.outcome.OK {
			return a, a.showToast(msg.outcome.Message, true)
		}
		toast := a.showToast(orDefault(msg.outcome.Message, "task synced"), false)
		return a, tea.Batch(toast, a.refresh())

	case rebaseBranchesMsg:
		if rebase, ok := a.dialog.(*RebaseModal); ok {
			if msg.err != nil {
				rebase.Err = "failed to load branches"
			} else {
				rebase.Branches = msg.branches
			}
		}
		return a, nil

	case rebaseDoneMsg:
		a.orch.finish(ActionRebase, errOf(msg.outcome))
		if !msg.outcome.OK {
			if rebase, ok := a.dialog.(*RebaseModal); ok {
				rebase.Err = msg.outcome.Message
				return a, nil
			}
			return a, a.showToast(msg.outcome.Message, true)
		}
		a.dialog = nil
		// Patch the target locally so the detail panel does not lag behind
		// the server; the refresh overwrites it.
		applyRebasePatch(a.tasks, msg.taskID, msg.target)
		toast := a.showToast("target changed to "+msg.target, false)
		return a, tea.Batch(toast, a.refresh())

	case mergeCountMsg:
		return a.handleMergeCount(msg)

	case mergeDoneMsg:
		return a.handleMergeDone(msg)

	case archiveDoneMsg:
		a.orch.finish(ActionArchive, errOf(msg.outcome))
		if !msg.outcome.OK {
			if msg.postMerge {
				// The merge itself succeeded; the failed archive is recorded
				// on the action and the flow still returns to the list.
				a.returnToList()
				return a, a.refresh()
			}
			return a, a.showToast(msg.outcome.Message, true)
		}
		a.returnToList()
		toast := a.showToast("task archived", false)
		return a, tea.Batch(toast, a.refresh())

	case recoverDoneMsg:
		a.orch.finish(ActionRecover, errOf(msg.outcome))
		if !msg.outcome.OK {
			return a, a.showToast(msg.outcome.Message, true)
		}
		// The task now lives in the active set; follow it there so the
		// archived view is not left showing a ghost.
		if i := task.IndexByID(a.archived, msg.taskID); i >= 0 {
			a.archived = append(a.archived[:i], a.archived[i+1:]...)
		}
		a.filter = api.FilterActive
		a.returnToList()
		toast := a.showToast("task recovered", false)
		return a, tea.Batch(toast, a.refresh())

	case resetDoneMsg:
		a.orch.finish(ActionReset, errOf(msg.outcome))
		if !msg.outcome.OK {
			return a, a.showToast(msg.outcome.Message, true)
		}
		toast := a.showToast(orDefault(msg.outcome.Message, "changes reset"), false)
		return a, tea.Batch(toast, a.refresh())

	case cleanDoneMsg:
		a.orch.finish(ActionClean, errOf(msg.outcome))
		if !msg.outcome.OK {
			return a, a.showToast(msg.outcome.Message, true)
		}
		a.returnToList()
		toast := a.showToast("task deleted", false)
		return a, tea.Batch(toast, a.refresh())

	// --- session lifecycle ---

	case sessionConnectedMsg:
		// Connected clears auto-start and triggers exactly one refresh, so
		// status flips caused by the session's startup are picked up.
		a.autoStart = false
		return a, a.refresh()

	case sessionDisconnectedMsg:
		if a.session != nil && a.session.TaskID() == msg.taskID && a.mode == ModeSession {
			a.closeSession()
			return a, a.showToast("session ended", true)
		}
		return a, nil

	case toastExpiredMsg:
		if a.toast != nil && a.toast.shownAt.Equal(msg.shownAt) {
			a.toast = nil
		}
		return a, nil
	}

	return a, nil
}

// handleConfirm is Enter: list promotes the selection to detail, detail
// enters the session. Archived tasks never get a session.
func (a *AppModel) handleConfirm() tea.Cmd {
	switch a.mode {
	case ModeList:
		visible := a.visibleTasks()
		if len(visible) == 0 {
			return nil
		}
		if _, ok := a.selectedTask(); !ok {
			a.noteSelect(visible[0].ID)
			a.selectedID = visible[0].ID
			a.list.EnsureVisible(0)
		}
		a.mode = ModeDetail
		return nil
	case ModeDetail:
		t, ok := a.selectedTask()
		if !ok {
			return nil
		}
		if t.Archived() {
			var cmd tea.Cmd
			a.toast, cmd = newToast("archived tasks have no session; recover first", true, toastLightTTL)
			return cmd
		}
		return a.enterSession(t, false)
	}
	return nil
}

func (a *AppModel) handleProjectsLoaded(msg projectsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return a, a.showToast("failed to load projects", true)
	}
	a.projects = msg.projects
	if len(msg.projects) == 0 {
		return a, nil
	}
	pick := msg.projects[0]
	if a.store != nil {
		if last, err := a.store.LastProject(); err == nil && last != "" {
			for _, p := range msg.projects {
				if p.ID == last {
					pick = p
					break
				}
			}
		}
	}
	a.setProject(pick)
	return a, a.refresh()
}

// setProject switches the workspace to p: caches clear, selection drops,
// the mode returns to list, and the choice is persisted.
func (a *AppModel) setProject(p task.Project) {
	a.project = p
	a.tasks = nil
	a.archived = nil
	a.filter = api.FilterActive
	a.returnToList()
	if a.store != nil {
		// Best effort: a failed write costs only the remembered selection.
		_ = a.store.SetLastProject(p.ID)
	}
}

// handleTasksRefreshed replaces the task collection wholesale. A selection
// that no longer resolves is dropped, together with any mode that depends
// on it.
func (a *AppModel) handleTasksRefreshed(msg tasksRefreshedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// The stale collection stays on screen; refreshes are idempotent
		// and the next one may succeed.
		return a, a.showToast("failed to refresh tasks", true)
	}
	if msg.filter == api.FilterArchived {
		a.archived = msg.tasks
	} else {
		a.tasks = msg.tasks
	}
	if msg.filter != a.filter {
		return a, nil
	}
	t, ok := a.selectedTask()
	if !ok && a.selectedID != "" {
		a.selectedID = ""
		if a.mode == ModeSession {
			a.closeSession()
		}
		a.mode = ModeList
		return a, nil
	}
	if ok && a.mode == ModeSession && a.session != nil {
		a.session.Rebind(t)
	}
	return a, nil
}

func (a *AppModel) handleCreateDone(msg createDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.orch.finish(ActionCreate, msg.err.Error())
		if create, ok := a.dialog.(*CreateTaskModal); ok {
			create.Err = createErrorMessage(msg.err)
			return a, nil
		}
		return a, a.showToast(createErrorMessage(msg.err), true)
	}
	a.orch.finish(ActionCreate, "")
	a.dialog = nil
	a.tasks = append(a.tasks, msg.created)
	a.selectedID = msg.created.ID
	// A new task goes straight to work: session mode with auto-start, which
	// the connected signal clears.
	sessionCmd := a.enterSession(msg.created, true)
	return a, tea.Batch(sessionCmd, a.refresh())
}

func (a *AppModel) handleMergeCount(msg mergeCountMsg) (tea.Model, tea.Cmd) {
	// Pending covered the count fetch; the dialog (or the direct submit)
	// re-arms it.
	a.orch.finish(ActionMerge, "")
	name := msg.taskID
	if i := task.IndexByID(a.tasks, msg.taskID); i >= 0 {
		name = a.tasks[i].Name
	}
	if msg.err != nil {
		// Count unknown: fall back to asking, never guess a method.
		a.dialog = NewMergeMethodModal(name)
		return a, nil
	}
	if msg.total <= 1 {
		// Every method produces the same history for a single commit, so
		// the choice is skipped.
		return a, a.orch.MergeSubmit(a.project.ID, msg.taskID, api.MergeCommit)
	}
	a.dialog = NewMergeMethodModal(name)
	return a, nil
}

func (a *AppModel) handleMergeDone(msg mergeDoneMsg) (tea.Model, tea.Cmd) {
	a.orch.finish(ActionMerge, errOf(msg.outcome))
	if !msg.outcome.OK {
		return a, a.showToast(msg.outcome.Message, true)
	}
	id := msg.taskID
	a.dialog = NewConfirmModal("Task merged", "Archive the merged task?",
		func() tea.Msg { return postMergeArchiveDecisionMsg{accepted: true, taskID: id} }).
		WithCancel(func() tea.Msg { return postMergeArchiveDecisionMsg{accepted: false, taskID: id} })
	return a, a.refresh()
}

// createErrorMessage maps a creation failure to a fixed, user-facing
// message per known cause; unknown causes get the generic fallback.
func createErrorMessage(err error) string {
	var se *api.ServerError
	if !errors.As(err, &se) {
		return "failed to create task"
	}
	if se.Message != "" {
		return se.Message
	}
	switch se.StatusCode {
	case http.StatusConflict:
		return "a task with that name already exists"
	case http.StatusBadRequest:
		return "invalid task name or target branch"
	default:
		return "failed to create task"
	}
}

func errOf(o api.Outcome) string {
	if o.OK {
		return ""
	}
	return o.Message
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
