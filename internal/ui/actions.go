package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/api"
	"taskdeck/internal/task"
)

// Action identifies one logical user action for pending/error bookkeeping.
type Action string

const (
	ActionCreate  Action = "create"
	ActionCommit  Action = "commit"
	ActionSync    Action = "sync"
	ActionRebase  Action = "rebase"
	ActionMerge   Action = "merge"
	ActionArchive Action = "archive"
	ActionRecover Action = "recover"
	ActionReset   Action = "reset"
	ActionClean   Action = "clean"
)

type actionState struct {
	pending bool
	lastErr string
}

// Orchestrator sequences each user action into one or more client calls.
// Every action tracks its own pending flag and last error; a commit retry
// is never blocked by a stale sync failure, and an action already in
// flight no-ops on re-invocation.
type Orchestrator struct {
	client api.Client
	states map[Action]*actionState
}

// NewOrchestrator creates an orchestrator over the given client.
func NewOrchestrator(client api.Client) *Orchestrator {
	return &Orchestrator{
		client: client,
		states: make(map[Action]*actionState),
	}
}

func (o *Orchestrator) state(a Action) *actionState {
	s, ok := o.states[a]
	if !ok {
		s = &actionState{}
		o.states[a] = s
	}
	return s
}

// Pending reports whether the action has a call in flight.
func (o *Orchestrator) Pending(a Action) bool { return o.state(a).pending }

// LastError returns the action's most recent failure message, or "".
func (o *Orchestrator) LastError(a Action) string { return o.state(a).lastErr }

// begin marks the action pending. Returns false when it already is, which
// makes duplicate submissions no-ops.
func (o *Orchestrator) begin(a Action) bool {
	s := o.state(a)
	if s.pending {
		return false
	}
	s.pending = true
	s.lastErr = ""
	return true
}

// finish clears the pending flag and records the failure message, if any.
func (o *Orchestrator) finish(a Action, errMsg string) {
	s := o.state(a)
	s.pending = false
	s.lastErr = errMsg
}

// Refresh re-fetches the project's task collection wholesale. Refreshes
// are idempotent and intentionally unguarded: concurrent refreshes may
// race, and the last resolved one wins.
func (o *Orchestrator) Refresh(projectID string, filter api.Filter) tea.Cmd {
	return func() tea.Msg {
		tasks, err := o.client.ListTasks(context.Background(), projectID, filter)
		return tasksRefreshedMsg{filter: filter, tasks: tasks, err: err}
	}
}

// LoadProjects fetches the project roster.
func (o *Orchestrator) LoadProjects() tea.Cmd {
	return func() tea.Msg {
		projects, err := o.client.ListProjects(context.Background())
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

// Create creates a task. The creation dialog validates name and target
// before this is reached.
func (o *Orchestrator) Create(projectID, name, target, notes string) tea.Cmd {
	if !o.begin(ActionCreate) {
		return nil
	}
	return func() tea.Msg {
		created, err := o.client.CreateTask(context.Background(), projectID, name, target, notes)
		return createDoneMsg{created: created, err: err}
	}
}

// Commit commits the task's pending changes with the given message.
func (o *Orchestrator) Commit(projectID, taskID, message string) tea.Cmd {
	if !o.begin(ActionCommit) {
		return nil
	}
	return func() tea.Msg {
		res, err := o.client.CommitTask(context.Background(), projectID, taskID, message)
		return commitDoneMsg{outcome: api.Normalize("commit changes", res, err)}
	}
}

// Sync pulls the target branch into the task's branch.
func (o *Orchestrator) Sync(projectID, taskID string) tea.Cmd {
	if !o.begin(ActionSync) {
		return nil
	}
	return func() tea.Msg {
		res, err := o.client.SyncTask(context.Background(), projectID, taskID)
		return syncDoneMsg{outcome: api.Normalize("sync task", res, err)}
	}
}

// LoadBranches fetches the branch list ahead of the rebase dialog.
func (o *Orchestrator) LoadBranches(projectID string) tea.Cmd {
	return func() tea.Msg {
		list, err := o.client.GetBranches(context.Background(), projectID)
		return rebaseBranchesMsg{branches: list.Branches, err: err}
	}
}

// Rebase moves the task onto a new target branch.
func (o *Orchestrator) Rebase(projectID, taskID, newTarget string) tea.Cmd {
	if !o.begin(ActionRebase) {
		return nil
	}
	return func() tea.Msg {
		res, err := o.client.RebaseTask(context.Background(), projectID, taskID, newTarget)
		return rebaseDoneMsg{taskID: taskID, target: newTarget, outcome: api.Normalize("change target branch", res, err)}
	}
}

// MergeBegin starts a merge by fetching the task's commit count fresh from
// the server. The count decides whether the method dialog is shown: a
// single-commit task merges identically under every method, so the choice
// is elided and "merge-commit" used directly.
func (o *Orchestrator) MergeBegin(projectID, taskID string) tea.Cmd {
	if !o.begin(ActionMerge) {
		return nil
	}
	return func() tea.Msg {
		log, err := o.client.GetCommits(context.Background(), projectID, taskID)
		return mergeCountMsg{taskID: taskID, total: log.Total, err: err}
	}
}

// MergeSubmit issues the merge with an explicit method, either decided by
// MergeBegin's count or chosen in the method dialog.
func (o *Orchestrator) MergeSubmit(projectID, taskID string, method api.MergeMethod) tea.Cmd {
	if !o.begin(ActionMerge) {
		return nil
	}
	return func() tea.Msg {
		res, err := o.client.MergeTask(context.Background(), projectID, taskID, method)
		return mergeDoneMsg{taskID: taskID, outcome: api.Normalize("merge task", res, err)}
	}
}

// Archive moves the task into the archived set. postMerge marks the
// archive offered right after a successful merge, whose failure is
// non-fatal to that flow.
func (o *Orchestrator) Archive(projectID, taskID string, postMerge bool) tea.Cmd {
	if !o.begin(ActionArchive) {
		return nil
	}
	return func() tea.Msg {
		err := o.client.ArchiveTask(context.Background(), projectID, taskID)
		return archiveDoneMsg{postMerge: postMerge, outcome: api.NormalizeErr("archive task", err)}
	}
}

// Recover returns an archived task to the active set.
func (o *Orchestrator) Recover(projectID, taskID string) tea.Cmd {
	if !o.begin(ActionRecover) {
		return nil
	}
	return func() tea.Msg {
		err := o.client.RecoverTask(context.Background(), projectID, taskID)
		return recoverDoneMsg{taskID: taskID, outcome: api.NormalizeErr("recover task", err)}
	}
}

// Reset discards the task's uncommitted changes.
func (o *Orchestrator) Reset(projectID, taskID string) tea.Cmd {
	if !o.begin(ActionReset) {
		return nil
	}
	return func() tea.Msg {
		res, err := o.client.ResetTask(context.Background(), projectID, taskID)
		return resetDoneMsg{outcome: api.Normalize("reset task", res, err)}
	}
}

// Clean deletes the task permanently.
func (o *Orchestrator) Clean(projectID, taskID string) tea.Cmd {
	if !o.begin(ActionClean) {
		return nil
	}
	return func() tea.Msg {
		err := o.client.DeleteTask(context.Background(), projectID, taskID)
		return cleanDoneMsg{taskID: taskID, outcome: api.NormalizeErr("delete task", err)}
	}
}

// LoadChangedFiles fetches the task's changed file paths for the mention
// picker in the commit dialog.
func (o *Orchestrator) LoadChangedFiles(projectID, taskID string) tea.Cmd {
	return func() tea.Msg {
		files, err := o.client.ChangedFiles(context.Background(), projectID, taskID)
		return changedFilesMsg{files: files, err: err}
	}
}

// applyRebasePatch locally patches the selected task's target so the UI
// does not lag behind the server between submit and refresh. The next
// refresh overwrites it; this is the only optimistic patch in the client.
func applyRebasePatch(tasks []task.Task, taskID, newTarget string) {
	if i := task.IndexByID(tasks, taskID); i >= 0 {
		tasks[i].Target = newTarget
	}
}
