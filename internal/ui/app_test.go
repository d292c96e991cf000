package ui

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/api"
	"taskdeck/internal/config"
	"taskdeck/internal/pty"
	"taskdeck/internal/task"
)

// fakeClient records calls and returns canned responses.
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	tasks       []task.Task
	archived    []task.Task
	projects    []task.Project
	created     task.Task
	createErr   error
	commitTotal int
	commitsErr  error
	result      api.Result
	resultErr   error

	lastMergeMethod api.MergeMethod
}

func newFakeClient() *fakeClient {
	return &fakeClient{result: api.Result{Success: true}}
}

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeClient) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeClient) ListProjects(ctx context.Context) ([]task.Project, error) {
	f.record("ListProjects")
	return f.projects, nil
}

func (f *fakeClient) ListTasks(ctx context.Context, projectID string, filter api.Filter) ([]task.Task, error) {
	f.record("ListTasks")
	if filter == api.FilterArchived {
		return f.archived, nil
	}
	return f.tasks, nil
}

func (f *fakeClient) CreateTask(ctx context.Context, projectID, name, target, notes string) (task.Task, error) {
	f.record("CreateTask")
	return f.created, f.createErr
}

func (f *fakeClient) CommitTask(ctx context.Context, projectID, taskID, message string) (api.Result, error) {
	f.record("CommitTask")
	return f.result, f.resultErr
}

func (f *fakeClient) SyncTask(ctx context.Context, projectID, taskID string) (api.Result, error) {
	f.record("SyncTask")
	return f.result, f.resultErr
}

func (f *fakeClient) RebaseTask(ctx context.Context, projectID, taskID, newTarget string) (api.Result, error) {
	f.record("RebaseTask")
	return f.result, f.resultErr
}

func (f *fakeClient) GetCommits(ctx context.Context, projectID, taskID string) (api.CommitLog, error) {
	f.record("GetCommits")
	return api.CommitLog{Total: f.commitTotal}, f.commitsErr
}

func (f *fakeClient) MergeTask(ctx context.Context, projectID, taskID string, method api.MergeMethod) (api.Result, error) {
	f.record("MergeTask")
	f.mu.Lock()
	f.lastMergeMethod = method
	f.mu.Unlock()
	return f.result, f.resultErr
}

func (f *fakeClient) ResetTask(ctx context.Context, projectID, taskID string) (api.Result, error) {
	f.record("ResetTask")
	return f.result, f.resultErr
}

func (f *fakeClient) ArchiveTask(ctx context.Context, projectID, taskID string) error {
	f.record("ArchiveTask")
	return f.resultErr
}

func (f *fakeClient) RecoverTask(ctx context.Context, projectID, taskID string) error {
	f.record("RecoverTask")
	return f.resultErr
}

func (f *fakeClient) DeleteTask(ctx context.Context, projectID, taskID string) error {
	f.record("DeleteTask")
	return f.resultErr
}

func (f *fakeClient) GetBranches(ctx context.Context, projectID string) (api.BranchList, error) {
	f.record("GetBranches")
	return api.BranchList{Branches: []string{"main", "develop"}}, nil
}

func (f *fakeClient) ChangedFiles(ctx context.Context, projectID, taskID string) ([]string, error) {
	f.record("ChangedFiles")
	return []string{"internal/server/handler.go"}, nil
}

var _ api.Client = (*fakeClient)(nil)

// fakePTY collects writes; reads block until Close.
type fakePTY struct {
	mu     sync.Mutex
	writes bytes.Buffer
	closed chan struct{}
	once   sync.Once
}

func (f *fakePTY) Read(p []byte) (int, error) {
	<-f.closed
	return 0, io.EOF
}

func (f *fakePTY) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes.Write(p)
}

func (f *fakePTY) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakePTY) written() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes.String()
}

type fakeRunner struct {
	mu   sync.Mutex
	last *fakePTY
}

func (r *fakeRunner) Start(cmd *exec.Cmd, size pty.Size) (io.ReadWriteCloser, error) {
	p := &fakePTY{closed: make(chan struct{})}
	r.mu.Lock()
	r.last = p
	r.mu.Unlock()
	return p, nil
}

func (r *fakeRunner) Resize(rwc io.ReadWriteCloser, size pty.Size) error { return nil }

func (r *fakeRunner) lastPTY() *fakePTY {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func mkTask(id string, status task.Status) task.Task {
	return task.Task{
		ID:     id,
		Name:   "task-" + id,
		Branch: "task/" + id,
		Target: "main",
		Status: status,
	}
}

func newTestApp(t *testing.T, tasks ...task.Task) (*AppModel, *fakeClient, *fakeRunner) {
	t.Helper()
	fake := newFakeClient()
	fake.tasks = tasks
	runner := &fakeRunner{}
	a := NewAppModel(fake, nil, config.Session{Command: "true"})
	a.runner = runner
	a.project = task.Project{ID: "p1", Name: "demo", CurrentBranch: "main"}
	a.tasks = tasks
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	t.Cleanup(func() {
		if a.session != nil {
			a.session.Close()
		}
	})
	return a, fake, runner
}

// press feeds one key through Update and returns the produced command.
func press(a *AppModel, s string) tea.Cmd {
	_, cmd := a.Update(key(s))
	return cmd
}

// step executes cmd and feeds its message back into the model, returning
// the next command. One step per round trip, so tests stay in control.
func step(t *testing.T, a *AppModel, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	if msg == nil {
		return nil
	}
	_, next := a.Update(msg)
	return next
}

// --- view-mode state machine ---

func TestSelect_PromotesListToDetail(t *testing.T) {
	a, _, _ := newTestApp(t, mkTask("t1", task.StatusIdle), mkTask("t2", task.StatusLive))

	cmd := press(a, "j")
	step(t, a, cmd)

	assert.Equal(t, ModeDetail, a.mode)
	assert.Equal(t, "t1", a.selectedID)
}

func TestSelectDelta_Wraparound(t *testing.T) {
	a, _, _ := newTestApp(t, mkTask("t1", task.StatusIdle), mkTask("t2", task.StatusIdle))

	a.handleMsg(selectDeltaMsg{delta: -1})
	assert.Equal(t, "t2", a.selectedID, "previous with no selection picks the last task")

	a.handleMsg(selectDeltaMsg{delta: 1})
	assert.Equal(t, "t1", a.selectedID, "next past the end wraps to the first")
}

func TestEnter_OpensSessionForSelected(t *testing.T) {
	a, _, _ := newTestApp(t, mkTask("t1", task.StatusIdle))
	a.selectedID = "t1"
	a.mode = ModeDetail

	cmd := press(a, "enter")
	step(t, a, cmd) // confirmMsg; the session init batch is not executed

	assert.Equal(t, ModeSession, a.mode)
	require.NotNil(t, a.session)
	assert.Equal(t, "t1", a.session.TaskID())
	assert.False(t, a.autoStart)
}

func TestEnter_RefusedForArchivedTask(t *testing.T) {
	a, _, _ := newTestApp(t)
	a.filter = api.FilterArchived
	a.archived = []task.Task{mkTask("t1", task.StatusArchived)}
	a.selectedID = "t1"
	a.mode = ModeDetail

	a.Update(confirmMsg{})

	assert.Equal(t, ModeDetail, a.mode, "archived tasks never get a session")
	assert.Nil(t, a.session)
	require.NotNil(t, a.toast)
	assert.True(t, a.toast.Error)
}

func TestEsc_WalksSessionDetailList(t *testing.T) {
	a, _, _ := newTestApp(t, mkTask("t1", task.StatusIdle))
	a.selectedID = "t1"
	a.mode = ModeDetail
	a.Update(confirmMsg{})
	require.Equal(t, ModeSession, a.mode)

	step(t, a, press(a, "esc"))
	assert.Equal(t, ModeDetail, a.mode)
	assert.Nil(t, a.session)

	step(t, a, press(a, "esc"))
	assert.Equal(t, ModeList, a.mode)
	assert.Equal(t, "t1", a.selectedID, "leaving detail keeps the selection")
}

func TestSelectionInSession_SwapsBoundTask(t *testing.T) {
	a, _, _ := newTestApp(t, mkTask("t1", task.StatusIdle), mkTask("t2", task.StatusIdle))
	a.selectedID = "t1"
	a.mode = ModeDetail
	a.Update(confirmMsg{})
	require.Equal(t, ModeSession, a.mode)

	a.handleMsg(selectDeltaMsg{delta: 1})

	assert.Equal(t, ModeSession, a.mode, "selection change is not a mode transition")
	assert.Equal(t, "t2", a.selectedID)
	assert.Equal(t, "t2", a.session.TaskID(), "surface rebinds without teardown")
}

func TestSidePanels_MutuallyExclusive(t *testing.T) {
	a, _, _ := newTestApp(t, mkTask("t1", task.StatusIdle))
	a.selectedID = "t1"
	a.mode = ModeSession

	a.handleMsg(togglePanelMsg{panel: PanelReview})
	assert.Equal(t, PanelReview, a.sidePanel)

	a.handleMsg(togglePanelMsg{panel: PanelEditor})
	assert.Equal(t, PanelEditor, a.sidePanel, "opening one closes the other")

	a.handleMsg(togglePanelMsg{panel: PanelEditor})
	assert.Equal(t, PanelNone, a.sidePanel, "toggling the open panel closes it")
}

// --- hotkey suppression ---

func TestSessionKeys_GoToPTYNotDispatcher(t *testing.T) {
	a, _, runner := newTestApp(t, mkTask("t1", task.StatusIdle))
	a.selectedID = "t1"
	a.mode = ModeDetail
	a.Update(confirmMsg{})
	require.Equal(t, ModeSession, a.mode)

	cmd := press(a, "c")

	assert.Nil(t, cmd, "no commit dialog from inside the terminal")
	assert.Nil(t, a.dialog)
	assert.Equal(t, "c", runner.lastPTY().written())
}

func TestSessionCtrlC_InterruptsAgentNotApp(t *testing.T) {
	a, _, runner := newTestApp(t, mkTask("t1", task.StatusIdle))
	a.selectedID = "t1"
	a.mode = ModeDetail
	a.Update(confirmMsg{})

	cmd := press(a, "ctrl+c")

	assert.Nil(t, cmd)
	assert.Equal(t, "\x03", runner.lastPTY().written())
}

// --- refresh semantics ---

func TestRefresh_ReplacesCollectionWholesale(t *testing.T) {
	a, _, _ := newTestApp(t, mkTask("t1", task.StatusIdle), mkTask("t2", task.StatusIdle))
	a.selectedID = "t1"
	a.mode = ModeDetail

	fresh := []task.Task{mkTask("t1", task.StatusLive)}
	a.Update(tasksRefreshedMsg{filter: api.FilterActive, tasks: fresh})

	assert.Equal(t, fresh, a.tasks)
	assert.Equal(t, ModeDetail, a.mode, "surviving selection keeps its mode")
}

func TestRefresh_DropsDeadSelection(t *testing.T) {
	a, _, _ := newTestApp(t, mkTask("t1", task.StatusIdle))
	a.selectedID = "t1"
	a.mode = ModeDetail

	a.Update(tasksRefreshedMsg{filter: api.FilterActive, tasks: []task.Task{mkTask("t9", task.StatusIdle)}})

	assert.Equal(t, "", a.selectedID)
	assert.Equal(t, ModeList, a.mode)
}

func TestRefresh_FailureKeepsStaleCollection(t *testing.T) {
	a, _, _ := newTestApp(t, mkTask("t1", task.StatusIdle))

	a.Update(tasksRefreshedMsg{filter: api.FilterActive, err: assert.AnError})

	assert.Len(t, a.tasks, 1, "stale data stays on screen until a refresh succeeds")
	require.NotNil(t, a.toast)
	assert.True(t, a.toast.Error)
}

// --- merge flow ---

func TestMerge_SingleCommitSkipsMethodDialog(t *testing.T) {
	a, fake, _ := newTestApp(t, mkTask("t1", task.StatusIdle))
	fake.commitTotal = 1
	a.selectedID = "t1"
	a.mode = ModeDetail

	cmd := press(a, "m")          // -> mergeSelectedMsg
	cmd = step(t, a, cmd)         // -> MergeBegin command
	cmd = step(t, a, cmd)         // GetCommits -> mergeCountMsg -> direct submit
	cmd = step(t, a, cmd)         // MergeTask -> mergeDoneMsg

	assert.Equal(t, 1, fake.callCount("GetCommits"))
	assert.Equal(t, 1, fake.callCount("MergeTask"))
	assert.Equal(t, api.MergeCommit, fake.lastMergeMethod)
}

func TestMerge_MultiCommitOpensMethodDialog(t *testing.T) {
	a, fake, _ := newTestApp(t, mkTask("t1", task.StatusIdle))
	fake.commitTotal = 3
	a.selectedID = "t1"
	a.mode = ModeDetail

	cmd := press(a, "m")
	cmd = step(t, a, cmd)
	step(t, a, cmd)

	assert.IsType(t, (*MergeMethodModal)(nil), a.dialog)
	assert.Zero(t, fake.callCount("MergeTask"), "no merge before a method is chosen")
	assert.False(t, a.orch.Pending(ActionMerge), "pending clears while the dialog waits")
}

func TestMerge_CountFetchFailureStillOpensDialog(t *testing.T) {
	a, fake, _ := newTestApp(t, mkTask("t1", task.StatusIdle))
	fake.commitsErr = assert.AnError
	a.selectedID = "t1"
	a.mode = ModeDetail

	cmd := press(a, "m")
	cmd = step(t, a, cmd)
	step(t, a, cmd)

	assert.IsType(t, (*MergeMethodModal)(nil), a.dialog, "unknown count asks, never guesses")
}

func TestMergeMethodSubmit_ClosesDialogAndMerges(t *testing.T) {
	a, fake, _ := newTestApp(t, mkTask("t1", task.StatusIdle))
	a.selectedID = "t1"
	a.mergeTaskID = "t1"
	a.dialog = NewMergeMethodModal("task-t1")

	_, cmd := a.Update(submitMergeMethodMsg{method: api.MergeSquash})
	require.Nil(t, a.dialog)
	step(t, a, cmd)

	assert.Equal(t, 1, fake.callCount("MergeTask"))
	assert.Equal(t, api.MergeSquash, fake.lastMergeMethod)
}

func TestMergeDone_OffersPostMergeArchive(t *testing.T) {
	a, _, _ := newTestApp(t, mkTask("t1", task.StatusIdle))
	a.selectedID = "t1"
	a.mode = ModeDetail

	a.Update(mergeDoneMsg{taskID: "t1", outcome: api.Outcome{OK: true}})

	assert.IsType(t, (*ConfirmModal)(nil), a.dialog)
}

func TestPostMergeArchive_Accepted(t *testing.T) {
	a, fake, _ := newTestApp(t, mkTask("t1", task.StatusIdle))
	a.selectedID = "t1"
	a.mode = ModeDetail

	_, cmd := a.Update(postMergeArchiveDecisionMsg{accepted: true, taskID: "t1"})
	cmd = step(t, a, cmd) // ArchiveTask -> archiveDoneMsg

	assert.Equal(t, 1, fake.callCount("ArchiveTask"))
	assert.Equal(t, ModeList, a.mode)
	assert.Equal(t, "", a.selectedID)
}

func TestPostMergeArchive_Declined(t *testing.T) {
	a, fake, _ := newTestApp(t, mkTask("t1", task.StatusIdle))
	a.selectedID = "t1"
	a.mode = ModeDetail

	a.Update(postMergeArchiveDecisionMsg{accepted: false, taskID: "t1"})

	assert.Zero(t, fake.callCount("ArchiveTask"))
	assert.Equal(t, ModeList, a.mode)
	assert.Nil(t, a.dialog)
}

func TestPostMergeArchive_FailureStillReturnsToList(t *testing.T) {
	a, _, _ := newTestApp(t, mkTask("t1", task.StatusIdle))
	a.selectedID = "t1"
	a.mode = ModeDetail

	a.Update(archiveDoneMsg{postMerge: true, outcome: api.Outcome{OK: false, Message: "archive failed"}})

	assert.Equal(t, ModeList, a.mode, "merge already succeeded; the flow completes")
	assert.Equal(t, "archive failed", a.orch.LastError(ActionArchive))
}

// --- rebase flow ---

func TestRebaseDone_PatchesTargetUntilRefresh(t *testing.T) {
	a, _, _ := newTestApp(t, mkTask("t1", task.StatusIdle))
	a.selectedID = "t1"
	a.mode = ModeDetail
	a.dialog = NewRebaseModal(a.tasks[0], []string{"main", "develop"})

	a.Update(rebaseDoneMsg{taskID: "t1", target: "develop", outcome: api.Outcome{OK: true}})

	assert.Nil(t, a.dialog)
	assert.Equal(t, "develop", a.tasks[0].Target, "local patch bridges the gap to the refresh")

	serverTruth := mkTask("t1", task.StatusIdle) // target still main on the server
	a.Update(tasksRefreshedMsg{filter: api.FilterActive, tasks: []task.Task{serverTruth}})
	assert.Equal(t, "main", a.tasks[0].Target, "refresh overwrites the optimistic patch")
}

func TestRebaseDone_FailureKeepsDialogWithError(t *testing.T) {
	a, _, _ := newTestApp(t, mkTask("t1", task.StatusIdle))
	a.selectedID = "t1"
	dialog := NewRebaseModal(a.tasks[0], []string{"main", "develop"})
	a.dialog = dialog

	a.Update(rebaseDoneMsg{taskID: "t1", target: "develop", outcome: api.Outcome{OK: false, Message: "target has diverged"}})

	assert.Same(t, dialog, a.dialog)
	assert.Equal(t, "target has diverged", dialog.Err)
	assert.Equal(t, "main", a.tasks[0].Target, "no patch on failure")
}

// --- commit flow ---

func TestCommitFailure_KeepsDialogWithInlineError(t *testing.T) {
	a, _, _ := newTestApp(t, mkTask("t1", task.StatusIdle))
	a.selectedID = "t1"
	dialog := NewCommitModal()
	a.dialog = dialog

	a.Update(commitDoneMsg{outcome: api.Outcome{OK: false, Message: "nothing to commit"}})

	assert.Same(t, dialog, a.dialog, "dialog stays open for a retry")
	assert.Equal(t, "nothing to commit", dialog.Err)
}

func TestCommitSuccess_ClosesDialog(t *testing.T) {
	a, _, _ := newTestApp(t, mkTask("t1", task.StatusIdle))
	a.selectedID = "t1"
	a.dialog = NewCommitModal()

	a.Update(commitDoneMsg{outcome: api.Outcome{OK: true}})

	assert.Nil(t, a.dialog)
	require.NotNil(t, a.toast)
	assert.False(t, a.toast.Error)
}

// --- create flow ---

func TestCreateSuccess_SelectsAndAutoStartsSession(t *testing.T) {
	a, fake, _ := newTestApp(t)

	created := mkTask("t9", task.StatusIdle)
	a.Update(createDoneMsg{created: created})

	assert.Nil(t, a.dialog)
	assert.Equal(t, "t9", a.selectedID)
	assert.Equal(t, ModeSession, a.mode)
	assert.True(t, a.autoStart)

	// The surface's connected signal clears auto-start and triggers
	// exactly one refresh.
	_, cmd := a.Update(sessionConnectedMsg{taskID: "t9"})
	assert.False(t, a.autoStart)
	step(t, a, cmd)
	assert.Equal(t, 1, fake.callCount("ListTasks"))
}

func TestCreateFailure_KeepsDialogWithMappedError(t *testing.T) {
	a, _, _ := newTestApp(t)
	dialog := NewCreateTaskModal("main")
	a.dialog = dialog

	a.Update(createDoneMsg{err: &api.ServerError{StatusCode: 409}})

	assert.Same(t, dialog, a.dialog)
	assert.Equal(t, "a task with that name already exists", dialog.Err)
}

// --- duplicate submission guard ---

func TestDuplicateSubmission_IsNoOp(t *testing.T) {
	a, _, _ := newTestApp(t, mkTask("t1", task.StatusIdle))
	a.selectedID = "t1"

	_, first := a.Update(syncSelectedMsg{})
	require.NotNil(t, first, "first submission issues the call")

	_, second := a.Update(syncSelectedMsg{})
	assert.Nil(t, second, "second submission while pending is dropped")
}

func TestActionErrors_AreIndependent(t *testing.T) {
	a, _, _ := newTestApp(t, mkTask("t1", task.StatusIdle))

	a.Update(syncDoneMsg{outcome: api.Outcome{OK: false, Message: "sync failed"}})
	a.Update(commitDoneMsg{outcome: api.Outcome{OK: true}})

	assert.Equal(t, "sync failed", a.orch.LastError(ActionSync))
	assert.Empty(t, a.orch.LastError(ActionCommit), "a commit is never blocked by a stale sync failure")
}

// --- dialogs ---

func TestDialogSlot_HoldsAtMostOne(t *testing.T) {
	a, _, _ := newTestApp(t, mkTask("t1", task.StatusIdle))
	a.selectedID = "t1"

	a.Update(showHelpMsg{})
	require.IsType(t, (*HelpModal)(nil), a.dialog)

	a.Update(showCreateTaskMsg{})
	assert.IsType(t, (*CreateTaskModal)(nil), a.dialog, "a new dialog replaces the old; two can never stack")
}

func TestDialog_ReceivesKeysBeforeDispatcher(t *testing.T) {
	a, _, _ := newTestApp(t, mkTask("t1", task.StatusIdle))
	a.selectedID = "t1"
	a.Update(showHelpMsg{})

	cmd := press(a, "esc")
	require.NotNil(t, cmd)
	step(t, a, cmd) // dismissModalMsg

	assert.Nil(t, a.dialog)
	assert.Equal(t, ModeList, a.mode, "esc closed the dialog, not the mode")
}

// --- project switching ---

func TestSelectProject_ResetsWorkspace(t *testing.T) {
	a, fake, _ := newTestApp(t, mkTask("t1", task.StatusIdle))
	a.selectedID = "t1"
	a.mode = ModeDetail

	p2 := task.Project{ID: "p2", Name: "other", CurrentBranch: "main"}
	_, cmd := a.Update(selectProjectMsg{project: p2})

	assert.Equal(t, "p2", a.project.ID)
	assert.Equal(t, ModeList, a.mode)
	assert.Empty(t, a.selectedID)
	assert.Nil(t, a.tasks)
	step(t, a, cmd)
	assert.Equal(t, 1, fake.callCount("ListTasks"))
}

// --- branch scoping ---

func TestVisibleTasks_ScopedToCurrentBranch(t *testing.T) {
	offBranch := mkTask("t2", task.StatusIdle)
	offBranch.Target = "release-1.0"
	a, _, _ := newTestApp(t, mkTask("t1", task.StatusIdle), offBranch)

	visible := a.visibleTasks()
	require.Len(t, visible, 1)
	assert.Equal(t, "t1", visible[0].ID)
}

// --- mouse selection ---

func click(a *AppModel, y int) {
	a.Update(tea.MouseMsg{X: 1, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
}

// The list body starts below the workspace header: header (row 0), list
// title (1), search/help (2), spacer (3), first task (4).
const firstTaskRow = 4

func TestMouseClick_SelectsClickedRow(t *testing.T) {
	a, _, _ := newTestApp(t,
		mkTask("t1", task.StatusIdle), mkTask("t2", task.StatusIdle), mkTask("t3", task.StatusIdle))

	click(a, firstTaskRow)
	assert.Equal(t, "t1", a.selectedID)
	assert.Equal(t, ModeDetail, a.mode)

	click(a, firstTaskRow+2)
	assert.Equal(t, "t3", a.selectedID)
}

func TestMouseClick_AboveAndBelowRowsIgnored(t *testing.T) {
	a, _, _ := newTestApp(t, mkTask("t1", task.StatusIdle))

	click(a, 0) // workspace header
	assert.Empty(t, a.selectedID)

	click(a, firstTaskRow-1) // list spacer
	assert.Empty(t, a.selectedID)

	click(a, firstTaskRow+1) // past the only task
	assert.Empty(t, a.selectedID)
}

func TestMouseDoubleClick_EntersSession(t *testing.T) {
	a, _, _ := newTestApp(t, mkTask("t1", task.StatusIdle))

	click(a, firstTaskRow)
	click(a, firstTaskRow)

	assert.Equal(t, ModeSession, a.mode)
	require.NotNil(t, a.session)
	assert.Equal(t, "t1", a.session.TaskID())
}

func TestMouseDoubleClick_ArchivedStaysOut(t *testing.T) {
	a, _, _ := newTestApp(t)
	a.filter = api.FilterArchived
	a.archived = []task.Task{mkTask("t1", task.StatusArchived)}

	click(a, firstTaskRow)
	click(a, firstTaskRow)

	assert.NotEqual(t, ModeSession, a.mode)
	assert.Nil(t, a.session)
}

// --- recover flow ---

func TestRecoverSuccess_SwitchesToActiveFilter(t *testing.T) {
	a, fake, _ := newTestApp(t)
	a.filter = api.FilterArchived
	a.archived = []task.Task{mkTask("t1", task.StatusArchived)}
	a.selectedID = "t1"
	a.mode = ModeDetail

	_, cmd := a.Update(recoverDoneMsg{taskID: "t1", outcome: api.Outcome{OK: true}})

	assert.Equal(t, api.FilterActive, a.filter, "the view follows the task to the active set")
	assert.Empty(t, a.archived, "the archived cache drops the recovered task")
	assert.Equal(t, ModeList, a.mode)
	assert.Empty(t, a.selectedID)
	require.NotNil(t, cmd)
	_ = fake
}

func TestRecoverFailure_StaysOnArchivedView(t *testing.T) {
	a, _, _ := newTestApp(t)
	a.filter = api.FilterArchived
	a.archived = []task.Task{mkTask("t1", task.StatusArchived)}
	a.selectedID = "t1"
	a.mode = ModeDetail

	a.Update(recoverDoneMsg{taskID: "t1", outcome: api.Outcome{OK: false, Message: "recover failed"}})

	assert.Equal(t, api.FilterArchived, a.filter)
	assert.Len(t, a.archived, 1)
	assert.Equal(t, ModeDetail, a.mode)
}

// --- context menu ---

func TestContextMenu_OffersActionsForActiveTask(t *testing.T) {
	a, _, _ := newTestApp(t, mkTask("t1", task.StatusIdle))
	a.selectedID = "t1"
	a.mode = ModeDetail

	cmd := press(a, ".")
	step(t, a, cmd)

	menu, ok := a.dialog.(*ContextMenuModal)
	require.True(t, ok)
	labels := make([]string, 0, len(menu.Items))
	for _, item := range menu.Items {
		labels = append(labels, item.Label)
	}
	assert.Contains(t, labels, "commit changes")
	assert.Contains(t, labels, "sync with target")
	assert.Contains(t, labels, "merge")
	assert.NotContains(t, labels, "recover from archive")
}

func TestContextMenu_ArchivedTaskOffersRecovery(t *testing.T) {
	a, _, _ := newTestApp(t)
	a.filter = api.FilterArchived
	a.archived = []task.Task{mkTask("t1", task.StatusArchived)}
	a.selectedID = "t1"

	a.Update(showContextMenuMsg{})

	menu, ok := a.dialog.(*ContextMenuModal)
	require.True(t, ok)
	require.Len(t, menu.Items, 2)
	assert.Equal(t, "recover from archive", menu.Items[0].Label)
	assert.Equal(t, "delete task", menu.Items[1].Label)
}

func TestContextMenu_BrokenTaskHidesGitFlowActions(t *testing.T) {
	a, _, _ := newTestApp(t, mkTask("t1", task.StatusBroken))
	a.selectedID = "t1"

	a.Update(showContextMenuMsg{})

	menu, ok := a.dialog.(*ContextMenuModal)
	require.True(t, ok)
	for _, item := range menu.Items {
		assert.NotEqual(t, "sync with target", item.Label)
		assert.NotEqual(t, "merge", item.Label)
	}
}

func TestContextMenu_SelectionDismissesAndFires(t *testing.T) {
	a, _, _ := newTestApp(t, mkTask("t1", task.StatusIdle))
	a.selectedID = "t1"
	a.Update(showContextMenuMsg{})
	require.IsType(t, (*ContextMenuModal)(nil), a.dialog)

	// Enter on the first item dispatches its intent, same as the chord.
	cmd := press(a, "enter")
	step(t, a, cmd) // contextMenuSelectMsg closes the menu, then dispatches

	assert.IsType(t, (*CommitModal)(nil), a.dialog, "menu selection behaves like the chord")
}

func TestContextMenu_DirectActionClosesMenu(t *testing.T) {
	a, fake, _ := newTestApp(t, mkTask("t1", task.StatusIdle))
	a.selectedID = "t1"
	a.dialog = NewContextMenuModal("task-t1", contextMenuItems(a.tasks[0]))

	_, cmd := a.Update(contextMenuSelectMsg{action: syncSelectedMsg{}})
	assert.Nil(t, a.dialog, "direct actions leave no dialog behind")
	step(t, a, cmd)

	assert.Equal(t, 1, fake.callCount("SyncTask"))
}
