package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/api"
	"taskdeck/internal/config"
	"taskdeck/internal/fuzzy"
	"taskdeck/internal/pty"
	"taskdeck/internal/state"
	"taskdeck/internal/task"
)

// SidePanel is the optional surface next to the session: review and
// editor are mutually exclusive, opening one force-closes the other.
type SidePanel int

const (
	PanelNone SidePanel = iota
	PanelReview
	PanelEditor
)

// doubleSelectWindow is how close two selects of the same task must be to
// count as a double-select.
const doubleSelectWindow = 500 * time.Millisecond

// AppModel is the root workspace controller. It owns the view-mode state
// machine (list / detail / session), the selection, the single open
// dialog, and routes dispatcher chords and orchestrator results into
// transitions. Selection, mode, and dialog live here as one record so
// illegal combinations (session without a task, two dialogs) cannot be
// represented.
type AppModel struct {
	orch       *Orchestrator
	store      *state.Store // nil disables persistence
	sessionCfg config.Session
	runner     pty.Runner

	project  task.Project
	projects []task.Project
	tasks    []task.Task // active set, replaced wholesale by refresh
	archived []task.Task // archived cache, loaded on demand
	filter   api.Filter

	mode       AppMode
	selectedID string
	autoStart  bool
	sidePanel  SidePanel

	list    *TaskListView
	detail  *TaskDetailView
	session *SessionView

	dialog View // nil = no dialog open
	keys   *Dispatcher
	toast  *Toast

	// mergeTaskID carries the merge flow's task across the commit-count
	// fetch and the method dialog.
	mergeTaskID string

	lastSelectID string
	lastSelectAt time.Time

	width  int
	height int
}

var _ tea.Model = (*AppModel)(nil)

// NewAppModel creates the workspace bound to a client. store may be nil.
func NewAppModel(client api.Client, store *state.Store, sessionCfg config.Session) *AppModel {
	a := &AppModel{
		orch:       NewOrchestrator(client),
		store:      store,
		sessionCfg: sessionCfg,
		runner:     &pty.CreackPTY{},
		filter:     api.FilterActive,
		mode:       ModeList,
		list:       NewTaskListView(),
		detail:     NewTaskDetailView(),
	}
	a.keys = a.buildDispatcher()
	return a
}

// buildDispatcher registers the chord table. Enabled predicates close over
// the model so availability tracks selection and status without
// re-registration.
func (a *AppModel) buildDispatcher() *Dispatcher {
	d := NewDispatcher()
	d.Suppressed = func() bool {
		if a.list.Searching() {
			return true
		}
		return a.mode == ModeSession && a.dialog == nil && a.session != nil && a.session.Focused()
	}

	selected := func() (task.Task, bool) { return a.selectedTask() }
	hasSelection := func() bool { _, ok := selected(); return ok }
	actionable := func() bool { t, ok := selected(); return ok && t.Actionable() }
	notArchived := func() bool { t, ok := selected(); return ok && !t.Archived() }
	isArchived := func() bool { t, ok := selected(); return ok && t.Archived() }

	// One handler per direction, bound to both chords.
	d.Bind(Binding{Chords: []string{"j", "down"}, Desc: "next task",
		Command: func() tea.Msg { return selectDeltaMsg{delta: 1} }})
	d.Bind(Binding{Chords: []string{"k", "up"}, Desc: "previous task",
		Command: func() tea.Msg { return selectDeltaMsg{delta: -1} }})
	d.Bind(Binding{Chords: []string{"enter"}, Desc: "open / enter session",
		Enabled: func() bool { return a.mode != ModeSession },
		Command: func() tea.Msg { return confirmMsg{} }})
	d.Bind(Binding{Chords: []string{"esc"}, Desc: "close / back",
		Command: func() tea.Msg { return closeMsg{} }})

	for i := 0; i < int(tabCount); i++ {
		tab := InfoTab(i)
		d.Bind(Binding{Chords: []string{string(rune('1' + i))}, Desc: "info tab " + tabTitles[i],
			Enabled: hasSelection,
			Command: func() tea.Msg { return setTabMsg{tab: tab} }})
	}

	d.Bind(Binding{Chords: []string{"/"}, Desc: "search tasks",
		Command: func() tea.Msg { return startSearchMsg{} }})
	d.Bind(Binding{Chords: []string{"n"}, Desc: "new task",
		Command: func() tea.Msg { return showCreateTaskMsg{} }})
	d.Bind(Binding{Chords: []string{"p"}, Desc: "switch project",
		Command: func() tea.Msg { return showProjectSwitcherMsg{} }})
	d.Bind(Binding{Chords: []string{"A"}, Desc: "toggle archived view",
		Command: func() tea.Msg { return toggleArchivedMsg{} }})

	d.Bind(Binding{Chords: []string{"c"}, Desc: "commit", Enabled: notArchived,
		Command: func() tea.Msg { return showCommitMsg{} }})
	d.Bind(Binding{Chords: []string{"s"}, Desc: "sync", Enabled: actionable,
		Command: func() tea.Msg { return syncSelectedMsg{} }})
	d.Bind(Binding{Chords: []string{"b"}, Desc: "change target branch", Enabled: actionable,
		Command: func() tea.Msg { return showRebaseMsg{} }})
	d.Bind(Binding{Chords: []string{"m"}, Desc: "merge", Enabled: actionable,
		Command: func() tea.Msg { return mergeSelectedMsg{} }})
	d.Bind(Binding{Chords: []string{"a"}, Desc: "archive", Enabled: notArchived,
		Command: func() tea.Msg { return archiveSelectedMsg{} }})
	d.Bind(Binding{Chords: []string{"u"}, Desc: "recover from archive", Enabled: isArchived,
		Command: func() tea.Msg { return recoverSelectedMsg{} }})
	d.Bind(Binding{Chords: []string{"r"}, Desc: "reset changes", Enabled: notArchived,
		Command: func() tea.Msg { return showResetConfirmMsg{} }})
	d.Bind(Binding{Chords: []string{"x"}, Desc: "delete task", Enabled: hasSelection,
		Command: func() tea.Msg { return showCleanConfirmMsg{} }})
	d.Bind(Binding{Chords: []string{"."}, Desc: "task actions", Enabled: hasSelection,
		Command: func() tea.Msg { return showContextMenuMsg{} }})

	d.Bind(Binding{Chords: []string{"ctrl+r"}, Desc: "toggle review panel",
		Enabled: func() bool { return a.mode == ModeSession },
		Command: func() tea.Msg { return togglePanelMsg{panel: PanelReview} }})
	d.Bind(Binding{Chords: []string{"ctrl+e"}, Desc: "toggle editor panel",
		Enabled: func() bool { return a.mode == ModeSession },
		Command: func() tea.Msg { return togglePanelMsg{panel: PanelEditor} }})

	// Help is always available, whatever the mode or selection.
	d.Bind(Binding{Chords: []string{"?"}, Desc: "help",
		Command: func() tea.Msg { return showHelpMsg{} }})
	// In session mode ctrl+c belongs to the terminal (interrupt), not us.
	d.Bind(Binding{Chords: []string{"ctrl+c"}, Desc: "quit",
		Enabled: func() bool { return a.mode != ModeSession },
		Command: func() tea.Msg { return tea.Quit() }})

	return d
}

// Init implements tea.Model: load the project roster first.
func (a *AppModel) Init() tea.Cmd {
	return a.orch.LoadProjects()
}

// visibleTasks returns the roster for the current filter, scoped to the
// project's current branch and ranked by the search query when one is
// active.
func (a *AppModel) visibleTasks() []task.Task {
	base := a.tasks
	if a.filter == api.FilterArchived {
		base = a.archived
	}
	filtered := task.FilterForBranch(base, a.project.CurrentBranch)
	query := a.list.Query()
	if query == "" {
		return filtered
	}
	names := make([]string, len(filtered))
	for i, t := range filtered {
		names[i] = t.Name
	}
	matches := fuzzy.Rank(query, names)
	out := make([]task.Task, 0, len(matches))
	for _, m := range matches {
		out = append(out, filtered[m.Index])
	}
	return out
}

// selectedTask resolves the selected id against the visible set.
func (a *AppModel) selectedTask() (task.Task, bool) {
	if a.selectedID == "" {
		return task.Task{}, false
	}
	source := a.tasks
	if a.filter == api.FilterArchived {
		source = a.archived
	}
	if i := task.IndexByID(source, a.selectedID); i >= 0 {
		return source[i], true
	}
	return task.Task{}, false
}

// Update implements tea.Model.
func (a *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.list.SetSize(msg.Width/2, msg.Height)
		a.detail.SetSize(msg.Width / 2)
		if a.session != nil {
			a.session.Resize(msg.Width, msg.Height-1)
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case tea.MouseMsg:
		return a.updateMouse(msg)

	case sessionOutputMsg:
		if a.session != nil {
			return a, a.session.Update(msg)
		}
		return a, nil
	}

	// Dialog-relevant async results.
	if files, ok := msg.(changedFilesMsg); ok {
		if commit, isCommit := a.dialog.(*CommitModal); isCommit && files.err == nil {
			commit.SetFiles(files.files)
		}
		return a, nil
	}

	return a.handleMsg(msg)
}

// updateKey routes one key press: open dialog first, then search input,
// then the dispatcher, then the session surface.
func (a *AppModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.dialog != nil {
		v, cmd := a.dialog.Update(msg)
		a.dialog = v
		return a, cmd
	}

	if a.list.Searching() {
		switch msg.String() {
		case "esc":
			a.list.StopSearch(false)
			return a, nil
		case "enter":
			a.list.StopSearch(true)
			return a, nil
		}
		return a, a.list.UpdateSearch(msg)
	}

	if consumed, cmd := a.keys.Handle(msg); consumed {
		return a, cmd
	}

	if a.mode == ModeSession && a.session != nil {
		return a, a.session.Update(msg)
	}
	return a, nil
}

// updateMouse implements single- and double-select on list rows.
func (a *AppModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return a, nil
	}
	if a.mode == ModeSession || a.dialog != nil {
		return a, nil
	}
	visible := a.visibleTasks()
	// msg.Y is screen-relative; the workspace header occupies the first
	// row, the list body starts below it.
	idx := a.list.RowAt(msg.Y-1, len(visible))
	if idx < 0 {
		return a, nil
	}
	t := visible[idx]
	isDouble := t.ID == a.lastSelectID && time.Since(a.lastSelectAt) < doubleSelectWindow
	a.noteSelect(t.ID)
	a.selectTask(t.ID, idx)
	if isDouble && !t.Archived() {
		// Double-select jumps straight to session, bypassing detail.
		return a, a.enterSession(t, false)
	}
	return a, nil
}

func (a *AppModel) noteSelect(id string) {
	a.lastSelectID = id
	a.lastSelectAt = time.Now()
}

// selectTask binds the selection to id. In list mode this promotes to
// detail; in session mode it swaps the bound task without leaving session.
func (a *AppModel) selectTask(id string, visibleIdx int) {
	a.selectedID = id
	a.list.EnsureVisible(visibleIdx)
	switch a.mode {
	case ModeList:
		a.mode = ModeDetail
	case ModeSession:
		if t, ok := a.selectedTask(); ok && a.session != nil {
			a.session.Rebind(t)
		}
	}
}

// selectDelta moves the selection by delta with wraparound. With no
// selection, next picks the first task and previous the last.
func (a *AppModel) selectDelta(delta int) {
	visible := a.visibleTasks()
	if len(visible) == 0 {
		return
	}
	idx := -1
	for i, t := range visible {
		if t.ID == a.selectedID {
			idx = i
			break
		}
	}
	if idx < 0 {
		if delta > 0 {
			idx = 0
		} else {
			idx = len(visible) - 1
		}
	} else {
		idx = (idx + delta + len(visible)) % len(visible)
	}
	a.noteSelect(visible[idx].ID)
	a.selectTask(visible[idx].ID, idx)
}

// enterSession switches to session mode for t. Archived tasks never get a
// session. autoStart signals the surface to begin work immediately; it is
// cleared when the surface reports connected.
func (a *AppModel) enterSession(t task.Task, autoStart bool) tea.Cmd {
	if t.Archived() {
		return nil
	}
	a.mode = ModeSession
	a.autoStart = autoStart
	a.sidePanel = PanelNone
	if a.session != nil && a.session.TaskID() == t.ID {
		return nil
	}
	if a.session != nil {
		a.session.Close()
	}
	a.session = NewSessionView(a.runner, a.sessionCfg, a.project, t, autoStart)
	return a.session.Init()
}

// closeSession drops back to detail and resets the side panels.
func (a *AppModel) closeSession() {
	if a.session != nil {
		a.session.Close()
		a.session = nil
	}
	a.sidePanel = PanelNone
	a.mode = ModeDetail
}

// returnToList clears the selection and any dialog. The automatic
// post-action transition after recover, delete, archive, and the
// post-merge archive decision.
func (a *AppModel) returnToList() {
	if a.session != nil {
		a.session.Close()
		a.session = nil
	}
	a.sidePanel = PanelNone
	a.selectedID = ""
	a.dialog = nil
	a.mode = ModeList
}

// refresh re-fetches the task collection for the current filter.
func (a *AppModel) refresh() tea.Cmd {
	return a.orch.Refresh(a.project.ID, a.filter)
}

// showToast replaces the toast.
func (a *AppModel) showToast(message string, isErr bool) tea.Cmd {
	var cmd tea.Cmd
	a.toast, cmd = newToast(message, isErr, toastTTL)
	return cmd
}

// View implements tea.Model.
func (a *AppModel) View() string {
	var body string
	switch a.mode {
	case ModeSession:
		body = a.viewSession()
	case ModeDetail:
		body = a.viewListDetail()
	default:
		body = a.list.Render(a.visibleTasks(), a.selectedID, a.filter == api.FilterArchived)
	}

	header := Styles.Title.Render(a.project.Name)
	if a.project.CurrentBranch != "" {
		header += Styles.Dim.Render("  on " + a.project.CurrentBranch)
	}
	out := header + "\n" + body
	if t := a.toast.View(); t != "" {
		out += "\n" + t
	}
	if a.dialog != nil {
		return lipgloss.Place(max(a.width, 40), max(a.height, 10),
			lipgloss.Center, lipgloss.Center, a.dialog.View())
	}
	return out
}

func (a *AppModel) viewListDetail() string {
	roster := a.list.Render(a.visibleTasks(), a.selectedID, a.filter == api.FilterArchived)
	t, ok := a.selectedTask()
	if !ok {
		return roster
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, roster, "  ", a.detail.Render(t))
}

func (a *AppModel) viewSession() string {
	if a.session == nil {
		return ""
	}
	main := a.session.View()
	switch a.sidePanel {
	case PanelReview:
		return lipgloss.JoinHorizontal(lipgloss.Top, main, "  ", a.viewSidePanel("Review"))
	case PanelEditor:
		return lipgloss.JoinHorizontal(lipgloss.Top, main, "  ", a.viewSidePanel("Editor"))
	}
	return main
}

func (a *AppModel) viewSidePanel(title string) string {
	t, ok := a.selectedTask()
	content := Styles.Title.Render(title) + "\n"
	if ok {
		content += a.detail.Render(t)
	}
	return ModalStyles.BoxCompact.Render(content)
}
