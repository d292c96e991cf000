package ui

import (
	"bytes"
	"io"
	"os"
	"os/exec"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/config"
	"taskdeck/internal/pty"
	"taskdeck/internal/task"
)

// SessionView is the task's interactive surface: the configured agent
// command running in the task's worktree inside a PTY. The controller
// treats it as opaque except for two lifecycle signals, connected and
// disconnected.
type SessionView struct {
	runner   pty.Runner
	ptmx     io.ReadWriteCloser
	content  *bytes.Buffer
	viewport viewport.Model
	outputCh chan []byte

	cfg       config.Session
	project   task.Project
	task      task.Task
	autoStart bool

	width  int
	height int

	// focused routes keystrokes into the PTY and suppresses single-key
	// chords at the dispatcher.
	focused bool
}

const defaultSessionWidth = 80
const defaultSessionHeight = 24

// NewSessionView creates a session surface for t. Init spawns the command.
// autoStart tells the spawned agent to begin work immediately, used when a
// session opens right after task creation.
func NewSessionView(runner pty.Runner, cfg config.Session, project task.Project, t task.Task, autoStart bool) *SessionView {
	vp := viewport.New(defaultSessionWidth, defaultSessionHeight)
	return &SessionView{
		runner:    runner,
		content:   &bytes.Buffer{},
		viewport:  vp,
		outputCh:  make(chan []byte, 64),
		cfg:       cfg,
		project:   project,
		task:      t,
		autoStart: autoStart,
		width:     defaultSessionWidth,
		height:    defaultSessionHeight,
		focused:   true,
	}
}

// TaskID returns the bound task's id.
func (s *SessionView) TaskID() string { return s.task.ID }

// Rebind swaps the bound task without tearing the surface down. The PTY
// keeps running; only the header changes. Selecting another task while in
// session mode is not a mode transition.
func (s *SessionView) Rebind(t task.Task) {
	s.task = t
}

// SetFocused controls whether keystrokes reach the PTY.
func (s *SessionView) SetFocused(focused bool) { s.focused = focused }

// Focused reports whether the surface currently owns the keyboard.
func (s *SessionView) Focused() bool { return s.focused }

// Init spawns the agent command in the task's worktree and starts the PTY
// read loop. Emits sessionConnectedMsg once the process is up.
func (s *SessionView) Init() tea.Cmd {
	cmd := exec.Command(s.cfg.Command, s.cfg.Args...)
	cmd.Dir = s.task.WorktreePath
	if cmd.Dir == "" {
		cmd.Dir = "."
	}
	cmd.Env = append(os.Environ(),
		"TASKDECK_PROJECT="+s.project.ID,
		"TASKDECK_TASK="+s.task.ID,
	)
	if s.autoStart {
		cmd.Env = append(cmd.Env, "TASKDECK_AUTOSTART=1")
	}

	sz := pty.Size{Rows: uint16(s.height), Cols: uint16(s.width)}
	ptmx, err := s.runner.Start(cmd, sz)
	if err != nil {
		s.content.WriteString("failed to start session: " + err.Error() + "\r\n")
		s.refreshViewport()
		taskID := s.task.ID
		return func() tea.Msg { return sessionDisconnectedMsg{taskID: taskID} }
	}
	s.ptmx = ptmx

	go func() {
		buf := make([]byte, 4096)
		for {
			n, err := ptmx.Read(buf)
			if n > 0 {
				cp := make([]byte, n)
				copy(cp, buf[:n])
				select {
				case s.outputCh <- cp:
				default:
					// drop rather than block the read loop
				}
			}
			if err != nil {
				close(s.outputCh)
				return
			}
		}
	}()

	taskID := s.task.ID
	return tea.Batch(
		func() tea.Msg { return sessionConnectedMsg{taskID: taskID} },
		s.waitForOutput(),
	)
}

func (s *SessionView) waitForOutput() tea.Cmd {
	taskID := s.task.ID
	return func() tea.Msg {
		data, ok := <-s.outputCh
		if !ok {
			return sessionDisconnectedMsg{taskID: taskID}
		}
		return sessionOutputMsg{data: data}
	}
}

// Update handles PTY output, keystroke passthrough, and resizes.
func (s *SessionView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case sessionOutputMsg:
		s.content.Write(msg.data)
		s.refreshViewport()
		s.viewport.GotoBottom()
		return s.waitForOutput()
	case tea.KeyMsg:
		if s.ptmx != nil && s.focused {
			if b := keyToPTYBytes(msg); len(b) > 0 {
				s.ptmx.Write(b)
			}
		}
		return nil
	case tea.WindowSizeMsg:
		s.Resize(msg.Width, msg.Height)
		return nil
	}
	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return cmd
}

// Resize adjusts the viewport and the PTY geometry.
func (s *SessionView) Resize(width, height int) {
	s.width = width
	s.height = height
	w := width - 2
	h := height - 3
	if w < 40 {
		w = 40
	}
	if h < 10 {
		h = 10
	}
	s.viewport.Width = w
	s.viewport.Height = h
	if s.ptmx != nil && s.runner != nil {
		s.runner.Resize(s.ptmx, pty.Size{Rows: uint16(h), Cols: uint16(w)})
	}
	s.refreshViewport()
}

// View renders the session header and terminal content.
func (s *SessionView) View() string {
	header := Styles.Title.Render("Session: "+s.task.Name) +
		Styles.Dim.Render("  Esc: close")
	return header + "\n" + s.viewport.View()
}

func (s *SessionView) refreshViewport() {
	s.viewport.SetContent(s.content.String())
}

// Close releases the PTY. Called when leaving session mode for good.
func (s *SessionView) Close() error {
	if s.ptmx != nil {
		err := s.ptmx.Close()
		s.ptmx = nil
		return err
	}
	return nil
}

// keyToPTYBytes converts a Bubble Tea key press to the byte sequence the
// PTY expects.
func keyToPTYBytes(msg tea.KeyMsg) []byte {
	switch msg.Type {
	case tea.KeyEnter:
		return []byte{'\r'}
	case tea.KeyBackspace:
		return []byte{0x7f}
	case tea.KeyTab:
		return []byte{'\t'}
	case tea.KeySpace:
		return []byte{' '}
	case tea.KeyUp:
		return []byte{0x1b, '[', 'A'}
	case tea.KeyDown:
		return []byte{0x1b, '[', 'B'}
	case tea.KeyRight:
		return []byte{0x1b, '[', 'C'}
	case tea.KeyLeft:
		return []byte{0x1b, '[', 'D'}
	case tea.KeyCtrlC:
		return []byte{0x03}
	case tea.KeyCtrlD:
		return []byte{0x04}
	case tea.KeyRunes:
		return []byte(string(msg.Runes))
	default:
		if len(msg.Runes) > 0 {
			return []byte(string(msg.Runes))
		}
		return nil
	}
}
