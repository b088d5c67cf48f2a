package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chemviz/chemviz/internal/errors"
	"github.com/chemviz/chemviz/internal/event"
	"github.com/chemviz/chemviz/internal/session"
	"github.com/chemviz/chemviz/internal/tui/keymap"
	"github.com/chemviz/chemviz/internal/tui/msg"
	"github.com/chemviz/chemviz/internal/tui/styles"
	"github.com/chemviz/chemviz/internal/tui/view"
)

// Update handles incoming messages and updates the model state
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		m.resize(message.Width, message.Height)
		m.refreshBody()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(message)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(message)
		return m, cmd

	case msg.StateMsg:
		return m.applySnapshot(message.Snapshot)

	case msg.EventMsg:
		m.handleEvent(message.Event)
		return m, nil

	case msg.OpDoneMsg:
		if notice, ok := failureNotice(message); ok {
			m.notice = notice
		}
		return m.applySnapshot(m.store.Snapshot())

	case msg.ChartExportedMsg:
		if message.Err != nil {
			m.notice = styles.WarningMsg.Render("Chart export failed: " + message.Err.Error())
		} else {
			m.notice = styles.SuccessMsg.Render("Chart saved to " + message.Path)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.snap.Phase.Busy() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(message)
		return m, cmd
	}

	return m, nil
}

// failureNotice describes a failed report launch on the status line when
// the error is safe to show. Upload and selection failures already fill the
// error banner, and history failures stay in the operator log.
func failureNotice(done msg.OpDoneMsg) (string, bool) {
	if done.Op != msg.OpReport || done.Err == nil {
		return "", false
	}
	err := done.Err
	var timeout *errors.TimeoutError
	if errors.As(err, &timeout) {
		err = timeout
	}
	if !errors.IsUserFacing(err) {
		return "", false
	}

	text := err.Error()
	switch {
	case errors.Is(err, errors.ErrNotFound):
		text = "No uploads to report on yet"
	case timeout != nil:
		text = "Report download timed out after " + timeout.Duration.String()
	}
	if errors.GetSeverity(err) >= errors.SeverityError {
		return styles.ErrorMsg.Render(text), true
	}
	return styles.WarningMsg.Render(text), true
}

// applySnapshot renders snap unless a newer one has already been applied.
func (m Model) applySnapshot(snap session.Snapshot) (tea.Model, tea.Cmd) {
	if snap.Version < m.snap.Version {
		return m, nil
	}
	errorChanged := (snap.Error == "") != (m.snap.Error == "")
	m.snap = snap
	if m.cursor >= len(snap.History) {
		m.cursor = max(len(snap.History)-1, 0)
	}
	if errorChanged {
		m.resize(m.width, m.height)
	}
	m.refreshBody()

	if snap.Phase.Busy() && !m.spinning {
		m.spinning = true
		return m, m.spinner.Tick
	}
	return m, nil
}

func (m *Model) handleEvent(e event.Event) {
	switch e := e.(type) {
	case event.ReportLaunchedEvent:
		target := e.Path
		if target == "" {
			target = e.URL
		}
		m.notice = styles.SuccessMsg.Render("Report " + e.ReportID + " opened: " + target)
	case event.UploadStartedEvent:
		m.notice = ""
	}
}

func (m Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd, ok := m.keymap.GetBinding(key, m.mode)
	if m.mode == keymap.ModeInput && !ok {
		var c tea.Cmd
		m.input, c = m.input.Update(key)
		return m, c
	}
	if !ok {
		return m, nil
	}

	switch cmd {
	case keymap.CmdQuit:
		m.quitting = true
		return m, tea.Quit

	case keymap.CmdSelectFile:
		m.mode = keymap.ModeInput
		m.input.SetValue(m.snap.File.Path)
		m.input.CursorEnd()
		m.resize(m.width, m.height)
		focus := m.input.Focus()
		return m, focus

	case keymap.CmdConfirm:
		path := m.input.Value()
		m.leaveInput()
		if path == "" {
			return m, nil
		}
		return m, msg.SelectFile(m.workflow, path)

	case keymap.CmdCancel:
		m.leaveInput()
		return m, nil

	case keymap.CmdUpload:
		m.notice = ""
		return m, msg.Upload(m.ctx, m.workflow)

	case keymap.CmdToggleHistory:
		m.store.ToggleHistory()
		return m.applySnapshot(m.store.Snapshot())

	case keymap.CmdNextEntry:
		if m.snap.ShowHistory && m.cursor < len(m.snap.History)-1 {
			m.cursor++
			m.refreshBody()
		} else if !m.snap.ShowHistory {
			m.viewport.LineDown(1)
		}
		return m, nil

	case keymap.CmdPrevEntry:
		if m.snap.ShowHistory && m.cursor > 0 {
			m.cursor--
			m.refreshBody()
		} else if !m.snap.ShowHistory {
			m.viewport.LineUp(1)
		}
		return m, nil

	case keymap.CmdOpenReport:
		if !m.snap.ShowHistory || len(m.snap.History) == 0 {
			return m, nil
		}
		id := m.snap.History[m.cursor].ID
		m.notice = styles.Muted.Render("Opening report " + id.String() + "…")
		return m, msg.OpenReport(m.ctx, m.workflow, id)

	case keymap.CmdLatestReport:
		m.notice = ""
		return m, msg.LatestReport(m.ctx, m.workflow)

	case keymap.CmdExportChart:
		if m.snap.Chart == nil || m.snap.Chart.Len() == 0 {
			m.notice = styles.WarningMsg.Render("No chart to export")
			return m, nil
		}
		return m, msg.ExportChart(m.snap.Chart, m.opts.ExportDir, m.now())

	case keymap.CmdScrollPageUp:
		m.viewport.ViewUp()
	case keymap.CmdScrollPageDn:
		m.viewport.ViewDown()
	case keymap.CmdScrollToTop:
		m.viewport.GotoTop()
	case keymap.CmdScrollToEnd:
		m.viewport.GotoBottom()
	}
	return m, nil
}

func (m *Model) leaveInput() {
	m.mode = keymap.ModeNormal
	m.input.Blur()
	m.input.Reset()
	m.resize(m.width, m.height)
}

func (m *Model) refreshBody() {
	m.viewport.SetContent(view.RenderBody(m.snap, view.BodyOptions{
		ChartWidth: m.chartWidth(),
		Cursor:     m.cursor,
	}))
}
