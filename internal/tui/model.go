package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chemviz/chemviz/internal/session"
	"github.com/chemviz/chemviz/internal/tui/keymap"
	"github.com/chemviz/chemviz/internal/tui/msg"
	"github.com/chemviz/chemviz/internal/tui/styles"
)

// Layout constants
const (
	defaultWidth  = 80
	defaultHeight = 24
	minBodyHeight = 3
	// header (2+margin) + file line + status + help bar (1+margin)
	chromeHeight = 8
)

// Options configure the model.
type Options struct {
	BaseURL     string
	FilePattern string
	ChartWidth  int
	ExportDir   string
	// InitialPath is selected on startup when non-empty.
	InitialPath string
}

// Model is the bubbletea model of the dashboard. It renders from the
// latest store snapshot and dispatches key presses to workflow commands.
type Model struct {
	ctx      context.Context
	workflow msg.Workflow
	store    *session.Store
	opts     Options
	keymap   *keymap.Keymap
	mode     keymap.Mode

	snap     session.Snapshot
	cursor   int
	notice   string
	spinning bool

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	width, height int
	now           func() time.Time
	quitting      bool
}

// NewModel creates a Model reading state from store and running
// operations through w.
func NewModel(ctx context.Context, w msg.Workflow, store *session.Store, opts Options) Model {
	input := textinput.New()
	input.Prompt = "CSV file: "
	input.Placeholder = "path/to/equipment.csv"
	input.CharLimit = 4096

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	if opts.ChartWidth <= 0 {
		opts.ChartWidth = 40
	}

	m := Model{
		ctx:      ctx,
		workflow: w,
		store:    store,
		opts:     opts,
		keymap:   keymap.DefaultKeymap(),
		mode:     keymap.ModeNormal,
		snap:     store.Snapshot(),
		input:    input,
		spinner:  sp,
		viewport: viewport.New(defaultWidth, defaultHeight-chromeHeight),
		width:    defaultWidth,
		height:   defaultHeight,
		now:      time.Now,
	}
	m.refreshBody()
	return m
}

// Init fetches the history once and selects the initial file, if any.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{msg.FetchHistory(m.ctx, m.workflow)}
	if m.opts.InitialPath != "" {
		cmds = append(cmds, msg.SelectFile(m.workflow, m.opts.InitialPath))
	}
	return tea.Batch(cmds...)
}

// Snapshot returns the state the model currently renders.
func (m Model) Snapshot() session.Snapshot { return m.snap }

// Mode returns the current input mode.
func (m Model) Mode() keymap.Mode { return m.mode }

// Cursor returns the selected history entry.
func (m Model) Cursor() int { return m.cursor }

func (m *Model) bodyWidth() int {
	return max(m.width-2, 10)
}

func (m *Model) chartWidth() int {
	return min(m.opts.ChartWidth, m.bodyWidth())
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.viewport.Width = m.bodyWidth()
	h := height - chromeHeight
	if m.mode == keymap.ModeInput {
		h--
	}
	if m.snap.Error != "" {
		h--
	}
	m.viewport.Height = max(h, minBodyHeight)
	m.input.Width = max(width-len(m.input.Prompt)-2, 10)
}
