package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/gpiostatus/internal/layout"
	"github.com/muurk/gpiostatus/internal/logging"
	"github.com/muurk/gpiostatus/internal/notes"
	"github.com/muurk/gpiostatus/internal/refresh"
	"github.com/muurk/gpiostatus/internal/statusclient"
	"github.com/muurk/gpiostatus/internal/ui"
	"github.com/muurk/gpiostatus/internal/view"
)

// pollInterval is how often the board is checked for changes made outside
// Update, such as the controls timer re-enabling the toggles.
const pollInterval = 200 * time.Millisecond

// chromeHeight is the number of lines around the viewport.
const chromeHeight = 6

// Messages for async operations
type refreshedMsg struct {
	state refresh.State
	err   error
}

type pollMsg struct{}
type autoRefreshMsg struct{}
type settingsChangedMsg struct{}

// Config wires a Model to its controller.
type Config struct {
	Controller *refresh.Controller
	Board      *refresh.Board
	Prefs      refresh.Preferences

	// Source is the server URL shown in the title bar.
	Source string

	// Interval refreshes automatically when non-zero.
	Interval time.Duration

	// Changes signals that the settings file was rewritten; Reload reads it
	// again. Both may be nil.
	Changes <-chan struct{}
	Reload  func() error

	Context context.Context
}

// Model is the watch screen.
type Model struct {
	cfg       Config
	ctx       context.Context
	keys      keyMap
	editKeys  editKeyMap
	help      help.Model
	spinner   spinner.Model
	viewport  viewport.Model
	noteInput textinput.Model

	busy          bool
	editing       bool
	showFunctions bool
	state         refresh.State
	lastErr       error
	inputErr      string
	version       uint64

	width  int
	height int
}

// New creates the watch screen.
func New(cfg Config) Model {
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	input := textinput.New()
	input.Placeholder = "12 relay coil"
	input.Prompt = "Note> "
	input.CharLimit = notes.MaxNoteLength + 4 // room for the pin number
	input.Width = 40

	width, height := ui.GetTerminalSize()
	vp := viewport.New(width, max(height-chromeHeight, 1))

	m := Model{
		cfg:           cfg,
		ctx:           ctx,
		keys:          newKeyMap(),
		editKeys:      newEditKeyMap(),
		help:          help.New(),
		spinner:       s,
		viewport:      vp,
		noteInput:     input,
		showFunctions: true,
		width:         width,
		height:        height,
	}
	m.syncContent()
	return m
}

// Init starts the controller and the background tickers.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.start(), poll()}
	if m.cfg.Interval > 0 {
		cmds = append(cmds, autoRefresh(m.cfg.Interval))
	}
	if m.cfg.Changes != nil {
		cmds = append(cmds, waitForChange(m.cfg.Changes))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-m.chrome(), 1)
		m.syncContent()
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateNormal(msg)

	case refreshedMsg:
		m.busy = false
		m.state = msg.state
		if !errors.Is(msg.err, refresh.ErrStale) {
			m.lastErr = msg.err
		}
		m.syncContent()
		return m, nil

	case pollMsg:
		if m.cfg.Board.Version() != m.version {
			m.syncContent()
		}
		return m, poll()

	case autoRefreshMsg:
		next := autoRefresh(m.cfg.Interval)
		if m.busy || !m.cfg.Board.ControlsEnabled() {
			return m, next
		}
		m.busy = true
		return m, tea.Batch(m.refresh(), m.spinner.Tick, next)

	case settingsChangedMsg:
		return m, tea.Batch(m.reloadSettings(), waitForChange(m.cfg.Changes))

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cfg.Controller.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.viewport.Height = max(m.height-m.chrome(), 1)
		return m, nil

	case key.Matches(msg, m.keys.Functions):
		m.showFunctions = !m.showFunctions
		m.syncContent()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if !m.controlsEnabled() {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.refresh(), m.spinner.Tick)

	case key.Matches(msg, m.keys.EditNote):
		if !m.cfg.Prefs.Options().ShowNotes {
			return m, nil
		}
		m.editing = true
		m.inputErr = ""
		m.noteInput.Reset()
		m.viewport.Height = max(m.height-m.chrome(), 1)
		return m, m.noteInput.Focus()

	case key.Matches(msg, m.keys.Up, m.keys.Down, m.keys.PageUp, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	for opt, binding := range m.keys.Options {
		if key.Matches(msg, binding) {
			if !m.controlsEnabled() {
				return m, nil
			}
			m.busy = true
			return m, tea.Batch(m.toggle(opt), m.spinner.Tick)
		}
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.editKeys.Cancel):
		m.stopEditing()
		return m, nil

	case key.Matches(msg, m.editKeys.Confirm):
		pin, text, err := ParseNoteInput(m.noteInput.Value())
		if err != nil {
			m.inputErr = err.Error()
			return m, nil
		}
		m.stopEditing()
		m.cfg.Controller.EditNote(pin, text)
		return m, m.restore()
	}

	var cmd tea.Cmd
	m.noteInput, cmd = m.noteInput.Update(msg)
	return m, cmd
}

func (m *Model) stopEditing() {
	m.editing = false
	m.inputErr = ""
	m.noteInput.Blur()
	m.viewport.Height = max(m.height-m.chrome(), 1)
}

// controlsEnabled is false while a refresh runs and for the controls delay
// after it.
func (m Model) controlsEnabled() bool {
	return !m.busy && m.cfg.Board.ControlsEnabled()
}

func (m Model) chrome() int {
	h := chromeHeight
	if m.editing {
		h++
	}
	if m.help.ShowAll {
		h += 3
	}
	return h
}

// syncContent redraws the page into the viewport.
func (m *Model) syncContent() {
	m.version = m.cfg.Board.Version()
	page := &ui.Page{
		Source:        m.cfg.Board,
		Width:         m.width,
		ShowFunctions: m.showFunctions,
		ShowHardware:  true,
	}
	m.viewport.SetContent(page.Render())
}

// View renders the screen
func (m Model) View() string {
	var b strings.Builder

	title := ui.HeaderTitleStyle.Render("GPIO STATUS")
	if m.cfg.Source != "" {
		title += ui.HeaderCommandStyle.Render(m.cfg.Source)
	}
	b.WriteString(title + "\n")
	b.WriteString(m.statusLine() + "\n")
	b.WriteString(m.optionsLine() + "\n")
	b.WriteString(m.viewport.View() + "\n")

	if m.editing {
		line := m.noteInput.View()
		if m.inputErr != "" {
			line += "  " + ErrorTextStyle.Render(m.inputErr)
		}
		b.WriteString(line + "\n")
	}

	if m.editing {
		b.WriteString(m.help.View(m.editKeys))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m Model) statusLine() string {
	switch {
	case m.busy || m.state == refresh.StateLoading:
		return "  " + m.spinner.View() + " " + refresh.UpdatingText
	case m.lastErr != nil:
		return "  " + ErrorTextStyle.Render(ui.FailureMarker+" "+statusclient.GetShortErrorMessage(m.lastErr))
	case m.state == refresh.StateRendered:
		line := "  " + OKTextStyle.Render(ui.SuccessMarker+" Up to date")
		if updated := m.cfg.Board.Text(layout.RegionUpdated); updated != "" {
			line += MutedTextStyle.Render("  " + updated)
		}
		return line
	}
	return MutedTextStyle.Render("  Press r to refresh")
}

func (m Model) optionsLine() string {
	opts := m.cfg.Prefs.Options()
	enabled := m.controlsEnabled()
	parts := make([]string, 0, len(optionKeys))
	for _, k := range optionKeys {
		box := "[ ]"
		if opts.Get(k.opt) {
			box = "[x]"
		}
		label := fmt.Sprintf("%s %s %s", k.key, box, k.help)
		if enabled {
			parts = append(parts, OptionStyle.Render(label))
		} else {
			parts = append(parts, DisabledOptionStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// --- controller commands ---

func (m Model) start() tea.Cmd {
	ctrl, ctx := m.cfg.Controller, m.ctx
	return func() tea.Msg {
		state, err := ctrl.Start(ctx)
		return refreshedMsg{state: state, err: err}
	}
}

func (m Model) refresh() tea.Cmd {
	ctrl, ctx := m.cfg.Controller, m.ctx
	return func() tea.Msg {
		state, err := ctrl.Refresh(ctx)
		return refreshedMsg{state: state, err: err}
	}
}

func (m Model) toggle(opt view.Option) tea.Cmd {
	ctrl, ctx := m.cfg.Controller, m.ctx
	return func() tea.Msg {
		state, err := ctrl.ToggleOption(ctx, opt)
		return refreshedMsg{state: state, err: err}
	}
}

func (m Model) restore() tea.Cmd {
	ctrl, ctx := m.cfg.Controller, m.ctx
	return func() tea.Msg {
		state, err := ctrl.RestoreOrRefresh(ctx)
		return refreshedMsg{state: state, err: err}
	}
}

// reloadSettings rereads the settings file and rebuilds when the view
// options differ from the ones in memory.
func (m Model) reloadSettings() tea.Cmd {
	if m.cfg.Reload == nil {
		return nil
	}
	ctrl, ctx, prefs, reload := m.cfg.Controller, m.ctx, m.cfg.Prefs, m.cfg.Reload
	return func() tea.Msg {
		before := prefs.Options()
		if err := reload(); err != nil {
			logging.Warn("Settings reload failed", zap.Error(err))
			return nil
		}
		if prefs.Options() == before {
			return nil
		}
		logging.Debug("View options changed on disk", zap.Any("options", prefs.Options()))
		state, err := ctrl.OptionsChanged(ctx)
		return refreshedMsg{state: state, err: err}
	}
}

func poll() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return pollMsg{} })
}

func autoRefresh(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(time.Time) tea.Msg { return autoRefreshMsg{} })
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return settingsChangedMsg{}
	}
}

// ParseNoteInput splits "<pin> <text>" into a physical position and a note.
// An empty text clears the note.
func ParseNoteInput(s string) (int, string, error) {
	s = strings.TrimSpace(s)
	head, rest, _ := strings.Cut(s, " ")
	pin, err := strconv.Atoi(head)
	if err != nil || pin < 1 {
		return 0, "", errors.New("start with a pin number, e.g. 12 relay coil")
	}
	return pin, strings.TrimSpace(rest), nil
}
