package tui

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/gpiostatus/internal/pinout"
	"github.com/muurk/gpiostatus/internal/refresh"
	"github.com/muurk/gpiostatus/internal/settings"
	"github.com/muurk/gpiostatus/internal/statusclient"
	"github.com/muurk/gpiostatus/internal/testutil"
	"github.com/muurk/gpiostatus/internal/view"
)

type harness struct {
	model   Model
	board   *refresh.Board
	store   *settings.Store
	ctrl    *refresh.Controller
	fetches atomic.Int32
}

func newHarness(t *testing.T, s settings.Settings, controlsDelay time.Duration) *harness {
	t.Helper()
	h := &harness{
		board: refresh.NewBoard(),
		store: settings.NewMemoryStore(s),
	}
	fetch := refresh.FetcherFunc(func(ctx context.Context, req pinout.Request) (*pinout.Response, error) {
		h.fetches.Add(1)
		return testutil.FullResponse(), nil
	})
	h.ctrl = refresh.New(fetch, h.board, h.store, refresh.Config{ControlsDelay: controlsDelay, NotesDelay: time.Hour})
	t.Cleanup(h.ctrl.Close)
	h.model = New(Config{Controller: h.ctrl, Board: h.board, Prefs: h.store, Source: "http://pi:5000"})
	return h
}

// send feeds msg to the model and runs the returned command, feeding back
// every message it produces.
func (h *harness) send(msg tea.Msg) {
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	for _, m := range collect(cmd) {
		h.send(m)
	}
}

// collect runs cmd and flattens batches. Spinner ticks are dropped so
// sending them back does not loop.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		if _, isRefresh := msg.(refreshedMsg); isRefresh {
			return []tea.Msg{msg}
		}
		return nil
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, collect(c)...)
	}
	return out
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func waitControls(t *testing.T, b *refresh.Board) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !b.ControlsEnabled() {
		if time.Now().After(deadline) {
			t.Fatal("controls were never re-enabled")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func (h *harness) start() {
	h.send(h.model.start()())
}

func TestStartRendersBoard(t *testing.T) {
	h := newHarness(t, settings.Defaults(), time.Hour)
	h.start()

	if h.model.state != refresh.StateRendered {
		t.Fatalf("state = %v, want rendered", h.model.state)
	}
	out := h.model.View()
	for _, want := range []string{"GPIO STATUS", "http://pi:5000", "Up to date", "[x] compact"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestStartWithoutLoadOnStartup(t *testing.T) {
	s := settings.Defaults()
	s.LoadOnStartup = false
	h := newHarness(t, s, time.Hour)
	h.start()

	if h.fetches.Load() != 0 {
		t.Errorf("fetches = %d, want 0", h.fetches.Load())
	}
	if !strings.Contains(h.model.View(), "Press r to refresh") {
		t.Errorf("View() should ask for a refresh:\n%s", h.model.View())
	}
}

func TestRefreshIgnoredWhileControlsDisabled(t *testing.T) {
	h := newHarness(t, settings.Defaults(), time.Hour)
	h.start()

	_, cmd := h.model.Update(keyPress("r"))
	if cmd != nil {
		t.Error("refresh key returned a command while controls are disabled")
	}
	_, cmd = h.model.Update(keyPress("c"))
	if cmd != nil {
		t.Error("option key returned a command while controls are disabled")
	}
}

func TestRefreshKey(t *testing.T) {
	h := newHarness(t, settings.Defaults(), time.Millisecond)
	h.start()
	waitControls(t, h.board)

	h.send(keyPress("r"))
	if got := h.fetches.Load(); got != 2 {
		t.Errorf("fetches = %d, want 2", got)
	}
	if h.model.busy {
		t.Error("model still busy after the refresh finished")
	}
}

func TestToggleOption(t *testing.T) {
	h := newHarness(t, settings.Defaults(), time.Millisecond)
	h.start()
	waitControls(t, h.board)

	h.send(keyPress("c"))
	if h.store.Options().CompactView {
		t.Error("compact view still set after toggle")
	}
	// rebuilt from the backup, no refetch
	if got := h.fetches.Load(); got != 1 {
		t.Errorf("fetches = %d, want 1", got)
	}
	if !strings.Contains(h.model.View(), "[ ] compact") {
		t.Errorf("options line not updated:\n%s", h.model.View())
	}
}

func TestEditNote(t *testing.T) {
	s := settings.Defaults()
	s.Options = view.Options{ShowNotes: true}
	h := newHarness(t, s, time.Hour)
	h.start()

	h.send(keyPress("e"))
	if !h.model.editing {
		t.Fatal("e did not open the note editor")
	}
	h.send(keyPress("3 sensor"))
	h.send(tea.KeyMsg{Type: tea.KeyEnter})

	if h.model.editing {
		t.Error("editor still open after enter")
	}
	if got := h.store.NotesJSON(); got != `{"3":"sensor"}` {
		t.Errorf("NotesJSON() = %q", got)
	}
	if !strings.Contains(h.model.viewport.View(), "sensor") {
		t.Errorf("note not shown in the table:\n%s", h.model.viewport.View())
	}
}

func TestEditNoteInvalidInput(t *testing.T) {
	s := settings.Defaults()
	s.Options = view.Options{ShowNotes: true}
	h := newHarness(t, s, time.Hour)
	h.start()

	h.send(keyPress("e"))
	h.send(keyPress("sensor"))
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	if !h.model.editing || h.model.inputErr == "" {
		t.Errorf("editing = %v, inputErr = %q, want an error in the open editor", h.model.editing, h.model.inputErr)
	}

	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	if h.model.editing {
		t.Error("esc did not close the editor")
	}
	if got := h.store.NotesJSON(); got != "{}" {
		t.Errorf("NotesJSON() = %q, want {}", got)
	}
}

func TestEditNoteNeedsShowNotes(t *testing.T) {
	h := newHarness(t, settings.Defaults(), time.Hour)
	h.start()

	h.send(keyPress("e"))
	if h.model.editing {
		t.Error("note editor opened with notes hidden")
	}
}

func TestFunctionsToggle(t *testing.T) {
	h := newHarness(t, settings.Defaults(), time.Hour)
	h.start()

	h.send(keyPress("f"))
	if h.model.showFunctions {
		t.Error("f did not hide the functions section")
	}
}

func TestQuit(t *testing.T) {
	h := newHarness(t, settings.Defaults(), time.Hour)
	_, cmd := h.model.Update(keyPress("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestRefreshedMessages(t *testing.T) {
	h := newHarness(t, settings.Defaults(), time.Hour)

	h.send(refreshedMsg{state: refresh.StateFailed, err: statusclient.NewNetworkError("dial failed", errors.New("connection refused"))})
	if !strings.Contains(h.model.View(), "✗") {
		t.Errorf("View() missing failure marker:\n%s", h.model.View())
	}

	h.send(refreshedMsg{state: refresh.StateFailed, err: refresh.ErrStale})
	if h.model.lastErr == nil || errors.Is(h.model.lastErr, refresh.ErrStale) {
		t.Errorf("stale result replaced the last error: %v", h.model.lastErr)
	}
}

func TestReloadSettings(t *testing.T) {
	h := newHarness(t, settings.Defaults(), time.Hour)
	h.start()

	var compact bool
	h.model.cfg.Reload = func() error {
		h.store.Update(func(s *settings.Settings) { s.CompactView = compact })
		return nil
	}

	compact = true
	if msg := h.model.reloadSettings()(); msg != nil {
		t.Errorf("unchanged options produced %T", msg)
	}

	compact = false
	msg := h.model.reloadSettings()()
	if _, ok := msg.(refreshedMsg); !ok {
		t.Fatalf("changed options produced %T, want refreshedMsg", msg)
	}
	if got := h.fetches.Load(); got != 1 {
		t.Errorf("fetches = %d, want 1", got)
	}
}

func TestParseNoteInput(t *testing.T) {
	tests := []struct {
		in      string
		pin     int
		text    string
		wantErr bool
	}{
		{"12 relay coil", 12, "relay coil", false},
		{"  7   led ", 7, "led", false},
		{"7", 7, "", false},
		{"relay", 0, "", true},
		{"0 x", 0, "", true},
		{"", 0, "", true},
	}
	for _, tt := range tests {
		pin, text, err := ParseNoteInput(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseNoteInput(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if pin != tt.pin || text != tt.text {
			t.Errorf("ParseNoteInput(%q) = %d, %q, want %d, %q", tt.in, pin, text, tt.pin, tt.text)
		}
	}
}
