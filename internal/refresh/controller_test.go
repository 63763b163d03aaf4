package refresh

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/muurk/gpiostatus/internal/layout"
	"github.com/muurk/gpiostatus/internal/pinout"
	"github.com/muurk/gpiostatus/internal/settings"
	"github.com/muurk/gpiostatus/internal/testutil"
	"github.com/muurk/gpiostatus/internal/view"
)

var _ Preferences = (*settings.Store)(nil)

var fixedNow = time.Date(2026, 10, 14, 9, 30, 0, 0, time.Local)

// fakeFetcher replays responses in order, repeating the last one.
type fakeFetcher struct {
	mu        sync.Mutex
	responses []*pinout.Response
	err       error
	requests  []pinout.Request
}

func (f *fakeFetcher) Fetch(ctx context.Context, req pinout.Request) (*pinout.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

func (f *fakeFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func newTestController(t *testing.T, f Fetcher, s settings.Settings) (*Controller, *Board, *settings.Store) {
	t.Helper()
	prefs := settings.NewMemoryStore(s)
	board := NewBoard()
	c := New(f, board, prefs, Config{
		ControlsDelay: 50 * time.Millisecond,
		NotesDelay:    time.Hour,
		Now:           func() time.Time { return fixedNow },
	})
	t.Cleanup(c.Close)
	return c, board, prefs
}

func cellTexts(tbl layout.Table) []string {
	var out []string
	for _, row := range tbl.Rows {
		for _, c := range row {
			out = append(out, c.Text)
		}
	}
	return out
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func assertBanner(t *testing.T, b *Board, region layout.Region, text string) {
	t.Helper()
	tbl, ok := b.Table(region)
	if !ok || !tbl.IsBanner() || tbl.Rows[0][0].Text != text {
		t.Errorf("%s = %+v, want banner %q", region, tbl, text)
	}
}

func TestRefreshRenders(t *testing.T) {
	f := &fakeFetcher{responses: []*pinout.Response{testutil.FullResponse()}}
	c, board, _ := newTestController(t, f, settings.Defaults())

	state, err := c.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if state != StateRendered || c.State() != StateRendered {
		t.Errorf("state = %v, want rendered", state)
	}

	if req := f.requests[0]; req.Command != pinout.CommandGPIOStatus || !req.HW || !req.WantsFuncs {
		t.Errorf("first request = %+v, want static data requested", req)
	}

	gpio, ok := board.Table(layout.RegionGPIOTable)
	if !ok || len(gpio.Rows) != 20 {
		t.Fatalf("gpio table has %d rows, want 20 compact rows", len(gpio.Rows))
	}
	funcs, ok := board.Table(layout.RegionFuncsTable)
	if !ok || len(funcs.Rows) != 28 {
		t.Errorf("funcs table has %d rows, want 28", len(funcs.Rows))
	}

	checks := map[layout.Region]string{
		"hw_model":           "4B",
		"hw_memory":          "4096MB",
		"service_ssh":        "enabled",
		"service_camera":     "disabled",
		layout.RegionUpdated: "2026-10-14 09:30:00",
	}
	for region, want := range checks {
		if got := board.Text(region); got != want {
			t.Errorf("%s = %q, want %q", region, got, want)
		}
	}
	if !c.HasBackup() || !c.StaticLoaded() {
		t.Error("expected a backup and static data after success")
	}
}

func TestSecondRefreshSkipsStaticData(t *testing.T) {
	second := testutil.FullResponse()
	second.Hardware.Model = "3B"
	for i := range second.Status.Pins {
		second.Status.Pins[i].Funcs = nil
	}

	f := &fakeFetcher{responses: []*pinout.Response{testutil.FullResponse(), second}}
	c, board, _ := newTestController(t, f, settings.Defaults())
	ctx := context.Background()

	if _, err := c.Refresh(ctx); err != nil {
		t.Fatalf("first Refresh() error = %v", err)
	}
	if _, err := c.Refresh(ctx); err != nil {
		t.Fatalf("second Refresh() error = %v", err)
	}

	if req := f.requests[1]; req.HW || req.WantsFuncs {
		t.Errorf("second request = %+v, want no static data", req)
	}
	if got := board.Text("hw_model"); got != "4B" {
		t.Errorf("hw_model = %q, hardware must not be parsed again", got)
	}

	// GPIO14 runs ALT0; its name comes from the cached function table.
	gpio, _ := board.Table(layout.RegionGPIOTable)
	if !contains(cellTexts(gpio), "TXD0") {
		t.Error("cached functions not re-attached to the second payload")
	}
}

func TestRefreshCommandsMissing(t *testing.T) {
	f := &fakeFetcher{responses: []*pinout.Response{
		testutil.FullResponse(),
		{Commands: pinout.Commands{RaspiConfig: false, RaspiGPIO: true}},
	}}
	c, board, _ := newTestController(t, f, settings.Defaults())
	ctx := context.Background()

	if _, err := c.Refresh(ctx); err != nil {
		t.Fatalf("first Refresh() error = %v", err)
	}
	state, err := c.Refresh(ctx)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Refresh() error = %v, want ErrUnavailable", err)
	}
	if state != StateUnavailable {
		t.Errorf("state = %v, want unavailable", state)
	}

	notice := board.HTML(layout.RegionNotification)
	if !strings.Contains(notice, "raspi-config") || strings.Contains(notice, "raspi-gpio") {
		t.Errorf("notification = %q, want only raspi-config named", notice)
	}
	if cmds, ok := board.Notice(); !ok || !cmds.RaspiGPIO {
		t.Errorf("Notice() = %+v, %v", cmds, ok)
	}

	assertBanner(t, board, layout.RegionGPIOTable, FailedText)
	for _, region := range layout.ServiceRegions() {
		if got := board.Text(region); got != FailedText {
			t.Errorf("%s = %q, want %q", region, got, FailedText)
		}
	}
	if c.HasBackup() {
		t.Error("backup must be discarded when commands are missing")
	}
}

func TestFirstRefreshCommandsMissing(t *testing.T) {
	f := &fakeFetcher{responses: []*pinout.Response{{Commands: pinout.Commands{RaspiGPIO: true}}}}
	c, board, _ := newTestController(t, f, settings.Defaults())

	if _, err := c.Refresh(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Refresh() error = %v", err)
	}
	assertBanner(t, board, layout.RegionFuncsTable, FailedText)
	for _, region := range layout.HardwareRegions() {
		if got := board.Text(region); got != FailedText {
			t.Errorf("%s = %q, want %q", region, got, FailedText)
		}
	}
	if c.StaticLoaded() {
		t.Error("static data must stay unloaded")
	}
}

func TestRefreshFailureDiscardsBackup(t *testing.T) {
	f := &fakeFetcher{responses: []*pinout.Response{testutil.FullResponse()}}
	c, board, _ := newTestController(t, f, settings.Defaults())
	ctx := context.Background()

	if _, err := c.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	f.err = errors.New("connection refused")
	state, err := c.Refresh(ctx)
	if err == nil || state != StateFailed {
		t.Fatalf("Refresh() = %v, %v; want failed", state, err)
	}
	assertBanner(t, board, layout.RegionGPIOTable, FailedText)
	if got := board.Text("hw_model"); got != "4B" {
		t.Errorf("hw_model = %q, static regions keep their values", got)
	}
	if funcs, _ := board.Table(layout.RegionFuncsTable); funcs.IsBanner() {
		t.Error("functions table replaced by a placeholder after static data loaded")
	}
	if c.HasBackup() {
		t.Error("backup must be discarded on failure")
	}

	f.err = nil
	if _, err := c.RestoreOrRefresh(ctx); err != nil {
		t.Fatalf("RestoreOrRefresh() error = %v", err)
	}
	if f.calls() != 3 {
		t.Errorf("fetches = %d, RestoreOrRefresh without backup must fetch", f.calls())
	}
}

func TestRestoreUsesBackup(t *testing.T) {
	f := &fakeFetcher{responses: []*pinout.Response{testutil.FullResponse()}}
	c, board, prefs := newTestController(t, f, settings.Defaults())
	ctx := context.Background()

	if _, err := c.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if _, err := c.SetOption(ctx, view.HideImages, true); err != nil {
		t.Fatalf("SetOption() error = %v", err)
	}

	if f.calls() != 1 {
		t.Errorf("fetches = %d, option change must rebuild from the backup", f.calls())
	}
	if !prefs.Options().HideImages {
		t.Error("option not stored")
	}
	gpio, _ := board.Table(layout.RegionGPIOTable)
	for _, row := range gpio.Rows {
		for _, cell := range row {
			if cell.Kind == layout.KindImage {
				t.Fatal("images still shown after hide_images")
			}
		}
	}
}

func TestReloadOnOptionChange(t *testing.T) {
	f := &fakeFetcher{responses: []*pinout.Response{testutil.FullResponse()}}
	s := settings.Defaults()
	s.ReloadOnCheckChange = true
	c, _, _ := newTestController(t, f, s)
	ctx := context.Background()

	if _, err := c.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if _, err := c.ToggleOption(ctx, view.OrderByName); err != nil {
		t.Fatalf("ToggleOption() error = %v", err)
	}
	if f.calls() != 2 {
		t.Errorf("fetches = %d, want a refetch", f.calls())
	}
}

func TestRefreshRejectsGeometry(t *testing.T) {
	resp := testutil.FullResponse()
	resp.Status.Columns = 3
	f := &fakeFetcher{responses: []*pinout.Response{resp}}
	c, board, _ := newTestController(t, f, settings.Defaults())

	state, err := c.Refresh(context.Background())
	if !errors.Is(err, pinout.ErrUnsupportedLayout) {
		t.Fatalf("Refresh() error = %v, want ErrUnsupportedLayout", err)
	}
	if state != StateFailed || c.HasBackup() {
		t.Errorf("state = %v, backup = %v", state, c.HasBackup())
	}
	assertBanner(t, board, layout.RegionGPIOTable, FailedText)
}

func TestRefreshIncompletePayload(t *testing.T) {
	resp := testutil.FullResponse()
	resp.Services = nil
	f := &fakeFetcher{responses: []*pinout.Response{resp}}
	c, _, _ := newTestController(t, f, settings.Defaults())

	if _, err := c.Refresh(context.Background()); !errors.Is(err, ErrIncompletePayload) {
		t.Errorf("Refresh() error = %v, want ErrIncompletePayload", err)
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	calls := 0

	f := FetcherFunc(func(ctx context.Context, req pinout.Request) (*pinout.Response, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()

		resp := testutil.FullResponse()
		if n == 1 {
			close(started)
			<-release
			resp.Services = &pinout.Services{Camera: true}
		}
		return resp, nil
	})
	c, board, _ := newTestController(t, f, settings.Defaults())
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := c.Refresh(ctx)
		done <- err
	}()
	<-started

	if _, err := c.Refresh(ctx); err != nil {
		t.Fatalf("second Refresh() error = %v", err)
	}
	close(release)

	if err := <-done; !errors.Is(err, ErrStale) {
		t.Errorf("first Refresh() error = %v, want ErrStale", err)
	}
	if got := board.Text("service_camera"); got != "disabled" {
		t.Errorf("service_camera = %q, the stale response leaked", got)
	}
	if c.State() != StateRendered {
		t.Errorf("state = %v", c.State())
	}
}

func TestStartWithoutLoad(t *testing.T) {
	f := &fakeFetcher{responses: []*pinout.Response{testutil.FullResponse()}}
	s := settings.Defaults()
	s.LoadOnStartup = false
	c, board, _ := newTestController(t, f, s)

	state, err := c.Start(context.Background())
	if err != nil || state != StateIdle {
		t.Fatalf("Start() = %v, %v", state, err)
	}
	if f.calls() != 0 {
		t.Error("Start must not fetch when load_on_startup is off")
	}
	assertBanner(t, board, layout.RegionGPIOTable, WaitingText)
	assertBanner(t, board, layout.RegionFuncsTable, WaitingText)
	if got := board.Text("hw_model"); got != WaitingText {
		t.Errorf("hw_model = %q", got)
	}
	if !board.ControlsEnabled() {
		t.Error("controls should be enabled while waiting")
	}
}

func TestStartLoads(t *testing.T) {
	f := &fakeFetcher{responses: []*pinout.Response{testutil.FullResponse()}}
	c, _, _ := newTestController(t, f, settings.Defaults())

	if state, err := c.Start(context.Background()); err != nil || state != StateRendered {
		t.Fatalf("Start() = %v, %v", state, err)
	}
}

func TestControlsReenabled(t *testing.T) {
	f := &fakeFetcher{responses: []*pinout.Response{testutil.FullResponse()}}
	c, board, _ := newTestController(t, f, settings.Defaults())

	if _, err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	waitForControls(t, board)
}

func waitForControls(t *testing.T, board *Board) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !board.ControlsEnabled() {
		if time.Now().After(deadline) {
			t.Fatal("controls never re-enabled")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRefreshNormalizesStoredOptions(t *testing.T) {
	f := &fakeFetcher{responses: []*pinout.Response{testutil.FullResponse()}}
	s := settings.Defaults()
	s.Options = view.Options{CompactView: true, ShowNotes: true}
	c, _, prefs := newTestController(t, f, s)

	if _, err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got := prefs.Options(); got != (view.Options{CompactView: true}) {
		t.Errorf("stored options = %+v, want normalized", got)
	}
}

func TestEditNoteFlushedOnRebuild(t *testing.T) {
	f := &fakeFetcher{responses: []*pinout.Response{testutil.FullResponse()}}
	s := settings.Defaults()
	s.Options = view.Options{ShowNotes: true}
	c, board, prefs := newTestController(t, f, s)
	ctx := context.Background()

	if _, err := c.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	c.EditNote(3, "  sensor ")
	if _, err := c.RestoreOrRefresh(ctx); err != nil {
		t.Fatalf("RestoreOrRefresh() error = %v", err)
	}

	if got := prefs.NotesJSON(); got != `{"3":"sensor"}` {
		t.Errorf("pins_notes_json = %s", got)
	}
	gpio, _ := board.Table(layout.RegionGPIOTable)
	found := false
	for _, row := range gpio.Rows {
		for _, cell := range row {
			if cell.Kind == layout.KindNote && cell.NotePin == 3 && cell.Text == "sensor" {
				found = true
			}
		}
	}
	if !found {
		t.Error("note cell for pin 3 not rendered")
	}
}

func TestEditNoteBeforeFirstBuildKeepsSavedNotes(t *testing.T) {
	f := &fakeFetcher{responses: []*pinout.Response{testutil.FullResponse()}}
	s := settings.Defaults()
	s.Options = view.Options{ShowNotes: true}
	s.LoadOnStartup = false
	s.PinsNotesJSON = `{"1":"first"}`
	c, _, prefs := newTestController(t, f, s)

	if _, err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	c.EditNote(3, "second")
	c.Notes().Flush()

	if got := prefs.NotesJSON(); got != `{"1":"first","3":"second"}` {
		t.Errorf("pins_notes_json = %s, want both notes", got)
	}
}

func TestEditNoteWithNotesHiddenKeepsSavedNotes(t *testing.T) {
	f := &fakeFetcher{responses: []*pinout.Response{testutil.FullResponse()}}
	s := settings.Defaults()
	s.PinsNotesJSON = `{"1":"first"}`
	c, _, prefs := newTestController(t, f, s)

	if _, err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	c.EditNote(1, "")
	c.EditNote(5, "led")
	c.Notes().Flush()

	if got := prefs.NotesJSON(); got != `{"5":"led"}` {
		t.Errorf("pins_notes_json = %s", got)
	}
}

func TestRestoreCyclesControls(t *testing.T) {
	f := &fakeFetcher{responses: []*pinout.Response{testutil.FullResponse()}}
	c, board, _ := newTestController(t, f, settings.Defaults())
	ctx := context.Background()

	if _, err := c.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	waitForControls(t, board)

	if _, err := c.SetOption(ctx, view.HideImages, true); err != nil {
		t.Fatalf("SetOption() error = %v", err)
	}
	if board.ControlsEnabled() {
		t.Error("controls enabled right after a rebuild")
	}
	if c.State() != StateRendered {
		t.Errorf("state = %v, want rendered", c.State())
	}
	waitForControls(t, board)
}

func TestControlsStayDisabledDuringNewerRefresh(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	calls := 0

	f := FetcherFunc(func(ctx context.Context, req pinout.Request) (*pinout.Response, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 2 {
			close(started)
			<-release
		}
		return testutil.FullResponse(), nil
	})
	c, board, _ := newTestController(t, f, settings.Defaults())
	ctx := context.Background()

	if _, err := c.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	done := make(chan struct{})
	go func() {
		c.Refresh(ctx)
		close(done)
	}()
	<-started

	// well past the controls delay of the first refresh
	time.Sleep(150 * time.Millisecond)
	if board.ControlsEnabled() {
		t.Error("controls re-enabled while a refresh is loading")
	}
	close(release)
	<-done
	waitForControls(t, board)
}

func TestStateString(t *testing.T) {
	if StateUnavailable.String() != "unavailable" || State(42).String() != "State(42)" {
		t.Error("unexpected State strings")
	}
}
