package refresh

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/gpiostatus/internal/debounce"
	"github.com/muurk/gpiostatus/internal/layout"
	"github.com/muurk/gpiostatus/internal/logging"
	"github.com/muurk/gpiostatus/internal/notes"
	"github.com/muurk/gpiostatus/internal/pinout"
	"github.com/muurk/gpiostatus/internal/view"
)

// Texts shown in every pending output region.
const (
	UpdatingText = "Updating..."
	FailedText   = "Failed to retrieve"
	WaitingText  = "Waiting to click refresh button"
)

// UpdatedFormat is the layout of the last-updated label.
const UpdatedFormat = "2006-01-02 15:04:05"

// DefaultControlsDelay is how long controls stay disabled after a refresh.
const DefaultControlsDelay = 2 * time.Second

var (
	// ErrStale is returned by Refresh when a newer refresh started while the
	// fetch was in flight. The response was dropped.
	ErrStale = errors.New("stale status response")

	// ErrUnavailable is returned when the host lacks raspi-config or raspi-gpio.
	ErrUnavailable = errors.New("required host commands are missing")

	// ErrIncompletePayload is returned for a response that claims success but
	// carries no pin or service data.
	ErrIncompletePayload = errors.New("status payload is incomplete")
)

// State is the controller's position in the refresh cycle.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateRendered
	StateFailed
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateRendered:
		return "rendered"
	case StateFailed:
		return "failed"
	case StateUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Fetcher retrieves one status payload.
type Fetcher interface {
	Fetch(ctx context.Context, req pinout.Request) (*pinout.Response, error)
}

// FetcherFunc adapts a function, such as hostgpio.Provider.Status, to Fetcher.
type FetcherFunc func(ctx context.Context, req pinout.Request) (*pinout.Response, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, req pinout.Request) (*pinout.Response, error) {
	return f(ctx, req)
}

// Target receives the output regions. Implementations must not call back
// into the controller.
type Target interface {
	SetTable(region layout.Region, t layout.Table)
	SetText(region layout.Region, text string)
	// SetNotice shows the missing-commands guidance in the notification region.
	SetNotice(c pinout.Commands)
	SetControlsEnabled(enabled bool)
}

// Preferences is the controller's view of the settings store.
type Preferences interface {
	Options() view.Options
	SetOptions(o view.Options)
	ReloadOnOptionChange() bool
	LoadOnStartup() bool
	NotesJSON() string
	SetNotesJSON(blob string)
	// Save schedules a debounced write.
	Save()
}

// Config tunes a Controller. Zero values select the defaults.
type Config struct {
	ControlsDelay time.Duration
	NotesDelay    time.Duration
	Now           func() time.Time
}

// snapshot is the last successful payload, minus the static data.
type snapshot struct {
	status   *pinout.Status
	services *pinout.Services
}

// Controller runs the refresh state machine. It is safe for concurrent use.
// The controls timer calls the Target from its own goroutine, so a Target
// must be safe for concurrent use too.
type Controller struct {
	fetcher  Fetcher
	target   Target
	prefs    Preferences
	notes    *notes.Store
	controls *debounce.Timer
	now      func() time.Time

	mu           sync.Mutex
	state        State
	seq          uint64
	backup       *snapshot
	staticLoaded bool
	funcs        map[string][]string
}

// New creates an idle controller.
func New(fetcher Fetcher, target Target, prefs Preferences, cfg Config) *Controller {
	if cfg.ControlsDelay == 0 {
		cfg.ControlsDelay = DefaultControlsDelay
	}
	if cfg.NotesDelay == 0 {
		cfg.NotesDelay = notes.DefaultSaveDelay
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	c := &Controller{
		fetcher:  fetcher,
		target:   target,
		prefs:    prefs,
		controls: debounce.New(cfg.ControlsDelay),
		now:      cfg.Now,
		funcs:    make(map[string][]string),
	}
	c.notes = notes.NewStore(cfg.NotesDelay, func(blob string) {
		prefs.SetNotesJSON(blob)
		prefs.Save()
	})
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// StaticLoaded reports whether board facts and alternate functions have
// been received.
func (c *Controller) StaticLoaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.staticLoaded
}

// HasBackup reports whether an option change can rebuild without a fetch.
func (c *Controller) HasBackup() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backup != nil
}

// Notes returns the note store fed by EditNote.
func (c *Controller) Notes() *notes.Store {
	return c.notes
}

// Start opens the view: it refreshes when load_on_startup is set and
// otherwise asks the user to refresh.
func (c *Controller) Start(ctx context.Context) (State, error) {
	if c.prefs.LoadOnStartup() {
		return c.Refresh(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.placeholder(WaitingText, false)
	c.target.SetControlsEnabled(true)
	return c.state, nil
}

// Refresh fetches a new payload and renders it.
func (c *Controller) Refresh(ctx context.Context) (State, error) {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	static := c.staticLoaded
	c.state = StateLoading
	c.disableControls()
	c.placeholder(UpdatingText, static)
	c.mu.Unlock()

	resp, err := c.fetcher.Fetch(ctx, pinout.NewRequest(!static))

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		logging.Debug("Dropping stale status response", zap.Uint64("seq", seq), zap.Uint64("latest", c.seq))
		return c.state, ErrStale
	}

	state, err := c.complete(resp, err, static)
	c.state = state
	c.target.SetText(layout.RegionUpdated, c.now().Format(UpdatedFormat))
	c.enableControlsLater(seq)
	logging.LogRefresh(seq, state.String(), err)
	return state, err
}

// disableControls stops a pending re-enable and turns the controls off.
// Called with c.mu held.
func (c *Controller) disableControls() {
	c.controls.Stop()
	c.target.SetControlsEnabled(false)
}

// enableControlsLater turns the controls back on after the controls delay,
// unless a newer refresh has started by then. Called with c.mu held.
func (c *Controller) enableControlsLater(seq uint64) {
	c.controls.Schedule(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if seq != c.seq || c.state == StateLoading {
			return
		}
		c.target.SetControlsEnabled(true)
	})
}

// complete handles a finished fetch. Called with c.mu held.
func (c *Controller) complete(resp *pinout.Response, err error, static bool) (State, error) {
	if err != nil {
		c.fail(static)
		return StateFailed, err
	}

	if !resp.Commands.Available() {
		c.backup = nil
		c.placeholder(FailedText, static)
		c.target.SetNotice(resp.Commands)
		return StateUnavailable, fmt.Errorf("%w: %s", ErrUnavailable, strings.Join(resp.Commands.Missing(), ", "))
	}

	if resp.Status == nil || resp.Services == nil {
		c.fail(static)
		return StateFailed, ErrIncompletePayload
	}
	if err := resp.Status.Validate(); err != nil {
		c.fail(static)
		return StateFailed, err
	}

	snap := &snapshot{status: resp.Status.Clone(), services: cloneServices(resp.Services)}
	if !static {
		c.cacheFuncs(snap.status)
	}
	c.attachFuncs(snap.status)

	out, err := c.build(snap)
	if err != nil {
		c.fail(static)
		return StateFailed, err
	}
	if !static {
		funcs := layout.BuildFunctionsTable(snap.status.Pins)
		out.funcsTable = &funcs
		if resp.Hardware != nil {
			out.hardware = layout.HardwareFacts(resp.Hardware)
		}
	}

	c.backup = snap
	c.staticLoaded = true
	c.write(out)
	return StateRendered, nil
}

func (c *Controller) fail(static bool) {
	c.backup = nil
	c.placeholder(FailedText, static)
}

// RestoreOrRefresh rebuilds the tables from the backup, or refreshes when
// there is none. A rebuild goes through loading like a refresh does: the
// controls are disabled and come back after the controls delay.
func (c *Controller) RestoreOrRefresh(ctx context.Context) (State, error) {
	c.mu.Lock()
	if c.backup == nil {
		c.mu.Unlock()
		return c.Refresh(ctx)
	}
	defer c.mu.Unlock()

	c.state = StateLoading
	c.disableControls()
	defer c.enableControlsLater(c.seq)

	out, err := c.build(c.backup)
	if err != nil {
		c.fail(true)
		c.state = StateFailed
		return c.state, err
	}
	c.write(out)
	c.state = StateRendered
	return c.state, nil
}

// OptionsChanged reacts to a view option change: a refetch when
// reload_on_check_change is set, otherwise a rebuild from the backup.
func (c *Controller) OptionsChanged(ctx context.Context) (State, error) {
	if c.prefs.ReloadOnOptionChange() {
		return c.Refresh(ctx)
	}
	return c.RestoreOrRefresh(ctx)
}

// SetOption applies a user toggle, schedules a settings save and rebuilds.
func (c *Controller) SetOption(ctx context.Context, opt view.Option, value bool) (State, error) {
	c.prefs.SetOptions(c.prefs.Options().Set(opt, value))
	c.prefs.Save()
	return c.OptionsChanged(ctx)
}

// ToggleOption flips one option, as a checkbox click does.
func (c *Controller) ToggleOption(ctx context.Context, opt view.Option) (State, error) {
	return c.SetOption(ctx, opt, !c.prefs.Options().Get(opt))
}

// EditNote records an inline note edit. The notes blob is saved once edits
// have been quiet for the notes delay.
//
// Without a pending save the store may be behind the saved blob (nothing
// built yet, or notes hidden), so it is reloaded first and the save keeps
// the other pins' notes.
func (c *Controller) EditNote(pin int, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.notes.Pending() {
		if err := c.notes.Load(c.prefs.NotesJSON()); err != nil {
			logging.Warn("Ignoring unreadable pin notes", zap.Error(err))
		}
	}
	c.notes.Edit(pin, text)
}

// Close stops the timers, saving a pending note edit first.
func (c *Controller) Close() {
	c.notes.Flush()
	c.notes.Stop()
	c.controls.Stop()
}

// output is everything one render writes, computed before any write.
type output struct {
	gpioTable  layout.Table
	services   []layout.Fact
	funcsTable *layout.Table
	hardware   []layout.Fact
}

// build formats a snapshot under the current options. Called with c.mu held.
func (c *Controller) build(snap *snapshot) (*output, error) {
	opts, changed := c.prefs.Options().Normalize()
	if changed {
		logging.Debug("Normalized view options", zap.Any("options", opts))
		c.prefs.SetOptions(opts)
		c.prefs.Save()
	}

	c.notes.Flush()
	if opts.ShowNotes {
		if err := c.notes.Load(c.prefs.NotesJSON()); err != nil {
			logging.Warn("Ignoring unreadable pin notes", zap.Error(err))
		}
	} else {
		c.notes.Clear()
	}

	table, err := layout.BuildGPIOTable(snap.status, opts, c.notes.Snapshot())
	if err != nil {
		return nil, err
	}
	return &output{gpioTable: table, services: layout.ServiceFacts(snap.services)}, nil
}

func (c *Controller) write(out *output) {
	c.target.SetTable(layout.RegionGPIOTable, out.gpioTable)
	for _, f := range out.services {
		c.target.SetText(f.Region, f.Value)
	}
	if out.funcsTable != nil {
		c.target.SetTable(layout.RegionFuncsTable, *out.funcsTable)
	}
	for _, f := range out.hardware {
		c.target.SetText(f.Region, f.Value)
	}
	c.target.SetText(layout.RegionNotification, "")
}

// placeholder fills the pending regions with text. Static regions are only
// touched until the static data has loaded.
func (c *Controller) placeholder(text string, static bool) {
	c.target.SetTable(layout.RegionGPIOTable, layout.Banner(text))
	for _, r := range layout.ServiceRegions() {
		c.target.SetText(r, text)
	}
	if static {
		return
	}
	c.target.SetTable(layout.RegionFuncsTable, layout.Banner(text))
	for _, r := range layout.HardwareRegions() {
		c.target.SetText(r, text)
	}
}

// cacheFuncs remembers the alternate functions sent with the first payload.
func (c *Controller) cacheFuncs(status *pinout.Status) {
	for _, p := range status.Pins {
		if p.IsBCM && len(p.Funcs) > 0 {
			c.funcs[p.Name] = append([]string(nil), p.Funcs...)
		}
	}
}

// attachFuncs restores cached functions on pins that arrived without them.
func (c *Controller) attachFuncs(status *pinout.Status) {
	for i := range status.Pins {
		p := &status.Pins[i]
		if !p.IsBCM || len(p.Funcs) > 0 {
			continue
		}
		if funcs, ok := c.funcs[p.Name]; ok {
			p.Funcs = append([]string(nil), funcs...)
		}
	}
}

func cloneServices(s *pinout.Services) *pinout.Services {
	out := *s
	return &out
}
