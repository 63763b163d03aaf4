package refresh

import (
	"sort"
	"sync"

	"github.com/muurk/gpiostatus/internal/layout"
	"github.com/muurk/gpiostatus/internal/pinout"
)

// Board is an in-memory Target. It keeps the latest table or text of every
// region and renders them as HTML fragments.
type Board struct {
	mu       sync.RWMutex
	renderer *layout.HTMLRenderer
	tables   map[layout.Region]layout.Table
	texts    map[layout.Region]string
	notice   *pinout.Commands
	controls bool
	version  uint64
}

var _ Target = (*Board)(nil)

// NewBoard creates an empty board rendering with layout.DefaultImageBase.
func NewBoard() *Board {
	return &Board{
		renderer: layout.NewHTMLRenderer(),
		tables:   make(map[layout.Region]layout.Table),
		texts:    make(map[layout.Region]string),
		controls: true,
	}
}

// SetImageBase changes where pin icons are loaded from.
func (b *Board) SetImageBase(base string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.renderer = &layout.HTMLRenderer{ImageBase: base}
}

func (b *Board) SetTable(region layout.Region, t layout.Table) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.texts, region)
	b.tables[region] = t
	b.version++
}

func (b *Board) SetText(region layout.Region, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.tables, region)
	b.texts[region] = text
	if region == layout.RegionNotification {
		b.notice = nil
	}
	b.version++
}

func (b *Board) SetNotice(c pinout.Commands) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notice = &c
	b.texts[layout.RegionNotification] = layout.MissingCommandsNotice(c)
	b.version++
}

func (b *Board) SetControlsEnabled(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.controls = enabled
	b.version++
}

// Table returns a table region. ok is false when the region holds text or
// was never written.
func (b *Board) Table(region layout.Region) (layout.Table, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	t, ok := b.tables[region]
	return t, ok
}

// Text returns a label region.
func (b *Board) Text(region layout.Region) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.texts[region]
}

// Notice returns the commands of the current missing-commands notice.
func (b *Board) Notice() (pinout.Commands, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.notice == nil {
		return pinout.Commands{}, false
	}
	return *b.notice, true
}

// ControlsEnabled reports whether the refresh controls accept input.
func (b *Board) ControlsEnabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.controls
}

// Version increases on every write. Pollers use it to skip redraws.
func (b *Board) Version() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// HTML returns the fragment of one region.
func (b *Board) HTML(region layout.Region) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.htmlLocked(region)
}

func (b *Board) htmlLocked(region layout.Region) string {
	if t, ok := b.tables[region]; ok {
		return b.renderer.Render(t)
	}
	return b.texts[region]
}

// Fragments returns the HTML of every written region.
func (b *Board) Fragments() map[layout.Region]string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[layout.Region]string, len(b.tables)+len(b.texts))
	for r := range b.tables {
		out[r] = b.htmlLocked(r)
	}
	for r := range b.texts {
		out[r] = b.htmlLocked(r)
	}
	return out
}

// Regions lists the written regions, sorted by name.
func (b *Board) Regions() []layout.Region {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]layout.Region, 0, len(b.tables)+len(b.texts))
	for r := range b.tables {
		out = append(out, r)
	}
	for r := range b.texts {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
