// Package view holds the display toggles of the GPIO status page and the
// rule that keeps compact view consistent with them.
package view

import (
	"fmt"
	"strings"
)

// Options are the six display toggles.
//
// Compact view merges the two header columns into one wide row, so it cannot
// be combined with HideSpecialPins, OrderByName or ShowNotes. Both toggle
// paths (Set) and the pre-build check (Normalize) maintain that rule.
type Options struct {
	CompactView     bool `yaml:"compact_view" json:"compact_view"`
	HideSpecialPins bool `yaml:"hide_special_pins" json:"hide_special_pins"`
	OrderByName     bool `yaml:"order_by_name" json:"order_by_name"`
	HidePhysical    bool `yaml:"hide_physical" json:"hide_physical"`
	ShowNotes       bool `yaml:"show_notes" json:"show_notes"`
	HideImages      bool `yaml:"hide_images" json:"hide_images"`
}

// Defaults returns the options of a fresh install.
func Defaults() Options {
	return Options{CompactView: true}
}

// Valid reports whether the compact view rule holds.
func (o Options) Valid() bool {
	return !(o.CompactView && o.conflicts())
}

func (o Options) conflicts() bool {
	return o.HideSpecialPins || o.OrderByName || o.ShowNotes
}

// Normalize clears the flags incompatible with compact view. changed is true
// only when something was cleared, so callers can skip a redundant save.
func (o Options) Normalize() (Options, bool) {
	if o.Valid() {
		return o, false
	}
	o.HideSpecialPins = false
	o.OrderByName = false
	o.ShowNotes = false
	return o, true
}

// Option names a single toggle.
type Option int

const (
	CompactView Option = iota
	HideSpecialPins
	OrderByName
	HidePhysical
	ShowNotes
	HideImages
)

var optionNames = [...]string{
	CompactView:     "compact_view",
	HideSpecialPins: "hide_special_pins",
	OrderByName:     "order_by_name",
	HidePhysical:    "hide_physical",
	ShowNotes:       "show_notes",
	HideImages:      "hide_images",
}

// All lists every option in settings order.
func All() []Option {
	return []Option{CompactView, HideSpecialPins, OrderByName, HidePhysical, ShowNotes, HideImages}
}

// String returns the settings key of the option.
func (opt Option) String() string {
	if opt < 0 || int(opt) >= len(optionNames) {
		return fmt.Sprintf("Option(%d)", int(opt))
	}
	return optionNames[opt]
}

// ParseOption maps a settings key ("compact_view", "show-notes", ...) to an Option.
func ParseOption(name string) (Option, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for i, n := range optionNames {
		if n == key {
			return Option(i), nil
		}
	}
	return 0, fmt.Errorf("unknown view option %q", name)
}

// Get returns the value of one toggle.
func (o Options) Get(opt Option) bool {
	switch opt {
	case CompactView:
		return o.CompactView
	case HideSpecialPins:
		return o.HideSpecialPins
	case OrderByName:
		return o.OrderByName
	case HidePhysical:
		return o.HidePhysical
	case ShowNotes:
		return o.ShowNotes
	case HideImages:
		return o.HideImages
	}
	return false
}

// Set applies a user toggle. Turning compact view on clears the incompatible
// flags; turning one of those on while compact clears compact view instead.
// HidePhysical and HideImages never interact with the rest.
func (o Options) Set(opt Option, value bool) Options {
	switch opt {
	case CompactView:
		o.CompactView = value
		if value {
			o.HideSpecialPins = false
			o.OrderByName = false
			o.ShowNotes = false
		}
	case HideSpecialPins:
		o.HideSpecialPins = value
	case OrderByName:
		o.OrderByName = value
	case ShowNotes:
		o.ShowNotes = value
	case HidePhysical:
		o.HidePhysical = value
	case HideImages:
		o.HideImages = value
	}
	if value && o.conflicts() && opt != CompactView {
		o.CompactView = false
	}
	return o
}

// Toggle flips one option with Set semantics.
func (o Options) Toggle(opt Option) Options {
	return o.Set(opt, !o.Get(opt))
}
