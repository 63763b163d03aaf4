package settings

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/muurk/gpiostatus/internal/notes"
	"github.com/muurk/gpiostatus/internal/view"
)

// CurrentVersion is the settings file format version.
const CurrentVersion = 1

// DefaultServer is the status server used when none is configured.
const DefaultServer = "http://localhost:5000"

// ErrConstraint is returned when a save would persist compact view together
// with an option it excludes.
var ErrConstraint = errors.New("compact view cannot be combined with hide_special_pins, order_by_name or show_notes")

// Settings is the content of the settings file.
type Settings struct {
	Version int `yaml:"version"`

	view.Options `yaml:",inline"`

	ReloadOnCheckChange bool   `yaml:"reload_on_check_change"` // refetch on every option change
	LoadOnStartup       bool   `yaml:"load_on_startup"`        // refresh as soon as the view opens
	PinsNotesJSON       string `yaml:"pins_notes_json"`        // physical position -> note

	Server string `yaml:"server,omitempty"`  // status server base URL
	APIKey string `yaml:"api_key,omitempty"` // sent as X-Api-Key
}

// Defaults returns the settings of a fresh install.
func Defaults() Settings {
	return Settings{
		Version:       CurrentVersion,
		Options:       view.Defaults(),
		LoadOnStartup: true,
		PinsNotesJSON: notes.EmptyJSON,
		Server:        DefaultServer,
	}
}

// Validate checks the rules a saved file must follow.
func (s Settings) Validate() error {
	if s.Version != CurrentVersion {
		return fmt.Errorf("unsupported settings version: %d (expected %d)", s.Version, CurrentVersion)
	}
	if !s.Options.Valid() {
		return ErrConstraint
	}
	if _, err := notes.Parse(s.PinsNotesJSON); err != nil {
		return fmt.Errorf("pins_notes_json: %w", err)
	}
	return nil
}

// Keys lists the boolean settings accepted by SetBool.
func Keys() []string {
	keys := make([]string, 0, 8)
	for _, opt := range view.All() {
		keys = append(keys, opt.String())
	}
	return append(keys, "reload_on_check_change", "load_on_startup")
}

// SetBool sets a boolean setting by key. View options follow toggle
// semantics, so enabling one may clear another.
func (s *Settings) SetBool(key string, value bool) error {
	switch key {
	case "reload_on_check_change":
		s.ReloadOnCheckChange = value
		return nil
	case "load_on_startup":
		s.LoadOnStartup = value
		return nil
	}
	opt, err := view.ParseOption(key)
	if err != nil {
		return fmt.Errorf("unknown setting %q", key)
	}
	s.Options = s.Options.Set(opt, value)
	return nil
}

// GetBool returns a boolean setting by key.
func (s Settings) GetBool(key string) (bool, error) {
	switch key {
	case "reload_on_check_change":
		return s.ReloadOnCheckChange, nil
	case "load_on_startup":
		return s.LoadOnStartup, nil
	}
	opt, err := view.ParseOption(key)
	if err != nil {
		return false, fmt.Errorf("unknown setting %q", key)
	}
	return s.Options.Get(opt), nil
}

// ParseBool accepts the usual spellings of a boolean flag.
func ParseBool(s string) (bool, error) {
	switch s {
	case "on", "yes", "enabled":
		return true, nil
	case "off", "no", "disabled":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q", s)
	}
	return v, nil
}
