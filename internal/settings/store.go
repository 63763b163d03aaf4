package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/muurk/gpiostatus/internal/debounce"
	"github.com/muurk/gpiostatus/internal/logging"
	"github.com/muurk/gpiostatus/internal/view"
)

// DefaultSaveDelay is the quiet period before a debounced save hits the disk.
const DefaultSaveDelay = 1500 * time.Millisecond

// Store is the in-memory copy of the settings file. It is safe for
// concurrent use.
type Store struct {
	mu    sync.Mutex
	path  string
	s     Settings
	saver *debounce.Timer

	// serializes file writes and reloads
	fileMu sync.Mutex
}

// Open loads the settings at path, or at GetConfigPath when path is empty.
// A missing file yields the defaults; it is created on the first save.
func Open(path string) (*Store, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	st := &Store{path: path, s: Defaults(), saver: debounce.New(DefaultSaveDelay)}
	if err := st.Reload(); err != nil {
		return nil, err
	}
	return st, nil
}

// NewMemoryStore returns a store that is never written to disk. SaveNow only
// validates. Used by one-shot commands and tests.
func NewMemoryStore(s Settings) *Store {
	return &Store{s: s, saver: debounce.New(DefaultSaveDelay)}
}

// SetSaveDelay changes the debounce delay. Call it before the first Save.
func (st *Store) SetSaveDelay(d time.Duration) {
	st.saver.Stop()
	st.saver = debounce.New(d)
}

// Path returns the settings file location, or "" for a memory store.
func (st *Store) Path() string {
	return st.path
}

// Get returns a copy of the current settings.
func (st *Store) Get() Settings {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s
}

// Update changes the settings in memory. It does not save.
func (st *Store) Update(fn func(*Settings)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	fn(&st.s)
}

// Reload discards in-memory changes and reads the file again.
func (st *Store) Reload() error {
	if st.path == "" {
		return nil
	}

	st.fileMu.Lock()
	defer st.fileMu.Unlock()

	data, err := os.ReadFile(st.path)
	if errors.Is(err, os.ErrNotExist) {
		st.mu.Lock()
		st.s = Defaults()
		st.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	s := Defaults()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to parse settings file: %w", err)
	}
	if s.Version == 0 {
		s.Version = CurrentVersion
	}
	if s.Version != CurrentVersion {
		return fmt.Errorf("unsupported settings version: %d (expected %d)", s.Version, CurrentVersion)
	}
	if s.PinsNotesJSON == "" {
		s.PinsNotesJSON = Defaults().PinsNotesJSON
	}

	st.mu.Lock()
	st.s = s
	st.mu.Unlock()

	logging.Debug("Settings loaded", zap.String("path", st.path))
	return nil
}

// Save schedules a write once the store has been quiet for the save delay.
// Failures are logged.
func (st *Store) Save() {
	st.saver.Schedule(func() {
		if err := st.SaveNow(); err != nil {
			logging.Warn("Settings save failed", zap.Error(err))
		}
	})
}

// Flush writes a pending debounced save immediately.
func (st *Store) Flush() {
	st.saver.Flush()
}

// SaveNow validates and writes the settings file atomically.
func (st *Store) SaveNow() error {
	s := st.Get()
	if err := s.Validate(); err != nil {
		if errors.Is(err, ErrConstraint) {
			logging.Info("Saving rejected: constraint not followed", zap.Any("options", s.Options))
		}
		return err
	}
	if st.path == "" {
		return nil
	}

	st.fileMu.Lock()
	defer st.fileMu.Unlock()

	if err := os.MkdirAll(filepath.Dir(st.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	header := []byte(`# GPIO Status settings
# Display options, refresh behaviour and per-pin notes.
#
# Location: ` + st.path + `

`)
	data = append(header, data...)

	// Write to temporary file first (atomic write)
	tmpPath := st.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary settings file: %w", err)
	}
	if err := os.Rename(tmpPath, st.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save settings file: %w", err)
	}

	logging.Info("Settings saved", zap.String("path", st.path))
	return nil
}

// The methods below give the refresh controller its view of the settings.

// Options returns the view toggles.
func (st *Store) Options() view.Options {
	return st.Get().Options
}

// SetOptions replaces the view toggles in memory.
func (st *Store) SetOptions(o view.Options) {
	st.Update(func(s *Settings) { s.Options = o })
}

// ReloadOnOptionChange reports whether option changes refetch the status.
func (st *Store) ReloadOnOptionChange() bool {
	return st.Get().ReloadOnCheckChange
}

// LoadOnStartup reports whether the view refreshes when it opens.
func (st *Store) LoadOnStartup() bool {
	return st.Get().LoadOnStartup
}

// NotesJSON returns the pins_notes_json blob.
func (st *Store) NotesJSON() string {
	return st.Get().PinsNotesJSON
}

// SetNotesJSON replaces the pins_notes_json blob in memory.
func (st *Store) SetNotesJSON(blob string) {
	st.Update(func(s *Settings) { s.PinsNotesJSON = blob })
}
