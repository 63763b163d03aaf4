// Package notes keeps the user's per-pin annotations and syncs them with the
// pins_notes_json settings blob.
package notes

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/muurk/gpiostatus/internal/debounce"
	"github.com/muurk/gpiostatus/internal/logging"
)

// MaxNoteLength is the longest note kept, in characters.
const MaxNoteLength = 30

// DefaultSaveDelay is the quiet period before an edit is persisted.
const DefaultSaveDelay = time.Second

// EmptyJSON is the blob of a store without notes.
const EmptyJSON = "{}"

// Store maps physical pin positions to note text.
type Store struct {
	mu      sync.Mutex
	notes   map[int]string
	saver   *debounce.Timer
	persist func(blob string)
}

// NewStore creates an empty store. persist receives the serialized notes
// once edits have been quiet for delay; it may be nil.
func NewStore(delay time.Duration, persist func(blob string)) *Store {
	return &Store{
		notes:   make(map[int]string),
		saver:   debounce.New(delay),
		persist: persist,
	}
}

// Load replaces the notes with the content of a JSON object keyed by
// physical position. Keys that are not positive integers and empty notes are
// dropped. On a parse error the store is left empty.
func (s *Store) Load(blob string) error {
	parsed, err := Parse(blob)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = parsed
	if s.notes == nil {
		s.notes = make(map[int]string)
	}
	return err
}

// Parse decodes a notes blob. An empty string is treated as EmptyJSON.
func Parse(blob string) (map[int]string, error) {
	if strings.TrimSpace(blob) == "" {
		return make(map[int]string), nil
	}

	var raw map[string]string
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse notes: %w", err)
	}

	out := make(map[int]string, len(raw))
	for key, note := range raw {
		pin, err := strconv.Atoi(key)
		if err != nil || pin < 1 {
			logging.Warn("Dropping note with invalid pin key", zap.String("key", key))
			continue
		}
		if note = clean(note); note != "" {
			out[pin] = note
		}
	}
	return out, nil
}

// Clear empties the store without persisting.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = make(map[int]string)
}

// Note returns the note for a pin, or "".
func (s *Store) Note(pin int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes[pin]
}

// Len returns the number of stored notes.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notes)
}

// Snapshot returns a copy of the mapping.
func (s *Store) Snapshot() map[int]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]string, len(s.notes))
	for k, v := range s.notes {
		out[k] = v
	}
	return out
}

// Edit records the text typed for a pin and schedules a save. Text is
// trimmed and cut to MaxNoteLength; an empty note deletes the entry.
func (s *Store) Edit(pin int, text string) {
	text = clean(text)

	s.mu.Lock()
	if text == "" {
		delete(s.notes, pin)
	} else {
		s.notes[pin] = text
	}
	s.mu.Unlock()

	logging.Debug("Note edited", zap.Int("pin", pin), zap.Int("length", len(text)))
	s.saver.Schedule(s.save)
}

// Pending reports whether an edit is waiting to be saved.
func (s *Store) Pending() bool {
	return s.saver.Pending()
}

// Flush persists a pending edit immediately.
func (s *Store) Flush() bool {
	return s.saver.Flush()
}

// Stop drops a pending save.
func (s *Store) Stop() {
	s.saver.Stop()
}

func (s *Store) save() {
	if s.persist == nil {
		return
	}
	s.persist(s.JSON())
}

// JSON serializes the notes as an object with string keys.
func (s *Store) JSON() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Encode(s.notes)
}

// Encode serializes a notes mapping.
func Encode(m map[int]string) string {
	if len(m) == 0 {
		return EmptyJSON
	}
	raw := make(map[string]string, len(m))
	for pin, note := range m {
		raw[strconv.Itoa(pin)] = note
	}
	// map keys are sorted by encoding/json, so the output is stable
	data, err := json.Marshal(raw)
	if err != nil {
		return EmptyJSON
	}
	return string(data)
}

func clean(text string) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= MaxNoteLength {
		return text
	}
	return strings.TrimSpace(string([]rune(text)[:MaxNoteLength]))
}
