// Package storage is the habit store: it owns the serialized form of the
// application state and reads it back from the key-value area, migrating
// first-generation data on the way in.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"bitsy/internal/habit"
	"bitsy/internal/kv"
	"bitsy/internal/state"

	"go.uber.org/zap"
)

// Storage keys. The legacy keys are only ever read.
const (
	KeyData         = "bitsy_data"
	KeyLegacyHabits = "bitsyHabits"
	KeyLegacyTheme  = "bitsyTheme"
)

// Origin says where Load found its data.
type Origin int

const (
	// OriginEmpty means nothing usable was persisted.
	OriginEmpty Origin = iota
	// OriginCurrent means the primary record was read.
	OriginCurrent
	// OriginLegacy means the first-generation keys were read and migrated.
	OriginLegacy
)

func (o Origin) String() string {
	switch o {
	case OriginCurrent:
		return "current"
	case OriginLegacy:
		return "legacy"
	default:
		return "empty"
	}
}

// Record is the persisted document under KeyData.
type Record struct {
	Habits            []habit.Habit `json:"habits"`
	CurrentHabitIndex int           `json:"currentHabitIndex"`
	DarkMode          bool          `json:"darkMode"`
}

// RecordFromState converts session state into its persisted form.
func RecordFromState(s state.State) Record {
	habits := s.Habits
	if habits == nil {
		habits = []habit.Habit{}
	}
	return Record{
		Habits:            habits,
		CurrentHabitIndex: s.SelectedIndex,
		DarkMode:          s.Theme.IsDark(),
	}
}

// State converts a persisted record into clamped session state.
func (r Record) State() state.State {
	theme := state.ThemeLight
	if r.DarkMode {
		theme = state.ThemeDark
	}
	habits := r.Habits
	if habits == nil {
		habits = []habit.Habit{}
	}
	return state.State{
		Habits:        habits,
		SelectedIndex: r.CurrentHabitIndex,
		Theme:         theme,
	}.Clamp()
}

// Store loads and saves the application state.
type Store struct {
	kv  kv.Store
	log *zap.Logger
}

// New wraps a key-value area. A nil logger discards output.
func New(area kv.Store, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{kv: area, log: log}
}

// KV exposes the underlying key-value area.
func (s *Store) KV() kv.Store {
	return s.kv
}

// Load reads the persisted state. It never fails: the primary record is
// tried first, then the legacy keys, then the empty default.
func (s *Store) Load() (state.State, Origin) {
	if st, err := s.loadCurrent(); err == nil {
		return st, OriginCurrent
	} else if !errors.Is(err, kv.ErrNotFound) {
		s.log.Warn("primary record unusable, trying legacy keys", zap.String("key", KeyData), zap.Error(err))
	}

	if st, err := s.loadLegacy(); err == nil {
		s.log.Info("migrated legacy habits", zap.Int("habits", len(st.Habits)))
		return st, OriginLegacy
	} else if !errors.Is(err, kv.ErrNotFound) {
		s.log.Warn("legacy record unusable, starting empty", zap.String("key", KeyLegacyHabits), zap.Error(err))
	}

	return state.Empty(), OriginEmpty
}

// Save writes the whole state under the primary key.
func (s *Store) Save(st state.State) error {
	data, err := json.Marshal(RecordFromState(st))
	if err != nil {
		return fmt.Errorf("serialize %s: %w", KeyData, err)
	}
	if err := s.kv.Set(KeyData, data); err != nil {
		return fmt.Errorf("save %s: %w", KeyData, err)
	}
	return nil
}

func (s *Store) loadCurrent() (state.State, error) {
	data, err := s.kv.Get(KeyData)
	if err != nil {
		return state.State{}, err
	}
	rec, err := DecodeRecord(data)
	if err != nil {
		return state.State{}, err
	}
	return rec.State(), nil
}

func (s *Store) loadLegacy() (state.State, error) {
	data, err := s.kv.Get(KeyLegacyHabits)
	if err != nil {
		return state.State{}, err
	}
	habits, err := habit.DecodeList(data)
	if err != nil {
		return state.State{}, err
	}
	st := state.State{Habits: habits, SelectedIndex: 0, Theme: s.legacyTheme()}
	return st.Clamp(), nil
}

// legacyTheme reads the legacy theme key. Only the exact string "dark"
// selects the dark theme; a JSON-quoted "dark" is accepted as well.
// Surrounding whitespace is ignored.
func (s *Store) legacyTheme() state.Theme {
	raw, err := s.kv.Get(KeyLegacyTheme)
	if err != nil {
		return state.ThemeLight
	}
	raw = bytes.TrimSpace(raw)
	var quoted string
	if json.Unmarshal(raw, &quoted) == nil {
		return state.ParseTheme(quoted)
	}
	return state.ParseTheme(string(raw))
}

// DecodeRecord parses a primary record, migrating any legacy habit inside
// it. A non-array habits field is treated as an empty list.
func DecodeRecord(data []byte) (Record, error) {
	var raw struct {
		Habits            json.RawMessage `json:"habits"`
		CurrentHabitIndex *int            `json:"currentHabitIndex"`
		DarkMode          bool            `json:"darkMode"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Record{}, fmt.Errorf("parse %s: %w", KeyData, err)
	}

	rec := Record{Habits: []habit.Habit{}, DarkMode: raw.DarkMode}
	if raw.CurrentHabitIndex != nil {
		rec.CurrentHabitIndex = *raw.CurrentHabitIndex
	}
	if isJSONArray(raw.Habits) {
		habits, err := habit.DecodeList(raw.Habits)
		if err != nil {
			return Record{}, fmt.Errorf("parse %s: %w", KeyData, err)
		}
		rec.Habits = habits
	}
	return rec, nil
}

func isJSONArray(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}
