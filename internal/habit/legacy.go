package habit

import (
	"encoding/json"
	"fmt"
)

// Legacy is the first-generation habit: one flag per day and no index.
type Legacy struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Color        string `json:"color"`
	ShowProgress bool   `json:"showProgress"`
	Days         []bool `json:"days"`
}

// Migrate converts a legacy habit into the current schema.
//
// Progress is the number of checked days, capped at DefaultTotalSquares.
// Legacy days could be toggled in any order, so a non-contiguous history
// collapses into a prefix of the same length. That loss is accepted.
func Migrate(l Legacy) Habit {
	done := 0
	for _, d := range l.Days {
		if d {
			done++
		}
	}
	return Habit{
		ID:           l.ID,
		Name:         l.Name,
		Color:        l.Color,
		ShowProgress: l.ShowProgress,
		TotalSquares: DefaultTotalSquares,
		CurrentIndex: min(done, DefaultTotalSquares),
	}
}

// Schema identifies which generation a decoded habit came from.
type Schema int

const (
	// SchemaUnknown has neither index fields nor a days array.
	SchemaUnknown Schema = iota
	// SchemaCurrent carries totalSquares and currentIndex.
	SchemaCurrent
	// SchemaLegacy carries a days array.
	SchemaLegacy
)

func (s Schema) String() string {
	switch s {
	case SchemaCurrent:
		return "current"
	case SchemaLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

// wire is the union of both generations. Pointer fields tell absent from zero.
type wire struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Color        string `json:"color"`
	ShowProgress bool   `json:"showProgress"`
	TotalSquares *int   `json:"totalSquares"`
	CurrentIndex *int   `json:"currentIndex"`
	Days         []bool `json:"days"`
}

// Decode reads one habit in either schema and returns it in the current one.
// A habit that already has totalSquares and currentIndex is returned as is
// (apart from clamping), so decoding is idempotent.
func Decode(data []byte) (Habit, Schema, error) {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return Habit{}, SchemaUnknown, fmt.Errorf("decode habit: %w", err)
	}

	switch {
	case w.TotalSquares != nil && w.CurrentIndex != nil:
		h := Habit{
			ID:           w.ID,
			Name:         w.Name,
			Color:        w.Color,
			ShowProgress: w.ShowProgress,
			TotalSquares: *w.TotalSquares,
			CurrentIndex: *w.CurrentIndex,
		}
		return h.normalize(), SchemaCurrent, nil

	case w.Days != nil:
		return Migrate(Legacy{
			ID:           w.ID,
			Name:         w.Name,
			Color:        w.Color,
			ShowProgress: w.ShowProgress,
			Days:         w.Days,
		}), SchemaLegacy, nil

	default:
		h := Habit{
			ID:           w.ID,
			Name:         w.Name,
			Color:        w.Color,
			ShowProgress: w.ShowProgress,
		}
		if w.TotalSquares != nil {
			h.TotalSquares = *w.TotalSquares
		}
		if w.CurrentIndex != nil {
			h.CurrentIndex = *w.CurrentIndex
		}
		return h.normalize(), SchemaUnknown, nil
	}
}

// DecodeList decodes a JSON array of habits of any generation.
func DecodeList(data []byte) ([]Habit, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decode habit list: %w", err)
	}
	out := make([]Habit, 0, len(raws))
	for i, raw := range raws {
		h, _, err := Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("habit %d: %w", i, err)
		}
		out = append(out, h)
	}
	return uniqueIDs(out), nil
}

// uniqueIDs gives every habit after the first holder of an id a fresh one,
// past the largest id in the list. Legacy rows without an id all decode to
// zero, and lookups by id must not confuse them.
func uniqueIDs(habits []Habit) []Habit {
	var maxID int64
	for _, h := range habits {
		maxID = max(maxID, h.ID)
	}
	seen := make(map[int64]bool, len(habits))
	for i := range habits {
		if seen[habits[i].ID] {
			maxID++
			habits[i].ID = maxID
		}
		seen[habits[i].ID] = true
	}
	return habits
}
