package storage

import (
	"bytes"
	"fmt"

	"bitsy/internal/habit"
	"bitsy/internal/state"
)

// ImportResult summarizes a merge of exported data into the current state.
type ImportResult struct {
	Added   int
	Skipped int
	Source  Origin
}

// DecodeExport parses a browser export: either a primary record or a bare
// legacy habit array.
func DecodeExport(data []byte) ([]habit.Habit, Origin, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, OriginEmpty, fmt.Errorf("import: file is empty")
	}

	if trimmed[0] == '[' {
		habits, err := habit.DecodeList(trimmed)
		if err != nil {
			return nil, OriginEmpty, fmt.Errorf("import: %w", err)
		}
		return habits, OriginLegacy, nil
	}

	rec, err := DecodeRecord(trimmed)
	if err != nil {
		return nil, OriginEmpty, fmt.Errorf("import: %w", err)
	}
	return rec.Habits, OriginCurrent, nil
}

// Merge appends imported habits whose ids are not already present and
// whose names and cycle lengths are usable. Selection and theme are left alone.
func Merge(s state.State, imported []habit.Habit) (state.State, ImportResult) {
	next := state.State{
		Habits:        append([]habit.Habit(nil), s.Habits...),
		SelectedIndex: s.SelectedIndex,
		Theme:         s.Theme,
	}

	var res ImportResult
	for _, h := range imported {
		if next.Find(h.ID) >= 0 {
			res.Skipped++
			continue
		}
		spec := h.Spec().Normalize()
		if spec.Validate() != nil || !habit.ValidTotal(h.TotalSquares) {
			res.Skipped++
			continue
		}
		h.Name, h.Color = spec.Name, spec.Color
		next.Habits = append(next.Habits, h)
		res.Added++
	}
	if next.Habits == nil {
		next.Habits = []habit.Habit{}
	}
	return next.Clamp(), res
}
