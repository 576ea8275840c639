package storage

import (
	"testing"

	"bitsy/internal/habit"
	"bitsy/internal/kv"
	"bitsy/internal/render"
)

// FuzzLoad feeds arbitrary bytes into both storage keys. Load and the view
// derived from it must never panic, and the state must come back clamped.
func FuzzLoad(f *testing.F) {
	f.Add(`{"habits":[],"currentHabitIndex":0,"darkMode":false}`, `[]`)
	f.Add(`{"habits":[{"id":1,"name":"Read","totalSquares":90,"currentIndex":12}]}`, ``)
	f.Add(`{}`, `[{"id":1,"name":"old","days":[true,true]}]`)
	f.Add(``, ``)
	f.Add(`{`, `[`)
	f.Add(`{"habits":null}`, `null`)
	f.Add(`{"habits":[null]}`, `[null]`)
	f.Add(`{"habits":[{"totalSquares":-4,"currentIndex":900}]}`, ``)
	f.Add(`{"habits":{},"currentHabitIndex":-7}`, `{"days":"yes"}`)
	f.Add(`{"habits":[{"id":1,"name":"x","totalSquares":35184372088832,"currentIndex":3}]}`, ``)

	f.Fuzz(func(t *testing.T, primary, legacy string) {
		area := kv.NewMemStore()
		if primary != "" {
			_ = area.Set(KeyData, []byte(primary))
		}
		if legacy != "" {
			_ = area.Set(KeyLegacyHabits, []byte(legacy))
		}

		defer func() {
			if r := recover(); r != nil {
				t.Errorf("Load panicked with primary=%q legacy=%q: %v", primary, legacy, r)
			}
		}()

		st, _ := New(area, nil).Load()

		if st.Habits == nil {
			t.Fatal("Load returned a nil habit list")
		}
		if len(st.Habits) == 0 && st.SelectedIndex != 0 {
			t.Errorf("empty list with SelectedIndex=%d", st.SelectedIndex)
		}
		if len(st.Habits) > 0 && (st.SelectedIndex < 0 || st.SelectedIndex >= len(st.Habits)) {
			t.Errorf("SelectedIndex %d out of range for %d habits", st.SelectedIndex, len(st.Habits))
		}
		for _, h := range st.Habits {
			if h.CurrentIndex < 0 || h.CurrentIndex > h.TotalSquares {
				t.Errorf("habit %d has index %d outside [0,%d]", h.ID, h.CurrentIndex, h.TotalSquares)
			}
			if h.TotalSquares > habit.MaxTotalSquares {
				t.Errorf("habit %d has %d squares, above the cap", h.ID, h.TotalSquares)
			}
		}
		render.Derive(st)
	})
}
