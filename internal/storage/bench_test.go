package storage

import (
	"fmt"
	"testing"

	"bitsy/internal/habit"
	"bitsy/internal/kv"
	"bitsy/internal/state"
)

func benchState(n int) state.State {
	st := state.Empty()
	for i := 0; i < n; i++ {
		st.Habits = append(st.Habits, habit.Habit{
			ID:           int64(i + 1),
			Name:         fmt.Sprintf("Habit %d", i),
			Color:        habit.DefaultColor,
			TotalSquares: habit.DefaultTotalSquares,
			CurrentIndex: i % habit.DefaultTotalSquares,
		})
	}
	return st
}

// BenchmarkSave measures a full-record write with varying list sizes.
func BenchmarkSave(b *testing.B) {
	for _, size := range []int{1, 10, 100} {
		b.Run(fmt.Sprintf("size_%d", size), func(b *testing.B) {
			area, err := kv.NewFileStore(b.TempDir())
			if err != nil {
				b.Fatal(err)
			}
			s := New(area, nil)
			st := benchState(size)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := s.Save(st); err != nil {
					b.Fatalf("Save failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkLoadLegacy measures decoding and migrating a legacy list.
func BenchmarkLoadLegacy(b *testing.B) {
	area := kv.NewMemStore()
	days := make([]bool, 90)
	for i := range days {
		days[i] = i%3 == 0
	}
	raw := []byte("[")
	for i := 0; i < 50; i++ {
		if i > 0 {
			raw = append(raw, ',')
		}
		raw = append(raw, fmt.Sprintf(`{"id":%d,"name":"h%d","color":"#A8E6CF","days":%s}`, i+1, i, boolsJSON(days))...)
	}
	raw = append(raw, ']')
	if err := area.Set(KeyLegacyHabits, raw); err != nil {
		b.Fatal(err)
	}
	s := New(area, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, origin := s.Load(); origin != OriginLegacy {
			b.Fatalf("origin = %v", origin)
		}
	}
}

func boolsJSON(days []bool) string {
	out := []byte("[")
	for i, d := range days {
		if i > 0 {
			out = append(out, ',')
		}
		out = fmt.Appendf(out, "%t", d)
	}
	return string(append(out, ']'))
}
