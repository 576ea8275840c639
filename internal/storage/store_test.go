package storage

import (
	"encoding/json"
	"strings"
	"testing"

	"bitsy/internal/habit"
	"bitsy/internal/kv"
	"bitsy/internal/render"
	"bitsy/internal/state"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestStore(t *testing.T) (*Store, kv.Store) {
	t.Helper()
	area, err := kv.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return New(area, zaptest.NewLogger(t)), area
}

func legacyDays(n int) []bool {
	d := make([]bool, 90)
	for i := 0; i < n; i++ {
		d[i] = true
	}
	return d
}

func TestLoad_NothingPersisted(t *testing.T) {
	s, _ := newTestStore(t)

	st, origin := s.Load()
	assert.Equal(t, OriginEmpty, origin)
	if diff := cmp.Diff(state.Empty(), st); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_MalformedFallsBackToEmpty(t *testing.T) {
	for _, raw := range []string{`{"habits":[`, `not json`, ``, `[1,2,3]`, `{"habits":[{"id":"x"}]}`} {
		t.Run(raw, func(t *testing.T) {
			s, area := newTestStore(t)
			require.NoError(t, area.Set(KeyData, []byte(raw)))

			st, origin := s.Load()
			assert.Equal(t, OriginEmpty, origin)
			assert.Equal(t, state.Empty(), st)
		})
	}
}

func TestLoad_MalformedPrimaryFallsBackToLegacy(t *testing.T) {
	s, area := newTestStore(t)
	require.NoError(t, area.Set(KeyData, []byte(`{broken`)))

	legacy, err := json.Marshal([]habit.Legacy{{ID: 1, Name: "Walk", Color: "#FFD3B6", Days: legacyDays(37)}})
	require.NoError(t, err)
	require.NoError(t, area.Set(KeyLegacyHabits, legacy))

	st, origin := s.Load()
	assert.Equal(t, OriginLegacy, origin)
	require.Len(t, st.Habits, 1)
	assert.Equal(t, 37, st.Habits[0].CurrentIndex)
	assert.Equal(t, 90, st.Habits[0].TotalSquares)
}

func TestLoad_LegacyTheme(t *testing.T) {
	tests := []struct {
		raw  string
		want state.Theme
	}{
		{`dark`, state.ThemeDark},
		{`"dark"`, state.ThemeDark},
		{"dark\n", state.ThemeDark},
		{"  \"dark\"\r\n", state.ThemeDark},
		{`light`, state.ThemeLight},
		{`DARK`, state.ThemeLight},
		{`whatever`, state.ThemeLight},
	}
	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			s, area := newTestStore(t)
			require.NoError(t, area.Set(KeyLegacyHabits, []byte(`[]`)))
			require.NoError(t, area.Set(KeyLegacyTheme, []byte(tc.raw)))

			st, origin := s.Load()
			assert.Equal(t, OriginLegacy, origin)
			assert.Equal(t, tc.want, st.Theme)
			assert.Zero(t, st.SelectedIndex)
		})
	}
}

func TestLoad_HugeTotalSquaresRendersDefaultGrid(t *testing.T) {
	s, area := newTestStore(t)
	require.NoError(t, area.Set(KeyData, []byte(`{"habits":[{"id":1,"name":"x","color":"#A8E6CF","totalSquares":35184372088832,"currentIndex":3}]}`)))

	st, origin := s.Load()
	assert.Equal(t, OriginCurrent, origin)
	require.Len(t, st.Habits, 1)
	assert.Equal(t, habit.DefaultTotalSquares, st.Habits[0].TotalSquares)
	assert.Equal(t, 3, st.Habits[0].CurrentIndex)

	view := render.Derive(st)
	assert.Len(t, view.Days, habit.DefaultTotalSquares)
}

func TestLoad_LegacyRowsWithoutIDsGetDistinctIDs(t *testing.T) {
	s, area := newTestStore(t)
	require.NoError(t, area.Set(KeyLegacyHabits, []byte(`[{"name":"a","days":[]},{"name":"b","days":[]}]`)))

	st, _ := s.Load()
	require.Len(t, st.Habits, 2)
	assert.NotEqual(t, st.Habits[0].ID, st.Habits[1].ID)
	assert.Equal(t, 1, st.Find(st.Habits[1].ID))
}

func TestLoad_MalformedLegacyStartsEmpty(t *testing.T) {
	s, area := newTestStore(t)
	require.NoError(t, area.Set(KeyLegacyHabits, []byte(`{"not":"an array"}`)))
	require.NoError(t, area.Set(KeyLegacyTheme, []byte(`dark`)))

	st, origin := s.Load()
	assert.Equal(t, OriginEmpty, origin)
	assert.Equal(t, state.ThemeLight, st.Theme)
}

func TestLoad_PrimaryWinsOverLegacy(t *testing.T) {
	s, area := newTestStore(t)
	require.NoError(t, area.Set(KeyLegacyHabits, []byte(`[{"id":1,"name":"old","days":[true]}]`)))
	require.NoError(t, area.Set(KeyData, []byte(`{"habits":[{"id":2,"name":"new","color":"#A8E6CF","showProgress":false,"totalSquares":90,"currentIndex":3}],"currentHabitIndex":0,"darkMode":true}`)))

	st, origin := s.Load()
	assert.Equal(t, OriginCurrent, origin)
	require.Len(t, st.Habits, 1)
	assert.Equal(t, "new", st.Habits[0].Name)
	assert.Equal(t, state.ThemeDark, st.Theme)
}

func TestLoad_MigratesLegacyHabitsInsidePrimaryRecord(t *testing.T) {
	s, area := newTestStore(t)
	require.NoError(t, area.Set(KeyData, []byte(`{"habits":[{"id":5,"name":"mixed","days":[true,false,true]}],"currentHabitIndex":0,"darkMode":false}`)))

	st, origin := s.Load()
	assert.Equal(t, OriginCurrent, origin)
	require.Len(t, st.Habits, 1)
	assert.Equal(t, 2, st.Habits[0].CurrentIndex)
}

func TestLoad_ClampsSelectedIndex(t *testing.T) {
	s, area := newTestStore(t)
	require.NoError(t, area.Set(KeyData, []byte(`{"habits":[{"id":1,"name":"a","totalSquares":90,"currentIndex":0}],"currentHabitIndex":12}`)))

	st, _ := s.Load()
	assert.Zero(t, st.SelectedIndex)
}

func TestLoad_NonArrayHabitsIsEmpty(t *testing.T) {
	s, area := newTestStore(t)
	require.NoError(t, area.Set(KeyData, []byte(`{"habits":"nope","currentHabitIndex":3,"darkMode":true}`)))

	st, origin := s.Load()
	assert.Equal(t, OriginCurrent, origin)
	assert.Empty(t, st.Habits)
	assert.Zero(t, st.SelectedIndex)
	assert.Equal(t, state.ThemeDark, st.Theme)
}

func TestSave_WritesWholeRecord(t *testing.T) {
	s, area := newTestStore(t)
	st := state.State{
		Habits:        []habit.Habit{{ID: 1, Name: "Read", Color: "#A8E6CF", TotalSquares: 90, CurrentIndex: 4}},
		SelectedIndex: 0,
		Theme:         state.ThemeDark,
	}
	require.NoError(t, s.Save(st))

	raw, err := area.Get(KeyData)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "habits")
	assert.Equal(t, true, doc["darkMode"])
	assert.EqualValues(t, 0, doc["currentHabitIndex"])
	assert.True(t, strings.Contains(string(raw), `"currentIndex":4`))

	loaded, origin := s.Load()
	assert.Equal(t, OriginCurrent, origin)
	if diff := cmp.Diff(st, loaded); diff != "" {
		t.Errorf("Load() after Save() mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_EmptyListRendersNothing(t *testing.T) {
	s, area := newTestStore(t)
	require.NoError(t, s.Save(state.State{Habits: nil, SelectedIndex: 0}))

	raw, err := area.Get(KeyData)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"habits":[]`)

	st, _ := s.Load()
	v := render.Derive(st)
	assert.True(t, v.Empty)
	assert.Empty(t, v.Days)
}

func TestStore_SQLiteBackend(t *testing.T) {
	area, err := kv.Open(kv.BackendSQLite, t.TempDir())
	require.NoError(t, err)
	defer area.Close()

	s := New(area, nil)
	st := state.State{Habits: []habit.Habit{{ID: 1, Name: "Read", Color: "#A8E6CF", TotalSquares: 90, CurrentIndex: 9}}}
	require.NoError(t, s.Save(st))

	loaded, origin := s.Load()
	assert.Equal(t, OriginCurrent, origin)
	assert.Equal(t, 9, loaded.Habits[0].CurrentIndex)
}
