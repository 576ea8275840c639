package render

import (
	"testing"

	"bitsy/internal/habit"
	"bitsy/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDays_States(t *testing.T) {
	days := Days(habit.Habit{TotalSquares: 90, CurrentIndex: 37})
	require.Len(t, days, 90)

	for _, d := range days {
		switch {
		case d.Index < 37:
			assert.Equal(t, DayCompleted, d.State, "day %d", d.Index)
		case d.Index == 37:
			assert.Equal(t, DayActive, d.State)
			assert.True(t, d.Clickable())
		default:
			assert.Equal(t, DayLocked, d.State, "day %d", d.Index)
			assert.False(t, d.Clickable())
		}
	}

	counts := CountByState(days)
	assert.Equal(t, 37, counts[DayCompleted])
	assert.Equal(t, 1, counts[DayActive])
	assert.Equal(t, 52, counts[DayLocked])
}

func TestDays_FullCycleHasNoActiveSquare(t *testing.T) {
	counts := CountByState(Days(habit.Habit{TotalSquares: 4, CurrentIndex: 4}))
	assert.Equal(t, 4, counts[DayCompleted])
	assert.Zero(t, counts[DayActive])
}

func TestDays_TotalOutsideRangeUsesDefault(t *testing.T) {
	days := Days(habit.Habit{TotalSquares: 35184372088832, CurrentIndex: 3})
	require.Len(t, days, habit.DefaultTotalSquares)
	assert.Equal(t, DayActive, days[3].State)
}

func TestDerive_Empty(t *testing.T) {
	v := Derive(state.Empty())
	assert.True(t, v.Empty)
	assert.Equal(t, "0 / 0", v.Counter)
	assert.Nil(t, v.Days)
	assert.Equal(t, state.ThemeLight, v.Theme)
}

func TestDerive_SelectedHabit(t *testing.T) {
	s := state.State{
		Habits: []habit.Habit{
			{ID: 1, Name: "Read", TotalSquares: 90, CurrentIndex: 3},
			{ID: 2, Name: "Walk", TotalSquares: 90, CurrentIndex: 45, ShowProgress: true},
		},
		SelectedIndex: 5,
		Theme:         state.ThemeDark,
	}

	v := Derive(s)
	assert.False(t, v.Empty)
	assert.Equal(t, "2 / 2", v.Counter, "index clamps to last habit")
	assert.Equal(t, "Walk", v.Habit.Name)
	assert.Equal(t, "Day 45 / 90 • 50%", v.Progress)
	assert.Equal(t, state.ThemeDark, v.Theme)

	s.SelectedIndex = 0
	v = Derive(s)
	assert.Empty(t, v.Progress, "progress hidden unless enabled")
}

func TestDayStateString(t *testing.T) {
	assert.Equal(t, "locked", DayLocked.String())
	assert.Equal(t, "active", DayActive.String())
	assert.Equal(t, "completed", DayCompleted.String())
}

func TestCelebrate(t *testing.T) {
	c := Celebrate(habit.Habit{Name: "Read", TotalSquares: 90})
	assert.Equal(t, "3 Months Complete!", c.Title)
	assert.Equal(t, "Don't forget to reward yourself!", c.Subtitle)
	assert.Equal(t, `You built "Read" for 90 days!`, c.Message)
	assert.Equal(t, "Start New Cycle", c.Button)

	short := Celebrate(habit.Habit{Name: "Sprint", TotalSquares: 30})
	assert.Equal(t, "30 Days Complete!", short.Title)
	assert.Equal(t, `You built "Sprint" for 30 days!`, short.Message)
}
