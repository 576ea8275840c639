// Package render derives what the widget shows from the application state.
// It has no styling: the ui package decides how each piece looks.
package render

import (
	"fmt"

	"bitsy/internal/habit"
	"bitsy/internal/state"
)

// DayState is the visual state of one day square.
type DayState int

const (
	// DayLocked is a future day; not clickable.
	DayLocked DayState = iota
	// DayActive is the next day to complete; the only clickable square.
	DayActive
	// DayCompleted is a day already filled in this cycle.
	DayCompleted
)

func (d DayState) String() string {
	switch d {
	case DayActive:
		return "active"
	case DayCompleted:
		return "completed"
	default:
		return "locked"
	}
}

// Day is one square of the grid.
type Day struct {
	Index int
	State DayState
}

// Clickable reports whether clicking the square advances the habit.
func (d Day) Clickable() bool {
	return d.State == DayActive
}

// View is everything needed to draw the widget for one state.
type View struct {
	Empty    bool
	Counter  string
	Theme    state.Theme
	Habit    habit.Habit
	Days     []Day
	Progress string // empty unless the habit shows progress
}

// Derive builds the view of the selected habit.
func Derive(s state.State) View {
	s = s.Clamp()
	v := View{
		Theme:   s.Theme,
		Counter: Counter(s.SelectedIndex, len(s.Habits)),
	}

	h, ok := s.Current()
	if !ok {
		v.Empty = true
		return v
	}

	v.Habit = h
	v.Days = Days(h)
	if h.ShowProgress {
		v.Progress = Progress(h)
	}
	return v
}

// Days returns the per-day states of h's grid.
func Days(h habit.Habit) []Day {
	total := h.TotalSquares
	if !habit.ValidTotal(total) {
		total = habit.DefaultTotalSquares
	}
	cur := min(max(h.CurrentIndex, 0), total)

	days := make([]Day, total)
	for i := range days {
		days[i] = Day{Index: i, State: dayState(i, cur)}
	}
	return days
}

func dayState(i, cur int) DayState {
	switch {
	case i < cur:
		return DayCompleted
	case i == cur:
		return DayActive
	default:
		return DayLocked
	}
}

// Progress is the numeric readout, e.g. "Day 12 / 90 • 13%".
func Progress(h habit.Habit) string {
	return fmt.Sprintf("Day %d / %d • %d%%", h.CurrentIndex, h.TotalSquares, h.Percent())
}

// Counter is the "selected / total" label; "0 / 0" for an empty list.
func Counter(selected, n int) string {
	if n == 0 {
		return "0 / 0"
	}
	return fmt.Sprintf("%d / %d", selected+1, n)
}

// CountByState tallies the days of a view.
func CountByState(days []Day) map[DayState]int {
	out := make(map[DayState]int, 3)
	for _, d := range days {
		out[d.State]++
	}
	return out
}

// Celebration is the text shown when a habit completes its cycle.
type Celebration struct {
	Title    string
	Subtitle string
	Message  string
	Button   string
}

// Celebrate builds the cycle-complete text for h.
func Celebrate(h habit.Habit) Celebration {
	title := "3 Months Complete!"
	if h.TotalSquares != habit.DefaultTotalSquares {
		title = fmt.Sprintf("%d Days Complete!", h.TotalSquares)
	}
	return Celebration{
		Title:    title,
		Subtitle: "Don't forget to reward yourself!",
		Message:  fmt.Sprintf("You built \"%s\" for %d days!", h.Name, h.TotalSquares),
		Button:   "Start New Cycle",
	}
}
