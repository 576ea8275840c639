// Package state holds the application state and the reducer that applies
// user actions to it. Reduce is pure: it never touches storage or the screen.
package state

import "bitsy/internal/habit"

// Theme is the color scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// IsDark reports whether t is the dark theme.
func (t Theme) IsDark() bool {
	return t == ThemeDark
}

// ParseTheme maps "dark" to ThemeDark and anything else to ThemeLight.
func ParseTheme(s string) Theme {
	if s == string(ThemeDark) {
		return ThemeDark
	}
	return ThemeLight
}

// State is the whole session state. The habit list is the single source of
// truth and is written back in full after every change.
type State struct {
	Habits        []habit.Habit
	SelectedIndex int
	Theme         Theme
}

// Empty is the state used when nothing usable is persisted.
func Empty() State {
	return State{Habits: []habit.Habit{}, SelectedIndex: 0, Theme: ThemeLight}
}

// Clamp keeps SelectedIndex inside the habit list, or at 0 when it is empty.
func (s State) Clamp() State {
	switch {
	case len(s.Habits) == 0:
		s.SelectedIndex = 0
	case s.SelectedIndex < 0:
		s.SelectedIndex = 0
	case s.SelectedIndex > len(s.Habits)-1:
		s.SelectedIndex = len(s.Habits) - 1
	}
	if s.Theme != ThemeDark {
		s.Theme = ThemeLight
	}
	return s
}

// Current returns the selected habit, if any.
func (s State) Current() (habit.Habit, bool) {
	if len(s.Habits) == 0 || s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Habits) {
		return habit.Habit{}, false
	}
	return s.Habits[s.SelectedIndex], true
}

// Find returns the position of the habit with the given id, or -1.
func (s State) Find(id int64) int {
	for i, h := range s.Habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}

// clone copies the habit slice so a transition never aliases its input.
func (s State) clone() State {
	habits := make([]habit.Habit, len(s.Habits))
	copy(habits, s.Habits)
	s.Habits = habits
	return s
}
