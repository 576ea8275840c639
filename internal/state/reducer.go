package state

import (
	"time"

	"bitsy/internal/habit"
)

// Action is a user intent applied by Reduce.
type Action interface {
	isAction()
}

// ClickDay is a click on the day square at Index of the selected habit.
// Only the active square (Index == CurrentIndex) does anything.
type ClickDay struct{ Index int }

// AdvanceCurrent marks the next day of the selected habit complete.
type AdvanceCurrent struct{}

// ResetCurrent starts the selected habit's cycle over.
type ResetCurrent struct{}

// CreateHabit appends a new habit and selects it.
type CreateHabit struct {
	Spec         habit.Spec
	TotalSquares int
	Now          time.Time
}

// EditHabit changes the editable fields of an existing habit.
type EditHabit struct {
	ID   int64
	Spec habit.Spec
}

// ToggleProgress flips the progress readout of the selected habit.
type ToggleProgress struct{}

// DeleteHabit removes a habit. Confirmation happens before dispatch.
type DeleteHabit struct{ ID int64 }

// SelectPrev moves the selection one habit back.
type SelectPrev struct{}

// SelectNext moves the selection one habit forward.
type SelectNext struct{}

// Select jumps to a habit position.
type Select struct{ Index int }

// ToggleTheme switches between light and dark.
type ToggleTheme struct{}

// SetTheme picks a theme explicitly.
type SetTheme struct{ Theme Theme }

func (ClickDay) isAction()       {}
func (AdvanceCurrent) isAction() {}
func (ResetCurrent) isAction()   {}
func (CreateHabit) isAction()    {}
func (EditHabit) isAction()      {}
func (ToggleProgress) isAction() {}
func (DeleteHabit) isAction()    {}
func (SelectPrev) isAction()     {}
func (SelectNext) isAction()     {}
func (Select) isAction()         {}
func (ToggleTheme) isAction()    {}
func (SetTheme) isAction()       {}

// Event is something observers react to after a transition.
type Event interface {
	isEvent()
}

// CycleCompleted fires when a habit fills its last square. Habit holds the
// state after the reset (CurrentIndex == 0).
type CycleCompleted struct {
	Habit habit.Habit
}

// HabitCreated fires after a habit is appended.
type HabitCreated struct {
	Habit habit.Habit
}

// HabitDeleted fires after a habit is removed.
type HabitDeleted struct {
	Habit habit.Habit
}

func (CycleCompleted) isEvent() {}
func (HabitCreated) isEvent()   {}
func (HabitDeleted) isEvent()   {}

// Transition is the result of one Reduce call.
type Transition struct {
	State   State
	Events  []Event
	Changed bool
}

func unchanged(s State) Transition {
	return Transition{State: s}
}

func changed(s State, events ...Event) Transition {
	return Transition{State: s.Clamp(), Events: events, Changed: true}
}

// Reduce applies a to s. Actions whose preconditions fail (advancing past
// the end, navigating out of bounds, clicking a locked day, invalid names)
// leave the state unchanged and report Changed=false.
func Reduce(s State, a Action) Transition {
	s = s.Clamp()

	switch a := a.(type) {
	case ClickDay:
		cur, ok := s.Current()
		if !ok || a.Index != cur.CurrentIndex {
			return unchanged(s)
		}
		return advance(s)

	case AdvanceCurrent:
		return advance(s)

	case ResetCurrent:
		cur, ok := s.Current()
		if !ok || cur.CurrentIndex == 0 {
			return unchanged(s)
		}
		next := s.clone()
		next.Habits[next.SelectedIndex].Reset()
		return changed(next)

	case CreateHabit:
		h, err := habit.New(a.Spec, a.TotalSquares, a.Now, s.Habits)
		if err != nil {
			return unchanged(s)
		}
		next := s.clone()
		next.Habits = append(next.Habits, h)
		next.SelectedIndex = len(next.Habits) - 1
		return changed(next, HabitCreated{Habit: h})

	case EditHabit:
		i := s.Find(a.ID)
		if i < 0 {
			return unchanged(s)
		}
		next := s.clone()
		if err := next.Habits[i].Edit(a.Spec); err != nil {
			return unchanged(s)
		}
		return changed(next)

	case ToggleProgress:
		if _, ok := s.Current(); !ok {
			return unchanged(s)
		}
		next := s.clone()
		h := &next.Habits[next.SelectedIndex]
		h.ShowProgress = !h.ShowProgress
		return changed(next)

	case DeleteHabit:
		i := s.Find(a.ID)
		if i < 0 {
			return unchanged(s)
		}
		removed := s.Habits[i]
		next := s.clone()
		next.Habits = append(next.Habits[:i], next.Habits[i+1:]...)
		return changed(next, HabitDeleted{Habit: removed})

	case SelectPrev:
		if s.SelectedIndex <= 0 {
			return unchanged(s)
		}
		s.SelectedIndex--
		return changed(s)

	case SelectNext:
		if s.SelectedIndex >= len(s.Habits)-1 {
			return unchanged(s)
		}
		s.SelectedIndex++
		return changed(s)

	case Select:
		if a.Index < 0 || a.Index >= len(s.Habits) || a.Index == s.SelectedIndex {
			return unchanged(s)
		}
		s.SelectedIndex = a.Index
		return changed(s)

	case ToggleTheme:
		s.Theme = s.Theme.Toggle()
		return changed(s)

	case SetTheme:
		if a.Theme == s.Theme {
			return unchanged(s)
		}
		s.Theme = a.Theme
		return changed(s)
	}

	return unchanged(s)
}

func advance(s State) Transition {
	cur, ok := s.Current()
	if !ok || cur.CurrentIndex >= cur.TotalSquares {
		return unchanged(s)
	}
	next := s.clone()
	h := &next.Habits[next.SelectedIndex]
	completed, err := h.Advance()
	if err != nil {
		return unchanged(s)
	}
	if completed {
		return changed(next, CycleCompleted{Habit: *h})
	}
	return changed(next)
}
