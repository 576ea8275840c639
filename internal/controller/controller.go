// Package controller owns the session state. It runs actions through the
// reducer, writes the result back to the habit store, and hands events to
// observers such as the notifier.
package controller

import (
	"fmt"
	"time"

	"bitsy/internal/habit"
	"bitsy/internal/render"
	"bitsy/internal/state"
	"bitsy/internal/storage"

	"go.uber.org/zap"
)

// DeletePrompt is the question asked before a habit is removed.
const DeletePrompt = "Delete this habit?"

// Confirmer answers a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Always answers yes without asking.
var Always Confirmer = ConfirmFunc(func(string) bool { return true })

// Observer receives the events of every applied transition.
type Observer func(state.Event)

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now for habit ids.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithTotalSquares sets the cycle length for new habits.
func WithTotalSquares(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.total = n
		}
	}
}

// WithObserver registers an event observer.
func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observers = append(c.observers, o) }
}

// Controller applies actions and persists after every change.
type Controller struct {
	store     *storage.Store
	log       *zap.Logger
	now       func() time.Time
	total     int
	observers []Observer

	st      state.State
	origin  storage.Origin
	lastErr error
}

// New loads the persisted state. Data found under the legacy keys is
// written straight back under the primary key.
func New(store *storage.Store, log *zap.Logger, opts ...Option) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Controller{
		store: store,
		log:   log,
		now:   time.Now,
		total: habit.DefaultTotalSquares,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.st, c.origin = store.Load()
	c.st = c.st.Clamp()
	log.Debug("state loaded",
		zap.Stringer("origin", c.origin),
		zap.Int("habits", len(c.st.Habits)),
		zap.Int("selected", c.st.SelectedIndex))

	if c.origin == storage.OriginLegacy {
		c.persist()
	}
	return c
}

// State returns the current state.
func (c *Controller) State() state.State {
	return c.st
}

// View derives the visible widget from the current state.
func (c *Controller) View() render.View {
	return render.Derive(c.st)
}

// Origin says where the state was loaded from.
func (c *Controller) Origin() storage.Origin {
	return c.origin
}

// Err returns the error of the most recent save, or nil.
func (c *Controller) Err() error {
	return c.lastErr
}

// Dispatch applies a and persists when anything changed. A failed save is
// logged and kept for Err; the in-memory state still moves forward.
func (c *Controller) Dispatch(a state.Action) []state.Event {
	t := state.Reduce(c.st, a)
	if !t.Changed {
		return nil
	}
	c.st = t.State
	c.persist()

	for _, ev := range t.Events {
		c.logEvent(ev)
		for _, o := range c.observers {
			o(ev)
		}
	}
	return t.Events
}

// Create validates spec and appends a new habit.
func (c *Controller) Create(spec habit.Spec) (habit.Habit, error) {
	if err := spec.Validate(); err != nil {
		return habit.Habit{}, err
	}
	for _, ev := range c.Dispatch(state.CreateHabit{Spec: spec, TotalSquares: c.total, Now: c.now()}) {
		if created, ok := ev.(state.HabitCreated); ok {
			return created.Habit, nil
		}
	}
	return habit.Habit{}, fmt.Errorf("create habit %q: not applied", spec.Name)
}

// Edit validates spec and applies it to the habit with id.
func (c *Controller) Edit(id int64, spec habit.Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	if c.st.Find(id) < 0 {
		return fmt.Errorf("edit habit %d: not found", id)
	}
	c.Dispatch(state.EditHabit{ID: id, Spec: spec})
	return nil
}

// Delete removes the selected habit once confirm agrees. It reports
// whether anything was removed.
func (c *Controller) Delete(confirm Confirmer) bool {
	cur, ok := c.st.Current()
	if !ok {
		return false
	}
	if confirm != nil && !confirm.Confirm(DeletePrompt) {
		c.log.Debug("delete declined", zap.Int64("habit", cur.ID))
		return false
	}
	return len(c.Dispatch(state.DeleteHabit{ID: cur.ID})) > 0
}

// Import merges habits from an export and saves the result.
func (c *Controller) Import(habits []habit.Habit) storage.ImportResult {
	next, res := storage.Merge(c.st, habits)
	if res.Added > 0 {
		c.st = next
		c.persist()
	}
	c.log.Info("import finished", zap.Int("added", res.Added), zap.Int("skipped", res.Skipped))
	return res
}

func (c *Controller) persist() {
	c.lastErr = c.store.Save(c.st)
	if c.lastErr != nil {
		c.log.Error("save failed", zap.Error(c.lastErr))
	}
}

func (c *Controller) logEvent(ev state.Event) {
	switch ev := ev.(type) {
	case state.CycleCompleted:
		c.log.Info("cycle completed",
			zap.Int64("habit", ev.Habit.ID),
			zap.String("name", ev.Habit.Name),
			zap.Int("total", ev.Habit.TotalSquares))
	case state.HabitCreated:
		c.log.Info("habit created", zap.Int64("habit", ev.Habit.ID), zap.String("name", ev.Habit.Name))
	case state.HabitDeleted:
		c.log.Info("habit deleted", zap.Int64("habit", ev.Habit.ID), zap.String("name", ev.Habit.Name))
	}
}
