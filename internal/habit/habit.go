// Package habit defines the habit model: a named, colored cycle of daily
// squares that fills in one day at a time and starts over once full.
package habit

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultTotalSquares is the length of a cycle (roughly three months).
const DefaultTotalSquares = 90

// MaxTotalSquares bounds the cycle length (about ten years of days).
const MaxTotalSquares = 3650

// DefaultColor is the fill used when no color is chosen.
const DefaultColor = "#A8E6CF"

const maxNameLen = 60

// Palette lists the colors offered by the create/edit form.
var Palette = []string{
	"#A8E6CF",
	"#FFD3B6",
	"#FFAAA5",
	"#FF8B94",
	"#DCEDC1",
	"#C7CEEA",
	"#B5EAD7",
	"#F6D186",
}

var (
	// ErrCycleFull is returned by Advance when every square is already filled.
	ErrCycleFull = errors.New("habit: cycle already full")
	// ErrEmptyName is returned when a habit name is blank.
	ErrEmptyName = errors.New("habit: name is required")
	// ErrInvalidColor is returned when a color is not #RRGGBB.
	ErrInvalidColor = errors.New("habit: color must be #RRGGBB")
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Habit is a single tracked habit in the current schema.
type Habit struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Color        string `json:"color"`
	ShowProgress bool   `json:"showProgress"`
	TotalSquares int    `json:"totalSquares"`
	CurrentIndex int    `json:"currentIndex"`
}

// Spec carries the user-editable fields of a habit.
type Spec struct {
	Name         string
	Color        string
	ShowProgress bool
}

// Normalize trims the name and fills in the default color.
func (s Spec) Normalize() Spec {
	s.Name = strings.TrimSpace(s.Name)
	s.Color = strings.TrimSpace(s.Color)
	if s.Color == "" {
		s.Color = DefaultColor
	}
	return s
}

// Validate reports whether s can be applied to a habit.
func (s Spec) Validate() error {
	s = s.Normalize()
	if s.Name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(s.Name) > maxNameLen {
		return fmt.Errorf("habit: name too long (max %d)", maxNameLen)
	}
	if !hexColor.MatchString(s.Color) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, s.Color)
	}
	return nil
}

// New creates a habit at the start of a fresh cycle. The id comes from now
// and is bumped past every id in existing so it stays unique.
func New(spec Spec, total int, now time.Time, existing []Habit) (Habit, error) {
	if err := spec.Validate(); err != nil {
		return Habit{}, err
	}
	spec = spec.Normalize()
	if !ValidTotal(total) {
		total = DefaultTotalSquares
	}
	return Habit{
		ID:           NextID(now, existing),
		Name:         spec.Name,
		Color:        spec.Color,
		ShowProgress: spec.ShowProgress,
		TotalSquares: total,
		CurrentIndex: 0,
	}, nil
}

// NextID returns the creation-time id for a new habit: the millisecond
// clock, or one past the largest existing id when the clock is not ahead.
func NextID(now time.Time, existing []Habit) int64 {
	id := now.UnixMilli()
	for _, h := range existing {
		if h.ID >= id {
			id = h.ID + 1
		}
	}
	return id
}

// Advance marks the next day complete. When the last square fills, it
// reports completed=true and the habit starts a new cycle at zero.
func (h *Habit) Advance() (completed bool, err error) {
	if h.CurrentIndex >= h.TotalSquares {
		return false, ErrCycleFull
	}
	h.CurrentIndex++
	if h.CurrentIndex == h.TotalSquares {
		h.Reset()
		return true, nil
	}
	return false, nil
}

// Reset starts the cycle over.
func (h *Habit) Reset() {
	h.CurrentIndex = 0
}

// Edit applies name, color, and progress visibility. Progress is untouched.
func (h *Habit) Edit(spec Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	spec = spec.Normalize()
	h.Name = spec.Name
	h.Color = spec.Color
	h.ShowProgress = spec.ShowProgress
	return nil
}

// Percent is the rounded share of the cycle completed so far.
func (h Habit) Percent() int {
	if h.TotalSquares <= 0 {
		return 0
	}
	return (h.CurrentIndex*200 + h.TotalSquares) / (h.TotalSquares * 2)
}

// Spec returns the editable fields of h.
func (h Habit) Spec() Spec {
	return Spec{Name: h.Name, Color: h.Color, ShowProgress: h.ShowProgress}
}

// ValidTotal reports whether n is a usable cycle length.
func ValidTotal(n int) bool {
	return n > 0 && n <= MaxTotalSquares
}

// normalize enforces 0 <= CurrentIndex <= TotalSquares on decoded data.
// A cycle length outside (0, MaxTotalSquares] falls back to the default.
func (h Habit) normalize() Habit {
	if !ValidTotal(h.TotalSquares) {
		h.TotalSquares = DefaultTotalSquares
	}
	if h.CurrentIndex < 0 {
		h.CurrentIndex = 0
	}
	if h.CurrentIndex > h.TotalSquares {
		h.CurrentIndex = h.TotalSquares
	}
	return h
}
