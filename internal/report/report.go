// Package report builds progress reports of the habit list for export.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bitsy/internal/habit"
	"bitsy/internal/render"
	"bitsy/internal/state"
)

// ErrNoHabits is returned when there is nothing to report on.
var ErrNoHabits = errors.New("report: no habits")

// Format is an output format for a report.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat accepts "markdown", "md", or "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("invalid format %q (use markdown or json)", s)
	}
}

// Report is a snapshot of habit progress.
type Report struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Theme       string          `json:"theme"`
	Habits      []HabitProgress `json:"habits"`
	Summary     Summary         `json:"summary"`
}

// HabitProgress is one habit's position in its cycle.
type HabitProgress struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Color     string   `json:"color"`
	Selected  bool     `json:"selected"`
	Day       int      `json:"day"`
	Total     int      `json:"total"`
	Remaining int      `json:"remaining"`
	Percent   int      `json:"percent"`
	Grid      []string `json:"grid"`
}

// Summary aggregates the reported habits.
type Summary struct {
	Habits         int     `json:"habits"`
	DaysCompleted  int     `json:"days_completed"`
	DaysTotal      int     `json:"days_total"`
	OverallPercent float64 `json:"overall_percent"`
}

// Grid glyphs, one per day state.
const (
	glyphCompleted = "■"
	glyphActive    = "▣"
	glyphLocked    = "□"
)

// Generator creates reports from session state.
type Generator struct {
	columns int
	now     func() time.Time
}

// NewGenerator creates a generator that lays grids out in rows of columns.
func NewGenerator(columns int) *Generator {
	if columns <= 0 {
		columns = 15
	}
	return &Generator{columns: columns, now: time.Now}
}

// Generate reports on the selected habit, or on every habit when all is set.
func (g *Generator) Generate(s state.State, all bool) (*Report, error) {
	s = s.Clamp()
	if len(s.Habits) == 0 {
		return nil, ErrNoHabits
	}

	r := &Report{
		GeneratedAt: g.now(),
		Theme:       string(s.Theme),
	}
	for i, h := range s.Habits {
		if !all && i != s.SelectedIndex {
			continue
		}
		p := g.progress(h)
		p.Selected = i == s.SelectedIndex
		r.Habits = append(r.Habits, p)

		r.Summary.Habits++
		r.Summary.DaysCompleted += p.Day
		r.Summary.DaysTotal += p.Total
	}
	if r.Summary.DaysTotal > 0 {
		r.Summary.OverallPercent = float64(r.Summary.DaysCompleted*100) / float64(r.Summary.DaysTotal)
	}
	return r, nil
}

func (g *Generator) progress(h habit.Habit) HabitProgress {
	days := render.Days(h)

	var grid []string
	var row strings.Builder
	for i, d := range days {
		switch d.State {
		case render.DayCompleted:
			row.WriteString(glyphCompleted)
		case render.DayActive:
			row.WriteString(glyphActive)
		default:
			row.WriteString(glyphLocked)
		}
		if (i+1)%g.columns == 0 || i == len(days)-1 {
			grid = append(grid, row.String())
			row.Reset()
		}
	}

	return HabitProgress{
		ID:        h.ID,
		Name:      h.Name,
		Color:     h.Color,
		Day:       h.CurrentIndex,
		Total:     h.TotalSquares,
		Remaining: h.TotalSquares - h.CurrentIndex,
		Percent:   h.Percent(),
		Grid:      grid,
	}
}
