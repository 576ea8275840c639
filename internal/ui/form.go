package ui

import (
	"errors"
	"strings"

	"bitsy/internal/habit"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type formField int

const (
	fieldName formField = iota
	fieldColor
	fieldProgress
	fieldCount
)

type formResult int

const (
	formPending formResult = iota
	formSubmitted
	formCanceled
)

// habitForm is the shared create/edit dialog: a name, a palette color and
// the progress switch.
type habitForm struct {
	editing      bool
	id           int64
	input        textinput.Model
	colors       []string
	colorIdx     int
	showProgress bool
	focus        formField
	err          string
	keys         InputKeyMap
}

func newHabitForm(keys InputKeyMap, defaultColor string) *habitForm {
	ti := textinput.New()
	ti.Placeholder = "Habit name (e.g., Read 10 pages)"
	ti.CharLimit = 60
	ti.Width = 32

	f := &habitForm{
		input:  ti,
		colors: append([]string(nil), habit.Palette...),
		keys:   keys,
	}
	f.colorIdx = f.indexOf(defaultColor)
	return f
}

// forEdit prefills the form with h.
func (f *habitForm) forEdit(h habit.Habit) {
	f.editing = true
	f.id = h.ID
	f.input.SetValue(h.Name)
	f.input.CursorEnd()
	f.showProgress = h.ShowProgress
	f.colorIdx = f.indexOf(h.Color)
}

func (f *habitForm) indexOf(color string) int {
	if color == "" {
		return 0
	}
	for i, c := range f.colors {
		if strings.EqualFold(c, color) {
			return i
		}
	}
	// Colors outside the palette stay selectable.
	f.colors = append(f.colors, color)
	return len(f.colors) - 1
}

func (f *habitForm) title() string {
	if f.editing {
		return "Edit Habit"
	}
	return "New Habit"
}

func (f *habitForm) color() string {
	return f.colors[f.colorIdx]
}

func (f *habitForm) spec() habit.Spec {
	return habit.Spec{
		Name:         f.input.Value(),
		Color:        f.color(),
		ShowProgress: f.showProgress,
	}
}

func (f *habitForm) focusCmd() tea.Cmd {
	if f.focus == fieldName {
		return f.input.Focus()
	}
	f.input.Blur()
	return nil
}

func (f *habitForm) setFocus(field formField) tea.Cmd {
	f.focus = (field + fieldCount) % fieldCount
	return f.focusCmd()
}

// reject keeps the form open and shows why the input was refused.
func (f *habitForm) reject(err error) tea.Cmd {
	switch {
	case errors.Is(err, habit.ErrEmptyName):
		f.err = "Name is required"
	default:
		f.err = err.Error()
	}
	return f.setFocus(fieldName)
}

func (f *habitForm) update(msg tea.Msg) (formResult, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		return formPending, cmd
	}

	switch {
	case key.Matches(keyMsg, f.keys.Cancel):
		return formCanceled, nil
	case key.Matches(keyMsg, f.keys.Confirm):
		if err := f.spec().Validate(); err != nil {
			return formPending, f.reject(err)
		}
		return formSubmitted, nil
	case key.Matches(keyMsg, f.keys.NextField):
		return formPending, f.setFocus(f.focus + 1)
	case key.Matches(keyMsg, f.keys.PrevField):
		return formPending, f.setFocus(f.focus - 1)
	}

	switch f.focus {
	case fieldColor:
		switch {
		case key.Matches(keyMsg, f.keys.ColorPrev):
			f.colorIdx = (f.colorIdx - 1 + len(f.colors)) % len(f.colors)
		case key.Matches(keyMsg, f.keys.ColorNext):
			f.colorIdx = (f.colorIdx + 1) % len(f.colors)
		}
		return formPending, nil
	case fieldProgress:
		if key.Matches(keyMsg, f.keys.Toggle) {
			f.showProgress = !f.showProgress
		}
		return formPending, nil
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(keyMsg)
	if f.err != "" && strings.TrimSpace(f.input.Value()) != "" {
		f.err = ""
	}
	return formPending, cmd
}

func (f *habitForm) view(s *Styles, width int) string {
	label := func(field formField, text string) string {
		if f.focus == field {
			return s.FieldFocusStyle.Render("› " + text)
		}
		return s.FieldLabelStyle.Render("  " + text)
	}

	var swatches []string
	for i, c := range f.colors {
		sw := s.Swatch(c)
		if i == f.colorIdx {
			sw = "[" + sw + "]"
		} else {
			sw = " " + sw + " "
		}
		swatches = append(swatches, sw)
	}

	check := "[ ]"
	if f.showProgress {
		check = "[x]"
	}

	var b strings.Builder
	b.WriteString(s.InputPromptStyle.Render(f.title()))
	b.WriteString("\n\n")
	b.WriteString(label(fieldName, "Name") + f.input.View() + "\n")
	b.WriteString(label(fieldColor, "Color") + strings.Join(swatches, "") + "\n")
	b.WriteString(label(fieldProgress, "Progress") + s.InputTextStyle.Render(check+" show day and percent") + "\n")
	if f.err != "" {
		b.WriteString("\n" + s.ErrorStyle.Render(f.err) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(s.RenderHelp(
		f.keys.Confirm.Help().Key, "save",
		f.keys.Cancel.Help().Key, "cancel",
		"tab", "field",
	))

	overlayWidth := 60
	if width > 0 {
		overlayWidth = min(60, max(20, width-4))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorPrimary).
		Padding(1, 2).
		Width(overlayWidth).
		Render(b.String())
}
