package ui

import (
	"fmt"
	"strings"
	"time"

	"bitsy/internal/config"
	"bitsy/internal/controller"
	"bitsy/internal/habit"
	"bitsy/internal/notify"
	"bitsy/internal/render"
	"bitsy/internal/state"
	"bitsy/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Grid geometry, in terminal cells. The grid starts below the title bar,
// a blank line, the habit name and another blank line.
const (
	gridTop   = 4
	gridLeft  = 2
	cellWidth = 2
	cellGap   = 1

	defaultGridColumns = 15
)

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys             *config.KeysConfig
	Theme            *config.ThemeConfig
	ConfirmDeletions bool
	GridColumns      int
	DefaultColor     string
}

// App is the Bubble Tea model of the habit widget.
type App struct {
	ctrl        *controller.Controller
	notifier    *notify.Announcer
	styles      *Styles
	config      *AppConfig
	helpOverlay *HelpOverlay
	form        *habitForm
	confirm     *confirmState
	celebration *render.Celebration
	showHelp    bool
	width       int
	height      int
	status      string
	statusErr   bool
	statusUntil time.Time
	quitting    bool

	// Key bindings
	keys      KeyMap
	inputKeys InputKeyMap
	helpKeys  HelpKeyMap
}

// confirmState is a pending yes/no question; run applies the answer "yes".
type confirmState struct {
	title string
	body  string
	verb  string
	run   func() tea.Cmd
}

// NewApp creates the widget around a loaded controller.
func NewApp(ctrl *controller.Controller, notifier *notify.Announcer, cfg *AppConfig) *App {
	if cfg == nil {
		cfg = &AppConfig{
			ConfirmDeletions: true,
		}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}
	if cfg.Theme == nil {
		cfg.Theme = &config.ThemeConfig{}
	}
	if cfg.GridColumns <= 0 {
		cfg.GridColumns = defaultGridColumns
	}
	if cfg.DefaultColor == "" {
		cfg.DefaultColor = habit.DefaultColor
	}

	styles := NewStylesFromTheme(cfg.Theme, ctrl.State().Theme)
	keys := NewKeyMap(cfg.Keys)
	inputKeys := NewInputKeyMap(cfg.Keys)

	app := &App{
		ctrl:        ctrl,
		notifier:    notifier,
		styles:      styles,
		config:      cfg,
		helpOverlay: NewHelpOverlay(styles, keys, inputKeys),
		keys:        keys,
		inputKeys:   inputKeys,
		helpKeys:    DefaultHelpKeyMap(),
	}

	if err := ctrl.Err(); err != nil {
		app.SetStatus("Save failed: "+err.Error(), true)
	} else if n := len(ctrl.State().Habits); n > 0 && ctrl.Origin() == storage.OriginLegacy {
		app.SetStatus(fmt.Sprintf("Imported %d habit(s) from the previous version", n), false)
	}

	return app
}

// Init starts the status clock.
func (a *App) Init() tea.Cmd {
	return tickCmd()
}

// Update handles all messages and routes them appropriately.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.helpOverlay.SetSize(msg.Width, msg.Height)
		return a, nil

	case tickMsg:
		if a.status != "" && !a.statusUntil.IsZero() && time.Now().After(a.statusUntil) {
			a.status = ""
			a.statusErr = false
			a.statusUntil = time.Time{}
		}
		return a, tickCmd()

	case notifiedMsg:
		return a, nil

	case tea.MouseMsg:
		return a, a.handleMouse(msg)

	case tea.KeyMsg:
		return a, a.handleKey(msg)
	}

	if a.form != nil {
		_, cmd := a.form.update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		a.quitting = true
		return tea.Quit
	}

	if a.celebration != nil {
		switch msg.String() {
		case "enter", " ", "esc":
			a.celebration = nil
		}
		return nil
	}

	if a.confirm != nil {
		switch msg.String() {
		case "y", "Y", "enter":
			run := a.confirm.run
			a.confirm = nil
			return run()
		case "n", "N", "esc":
			a.confirm = nil
			a.SetStatus("Canceled", false)
		}
		return nil
	}

	// Help overlay takes priority
	if a.showHelp {
		if key.Matches(msg, a.helpKeys.Close) {
			a.showHelp = false
		}
		return nil
	}

	if a.form != nil {
		return a.updateForm(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		return tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
		return nil

	case key.Matches(msg, a.keys.Advance):
		return a.dispatch(state.AdvanceCurrent{})

	case key.Matches(msg, a.keys.Prev):
		return a.dispatch(state.SelectPrev{})

	case key.Matches(msg, a.keys.Next):
		return a.dispatch(state.SelectNext{})

	case key.Matches(msg, a.keys.Add):
		a.form = newHabitForm(a.inputKeys, a.config.DefaultColor)
		return a.form.focusCmd()

	case key.Matches(msg, a.keys.Edit):
		cur, ok := a.ctrl.State().Current()
		if !ok {
			return nil
		}
		a.form = newHabitForm(a.inputKeys, a.config.DefaultColor)
		a.form.forEdit(cur)
		return a.form.focusCmd()

	case key.Matches(msg, a.keys.Delete):
		return a.askDelete()

	case key.Matches(msg, a.keys.Reset):
		return a.askReset()

	case key.Matches(msg, a.keys.Progress):
		return a.dispatch(state.ToggleProgress{})

	case key.Matches(msg, a.keys.Theme):
		return a.dispatch(state.ToggleTheme{})
	}

	return nil
}

func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress {
		return nil
	}

	// Clicks dismiss the celebration and help overlays
	if a.celebration != nil {
		a.celebration = nil
		return nil
	}
	if a.showHelp {
		a.showHelp = false
		return nil
	}
	if a.confirm != nil || a.form != nil {
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return a.dispatch(state.SelectPrev{})
	case tea.MouseButtonWheelDown:
		return a.dispatch(state.SelectNext{})
	case tea.MouseButtonLeft:
		if idx, ok := a.dayAt(msg.X, msg.Y); ok {
			return a.dispatch(state.ClickDay{Index: idx})
		}
	}
	return nil
}

func (a *App) updateForm(msg tea.KeyMsg) tea.Cmd {
	result, cmd := a.form.update(msg)
	switch result {
	case formCanceled:
		a.form = nil
		return nil

	case formSubmitted:
		spec := a.form.spec()
		if a.form.editing {
			if err := a.ctrl.Edit(a.form.id, spec); err != nil {
				return a.form.reject(err)
			}
			a.form = nil
			a.SetStatus("Saved "+spec.Normalize().Name, false)
			a.afterChange()
			return nil
		}

		created, err := a.ctrl.Create(spec)
		if err != nil {
			return a.form.reject(err)
		}
		a.form = nil
		a.SetStatus("Added "+created.Name, false)
		a.afterChange()
		return nil
	}
	return cmd
}

// askDelete always asks; ConfirmDeletions only governs resets.
func (a *App) askDelete() tea.Cmd {
	cur, ok := a.ctrl.State().Current()
	if !ok {
		return nil
	}
	run := func() tea.Cmd {
		if a.ctrl.Delete(controller.Always) {
			a.SetStatus("Deleted "+cur.Name, false)
		}
		a.afterChange()
		return nil
	}
	a.confirm = &confirmState{
		title: controller.DeletePrompt,
		body:  fmt.Sprintf("%q and its %d completed day(s) will be removed.", cur.Name, cur.CurrentIndex),
		verb:  "delete",
		run:   run,
	}
	return nil
}

func (a *App) askReset() tea.Cmd {
	cur, ok := a.ctrl.State().Current()
	if !ok || cur.CurrentIndex == 0 {
		return nil
	}
	run := func() tea.Cmd {
		cmd := a.dispatch(state.ResetCurrent{})
		a.SetStatus("Cycle restarted", false)
		return cmd
	}
	if !a.config.ConfirmDeletions {
		return run()
	}
	a.confirm = &confirmState{
		title: "Restart this cycle?",
		body:  fmt.Sprintf("%q goes back to day 0.", cur.Name),
		verb:  "restart",
		run:   run,
	}
	return nil
}

// dispatch runs a through the controller and reacts to its events.
func (a *App) dispatch(act state.Action) tea.Cmd {
	var cmds []tea.Cmd
	for _, ev := range a.ctrl.Dispatch(act) {
		if done, ok := ev.(state.CycleCompleted); ok {
			c := render.Celebrate(done.Habit)
			a.celebration = &c
			cmds = append(cmds, announceCmd(a.notifier, c))
		}
	}
	a.afterChange()
	return tea.Batch(cmds...)
}

// afterChange surfaces save failures and follows theme changes.
func (a *App) afterChange() {
	if err := a.ctrl.Err(); err != nil {
		a.SetStatus("Save failed: "+err.Error(), true)
	}
	if mode := a.ctrl.State().Theme; mode != a.styles.Mode {
		a.styles = NewStylesFromTheme(a.config.Theme, mode)
		a.helpOverlay.SetStyles(a.styles)
	}
}

// columns is the number of squares per grid row at the current width.
func (a *App) columns() int {
	cols := a.config.GridColumns
	if a.width > 0 {
		fit := (a.width - gridLeft + cellGap) / (cellWidth + cellGap)
		cols = min(cols, max(1, fit))
	}
	return cols
}

// dayAt maps a screen position to a day index of the visible grid.
func (a *App) dayAt(x, y int) (int, bool) {
	v := a.ctrl.View()
	if v.Empty {
		return 0, false
	}
	dx, dy := x-gridLeft, y-gridTop
	if dx < 0 || dy < 0 {
		return 0, false
	}
	if dx%(cellWidth+cellGap) >= cellWidth {
		return 0, false
	}
	cols := a.columns()
	col := dx / (cellWidth + cellGap)
	if col >= cols {
		return 0, false
	}
	idx := dy*cols + col
	if idx >= len(v.Days) {
		return 0, false
	}
	return idx, true
}

// View renders the entire widget.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}

	if a.celebration != nil {
		return a.renderCelebration()
	}

	if a.confirm != nil {
		return a.renderConfirm()
	}

	// Show help overlay if active
	if a.showHelp {
		return a.helpOverlay.View()
	}

	if a.form != nil {
		return RenderCentered(a.form.view(a.styles, a.width), a.width, a.height)
	}

	v := a.ctrl.View()

	var b strings.Builder
	b.WriteString(a.renderTitleBar(v))
	b.WriteString("\n\n")
	if v.Empty {
		b.WriteString(a.renderEmpty())
	} else {
		b.WriteString(a.renderHabit(v))
	}
	b.WriteString("\n\n")
	b.WriteString(a.renderHelpBar())

	return b.String()
}

func (a *App) renderEmpty() string {
	return strings.Repeat(" ", gridLeft) + a.styles.EmptyStyle.Render(
		fmt.Sprintf("No habits yet. Press %s to add one.", a.keys.Add.Help().Key))
}

func (a *App) renderHabit(v render.View) string {
	var b strings.Builder
	indent := strings.Repeat(" ", gridLeft)

	nameWidth := 40
	if a.width > 0 {
		nameWidth = max(8, a.width-gridLeft*2)
	}
	name := runewidth.Truncate(v.Habit.Name, nameWidth, "…")
	b.WriteString(indent)
	b.WriteString(a.styles.HabitStyle.Foreground(lipgloss.Color(v.Habit.Color)).Render(name))
	b.WriteString("\n\n")

	cols := a.columns()
	gap := strings.Repeat(" ", cellGap)
	for i, d := range v.Days {
		if i%cols == 0 {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(indent)
		} else {
			b.WriteString(gap)
		}
		b.WriteString(a.styles.Day(d, v.Habit.Color))
	}

	if v.Progress != "" {
		b.WriteString("\n\n")
		b.WriteString(indent)
		b.WriteString(a.styles.ProgressStyle.Render(v.Progress))
	}
	return b.String()
}

func (a *App) renderCelebration() string {
	c := a.celebration

	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(a.styles.ColorAccent).
		Padding(1, 2).
		Width(overlayWidth).
		Align(lipgloss.Center)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorAccent)

	bodyStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorText)

	buttonStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(a.styles.ColorPrimary).
		Padding(0, 2)

	var b strings.Builder
	b.WriteString(titleStyle.Render("🎉 " + c.Title))
	b.WriteString("\n")
	b.WriteString(bodyStyle.Render(c.Subtitle))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(c.Message))
	b.WriteString("\n\n")
	b.WriteString(buttonStyle.Render(c.Button))

	content := overlayStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

func (a *App) renderConfirm() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorDanger).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorDanger).
		MarginBottom(1)

	bodyStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorText)

	hintStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.confirm.title))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(a.confirm.body))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render(fmt.Sprintf("[y/enter] %s    [n/esc] cancel", a.confirm.verb)))

	content := overlayStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

// renderGoodbye shows an exit message with a summary of the current cycles.
func (a *App) renderGoodbye() string {
	habits := a.ctrl.State().Habits

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  See you tomorrow!\n")
	b.WriteString("\n")

	if len(habits) > 0 {
		var done, total int
		for _, h := range habits {
			done += h.CurrentIndex
			total += h.TotalSquares
		}
		b.WriteString(fmt.Sprintf("  Habits: %d\n", len(habits)))
		if total > 0 {
			b.WriteString(fmt.Sprintf("  Days filled: %d/%d (%d%%)\n", done, total, done*100/total))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderTitleBar creates the top bar with the counter and theme.
func (a *App) renderTitleBar(v render.View) string {
	title := a.styles.TitleStyle.Render(" bitsy ")
	counter := a.styles.CounterStyle.Render(v.Counter)

	mode := "☀ light"
	if v.Theme.IsDark() {
		mode = "☾ dark"
	}
	modeLabel := a.styles.ModeStyle.Render(mode)

	used := lipgloss.Width(title) + lipgloss.Width(counter) + lipgloss.Width(modeLabel)
	spacerWidth := a.width - used - 2
	if spacerWidth < 2 {
		spacerWidth = 2
	}

	return title + strings.Repeat(" ", spacerWidth) + counter + "  " + modeLabel
}

// renderHelpBar creates the bottom help bar, or the status when one is set.
func (a *App) renderHelpBar() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}

	if a.ctrl.View().Empty {
		return a.styles.RenderHelp(
			a.keys.Add.Help().Key, "add",
			a.keys.Theme.Help().Key, "theme",
			a.keys.Help.Help().Key, "help",
			a.keys.Quit.Help().Key, "quit",
		)
	}

	return a.styles.RenderHelp(
		a.keys.Advance.Help().Key, "done",
		a.keys.Add.Help().Key, "add",
		a.keys.Edit.Help().Key, "edit",
		a.keys.Delete.Help().Key, "del",
		a.keys.Prev.Help().Key+"/"+a.keys.Next.Help().Key, "nav",
		a.keys.Help.Help().Key, "help",
	)
}

// SetStatus sets a status message to display to the user.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = time.Now().Add(ttl)
}

// Run starts the Bubble Tea program around ctrl.
func Run(ctrl *controller.Controller, notifier *notify.Announcer, cfg *AppConfig) error {
	app := NewApp(ctrl, notifier, cfg)
	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(), // Enable mouse support
	)
	_, err := p.Run()
	return err
}
