package ui

import (
	"bitsy/internal/config"
	"bitsy/internal/render"
	"bitsy/internal/state"

	"github.com/charmbracelet/lipgloss"
)

// Glyphs drawn for each day square. Every glyph is cellWidth columns wide.
const (
	GlyphCompleted = "██"
	GlyphActive    = "▒▒"
	GlyphLocked    = "░░"
)

// Palette holds the colors that change between the light and dark themes.
type Palette struct {
	Background lipgloss.Color
	Surface    lipgloss.Color
	Text       lipgloss.Color
	TextMuted  lipgloss.Color
	ActiveDay  lipgloss.Color
	LockedDay  lipgloss.Color
}

// LightPalette is the warm paper look of the light theme.
var LightPalette = Palette{
	Background: lipgloss.Color("#E7E2D9"),
	Surface:    lipgloss.Color("#F4F0E8"),
	Text:       lipgloss.Color("#2D2A26"),
	TextMuted:  lipgloss.Color("#7A7367"),
	ActiveDay:  lipgloss.Color("#BFB6A5"),
	LockedDay:  lipgloss.Color("#D3CCBF"),
}

// DarkPalette is the night-blue look of the dark theme.
var DarkPalette = Palette{
	Background: lipgloss.Color("#141B26"),
	Surface:    lipgloss.Color("#1C2431"),
	Text:       lipgloss.Color("#E6E9EF"),
	TextMuted:  lipgloss.Color("#8B93A1"),
	ActiveDay:  lipgloss.Color("#2A313D"),
	LockedDay:  lipgloss.Color("#1F2632"),
}

// PaletteFor returns the palette of a theme.
func PaletteFor(t state.Theme) Palette {
	if t.IsDark() {
		return DarkPalette
	}
	return LightPalette
}

// Styles holds all widget styles, initialized with theme configuration.
type Styles struct {
	Mode    state.Theme
	Palette Palette

	// Colors
	ColorPrimary   lipgloss.Color
	ColorAccent    lipgloss.Color
	ColorMuted     lipgloss.Color
	ColorDanger    lipgloss.Color
	ColorSuccess   lipgloss.Color
	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color

	// Component styles
	TitleStyle    lipgloss.Style
	CounterStyle  lipgloss.Style
	ModeStyle     lipgloss.Style
	HabitStyle    lipgloss.Style
	ProgressStyle lipgloss.Style
	EmptyStyle    lipgloss.Style

	ActiveDayStyle lipgloss.Style
	LockedDayStyle lipgloss.Style

	HelpStyle    lipgloss.Style
	HelpKeyStyle lipgloss.Style

	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style

	InputPromptStyle lipgloss.Style
	InputTextStyle   lipgloss.Style
	FieldLabelStyle  lipgloss.Style
	FieldFocusStyle  lipgloss.Style
}

// NewStyles creates a new Styles instance from the given config and theme.
func NewStyles(cfg *config.Config, mode state.Theme) *Styles {
	return NewStylesFromTheme(&cfg.Theme, mode)
}

// NewStylesFromTheme creates a new Styles instance from a ThemeConfig.
// If a theme color is empty, it uses the appropriate default.
func NewStylesFromTheme(theme *config.ThemeConfig, mode state.Theme) *Styles {
	if theme == nil {
		theme = &config.ThemeConfig{}
	}
	s := &Styles{
		Mode:    mode,
		Palette: PaletteFor(mode),
	}

	// Initialize colors from config with fallbacks to defaults
	s.ColorPrimary = colorOrDefault(theme.Primary, "#7C3AED")
	s.ColorAccent = colorOrDefault(theme.Accent, "#10B981")
	s.ColorMuted = colorOrDefault(theme.Muted, "#6B7280")

	// Fixed semantic colors (not configurable from theme)
	s.ColorDanger = lipgloss.Color("#EF4444")
	s.ColorSuccess = lipgloss.Color("#10B981")

	s.ColorText = s.Palette.Text
	s.ColorTextMuted = s.Palette.TextMuted

	s.initComponentStyles()

	return s
}

// colorOrDefault returns the lipgloss.Color from hex string, or default if empty.
func colorOrDefault(hex, defaultHex string) lipgloss.Color {
	if hex != "" {
		return lipgloss.Color(hex)
	}
	return lipgloss.Color(defaultHex)
}

func (s *Styles) initComponentStyles() {
	// Title bar
	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(s.ColorPrimary).
		Padding(0, 1)

	s.CounterStyle = lipgloss.NewStyle().
		Foreground(s.ColorText).
		Bold(true)

	s.ModeStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	// Habit header and progress line
	s.HabitStyle = lipgloss.NewStyle().
		Bold(true)

	s.ProgressStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.EmptyStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted).
		Italic(true)

	// Day squares; completed squares take the habit color
	s.ActiveDayStyle = lipgloss.NewStyle().
		Background(s.Palette.ActiveDay)

	s.LockedDayStyle = lipgloss.NewStyle().
		Foreground(s.Palette.LockedDay)

	// Help bar
	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.HelpKeyStyle = lipgloss.NewStyle().
		Foreground(s.ColorAccent).
		Bold(true)

	// Status messages
	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.ColorSuccess).
		Italic(true)

	s.ErrorStyle = lipgloss.NewStyle().
		Foreground(s.ColorDanger).
		Bold(true)

	// Form
	s.InputPromptStyle = lipgloss.NewStyle().
		Foreground(s.ColorPrimary).
		Bold(true)

	s.InputTextStyle = lipgloss.NewStyle().
		Foreground(s.ColorText)

	s.FieldLabelStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted).
		Width(10)

	s.FieldFocusStyle = lipgloss.NewStyle().
		Foreground(s.ColorPrimary).
		Bold(true).
		Width(10)
}

// Day renders one square of a habit grid filled with color.
func (s *Styles) Day(d render.Day, color string) string {
	switch d.State {
	case render.DayCompleted:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(GlyphCompleted)
	case render.DayActive:
		return s.ActiveDayStyle.Foreground(lipgloss.Color(color)).Render(GlyphActive)
	default:
		return s.LockedDayStyle.Render(GlyphLocked)
	}
}

// Swatch renders a color sample for the form.
func (s *Styles) Swatch(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(GlyphCompleted)
}

// RenderHelp renders help text with key bindings using the given styles.
func (s *Styles) RenderHelp(keys ...string) string {
	var result string
	for i := 0; i+1 < len(keys); i += 2 {
		if i > 0 {
			result += "  "
		}
		key := keys[i]
		desc := keys[i+1]
		result += s.HelpKeyStyle.Render("["+key+"]") + " " + s.HelpStyle.Render(desc)
	}
	return result
}
