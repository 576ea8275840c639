package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlay renders a help screen
type HelpOverlay struct {
	width  int
	height int
	styles *Styles
	keys   KeyMap
	input  InputKeyMap
}

// NewHelpOverlay creates a new help overlay
func NewHelpOverlay(styles *Styles, keys KeyMap, input InputKeyMap) *HelpOverlay {
	return &HelpOverlay{
		styles: styles,
		keys:   keys,
		input:  input,
	}
}

// SetSize sets the overlay dimensions
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// SetStyles swaps the styles after a theme change.
func (h *HelpOverlay) SetStyles(styles *Styles) {
	h.styles = styles
}

// View renders the help overlay
func (h *HelpOverlay) View() string {
	overlayWidth := 60
	if h.width > 0 {
		overlayWidth = min(60, max(20, h.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(h.styles.ColorPrimary).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorPrimary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorAccent).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorAccent).
		Width(14)

	descStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorText)

	mutedStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorTextMuted).
		Italic(true)

	row := func(keys, desc string) string {
		return keyStyle.Render(keys) + descStyle.Render(desc) + "\n"
	}
	bindingRow := func(b key.Binding) string {
		return row(strings.Join(displayKeys(b.Keys()), " / "), b.Help().Desc)
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("bitsy - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Grid"))
	b.WriteString("\n")
	b.WriteString(bindingRow(h.keys.Advance))
	b.WriteString(row("click", "complete the glowing square"))
	b.WriteString(bindingRow(h.keys.Reset))
	b.WriteString(bindingRow(h.keys.Progress))

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Habits"))
	b.WriteString("\n")
	b.WriteString(bindingRow(h.keys.Add))
	b.WriteString(bindingRow(h.keys.Edit))
	b.WriteString(bindingRow(h.keys.Delete))
	b.WriteString(bindingRow(h.keys.Prev))
	b.WriteString(bindingRow(h.keys.Next))

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Form"))
	b.WriteString("\n")
	b.WriteString(bindingRow(h.input.Confirm))
	b.WriteString(bindingRow(h.input.Cancel))
	b.WriteString(row("tab", "next field"))
	b.WriteString(row("← / →", "pick a color"))

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("General"))
	b.WriteString("\n")
	b.WriteString(bindingRow(h.keys.Theme))
	b.WriteString(bindingRow(h.keys.Help))
	b.WriteString(bindingRow(h.keys.Quit))

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Press ? or Esc to close"))

	content := overlayStyle.Render(b.String())

	return lipgloss.Place(
		h.width,
		h.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}

func displayKeys(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		if k == " " {
			k = "space"
		}
		out[i] = k
	}
	return out
}

// RenderCentered centers content in the terminal
func RenderCentered(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
