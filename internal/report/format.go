package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

const maxNameWidth = 32

// FormatJSON formats a report as indented JSON.
func FormatJSON(r *Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// FormatMarkdown formats a report for humans.
func FormatMarkdown(r *Report) string {
	var b strings.Builder

	b.WriteString("# bitsy progress\n\n")
	fmt.Fprintf(&b, "_Generated %s_\n\n", r.GeneratedAt.Format("2006-01-02 15:04"))

	if len(r.Habits) > 1 {
		b.WriteString("| Habit | Day | Percent |\n")
		b.WriteString("|-------|-----|---------|\n")
		for _, h := range r.Habits {
			name := escapeCell(runewidth.Truncate(h.Name, maxNameWidth, "…"))
			if h.Selected {
				name = "**" + name + "**"
			}
			fmt.Fprintf(&b, "| %s | %d / %d | %d%% |\n", name, h.Day, h.Total, h.Percent)
		}
		fmt.Fprintf(&b, "\n%d habits, %d of %d days done (%.0f%%)\n\n",
			r.Summary.Habits, r.Summary.DaysCompleted, r.Summary.DaysTotal, r.Summary.OverallPercent)
	}

	for _, h := range r.Habits {
		fmt.Fprintf(&b, "## %s\n\n", h.Name)
		fmt.Fprintf(&b, "Day %d / %d • %d%% (%d to go)\n\n", h.Day, h.Total, h.Percent, h.Remaining)
		b.WriteString("```\n")
		for _, row := range h.Grid {
			b.WriteString(row)
			b.WriteByte('\n')
		}
		b.WriteString("```\n\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
