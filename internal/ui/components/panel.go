package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vitals/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for stacked sections.
func ContentWidth(frameWidth int) int {
	// Leave room for frame border (2) + inner padding (4)
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Frame wraps content in a rounded border, centered within width x height.
func Frame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card wraps left-aligned content in a bordered card at content width cw.
func Card(content string, cw int) string {
	return theme.Card.
		Width(cw - 2).
		Render(content)
}

// Centered renders a single line centered across width.
func Centered(s string, style lipgloss.Style, width int) string {
	return style.Width(width).Align(lipgloss.Center).Render(s)
}
