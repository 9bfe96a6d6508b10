package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fgstudy/internal/ui/theme"
)

// ContentWidth returns the inner width used for screen panels so that
// stacked boxes line up.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 96 {
		w = 96
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Panel wraps content in a rounded-border card of content width cw.
func Panel(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(0, 1).
		Render(content)
}
