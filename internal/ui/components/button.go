package components

import (
	"github.com/abhisek/fgstudy/internal/ui/theme"
)

// Button draws a labelled action. Key handling stays with the owning
// screen; a disabled button is only drawn dimmed.
type Button struct {
	Label   string
	Enabled bool
}

// NewButton creates a button.
func NewButton(label string, enabled bool) Button {
	return Button{Label: label, Enabled: enabled}
}

// View renders the button.
func (b Button) View() string {
	if b.Enabled {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}
