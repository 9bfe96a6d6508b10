package components

import (
	"strconv"
	"unicode/utf8"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fgstudy/internal/ui/theme"
)

// TextArea wraps bubbles/textarea for multi-line notes with a live
// character counter against a minimum length.
type TextArea struct {
	Model  textarea.Model
	MinLen int
}

// NewTextArea creates a focused text area.
func NewTextArea(placeholder string, minLen, width, height int) TextArea {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(width)
	ta.SetHeight(height)
	ta.Focus()

	return TextArea{Model: ta, MinLen: minLen}
}

// Init returns the initial command.
func (t TextArea) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextArea) Update(msg tea.Msg) (TextArea, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// Value returns the current text.
func (t TextArea) Value() string {
	return t.Model.Value()
}

// SetValue replaces the text.
func (t *TextArea) SetValue(v string) {
	t.Model.SetValue(v)
}

// SetWidth resizes the area.
func (t *TextArea) SetWidth(w int) {
	t.Model.SetWidth(w)
}

// Focus focuses the area.
func (t *TextArea) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes focus from the area.
func (t *TextArea) Blur() {
	t.Model.Blur()
}

// Long reports whether the text meets MinLen characters.
func (t TextArea) Long() bool {
	return utf8.RuneCountInString(t.Model.Value()) >= t.MinLen
}

// View renders the area and its counter.
func (t TextArea) View() string {
	n := utf8.RuneCountInString(t.Model.Value())
	style := lipgloss.NewStyle().Foreground(theme.TextDim)
	if t.MinLen > 0 && n < t.MinLen {
		style = style.Foreground(theme.Accent)
	}
	counter := style.Render(counterText(n, t.MinLen))
	return t.Model.View() + "\n" + counter
}

func counterText(n, min int) string {
	if min <= 0 {
		return strconv.Itoa(n) + " characters"
	}
	return strconv.Itoa(n) + " / " + strconv.Itoa(min) + " characters minimum"
}
