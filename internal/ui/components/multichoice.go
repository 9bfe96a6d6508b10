package components

import (
	"fmt"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fgstudy/internal/quiz"
	"github.com/abhisek/fgstudy/internal/ui/theme"
)

// MultiChoice renders one quiz question and lets the user pick an option.
// Once Marks are set the choice is locked and the options are colored by
// their grading mark.
type MultiChoice struct {
	Question string
	Options  []string
	Cursor   int
	Chosen   int
	Marks    []quiz.Mark
}

// NewMultiChoice creates a multiple-choice component with nothing chosen.
func NewMultiChoice(question string, options []string) MultiChoice {
	return MultiChoice{
		Question: question,
		Options:  options,
		Chosen:   -1,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Locked reports whether grading marks are shown.
func (m MultiChoice) Locked() bool {
	for _, mk := range m.Marks {
		if mk != quiz.MarkNone {
			return true
		}
	}
	return false
}

func (m MultiChoice) markAt(i int) quiz.Mark {
	if i < len(m.Marks) {
		return m.Marks[i]
	}
	return quiz.MarkNone
}

// Update moves the cursor and records a choice on enter, space or a digit.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Locked() {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case "enter", "space", " ":
		m.Chosen = m.Cursor
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.Options) {
			m.Cursor = n - 1
			m.Chosen = n - 1
		}
	}

	return m, nil
}

// ChosenOption returns the chosen option text.
func (m MultiChoice) ChosenOption() (string, bool) {
	if m.Chosen < 0 || m.Chosen >= len(m.Options) {
		return "", false
	}
	return m.Options[m.Chosen], true
}

// SetChosen marks option as chosen. Unknown options clear the choice.
func (m *MultiChoice) SetChosen(option string) {
	m.Chosen = -1
	for i, o := range m.Options {
		if o == option {
			m.Chosen = i
			m.Cursor = i
			return
		}
	}
}

// OptionLabel returns the display label for option i: A, B, C and so on.
func OptionLabel(i int) string {
	if i >= 0 && i < 26 {
		return string(rune('A' + i))
	}
	return strconv.Itoa(i + 1)
}

// View renders the question and its options.
func (m MultiChoice) View() string {
	s := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Question) + "\n\n"

	locked := m.Locked()
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor && !locked {
			prefix = "▸ "
		}
		bullet := "○"
		if i == m.Chosen {
			bullet = "●"
		}

		line := fmt.Sprintf("%s%s %s)  %s", prefix, bullet, OptionLabel(i), opt)

		var style lipgloss.Style
		switch {
		case locked && m.markAt(i) == quiz.MarkCorrect:
			style = theme.Correct
		case locked && m.markAt(i) == quiz.MarkWrong:
			style = theme.Incorrect
		case locked:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		s += style.Render(line) + "\n"
	}

	return s
}
