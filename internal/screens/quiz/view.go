package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/fgstudy/internal/ui/components"
	"github.com/abhisek/fgstudy/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var body string
	switch s.phase {
	case phaseInput:
		body = s.renderInput(cw)
	case phaseGenerating:
		body = "\n\n  " + s.spinner.View()
	case phaseAnswering:
		body = s.renderAnswering(cw)
	case phaseGraded:
		body = s.renderGraded(cw)
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

func (s *QuizScreen) renderInput(cw int) string {
	s.text.SetWidth(cw - 4)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(cw).Render("Test your knowledge with a multiple-choice quiz."))
	b.WriteString("\n\n")
	b.WriteString(components.Panel(s.text.View(), cw))
	b.WriteString("\n")
	b.WriteString(components.Panel("Number of questions (5-40): "+s.count.View(), cw))
	b.WriteString("\n\n")
	if s.errMsg != "" {
		b.WriteString(theme.ErrorText.Render("  " + s.errMsg))
	}
	return b.String()
}

func (s *QuizScreen) renderAnswering(cw int) string {
	selections := s.session.Selections()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(s.renderNav(selections, false))
	b.WriteString("\n\n")
	b.WriteString(components.NewProgressBar("Answered", len(selections), len(s.questions), cw).View())
	b.WriteString("\n\n")
	b.WriteString(components.Panel(s.renderCurrent(), cw))
	b.WriteString("\n\n")

	check := components.NewButton("Check answers (c)", s.session.AllAnswered())
	b.WriteString(check.View())
	b.WriteString("\n")
	b.WriteString(s.renderStatus())
	return b.String()
}

func (s *QuizScreen) renderGraded(cw int) string {
	selections := s.session.Selections()
	score := s.session.Score()

	result := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Quiz results") + "\n\n" +
		theme.Body.Render(fmt.Sprintf("Your score: %d out of %d", score, len(s.questions))) + "\n" +
		theme.Body.Render("Time taken: "+s.session.TimeTaken())

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(components.Panel(result, cw))
	b.WriteString("\n\n")
	b.WriteString(s.renderNav(selections, true))
	b.WriteString("\n\n")
	b.WriteString(components.Panel(s.renderCurrent(), cw))
	b.WriteString("\n")
	b.WriteString(s.renderStatus())
	return b.String()
}

func (s *QuizScreen) renderCurrent() string {
	if len(s.choices) == 0 {
		return ""
	}
	header := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("Question %d of %d", s.current+1, len(s.choices)))
	return header + "\n\n" + s.choices[s.current].View()
}

// renderNav draws one dot per question. Before grading a filled dot means
// answered; after grading dots are colored by correctness.
func (s *QuizScreen) renderNav(selections map[int]string, graded bool) string {
	parts := make([]string, len(s.questions))
	for i, q := range s.questions {
		sel, answered := selections[i]
		dot := "○"
		if answered {
			dot = "●"
		}

		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		switch {
		case graded && answered && sel == q.CorrectAnswer:
			style = style.Foreground(theme.Success)
		case graded:
			style = style.Foreground(theme.Error)
		case answered:
			style = style.Foreground(theme.Secondary)
		}
		if i == s.current {
			style = style.Bold(true).Underline(true)
		}
		parts[i] = style.Render(dot)
	}
	return strings.Join(parts, " ")
}

func (s *QuizScreen) renderStatus() string {
	switch {
	case s.errMsg != "":
		return theme.ErrorText.Render("  " + s.errMsg)
	case s.notice != "":
		return theme.Hint.Render("  " + s.notice)
	}
	return ""
}
