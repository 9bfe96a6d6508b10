package explain

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	expl "github.com/abhisek/fgstudy/internal/explain"
	"github.com/abhisek/fgstudy/internal/screen"
	"github.com/abhisek/fgstudy/internal/ui/components"
	"github.com/abhisek/fgstudy/internal/ui/layout"
	"github.com/abhisek/fgstudy/internal/ui/theme"
	"github.com/abhisek/fgstudy/internal/validate"
)

// Explainer explains a topic.
type Explainer interface {
	Explain(ctx context.Context, topic string) (*expl.Explanation, error)
}

type explanationReadyMsg struct {
	Explanation *expl.Explanation
	Err         error
}

// ExplainScreen asks for a topic and shows its explanation. Markdown and
// LaTeX are shown as written.
type ExplainScreen struct {
	svc     Explainer
	input   components.TextInput
	spinner components.Spinner
	loading bool
	result  string
	errMsg  string
	scroll  int
}

var _ screen.Screen = (*ExplainScreen)(nil)
var _ screen.KeyHintProvider = (*ExplainScreen)(nil)

// New creates a new ExplainScreen.
func New(svc Explainer) *ExplainScreen {
	return &ExplainScreen{
		svc:     svc,
		input:   components.NewTextInput("e.g. Pythagorean theorem", false, 200),
		spinner: components.Spinner{Label: "Explaining..."},
	}
}

func (s *ExplainScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *ExplainScreen) Title() string {
	return "Explain"
}

func (s *ExplainScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Explain"},
		{Key: "PgUp/PgDn", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ExplainScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case explanationReadyMsg:
		s.loading = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.result = msg.Explanation.Explanation
		s.scroll = 0
		return s, nil

	case components.SpinnerTickMsg:
		if !s.loading {
			return s, nil
		}
		s.spinner.Advance()
		return s, components.SpinnerTick()

	case tea.KeyMsg:
		if s.loading {
			return s, nil
		}
		switch msg.String() {
		case "enter":
			return s, s.submit()
		case "pgdown":
			s.scroll += 5
			return s, nil
		case "pgup":
			s.scroll -= 5
			if s.scroll < 0 {
				s.scroll = 0
			}
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ExplainScreen) submit() tea.Cmd {
	topic := s.input.Value()
	if err := validate.Topic(topic); err != nil {
		s.errMsg = err.Error()
		s.input.Submit(false)
		return nil
	}

	s.loading = true
	s.errMsg = ""
	s.result = ""
	svc := s.svc
	return tea.Batch(components.SpinnerTick(), func() tea.Msg {
		e, err := svc.Explain(context.Background(), topic)
		return explanationReadyMsg{Explanation: e, Err: err}
	})
}

func (s *ExplainScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(cw).Render("Get a detailed explanation of any topic, with examples."))
	b.WriteString("\n\n")
	b.WriteString(components.Panel("Topic: "+s.input.View(), cw))
	b.WriteString("\n\n")

	switch {
	case s.loading:
		b.WriteString("  " + s.spinner.View())
	case s.errMsg != "":
		b.WriteString(theme.ErrorText.Render("  " + s.errMsg))
	case s.result != "":
		heading := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Explanation")
		body := lipgloss.NewStyle().Width(cw - 4).Foreground(theme.Text).Render(s.result)
		// Leave room for the intro, the topic panel and the result border.
		body = visibleLines(body, s.scroll, height-12)
		b.WriteString(components.Panel(heading+"\n\n"+body, cw))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

// visibleLines returns at most n lines of text starting at line offset.
func visibleLines(text string, offset, n int) string {
	lines := strings.Split(text, "\n")
	if offset > len(lines)-1 {
		offset = len(lines) - 1
	}
	if offset < 0 {
		offset = 0
	}
	end := len(lines)
	if n > 0 && offset+n < end {
		end = offset + n
	}
	return strings.Join(lines[offset:end], "\n")
}
