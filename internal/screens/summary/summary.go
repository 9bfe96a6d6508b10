package summary

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fgstudy/internal/screen"
	"github.com/abhisek/fgstudy/internal/summarize"
	"github.com/abhisek/fgstudy/internal/ui/components"
	"github.com/abhisek/fgstudy/internal/ui/layout"
	"github.com/abhisek/fgstudy/internal/ui/theme"
	"github.com/abhisek/fgstudy/internal/validate"
)

// Summarizer turns lecture notes into a summary.
type Summarizer interface {
	Summarize(ctx context.Context, notes string) (*summarize.Summary, error)
}

type summaryReadyMsg struct {
	Summary *summarize.Summary
	Err     error
}

// SummaryScreen collects notes and shows their summary.
type SummaryScreen struct {
	svc     Summarizer
	input   components.TextArea
	spinner components.Spinner
	loading bool
	result  string
	errMsg  string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(svc Summarizer) *SummaryScreen {
	return &SummaryScreen{
		svc:     svc,
		input:   components.NewTextArea("Paste your lecture notes here...", validate.MinNotesLen, 76, 8),
		spinner: components.Spinner{Label: "Summarizing your notes..."},
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *SummaryScreen) Title() string {
	return "Summarize"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Ctrl+S", Description: "Summarize"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryReadyMsg:
		s.loading = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.result = msg.Summary.Summary
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
		if msg.String() == "ctrl+s" {
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *SummaryScreen) submit() tea.Cmd {
	notes := s.input.Value()
	if err := validate.Notes(notes); err != nil {
		s.errMsg = err.Error()
		return nil
	}

	s.loading = true
	s.errMsg = ""
	s.result = ""
	svc := s.svc
	return tea.Batch(components.SpinnerTick(), func() tea.Msg {
		sum, err := svc.Summarize(context.Background(), notes)
		return summaryReadyMsg{Summary: sum, Err: err}
	})
}

func (s *SummaryScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	s.input.SetWidth(cw - 4)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(cw).Render("Get a concise bullet-point summary of your notes."))
	b.WriteString("\n\n")
	b.WriteString(components.Panel(s.input.View(), cw))
	b.WriteString("\n\n")

	switch {
	case s.loading:
		b.WriteString("  " + s.spinner.View())
	case s.errMsg != "":
		b.WriteString(theme.ErrorText.Render("  " + s.errMsg))
	case s.result != "":
		heading := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Summary")
		b.WriteString(components.Panel(heading+"\n\n"+theme.Body.Render(s.result), cw))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}
