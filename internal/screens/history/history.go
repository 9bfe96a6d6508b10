package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fgstudy/internal/quiz"
	"github.com/abhisek/fgstudy/internal/screen"
	"github.com/abhisek/fgstudy/internal/store"
	"github.com/abhisek/fgstudy/internal/ui/layout"
	"github.com/abhisek/fgstudy/internal/ui/theme"
)

const pageSize = 50

// Events is the slice of the event log the history screen reads.
type Events interface {
	QueryQuizEvents(ctx context.Context, opts store.QueryOpts) ([]store.QuizEventRecord, error)
	QuizStats(ctx context.Context) (store.QuizStats, error)
}

type historyLoadedMsg struct {
	Events []store.QuizEventRecord
	Stats  store.QuizStats
	Err    error
}

// HistoryScreen lists recent quiz attempts with aggregate stats.
type HistoryScreen struct {
	events   Events
	records  []store.QuizEventRecord
	stats    store.QuizStats
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(events Events) *HistoryScreen {
	return &HistoryScreen{events: events}
}

func (s *HistoryScreen) Init() tea.Cmd {
	events := s.events
	return func() tea.Msg {
		ctx := context.Background()

		records, err := events.QueryQuizEvents(ctx, store.QueryOpts{Limit: pageSize})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		stats, err := events.QuizStats(ctx)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		return historyLoadedMsg{Events: records, Stats: stats}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.records = msg.Events
			s.stats = msg.Stats
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.records)-1 {
				s.selected++
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	if s.errMsg != "" {
		return center(lipgloss.NewStyle().Foreground(theme.Error), "\n\nError: "+s.errMsg)
	}
	if !s.loaded {
		return center(lipgloss.NewStyle().Foreground(theme.TextDim), "\n\n  Loading history...")
	}
	if len(s.records) == 0 {
		return center(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true),
			"\n\n  No quizzes yet. Generate one from the Quiz tab!")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true), statsLine(s.stats)))
	b.WriteString("\n\n")

	// Keep the selection visible when the list is taller than the screen.
	rows := height - 4
	start := 0
	if rows > 0 && s.selected >= rows {
		start = s.selected - rows + 1
	}

	for i := start; i < len(s.records); i++ {
		if rows > 0 && i-start >= rows {
			break
		}
		rec := s.records[i]

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		style := lipgloss.NewStyle().Foreground(actionColor(rec.Action))
		if i == s.selected {
			style = style.Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(prefix+eventLine(rec))))
		b.WriteString("\n")
	}

	return b.String()
}

func statsLine(st store.QuizStats) string {
	return fmt.Sprintf("%d generated  %d graded  %.0f%% accuracy  avg %s",
		st.Generated, st.Graded, st.Accuracy()*100, quiz.FormatElapsed(st.AvgElapsedSecs))
}

func eventLine(rec store.QuizEventRecord) string {
	when := rec.Timestamp.Local().Format("Jan 02 15:04")
	short := rec.SessionID
	if len(short) > 8 {
		short = short[:8]
	}

	switch quiz.Action(rec.Action) {
	case quiz.ActionGraded:
		return fmt.Sprintf("%s  %s  graded     %d/%d  in %s",
			when, short, rec.Score, rec.QuestionCount, quiz.FormatElapsed(rec.ElapsedSecs))
	default:
		return fmt.Sprintf("%s  %s  %-9s  %d questions", when, short, rec.Action, rec.QuestionCount)
	}
}

func actionColor(action string) color.Color {
	switch quiz.Action(action) {
	case quiz.ActionGraded:
		return theme.Success
	case quiz.ActionRetaken:
		return theme.Accent
	default:
		return theme.Text
	}
}
