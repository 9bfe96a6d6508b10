package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	qz "github.com/abhisek/fgstudy/internal/quiz"
	"github.com/abhisek/fgstudy/internal/router"
	"github.com/abhisek/fgstudy/internal/screen"
	"github.com/abhisek/fgstudy/internal/screens/explain"
	"github.com/abhisek/fgstudy/internal/screens/history"
	"github.com/abhisek/fgstudy/internal/screens/placeholder"
	quizscreen "github.com/abhisek/fgstudy/internal/screens/quiz"
	"github.com/abhisek/fgstudy/internal/screens/summary"
	"github.com/abhisek/fgstudy/internal/store"
	"github.com/abhisek/fgstudy/internal/ui/components"
	"github.com/abhisek/fgstudy/internal/ui/theme"
)

// Services are the backends the home menu hands to its screens. Nil
// services open a placeholder instead.
type Services struct {
	Summarizer       summary.Summarizer
	Explainer        explain.Explainer
	Source           qz.QuestionSource
	Observer         qz.Observer
	Events           history.Events
	DefaultQuestions int
}

type statsLoadedMsg struct {
	Stats store.QuizStats
	Err   error
}

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	svc   Services
	menu  components.Menu
	stats *store.QuizStats
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(svc Services) *HomeScreen {
	push := func(title string, available bool, build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg {
				if !available {
					return router.PushScreenMsg{Screen: placeholder.New(title, "Configure an LLM provider or database to use this.")}
				}
				return router.PushScreenMsg{Screen: build()}
			}
		}
	}

	items := []components.MenuItem{
		{Label: "SUMMARIZE", Description: "bullet points from your notes",
			Action: push("Summarize", svc.Summarizer != nil, func() screen.Screen {
				return summary.New(svc.Summarizer)
			})},
		{Label: "EXPLAIN", Description: "a topic with examples",
			Action: push("Explain", svc.Explainer != nil, func() screen.Screen {
				return explain.New(svc.Explainer)
			})},
		{Label: "QUIZ", Description: "test yourself",
			Action: push("Quiz", svc.Source != nil, func() screen.Screen {
				var opts []qz.Option
				if svc.Observer != nil {
					opts = append(opts, qz.WithObserver(svc.Observer))
				}
				return quizscreen.New(svc.Source, svc.DefaultQuestions, opts...)
			})},
		{Label: "HISTORY", Description: "past quiz attempts",
			Action: push("History", svc.Events != nil, func() screen.Screen {
				return history.New(svc.Events)
			})},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		svc:  svc,
		menu: components.NewMenu(items),
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	if h.svc.Events == nil {
		return nil
	}
	events := h.svc.Events
	return func() tea.Msg {
		st, err := events.QuizStats(context.Background())
		return statsLoadedMsg{Stats: st, Err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(statsLoadedMsg); ok {
		if msg.Err == nil {
			h.stats = &msg.Stats
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if cw > 60 {
		cw = 60
	}

	var sections []string
	sections = append(sections, theme.Title.Width(cw).Render("F G S T U D Y"))
	sections = append(sections, theme.Subtitle.Width(cw).Render("Summarize notes, explain topics and quiz yourself."))

	if h.stats != nil && h.stats.Generated > 0 {
		line := fmt.Sprintf("%d quizzes taken  •  %.0f%% accuracy", h.stats.Graded, h.stats.Accuracy()*100)
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Accent).Width(cw).
			Align(lipgloss.Center).Render(line))
	}

	sections = append(sections, components.Panel(h.menu.View(), cw))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n\n"))
}

func (h *HomeScreen) Title() string {
	return "Home"
}
