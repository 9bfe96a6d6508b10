package home

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	qz "github.com/abhisek/fgstudy/internal/quiz"
	"github.com/abhisek/fgstudy/internal/router"
	"github.com/abhisek/fgstudy/internal/screens/placeholder"
	quizscreen "github.com/abhisek/fgstudy/internal/screens/quiz"
	"github.com/abhisek/fgstudy/internal/store"
)

type statsOnly struct {
	stats store.QuizStats
}

func (s statsOnly) QueryQuizEvents(context.Context, store.QueryOpts) ([]store.QuizEventRecord, error) {
	return nil, nil
}

func (s statsOnly) QuizStats(context.Context) (store.QuizStats, error) {
	return s.stats, nil
}

func down() tea.KeyPressMsg  { return tea.KeyPressMsg{Code: tea.KeyDown} }
func enter() tea.KeyPressMsg { return tea.KeyPressMsg{Code: tea.KeyEnter} }

func pushed(t *testing.T, cmd tea.Cmd) router.PushScreenMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	return msg
}

func TestHomeScreen_QuizOpensQuizScreen(t *testing.T) {
	src := qz.QuestionSourceFunc(func(context.Context, string, int) ([]qz.Question, error) {
		return nil, nil
	})
	h := New(Services{Source: src})

	h.Update(down())
	h.Update(down())
	_, cmd := h.Update(enter())

	msg := pushed(t, cmd)
	if _, ok := msg.Screen.(*quizscreen.QuizScreen); !ok {
		t.Errorf("pushed %T, want *quiz.QuizScreen", msg.Screen)
	}
}

func TestHomeScreen_MissingServiceOpensPlaceholder(t *testing.T) {
	h := New(Services{})

	_, cmd := h.Update(enter())

	msg := pushed(t, cmd)
	if _, ok := msg.Screen.(*placeholder.PlaceholderScreen); !ok {
		t.Errorf("pushed %T, want placeholder", msg.Screen)
	}
}

func TestHomeScreen_Stats(t *testing.T) {
	h := New(Services{Events: statsOnly{stats: store.QuizStats{
		Generated: 4, Graded: 2, QuestionsTotal: 10, CorrectTotal: 7,
	}}})

	h.Update(h.Init()())

	if !strings.Contains(h.View(100, 30), "2 quizzes taken") {
		t.Error("expected stats line in view")
	}
}

func TestHomeScreen_NoEventsNoInit(t *testing.T) {
	if New(Services{}).Init() != nil {
		t.Error("expected no init command without events")
	}
}
