package explain

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	expl "github.com/abhisek/fgstudy/internal/explain"
)

type fakeExplainer struct {
	topics []string
}

func (f *fakeExplainer) Explain(_ context.Context, topic string) (*expl.Explanation, error) {
	f.topics = append(f.topics, topic)
	return &expl.Explanation{Explanation: "## Pythagoras\n\n$a^2 + b^2 = c^2$"}, nil
}

func enter() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: tea.KeyEnter}
}

func TestExplainScreen_ShortTopicRejected(t *testing.T) {
	svc := &fakeExplainer{}
	s := New(svc)
	s.input.SetValue("ab")

	_, cmd := s.Update(enter())
	if cmd != nil {
		t.Error("expected no command for a short topic")
	}
	if !strings.Contains(s.errMsg, "topic") {
		t.Errorf("errMsg = %q, want a topic validation error", s.errMsg)
	}
	if len(svc.topics) != 0 {
		t.Error("explainer should not be called")
	}
}

func TestExplainScreen_Submit(t *testing.T) {
	svc := &fakeExplainer{}
	s := New(svc)
	s.input.SetValue("Pythagorean theorem")

	_, cmd := s.Update(enter())
	if cmd == nil {
		t.Fatal("expected a command on submit")
	}

	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatalf("expected a batch, got %T", cmd())
	}
	for _, c := range batch {
		s.Update(c())
	}

	if s.loading {
		t.Error("expected loading to end")
	}
	if len(svc.topics) != 1 || svc.topics[0] != "Pythagorean theorem" {
		t.Errorf("topics = %v", svc.topics)
	}
	if !strings.Contains(s.View(100, 40), "$a^2 + b^2 = c^2$") {
		t.Error("expected LaTeX passed through in view")
	}
}

func TestVisibleLines(t *testing.T) {
	text := "a\nb\nc\nd"
	tests := []struct {
		offset, n int
		want      string
	}{
		{0, 2, "a\nb"},
		{1, 2, "b\nc"},
		{3, 5, "d"},
		{9, 2, "d"},
		{-1, 0, text},
	}
	for _, tt := range tests {
		if got := visibleLines(text, tt.offset, tt.n); got != tt.want {
			t.Errorf("visibleLines(%d, %d) = %q, want %q", tt.offset, tt.n, got, tt.want)
		}
	}
}
