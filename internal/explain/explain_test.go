package explain

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/abhisek/fgstudy/internal/llm"
	"github.com/abhisek/fgstudy/internal/validate"
)

func TestExplain(t *testing.T) {
	body := "# Quadratic formula\n\n$$x = \\frac{-b \\pm \\sqrt{b^2-4ac}}{2a}$$"
	content, _ := json.Marshal(Explanation{Explanation: body})
	mock := llm.NewMockProvider(llm.MockResponse{Content: content})

	got, err := NewService(mock, 0).Explain(context.Background(), "quadratic equations")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Explanation != body {
		t.Fatalf("explanation not passed through verbatim: %q", got.Explanation)
	}
	req := mock.Calls[0]
	if req.Messages[0].Content != "Topic: quadratic equations" {
		t.Errorf("unexpected user message %q", req.Messages[0].Content)
	}
	if req.MaxTokens != 4096 {
		t.Errorf("MaxTokens = %d, want 4096", req.MaxTokens)
	}
	if req.Schema != ExplanationSchema {
		t.Error("expected ExplanationSchema")
	}
}

func TestExplain_TopicFloor(t *testing.T) {
	tests := []struct {
		topic   string
		wantErr bool
	}{
		{"", true},
		{"DN", true},
		{"DNA", false},
		{"日本語", false}, // three runes
	}
	for _, tt := range tests {
		mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"explanation":"ok"}`)})
		_, err := NewService(mock, 0).Explain(context.Background(), tt.topic)
		var verr *validate.Error
		if got := errors.As(err, &verr); got != tt.wantErr {
			t.Errorf("Explain(%q) validation error = %v, want %v (err=%v)", tt.topic, got, tt.wantErr, err)
		}
		if tt.wantErr && mock.CallCount() != 0 {
			t.Errorf("Explain(%q) called the provider", tt.topic)
		}
	}
}

func TestExplain_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrMaxTokensExceeded{}})
	_, err := NewService(mock, 0).Explain(context.Background(), "entropy")
	var maxTok *llm.ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected wrapped ErrMaxTokensExceeded, got %v", err)
	}
}
