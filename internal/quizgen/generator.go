// Package quizgen generates multiple-choice quizzes with an LLM provider.
package quizgen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/fgstudy/internal/llm"
	"github.com/abhisek/fgstudy/internal/quiz"
)

// Generator implements quiz.QuestionSource using the LLM provider.
type Generator struct {
	provider llm.Provider
	config   Config
}

var _ quiz.QuestionSource = (*Generator)(nil)

// New creates a new Generator with the given provider and config.
func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, config: cfg}
}

// quizOutput is the raw LLM response.
type quizOutput struct {
	Questions []quiz.Question `json:"questions"`
}

// Questions asks the provider for count questions about text and decodes the
// reply. The length of the returned set is whatever the model produced, and
// structural checks are left to the session installing it.
func (g *Generator) Questions(ctx context.Context, text string, count int) ([]quiz.Question, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuizGen)

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(text, count)},
		},
		Schema:      QuizSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw quizOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	return raw.Questions, nil
}
