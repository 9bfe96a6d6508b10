// Package explain produces student-friendly explanations of a topic.
package explain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/fgstudy/internal/llm"
	"github.com/abhisek/fgstudy/internal/validate"
)

// Explanation is Markdown text. Inline math is wrapped in $...$, block math
// in $$...$$, and code in fenced blocks tagged with a language.
type Explanation struct {
	Explanation string `json:"explanation"`
}

// ExplanationSchema defines the JSON schema for explain responses.
var ExplanationSchema = &llm.Schema{
	Name:        "topic-explanation",
	Description: "A clear explanation of a topic with examples, formatted in Markdown",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "A clear and simple explanation of the topic with examples, formatted in Markdown",
			},
		},
		"required":             []any{"explanation"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You are an expert tutor, skilled at explaining complex topics in simple terms.

Rules:
- Respond in the same language as the input topic.
- Explain the topic so that a student can easily understand it, and include examples.
- Format the response in Markdown with headings, bold key terms and lists for key ideas.
- Use LaTeX for equations: inline math in single dollar signs ($E=mc^2$), block math in double dollar signs ($$x = \frac{-b \pm \sqrt{b^2-4ac}}{2a}$$).
- Put code in triple-backtick blocks with the language named.`

// Service calls the provider to explain topics.
type Service struct {
	provider  llm.Provider
	maxTokens int
}

// NewService creates a Service. maxTokens <= 0 selects the default budget.
func NewService(provider llm.Provider, maxTokens int) *Service {
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &Service{provider: provider, maxTokens: maxTokens}
}

// Explain validates topic and returns its explanation.
func (s *Service) Explain(ctx context.Context, topic string) (*Explanation, error) {
	if err := validate.Topic(topic); err != nil {
		return nil, err
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeExplain)
	resp, err := s.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: "Topic: " + topic},
		},
		Schema:      ExplanationSchema,
		MaxTokens:   s.maxTokens,
		Temperature: 0.5,
	})
	if err != nil {
		return nil, fmt.Errorf("explain: %w", err)
	}

	var out Explanation
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("explain: parse response: %w", err)
	}
	if strings.TrimSpace(out.Explanation) == "" {
		return nil, fmt.Errorf("explain: empty explanation")
	}
	return &out, nil
}
