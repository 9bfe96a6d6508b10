// Package summarize condenses lecture notes into bullet points.
package summarize

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/fgstudy/internal/llm"
	"github.com/abhisek/fgstudy/internal/validate"
)

// Summary is the result of a summarize call.
type Summary struct {
	Summary string `json:"summary"`
}

// SummarySchema defines the JSON schema for summarize responses.
var SummarySchema = &llm.Schema{
	Name:        "note-summary",
	Description: "A bullet-point summary of lecture notes",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "The summarized notes in bullet points",
			},
		},
		"required":             []any{"summary"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You are an expert academic summarizer for students. Summarize the provided text professionally and diligently.

Rules:
- Keep all the main ideas and important supporting details so the student can revise from the summary alone.
- Do not over-simplify the content.
- Structure the output as a list of bullet points.
- Respond in the same language as the input notes.`

// Service calls the provider to summarize notes.
type Service struct {
	provider  llm.Provider
	maxTokens int
}

// NewService creates a Service. maxTokens <= 0 selects the default budget.
func NewService(provider llm.Provider, maxTokens int) *Service {
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	return &Service{provider: provider, maxTokens: maxTokens}
}

// Summarize validates notes and returns their summary. Notes shorter than
// validate.MinNotesLen yield a *validate.Error before any provider call.
func (s *Service) Summarize(ctx context.Context, notes string) (*Summary, error) {
	if err := validate.Notes(notes); err != nil {
		return nil, err
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeSummarize)
	resp, err := s.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: "Notes: " + notes},
		},
		Schema:      SummarySchema,
		MaxTokens:   s.maxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	var out Summary
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("summarize: parse response: %w", err)
	}
	if strings.TrimSpace(out.Summary) == "" {
		return nil, fmt.Errorf("summarize: empty summary")
	}
	return &out, nil
}
