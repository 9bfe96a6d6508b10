package quizgen

import "github.com/abhisek/fgstudy/internal/llm"

// QuizSchema defines the JSON schema for quiz generation responses.
var QuizSchema = &llm.Schema{
	Name:        "quiz-questions",
	Description: "A multiple-choice quiz generated from study notes or a topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":        "array",
				"minItems":    1,
				"description": "The generated multiple-choice questions",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The multiple-choice question",
						},
						"options": map[string]any{
							"type":        "array",
							"minItems":    2,
							"items":       map[string]any{"type": "string"},
							"description": "The possible answers, usually four",
						},
						"correctAnswer": map[string]any{
							"type":        "string",
							"description": "The exact text of the correct option",
						},
					},
					"required":             []any{"question", "options", "correctAnswer"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
