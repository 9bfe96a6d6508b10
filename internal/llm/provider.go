package llm

import (
	"context"
	"encoding/json"
)

// Provider is one LLM backend. The summarize, explain and quiz flows only
// see this interface.
type Provider interface {
	// Generate runs a single completion. With req.Schema set the provider
	// asks for native structured output and returns validated JSON.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the configured model identifier.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	System string

	// Messages holds a single user message for every FGStudy flow.
	Messages []Message

	// Schema, when nil, makes Response.Content the reply text encoded as
	// a JSON string.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema for structured output.
type Schema struct {
	Name        string // kebab-case, e.g. "quiz-questions"
	Description string
	Definition  map[string]any
}

// Response holds the LLM's output.
type Response struct {
	Content json.RawMessage
	Usage   Usage

	// Model is the model that served the request, which may differ from
	// the configured alias.
	Model string

	// StopReason indicates why generation stopped, normalized to one of
	// the Stop* constants.
	StopReason string
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
	StopError     = "error"
)

// Usage is token consumption for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
