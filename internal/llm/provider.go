// Package llm talks to hosted language models. Every provider returns JSON
// that has already been checked against the request's schema, and every call
// made through NewProvider is retried and recorded in the event store.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one structured completion per call.
type Provider interface {
	// Generate sends req and returns the model output. When req.Schema is
	// set the provider asks for native structured output and validates the
	// result before returning it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the resolved model identifier.
	ModelID() string
}

// Request describes one completion call.
type Request struct {
	System string

	// Messages is usually a single user message carrying the assessment
	// result to interpret.
	Messages []Message

	// Schema constrains the response. When nil, Content is the raw text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default in place.
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema document. Name doubles as the cache key for
// the compiled validator, so two schemas must never share a name.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response holds validated model output.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
