// Package llm abstracts the text generation providers behind a single
// request/response interface with optional structured JSON output.
package llm

import (
	"context"
)

// Provider generates content from a prompt.
type Provider interface {
	// Generate runs a single completion. When Request.Schema is set the
	// provider constrains the output to JSON matching the schema.
	Generate(ctx context.Context, req Request) (*Response, error)
	// Name identifies the provider and model, e.g. "gemini:gemini-2.0-flash".
	Name() string
}

// Request is a single generation request.
type Request struct {
	// System is an optional system instruction.
	System string
	// Prompt is the fully assembled user prompt.
	Prompt string
	// Schema, when non-nil, requests structured JSON output.
	Schema *Schema
	// MaxOutputTokens caps the response size. Zero means provider default.
	MaxOutputTokens int
}

// Schema is the subset of JSON Schema the providers support for
// structured output.
type Schema struct {
	Type       string             `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
}

// Schema types.
const (
	TypeObject = "object"
	TypeArray  = "array"
	TypeString = "string"
)

// Usage reports token consumption for a single request.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Response is the provider's answer.
type Response struct {
	Text  string
	Usage Usage
}
