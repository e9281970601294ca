package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction for text generation.
type Provider interface {
	// Generate sends a prompt and returns the model output. When the
	// request carries a Schema, Content is JSON validated against it.
	// Otherwise Content holds the raw text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// ImageGenerator produces images from a text prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (*Image, error)
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, asks the provider for JSON conforming to it.
	Schema *Schema

	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64

	// ThinkingBudget caps reasoning tokens on models that support it.
	// Zero leaves the provider default. Ignored by providers without a
	// thinking control.
	ThinkingBudget int
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

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema, e.g. "term-definition". It doubles as
	// the OpenAI schema name and the validation cache key.
	Name        string
	Description string
	Definition  map[string]any
}

// Response holds the model output.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is normalized to "end", "max_tokens", "blocked" or "error".
	StopReason string
}

// Text returns the response as plain text. A JSON string literal is
// unquoted; anything else is returned verbatim.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	if len(r.Content) > 0 && r.Content[0] == '"' {
		var s string
		if err := json.Unmarshal(r.Content, &s); err == nil {
			return s
		}
	}
	return string(r.Content)
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// ImageRequest asks for a single generated image.
type ImageRequest struct {
	Prompt string
	// AspectRatio such as "16:9".
	AspectRatio string
}

// Image is generated image data.
type Image struct {
	Data     []byte
	MIMEType string
	Model    string
	Usage    Usage
}
