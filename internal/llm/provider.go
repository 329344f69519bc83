package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var errEmptyContent = errors.New("empty response content")

// Provider is the boundary to a generative text service.
// Implementations only transport: they never interpret or validate the
// returned text, so callers must treat Content as untrusted.
type Provider interface {
	// Generate sends a prompt and returns the model's raw output. A non-nil
	// Schema asks the vendor for structured output using its native
	// mechanism.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation. Topic generation and explanation
	// evaluation send one user message; chat sends the same.
	Messages []Message

	// Schema is the JSON Schema the response is expected to follow.
	// When nil the response is free text.
	Schema *Schema

	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
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

// UserPrompt builds a single-turn request.
func UserPrompt(system, prompt string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: prompt}},
	}
}

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema (tool name for Anthropic, schema name for
	// OpenAI, fixture key offline). Kebab-case, e.g. "topic".
	Name string

	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the raw generated text. It may be a JSON object, a JSON
	// string, fenced markdown or prose.
	Content json.RawMessage

	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is normalized to one of the stop* constants.
	StopReason string
}

// Normalized stop reasons.
const (
	stopEnd       = "end"
	stopMaxTokens = "max_tokens"
	stopRefused   = "refused"
)

// Text returns the content as a string.
func (r *Response) Text() string {
	return string(r.Content)
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names pass through so full IDs work too.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}

// finish turns a vendor answer into the caller's result. Refusals are
// errors whatever the content. Structured output cut off at the token limit
// is rejected; free text that ran long is still returned.
func finish(req Request, resp *Response, refusal string) (*Response, error) {
	switch {
	case resp.StopReason == stopRefused:
		return nil, &ErrRefused{Reason: refusal}
	case req.Schema != nil && resp.StopReason == stopMaxTokens:
		return nil, &ErrMaxTokensExceeded{Content: resp.Content}
	case len(resp.Content) == 0:
		return nil, &ErrInvalidResponse{Err: errEmptyContent}
	}
	return resp, nil
}

// mapHTTPStatus classifies a vendor API error by status code.
func mapHTTPStatus(status int, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &ErrRateLimit{Err: err}
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return &ErrProviderUnavailable{Err: fmt.Errorf("credentials rejected: %w", err)}
	}
	return &ErrProviderUnavailable{Err: err}
}

func maxTokensOr(n, def int) int {
	if n > 0 {
		return n
	}
	return def
}
