package llm

import (
	"context"
	"fmt"
)

// Message roles as used by chat-style model endpoints.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged entry in the conversation log.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client represents a language model backend. It accumulates an ordered,
// append-only conversation log and can be invoked to produce the next
// assistant reply. The backend endpoint is stateless, so implementations
// resend the full log on every invocation.
type Client interface {
	// AddSystemPrompt appends a system message. Called exactly once, before
	// any other message.
	AddSystemPrompt(text string)

	// AddUserPrompt appends a user message.
	AddUserPrompt(text string)

	// AddAssistantPrompt appends an assistant message, preserving the reply
	// as context for later turns.
	AddAssistantPrompt(text string)

	// InvokeModel sends the accumulated conversation to the backend and
	// returns the raw text of the model's reply. Transport failures are
	// returned to the caller; there is no retry.
	InvokeModel(ctx context.Context) (string, error)
}

// New creates a Client for the named backend. "openai" (any
// OpenAI-compatible chat completions endpoint) is the only backend today.
func New(backend, model, baseURL, apiKey string) (Client, error) {
	switch backend {
	case "openai":
		return NewOpenAIClient(model, baseURL, apiKey), nil
	default:
		return nil, fmt.Errorf("unsupported LLM backend %q", backend)
	}
}
