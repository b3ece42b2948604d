package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// defaultTimeout bounds a single model invocation. The original contract has
// no timeout; this is a sane default so a dead endpoint doesn't hang the
// session forever.
const defaultTimeout = 60 * time.Second

// OpenAIClient talks to an OpenAI-compatible chat completions endpoint. The
// same client works against the hosted API and local inference servers such
// as Ollama, which is the default target.
type OpenAIClient struct {
	model      string
	baseURL    string
	apiKey     string
	httpClient *http.Client
	messages   []Message
}

// NewOpenAIClient creates a client for the given model and endpoint. The
// apiKey may be a placeholder when the endpoint does not check credentials.
func NewOpenAIClient(model, baseURL, apiKey string) *OpenAIClient {
	return &OpenAIClient{
		model:      model,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

func (c *OpenAIClient) AddSystemPrompt(text string)    { c.append(RoleSystem, text) }
func (c *OpenAIClient) AddUserPrompt(text string)      { c.append(RoleUser, text) }
func (c *OpenAIClient) AddAssistantPrompt(text string) { c.append(RoleAssistant, text) }

func (c *OpenAIClient) append(role, content string) {
	c.messages = append(c.messages, Message{Role: role, Content: content})
}

type chatCompletionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func (r chatCompletionResponse) firstMessage() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return strings.TrimSpace(r.Choices[0].Message.Content)
}

// InvokeModel sends the full conversation to the endpoint and returns the
// raw content of the first choice.
func (c *OpenAIClient) InvokeModel(ctx context.Context) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model:    c.model,
		Messages: c.messages,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("model request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("model endpoint returned %s", resp.Status)
	}

	var decoded chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode model response: %w", err)
	}

	content := decoded.firstMessage()
	if content == "" {
		return "", fmt.Errorf("model returned an empty response")
	}

	return content, nil
}
