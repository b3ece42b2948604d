package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func chatHandler(t *testing.T, requests *[]chatCompletionRequest, content string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("request path = %q, want /v1/chat/completions", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization header = %q, want Bearer test-key", got)
		}

		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		*requests = append(*requests, req)

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": Message{Role: RoleAssistant, Content: content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func TestInvokeModelSendsFullConversation(t *testing.T) {
	var requests []chatCompletionRequest
	server := httptest.NewServer(chatHandler(t, &requests, "first reply"))
	defer server.Close()

	client := NewOpenAIClient("llama3:latest", server.URL+"/v1", "test-key")
	client.AddSystemPrompt("system prompt")
	client.AddUserPrompt("first request")

	got, err := client.InvokeModel(context.Background())
	if err != nil {
		t.Fatalf("InvokeModel returned error: %v", err)
	}
	if got != "first reply" {
		t.Errorf("InvokeModel = %q, want %q", got, "first reply")
	}

	// The endpoint is stateless, so the next call must resend everything.
	client.AddAssistantPrompt("first reply")
	client.AddUserPrompt("second request")
	if _, err := client.InvokeModel(context.Background()); err != nil {
		t.Fatalf("second InvokeModel returned error: %v", err)
	}

	if len(requests) != 2 {
		t.Fatalf("server saw %d requests, want 2", len(requests))
	}
	if requests[1].Model != "llama3:latest" {
		t.Errorf("model = %q, want llama3:latest", requests[1].Model)
	}

	wantRoles := []string{RoleSystem, RoleUser, RoleAssistant, RoleUser}
	if len(requests[1].Messages) != len(wantRoles) {
		t.Fatalf("second request carried %d messages, want %d", len(requests[1].Messages), len(wantRoles))
	}
	for i, role := range wantRoles {
		if requests[1].Messages[i].Role != role {
			t.Errorf("message %d role = %q, want %q", i, requests[1].Messages[i].Role, role)
		}
	}
}

func TestInvokeModelErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewOpenAIClient("llama3:latest", server.URL, "test-key")
	client.AddUserPrompt("request")

	if _, err := client.InvokeModel(context.Background()); err == nil {
		t.Fatal("InvokeModel returned nil error for a 401 response")
	}
}

func TestInvokeModelEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := NewOpenAIClient("llama3:latest", server.URL, "test-key")
	client.AddUserPrompt("request")

	if _, err := client.InvokeModel(context.Background()); err == nil {
		t.Fatal("InvokeModel returned nil error for an empty choices list")
	}
}

func TestNewBackendSelection(t *testing.T) {
	if _, err := New("openai", "m", "http://localhost:11434/v1", "k"); err != nil {
		t.Errorf("New(openai) returned error: %v", err)
	}
	if _, err := New("llamacpp", "m", "http://localhost:11434/v1", "k"); err == nil {
		t.Error("New returned nil error for an unsupported backend")
	}
}
