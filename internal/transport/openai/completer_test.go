package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterCompletionMetrics()
	os.Exit(m.Run())
}

// chatRequest mirrors the fields of the chat completion request we assert on.
type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float32 `json:"temperature"`
}

func chatResponse(content string, promptTokens, completionTokens int) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"model":   "test-model",
		"choices": []map[string]any{{"index": 0, "message": map[string]any{"role": "assistant", "content": content}, "finish_reason": "stop"}},
		"usage": map[string]any{
			"prompt_tokens":     promptTokens,
			"completion_tokens": completionTokens,
			"total_tokens":      promptTokens + completionTokens,
		},
	}
}

func newCompleter(url string) *Completer {
	return NewCompleter(&Config{
		APIKey:   "test-key",
		BaseURL:  url,
		Model:    "test-model",
		Provider: "test",
		Logger:   zap.NewNop(),
	})
}

func TestCompleter_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Fatalf("unexpected messages: %+v", req.Messages)
		}
		if req.Messages[1].Content != "User query: \"shoes\"" {
			t.Errorf("user content = %q", req.Messages[1].Content)
		}
		if req.MaxTokens != 500 || req.Temperature != 0.2 {
			t.Errorf("decoding = %d/%v", req.MaxTokens, req.Temperature)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatResponse(`{"ids":[2]}`, 120, 8))
	}))
	defer server.Close()

	res, err := newCompleter(server.URL).Complete(context.Background(), domain.CompletionRequest{
		System:      "only ids",
		User:        "User query: \"shoes\"",
		MaxTokens:   500,
		Temperature: 0.2,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if res.Text != `{"ids":[2]}` {
		t.Errorf("Text = %q", res.Text)
	}
	if res.PromptTokens != 120 || res.CompletionTokens != 8 {
		t.Errorf("usage = %d/%d", res.PromptTokens, res.CompletionTokens)
	}
}

func TestCompleter_ZeroTemperatureIsSent(t *testing.T) {
	var raw map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatResponse(`{"ids":[]}`, 10, 2))
	}))
	defer server.Close()

	_, err := newCompleter(server.URL).Complete(context.Background(), domain.CompletionRequest{
		System: "only ids", User: "x", MaxTokens: 50, Temperature: 0,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	temp, ok := raw["temperature"].(float64)
	if !ok {
		t.Fatalf("temperature missing from request: %v", raw)
	}
	if temp <= 0 || temp > 1e-30 {
		t.Errorf("temperature = %v, want effectively zero", temp)
	}
}

func TestCompleter_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"id": "x", "choices": []any{}})
	}))
	defer server.Close()

	_, err := newCompleter(server.URL).Complete(context.Background(), domain.CompletionRequest{User: "x"})
	if !errors.Is(err, domain.ErrCompletionProviderError) {
		t.Fatalf("expected ErrCompletionProviderError, got %v", err)
	}
}

func TestCompleter_APIError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		rateLimited bool
	}{
		{"rate limited", http.StatusTooManyRequests, true},
		{"unauthorized", http.StatusUnauthorized, false},
		{"upstream down", http.StatusBadGateway, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"message": "nope", "type": "error"},
				})
			}))
			defer server.Close()

			_, err := newCompleter(server.URL).Complete(context.Background(), domain.CompletionRequest{User: "x"})
			if !errors.Is(err, domain.ErrCompletionProviderError) {
				t.Fatalf("expected ErrCompletionProviderError, got %v", err)
			}
			if errors.Is(err, domain.ErrRateLimited) != tt.rateLimited {
				t.Errorf("ErrRateLimited = %v, want %v (%v)", !tt.rateLimited, tt.rateLimited, err)
			}
		})
	}
}

func TestCompleter_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newCompleter(server.URL).Complete(ctx, domain.CompletionRequest{User: "x"})
	if !errors.Is(err, domain.ErrCompletionProviderError) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected wrapped context.Canceled, got %v", err)
	}
}

func TestCompleter_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": []any{}})
	}))
	defer server.Close()

	if err := newCompleter(server.URL).HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck failed: %v", err)
	}
}

func TestCompleter_HealthCheckError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	if err := newCompleter(server.URL).HealthCheck(context.Background()); err == nil {
		t.Fatal("expected error for 401")
	}
}

func TestExtractDetail(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"detail":"model not found"}`, "model not found"},
		{`{"error":{"message":"insufficient credits"}}`, "insufficient credits"},
		{`not json`, ""},
	}
	for _, tt := range tests {
		if got := extractDetail([]byte(tt.body)); got != tt.want {
			t.Errorf("extractDetail(%s) = %q, want %q", tt.body, got, tt.want)
		}
	}
}
