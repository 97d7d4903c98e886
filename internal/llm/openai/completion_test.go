//-------------------------------------------------------------------------
//
// Product Query RAG Server
//
// Copyright (c) 2026, ProdQuery, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prodquery/rag-query-server/internal/llm"
)

func completionTestServer(t *testing.T, content string, captured *chatRequest) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("expected path /chat/completions, got %s", r.URL.Path)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if captured != nil {
			*captured = req
		}

		resp := chatResponse{}
		resp.Choices = []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		}{
			{
				Message: struct {
					Content string `json:"content"`
				}{Content: content},
				FinishReason: "stop",
			},
		}
		resp.Usage.PromptTokens = 10
		resp.Usage.CompletionTokens = 5
		resp.Usage.TotalTokens = 15

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Fatalf("Failed to encode response: %v", err)
		}
	}))
}

func TestCompletionProvider_Complete(t *testing.T) {
	var captured chatRequest
	server := completionTestServer(t, "The warranty is 2 years.", &captured)
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	provider := NewCompletionProvider("test-key", WithCompletionClient(client))

	req := llm.CompletionRequest{
		SystemPrompt: "Answer from the context.",
		UserQuery:    "what's the warranty period?",
		MaxTokens:    500,
		Temperature:  0.3,
	}

	resp, err := provider.Complete(context.Background(), req)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if resp.Content != "The warranty is 2 years." {
		t.Errorf("unexpected content: %s", resp.Content)
	}
	if resp.FinishReason != "stop" {
		t.Errorf("expected 'stop', got %s", resp.FinishReason)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("expected 15 total tokens, got %d", resp.Usage.TotalTokens)
	}

	// System prompt then user query.
	if len(captured.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(captured.Messages))
	}
	if captured.Messages[0].Role != "system" {
		t.Errorf("expected first message role 'system', got %s", captured.Messages[0].Role)
	}
	if captured.Messages[1].Role != "user" {
		t.Errorf("expected second message role 'user', got %s", captured.Messages[1].Role)
	}
	if captured.MaxTokens != 500 {
		t.Errorf("expected max_tokens 500, got %d", captured.MaxTokens)
	}
	if captured.Temperature != 0.3 {
		t.Errorf("expected temperature 0.3, got %g", captured.Temperature)
	}
}

func TestCompletionProvider_Complete_NoSystemPrompt(t *testing.T) {
	var captured chatRequest
	server := completionTestServer(t, "Hello!", &captured)
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	provider := NewCompletionProvider("test-key", WithCompletionClient(client))

	_, err := provider.Complete(context.Background(), llm.CompletionRequest{
		UserQuery: "hi",
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if len(captured.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(captured.Messages))
	}
	if captured.Messages[0].Role != "user" {
		t.Errorf("expected role 'user', got %s", captured.Messages[0].Role)
	}
}

func TestCompletionProvider_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limit exceeded"}}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	provider := NewCompletionProvider("test-key", WithCompletionClient(client))

	_, err := provider.Complete(context.Background(), llm.CompletionRequest{
		UserQuery: "hi",
	})
	if err == nil {
		t.Fatal("expected error for API failure")
	}
}

func TestCompletionProvider_ModelName(t *testing.T) {
	provider := NewCompletionProvider("test-key")
	if provider.ModelName() != defaultChatModel {
		t.Errorf("expected %s, got %s", defaultChatModel, provider.ModelName())
	}

	provider = NewCompletionProvider("test-key", WithCompletionModel("gpt-4o"))
	if provider.ModelName() != "gpt-4o" {
		t.Errorf("expected gpt-4o, got %s", provider.ModelName())
	}
}

func TestCompletionProvider_Options(t *testing.T) {
	provider := NewCompletionProvider(
		"test-key",
		WithMaxTokens(1000),
		WithTemperature(0.5),
	)

	if provider.maxTokens != 1000 {
		t.Errorf("expected maxTokens 1000, got %d", provider.maxTokens)
	}
	if provider.temperature != 0.5 {
		t.Errorf("expected temperature 0.5, got %f", provider.temperature)
	}
}
