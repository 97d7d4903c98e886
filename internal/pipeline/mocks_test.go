//-------------------------------------------------------------------------
//
// Product Query RAG Server
//
// Copyright (c) 2026, ProdQuery, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prodquery/rag-query-server/internal/index"
	"github.com/prodquery/rag-query-server/internal/llm"
)

// mockSearcher implements index.Searcher for testing.
type mockSearcher struct {
	searchFunc func(ctx context.Context, query string, k int) ([]index.Document, error)
	calls      int
	lastK      int
}

func (m *mockSearcher) Search(ctx context.Context, query string, k int) ([]index.Document, error) {
	m.calls++
	m.lastK = k
	if m.searchFunc != nil {
		return m.searchFunc(ctx, query, k)
	}
	return nil, nil
}

// mockCompletion implements llm.CompletionProvider for testing.
type mockCompletion struct {
	completeFunc func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error)
	model        string
	calls        int
	lastRequest  llm.CompletionRequest
}

func (m *mockCompletion) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	m.calls++
	m.lastRequest = req
	if m.completeFunc != nil {
		return m.completeFunc(ctx, req)
	}
	return &llm.CompletionResponse{Content: "mock answer", FinishReason: "stop"}, nil
}

func (m *mockCompletion) ModelName() string {
	if m.model != "" {
		return m.model
	}
	return "mock-model"
}

// Ensure mocks implement the interfaces.
var (
	_ index.Searcher         = (*mockSearcher)(nil)
	_ llm.CompletionProvider = (*mockCompletion)(nil)
)

// recordingHandler is a slog.Handler that captures records so tests can
// assert on log volume per level.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func (h *recordingHandler) countLevel(level slog.Level) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, r := range h.records {
		if r.Level == level {
			n++
		}
	}
	return n
}
