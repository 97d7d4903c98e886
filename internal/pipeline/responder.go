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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prodquery/rag-query-server/internal/cache"
	"github.com/prodquery/rag-query-server/internal/index"
	"github.com/prodquery/rag-query-server/internal/llm"
	"github.com/prodquery/rag-query-server/internal/prompts"
)

// InvalidQueryMessage is the canned answer for an empty query reaching
// the RESPOND stage directly.
const InvalidQueryMessage = "Please provide a valid question about our products."

// Generation parameters. Low temperature keeps answers grounded in the
// provided context.
const (
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 500
)

// Responder runs the RESPOND stage. Generate is total over its inputs:
// empty queries, empty document lists, and backend failures all map to
// template text rather than errors, so the pipeline always has an
// answer to return once retrieval has succeeded.
type Responder struct {
	completion  llm.CompletionProvider
	templates   prompts.Templates
	cache       *cache.LRU
	temperature float64
	maxTokens   int
	logger      *slog.Logger
}

// ResponderConfig contains the dependencies for a Responder.
type ResponderConfig struct {
	Completion llm.CompletionProvider
	Templates  prompts.Templates
	Cache      *cache.LRU

	// Temperature overrides DefaultTemperature when non-nil.
	Temperature *float64

	// MaxTokens overrides DefaultMaxTokens when positive.
	MaxTokens int

	Logger *slog.Logger
}

// NewResponder creates a responder over the given completion backend.
func NewResponder(cfg ResponderConfig) *Responder {
	temperature := DefaultTemperature
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	respCache := cfg.Cache
	if respCache == nil {
		respCache = cache.NewLRU(0, 0)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Responder{
		completion:  cfg.Completion,
		templates:   cfg.Templates,
		cache:       respCache,
		temperature: temperature,
		maxTokens:   maxTokens,
		logger:      logger,
	}
}

// ModelName reports the backing completion model.
func (r *Responder) ModelName() string {
	return r.completion.ModelName()
}

// Generate produces the answer for a query and its retrieved documents.
// With no documents the no-context template is returned and the backend
// is never called. Backend failures are logged and absorbed into the
// error template. The returned error is reserved for infrastructure
// problems outside the generation contract.
func (r *Responder) Generate(ctx context.Context, query string, docs []index.Document) (string, error) {
	if strings.TrimSpace(query) == "" {
		return InvalidQueryMessage, nil
	}

	if len(docs) == 0 {
		return r.templates.FormatNoContext(query), nil
	}

	contextBlock := FormatContext(docs)

	key := r.cacheKey(query, contextBlock)
	if answer, ok := r.cache.Get(key); ok {
		r.logger.Debug("response cache hit", "query", query)
		return answer, nil
	}

	resp, err := r.completion.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: r.templates.FormatSystem(contextBlock),
		UserQuery:    query,
		MaxTokens:    r.maxTokens,
		Temperature:  r.temperature,
	})
	if err != nil {
		r.logger.Error("response generation failed",
			"model", r.completion.ModelName(),
			"error", err,
		)
		return r.templates.Error, nil
	}

	r.logger.Debug("response generated",
		"model", r.completion.ModelName(),
		"finish_reason", resp.FinishReason,
		"total_tokens", resp.Usage.TotalTokens,
	)

	r.cache.Set(key, resp.Content)
	return resp.Content, nil
}

// cacheKey derives the cache key from everything that determines the
// answer: query, context, model, and generation parameters. NUL
// separators keep adjacent fields from colliding.
func (r *Responder) cacheKey(query, contextBlock string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%g\x00%d",
		query, contextBlock, r.completion.ModelName(), r.temperature, r.maxTokens)
	return hex.EncodeToString(h.Sum(nil))
}
