//-------------------------------------------------------------------------
//
// Product Query RAG Server
//
// Copyright (c) 2026, ProdQuery, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package llm provides interfaces and implementations for LLM providers.
package llm

import "context"

// EmbeddingProvider generates vector embeddings from text.
type EmbeddingProvider interface {
	// Embed generates an embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	// Returns embeddings in the same order as input texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the dimensionality of embeddings produced.
	Dimensions() int

	// ModelName returns the name of the model being used.
	ModelName() string
}

// CompletionProvider generates a text answer for a single-turn request.
// The pipeline's backend contract is strictly request/response; streaming
// and multi-turn conversation state are outside it.
type CompletionProvider interface {
	// Complete generates an answer for the given request.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// ModelName returns the name of the model being used.
	ModelName() string
}

// CompletionRequest is a single-turn generation request.
type CompletionRequest struct {
	// SystemPrompt is the system-level instruction, with any retrieval
	// context already substituted in by the caller.
	SystemPrompt string

	// UserQuery is the user's question.
	UserQuery string

	// MaxTokens is the maximum number of tokens to generate.
	// If 0, uses the provider's default.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	// If negative, uses the provider's default.
	Temperature float64
}

// CompletionResponse is a completed generation.
type CompletionResponse struct {
	Content      string
	FinishReason string
	Usage        TokenUsage
}

// TokenUsage represents token consumption for a request.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
