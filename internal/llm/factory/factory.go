//-------------------------------------------------------------------------
//
// Product Query RAG Server
//
// Copyright (c) 2026, ProdQuery, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package factory provides functions to create LLM providers from configuration.
package factory

import (
	"fmt"
	"strings"

	"github.com/prodquery/rag-query-server/internal/config"
	"github.com/prodquery/rag-query-server/internal/llm"
	"github.com/prodquery/rag-query-server/internal/llm/ollama"
	"github.com/prodquery/rag-query-server/internal/llm/openai"
)

// Provider constants for matching configuration values.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// NewEmbeddingProvider creates an embedding provider based on configuration.
func NewEmbeddingProvider(
	providerType string,
	model string,
	apiKeys *config.LoadedKeys,
) (llm.EmbeddingProvider, error) {
	provider := strings.ToLower(providerType)

	switch provider {
	case ProviderOpenAI:
		if apiKeys.OpenAI == "" {
			return nil, fmt.Errorf("OpenAI API key not configured")
		}
		opts := []openai.EmbeddingOption{}
		if model != "" {
			opts = append(opts, openai.WithEmbeddingModel(model))
		}
		return openai.NewEmbeddingProvider(apiKeys.OpenAI, opts...), nil

	case ProviderOllama:
		opts := []ollama.EmbeddingOption{}
		if model != "" {
			opts = append(opts, ollama.WithEmbeddingModel(model))
		}
		return ollama.NewEmbeddingProvider(opts...), nil

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", providerType)
	}
}

// NewCompletionProvider creates a completion provider based on configuration.
func NewCompletionProvider(
	providerType string,
	model string,
	apiKeys *config.LoadedKeys,
) (llm.CompletionProvider, error) {
	provider := strings.ToLower(providerType)

	switch provider {
	case ProviderOpenAI:
		if apiKeys.OpenAI == "" {
			return nil, fmt.Errorf("OpenAI API key not configured")
		}
		opts := []openai.CompletionOption{}
		if model != "" {
			opts = append(opts, openai.WithCompletionModel(model))
		}
		return openai.NewCompletionProvider(apiKeys.OpenAI, opts...), nil

	case ProviderOllama:
		opts := []ollama.CompletionOption{}
		if model != "" {
			opts = append(opts, ollama.WithCompletionModel(model))
		}
		return ollama.NewCompletionProvider(opts...), nil

	default:
		return nil, fmt.Errorf("unknown completion provider: %s", providerType)
	}
}
