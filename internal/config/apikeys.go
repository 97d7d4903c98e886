//-------------------------------------------------------------------------
//
// Product Query RAG Server
//
// Copyright (c) 2026, ProdQuery, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Environment variable names for API keys.
const (
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// Default API key file paths (relative to home directory).
const (
	DefaultOpenAIKeyFile = ".openai-api-key"
)

// LoadedKeys holds all loaded API keys.
type LoadedKeys struct {
	OpenAI string
}

// APIKeyLoader handles loading API keys from configured paths, environment
// variables, or default file locations.
type APIKeyLoader struct {
	config APIKeysConfig
}

// NewAPIKeyLoader creates a new API key loader with the given configuration.
func NewAPIKeyLoader(cfg APIKeysConfig) *APIKeyLoader {
	return &APIKeyLoader{config: cfg}
}

// LoadOpenAIKey loads the OpenAI API key.
//
// Priority:
//  1. Configured file path (if specified in config)
//  2. OPENAI_API_KEY environment variable
//  3. ~/.openai-api-key
func (l *APIKeyLoader) LoadOpenAIKey() (string, error) {
	// Priority 1: Configured file path
	if l.config.OpenAI != "" {
		return readKeyFile(expandKeyPath(l.config.OpenAI), "OpenAI")
	}

	// Priority 2: Environment variable
	if key := os.Getenv(EnvOpenAIAPIKey); key != "" {
		return key, nil
	}

	// Priority 3: Default file location
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	path := filepath.Join(homeDir, DefaultOpenAIKeyFile)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf(
			"OpenAI API key not found: set %s environment variable or create %s",
			EnvOpenAIAPIKey, path)
	}

	return readKeyFile(path, "OpenAI")
}

// LoadRequiredKeys loads the API keys required by the configured pipelines.
// Keys for providers no pipeline uses are not loaded, so a missing key for
// an unused provider is not an error.
func (l *APIKeyLoader) LoadRequiredKeys(pipelines []Pipeline) (*LoadedKeys, error) {
	keys := &LoadedKeys{}

	if !requiresProvider(pipelines, "openai") {
		return keys, nil
	}

	key, err := l.LoadOpenAIKey()
	if err != nil {
		return nil, err
	}
	keys.OpenAI = key

	return keys, nil
}

// requiresProvider reports whether any pipeline uses the named provider
// for embeddings or completions.
func requiresProvider(pipelines []Pipeline, provider string) bool {
	for _, p := range pipelines {
		if strings.EqualFold(p.EmbeddingLLM.Provider, provider) {
			return true
		}
		if strings.EqualFold(p.RAGLLM.Provider, provider) {
			return true
		}
	}
	return false
}

// expandKeyPath expands ~ in a configured key path.
func expandKeyPath(path string) string {
	return expandPath(path)
}

// readKeyFile reads an API key from a file.
func readKeyFile(path, providerName string) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("%s API key file not found: %s", providerName, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s API key file: %w", providerName, err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", fmt.Errorf("%s API key file is empty: %s", providerName, path)
	}

	return key, nil
}
