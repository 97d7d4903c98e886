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
	"os"
	"path/filepath"
	"testing"
)

// writeConfig writes a temporary YAML config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

const validConfig = `
server:
  listen_address: "127.0.0.1"
  port: 9090

defaults:
  top_k: 5

pipelines:
  - name: products
    description: Product documentation
    database:
      host: localhost
      database: products
    documents:
      table: product_docs
    embedding_llm:
      provider: openai
      model: text-embedding-3-small
    rag_llm:
      provider: openai
      model: gpt-4o-mini
      temperature: 0.3
      max_tokens: 500
    cache:
      capacity: 128
      ttl_minutes: 5
`

func TestLoad_ValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("failed to load valid config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.ListenAddress != "127.0.0.1" {
		t.Errorf("expected listen address 127.0.0.1, got %s", cfg.Server.ListenAddress)
	}

	if len(cfg.Pipelines) != 1 {
		t.Fatalf("expected 1 pipeline, got %d", len(cfg.Pipelines))
	}

	p := cfg.Pipelines[0]
	if p.Name != "products" {
		t.Errorf("expected pipeline name 'products', got '%s'", p.Name)
	}
	if p.TopK != 5 {
		t.Errorf("expected top_k 5 from defaults, got %d", p.TopK)
	}
	if p.Documents.Table != "product_docs" {
		t.Errorf("expected table 'product_docs', got '%s'", p.Documents.Table)
	}
	if p.RAGLLM.Temperature == nil || *p.RAGLLM.Temperature != 0.3 {
		t.Errorf("expected temperature 0.3, got %v", p.RAGLLM.Temperature)
	}
	if p.Cache.Capacity != 128 {
		t.Errorf("expected cache capacity 128, got %d", p.Cache.Capacity)
	}
}

const minimalConfig = `
pipelines:
  - name: products
    database:
      host: localhost
      database: products
    embedding_llm:
      provider: ollama
    rag_llm:
      provider: ollama
`

func TestLoad_MinimalConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("failed to load minimal config: %v", err)
	}

	if cfg.Server.Port != DefaultPort {
		t.Errorf("expected default port %d, got %d", DefaultPort, cfg.Server.Port)
	}

	p := cfg.Pipelines[0]
	if p.TopK != DefaultTopK {
		t.Errorf("expected default top_k %d, got %d", DefaultTopK, p.TopK)
	}
	if p.Documents.Table != DefaultTable {
		t.Errorf("expected default table '%s', got '%s'", DefaultTable, p.Documents.Table)
	}
	if p.Documents.ContentColumn != DefaultContentColumn {
		t.Errorf("expected default content column '%s', got '%s'",
			DefaultContentColumn, p.Documents.ContentColumn)
	}
	if p.Documents.VectorColumn != DefaultVectorColumn {
		t.Errorf("expected default vector column '%s', got '%s'",
			DefaultVectorColumn, p.Documents.VectorColumn)
	}
	if p.Database.Port != 5432 {
		t.Errorf("expected default database port 5432, got %d", p.Database.Port)
	}
	if p.Database.SSLMode != "prefer" {
		t.Errorf("expected default ssl_mode 'prefer', got '%s'", p.Database.SSLMode)
	}
}

const defaultsCascadeConfig = `
api_keys:
  openai: /global/openai-key

defaults:
  embedding_llm:
    provider: openai
    model: text-embedding-3-small
  rag_llm:
    provider: openai
    model: gpt-4o-mini
  cache:
    capacity: 64
    ttl_minutes: 10

pipelines:
  - name: products
    database:
      host: localhost
      database: products
  - name: manuals
    database:
      host: localhost
      database: manuals
    rag_llm:
      provider: ollama
      model: llama3.2
    api_keys:
      openai: /pipeline/openai-key
`

func TestLoad_DefaultsCascade(t *testing.T) {
	cfg, err := Load(writeConfig(t, defaultsCascadeConfig))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	first := cfg.Pipelines[0]
	if first.EmbeddingLLM.Provider != "openai" {
		t.Errorf("expected embedding provider from defaults, got '%s'",
			first.EmbeddingLLM.Provider)
	}
	if first.RAGLLM.Model != "gpt-4o-mini" {
		t.Errorf("expected rag model from defaults, got '%s'", first.RAGLLM.Model)
	}
	if first.Cache.Capacity != 64 || first.Cache.TTLMinutes != 10 {
		t.Errorf("expected cache defaults 64/10, got %d/%d",
			first.Cache.Capacity, first.Cache.TTLMinutes)
	}
	if first.APIKeys.OpenAI != "/global/openai-key" {
		t.Errorf("expected global API key path, got '%s'", first.APIKeys.OpenAI)
	}

	second := cfg.Pipelines[1]
	if second.RAGLLM.Provider != "ollama" {
		t.Errorf("pipeline override lost: rag provider '%s'", second.RAGLLM.Provider)
	}
	if second.APIKeys.OpenAI != "/pipeline/openai-key" {
		t.Errorf("expected pipeline API key path, got '%s'", second.APIKeys.OpenAI)
	}
}

func TestLoad_InvalidConfigs(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		errContains string
	}{
		{
			name:        "no pipelines",
			content:     "server:\n  port: 8080\n",
			errContains: "at least one pipeline",
		},
		{
			name: "invalid port",
			content: `
server:
  port: 99999
pipelines:
  - name: products
    database:
      host: localhost
      database: products
    embedding_llm:
      provider: ollama
    rag_llm:
      provider: ollama
`,
			errContains: "server.port",
		},
		{
			name: "duplicate name",
			content: `
pipelines:
  - name: products
    database:
      host: localhost
      database: products
    embedding_llm:
      provider: ollama
    rag_llm:
      provider: ollama
  - name: products
    database:
      host: localhost
      database: products
    embedding_llm:
      provider: ollama
    rag_llm:
      provider: ollama
`,
			errContains: "duplicate pipeline name",
		},
		{
			name: "unsupported provider",
			content: `
pipelines:
  - name: products
    database:
      host: localhost
      database: products
    embedding_llm:
      provider: cohere
    rag_llm:
      provider: ollama
`,
			errContains: "embedding_llm.provider",
		},
		{
			name: "temperature out of range",
			content: `
pipelines:
  - name: products
    database:
      host: localhost
      database: products
    embedding_llm:
      provider: ollama
    rag_llm:
      provider: ollama
      temperature: 3.5
`,
			errContains: "rag_llm.temperature",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Error("expected error, got nil")
				return
			}
			if !contains(err.Error(), tt.errContains) {
				t.Errorf("expected error containing '%s', got '%s'",
					tt.errContains, err.Error())
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("expected default port %d, got %d", DefaultPort, cfg.Server.Port)
	}
	if cfg.Server.ListenAddress != "0.0.0.0" {
		t.Errorf("expected default listen address '0.0.0.0', got '%s'",
			cfg.Server.ListenAddress)
	}
	if cfg.Defaults.TopK != DefaultTopK {
		t.Errorf("expected default top_k %d, got %d", DefaultTopK, cfg.Defaults.TopK)
	}
}

func TestValidation_MissingFields(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Port: 8080},
		Pipelines: []Pipeline{
			{
				Name: "test",
				Database: DatabaseConfig{
					// Missing host and database
					Port: 5432,
				},
				EmbeddingLLM: LLMConfig{
					// Missing provider
				},
				RAGLLM: LLMConfig{
					// Missing provider
				},
			},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}

	errStr := err.Error()
	expectedErrors := []string{
		"database.host",
		"database.database",
		"embedding_llm.provider",
		"rag_llm.provider",
	}

	for _, expected := range expectedErrors {
		if !contains(errStr, expected) {
			t.Errorf("expected error to contain '%s', got '%s'", expected, errStr)
		}
	}
}

func TestExpandPath(t *testing.T) {
	homeDir, _ := os.UserHomeDir()

	tests := []struct {
		input    string
		expected string
	}{
		{"~/test", filepath.Join(homeDir, "test")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}

	for _, tt := range tests {
		result := expandPath(tt.input)
		if result != tt.expected {
			t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && searchSubstring(s, substr)
}

func searchSubstring(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
