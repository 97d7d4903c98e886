//-------------------------------------------------------------------------
//
// Product Query RAG Server
//
// Copyright (c) 2026, ProdQuery, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration loading and validation for the
// Product Query RAG Server.
package config

// Config is the root configuration structure for the server.
type Config struct {
	Server    ServerConfig  `yaml:"server"`
	APIKeys   APIKeysConfig `yaml:"api_keys"`
	Defaults  Defaults      `yaml:"defaults"`
	Pipelines []Pipeline    `yaml:"pipelines"`
}

// APIKeysConfig contains paths to files containing API keys for LLM
// providers. If not specified, keys are loaded from environment variables
// or default file locations (~/.openai-api-key).
type APIKeysConfig struct {
	OpenAI string `yaml:"openai"` // Path to file containing OpenAI API key
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	ListenAddress string     `yaml:"listen_address"`
	Port          int        `yaml:"port"`
	TLS           TLSConfig  `yaml:"tls"`
	CORS          CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS (Cross-Origin Resource Sharing) settings.
type CORSConfig struct {
	Enabled        bool     `yaml:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins"` // Origins to allow, or ["*"] for all
}

// TLSConfig contains TLS/HTTPS settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// Defaults contains default values that can be overridden per-pipeline.
type Defaults struct {
	TopK         int           `yaml:"top_k"`
	EmbeddingLLM LLMConfig     `yaml:"embedding_llm"` // Default embedding provider
	RAGLLM       LLMConfig     `yaml:"rag_llm"`       // Default completion provider
	Cache        CacheConfig   `yaml:"cache"`         // Default response cache sizing
	APIKeys      APIKeysConfig `yaml:"api_keys"`      // Default API key paths
}

// Pipeline defines a single RAG pipeline configuration.
type Pipeline struct {
	Name         string         `yaml:"name"`
	Description  string         `yaml:"description"`
	Database     DatabaseConfig `yaml:"database"`
	Documents    DocumentSource `yaml:"documents"`
	EmbeddingLLM LLMConfig      `yaml:"embedding_llm"`
	RAGLLM       LLMConfig      `yaml:"rag_llm"`
	APIKeys      APIKeysConfig  `yaml:"api_keys"` // Pipeline-specific API key paths
	TopK         int            `yaml:"top_k"`
	PromptsDir   string         `yaml:"prompts_dir"` // Directory with prompt templates
	Cache        CacheConfig    `yaml:"cache"`       // Response cache sizing
}

// DatabaseConfig contains PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`

	// Certificate-based authentication
	SSLCert   string `yaml:"ssl_cert"`
	SSLKey    string `yaml:"ssl_key"`
	SSLRootCA string `yaml:"ssl_root_ca"`
}

// DocumentSource defines the table holding the indexed document corpus.
type DocumentSource struct {
	Table         string `yaml:"table"`
	ContentColumn string `yaml:"content_column"`
	SourceColumn  string `yaml:"source_column"`
	VectorColumn  string `yaml:"vector_column"`
}

// CacheConfig contains response cache settings.
type CacheConfig struct {
	Capacity   int `yaml:"capacity"`    // Max entries (default 512)
	TTLMinutes int `yaml:"ttl_minutes"` // Entry lifetime in minutes (default 15)
}

// LLMConfig contains settings for an LLM provider.
type LLMConfig struct {
	Provider    string   `yaml:"provider"`
	Model       string   `yaml:"model"`
	Temperature *float64 `yaml:"temperature"` // nil = provider default
	MaxTokens   int      `yaml:"max_tokens"`  // 0 = provider default
}

// Default values applied when the configuration leaves them unset.
const (
	DefaultPort          = 8080
	DefaultTopK          = 3
	DefaultTable         = "documents"
	DefaultContentColumn = "content"
	DefaultSourceColumn  = "source"
	DefaultVectorColumn  = "embedding"
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddress: "0.0.0.0",
			Port:          DefaultPort,
			TLS: TLSConfig{
				Enabled: false,
			},
		},
		Defaults: Defaults{
			TopK: DefaultTopK,
		},
	}
}
