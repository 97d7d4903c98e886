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

// supportedProviders lists the provider names the factory can build.
var supportedProviders = []string{"openai", "ollama"}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

// ValidationError represents a single configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration for errors and returns all validation
// errors found.
func (c *Config) Validate() error {
	var errs ValidationErrors

	errs = append(errs, c.validateServer()...)
	errs = append(errs, c.validatePipelines()...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validateServer validates server configuration.
func (c *Config) validateServer() ValidationErrors {
	var errs ValidationErrors

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, ValidationError{
			Field:   "server.port",
			Message: "must be between 1 and 65535",
		})
	}

	if c.Server.TLS.Enabled {
		if c.Server.TLS.CertFile == "" {
			errs = append(errs, ValidationError{
				Field:   "server.tls.cert_file",
				Message: "required when TLS is enabled",
			})
		} else if _, err := os.Stat(expandPath(c.Server.TLS.CertFile)); err != nil {
			errs = append(errs, ValidationError{
				Field:   "server.tls.cert_file",
				Message: fmt.Sprintf("file not found: %s", c.Server.TLS.CertFile),
			})
		}

		if c.Server.TLS.KeyFile == "" {
			errs = append(errs, ValidationError{
				Field:   "server.tls.key_file",
				Message: "required when TLS is enabled",
			})
		} else if _, err := os.Stat(expandPath(c.Server.TLS.KeyFile)); err != nil {
			errs = append(errs, ValidationError{
				Field:   "server.tls.key_file",
				Message: fmt.Sprintf("file not found: %s", c.Server.TLS.KeyFile),
			})
		}
	}

	return errs
}

// validatePipelines validates all pipeline configurations.
func (c *Config) validatePipelines() ValidationErrors {
	var errs ValidationErrors

	if len(c.Pipelines) == 0 {
		errs = append(errs, ValidationError{
			Field:   "pipelines",
			Message: "at least one pipeline must be configured",
		})
		return errs
	}

	seen := make(map[string]bool)
	for i, p := range c.Pipelines {
		prefix := fmt.Sprintf("pipelines[%d]", i)

		if p.Name == "" {
			errs = append(errs, ValidationError{
				Field:   prefix + ".name",
				Message: "pipeline name is required",
			})
		} else {
			if seen[p.Name] {
				errs = append(errs, ValidationError{
					Field:   prefix + ".name",
					Message: fmt.Sprintf("duplicate pipeline name: %s", p.Name),
				})
			}
			seen[p.Name] = true
		}

		if p.Database.Host == "" {
			errs = append(errs, ValidationError{
				Field:   prefix + ".database.host",
				Message: "database host is required",
			})
		}
		if p.Database.Database == "" {
			errs = append(errs, ValidationError{
				Field:   prefix + ".database.database",
				Message: "database name is required",
			})
		}

		errs = append(errs, validateLLM(prefix+".embedding_llm", p.EmbeddingLLM)...)
		errs = append(errs, validateLLM(prefix+".rag_llm", p.RAGLLM)...)

		if p.TopK < 0 {
			errs = append(errs, ValidationError{
				Field:   prefix + ".top_k",
				Message: "must not be negative",
			})
		}

		if p.PromptsDir != "" {
			if _, err := os.Stat(expandPath(p.PromptsDir)); err != nil {
				errs = append(errs, ValidationError{
					Field:   prefix + ".prompts_dir",
					Message: fmt.Sprintf("directory not found: %s", p.PromptsDir),
				})
			}
		}
	}

	return errs
}

// validateLLM validates a single LLM provider configuration.
func validateLLM(field string, cfg LLMConfig) ValidationErrors {
	var errs ValidationErrors

	if cfg.Provider == "" {
		errs = append(errs, ValidationError{
			Field:   field + ".provider",
			Message: "provider is required",
		})
		return errs
	}

	provider := strings.ToLower(cfg.Provider)
	valid := false
	for _, p := range supportedProviders {
		if provider == p {
			valid = true
			break
		}
	}
	if !valid {
		errs = append(errs, ValidationError{
			Field: field + ".provider",
			Message: fmt.Sprintf("unsupported provider %q (supported: %s)",
				cfg.Provider, strings.Join(supportedProviders, ", ")),
		})
	}

	if cfg.Temperature != nil && (*cfg.Temperature < 0 || *cfg.Temperature > 2) {
		errs = append(errs, ValidationError{
			Field:   field + ".temperature",
			Message: "must be between 0 and 2",
		})
	}

	if cfg.MaxTokens < 0 {
		errs = append(errs, ValidationError{
			Field:   field + ".max_tokens",
			Message: "must not be negative",
		})
	}

	return errs
}
