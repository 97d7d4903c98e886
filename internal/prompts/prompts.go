//-------------------------------------------------------------------------
//
// Product Query RAG Server
//
// Copyright (c) 2026, ProdQuery, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package prompts loads and formats the prompt templates used by the
// response generator. Templates are loaded once at startup and treated as
// immutable configuration.
package prompts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Template file names inside a prompts directory.
const (
	SystemFile    = "system.md"
	NoContextFile = "no_context.md"
	ErrorFile     = "error.md"
)

// DefaultSystem is the system instruction used when no custom template is
// configured. The {context} placeholder is replaced with the formatted
// retrieval context.
const DefaultSystem = `You are a helpful assistant that answers questions about our products.
Answer the question using only the information from the context below.
Cite the source of the information you use. If the context does not
contain enough information to answer, say so.

Context:
{context}`

// DefaultNoContext is returned when retrieval produced no documents. The
// {query} placeholder is replaced with the user's question.
const DefaultNoContext = `I could not find any product documentation relevant to "{query}". ` +
	`Please try rephrasing your question or ask about a different product.`

// DefaultError is returned when the generation backend fails.
const DefaultError = `Sorry, I am unable to answer your question right now. ` +
	`Please try again in a moment.`

// Templates holds the three named prompt templates.
type Templates struct {
	System    string
	NoContext string
	Error     string
}

// Defaults returns the compiled-in templates.
func Defaults() Templates {
	return Templates{
		System:    DefaultSystem,
		NoContext: DefaultNoContext,
		Error:     DefaultError,
	}
}

// Load reads the three template files from dir. Every file must be present
// and non-empty; a partial prompts directory is a configuration error.
func Load(dir string) (Templates, error) {
	t := Templates{}

	files := []struct {
		name string
		dst  *string
	}{
		{SystemFile, &t.System},
		{NoContextFile, &t.NoContext},
		{ErrorFile, &t.Error},
	}

	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(dir, f.name))
		if err != nil {
			return Templates{}, fmt.Errorf("failed to read prompt template %s: %w", f.name, err)
		}
		content := strings.TrimSpace(string(data))
		if content == "" {
			return Templates{}, fmt.Errorf("prompt template %s is empty", f.name)
		}
		*f.dst = content
	}

	return t, nil
}

// FormatSystem substitutes the formatted context block into the system
// template.
func (t Templates) FormatSystem(context string) string {
	return strings.ReplaceAll(t.System, "{context}", context)
}

// FormatNoContext substitutes the query into the no-context fallback.
func (t Templates) FormatNoContext(query string) string {
	return strings.ReplaceAll(t.NoContext, "{query}", query)
}
