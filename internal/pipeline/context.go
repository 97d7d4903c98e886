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
	"fmt"
	"strings"

	"github.com/prodquery/rag-query-server/internal/index"
)

// UnknownSource is substituted for documents indexed without a source
// identifier.
const UnknownSource = "unknown"

// FormatContext renders retrieved documents into the context block
// interpolated into the system prompt. Each document becomes a
// "Content:/Source:" pair; blocks are joined by blank lines in document
// order. An empty document list yields an empty string.
func FormatContext(docs []index.Document) string {
	if len(docs) == 0 {
		return ""
	}

	blocks := make([]string, len(docs))
	for i, doc := range docs {
		source := doc.Source
		if source == "" {
			source = UnknownSource
		}
		blocks[i] = fmt.Sprintf("Content: %s\nSource: %s", doc.Content, source)
	}

	return strings.Join(blocks, "\n\n")
}

// collectSources extracts the distinct source identifiers from the
// documents, preserving first-seen order.
func collectSources(docs []index.Document) []string {
	seen := make(map[string]bool, len(docs))
	sources := make([]string, 0, len(docs))
	for _, doc := range docs {
		name := doc.Source
		if name == "" {
			name = UnknownSource
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		sources = append(sources, name)
	}
	return sources
}
