//-------------------------------------------------------------------------
//
// Product Query RAG Server
//
// Copyright (c) 2026, ProdQuery, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package pipeline

import "strings"

// Normalize canonicalizes a raw user query: surrounding whitespace is
// trimmed and the text is lowercased. Normalize is idempotent and never
// returns an empty string without an error.
func Normalize(raw string) (string, error) {
	query := strings.ToLower(strings.TrimSpace(raw))
	if query == "" {
		return "", ErrEmptyQuery
	}
	return query, nil
}
