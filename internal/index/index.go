//-------------------------------------------------------------------------
//
// Product Query RAG Server
//
// Copyright (c) 2026, ProdQuery, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package index defines the document retrieval contract and its
// pgvector-backed implementation.
package index

import (
	"context"
	"errors"
)

// ErrNotReady is returned when no document corpus has been loaded into the
// index. Operators must run the indexer before the pipeline can retrieve.
var ErrNotReady = errors.New("document index not ready: no corpus loaded")

// Document is a retrieved document. Immutable once returned from Search;
// downstream stages reorder documents but never edit them.
type Document struct {
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Score   float64 `json:"score"` // Similarity in [0, 1], higher is more relevant
}

// Searcher is the retrieval contract the pipeline depends on. Search
// returns up to k candidate documents for the query, each scored by
// semantic similarity; ordering is not guaranteed. Implementations must be
// safe for concurrent use.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]Document, error)
}
