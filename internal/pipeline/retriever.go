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
	"context"
	"log/slog"
	"strings"

	"github.com/prodquery/rag-query-server/internal/index"
)

// Retriever runs the RETRIEVE stage: semantic candidate search followed
// by reranking down to the configured document count.
type Retriever struct {
	index    index.Searcher
	reranker *Reranker
	logger   *slog.Logger
}

// RetrieverConfig contains the dependencies for a Retriever.
type RetrieverConfig struct {
	Index    index.Searcher
	Reranker *Reranker
	Logger   *slog.Logger
}

// NewRetriever creates a retriever over the given index.
func NewRetriever(cfg RetrieverConfig) *Retriever {
	reranker := cfg.Reranker
	if reranker == nil {
		reranker = NewReranker(0)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Retriever{
		index:    cfg.Index,
		reranker: reranker,
		logger:   logger,
	}
}

// Retrieve returns the top documents for the query, best first. Asking
// the index for twice the final count gives the reranker a candidate
// pool to reorder. An empty result list is a valid outcome, not an
// error; index and backend failures propagate to the caller.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]index.Document, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	candidates, err := r.index.Search(ctx, query, r.reranker.TopK()*2)
	if err != nil {
		return nil, err
	}

	docs := r.reranker.Rerank(candidates)

	r.logger.Debug("retrieval completed",
		"candidates", len(candidates),
		"selected", len(docs),
	)

	return docs, nil
}
