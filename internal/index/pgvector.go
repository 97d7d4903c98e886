//-------------------------------------------------------------------------
//
// Product Query RAG Server
//
// Copyright (c) 2026, ProdQuery, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package index

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/prodquery/rag-query-server/internal/config"
	"github.com/prodquery/rag-query-server/internal/database"
	"github.com/prodquery/rag-query-server/internal/llm"
)

// PGVector is a Searcher backed by a pgvector corpus table. A query is
// embedded with the configured embedding provider, then matched against
// stored document vectors by cosine similarity.
type PGVector struct {
	pool     *database.Pool
	embedder llm.EmbeddingProvider
	source   config.DocumentSource
	logger   *slog.Logger

	// ready is sticky once true: the corpus only changes through the
	// offline indexer, which runs outside query-time concurrency.
	mu    sync.Mutex
	ready bool
}

// PGVectorConfig contains the dependencies for a pgvector index.
type PGVectorConfig struct {
	Pool     *database.Pool
	Embedder llm.EmbeddingProvider
	Source   config.DocumentSource
	Logger   *slog.Logger
}

// NewPGVector creates a pgvector-backed index.
func NewPGVector(cfg PGVectorConfig) *PGVector {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &PGVector{
		pool:     cfg.Pool,
		embedder: cfg.Embedder,
		source:   cfg.Source,
		logger:   logger,
	}
}

// Search implements the Searcher contract. Returns ErrNotReady when the
// corpus table is absent or empty.
func (x *PGVector) Search(ctx context.Context, query string, k int) ([]Document, error) {
	if err := x.checkReady(ctx); err != nil {
		return nil, err
	}

	embedding, err := x.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := x.pool.SearchDocuments(ctx, embedding, x.source, k)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	docs := make([]Document, len(results))
	for i, r := range results {
		docs[i] = Document{
			Content: r.Content,
			Source:  r.Source,
			Score:   r.Score,
		}
	}

	x.logger.Debug("index search completed",
		"candidates", len(docs),
		"k", k,
	)

	return docs, nil
}

// checkReady probes the corpus on first use and after every not-ready
// answer, so loading the index does not require a server restart.
func (x *PGVector) checkReady(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.ready {
		return nil
	}

	count, err := x.pool.CountDocuments(ctx, x.source)
	if err != nil {
		return fmt.Errorf("failed to probe corpus: %w", err)
	}
	if count == 0 {
		return ErrNotReady
	}

	x.logger.Info("document index ready",
		"table", x.source.Table,
		"documents", count,
	)
	x.ready = true
	return nil
}

// Ensure PGVector implements the interface.
var _ Searcher = (*PGVector)(nil)
