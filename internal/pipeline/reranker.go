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
	"sort"

	"github.com/prodquery/rag-query-server/internal/config"
	"github.com/prodquery/rag-query-server/internal/index"
)

// Reranker orders retrieval candidates by relevance and truncates the
// list to the configured result size.
type Reranker struct {
	topK int
}

// NewReranker creates a reranker keeping the topK best documents. Values
// below 1 fall back to the configured default.
func NewReranker(topK int) *Reranker {
	if topK < 1 {
		topK = config.DefaultTopK
	}
	return &Reranker{topK: topK}
}

// TopK returns the maximum number of documents Rerank emits.
func (r *Reranker) TopK() int {
	return r.topK
}

// Rerank sorts documents by score descending and keeps at most TopK.
// The sort is stable, so candidates with equal scores keep their
// retrieval order. The input slice is never modified.
func (r *Reranker) Rerank(docs []index.Document) []index.Document {
	out := make([]index.Document, len(docs))
	copy(out, docs)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if len(out) > r.topK {
		out = out[:r.topK]
	}
	return out
}
