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
	"testing"

	"github.com/prodquery/rag-query-server/internal/index"
)

func TestRerankOrdersByScoreDescending(t *testing.T) {
	r := NewReranker(3)

	docs := []index.Document{
		{Content: "a", Source: "a.pdf", Score: 0.2},
		{Content: "b", Source: "b.pdf", Score: 0.9},
		{Content: "c", Source: "c.pdf", Score: 0.5},
	}

	got := r.Rerank(docs)

	wantOrder := []string{"b", "c", "a"}
	for i, want := range wantOrder {
		if got[i].Content != want {
			t.Errorf("position %d: got %q, want %q", i, got[i].Content, want)
		}
	}
}

// Equal scores must keep their input order: the sort is stable so results
// are deterministic run to run.
func TestRerankStableOnTies(t *testing.T) {
	r := NewReranker(3)

	docs := []index.Document{
		{Content: "a", Score: 0.2},
		{Content: "b", Score: 0.9},
		{Content: "c", Score: 0.9},
		{Content: "d", Score: 0.1},
	}

	got := r.Rerank(docs)

	wantOrder := []string{"b", "c", "a"}
	if len(got) != len(wantOrder) {
		t.Fatalf("got %d documents, want %d", len(got), len(wantOrder))
	}
	for i, want := range wantOrder {
		if got[i].Content != want {
			t.Errorf("position %d: got %q, want %q", i, got[i].Content, want)
		}
	}
}

func TestRerankTruncates(t *testing.T) {
	r := NewReranker(3)

	docs := make([]index.Document, 10)
	for i := range docs {
		docs[i] = index.Document{Content: "doc", Score: float64(i) / 10}
	}

	got := r.Rerank(docs)
	if len(got) != 3 {
		t.Errorf("got %d documents, want 3", len(got))
	}
}

func TestRerankFewerThanTopK(t *testing.T) {
	r := NewReranker(3)

	got := r.Rerank([]index.Document{{Content: "only", Score: 0.4}})
	if len(got) != 1 {
		t.Errorf("got %d documents, want 1", len(got))
	}
}

func TestRerankDoesNotModifyInput(t *testing.T) {
	r := NewReranker(3)

	docs := []index.Document{
		{Content: "a", Score: 0.1},
		{Content: "b", Score: 0.9},
	}

	r.Rerank(docs)

	if docs[0].Content != "a" || docs[1].Content != "b" {
		t.Error("input slice was reordered")
	}
}

func TestRerankDefaultTopK(t *testing.T) {
	r := NewReranker(0)
	if r.TopK() != 3 {
		t.Errorf("TopK() = %d, want 3", r.TopK())
	}
}
