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

func TestFormatContext(t *testing.T) {
	docs := []index.Document{
		{Content: "The X3 has a 2-year warranty.", Source: "x3.pdf", Score: 0.9},
		{Content: "Battery lasts 12 hours.", Source: "battery.pdf", Score: 0.5},
	}

	got := FormatContext(docs)
	want := "Content: The X3 has a 2-year warranty.\nSource: x3.pdf\n\n" +
		"Content: Battery lasts 12 hours.\nSource: battery.pdf"

	if got != want {
		t.Errorf("FormatContext() = %q, want %q", got, want)
	}
}

func TestFormatContextEmpty(t *testing.T) {
	if got := FormatContext(nil); got != "" {
		t.Errorf("FormatContext(nil) = %q, want empty string", got)
	}
	if got := FormatContext([]index.Document{}); got != "" {
		t.Errorf("FormatContext(empty) = %q, want empty string", got)
	}
}

func TestFormatContextMissingSource(t *testing.T) {
	got := FormatContext([]index.Document{{Content: "orphaned text", Score: 0.3}})
	want := "Content: orphaned text\nSource: unknown"

	if got != want {
		t.Errorf("FormatContext() = %q, want %q", got, want)
	}
}

func TestCollectSources(t *testing.T) {
	docs := []index.Document{
		{Content: "a", Source: "x3.pdf"},
		{Content: "b", Source: "y.pdf"},
		{Content: "c", Source: "x3.pdf"},
		{Content: "d", Source: ""},
	}

	got := collectSources(docs)
	want := []string{"x3.pdf", "y.pdf", "unknown"}

	if len(got) != len(want) {
		t.Fatalf("got %d sources %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("source %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
