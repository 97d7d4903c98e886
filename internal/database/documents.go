//-------------------------------------------------------------------------
//
// Product Query RAG Server
//
// Copyright (c) 2026, ProdQuery, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/prodquery/rag-query-server/internal/config"
)

// parseTableIdentifier splits a table name into schema and table parts.
// Supports formats: "table", "schema.table"
func parseTableIdentifier(table string) pgx.Identifier {
	parts := strings.Split(table, ".")
	return pgx.Identifier(parts)
}

// SearchResult represents a single vector search result.
type SearchResult struct {
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
}

// IndexedDocument is a document ready for insertion into the corpus table.
type IndexedDocument struct {
	Content   string
	Source    string
	Embedding []float32
}

// SearchDocuments performs a cosine similarity search over the document
// corpus using pgvector. Results are ordered by similarity (highest first)
// with scores normalized to [0, 1].
func (p *Pool) SearchDocuments(
	ctx context.Context,
	embedding []float32,
	src config.DocumentSource,
	limit int,
) ([]SearchResult, error) {
	// The <=> operator returns cosine distance; 1 - distance is similarity.
	query := fmt.Sprintf(`
		SELECT
			%s AS content,
			%s AS source,
			1 - (%s <=> $1::vector) AS score
		FROM %s
		ORDER BY %s <=> $1::vector
		LIMIT $2`,
		pgx.Identifier{src.ContentColumn}.Sanitize(),
		pgx.Identifier{src.SourceColumn}.Sanitize(),
		pgx.Identifier{src.VectorColumn}.Sanitize(),
		parseTableIdentifier(src.Table).Sanitize(),
		pgx.Identifier{src.VectorColumn}.Sanitize(),
	)

	rows, err := p.pool.Query(ctx, query, pgvector.NewVector(embedding).String(), limit)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Content, &r.Source, &r.Score); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		// Cosine distance ranges over [0, 2]; clamp the similarity into
		// the documented [0, 1] score contract.
		if r.Score < 0 {
			r.Score = 0
		}
		if r.Score > 1 {
			r.Score = 1
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}

// CountDocuments returns the number of documents in the corpus table.
// Returns 0 (not an error) when the table does not exist yet, so callers
// can treat an unbuilt index as empty.
func (p *Pool) CountDocuments(
	ctx context.Context,
	src config.DocumentSource,
) (int64, error) {
	var exists bool
	err := p.pool.QueryRow(ctx,
		"SELECT to_regclass($1) IS NOT NULL", src.Table).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("failed to check corpus table: %w", err)
	}
	if !exists {
		return 0, nil
	}

	query := fmt.Sprintf("SELECT count(*) FROM %s",
		parseTableIdentifier(src.Table).Sanitize())

	var count int64
	if err := p.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}

	return count, nil
}

// EnsureSchema creates the pgvector extension and the corpus table if they
// do not exist. dims is the dimensionality of the embedding column.
func (p *Pool) EnsureSchema(
	ctx context.Context,
	src config.DocumentSource,
	dims int,
) error {
	if _, err := p.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id bigserial PRIMARY KEY,
			%s text NOT NULL,
			%s text NOT NULL,
			%s vector(%d) NOT NULL
		)`,
		parseTableIdentifier(src.Table).Sanitize(),
		pgx.Identifier{src.ContentColumn}.Sanitize(),
		pgx.Identifier{src.SourceColumn}.Sanitize(),
		pgx.Identifier{src.VectorColumn}.Sanitize(),
		dims,
	)

	if _, err := p.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create corpus table: %w", err)
	}

	return nil
}

// ReplaceDocuments atomically replaces the corpus table contents with the
// given documents. Used by the offline indexer.
func (p *Pool) ReplaceDocuments(
	ctx context.Context,
	src config.DocumentSource,
	docs []IndexedDocument,
) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	table := parseTableIdentifier(src.Table).Sanitize()

	if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("failed to clear corpus table: %w", err)
	}

	insert := fmt.Sprintf(
		"INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3::vector)",
		table,
		pgx.Identifier{src.ContentColumn}.Sanitize(),
		pgx.Identifier{src.SourceColumn}.Sanitize(),
		pgx.Identifier{src.VectorColumn}.Sanitize(),
	)

	batch := &pgx.Batch{}
	for _, doc := range docs {
		batch.Queue(insert, doc.Content, doc.Source,
			pgvector.NewVector(doc.Embedding).String())
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert documents: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	return nil
}
