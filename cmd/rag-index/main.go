//-------------------------------------------------------------------------
//
// Product Query RAG Server
//
// Copyright (c) 2026, ProdQuery, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// rag-index builds the document corpus for a configured pipeline: it
// reads a directory of documents, embeds them, and replaces the
// pipeline's corpus table.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/prodquery/rag-query-server/internal/config"
	"github.com/prodquery/rag-query-server/internal/database"
	"github.com/prodquery/rag-query-server/internal/llm/factory"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// embedBatchSize bounds how many documents are sent to the embedding
// provider per request.
const embedBatchSize = 64

func main() {
	var (
		showVersion  = flag.Bool("version", false, "Show version information")
		configPath   = flag.String("config", "", "Path to configuration file")
		pipelineName = flag.String("pipeline", "", "Pipeline whose corpus to build (default: first configured)")
		docsDir      = flag.String("docs", "", "Directory of documents to index (one document per file)")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("Product Query RAG Indexer\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Build Time: %s\n", buildTime)
		fmt.Printf("  Git Commit: %s\n", gitCommit)
		os.Exit(0)
	}

	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *docsDir == "" {
		fmt.Fprintln(os.Stderr, "rag-index: -docs directory is required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*configPath, *pipelineName, *docsDir, logger); err != nil {
		logger.Error("indexing failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, pipelineName, docsDir string, logger *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	pc, err := selectPipeline(cfg, pipelineName)
	if err != nil {
		return err
	}

	docs, err := readDocuments(docsDir)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("no documents found in %s", docsDir)
	}

	logger.Info("indexing documents",
		"pipeline", pc.Name,
		"documents", len(docs),
		"table", pc.Documents.Table)

	keys, err := config.NewAPIKeyLoader(pc.APIKeys).
		LoadRequiredKeys([]config.Pipeline{pc})
	if err != nil {
		return err
	}

	embedder, err := factory.NewEmbeddingProvider(
		pc.EmbeddingLLM.Provider, pc.EmbeddingLLM.Model, keys)
	if err != nil {
		return err
	}

	ctx := context.Background()

	pool, err := database.NewPool(ctx, pc.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.EnsureSchema(ctx, pc.Documents, embedder.Dimensions()); err != nil {
		return err
	}

	indexed := make([]database.IndexedDocument, 0, len(docs))
	for start := 0; start < len(docs); start += embedBatchSize {
		end := min(start+embedBatchSize, len(docs))
		batch := docs[start:end]

		texts := make([]string, len(batch))
		for i, doc := range batch {
			texts[i] = doc.Content
		}

		embeddings, err := embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("failed to embed documents: %w", err)
		}

		for i, doc := range batch {
			indexed = append(indexed, database.IndexedDocument{
				Content:   doc.Content,
				Source:    doc.Source,
				Embedding: embeddings[i],
			})
		}

		logger.Info("embedded batch", "done", end, "total", len(docs))
	}

	if err := pool.ReplaceDocuments(ctx, pc.Documents, indexed); err != nil {
		return err
	}

	logger.Info("corpus built",
		"pipeline", pc.Name,
		"documents", len(indexed),
		"model", embedder.ModelName())

	return nil
}

// selectPipeline resolves the target pipeline configuration, defaulting
// to the first one configured.
func selectPipeline(cfg *config.Config, name string) (config.Pipeline, error) {
	if len(cfg.Pipelines) == 0 {
		return config.Pipeline{}, fmt.Errorf("no pipelines configured")
	}
	if name == "" {
		return cfg.Pipelines[0], nil
	}
	for _, pc := range cfg.Pipelines {
		if pc.Name == name {
			return pc, nil
		}
	}
	return config.Pipeline{}, fmt.Errorf("pipeline not found: %s", name)
}

type document struct {
	Content string
	Source  string
}

// readDocuments loads every regular file in dir as one document. The file
// name becomes the document's source identifier.
func readDocuments(dir string) ([]document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read documents directory: %w", err)
	}

	var docs []document
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read document %s: %w", entry.Name(), err)
		}

		content := strings.TrimSpace(string(data))
		if content == "" {
			continue
		}

		docs = append(docs, document{
			Content: content,
			Source:  entry.Name(),
		})
	}

	return docs, nil
}
