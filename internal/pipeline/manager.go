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
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prodquery/rag-query-server/internal/cache"
	"github.com/prodquery/rag-query-server/internal/config"
	"github.com/prodquery/rag-query-server/internal/database"
	"github.com/prodquery/rag-query-server/internal/index"
	"github.com/prodquery/rag-query-server/internal/llm/factory"
	"github.com/prodquery/rag-query-server/internal/prompts"
)

// Pipeline is a fully wired, named RAG pipeline: database pool, index,
// retriever, responder, and orchestrator.
type Pipeline struct {
	name         string
	description  string
	config       config.Pipeline
	pool         *database.Pool
	orchestrator *Orchestrator
	modelVersion string
	logger       *slog.Logger
}

// Name returns the pipeline's configured name.
func (p *Pipeline) Name() string {
	return p.name
}

// Description returns the pipeline's configured description.
func (p *Pipeline) Description() string {
	return p.description
}

// ModelVersion reports the completion model answering for this pipeline.
func (p *Pipeline) ModelVersion() string {
	return p.modelVersion
}

// Execute runs the pipeline for a raw user query.
func (p *Pipeline) Execute(ctx context.Context, rawQuery string) (*Result, error) {
	return p.orchestrator.Execute(ctx, rawQuery)
}

// Ping verifies the pipeline's database connection.
func (p *Pipeline) Ping(ctx context.Context) error {
	if p.pool == nil {
		return nil
	}
	return p.pool.Ping(ctx)
}

// Close releases the pipeline's resources.
func (p *Pipeline) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// Manager owns the configured pipelines. Pipelines are created at
// startup and immutable afterwards; the manager only reads its map
// after NewManager returns, so lookups need no locking beyond the
// RWMutex guarding Close.
type Manager struct {
	mu          sync.RWMutex
	pipelines   map[string]*Pipeline
	order       []string
	defaultName string
	logger      *slog.Logger
}

// ManagerConfig contains the dependencies for a Manager.
type ManagerConfig struct {
	Config *config.Config
	Logger *slog.Logger
}

// NewManager creates all configured pipelines, connecting to each
// pipeline's database and constructing its providers. The first
// configured pipeline becomes the default for unnamed queries. Any
// pipeline failing to initialize aborts startup and closes the
// pipelines already created.
func NewManager(ctx context.Context, cfg ManagerConfig) (*Manager, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		pipelines: make(map[string]*Pipeline, len(cfg.Config.Pipelines)),
		logger:    logger,
	}

	for _, pc := range cfg.Config.Pipelines {
		p, err := m.createPipeline(ctx, pc)
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("failed to create pipeline %q: %w", pc.Name, err)
		}
		m.pipelines[pc.Name] = p
		m.order = append(m.order, pc.Name)
		if m.defaultName == "" {
			m.defaultName = pc.Name
		}
		logger.Info("pipeline ready",
			"pipeline", pc.Name,
			"database", pc.Database.Database,
			"model", p.ModelVersion(),
		)
	}

	return m, nil
}

func (m *Manager) createPipeline(ctx context.Context, pc config.Pipeline) (*Pipeline, error) {
	logger := m.logger.With("pipeline", pc.Name)

	keys, err := config.NewAPIKeyLoader(pc.APIKeys).
		LoadRequiredKeys([]config.Pipeline{pc})
	if err != nil {
		return nil, err
	}

	pool, err := database.NewPool(ctx, pc.Database)
	if err != nil {
		return nil, err
	}

	embedder, err := factory.NewEmbeddingProvider(
		pc.EmbeddingLLM.Provider, pc.EmbeddingLLM.Model, keys)
	if err != nil {
		pool.Close()
		return nil, err
	}

	completion, err := factory.NewCompletionProvider(
		pc.RAGLLM.Provider, pc.RAGLLM.Model, keys)
	if err != nil {
		pool.Close()
		return nil, err
	}

	templates := prompts.Defaults()
	if pc.PromptsDir != "" {
		templates, err = prompts.Load(pc.PromptsDir)
		if err != nil {
			pool.Close()
			return nil, err
		}
	}

	searcher := index.NewPGVector(index.PGVectorConfig{
		Pool:     pool,
		Embedder: embedder,
		Source:   pc.Documents,
		Logger:   logger,
	})

	retriever := NewRetriever(RetrieverConfig{
		Index:    searcher,
		Reranker: NewReranker(pc.TopK),
		Logger:   logger,
	})

	responder := NewResponder(ResponderConfig{
		Completion:  completion,
		Templates:   templates,
		Cache:       cache.NewLRU(pc.Cache.Capacity, time.Duration(pc.Cache.TTLMinutes)*time.Minute),
		Temperature: pc.RAGLLM.Temperature,
		MaxTokens:   pc.RAGLLM.MaxTokens,
		Logger:      logger,
	})

	orchestrator := NewOrchestrator(OrchestratorConfig{
		Retriever: retriever,
		Responder: responder,
		Logger:    logger,
	})

	return &Pipeline{
		name:         pc.Name,
		description:  pc.Description,
		config:       pc,
		pool:         pool,
		orchestrator: orchestrator,
		modelVersion: completion.ModelName(),
		logger:       logger,
	}, nil
}

// Get returns the named pipeline, or ErrPipelineNotFound.
func (m *Manager) Get(name string) (*Pipeline, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.pipelines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPipelineNotFound, name)
	}
	return p, nil
}

// Default returns the default pipeline (the first one configured).
func (m *Manager) Default() (*Pipeline, error) {
	m.mu.RLock()
	name := m.defaultName
	m.mu.RUnlock()

	if name == "" {
		return nil, ErrPipelineNotFound
	}
	return m.Get(name)
}

// List returns pipeline information in configuration order.
func (m *Manager) List() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]Info, 0, len(m.order))
	for _, name := range m.order {
		p := m.pipelines[name]
		infos = append(infos, Info{
			Name:        p.name,
			Description: p.description,
		})
	}
	return infos
}

// Close shuts down all pipelines.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.pipelines {
		p.Close()
	}
	m.pipelines = make(map[string]*Pipeline)
	m.order = nil
	m.defaultName = ""
}
