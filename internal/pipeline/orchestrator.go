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
	"time"
)

// Orchestrator executes the pipeline stages in their fixed sequence.
// Stages run strictly one after another; there is no branching, retry,
// or re-entry. A stage error stops execution immediately and nothing
// after it runs.
type Orchestrator struct {
	retriever *Retriever
	responder *Responder
	logger    *slog.Logger
}

// OrchestratorConfig contains the dependencies for an Orchestrator.
type OrchestratorConfig struct {
	Retriever *Retriever
	Responder *Responder
	Logger    *slog.Logger
}

// NewOrchestrator creates an orchestrator over the given stages.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		retriever: cfg.Retriever,
		responder: cfg.Responder,
		logger:    logger,
	}
}

// Execute runs the full pipeline for a raw user query. ErrEmptyQuery is
// returned unwrapped for invalid input; any stage failure is returned as
// a *PipelineError recording the stage and cause.
func (o *Orchestrator) Execute(ctx context.Context, rawQuery string) (*Result, error) {
	start := time.Now()

	query, err := Normalize(rawQuery)
	if err != nil {
		return nil, err
	}

	state := &State{Query: query}

	docs, err := o.retriever.Retrieve(ctx, state.Query)
	if err != nil {
		return nil, o.fail(StageRetrieve, state, err)
	}
	state.Documents = docs

	answer, err := o.responder.Generate(ctx, state.Query, state.Documents)
	if err != nil {
		return nil, o.fail(StageRespond, state, err)
	}
	state.Answer = answer

	o.logger.Info("pipeline completed",
		"documents", len(state.Documents),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Result{
		Answer:  state.Answer,
		Sources: collectSources(state.Documents),
	}, nil
}

func (o *Orchestrator) fail(stage Stage, state *State, err error) error {
	o.logger.Error("pipeline stage failed",
		"stage", string(stage),
		"query", state.Query,
		"error", err,
	)
	return &PipelineError{Stage: stage, Err: err}
}
