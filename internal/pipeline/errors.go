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
	"errors"
	"fmt"
)

// ErrEmptyQuery is returned when a query is empty after normalization.
// It is a caller-input problem, not a pipeline failure, and maps to a
// 400 at the HTTP layer.
var ErrEmptyQuery = errors.New("query cannot be empty")

// ErrPipelineNotFound is returned when the requested pipeline does not
// exist.
var ErrPipelineNotFound = errors.New("pipeline not found")

// GenericFailureMessage is the only failure text exposed to callers.
// Stage and cause stay in the server logs.
const GenericFailureMessage = "Failed to process query"

// PipelineError records which stage of the pipeline failed and why. The
// wrapped cause is for logs and errors.Is checks; client responses must
// use GenericFailureMessage instead.
type PipelineError struct {
	Stage Stage
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline stage %s failed: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}
