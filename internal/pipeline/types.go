//-------------------------------------------------------------------------
//
// Product Query RAG Server
//
// Copyright (c) 2026, ProdQuery, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package pipeline implements the two-stage RAG pipeline: document
// retrieval followed by grounded response generation.
package pipeline

import "github.com/prodquery/rag-query-server/internal/index"

// Stage identifies a step of the pipeline's execution sequence.
type Stage string

// The pipeline advances strictly START -> RETRIEVE -> RESPOND -> DONE.
// Any stage error moves execution to the implicit failed state.
const (
	StageStart    Stage = "start"
	StageRetrieve Stage = "retrieve"
	StageRespond  Stage = "respond"
	StageDone     Stage = "done"
)

// State carries the pipeline's intermediate values between stages. One
// State is created per request and never shared; each field is written
// exactly once by its owning stage (RETRIEVE writes Documents, RESPOND
// writes Answer).
type State struct {
	Query     string
	Documents []index.Document
	Answer    string
}

// Info contains basic pipeline information for listing.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Result is the success envelope emitted when the pipeline reaches DONE:
// the generated answer plus the cited source identifiers, deduplicated in
// retrieval order. Failures are reported as typed errors, never mixed into
// a Result.
type Result struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}
