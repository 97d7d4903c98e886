//-------------------------------------------------------------------------
//
// Product Query RAG Server
//
// Copyright (c) 2026, ProdQuery, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/prodquery/rag-query-server/internal/pipeline"
)

// Query length bounds enforced at the API boundary. The pipeline itself
// only rejects empty queries; the wire contract is stricter.
const (
	MinQueryLength = 3
	MaxQueryLength = 200
)

// QueryRequest is the request body for the query endpoints.
type QueryRequest struct {
	UserID string `json:"user_id"`
	Query  string `json:"query"`
}

// QueryResponse is the response body for a successful query.
type QueryResponse struct {
	UserID           string   `json:"user_id"`
	Response         string   `json:"response"`
	Sources          []Source `json:"sources"`
	ProcessingTimeMS int64    `json:"processing_time_ms"`
	ModelVersion     string   `json:"model_version"`
}

// Source identifies a document cited in the response.
type Source struct {
	SourceName string `json:"source_name"`
}

// HealthResponse is the response for the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// PipelinesResponse is the response for the list pipelines endpoint.
type PipelinesResponse struct {
	Pipelines []pipeline.Info `json:"pipelines"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleHealth handles the GET /v1/health endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

// handleListPipelines handles the GET /v1/pipelines endpoint.
func (s *Server) handleListPipelines(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, PipelinesResponse{Pipelines: s.pipelines.List()})
}

// handleQuery handles POST /v1/query against the default pipeline.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	p, err := s.pipelines.Default()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"no pipelines configured")
		return
	}

	s.executeQuery(w, r, p)
}

// handlePipelineQuery handles POST /v1/pipelines/{name}/query.
func (s *Server) handlePipelineQuery(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		s.respondError(w, http.StatusBadRequest, "INVALID_REQUEST",
			"pipeline name required")
		return
	}

	p, err := s.pipelines.Get(name)
	if err != nil {
		if errors.Is(err, pipeline.ErrPipelineNotFound) {
			s.respondError(w, http.StatusNotFound, "PIPELINE_NOT_FOUND",
				"pipeline not found: "+name)
			return
		}
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"failed to resolve pipeline")
		return
	}

	s.executeQuery(w, r, p)
}

// executeQuery validates the request body, runs the pipeline, and writes
// the response envelope.
func (s *Server) executeQuery(w http.ResponseWriter, r *http.Request, p *pipeline.Pipeline) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "INVALID_REQUEST",
			"invalid request body: "+err.Error())
		return
	}

	if code, msg, ok := validateQueryRequest(req); !ok {
		s.respondError(w, http.StatusBadRequest, code, msg)
		return
	}

	if p == nil {
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"pipeline is nil")
		return
	}

	start := time.Now()

	result, err := p.Execute(r.Context(), req.Query)
	if err != nil {
		s.respondPipelineError(w, p.Name(), err)
		return
	}

	sources := make([]Source, 0, len(result.Sources))
	for _, name := range result.Sources {
		sources = append(sources, Source{SourceName: name})
	}

	s.respondJSON(w, http.StatusOK, QueryResponse{
		UserID:           req.UserID,
		Response:         result.Answer,
		Sources:          sources,
		ProcessingTimeMS: time.Since(start).Milliseconds(),
		ModelVersion:     p.ModelVersion(),
	})
}

// validateQueryRequest enforces the wire contract: user_id present, query
// present and within length bounds.
func validateQueryRequest(req QueryRequest) (code, msg string, ok bool) {
	if req.UserID == "" {
		return "INVALID_REQUEST", "user_id is required", false
	}
	if req.Query == "" {
		return "INVALID_REQUEST", "query is required", false
	}
	if n := utf8.RuneCountInString(req.Query); n < MinQueryLength || n > MaxQueryLength {
		return "INVALID_REQUEST", "query must be between 3 and 200 characters", false
	}
	return "", "", true
}

// respondPipelineError maps pipeline errors onto the wire contract. Input
// problems are 400s with the friendly message; everything else is a 500
// carrying only the generic failure text. The cause is already in the
// pipeline's logs.
func (s *Server) respondPipelineError(w http.ResponseWriter, pipelineName string, err error) {
	if errors.Is(err, pipeline.ErrEmptyQuery) {
		s.respondError(w, http.StatusBadRequest, "INVALID_REQUEST",
			pipeline.InvalidQueryMessage)
		return
	}

	s.logger.Error("query failed",
		"pipeline", pipelineName,
		"error", err)
	s.respondError(w, http.StatusInternalServerError, "EXECUTION_ERROR",
		pipeline.GenericFailureMessage)
}

// respondJSON sends a JSON response with RFC 8631 Link header for API discovery.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	// RFC 8631: Link header for API documentation discovery
	w.Header().Set("Link", `</v1/openapi.json>; rel="service-desc"`)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// respondError sends an error response.
func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
