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
	"net/http"
)

// OpenAPISpec represents the OpenAPI v3 specification.
type OpenAPISpec struct {
	OpenAPI    string                 `json:"openapi"`
	Info       OpenAPIInfo            `json:"info"`
	Servers    []OpenAPIServer        `json:"servers"`
	Paths      map[string]OpenAPIPath `json:"paths"`
	Components OpenAPIComponents      `json:"components"`
}

// OpenAPIInfo contains API metadata.
type OpenAPIInfo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

// OpenAPIServer describes a server.
type OpenAPIServer struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// OpenAPIPath contains operations for a path.
type OpenAPIPath struct {
	Get  *OpenAPIOperation `json:"get,omitempty"`
	Post *OpenAPIOperation `json:"post,omitempty"`
}

// OpenAPIOperation describes an API operation.
type OpenAPIOperation struct {
	Summary     string                     `json:"summary"`
	Description string                     `json:"description,omitempty"`
	OperationID string                     `json:"operationId"`
	Tags        []string                   `json:"tags,omitempty"`
	Parameters  []OpenAPIParameter         `json:"parameters,omitempty"`
	RequestBody *OpenAPIRequestBody        `json:"requestBody,omitempty"`
	Responses   map[string]OpenAPIResponse `json:"responses"`
}

// OpenAPIParameter describes a parameter.
type OpenAPIParameter struct {
	Name        string        `json:"name"`
	In          string        `json:"in"`
	Description string        `json:"description,omitempty"`
	Required    bool          `json:"required"`
	Schema      OpenAPISchema `json:"schema"`
}

// OpenAPIRequestBody describes a request body.
type OpenAPIRequestBody struct {
	Description string                      `json:"description,omitempty"`
	Required    bool                        `json:"required"`
	Content     map[string]OpenAPIMediaType `json:"content"`
}

// OpenAPIResponse describes a response.
type OpenAPIResponse struct {
	Description string                      `json:"description"`
	Content     map[string]OpenAPIMediaType `json:"content,omitempty"`
}

// OpenAPIMediaType describes a media type.
type OpenAPIMediaType struct {
	Schema OpenAPISchema `json:"schema"`
}

// OpenAPISchema describes a schema.
type OpenAPISchema struct {
	Type        string                   `json:"type,omitempty"`
	Format      string                   `json:"format,omitempty"`
	Description string                   `json:"description,omitempty"`
	Properties  map[string]OpenAPISchema `json:"properties,omitempty"`
	Items       *OpenAPISchema           `json:"items,omitempty"`
	Required    []string                 `json:"required,omitempty"`
	MinLength   int                      `json:"minLength,omitempty"`
	MaxLength   int                      `json:"maxLength,omitempty"`
	Ref         string                   `json:"$ref,omitempty"`
}

// OpenAPIComponents contains reusable components.
type OpenAPIComponents struct {
	Schemas map[string]OpenAPISchema `json:"schemas"`
}

// handleOpenAPI handles the GET /v1/openapi.json endpoint.
func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, BuildOpenAPISpec())
}

// BuildOpenAPISpec constructs the OpenAPI v3 specification.
// This is exported so it can be used to generate static documentation.
func BuildOpenAPISpec() OpenAPISpec {
	queryResponses := map[string]OpenAPIResponse{
		"200": {
			Description: "Query response",
			Content: map[string]OpenAPIMediaType{
				"application/json": {
					Schema: OpenAPISchema{
						Ref: "#/components/schemas/QueryResponse",
					},
				},
			},
		},
		"400": {
			Description: "Invalid request",
			Content: map[string]OpenAPIMediaType{
				"application/json": {
					Schema: OpenAPISchema{
						Ref: "#/components/schemas/ErrorResponse",
					},
				},
			},
		},
		"500": {
			Description: "Server error",
			Content: map[string]OpenAPIMediaType{
				"application/json": {
					Schema: OpenAPISchema{
						Ref: "#/components/schemas/ErrorResponse",
					},
				},
			},
		},
	}

	queryRequestBody := &OpenAPIRequestBody{
		Description: "Query request",
		Required:    true,
		Content: map[string]OpenAPIMediaType{
			"application/json": {
				Schema: OpenAPISchema{
					Ref: "#/components/schemas/QueryRequest",
				},
			},
		},
	}

	return OpenAPISpec{
		OpenAPI: "3.0.3",
		Info: OpenAPIInfo{
			Title:       "Product Query RAG Server API",
			Description: "REST API for answering product questions with retrieval-augmented generation",
			Version:     "1.0.0",
		},
		Servers: []OpenAPIServer{
			{
				URL:         "/v1",
				Description: "API v1",
			},
		},
		Paths: map[string]OpenAPIPath{
			"/health": {
				Get: &OpenAPIOperation{
					Summary:     "Health check",
					Description: "Check if the server is running and healthy",
					OperationID: "getHealth",
					Tags:        []string{"System"},
					Responses: map[string]OpenAPIResponse{
						"200": {
							Description: "Server is healthy",
							Content: map[string]OpenAPIMediaType{
								"application/json": {
									Schema: OpenAPISchema{
										Ref: "#/components/schemas/HealthResponse",
									},
								},
							},
						},
					},
				},
			},
			"/pipelines": {
				Get: &OpenAPIOperation{
					Summary:     "List pipelines",
					Description: "Get a list of all available RAG pipelines",
					OperationID: "listPipelines",
					Tags:        []string{"Pipelines"},
					Responses: map[string]OpenAPIResponse{
						"200": {
							Description: "List of pipelines",
							Content: map[string]OpenAPIMediaType{
								"application/json": {
									Schema: OpenAPISchema{
										Ref: "#/components/schemas/PipelinesResponse",
									},
								},
							},
						},
					},
				},
			},
			"/query": {
				Post: &OpenAPIOperation{
					Summary:     "Query the default pipeline",
					Description: "Answer a product question using the default RAG pipeline",
					OperationID: "query",
					Tags:        []string{"Queries"},
					RequestBody: queryRequestBody,
					Responses:   queryResponses,
				},
			},
			"/pipelines/{name}/query": {
				Post: &OpenAPIOperation{
					Summary:     "Query a named pipeline",
					Description: "Answer a product question using a specific RAG pipeline",
					OperationID: "queryPipeline",
					Tags:        []string{"Queries"},
					Parameters: []OpenAPIParameter{
						{
							Name:        "name",
							In:          "path",
							Description: "Pipeline name",
							Required:    true,
							Schema: OpenAPISchema{
								Type: "string",
							},
						},
					},
					RequestBody: queryRequestBody,
					Responses: mergeResponses(queryResponses, map[string]OpenAPIResponse{
						"404": {
							Description: "Pipeline not found",
							Content: map[string]OpenAPIMediaType{
								"application/json": {
									Schema: OpenAPISchema{
										Ref: "#/components/schemas/ErrorResponse",
									},
								},
							},
						},
					}),
				},
			},
		},
		Components: OpenAPIComponents{
			Schemas: map[string]OpenAPISchema{
				"HealthResponse": {
					Type: "object",
					Properties: map[string]OpenAPISchema{
						"status": {
							Type:        "string",
							Description: "Health status",
						},
					},
					Required: []string{"status"},
				},
				"PipelinesResponse": {
					Type: "object",
					Properties: map[string]OpenAPISchema{
						"pipelines": {
							Type:        "array",
							Description: "List of available pipelines",
							Items: &OpenAPISchema{
								Ref: "#/components/schemas/PipelineInfo",
							},
						},
					},
					Required: []string{"pipelines"},
				},
				"PipelineInfo": {
					Type: "object",
					Properties: map[string]OpenAPISchema{
						"name": {
							Type:        "string",
							Description: "Pipeline name",
						},
						"description": {
							Type:        "string",
							Description: "Pipeline description",
						},
					},
					Required: []string{"name"},
				},
				"QueryRequest": {
					Type: "object",
					Properties: map[string]OpenAPISchema{
						"user_id": {
							Type:        "string",
							Description: "Identifier of the querying user",
						},
						"query": {
							Type:        "string",
							Description: "The product question to answer",
							MinLength:   MinQueryLength,
							MaxLength:   MaxQueryLength,
						},
					},
					Required: []string{"user_id", "query"},
				},
				"QueryResponse": {
					Type: "object",
					Properties: map[string]OpenAPISchema{
						"user_id": {
							Type:        "string",
							Description: "Identifier of the querying user",
						},
						"response": {
							Type:        "string",
							Description: "The generated answer",
						},
						"sources": {
							Type:        "array",
							Description: "Documents the answer is grounded on",
							Items: &OpenAPISchema{
								Ref: "#/components/schemas/Source",
							},
						},
						"processing_time_ms": {
							Type:        "integer",
							Format:      "int64",
							Description: "Server-side processing time in milliseconds",
						},
						"model_version": {
							Type:        "string",
							Description: "Completion model that produced the answer",
						},
					},
					Required: []string{"user_id", "response", "sources", "processing_time_ms", "model_version"},
				},
				"Source": {
					Type: "object",
					Properties: map[string]OpenAPISchema{
						"source_name": {
							Type:        "string",
							Description: "Source document identifier",
						},
					},
					Required: []string{"source_name"},
				},
				"ErrorResponse": {
					Type: "object",
					Properties: map[string]OpenAPISchema{
						"error": {
							Ref: "#/components/schemas/ErrorDetail",
						},
					},
					Required: []string{"error"},
				},
				"ErrorDetail": {
					Type: "object",
					Properties: map[string]OpenAPISchema{
						"code": {
							Type:        "string",
							Description: "Error code",
						},
						"message": {
							Type:        "string",
							Description: "Error message",
						},
					},
					Required: []string{"code", "message"},
				},
			},
		},
	}
}

// mergeResponses overlays extra responses onto a base response map.
func mergeResponses(base, extra map[string]OpenAPIResponse) map[string]OpenAPIResponse {
	merged := make(map[string]OpenAPIResponse, len(base)+len(extra))
	for code, resp := range base {
		merged[code] = resp
	}
	for code, resp := range extra {
		merged[code] = resp
	}
	return merged
}
