// Package mcp provides an MCP (Model Context Protocol) server adapter for
// Docana. It lets AI assistants store, analyse and relate documents through
// the document-analysis services.
package mcp

import "errors"

// ErrMissingStoreService is returned when the store service is not provided.
var ErrMissingStoreService = errors.New("mcp: store service is required")

// ErrMissingAnalysisService is returned when the analysis service is not provided.
var ErrMissingAnalysisService = errors.New("mcp: analysis service is required")

// ErrMissingRelationshipService is returned when the relationship service is not provided.
var ErrMissingRelationshipService = errors.New("mcp: relationship service is required")

// ErrMissingExtractor is returned when the text extractor is not provided.
var ErrMissingExtractor = errors.New("mcp: text extractor is required")
