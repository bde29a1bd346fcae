package mcp

import (
	"github.com/custodia-labs/docana-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docana-cli/internal/core/ports/driving"
)

// Ports aggregates all port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Store owns document persistence and lookups.
	Store driving.StoreService

	// Analysis turns document content into structured results.
	Analysis driving.AnalysisService

	// Relationships resolves the relationship view for a document.
	Relationships driving.RelationshipService

	// Extractor converts files into plain text for the file-based tools.
	Extractor driven.TextExtractor
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Store == nil {
		return ErrMissingStoreService
	}
	if p.Analysis == nil {
		return ErrMissingAnalysisService
	}
	if p.Relationships == nil {
		return ErrMissingRelationshipService
	}
	if p.Extractor == nil {
		return ErrMissingExtractor
	}
	return nil
}
