package driving

import (
	"context"

	"github.com/custodia-labs/docana-cli/internal/core/domain"
)

// AnalysisService turns document content into structured results through
// the LLM provider. Every method degrades instead of failing: a generation
// or parse error yields a structurally valid, clearly-marked empty result
// so batch workflows never abort on one bad document.
type AnalysisService interface {
	// Analyze extracts entities, monetary values, dates and key info
	// from one document.
	Analyze(ctx context.Context, content string, metadata map[string]any) domain.AnalysisResult

	// Summarize generates a summary at the given detail level.
	// Unrecognised levels are coerced to standard.
	Summarize(ctx context.Context, content string, metadata map[string]any, level domain.DetailLevel) domain.DocumentSummary

	// Extract pulls the requested information types out of the content.
	// Every requested type appears as a key in the result, mapping to an
	// empty list on failure, so callers can iterate without existence
	// checks.
	Extract(ctx context.Context, content string, metadata map[string]any, infoTypes []string) map[string]any

	// AnalyzeBatch analyses each document independently, preserving input
	// order. When relationships are supplied, each result's key_info is
	// annotated with the related document IDs; no relationship discovery
	// happens in this path.
	AnalyzeBatch(ctx context.Context, docs []domain.Document, relationships map[string]domain.RelationshipView) []domain.AnalysisResult
}

// RelationshipService resolves the relationship graph view for one
// document: a stateless read composed from independent lookups.
type RelationshipService interface {
	// Resolve returns the relationship view for the identified document.
	// Returns domain.ErrNotFound when the document does not exist. A
	// dangling reference_id yields an empty references list, not an error.
	Resolve(ctx context.Context, id string) (*domain.RelationshipView, error)
}
