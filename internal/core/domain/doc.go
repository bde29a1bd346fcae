// Package domain defines the core business entities for Docana.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: a stored document with content and metadata
//   - AnalysisResult: structured output of document analysis
//   - DocumentSummary: a generated summary at a chosen detail level
//   - RelationshipView: similarity and reference links for one document
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
