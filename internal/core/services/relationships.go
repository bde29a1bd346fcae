package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docana-cli/internal/core/domain"
	"github.com/custodia-labs/docana-cli/internal/core/ports/driving"
)

// Ensure RelationshipResolver implements the interface.
var _ driving.RelationshipService = (*RelationshipResolver)(nil)

// defaultSimilarLimit is how many similar documents a relationship view
// carries.
const defaultSimilarLimit = 5

// RelationshipResolver combines explicit reference identifiers from
// document metadata with similarity-search results to produce the
// relationship graph view for a single document. Each call is a stateless
// read composed from independent lookups; nothing is persisted.
type RelationshipResolver struct {
	store driving.StoreService
}

// NewRelationshipResolver creates a resolver over a document store.
func NewRelationshipResolver(store driving.StoreService) *RelationshipResolver {
	return &RelationshipResolver{store: store}
}

// Resolve returns the relationship view for the identified document:
// similar documents, the zero-or-one explicit forward reference, and the
// documents referencing this one. A reference_id naming a missing
// document yields an empty references list, not an error.
func (r *RelationshipResolver) Resolve(ctx context.Context, id string) (*domain.RelationshipView, error) {
	doc, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	similar, err := r.store.FindSimilar(ctx, id, defaultSimilarLimit)
	if err != nil {
		return nil, err
	}

	references := []domain.Document{}
	if ref := doc.ReferenceID(); ref != "" {
		referenced, err := r.store.Get(ctx, ref)
		if err != nil {
			return nil, err
		}
		if referenced != nil {
			references = append(references, *referenced)
		}
	}

	referencedBy, err := r.store.ReferencedBy(ctx, id)
	if err != nil {
		return nil, err
	}

	if similar == nil {
		similar = []domain.Document{}
	}
	return &domain.RelationshipView{
		Similar:      similar,
		References:   references,
		ReferencedBy: referencedBy,
	}, nil
}
