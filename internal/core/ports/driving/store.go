package driving

import (
	"context"

	"github.com/custodia-labs/docana-cli/internal/core/domain"
)

// StoreService owns the mapping between a document identifier and its
// stored content and metadata inside the external vector collection.
type StoreService interface {
	// Store creates or updates a document and returns its identifier.
	// An absent identifier is derived deterministically from the content.
	Store(ctx context.Context, doc domain.Document) (string, error)

	// Get retrieves a document by ID. Returns (nil, nil) when no match
	// exists: absence is not an error on this read path.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// FindSimilar returns up to limit documents semantically similar to
	// the identified document, similarity-descending, never including
	// the document itself. Returns domain.ErrNotFound when the document
	// does not exist.
	FindSimilar(ctx context.Context, id string, limit int) ([]domain.Document, error)

	// FindByDateRange returns documents whose date metadata falls within
	// [start, end], both in YYYY-MM-DD form.
	FindByDateRange(ctx context.Context, start, end string) ([]domain.Document, error)

	// FindByEntity returns documents mentioning the entity, combining a
	// similarity query with a substring-containment filter.
	FindByEntity(ctx context.Context, entity string) ([]domain.Document, error)

	// ReferencedBy returns documents whose reference_id metadata names
	// the given document.
	ReferencedBy(ctx context.Context, id string) ([]domain.Document, error)

	// Clear destroys and recreates the collection. Used for test
	// isolation; calling it twice in a row is safe.
	Clear(ctx context.Context) error
}
