package driven

import "context"

// VectorCollection is the external vector store. It indexes text by a
// precomputed embedding and supports nearest-neighbour queries plus
// payload-filtered retrieval. The collection owns ranking; the core never
// re-ranks its results.
type VectorCollection interface {
	// Init creates the collection if it does not exist. Must be called
	// before any other operation.
	Init(ctx context.Context) error

	// Upsert inserts or replaces records by ID.
	Upsert(ctx context.Context, records []VectorRecord) error

	// Get fetches records by ID. Missing IDs are simply absent from the
	// result, not an error.
	Get(ctx context.Context, ids []string) ([]VectorRecord, error)

	// Query returns up to limit records nearest to the embedding,
	// similarity-descending, optionally restricted by a filter.
	Query(ctx context.Context, embedding []float32, limit int, filter *Filter) ([]VectorMatch, error)

	// Scroll returns records matching a payload filter without a
	// similarity query, paging through the collection. A nil filter
	// matches everything. offset is implementation-defined paging state;
	// pass the previous call's next value, or "" to start.
	Scroll(ctx context.Context, filter *Filter, limit int, offset string) (records []VectorRecord, next string, err error)

	// Drop deletes the collection and all its records.
	Drop(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// VectorRecord is one stored point: a document's content, payload and
// embedding keyed by the document identifier.
type VectorRecord struct {
	// ID is the document identifier.
	ID string

	// Content is the document text.
	Content string

	// Embedding is the vector representation of Content. May be empty on
	// read paths that do not return vectors.
	Embedding []float32

	// Payload holds flattened scalar metadata.
	Payload map[string]string
}

// VectorMatch is a similarity query result.
type VectorMatch struct {
	VectorRecord

	// Score is the similarity score as reported by the engine.
	Score float64
}

// Filter restricts queries and scrolls by payload or content. Exact match
// semantics ("contains", range comparison) are delegated to the engine.
type Filter struct {
	// Equals requires payload[key] == value for every entry.
	Equals map[string]string

	// Ranges requires payload[key] to fall within each condition.
	Ranges []RangeCondition

	// ContainsText requires the stored content to contain the substring.
	ContainsText string
}

// RangeCondition is an inclusive range on a payload key. Values are
// zero-padded ISO date strings, so lexicographic order is chronological.
type RangeCondition struct {
	Key string
	GTE string
	LTE string
}
